// Package commands implements the hhctl command tree.
package commands

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/healinghorizons/dashboard/internal/analysis"
	"github.com/healinghorizons/dashboard/internal/chart"
	"github.com/healinghorizons/dashboard/internal/clipboard"
	"github.com/healinghorizons/dashboard/internal/config"
	"github.com/healinghorizons/dashboard/internal/dashboard"
	"github.com/healinghorizons/dashboard/internal/download"
	"github.com/healinghorizons/dashboard/internal/journal"
	"github.com/healinghorizons/dashboard/internal/prefs"
	"github.com/healinghorizons/dashboard/internal/render"
)

const (
	chartWidth  = 800
	chartHeight = 400

	// sample scores use the dashboard's 1..10 wellbeing scale
	sampleMin = 1
	sampleMax = 10
)

// New returns the hhctl root command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hhctl",
		Short: "Healing Horizons journal and dashboard tools.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addTrend(topLevel)
	addAnalyze(topLevel)
	addEntries(topLevel)
	addStats(topLevel)
	addExport(topLevel)
	addChart(topLevel)
	addTheme(topLevel)
	addCopy(topLevel)
	addVersion(topLevel)
}

// loadService builds a dashboard service over the CLI configuration. Toasts
// and modals are printed to the command's output.
func loadService(cmd *cobra.Command) (*dashboard.Service, error) {
	cfg, err := config.LoadCLI()
	if err != nil {
		return nil, err
	}
	entries, err := journal.NewStore(filepath.Join(cfg.DataDir, "journal"))
	if err != nil {
		return nil, err
	}
	prefStore, err := prefs.NewStore(filepath.Join(cfg.DataDir, "prefs"))
	if err != nil {
		return nil, err
	}
	presets, err := chart.DefaultPresets()
	if err != nil {
		return nil, err
	}
	viewport := chart.NewViewport(chartWidth, chartHeight)

	return dashboard.NewService(dashboard.Deps{
		Presets:  presets,
		Factory:  render.Factory(viewport.Size),
		Viewport: viewport,
		Analyzer: analysis.NewClient(cfg.AnalyzeURL,
			&http.Client{Timeout: 30 * time.Second},
			analysis.StaticToken(cfg.CSRFToken)),
		Presenter: newConsole(cmd.OutOrStdout(), cfg.NtfyURL),
		Entries:   entries,
		Prefs:     prefStore,
		Clipboard: clipboard.System{},
		Downloads: download.Dir{Path: cfg.ExportDir},
	}), nil
}

func closeService(svc *dashboard.Service) {
	if err := svc.Close(); err != nil {
		slog.Debug("dashboard close failed", "error", err)
	}
}
