package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/healinghorizons/dashboard/internal/analysis"
	"github.com/healinghorizons/dashboard/internal/api"
	"github.com/healinghorizons/dashboard/internal/chart"
	"github.com/healinghorizons/dashboard/internal/clipboard"
	"github.com/healinghorizons/dashboard/internal/config"
	"github.com/healinghorizons/dashboard/internal/dashboard"
	"github.com/healinghorizons/dashboard/internal/download"
	"github.com/healinghorizons/dashboard/internal/journal"
	"github.com/healinghorizons/dashboard/internal/netutil"
	"github.com/healinghorizons/dashboard/internal/notify"
	"github.com/healinghorizons/dashboard/internal/prefs"
	"github.com/healinghorizons/dashboard/internal/render"
	"github.com/healinghorizons/dashboard/internal/trend"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load dashboard config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		if _, writeErr := io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n"); writeErr != nil {
			slog.Debug("logger setup stderr write failed", "error", writeErr)
		}
		os.Exit(1)
	}

	slog.Info("hh_dashboard config loaded",
		"bind_addr", cfg.BindAddr,
		"port_auto_fallback", cfg.PortAutoFallback,
		"port_candidates", cfg.PortCandidates,
		"data_dir", cfg.DataDir,
		"export_dir", cfg.ExportDir,
		"analyze_url", cfg.AnalyzeURL,
		"resize_debounce_ms", cfg.ResizeDebounceMS,
		"cdp_url", cfg.CDPURL,
		"chrome_local", cfg.ChromeLocal,
		"ntfy_enabled", cfg.NtfyEndpoint != "",
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	ln, err := netutil.Bind(cfg.BindAddr, cfg.PortCandidates, cfg.PortAutoFallback)
	if err != nil {
		slog.Error("failed to bind", "preferred", cfg.BindAddr, "error", err)
		os.Exit(1)
	}
	bindAddr := ln.Addr().String()

	entries, err := journal.NewStore(filepath.Join(cfg.DataDir, "journal"))
	if err != nil {
		slog.Error("failed to open journal store", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	prefStore, err := prefs.NewStore(filepath.Join(cfg.DataDir, "prefs"))
	if err != nil {
		slog.Error("failed to open preference store", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	downloads, err := download.NewStore(cfg.ExportDir)
	if err != nil {
		slog.Error("failed to create download store", "dir", cfg.ExportDir, "error", err)
		os.Exit(1)
	}

	presets, err := chart.DefaultPresets()
	if err != nil {
		slog.Error("failed to load chart presets", "error", err)
		os.Exit(1)
	}

	var fwd notify.Forwarder
	if cfg.NtfyEndpoint != "" {
		fwd = &notify.NtfyForwarder{Endpoint: cfg.NtfyEndpoint, Client: &http.Client{Timeout: 10 * time.Second}}
	}
	hub := notify.NewHub(fwd)

	audit := analysis.NewAuditWriter(cfg.AnalysisLogDir, 1000, 50)
	defer func() {
		if err := audit.Close(); err != nil {
			slog.Debug("audit writer close failed", "error", err)
		}
	}()

	viewport := chart.NewViewport(cfg.ChartWidth, cfg.ChartHeight)
	var renderOpts []render.Option
	if cfg.Rasterize() {
		raster := render.NewChromeRasterizer(cfg.CDPURL, 15*time.Second)
		defer func() {
			if err := raster.Close(); err != nil {
				slog.Debug("rasterizer close failed", "error", err)
			}
		}()
		renderOpts = append(renderOpts, render.WithRasterizer(raster))
	}

	svc := dashboard.NewService(dashboard.Deps{
		Presets:        presets,
		Generator:      trend.New(nil),
		Factory:        render.Factory(viewport.Size, renderOpts...),
		Viewport:       viewport,
		ResizeDebounce: cfg.ResizeDebounce(),
		Analyzer: analysis.NewClient(cfg.AnalyzeURL,
			&http.Client{Timeout: cfg.AnalyzeTimeout()},
			analysis.StaticToken(cfg.CSRFToken)),
		Audit:     audit,
		Presenter: hub,
		Entries:   entries,
		Prefs:     prefStore,
		Clipboard: clipboard.System{},
		Downloads: downloads,
	})
	defer func() {
		if err := svc.Close(); err != nil {
			slog.Debug("dashboard close failed", "error", err)
		}
	}()

	mounted, err := svc.MountCharts(nil)
	if err != nil {
		slog.Error("failed to mount charts", "error", err)
		os.Exit(1)
	}
	slog.Info("charts mounted", "charts", mounted)

	srv := &http.Server{Handler: api.NewServer(svc, hub)}

	go func() {
		slog.Info("hh_dashboard listening", "addr", bindAddr, "docs", netutil.ListenURL(bindAddr)+"/docs")
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("hh_dashboard server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("hh_dashboard shutdown failed", "error", err)
	}
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
