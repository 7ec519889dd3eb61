package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/healinghorizons/dashboard/internal/dashboard"
	"github.com/healinghorizons/dashboard/internal/download"
	"github.com/healinghorizons/dashboard/internal/events"
	"github.com/healinghorizons/dashboard/internal/journal"
	"github.com/healinghorizons/dashboard/internal/notify"
)

type Service interface {
	MountCharts(containers []string) ([]string, error)
	Charts() []dashboard.ChartInfo
	Chart(name string) (dashboard.ChartInfo, error)
	UpdateChart(name string, series []float64) (bool, error)
	RenderChart(ctx context.Context, name, format string) (download.File, error)
	ExportChart(ctx context.Context, name, format string) (bool, error)
	DestroyCharts() error
	Trend(length int, volatility float64) ([]float64, []string, error)
	ViewportSize() (int, int)

	SaveEntry(ctx context.Context, content, mood string, tags []string) (journal.Entry, error)
	ListEntries(ctx context.Context) ([]journal.Entry, error)
	DeleteEntry(id string) error
	Stats(ctx context.Context) (journal.Stats, error)
	ExportJournal(ctx context.Context) (dashboard.ExportResult, error)
	AnalyzeEntry(ctx context.Context, content string) (dashboard.AnalysisOutcome, error)
	Form() *dashboard.Form

	ListDownloads() ([]download.Meta, error)
	ReadDownload(id string) ([]byte, download.Meta, error)
	DeleteDownload(id string) error

	Theme() string
	SetTheme(theme string) error
	Bus() *events.Bus
}

// NewServer builds the HTTP handler. hub may be nil, in which case the
// notification endpoints are not mounted.
func NewServer(svc Service, hub *notify.Hub) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("Healing Horizons Dashboard API", "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(docsHTML)); err != nil {
			slog.Debug("docs response write failed", "error", err)
		}
	})
	router.Get("/docs/notifications", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(notificationDocsHTML)); err != nil {
			slog.Debug("docs response write failed", "error", err)
		}
	})

	registerChartHandlers(api, svc)
	registerTrendHandlers(api, svc)
	registerJournalHandlers(api, svc)
	registerAnalysisHandlers(api, svc)
	registerDownloadHandlers(api, svc)
	registerUIHandlers(api, svc)
	if hub != nil {
		router.Get("/api/v1/notifications/stream", notify.SSEHandler(hub))
		router.Get("/api/v1/notifications/ws", notify.WSHandler(hub))
		registerNotificationHandlers(api, hub)
	}

	return router
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *dashboard.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case dashboard.CodeValidation:
			return huma.Error400BadRequest(coded.Message)
		case dashboard.CodeChartNotFound, dashboard.CodeNotFound:
			return huma.Error404NotFound(coded.Message)
		case dashboard.CodeNoEntries:
			return huma.Error409Conflict(coded.Message)
		case dashboard.CodeAnalysisFailed:
			return huma.Error502BadGateway(coded.Message)
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return huma.Error504GatewayTimeout(err.Error())
	}
	return huma.Error500InternalServerError(err.Error())
}
