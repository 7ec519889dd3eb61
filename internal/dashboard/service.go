// Package dashboard composes charts, journal, analysis and preferences into the
// operations the dashboard page performs.
package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/healinghorizons/dashboard/internal/analysis"
	"github.com/healinghorizons/dashboard/internal/chart"
	"github.com/healinghorizons/dashboard/internal/clipboard"
	"github.com/healinghorizons/dashboard/internal/events"
	"github.com/healinghorizons/dashboard/internal/journal"
	"github.com/healinghorizons/dashboard/internal/notify"
	"github.com/healinghorizons/dashboard/internal/trend"
)

// Analyzer classifies journal text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (analysis.Result, error)
}

// Auditor records analysis outcomes.
type Auditor interface {
	Write(rec analysis.Record) error
}

// Presenter shows toasts, modals and the loading indicator.
type Presenter interface {
	Toast(level notify.Level, message string)
	ShowModal(m notify.Modal)
	SetLoading(visible bool)
}

// EntryStore persists journal entries.
type EntryStore interface {
	Save(e *journal.Entry) error
	Get(id string) (journal.Entry, error)
	List(ctx context.Context) ([]journal.Entry, error)
	Delete(id string) error
}

// ThemeStore persists the theme preference.
type ThemeStore interface {
	Theme() string
	SetTheme(theme string) error
	Toggle() (string, error)
}

// Deps are the collaborators a Service is built from. Audit is optional.
type Deps struct {
	Registry       *chart.Registry
	Presets        []chart.Spec
	Generator      *trend.Generator
	Factory        chart.Factory
	Viewport       *chart.Viewport
	ResizeDebounce time.Duration

	Analyzer  Analyzer
	Audit     Auditor
	Presenter Presenter
	Form      *Form

	Entries   EntryStore
	Prefs     ThemeStore
	Clipboard clipboard.Writer
	Downloads chart.Downloader

	Now func() time.Time
}

// Service performs dashboard operations. It is safe for concurrent use.
type Service struct {
	charts    *chart.Registry
	presets   []chart.Spec
	gen       *trend.Generator
	factory   chart.Factory
	viewport  *chart.Viewport
	resize    *chart.Debouncer
	analyzer  Analyzer
	audit     Auditor
	presenter Presenter
	form      *Form
	entries   EntryStore
	prefs     ThemeStore
	clip      clipboard.Writer
	downloads chart.Downloader
	bus       *events.Bus
	now       func() time.Time
}

// NewService wires d into a Service and registers its UI event handlers.
func NewService(d Deps) *Service {
	s := &Service{
		charts:    d.Registry,
		presets:   d.Presets,
		gen:       d.Generator,
		factory:   d.Factory,
		viewport:  d.Viewport,
		analyzer:  d.Analyzer,
		audit:     d.Audit,
		presenter: d.Presenter,
		form:      d.Form,
		entries:   d.Entries,
		prefs:     d.Prefs,
		clip:      d.Clipboard,
		downloads: d.Downloads,
		bus:       events.NewBus(),
		now:       d.Now,
	}
	if s.charts == nil {
		s.charts = chart.NewRegistry()
	}
	if s.gen == nil {
		s.gen = trend.New(nil)
	}
	if s.viewport == nil {
		s.viewport = chart.NewViewport(800, 400)
	}
	if s.form == nil {
		s.form = NewForm()
	}
	if s.now == nil {
		s.now = time.Now
	}
	window := d.ResizeDebounce
	if window <= 0 {
		window = chart.DefaultResizeDebounce
	}
	s.resize = chart.NewDebouncer(window, func() {
		if err := s.charts.ResizeAll(); err != nil {
			slog.Warn("chart resize failed", "error", err)
		}
	})
	s.registerHandlers()
	return s
}

func (s *Service) registerHandlers() {
	events.Register(s.bus, func(_ context.Context, e events.Resized) error {
		return s.ResizeCharts(e.Width, e.Height)
	})
	events.Register(s.bus, func(_ context.Context, e events.MoodSelected) error {
		if !s.form.Select(e.Mood) {
			slog.Debug("mood option absent, selection skipped", "mood", e.Mood)
		}
		return nil
	})
	events.Register(s.bus, func(_ context.Context, e events.CopyRequested) error {
		s.CopyText(e.Text)
		return nil
	})
	events.Register(s.bus, func(ctx context.Context, e events.AnalyzeRequested) error {
		_, err := s.AnalyzeEntry(ctx, e.Content)
		return err
	})
	events.Register(s.bus, func(ctx context.Context, _ events.ExportRequested) error {
		_, err := s.ExportJournal(ctx)
		return err
	})
	events.Register(s.bus, func(context.Context, events.ThemeToggled) error {
		_, err := s.ToggleTheme()
		return err
	})
}

// Bus exposes the UI event bus.
func (s *Service) Bus() *events.Bus { return s.bus }

// Registry exposes the chart registry.
func (s *Service) Registry() *chart.Registry { return s.charts }

// Form exposes the journal form state.
func (s *Service) Form() *Form { return s.form }

func (s *Service) requireNonEmpty(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return &CodedError{Code: CodeValidation, Message: fieldName + " is required"}
	}
	return nil
}

func (s *Service) toast(level notify.Level, message string) {
	if s.presenter != nil {
		s.presenter.Toast(level, message)
	}
}

// Close cancels a pending resize and destroys every chart.
func (s *Service) Close() error {
	s.resize.Stop()
	return s.DestroyCharts()
}
