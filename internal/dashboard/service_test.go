package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/healinghorizons/dashboard/internal/analysis"
	"github.com/healinghorizons/dashboard/internal/chart"
	"github.com/healinghorizons/dashboard/internal/clipboard"
	"github.com/healinghorizons/dashboard/internal/download"
	"github.com/healinghorizons/dashboard/internal/events"
	"github.com/healinghorizons/dashboard/internal/journal"
	"github.com/healinghorizons/dashboard/internal/notify"
	"github.com/healinghorizons/dashboard/internal/prefs"
	"github.com/healinghorizons/dashboard/internal/trend"
)

type fakeAnalyzer struct {
	res   analysis.Result
	err   error
	calls int
}

func (f *fakeAnalyzer) Analyze(context.Context, string) (analysis.Result, error) {
	f.calls++
	return f.res, f.err
}

type toast struct {
	level   notify.Level
	message string
}

type recordingPresenter struct {
	mu      sync.Mutex
	toasts  []toast
	modals  []notify.Modal
	loading []bool
	visible bool
}

func (p *recordingPresenter) Toast(level notify.Level, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toasts = append(p.toasts, toast{level, message})
}

func (p *recordingPresenter) ShowModal(m notify.Modal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.modals = append(p.modals, m)
}

func (p *recordingPresenter) SetLoading(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = append(p.loading, visible)
	p.visible = visible
}

type recordingAuditor struct{ recs []analysis.Record }

func (a *recordingAuditor) Write(rec analysis.Record) error {
	a.recs = append(a.recs, rec)
	return nil
}

type stubHandle struct {
	mu      sync.Mutex
	primary []float64
	resizes int
	spec    chart.Spec
}

func (h *stubHandle) SetPrimary(series []float64) []float64 {
	prev := h.primary
	h.primary = series
	return prev
}

func (h *stubHandle) Redraw() error { return nil }
func (h *stubHandle) Resize() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resizes++
	return nil
}
func (h *stubHandle) Render(format string) ([]byte, error) { return []byte("img:" + format), nil }
func (h *stubHandle) Destroy() error                       { return nil }
func (h *stubHandle) Spec() chart.Spec                     { return h.spec }

type fixture struct {
	svc       *Service
	analyzer  *fakeAnalyzer
	presenter *recordingPresenter
	audit     *recordingAuditor
	downloads *download.Buffer
	clip      *clipboard.Memory
	handles   map[string]*stubHandle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	entries, err := journal.NewStore(dir + "/journal")
	if err != nil {
		t.Fatalf("journal.NewStore() error = %v", err)
	}
	themes, err := prefs.NewStore(dir + "/prefs")
	if err != nil {
		t.Fatalf("prefs.NewStore() error = %v", err)
	}
	presets, err := chart.DefaultPresets()
	if err != nil {
		t.Fatalf("DefaultPresets() error = %v", err)
	}
	f := &fixture{
		analyzer:  &fakeAnalyzer{},
		presenter: &recordingPresenter{},
		audit:     &recordingAuditor{},
		downloads: &download.Buffer{},
		clip:      &clipboard.Memory{},
		handles:   map[string]*stubHandle{},
	}
	f.svc = NewService(Deps{
		Presets:   presets,
		Generator: trend.NewSeeded(3),
		Factory: func(spec chart.Spec) (chart.Handle, error) {
			h := &stubHandle{spec: spec}
			f.handles[spec.Name] = h
			return h, nil
		},
		ResizeDebounce: 20 * time.Millisecond,
		Analyzer:       f.analyzer,
		Audit:          f.audit,
		Presenter:      f.presenter,
		Entries:        entries,
		Prefs:          themes,
		Clipboard:      f.clip,
		Downloads:      f.downloads,
		Now:            func() time.Time { return time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(func() { _ = f.svc.Close() })
	return f
}

func (f *fixture) lastToast(t *testing.T) toast {
	t.Helper()
	if len(f.presenter.toasts) == 0 {
		t.Fatal("no toast shown")
	}
	return f.presenter.toasts[len(f.presenter.toasts)-1]
}

func codeOf(err error) string {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func TestRequireNonEmpty(t *testing.T) {
	s := &Service{}
	if err := s.requireNonEmpty("x", "name"); err != nil {
		t.Fatalf("requireNonEmpty() = %v; want nil", err)
	}
	err := s.requireNonEmpty("  ", "name")
	var got *CodedError
	if !errors.As(err, &got) {
		t.Fatalf("requireNonEmpty() = %T; want *CodedError", err)
	}
	if got.Code != CodeValidation || got.Message != "name is required" {
		t.Fatalf("requireNonEmpty() = %+v", got)
	}
}

func TestAnalyzeImprovingSelectsHopeful(t *testing.T) {
	f := newFixture(t)
	f.analyzer.res = analysis.Result{Mood: "improving", NextSteps: []string{"Take a walk"}}

	out, err := f.svc.AnalyzeEntry(context.Background(), "I slept well and feel lighter today.")
	if err != nil {
		t.Fatalf("AnalyzeEntry() error = %v", err)
	}
	if out.Mood != "hopeful" || !out.Selected {
		t.Fatalf("outcome = %+v; want hopeful selected", out)
	}
	if got := f.svc.Form().Selected(); got != "hopeful" {
		t.Fatalf("Selected() = %q; want hopeful", got)
	}
	if got := f.lastToast(t); got.level != notify.LevelSuccess || !strings.Contains(got.message, "hopeful") {
		t.Fatalf("toast = %+v; want success mentioning hopeful", got)
	}
	if len(f.presenter.modals) != 1 || f.presenter.modals[0].Steps[0] != "Take a walk" {
		t.Fatalf("modals = %+v", f.presenter.modals)
	}
	if f.presenter.visible {
		t.Fatal("loading indicator left visible")
	}
	if len(f.audit.recs) != 1 || f.audit.recs[0].Mood != "hopeful" {
		t.Fatalf("audit = %+v", f.audit.recs)
	}
}

func TestAnalyzeFailureLeavesSelection(t *testing.T) {
	f := newFixture(t)
	f.svc.Form().Select("sad")
	f.analyzer.err = &analysis.AnalysisError{Status: 200, Err: errors.New("decode body")}

	_, err := f.svc.AnalyzeEntry(context.Background(), "Some longer journal text")
	if codeOf(err) != CodeAnalysisFailed {
		t.Fatalf("AnalyzeEntry() error = %v; want ANALYSIS_FAILED", err)
	}
	if got := f.svc.Form().Selected(); got != "sad" {
		t.Fatalf("Selected() = %q; want unchanged sad", got)
	}
	if got := f.lastToast(t); got.level != notify.LevelError || got.message != "Could not analyze text. Try again." {
		t.Fatalf("toast = %+v", got)
	}
	if len(f.presenter.modals) != 0 {
		t.Fatal("modal shown after failure")
	}
	if f.presenter.visible || len(f.presenter.loading) != 2 {
		t.Fatalf("loading = %v; want shown then hidden", f.presenter.loading)
	}
	if f.audit.recs[0].Status != 200 || f.audit.recs[0].Error == "" {
		t.Fatalf("audit = %+v", f.audit.recs[0])
	}
}

func TestAnalyzeShortDraftIsNotSent(t *testing.T) {
	f := newFixture(t)
	out, err := f.svc.AnalyzeEntry(context.Background(), "  hey ")
	if err != nil || !out.Skipped {
		t.Fatalf("AnalyzeEntry() = (%+v, %v); want skipped", out, err)
	}
	if f.analyzer.calls != 0 {
		t.Fatalf("analyzer calls = %d; want 0", f.analyzer.calls)
	}
	if got := f.lastToast(t); got.level != notify.LevelInfo || got.message != "Please write a bit more first..." {
		t.Fatalf("toast = %+v", got)
	}
}

func TestAnalyzeMissingOptionSkipsSelection(t *testing.T) {
	f := newFixture(t)
	f.svc.form = NewForm("happy", "sad")
	f.analyzer.res = analysis.Result{Mood: "neutral"}

	out, err := f.svc.AnalyzeEntry(context.Background(), "Just an ordinary day.")
	if err != nil {
		t.Fatalf("AnalyzeEntry() error = %v", err)
	}
	if out.Selected || f.svc.Form().Selected() != "" {
		t.Fatalf("outcome = %+v; want no selection", out)
	}
	for _, tt := range f.presenter.toasts {
		if tt.level == notify.LevelSuccess {
			t.Fatalf("unexpected success toast %+v", tt)
		}
	}
	if len(f.presenter.modals) != 1 {
		t.Fatal("modal must still be shown")
	}
}

func TestExportWithNoEntries(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ExportJournal(context.Background())
	if codeOf(err) != CodeNoEntries {
		t.Fatalf("ExportJournal() error = %v; want NO_ENTRIES", err)
	}
	if f.downloads.Len() != 0 {
		t.Fatalf("downloads = %d; want 0", f.downloads.Len())
	}
	if got := f.lastToast(t); got.level != notify.LevelError || got.message != "No entries to export" {
		t.Fatalf("toast = %+v", got)
	}
}

func TestSaveEntryThenExport(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.MountCharts([]string{"mood"}); err != nil {
		t.Fatalf("MountCharts() error = %v", err)
	}
	if _, err := f.svc.SaveEntry(context.Background(), "A calm evening", "happy", nil); err != nil {
		t.Fatalf("SaveEntry() error = %v", err)
	}
	if got := f.handles["mood"].primary; len(got) != 1 || got[0] != 8 {
		t.Fatalf("mood chart primary = %v; want [8]", got)
	}

	res, err := f.svc.ExportJournal(context.Background())
	if err != nil {
		t.Fatalf("ExportJournal() error = %v", err)
	}
	if res.Filename != "healing-horizons-journal-2026-06-10.json" || res.TotalEntries != 1 {
		t.Fatalf("ExportJournal() = %+v", res)
	}
	files := f.downloads.Files()
	if len(files) != 1 || files[0].ContentType != "application/json" {
		t.Fatalf("downloads = %+v", files)
	}
	if got := f.lastToast(t); got.message != "Journal exported successfully!" {
		t.Fatalf("toast = %+v", got)
	}
}

func TestSaveEntryRequiresContent(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.SaveEntry(context.Background(), " ", "sad", nil); codeOf(err) != CodeValidation {
		t.Fatalf("SaveEntry() error = %v; want VALIDATION", err)
	}
}

func TestCopyText(t *testing.T) {
	f := newFixture(t)
	if !f.svc.CopyText("Every end is a new beginning in disguise.") {
		t.Fatal("CopyText() = false")
	}
	if got := f.lastToast(t); got.level != notify.LevelSuccess || got.message != "Copied to clipboard!" {
		t.Fatalf("toast = %+v", got)
	}
	f.clip.Err = errors.New("denied")
	if f.svc.CopyText("x") {
		t.Fatal("CopyText() = true after clipboard failure")
	}
	if got := f.lastToast(t); got.level != notify.LevelError || got.message != "Failed to copy" {
		t.Fatalf("toast = %+v", got)
	}
}

func TestChartOperations(t *testing.T) {
	f := newFixture(t)
	mounted, err := f.svc.MountCharts(nil)
	if err != nil {
		t.Fatalf("MountCharts() error = %v", err)
	}
	if len(mounted) != 5 {
		t.Fatalf("mounted = %v; want 5 charts", mounted)
	}

	found, err := f.svc.UpdateChart("nonexistent", []float64{1, 2})
	if err != nil || found {
		t.Fatalf("UpdateChart(nonexistent) = (%v, %v); want (false, nil)", found, err)
	}

	file, err := f.svc.RenderChart(context.Background(), "recovery", "SVG")
	if err != nil {
		t.Fatalf("RenderChart() error = %v", err)
	}
	if file.Filename != "recovery-chart.svg" {
		t.Fatalf("filename = %q", file.Filename)
	}
	if _, err := f.svc.RenderChart(context.Background(), "missing", "png"); codeOf(err) != CodeChartNotFound {
		t.Fatalf("RenderChart(missing) error = %v; want CHART_NOT_FOUND", err)
	}
	found, err = f.svc.ExportChart(context.Background(), "missing", "png")
	if err != nil || found {
		t.Fatalf("ExportChart(missing) = (%v, %v); want (false, nil)", found, err)
	}
	found, err = f.svc.ExportChart(context.Background(), "missing", "gif")
	if err != nil || found {
		t.Fatalf("ExportChart(missing, gif) = (%v, %v); want (false, nil)", found, err)
	}
	if _, err := f.svc.ExportChart(context.Background(), "mood", "gif"); codeOf(err) != CodeValidation {
		t.Fatalf("ExportChart(gif) error = %v; want VALIDATION", err)
	}

	if err := f.svc.DestroyCharts(); err != nil {
		t.Fatalf("DestroyCharts() error = %v", err)
	}
	if err := f.svc.DestroyCharts(); err != nil {
		t.Fatalf("second DestroyCharts() error = %v", err)
	}
	if len(f.svc.Charts()) != 0 {
		t.Fatal("charts remain after DestroyCharts")
	}
}

func TestResizeEventIsDebounced(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.MountCharts([]string{"mood"}); err != nil {
		t.Fatalf("MountCharts() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := events.Dispatch(context.Background(), f.svc.Bus(), events.Resized{Width: 900 + i, Height: 500}); err != nil {
			t.Fatalf("Dispatch(Resized) error = %v", err)
		}
	}
	time.Sleep(100 * time.Millisecond)
	h := f.handles["mood"]
	h.mu.Lock()
	resizes := h.resizes
	h.mu.Unlock()
	if resizes != 1 {
		t.Fatalf("resizes = %d; want 1", resizes)
	}
	if w, _ := f.svc.ViewportSize(); w != 904 {
		t.Fatalf("viewport width = %d; want 904", w)
	}
}

func TestTrendValidation(t *testing.T) {
	f := newFixture(t)
	data, labels, err := f.svc.Trend(30, 0.2)
	if err != nil || len(data) != 30 || len(labels) != 30 {
		t.Fatalf("Trend() = (%d, %d, %v)", len(data), len(labels), err)
	}
	if _, _, err := f.svc.Trend(-1, 0.2); codeOf(err) != CodeValidation {
		t.Fatalf("Trend(-1) error = %v; want VALIDATION", err)
	}
}

func TestThemeOperations(t *testing.T) {
	f := newFixture(t)
	if got := f.svc.Theme(); got != "light" {
		t.Fatalf("Theme() = %q; want light", got)
	}
	if _, err := events.Dispatch(context.Background(), f.svc.Bus(), events.ThemeToggled{}); err != nil {
		t.Fatalf("Dispatch(ThemeToggled) error = %v", err)
	}
	if got := f.svc.Theme(); got != "dark" {
		t.Fatalf("Theme() = %q; want dark", got)
	}
	if err := f.svc.SetTheme("sepia"); codeOf(err) != CodeValidation {
		t.Fatalf("SetTheme(sepia) error = %v; want VALIDATION", err)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.SaveEntry(context.Background(), "Morning pages", "sad", nil); err != nil {
		t.Fatalf("SaveEntry() error = %v", err)
	}
	stats, err := f.svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalEntries != 1 || stats.CurrentStreak != 1 || stats.MostCommonMood != "Sad" || stats.DaysActive != 1 {
		t.Fatalf("Stats() = %+v", stats)
	}
}

func TestChartSharesAndSamples(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.MountCharts([]string{"activity", "progress"}); err != nil {
		t.Fatalf("MountCharts() error = %v", err)
	}

	pie, err := f.svc.Chart("activity")
	if err != nil {
		t.Fatalf("Chart(activity) error = %v", err)
	}
	want := []string{"25.0%", "15.0%", "20.0%", "15.0%", "10.0%", "15.0%"}
	if len(pie.Shares) != len(want) {
		t.Fatalf("shares = %v; want %v", pie.Shares, want)
	}
	for i := range want {
		if pie.Shares[i] != want[i] {
			t.Fatalf("shares[%d] = %q; want %q", i, pie.Shares[i], want[i])
		}
	}
	bar, _ := f.svc.Chart("progress")
	if bar.Shares != nil {
		t.Fatalf("bar shares = %v; want none", bar.Shares)
	}

	found, err := f.svc.SampleChart("progress", 3, 7)
	if err != nil || !found {
		t.Fatalf("SampleChart() = (%v, %v); want (true, nil)", found, err)
	}
	got := f.handles["progress"].primary
	if len(got) != 4 {
		t.Fatalf("sampled %d points; want 4", len(got))
	}
	for _, v := range got {
		if v < 3 || v > 7 {
			t.Fatalf("sampled value %v outside [3, 7]", v)
		}
	}
	if found, err := f.svc.SampleChart("missing", 1, 10); found || err != nil {
		t.Fatalf("SampleChart(missing) = (%v, %v); want (false, nil)", found, err)
	}
}
