package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/healinghorizons/dashboard/internal/analysis"
	"github.com/healinghorizons/dashboard/internal/notify"
)

const (
	minAnalysisChars = 5

	msgWriteMore       = "Please write a bit more first..."
	msgAnalysisFailed  = "Could not analyze text. Try again."
	analysisModalTitle = "AI Insight"
)

// AnalysisOutcome reports what an analysis request did.
type AnalysisOutcome struct {
	Skipped   bool     `json:"skipped"`
	Label     string   `json:"label,omitempty"`
	Mood      string   `json:"mood,omitempty"`
	Selected  bool     `json:"selected"`
	NextSteps []string `json:"next_steps,omitempty"`
}

// AnalyzeEntry sends the journal draft for analysis and presents the result.
// Drafts shorter than five characters are not sent. The loading indicator is
// always cleared, and a failure leaves the mood selection untouched.
func (s *Service) AnalyzeEntry(ctx context.Context, content string) (AnalysisOutcome, error) {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) < minAnalysisChars {
		s.toast(notify.LevelInfo, msgWriteMore)
		return AnalysisOutcome{Skipped: true}, nil
	}
	if s.analyzer == nil {
		s.toast(notify.LevelError, msgAnalysisFailed)
		return AnalysisOutcome{}, newError(CodeAnalysisFailed, "no analyzer configured", nil)
	}

	if s.presenter != nil {
		s.presenter.SetLoading(true)
		defer s.presenter.SetLoading(false)
	}

	started := s.now()
	res, err := s.analyzer.Analyze(ctx, content)
	s.record(content, started, res, err)
	if err != nil {
		s.toast(notify.LevelError, msgAnalysisFailed)
		return AnalysisOutcome{}, newError(CodeAnalysisFailed, "analysis request failed", err)
	}

	out := AnalysisOutcome{
		Label:     res.Mood,
		Mood:      analysis.MapMood(res.Mood),
		NextSteps: res.NextSteps,
	}
	if s.form.Select(out.Mood) {
		out.Selected = true
		s.toast(notify.LevelSuccess, "Mood detected: "+out.Mood)
	}
	if s.presenter != nil {
		s.presenter.ShowModal(notify.Modal{Title: analysisModalTitle, Mood: res.Mood, Steps: res.NextSteps})
	}
	return out, nil
}

func (s *Service) record(content string, started time.Time, res analysis.Result, err error) {
	if s.audit == nil {
		return
	}
	rec := analysis.Record{
		At:         started.UTC(),
		TextLength: utf8.RuneCountInString(content),
		DurationMS: s.now().Sub(started).Milliseconds(),
	}
	if err != nil {
		rec.Error = err.Error()
		var ae *analysis.AnalysisError
		if errors.As(err, &ae) {
			rec.Status = ae.Status
		}
	} else {
		rec.Label = res.Mood
		rec.Mood = analysis.MapMood(res.Mood)
		rec.Steps = len(res.NextSteps)
	}
	if werr := s.audit.Write(rec); werr != nil {
		slog.Debug("analysis audit skipped", "error", werr)
	}
}
