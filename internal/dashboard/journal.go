package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/healinghorizons/dashboard/internal/journal"
	"github.com/healinghorizons/dashboard/internal/notify"
	"github.com/healinghorizons/dashboard/internal/prefs"
)

const (
	moodChart       = "mood"
	moodChartPoints = 7

	msgNoEntries    = "No entries to export"
	msgExported     = "Journal exported successfully!"
	msgCopied       = "Copied to clipboard!"
	msgCopyFailed   = "Failed to copy"
	msgEntrySaved   = "Entry saved"
	exportMediaType = "application/json"
)

// ExportResult describes a delivered journal export.
type ExportResult struct {
	Filename     string `json:"filename"`
	TotalEntries int    `json:"total_entries"`
	SizeBytes    int    `json:"size_bytes"`
}

func (s *Service) requireEntries() error {
	if s.entries == nil {
		return newError(CodeStorageFailed, "no journal store configured", nil)
	}
	return nil
}

// SaveEntry stores a journal entry and refreshes the mood chart with the
// latest seven mood scores.
func (s *Service) SaveEntry(ctx context.Context, content, mood string, tags []string) (journal.Entry, error) {
	if err := s.requireNonEmpty(content, "content"); err != nil {
		return journal.Entry{}, err
	}
	if err := s.requireEntries(); err != nil {
		return journal.Entry{}, err
	}
	mood = strings.ToLower(strings.TrimSpace(mood))
	if mood == "" {
		mood = s.form.Selected()
	}
	e := &journal.Entry{Content: strings.TrimSpace(content), Mood: mood, Tags: tags, Created: s.now()}
	if err := s.entries.Save(e); err != nil {
		return journal.Entry{}, newError(CodeStorageFailed, "save entry", err)
	}
	s.toast(notify.LevelSuccess, msgEntrySaved)

	all, err := s.entries.List(ctx)
	if err != nil {
		slog.Warn("mood chart refresh skipped", "error", err)
		return *e, nil
	}
	if _, err := s.charts.Update(moodChart, journal.RecentScores(all, moodChartPoints)); err != nil {
		slog.Warn("mood chart refresh failed", "error", err)
	}
	return *e, nil
}

// ListEntries returns every entry, oldest first.
func (s *Service) ListEntries(ctx context.Context) ([]journal.Entry, error) {
	if err := s.requireEntries(); err != nil {
		return nil, err
	}
	entries, err := s.entries.List(ctx)
	if err != nil {
		return nil, newError(CodeStorageFailed, "list entries", err)
	}
	return entries, nil
}

// DeleteEntry removes an entry.
func (s *Service) DeleteEntry(id string) error {
	if err := s.requireNonEmpty(id, "id"); err != nil {
		return err
	}
	if err := s.requireEntries(); err != nil {
		return err
	}
	if err := s.entries.Delete(strings.TrimSpace(id)); err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			return newError(CodeNotFound, "entry "+id+" not found", err)
		}
		return newError(CodeStorageFailed, "delete entry", err)
	}
	return nil
}

// Stats summarizes the journal.
func (s *Service) Stats(ctx context.Context) (journal.Stats, error) {
	entries, err := s.ListEntries(ctx)
	if err != nil {
		return journal.Stats{}, err
	}
	return journal.ComputeStats(entries, s.now()), nil
}

// ExportJournal delivers the journal as a JSON download. With no entries an
// error notification is shown and nothing is delivered.
func (s *Service) ExportJournal(ctx context.Context) (ExportResult, error) {
	entries, err := s.ListEntries(ctx)
	if err != nil {
		return ExportResult{}, err
	}
	data, filename, err := journal.Export(journal.History(entries), s.now())
	if errors.Is(err, journal.ErrNoEntries) {
		s.toast(notify.LevelError, msgNoEntries)
		return ExportResult{}, newError(CodeNoEntries, msgNoEntries, err)
	}
	if err != nil {
		return ExportResult{}, newError(CodeStorageFailed, "build export", err)
	}
	if s.downloads == nil {
		return ExportResult{}, newError(CodeStorageFailed, "no download target configured", nil)
	}
	if err := s.downloads.Download(ctx, filename, exportMediaType, data); err != nil {
		return ExportResult{}, newError(CodeStorageFailed, "deliver export", err)
	}
	s.toast(notify.LevelSuccess, msgExported)
	return ExportResult{Filename: filename, TotalEntries: len(entries), SizeBytes: len(data)}, nil
}

// CopyText copies text to the clipboard and reports the outcome as a toast.
// A clipboard failure is recovered and reported as false.
func (s *Service) CopyText(text string) bool {
	if s.clip == nil {
		s.toast(notify.LevelError, msgCopyFailed)
		return false
	}
	if err := s.clip.WriteAll(text); err != nil {
		slog.Debug("clipboard write failed", "error", err)
		s.toast(notify.LevelError, msgCopyFailed)
		return false
	}
	s.toast(notify.LevelSuccess, msgCopied)
	return true
}

// Theme returns the persisted theme, "light" by default.
func (s *Service) Theme() string {
	if s.prefs == nil {
		return prefs.ThemeLight
	}
	return s.prefs.Theme()
}

// SetTheme persists theme.
func (s *Service) SetTheme(theme string) error {
	if err := s.requireNonEmpty(theme, "theme"); err != nil {
		return err
	}
	if s.prefs == nil {
		return newError(CodeStorageFailed, "no preference store configured", nil)
	}
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme != prefs.ThemeLight && theme != prefs.ThemeDark {
		return newError(CodeValidation, "theme must be light or dark", nil)
	}
	if err := s.prefs.SetTheme(theme); err != nil {
		return newError(CodeStorageFailed, "save theme", err)
	}
	return nil
}

// ToggleTheme flips the persisted theme.
func (s *Service) ToggleTheme() (string, error) {
	if s.prefs == nil {
		return "", newError(CodeStorageFailed, "no preference store configured", nil)
	}
	theme, err := s.prefs.Toggle()
	if err != nil {
		return "", newError(CodeStorageFailed, "toggle theme", err)
	}
	return theme, nil
}
