package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AppName is written into export metadata.
const AppName = "Healing Horizons"

// ErrNoEntries is returned when there is nothing to export.
var ErrNoEntries = errors.New("no entries to export")

// ExportMetadata heads an export document.
type ExportMetadata struct {
	AppName      string `json:"appName"`
	ExportedAt   string `json:"exportedAt"`
	TotalEntries int    `json:"totalEntries"`
}

// HistoryItem is one exported entry.
type HistoryItem struct {
	Date    string `json:"date"`
	Mood    string `json:"mood"`
	Content string `json:"content"`
}

// ExportDocument is the journal export file format.
type ExportDocument struct {
	Metadata ExportMetadata `json:"metadata"`
	History  []HistoryItem  `json:"history"`
}

const displayLayout = "January 2, 2006 at 3:04 PM"

// History converts entries to their exported form, newest first as listed on the page.
func History(entries []Entry) []HistoryItem {
	items := make([]HistoryItem, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		items = append(items, HistoryItem{
			Date:    e.Created.Format(displayLayout),
			Mood:    e.Mood,
			Content: e.Content,
		})
	}
	return items
}

// ExportFilename names the export file for now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("healing-horizons-journal-%s.json", now.UTC().Format("2006-01-02"))
}

// Export builds the indented export document and its filename.
func Export(history []HistoryItem, now time.Time) ([]byte, string, error) {
	if len(history) == 0 {
		return nil, "", ErrNoEntries
	}
	doc := ExportDocument{
		Metadata: ExportMetadata{
			AppName:      AppName,
			ExportedAt:   now.UTC().Format(time.RFC3339),
			TotalEntries: len(history),
		},
		History: history,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("journal export: marshal: %w", err)
	}
	return data, ExportFilename(now), nil
}
