package journal

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func at(day, hour int) time.Time {
	return time.Date(2026, 6, day, hour, 0, 0, 0, time.UTC)
}

func TestStoreSaveListDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	second := &Entry{Content: "Went for a walk", Mood: "happy", Created: at(2, 9)}
	first := &Entry{Content: "Rough morning", Mood: "sad", Created: at(1, 9)}
	for _, e := range []*Entry{second, first} {
		if err := store.Save(e); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if e.ID == "" {
			t.Fatal("Save() did not assign an id")
		}
	}

	entries, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 || entries[0].ID != first.ID || entries[1].ID != second.ID {
		t.Fatalf("List() = %+v; want oldest first", entries)
	}

	if err := store.Delete(first.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after Delete error = %v; want ErrNotFound", err)
	}
	if err := store.Delete(first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete() error = %v; want ErrNotFound", err)
	}
}

func TestStoreRejectsEmptyContent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := store.Save(&Entry{Content: "   "}); err == nil {
		t.Fatal("Save(blank) = nil error")
	}
}

func TestStoreDefaultsMood(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	e := &Entry{Content: "Quiet day"}
	if err := store.Save(e); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Get(e.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Mood != "neutral" || got.Created.IsZero() {
		t.Fatalf("Get() = %+v; want neutral mood and creation time", got)
	}
}

func TestMoodScoreAndRecentScores(t *testing.T) {
	entries := []Entry{{Mood: "sad"}, {Mood: "happy"}, {Mood: "hopeful"}, {Mood: "neutral"}}
	got := RecentScores(entries, 3)
	want := []float64{8, 5, 5}
	if len(got) != len(want) {
		t.Fatalf("RecentScores() = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RecentScores() = %v; want %v", got, want)
		}
	}
	if MoodScore("sad") != 3 {
		t.Fatalf("MoodScore(sad) = %v; want 3", MoodScore("sad"))
	}
}

func TestExportEmptyFails(t *testing.T) {
	data, name, err := Export(nil, at(3, 12))
	if !errors.Is(err, ErrNoEntries) {
		t.Fatalf("Export(nil) error = %v; want ErrNoEntries", err)
	}
	if data != nil || name != "" {
		t.Fatal("Export(nil) produced output")
	}
}

func TestExportDocument(t *testing.T) {
	entries := []Entry{
		{Content: "old", Mood: "sad", Created: at(1, 8)},
		{Content: "new", Mood: "happy", Created: at(2, 20)},
	}
	data, name, err := Export(History(entries), at(3, 12))
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if got, want := name, "healing-horizons-journal-2026-06-03.json"; got != want {
		t.Fatalf("filename = %q; want %q", got, want)
	}
	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if doc.Metadata.AppName != AppName || doc.Metadata.TotalEntries != 2 || doc.Metadata.ExportedAt == "" {
		t.Fatalf("metadata = %+v", doc.Metadata)
	}
	if doc.History[0].Content != "new" || doc.History[1].Mood != "sad" {
		t.Fatalf("history = %+v; want newest first", doc.History)
	}
	if !strings.Contains(string(data), `"appName"`) {
		t.Fatal("export must use camelCase metadata keys")
	}
}

func TestStreak(t *testing.T) {
	now := at(10, 18)
	cases := []struct {
		name    string
		entries []Entry
		want    int
	}{
		{name: "empty", want: 0},
		{name: "today only", entries: []Entry{{Created: at(10, 8)}, {Created: at(10, 9)}}, want: 1},
		{name: "three days", entries: []Entry{{Created: at(8, 8)}, {Created: at(9, 8)}, {Created: at(10, 8)}}, want: 3},
		{name: "gap", entries: []Entry{{Created: at(7, 8)}, {Created: at(9, 8)}, {Created: at(10, 8)}}, want: 2},
		{name: "nothing today", entries: []Entry{{Created: at(9, 8)}}, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Streak(tc.entries, now); got != tc.want {
				t.Fatalf("Streak() = %d; want %d", got, tc.want)
			}
		})
	}
}

func TestMostCommonMood(t *testing.T) {
	if got := MostCommonMood(nil); got != "Neutral" {
		t.Fatalf("MostCommonMood(nil) = %q; want Neutral", got)
	}
	entries := []Entry{{Mood: "sad"}, {Mood: "happy"}, {Mood: "happy"}, {Mood: "sad"}, {Mood: "hopeful"}}
	if got := MostCommonMood(entries); got != "Sad" {
		t.Fatalf("MostCommonMood() = %q; want Sad (first of tie)", got)
	}
}

func TestComputeStats(t *testing.T) {
	entries := []Entry{{Mood: "happy", Created: at(1, 10)}, {Mood: "happy", Created: at(10, 9)}}
	stats := ComputeStats(entries, at(10, 12))
	if stats.TotalEntries != 2 || stats.CurrentStreak != 1 || stats.MostCommonMood != "Happy" {
		t.Fatalf("ComputeStats() = %+v", stats)
	}
	if stats.DaysActive != 10 {
		t.Fatalf("DaysActive = %d; want 10", stats.DaysActive)
	}
	if stats.Affirmation == "" {
		t.Fatal("Affirmation is empty")
	}
	if Affirmation(at(10, 1)) != Affirmation(at(10, 23)) {
		t.Fatal("Affirmation must be stable within a day")
	}
}

func TestMostCommonMoodAccented(t *testing.T) {
	entries := []Entry{
		{Mood: "épuisé", Created: at(1, 8)},
		{Mood: "épuisé", Created: at(2, 8)},
		{Mood: "calm", Created: at(3, 8)},
	}
	if got, want := MostCommonMood(entries), "Épuisé"; got != want {
		t.Fatalf("MostCommonMood() = %q; want %q", got, want)
	}
	if got, want := titleCase("very  HAPPY"), "Very Happy"; got != want {
		t.Fatalf("titleCase() = %q; want %q", got, want)
	}
}

func TestExportTimestampIsUTC(t *testing.T) {
	tz := time.FixedZone("PDT", -7*60*60)
	now := time.Date(2026, 6, 3, 20, 30, 0, 0, tz)
	data, name, err := Export([]HistoryItem{{Date: "x", Mood: "calm", Content: "ok"}}, now)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if got, want := name, "healing-horizons-journal-2026-06-04.json"; got != want {
		t.Fatalf("filename = %q; want %q", got, want)
	}
	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if got, want := doc.Metadata.ExportedAt, "2026-06-04T03:30:00Z"; got != want {
		t.Fatalf("exportedAt = %q; want %q", got, want)
	}
}
