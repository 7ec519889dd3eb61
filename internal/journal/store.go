// Package journal stores journal entries and derives exports and dashboard stats from them.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
)

const entriesDir = "entries"

// ErrNotFound is returned for an unknown entry id.
var ErrNotFound = errors.New("journal entry not found")

// Entry is a single journal entry.
type Entry struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	Mood    string    `json:"mood"`
	Tags    []string  `json:"tags,omitempty"`
	Created time.Time `json:"created"`
}

// MoodScore maps a mood to the 0-10 scale plotted on the mood chart.
func MoodScore(mood string) float64 {
	switch strings.ToLower(mood) {
	case "happy":
		return 8
	case "sad":
		return 3
	default:
		return 5
	}
}

// Store persists entries as JSON files through diskv.
type Store struct {
	d   *diskv.Diskv
	now func() time.Time
}

// NewStore opens (or creates) a store rooted at basePath.
func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("journal store: mkdir %s: %w", basePath, err)
	}
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			CacheSizeMax:      1024 * 1024,
		}),
		now: time.Now,
	}, nil
}

func keyToPath(key string) *diskv.PathKey {
	return &diskv.PathKey{Path: []string{entriesDir}, FileName: key + ".json"}
}

func pathToKey(pk *diskv.PathKey) string {
	return strings.TrimSuffix(pk.FileName, ".json")
}

// Save assigns an id and creation time when missing and writes e.
func (s *Store) Save(e *Entry) error {
	if strings.TrimSpace(e.Content) == "" {
		return errors.New("journal store: entry content is empty")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	} else if _, err := uuid.Parse(e.ID); err != nil {
		return fmt.Errorf("journal store: invalid entry id %q", e.ID)
	}
	if e.Created.IsZero() {
		e.Created = s.now()
	}
	if e.Mood == "" {
		e.Mood = "neutral"
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("journal store: marshal: %w", err)
	}
	if err := s.d.Write(e.ID, raw); err != nil {
		return fmt.Errorf("journal store: write: %w", err)
	}
	return nil
}

// Get reads the entry with id.
func (s *Store) Get(id string) (Entry, error) {
	if _, err := uuid.Parse(id); err != nil || !s.d.Has(id) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	raw, err := s.d.Read(id)
	if err != nil {
		return Entry{}, fmt.Errorf("journal store: read: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, fmt.Errorf("journal store: unmarshal %s: %w", id, err)
	}
	return e, nil
}

// List returns every entry, oldest first. Unreadable entries are logged and skipped.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	entries := make([]Entry, 0)
	for key := range s.d.Keys(ctx.Done()) {
		e, err := s.Get(key)
		if err != nil {
			slog.Warn("journal entry skipped", "id", key, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

// Delete removes the entry with id.
func (s *Store) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil || !s.d.Has(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.d.Erase(id); err != nil {
		return fmt.Errorf("journal store: erase: %w", err)
	}
	return nil
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Created.Equal(entries[j].Created) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Created.Before(entries[j].Created)
	})
}

// RecentScores returns the mood scores of the last n entries, oldest first.
func RecentScores(entries []Entry, n int) []float64 {
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	scores := make([]float64, len(entries))
	for i, e := range entries {
		scores[i] = MoodScore(e.Mood)
	}
	return scores
}
