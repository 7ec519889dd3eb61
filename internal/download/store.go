// Package download delivers exported files (chart images, journal documents) to disk or memory.
package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var uuidRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

var (
	// ErrNotFound is returned when a download id has no stored file.
	ErrNotFound = errors.New("download not found")
	// ErrInvalidID is returned for ids that are not UUIDs.
	ErrInvalidID = errors.New("invalid download id")
)

// Meta describes a delivered file.
type Meta struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int       `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store keeps delivered files in a directory, one payload plus a JSON sidecar per download.
type Store struct {
	dir string
	mu  sync.RWMutex
	now func() time.Time

	lastMu sync.Mutex
	last   Meta
}

// NewStore creates a Store and ensures the directory exists.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("download store: mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Dir returns the directory files are written to.
func (s *Store) Dir() string { return s.dir }

func validateID(id string) error {
	if !uuidRe.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Download implements chart.Downloader.
func (s *Store) Download(ctx context.Context, filename, contentType string, data []byte) error {
	_, err := s.Save(ctx, filename, contentType, data)
	return err
}

// Save writes data and its metadata sidecar and returns the new entry.
func (s *Store) Save(ctx context.Context, filename, contentType string, data []byte) (Meta, error) {
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}
	if filename == "" || filepath.Base(filename) != filename {
		return Meta{}, fmt.Errorf("download store: invalid filename %q", filename)
	}
	meta := Meta{
		ID:          uuid.NewString(),
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   len(data),
		CreatedAt:   s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payloadPath := filepath.Join(s.dir, meta.ID+".bin")
	metaPath := filepath.Join(s.dir, meta.ID+".json")

	if err := os.WriteFile(payloadPath, data, 0o644); err != nil {
		return Meta{}, fmt.Errorf("download store: write payload: %w", err)
	}
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		_ = os.Remove(payloadPath)
		return Meta{}, fmt.Errorf("download store: marshal meta: %w", err)
	}
	if err := os.WriteFile(metaPath, raw, 0o644); err != nil {
		_ = os.Remove(payloadPath)
		return Meta{}, fmt.Errorf("download store: write meta: %w", err)
	}

	s.lastMu.Lock()
	s.last = meta
	s.lastMu.Unlock()

	slog.Info("download stored", "id", meta.ID, "filename", filename, "bytes", len(data))
	return meta, nil
}

// Last returns the most recent download saved by this process.
func (s *Store) Last() (Meta, bool) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	return s.last, s.last.ID != ""
}

// Get reads download metadata by id.
func (s *Store) Get(id string) (Meta, error) {
	if err := validateID(id); err != nil {
		return Meta{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readMeta(id)
}

func (s *Store) readMeta(id string) (Meta, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return Meta{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Meta{}, fmt.Errorf("download store: read meta: %w", err)
	}
	var meta Meta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Meta{}, fmt.Errorf("download store: unmarshal meta: %w", err)
	}
	return meta, nil
}

// List returns all downloads, newest first.
func (s *Store) List() ([]Meta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("download store: glob: %w", err)
	}
	metas := make([]Meta, 0, len(matches))
	for _, path := range matches {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var meta Meta
		if err := json.Unmarshal(raw, &meta); err != nil {
			continue
		}
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})
	return metas, nil
}

// Read returns the payload and metadata for id.
func (s *Store) Read(id string) ([]byte, Meta, error) {
	if err := validateID(id); err != nil {
		return nil, Meta{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, err := s.readMeta(id)
	if err != nil {
		return nil, Meta{}, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, id+".bin"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Meta{}, fmt.Errorf("%w: %s payload", ErrNotFound, id)
		}
		return nil, Meta{}, fmt.Errorf("download store: read payload: %w", err)
	}
	return data, meta, nil
}

// Delete removes the payload and its metadata.
func (s *Store) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.readMeta(id); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, id+".bin")); err != nil {
		slog.Debug("download payload cleanup failed", "id", id, "error", err)
	}
	if err := os.Remove(filepath.Join(s.dir, id+".json")); err != nil {
		return fmt.Errorf("download store: remove meta: %w", err)
	}
	return nil
}
