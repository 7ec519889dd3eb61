package download

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveReadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	meta, err := store.Save(context.Background(), "mood-chart.png", "image/png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, got, err := store.Read(meta.ID)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("Read() data = %q", data)
	}
	if got.Filename != "mood-chart.png" || got.ContentType != "image/png" || got.SizeBytes != 9 {
		t.Fatalf("Read() meta = %+v", got)
	}
	last, ok := store.Last()
	if !ok || last.ID != meta.ID {
		t.Fatalf("Last() = (%+v, %v); want %s", last, ok, meta.ID)
	}
}

func TestSaveRejectsPathFilename(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, err := store.Save(context.Background(), "../escape.json", "application/json", nil); err == nil {
		t.Fatal("Save(../escape.json) = nil error; want error")
	}
}

func TestListNewestFirst(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.png", "b.png", "c.png"} {
		at := base.Add(time.Duration(i) * time.Minute)
		store.now = func() time.Time { return at }
		if _, err := store.Save(context.Background(), name, "image/png", []byte(name)); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
	}
	metas, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var names []string
	for _, m := range metas {
		names = append(names, m.Filename)
	}
	if got := strings.Join(names, ","); got != "c.png,b.png,a.png" {
		t.Fatalf("List() order = %q", got)
	}
}

func TestGetInvalidAndMissingID(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, err := store.Get("not-a-uuid"); err == nil {
		t.Fatal("Get(not-a-uuid) = nil error")
	}
	_, err = store.Get("123e4567-e89b-12d3-a456-426614174000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v; want ErrNotFound", err)
	}
}

func TestDeleteLogsPayloadCleanupFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	meta, err := store.Save(context.Background(), "journal.json", "application/json", []byte("{}"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := os.Remove(filepath.Join(dir, meta.ID+".bin")); err != nil {
		t.Fatalf("os.Remove() error = %v", err)
	}

	var buf bytes.Buffer
	oldLogger := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(oldLogger) })

	if err := store.Delete(meta.ID); err != nil {
		t.Fatalf("Delete() = %v; want nil", err)
	}
	if !strings.Contains(buf.String(), "download payload cleanup failed") {
		t.Fatalf("expected payload cleanup debug log, got %q", buf.String())
	}
	if _, err := store.Get(meta.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after Delete error = %v; want ErrNotFound", err)
	}
}

func TestBufferCopiesData(t *testing.T) {
	var b Buffer
	data := []byte("abc")
	if err := b.Download(context.Background(), "x.png", "image/png", data); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	data[0] = 'z'
	files := b.Files()
	if b.Len() != 1 || string(files[0].Data) != "abc" {
		t.Fatalf("Files() = %+v", files)
	}
}

func TestDirWritesUnderFilename(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	d := Dir{Path: dir}
	if err := d.Download(context.Background(), "mood-chart.svg", "image/svg+xml", []byte("<svg/>")); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if err := d.Download(context.Background(), "mood-chart.svg", "image/svg+xml", []byte("<svg>2</svg>")); err != nil {
		t.Fatalf("second Download() error = %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "mood-chart.svg"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "<svg>2</svg>" {
		t.Fatalf("payload = %q; want latest write", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir holds %d files; want only mood-chart.svg", len(entries))
	}
}

func TestDirRejectsPaths(t *testing.T) {
	d := Dir{Path: t.TempDir()}
	if err := d.Download(context.Background(), "../escape.json", "application/json", nil); err == nil {
		t.Fatal("Download(../escape.json) = nil error; want error")
	}
}
