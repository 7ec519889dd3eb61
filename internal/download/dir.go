package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Dir delivers files straight into a directory under their own filenames,
// replacing any earlier file with the same name.
type Dir struct {
	Path string
}

// Download implements chart.Downloader.
func (d Dir) Download(ctx context.Context, filename, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if filename == "" || filepath.Base(filename) != filename {
		return fmt.Errorf("download dir: invalid filename %q", filename)
	}
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("download dir: mkdir %s: %w", d.Path, err)
	}
	dst := filepath.Join(d.Path, filename)
	tmp, err := os.CreateTemp(d.Path, "."+filename+".*")
	if err != nil {
		return fmt.Errorf("download dir: create: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("download dir: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("download dir: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("download dir: rename: %w", err)
	}
	slog.Info("download written", "path", dst, "content_type", contentType, "bytes", len(data))
	return nil
}
