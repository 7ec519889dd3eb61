package download

import (
	"context"
	"sync"
)

// File is a download captured in memory.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Buffer collects downloads in memory. RenderChart serves images from one.
type Buffer struct {
	mu    sync.Mutex
	files []File
}

func (b *Buffer) Download(ctx context.Context, filename, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files = append(b.files, File{Filename: filename, ContentType: contentType, Data: append([]byte(nil), data...)})
	return nil
}

// Files returns a copy of every captured download, oldest first.
func (b *Buffer) Files() []File {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]File(nil), b.files...)
}

// Len reports how many downloads were captured.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.files)
}
