// Package chart keeps the named chart handles rendered for a dashboard session.
package chart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Handle is an opaque reference to a rendered chart.
type Handle interface {
	// SetPrimary replaces the data of the first dataset and returns the
	// series it replaced.
	SetPrimary(series []float64) []float64
	// Redraw re-renders the current state.
	Redraw() error
	// Resize recomputes layout against the container size and re-renders.
	Resize() error
	// Render encodes the current rendered state in the given image format.
	Render(format string) ([]byte, error)
	// Destroy releases resources held by the handle.
	Destroy() error
}

// Downloader delivers a rendered file to the user.
type Downloader interface {
	Download(ctx context.Context, filename, contentType string, data []byte) error
}

// Registry owns chart handles keyed by name. All mutating operations are serialized.
type Registry struct {
	mu     sync.Mutex
	charts map[string]Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{charts: make(map[string]Handle)}
}

// Register stores h under name. A previous handle with the same name is replaced
// without being destroyed.
func (r *Registry) Register(name string, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.charts[name]; ok {
		slog.Debug("chart handle replaced", "chart", name)
	}
	r.charts[name] = h
}

// Get returns the handle stored under name.
func (r *Registry) Get(name string) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.charts[name]
	return h, ok
}

// Names returns registered chart names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.charts))
	for name := range r.charts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.charts)
}

// Update replaces the primary series of the named chart and redraws it.
// It reports whether a chart was found; an unknown name is a silent no-op.
// When the redraw fails the previous series is put back.
func (r *Registry) Update(name string, series []float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.charts[name]
	if !ok {
		return false, nil
	}
	prev := h.SetPrimary(append([]float64(nil), series...))
	if err := h.Redraw(); err != nil {
		h.SetPrimary(prev)
		if rerr := h.Redraw(); rerr != nil {
			slog.Warn("chart restore failed", "chart", name, "error", rerr)
		}
		return true, fmt.Errorf("chart %s: redraw: %w", name, err)
	}
	return true, nil
}

// DestroyAll destroys every handle and empties the registry.
func (r *Registry) DestroyAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for name, h := range r.charts {
		if err := h.Destroy(); err != nil {
			errs = append(errs, fmt.Errorf("chart %s: destroy: %w", name, err))
		}
	}
	clear(r.charts)
	return errors.Join(errs...)
}

// ResizeAll asks every handle to recompute its layout.
func (r *Registry) ResizeAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for name, h := range r.charts {
		if err := h.Resize(); err != nil {
			errs = append(errs, fmt.Errorf("chart %s: resize: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Export renders the named chart and hands it to dl as "<name>-chart.<format>".
// It reports whether a chart was found; an unknown name is a silent no-op.
func (r *Registry) Export(ctx context.Context, name, format string, dl Downloader) (bool, error) {
	r.mu.Lock()
	h, found := r.charts[name]
	if !found {
		r.mu.Unlock()
		return false, nil
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPNG
	}
	contentType, ok := ContentType(format)
	if !ok {
		r.mu.Unlock()
		return true, fmt.Errorf("chart: unsupported export format %q", format)
	}
	data, err := h.Render(format)
	r.mu.Unlock()
	if err != nil {
		return true, fmt.Errorf("chart %s: render %s: %w", name, format, err)
	}

	if err := dl.Download(ctx, ExportFilename(name, format), contentType, data); err != nil {
		return true, fmt.Errorf("chart %s: download: %w", name, err)
	}
	return true, nil
}

// ExportFilename returns the download name for a chart export.
func ExportFilename(name, format string) string {
	return name + "-chart." + format
}
