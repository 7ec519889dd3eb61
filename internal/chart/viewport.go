package chart

import "sync"

const (
	minWidth  = 120
	minHeight = 80
)

// Viewport tracks the container size charts lay themselves out against.
type Viewport struct {
	mu            sync.RWMutex
	width, height int
}

// NewViewport returns a viewport with the given initial size.
func NewViewport(width, height int) *Viewport {
	v := &Viewport{}
	v.Set(width, height)
	return v
}

// Set stores a new size, raising it to the minimum drawable area.
func (v *Viewport) Set(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = max(width, minWidth)
	v.height = max(height, minHeight)
}

// Size returns the current width and height.
func (v *Viewport) Size() (int, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}
