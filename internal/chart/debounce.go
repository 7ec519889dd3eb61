package chart

import (
	"sync"
	"time"
)

// DefaultResizeDebounce is the quiet period before a resize is applied.
const DefaultResizeDebounce = 250 * time.Millisecond

// Debouncer runs fn once after triggers stop arriving for the configured window.
type Debouncer struct {
	window time.Duration
	fn     func()

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer returns a Debouncer. A non-positive window uses DefaultResizeDebounce.
func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	if window <= 0 {
		window = DefaultResizeDebounce
	}
	return &Debouncer{window: window, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fn)
}

// Stop cancels a pending call. It reports whether a call was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}
