// Package events dispatches typed UI events to registered handlers.
package events

import (
	"context"
	"errors"
	"reflect"
	"sync"
)

// Bus routes events to handlers by the event's Go type.
type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]any
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]any)}
}

// Register adds a handler for events of type T.
func Register[T any](b *Bus, fn func(context.Context, T) error) {
	key := reflect.TypeFor[T]()
	b.mu.Lock()
	b.handlers[key] = append(b.handlers[key], fn)
	b.mu.Unlock()
}

// Dispatch calls every handler registered for T in registration order and
// joins their errors. It returns false when no handler is registered.
func Dispatch[T any](ctx context.Context, b *Bus, evt T) (bool, error) {
	b.mu.RLock()
	hs := append([]any(nil), b.handlers[reflect.TypeFor[T]()]...)
	b.mu.RUnlock()
	if len(hs) == 0 {
		return false, nil
	}
	var errs []error
	for _, h := range hs {
		if err := h.(func(context.Context, T) error)(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return true, errors.Join(errs...)
}

// UI events raised by the dashboard page.
type (
	// Resized reports a new viewport size.
	Resized struct{ Width, Height int }
	// MoodSelected reports the user choosing a mood option.
	MoodSelected struct{ Mood string }
	// CopyRequested asks for text to be copied to the clipboard.
	CopyRequested struct{ Text string }
	// AnalyzeRequested asks for the journal draft to be analyzed.
	AnalyzeRequested struct{ Content string }
	// ExportRequested asks for the journal to be exported.
	ExportRequested struct{}
	// ThemeToggled asks for the theme to be flipped.
	ThemeToggled struct{}
)
