// Package notify fans dashboard notifications (toasts, modals, loading state)
// out to stream subscribers and an optional ntfy endpoint.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	subscriberBufSize = 256
	recentSize        = 50
	forwardTimeout    = 10 * time.Second
)

// Kind is the presentation surface a notification targets.
type Kind string

const (
	KindToast   Kind = "toast"
	KindModal   Kind = "modal"
	KindLoading Kind = "loading"
)

// Level is the severity of a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Modal is the payload of a modal notification.
type Modal struct {
	Title string   `json:"title"`
	Mood  string   `json:"mood,omitempty"`
	Steps []string `json:"next_steps,omitempty"`
}

// Notification is a single event delivered to subscribers.
type Notification struct {
	Seq     int64     `json:"seq"`
	Kind    Kind      `json:"kind"`
	Level   Level     `json:"level,omitempty"`
	Message string    `json:"message,omitempty"`
	Modal   *Modal    `json:"modal,omitempty"`
	Visible *bool     `json:"visible,omitempty"`
	At      time.Time `json:"at"`
}

// Forwarder relays notifications to an external channel.
type Forwarder interface {
	Forward(ctx context.Context, n Notification) error
}

// Hub fans out notifications to every subscriber. Slow subscribers have events dropped.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int64]chan Notification
	nextID      atomic.Int64
	seq         atomic.Int64

	recentMu sync.Mutex
	recent   []Notification

	forwarder Forwarder
	now       func() time.Time

	loadingMu sync.Mutex
	pending   int
}

// NewHub creates a hub. fwd may be nil.
func NewHub(fwd Forwarder) *Hub {
	return &Hub{
		subscribers: make(map[int64]chan Notification),
		forwarder:   fwd,
		now:         time.Now,
	}
}

// Subscribe registers a new client and returns its id and event channel.
func (h *Hub) Subscribe() (int64, <-chan Notification) {
	id := h.nextID.Add(1)
	ch := make(chan Notification, subscriberBufSize)
	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(id int64) {
	h.mu.Lock()
	ch, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
		close(ch)
	}
	h.mu.Unlock()
}

// ClientCount returns the number of active subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Publish stamps n and delivers it without blocking.
func (h *Hub) Publish(n Notification) Notification {
	n.Seq = h.seq.Add(1)
	if n.At.IsZero() {
		n.At = h.now().UTC()
	}

	h.recentMu.Lock()
	h.recent = append(h.recent, n)
	if len(h.recent) > recentSize {
		h.recent = h.recent[len(h.recent)-recentSize:]
	}
	h.recentMu.Unlock()

	h.mu.RLock()
	for _, ch := range h.subscribers {
		select {
		case ch <- n:
		default:
		}
	}
	h.mu.RUnlock()

	if h.forwarder != nil && n.Kind == KindToast {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), forwardTimeout)
			defer cancel()
			if err := h.forwarder.Forward(ctx, n); err != nil {
				slog.Warn("notification forward failed", "seq", n.Seq, "error", err)
			}
		}()
	}
	return n
}

// Recent returns up to the last fifty notifications, oldest first.
func (h *Hub) Recent() []Notification {
	h.recentMu.Lock()
	defer h.recentMu.Unlock()
	return append([]Notification(nil), h.recent...)
}

// Toast shows a transient message.
func (h *Hub) Toast(level Level, message string) {
	h.Publish(Notification{Kind: KindToast, Level: level, Message: message})
}

// ShowModal presents m.
func (h *Hub) ShowModal(m Modal) {
	h.Publish(Notification{Kind: KindModal, Modal: &m})
}

// SetLoading shows or hides the loading indicator. Calls nest: the
// indicator stays up until every show has been matched by a hide.
func (h *Hub) SetLoading(visible bool) {
	h.loadingMu.Lock()
	defer h.loadingMu.Unlock()
	if visible {
		h.pending++
	} else if h.pending > 0 {
		h.pending--
	}
	shown := h.pending > 0
	h.Publish(Notification{Kind: KindLoading, Visible: &shown})
}

// Loading reports whether the loading indicator is currently shown.
func (h *Hub) Loading() bool {
	h.loadingMu.Lock()
	defer h.loadingMu.Unlock()
	return h.pending > 0
}
