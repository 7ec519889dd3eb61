package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// kindFilter parses ?kinds=toast,modal. A nil result accepts every kind.
func kindFilter(r *http.Request) map[Kind]bool {
	q := r.URL.Query().Get("kinds")
	if q == "" {
		return nil
	}
	filter := make(map[Kind]bool)
	for _, k := range strings.Split(q, ",") {
		if k = strings.TrimSpace(k); k != "" {
			filter[Kind(k)] = true
		}
	}
	return filter
}

// SSEHandler streams notifications as server-sent events.
// Clients may filter by kind via ?kinds=toast,modal.
func SSEHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}
		filter := kindFilter(r)

		id, ch := hub.Subscribe()
		defer hub.Unsubscribe(id)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case n, ok := <-ch:
				if !ok {
					return
				}
				if filter != nil && !filter[n.Kind] {
					continue
				}
				data, err := json.Marshal(n)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", n.Seq, n.Kind, data)
				flusher.Flush()
			}
		}
	}
}

// WSHandler streams notifications as websocket text frames of JSON.
func WSHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := kindFilter(r)
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			slog.Debug("notification websocket upgrade failed", "error", err)
			return
		}
		defer func() {
			_ = conn.Close()
		}()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		id, ch := hub.Subscribe()
		defer hub.Unsubscribe(id)

		// The read loop only detects the client going away.
		go func() {
			defer cancel()
			for {
				if _, _, err := wsutil.ReadClientData(conn); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-ch:
				if !ok {
					return
				}
				if filter != nil && !filter[n.Kind] {
					continue
				}
				data, err := json.Marshal(n)
				if err != nil {
					continue
				}
				if err := wsutil.WriteServerText(conn, data); err != nil {
					slog.Debug("notification websocket write failed", "subscriber", id, "error", err)
					return
				}
			}
		}
	}
}
