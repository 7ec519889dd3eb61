// Package netutil binds the dashboard server to the first usable address.
package netutil

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
)

var (
	// ErrPreferredInUse is returned when the configured address is taken and
	// falling back to the candidate list is disabled.
	ErrPreferredInUse = errors.New("preferred bind address in use")
	// ErrNoBindAddr is returned when every address is taken.
	ErrNoBindAddr = errors.New("no available dashboard bind addresses")
)

// Bind listens on preferred, or on the first free candidate when fallback is
// allowed. The returned listener is already bound, so the address cannot be
// taken between selection and serve.
func Bind(preferred string, candidates []string, fallback bool) (net.Listener, error) {
	if preferred != "" {
		ln, err := net.Listen("tcp", preferred)
		if err == nil {
			return ln, nil
		}
		if !fallback {
			return nil, fmt.Errorf("%w: %s: %v", ErrPreferredInUse, preferred, err)
		}
		slog.Warn("preferred bind address unavailable, trying candidates", "addr", preferred, "error", err)
	}

	seen := map[string]bool{preferred: true}
	for _, addr := range candidates {
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			slog.Debug("bind candidate unavailable", "addr", addr, "error", err)
			continue
		}
		return ln, nil
	}
	return nil, ErrNoBindAddr
}

// ListenURL returns the http URL a browser should open for addr. Wildcard
// hosts map to loopback.
func ListenURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}
