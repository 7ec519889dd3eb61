package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func requestLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		if rec["msg"] == "http request" {
			out = append(out, rec)
		}
	}
	return out
}

func TestRequestLoggerRecordsRouteAndChart(t *testing.T) {
	buf := captureLogs(t)
	h := NewServer(newStub(), nil)
	do(t, h, http.MethodGet, "/api/v1/charts/mood", "")
	do(t, h, http.MethodGet, "/api/v1/trend?days=3", "")

	lines := requestLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("logged %d requests; want 2", len(lines))
	}
	if got := lines[0]["route"]; got != "/api/v1/charts/{name}" {
		t.Fatalf("route = %v; want /api/v1/charts/{name}", got)
	}
	if got := lines[0]["chart"]; got != "mood" {
		t.Fatalf("chart = %v; want mood", got)
	}
	if _, ok := lines[1]["chart"]; ok {
		t.Fatalf("trend request logged a chart: %v", lines[1])
	}
}

func TestRequestLoggerWarnsOnServerError(t *testing.T) {
	buf := captureLogs(t)
	stub := newStub()
	stub.err = errors.New("boom")
	do(t, NewServer(stub, nil), http.MethodGet, "/api/v1/journal/stats", "")

	lines := requestLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("logged %d requests; want 1", len(lines))
	}
	if got := lines[0]["level"]; got != "WARN" {
		t.Fatalf("level = %v; want WARN", got)
	}
}
