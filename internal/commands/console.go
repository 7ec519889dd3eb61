package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fatih/color"

	"github.com/healinghorizons/dashboard/internal/notify"
)

// console presents dashboard notifications on a terminal and optionally
// mirrors toasts to an ntfy topic.
type console struct {
	out     io.Writer
	ntfyURL string
	client  *http.Client
}

func newConsole(out io.Writer, ntfyURL string) *console {
	return &console{out: out, ntfyURL: ntfyURL, client: &http.Client{Timeout: 5 * time.Second}}
}

func (c *console) Toast(level notify.Level, message string) {
	var mark *color.Color
	switch level {
	case notify.LevelSuccess:
		mark = color.New(color.FgGreen, color.Bold)
	case notify.LevelError:
		mark = color.New(color.FgRed, color.Bold)
	default:
		mark = color.New(color.FgCyan)
	}
	_, _ = mark.Fprintf(c.out, "%-8s", level)
	_, _ = fmt.Fprintln(c.out, message)

	if c.ntfyURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := notify.Send(ctx, c.client, c.ntfyURL, message); err != nil {
		slog.Debug("ntfy send failed", "error", err)
	}
}

func (c *console) ShowModal(m notify.Modal) {
	bold := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint)

	_, _ = fmt.Fprintln(c.out, "")
	_, _ = bold.Fprintln(c.out, m.Title)
	if m.Mood != "" {
		_, _ = fmt.Fprintf(c.out, "Mood: %s\n", m.Mood)
	}
	if len(m.Steps) == 0 {
		_, _ = faint.Fprintln(c.out, " no next steps")
		return
	}
	for i, step := range m.Steps {
		_, _ = fmt.Fprintf(c.out, " %d. %s\n", i+1, step)
	}
}

func (c *console) SetLoading(visible bool) {
	if visible {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(c.out, "Analyzing...")
	}
}
