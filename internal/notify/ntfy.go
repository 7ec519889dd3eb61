package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Send posts message to endpoint as text/plain.
func Send(ctx context.Context, client *http.Client, endpoint, message string) error {
	return post(ctx, client, endpoint, message, nil)
}

// NtfyForwarder posts toasts to an ntfy topic.
type NtfyForwarder struct {
	Endpoint string
	Client   *http.Client
}

func (f *NtfyForwarder) Forward(ctx context.Context, n Notification) error {
	if n.Kind != KindToast || n.Message == "" {
		return nil
	}
	headers := http.Header{}
	headers.Set("Title", "Healing Horizons")
	headers.Set("Tags", string(n.Level))
	if n.Level == LevelError {
		headers.Set("Priority", "high")
	}
	return post(ctx, f.Client, f.Endpoint, n.Message, headers)
}

func post(ctx context.Context, client *http.Client, endpoint, message string, headers http.Header) error {
	c := client
	if c == nil {
		c = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(message))
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy notification failed: status=%d", resp.StatusCode)
	}
	return nil
}
