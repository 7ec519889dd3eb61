// Package analysis talks to the journal analysis endpoint and records outcomes.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// CSRFHeader carries the anti-forgery token on analysis requests.
const CSRFHeader = "X-CSRFToken"

const maxBodyBytes = 1 << 20

// Result is the analysis collaborator's reply.
type Result struct {
	Mood      string   `json:"mood"`
	NextSteps []string `json:"next_steps"`
}

// AnalysisError reports a failed analysis call. It is always recoverable.
type AnalysisError struct {
	Status int // zero when no HTTP response was received
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("analysis failed: status=%d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// IsAnalysisError reports whether err is an *AnalysisError.
func IsAnalysisError(err error) bool {
	var ae *AnalysisError
	return errors.As(err, &ae)
}

// TokenSource supplies the anti-forgery token for each request.
type TokenSource func() string

// StaticToken returns a TokenSource that always yields token.
func StaticToken(token string) TokenSource {
	return func() string { return token }
}

// Client posts journal text to <base>/analyze.
type Client struct {
	endpoint string
	http     *http.Client
	token    TokenSource
}

// NewClient builds a client for baseURL. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, token TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if token == nil {
		token = StaticToken("")
	}
	return &Client{
		endpoint: strings.TrimSuffix(baseURL, "/") + "/analyze",
		http:     httpClient,
		token:    token,
	}
}

// Analyze submits text once. No retry is attempted and no timeout is applied
// beyond ctx.
func (c *Client) Analyze(ctx context.Context, text string) (Result, error) {
	body, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return Result{}, &AnalysisError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, &AnalysisError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(CSRFHeader, c.token())

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, &AnalysisError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{}, &AnalysisError{Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, &AnalysisError{Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	var out Result
	if err := json.Unmarshal(raw, &out); err != nil {
		return Result{}, &AnalysisError{Status: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	return out, nil
}
