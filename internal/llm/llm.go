package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Format selects the shape of the model output.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Request is a single system+user completion request.
type Request struct {
	System      string
	User        string
	Format      Format
	Temperature float32
	MaxTokens   int
}

// Client abstracts LLM providers. Complete returns the raw text of the first
// candidate; interpreting it is the caller's job.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrNotConfigured is returned when no provider credentials are available.
var ErrNotConfigured = errors.New("LLM provider not configured")

// Unconfigured fails every call. It stands in for a provider whose API key is missing
// so the server still starts and serves reference data.
type Unconfigured struct {
	Reason string
}

// Complete returns ErrNotConfigured.
func (u Unconfigured) Complete(ctx context.Context, req Request) (string, error) {
	_ = ctx
	_ = req
	if u.Reason == "" {
		return "", ErrNotConfigured
	}
	return "", fmt.Errorf("%w: %s", ErrNotConfigured, u.Reason)
}

// HTTPError carries a non-2xx provider response so retry logic can inspect it.
type HTTPError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s error: HTTP %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s error: HTTP %d", e.Provider, e.StatusCode)
}
