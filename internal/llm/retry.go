package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"star-backend/internal/shared/telemetry"
)

type retryClient struct {
	inner      Client
	maxRetries int
	baseDelay  time.Duration
}

// WithRetry retries transient failures with exponential backoff and jitter.
// maxRetries is the number of additional attempts after the first failure;
// zero or less returns inner unchanged.
func WithRetry(inner Client, maxRetries int, baseDelay time.Duration) Client {
	if maxRetries <= 0 {
		return inner
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &retryClient{inner: inner, maxRetries: maxRetries, baseDelay: baseDelay}
}

func (r *retryClient) Complete(ctx context.Context, req Request) (string, error) {
	out, err := r.inner.Complete(ctx, req)
	if err == nil || !isRetryable(err) {
		return out, err
	}

	lastErr := err
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		delay := r.backoffDelay(attempt, lastErr)
		telemetry.Warn("llm.retry", map[string]any{
			"attempt":     attempt,
			"max_retries": r.maxRetries,
			"delay_ms":    delay.Milliseconds(),
			"error":       lastErr,
		})

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		out, err = r.inner.Complete(ctx, req)
		if err == nil || !isRetryable(err) {
			return out, err
		}
		lastErr = err
	}
	return "", lastErr
}

// backoffDelay doubles baseDelay per attempt with ±30% jitter. A Retry-After
// from the provider takes precedence.
func (r *retryClient) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}
	delay := r.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrNotConfigured) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	// Network failures.
	return true
}
