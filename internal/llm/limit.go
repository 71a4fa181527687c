package llm

import (
	"context"

	"golang.org/x/sync/semaphore"
)

type limitedClient struct {
	inner Client
	sem   *semaphore.Weighted
}

// WithConcurrencyLimit caps in-flight calls to inner at n. Callers over the cap
// wait until a slot frees or their context ends. n <= 0 disables the cap.
func WithConcurrencyLimit(inner Client, n int) Client {
	if n <= 0 {
		return inner
	}
	return &limitedClient{inner: inner, sem: semaphore.NewWeighted(int64(n))}
}

func (l *limitedClient) Complete(ctx context.Context, req Request) (string, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer l.sem.Release(1)
	return l.inner.Complete(ctx, req)
}
