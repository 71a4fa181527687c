package llm

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"star-backend/internal/shared/telemetry"
)

type scriptedClient struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (s *scriptedClient) Complete(ctx context.Context, req Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.errs) == 0 {
		return "ok", nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	if err != nil {
		return "", err
	}
	return "ok", nil
}

func TestUnconfigured(t *testing.T) {
	_, err := Unconfigured{Reason: "OPENAI_API_KEY is not set"}.Complete(context.Background(), Request{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if err.Error() != "LLM provider not configured: OPENAI_API_KEY is not set" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWithRetryZeroReturnsInner(t *testing.T) {
	inner := &scriptedClient{}
	if got := WithRetry(inner, 0, time.Millisecond); got != Client(inner) {
		t.Fatalf("expected inner client when retries disabled")
	}
}

func TestWithRetry(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(&bytes.Buffer{}))
	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   bool
	}{
		{name: "success first try", errs: nil, wantCalls: 1},
		{name: "5xx then success", errs: []error{&HTTPError{StatusCode: 503}, nil}, wantCalls: 2},
		{name: "429 then success", errs: []error{&HTTPError{StatusCode: 429}, nil}, wantCalls: 2},
		{name: "network then success", errs: []error{errors.New("connection reset"), nil}, wantCalls: 2},
		{name: "4xx not retried", errs: []error{&HTTPError{StatusCode: 401}}, wantCalls: 1, wantErr: true},
		{name: "not configured not retried", errs: []error{ErrNotConfigured}, wantCalls: 1, wantErr: true},
		{name: "gives up", errs: []error{&HTTPError{StatusCode: 500}, &HTTPError{StatusCode: 500}, &HTTPError{StatusCode: 500}}, wantCalls: 3, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inner := &scriptedClient{errs: tc.errs}
			c := WithRetry(inner, 2, time.Millisecond)
			_, err := c.Complete(context.Background(), Request{})
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if inner.calls != tc.wantCalls {
				t.Fatalf("calls = %d, want %d", inner.calls, tc.wantCalls)
			}
		})
	}
}

func TestWithRetryHonorsCancellation(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(&bytes.Buffer{}))
	inner := &scriptedClient{errs: []error{&HTTPError{StatusCode: 503, RetryAfter: time.Hour}}}
	c := WithRetry(inner, 3, time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.Complete(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

type blockingClient struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	release  chan struct{}
}

func (b *blockingClient) Complete(ctx context.Context, req Request) (string, error) {
	n := b.inFlight.Add(1)
	for {
		p := b.peak.Load()
		if n <= p || b.peak.CompareAndSwap(p, n) {
			break
		}
	}
	<-b.release
	b.inFlight.Add(-1)
	return "ok", nil
}

func TestWithConcurrencyLimit(t *testing.T) {
	inner := &blockingClient{release: make(chan struct{})}
	c := WithConcurrencyLimit(inner, 2)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Complete(context.Background(), Request{})
		}()
	}
	deadline := time.Now().Add(time.Second)
	for inner.inFlight.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	if got := inner.inFlight.Load(); got != 2 {
		t.Fatalf("expected 2 in flight, got %d", got)
	}
	close(inner.release)
	wg.Wait()
	if peak := inner.peak.Load(); peak > 2 {
		t.Fatalf("peak concurrency %d exceeded limit", peak)
	}
}

func TestWithConcurrencyLimitContextCancelled(t *testing.T) {
	inner := &blockingClient{release: make(chan struct{})}
	c := WithConcurrencyLimit(inner, 1)
	go func() { _, _ = c.Complete(context.Background(), Request{}) }()
	for inner.inFlight.Load() < 1 {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := c.Complete(ctx, Request{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded while waiting, got %v", err)
	}
	close(inner.release)
}
