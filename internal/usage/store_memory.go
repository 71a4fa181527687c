package usage

import (
	"context"
	"sync"
)

// memoryStore keeps running totals per client rather than individual events.
type memoryStore struct {
	mu     sync.RWMutex
	totals map[string]Summary
}

func newMemoryStore() *memoryStore {
	return &memoryStore{totals: make(map[string]Summary)}
}

func (s *memoryStore) Insert(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	sum := s.totals[e.ClientKey]
	sum.add(e.Kind, e.Status, 1)
	s.totals[e.ClientKey] = sum
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Summary(ctx context.Context, clientKey string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals[clientKey], nil
}
