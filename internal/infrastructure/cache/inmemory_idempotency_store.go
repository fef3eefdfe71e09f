package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
)

// InMemoryIdempotencyStore is a process-local IdempotencyStore. Suitable for
// single-instance deployments and tests; multi-instance deployments should
// use the Redis store so all instances share one dedup set.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time // eventID -> expiry
	done    chan struct{}
}

// NewInMemoryIdempotencyStore creates a store with a background sweeper that
// evicts expired entries every cleanupInterval
func NewInMemoryIdempotencyStore(cleanupInterval time.Duration) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		entries: make(map[string]time.Time),
		done:    make(chan struct{}),
	}
	go s.sweep(cleanupInterval)
	return s
}

// MarkProcessed marks the event as processed, returning false if it already was
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.entries[eventID]; ok && now.Before(expiry) {
		return false, nil
	}
	s.entries[eventID] = now.Add(ttl)
	return true, nil
}

// IsProcessed reports whether the event has an unexpired mark
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.entries[eventID]
	return ok && time.Now().Before(expiry), nil
}

// Close stops the background sweeper
func (s *InMemoryIdempotencyStore) Close() error {
	close(s.done)
	return nil
}

// sweep periodically removes expired entries
func (s *InMemoryIdempotencyStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, expiry := range s.entries {
				if now.After(expiry) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Ensure InMemoryIdempotencyStore implements IdempotencyStore
var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
