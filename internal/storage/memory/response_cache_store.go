package memory

import (
	"context"
	"sync"
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/storage"
)

// ResponseCacheStore is an in-memory implementation of storage.ResponseCacheStore.
type ResponseCacheStore struct {
	mu   sync.RWMutex
	data map[string]*domain.CachedResponse // keyed by request URL
}

// NewResponseCacheStore creates a new in-memory response cache store.
func NewResponseCacheStore() *ResponseCacheStore {
	return &ResponseCacheStore{
		data: make(map[string]*domain.CachedResponse),
	}
}

// Get retrieves an entry by key. Returns ErrNotFound if not exists.
func (s *ResponseCacheStore) Get(_ context.Context, key string) (*domain.CachedResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[key]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyResponse(e), nil
}

// Put inserts or overwrites the entry for its key.
func (s *ResponseCacheStore) Put(_ context.Context, entry *domain.CachedResponse) error {
	if entry == nil || entry.Key == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[entry.Key] = copyResponse(entry)
	return nil
}

// Delete removes an entry.
func (s *ResponseCacheStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// PurgeOlderThan removes entries fetched before cutoff.
func (s *ResponseCacheStore) PurgeOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, e := range s.data {
		if e.FetchedAt.Before(cutoff) {
			delete(s.data, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of cached entries.
func (s *ResponseCacheStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func copyResponse(e *domain.CachedResponse) *domain.CachedResponse {
	c := *e
	c.Payload = append([]byte(nil), e.Payload...)
	return &c
}

var _ storage.ResponseCacheStore = (*ResponseCacheStore)(nil)
