package postgres

import (
	"context"
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/storage"
)

// ResponseCacheStore is a PostgreSQL implementation of storage.ResponseCacheStore.
// Backed by the api_cache table; url is unique.
type ResponseCacheStore struct {
	pool *Pool
}

// NewResponseCacheStore creates a new PostgreSQL response cache store.
func NewResponseCacheStore(pool *Pool) *ResponseCacheStore {
	return &ResponseCacheStore{pool: pool}
}

// Get retrieves an entry by URL. Returns ErrNotFound if not exists.
func (s *ResponseCacheStore) Get(ctx context.Context, key string) (*domain.CachedResponse, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT url, data, fetched_at
		FROM api_cache
		WHERE url = $1
	`, key)

	var e domain.CachedResponse
	if err := row.Scan(&e.Key, &e.Payload, &e.FetchedAt); err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	e.FetchedAt = e.FetchedAt.UTC()
	return &e, nil
}

// Put inserts or overwrites the entry for its URL.
func (s *ResponseCacheStore) Put(ctx context.Context, entry *domain.CachedResponse) error {
	if entry == nil || entry.Key == "" {
		return storage.ErrInvalidInput
	}

	payload := entry.Payload
	if payload == nil {
		payload = []byte{}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO api_cache (url, data, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (url) DO UPDATE
		SET data = EXCLUDED.data,
		    fetched_at = EXCLUDED.fetched_at
	`, entry.Key, payload, entry.FetchedAt.UTC())

	return err
}

// Delete removes an entry.
func (s *ResponseCacheStore) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM api_cache WHERE url = $1`, key)
	return err
}

// PurgeOlderThan removes entries fetched before cutoff.
func (s *ResponseCacheStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM api_cache WHERE fetched_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

var _ storage.ResponseCacheStore = (*ResponseCacheStore)(nil)
