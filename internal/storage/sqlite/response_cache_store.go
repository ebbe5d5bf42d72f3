package sqlite

import (
	"context"
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/storage"
)

// ResponseCacheStore is a SQLite implementation of storage.ResponseCacheStore.
// fetched_at is stored as Unix milliseconds.
type ResponseCacheStore struct {
	db *DB
}

// NewResponseCacheStore creates a new SQLite response cache store.
func NewResponseCacheStore(db *DB) *ResponseCacheStore {
	return &ResponseCacheStore{db: db}
}

// Get retrieves an entry by URL. Returns ErrNotFound if not exists.
func (s *ResponseCacheStore) Get(ctx context.Context, key string) (*domain.CachedResponse, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT url, data, fetched_at
		FROM api_cache
		WHERE url = ?
	`, key)

	var (
		e       domain.CachedResponse
		fetched int64
	)
	if err := row.Scan(&e.Key, &e.Payload, &fetched); err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	e.FetchedAt = time.UnixMilli(fetched).UTC()
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_cache (url, data, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT (url) DO UPDATE
		SET data = excluded.data,
		    fetched_at = excluded.fetched_at
	`, entry.Key, payload, entry.FetchedAt.UnixMilli())

	return err
}

// Delete removes an entry.
func (s *ResponseCacheStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM api_cache WHERE url = ?`, key)
	return err
}

// PurgeOlderThan removes entries fetched before cutoff.
func (s *ResponseCacheStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM api_cache WHERE fetched_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

var _ storage.ResponseCacheStore = (*ResponseCacheStore)(nil)
