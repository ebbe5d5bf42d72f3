// Package cache memoizes upstream responses in a ResponseCacheStore.
package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/observability"
	"sleeper-trade-lab/internal/storage"
)

// DefaultTTL is the retention window for cached responses.
const DefaultTTL = 7 * 24 * time.Hour

// FetchFunc performs the upstream request for a key.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Options configures a Memo.
type Options struct {
	Store  storage.ResponseCacheStore
	TTL    time.Duration    // default DefaultTTL
	Now    func() time.Time // default time.Now
	Logger *log.Logger      // default log.Default()
}

// Memo is a get-or-fetch layer over a response cache store.
// Concurrent calls for the same key share one read-check/fetch/write sequence;
// different keys proceed independently.
type Memo struct {
	store  storage.ResponseCacheStore
	ttl    time.Duration
	now    func() time.Time
	logger *log.Logger
	group  singleflight.Group
}

// New creates a Memo.
func New(opts Options) *Memo {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Memo{
		store:  opts.Store,
		ttl:    opts.TTL,
		now:    opts.Now,
		logger: opts.Logger,
	}
}

// TTL returns the retention window.
func (m *Memo) TTL() time.Duration {
	return m.ttl
}

// GetOrFetch returns the cached payload for key when it is younger than the TTL,
// otherwise calls fetch and overwrites the entry. Fetch errors are returned and
// never cached. A failing store degrades to a plain fetch.
//
// The shared load runs detached from any single caller's cancellation; a
// cancelled caller returns its ctx error while other waiters keep theirs.
func (m *Memo) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	ch := m.group.DoChan(key, func() (interface{}, error) {
		return m.load(context.WithoutCancel(ctx), key, fetch)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			observability.RecordCacheShared()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (m *Memo) load(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	start := time.Now()
	entry, err := m.store.Get(ctx, key)
	observability.RecordDBQuery("cache", "get", time.Since(start).Seconds(), ignoreNotFound(err))

	switch {
	case err == nil && entry.IsFresh(m.now(), m.ttl):
		observability.RecordCacheHit()
		return entry.Payload, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		m.logger.Printf("cache: read %s: %v", key, err)
	}
	observability.RecordCacheMiss()

	payload, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	err = m.store.Put(ctx, &domain.CachedResponse{Key: key, Payload: payload, FetchedAt: m.now()})
	observability.RecordDBQuery("cache", "put", time.Since(start).Seconds(), err)
	if err != nil {
		m.logger.Printf("cache: write %s: %v", key, err)
	}
	return payload, nil
}

// Invalidate drops the entry for key.
func (m *Memo) Invalidate(ctx context.Context, key string) error {
	return m.store.Delete(ctx, key)
}

// Purge removes every entry older than the TTL and returns the count.
func (m *Memo) Purge(ctx context.Context) (int, error) {
	return m.store.PurgeOlderThan(ctx, m.now().Add(-m.ttl))
}

func ignoreNotFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}
