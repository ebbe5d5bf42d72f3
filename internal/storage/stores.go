package storage

import (
	"context"
	"time"

	"sleeper-trade-lab/internal/domain"
)

// ResponseCacheStore provides access to api_cache storage.
type ResponseCacheStore interface {
	// Get retrieves an entry by key. Returns ErrNotFound if not exists.
	Get(ctx context.Context, key string) (*domain.CachedResponse, error)

	// Put inserts or overwrites the entry for its key.
	Put(ctx context.Context, entry *domain.CachedResponse) error

	// Delete removes an entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// PurgeOlderThan removes entries fetched before cutoff and returns the count.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// TradeEdgeRecord is a trade edge persisted for analytics.
type TradeEdgeRecord struct {
	EdgeID     string // deterministic, see idhash.ComputeEdgeID
	RootLeague string // league the graph was built for
	domain.TradeEdge
	AssetKind domain.AssetKind
}

// TradeEdgeStore provides access to trade_edges storage.
type TradeEdgeStore interface {
	// InsertBulk adds edges, skipping edge ids that already exist.
	// Returns the number of rows written.
	InsertBulk(ctx context.Context, edges []*TradeEdgeRecord) (int, error)

	// GetByLeague retrieves edges for a root league ordered by timestamp ASC.
	GetByLeague(ctx context.Context, rootLeague string) ([]*TradeEdgeRecord, error)

	// GetByAsset retrieves edges for one asset ordered by timestamp ASC.
	GetByAsset(ctx context.Context, rootLeague, assetID string) ([]*TradeEdgeRecord, error)
}

// WeeklyStatStore provides access to player_week_stats storage.
type WeeklyStatStore interface {
	// InsertBulk adds stat lines, skipping (season, week, player) keys that already exist.
	// Returns the number of rows written.
	InsertBulk(ctx context.Context, stats []*domain.PlayerWeekStats) (int, error)

	// GetByPlayer retrieves a player's lines for a season ordered by week ASC.
	GetByPlayer(ctx context.Context, playerID, season string) ([]*domain.PlayerWeekStats, error)
}
