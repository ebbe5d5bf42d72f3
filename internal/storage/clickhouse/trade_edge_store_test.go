package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/idhash"
	"sleeper-trade-lab/internal/storage"
)

func edgeRecord(root, tx, asset string, from, to int, ts int64) *storage.TradeEdgeRecord {
	return &storage.TradeEdgeRecord{
		EdgeID:     idhash.ComputeEdgeID(root, tx, asset, from, to),
		RootLeague: root,
		TradeEdge: domain.TradeEdge{
			TransactionID: tx,
			LeagueID:      root,
			Season:        "2024",
			Timestamp:     ts,
			FromRosterID:  from,
			ToRosterID:    to,
			AssetID:       asset,
			Context:       domain.EdgeContextPlayerSwap,
		},
		AssetKind: domain.AssetKindPlayer,
	}
}

func TestTradeEdgeStore_Integration(t *testing.T) {
	conn := setupTestDB(t)

	store := NewTradeEdgeStore(conn)
	ctx := context.Background()

	edges := []*storage.TradeEdgeRecord{
		edgeRecord("L1", "T2", "P1", 2, 3, 3000),
		edgeRecord("L1", "T1", "P1", 1, 2, 1000),
		edgeRecord("L1", "T1", "P2", 2, 1, 1000),
	}

	t.Run("InsertBulk writes new edges", func(t *testing.T) {
		n, err := store.InsertBulk(ctx, edges)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("InsertBulk skips duplicate edge ids", func(t *testing.T) {
		n, err := store.InsertBulk(ctx, append(edges, edges[0]))
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("GetByAsset orders by timestamp", func(t *testing.T) {
		got, err := store.GetByAsset(ctx, "L1", "P1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "T1", got[0].TransactionID)
		assert.Equal(t, 1, got[0].FromRosterID)
		assert.Equal(t, domain.EdgeContextPlayerSwap, got[0].Context)
		assert.Equal(t, "T2", got[1].TransactionID)
	})

	t.Run("GetByLeague", func(t *testing.T) {
		got, err := store.GetByLeague(ctx, "L1")
		require.NoError(t, err)
		assert.Len(t, got, 3)

		none, err := store.GetByLeague(ctx, "other")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
