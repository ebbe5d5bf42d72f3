package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleeper-trade-lab/internal/domain"
)

func TestWeeklyStatStore_Integration(t *testing.T) {
	conn := setupTestDB(t)

	store := NewWeeklyStatStore(conn)
	ctx := context.Background()

	stats := []*domain.PlayerWeekStats{
		{PlayerID: "4046", Season: "2024", Week: 2, PtsPPR: 18.5, GamesPlayed: 1},
		{PlayerID: "4046", Season: "2024", Week: 1, PtsPPR: 22.1, GamesPlayed: 1},
		{PlayerID: "6794", Season: "2024", Week: 1, PtsPPR: 0, GamesPlayed: 0},
	}

	n, err := store.InsertBulk(ctx, stats)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = store.InsertBulk(ctx, stats[:1])
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := store.GetByPlayer(ctx, "4046", "2024")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Week)
	assert.InDelta(t, 22.1, got[0].PtsPPR, 0.0001)
	assert.Equal(t, 2, got[1].Week)
}
