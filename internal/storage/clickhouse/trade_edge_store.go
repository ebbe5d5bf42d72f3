package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/storage"
)

// TradeEdgeStore implements storage.TradeEdgeStore using ClickHouse.
type TradeEdgeStore struct {
	conn *Conn
}

// NewTradeEdgeStore creates a new TradeEdgeStore.
func NewTradeEdgeStore(conn *Conn) *TradeEdgeStore {
	return &TradeEdgeStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeEdgeStore = (*TradeEdgeStore)(nil)

const tradeEdgeColumns = `
	edge_id, root_league, league_id, season, transaction_id, timestamp_ms,
	from_roster_id, to_roster_id, asset_id, asset_kind, context
`

// InsertBulk adds edges, skipping edge ids already stored or repeated in the batch.
// ReplacingMergeTree would collapse duplicates eventually; the explicit check keeps
// the written count exact.
func (s *TradeEdgeStore) InsertBulk(ctx context.Context, edges []*storage.TradeEdgeRecord) (int, error) {
	if len(edges) == 0 {
		return 0, nil
	}

	seen := make(map[string]struct{}, len(edges))
	var fresh []*storage.TradeEdgeRecord
	for _, e := range edges {
		if e == nil || e.EdgeID == "" || e.RootLeague == "" {
			return 0, storage.ErrInvalidInput
		}
		if _, dup := seen[e.EdgeID]; dup {
			continue
		}
		seen[e.EdgeID] = struct{}{}

		exists, err := s.exists(ctx, e.EdgeID)
		if err != nil {
			return 0, fmt.Errorf("check exists: %w", err)
		}
		if !exists {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO trade_edges (`+tradeEdgeColumns+`)`)
	if err != nil {
		return 0, fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range fresh {
		err = batch.Append(
			e.EdgeID, e.RootLeague, e.LeagueID, e.Season, e.TransactionID, e.Timestamp,
			int32(e.FromRosterID), int32(e.ToRosterID), e.AssetID, string(e.AssetKind), string(e.Context),
		)
		if err != nil {
			return 0, fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("send batch: %w", err)
	}
	return len(fresh), nil
}

// GetByLeague retrieves edges for a root league ordered by timestamp ASC.
func (s *TradeEdgeStore) GetByLeague(ctx context.Context, rootLeague string) ([]*storage.TradeEdgeRecord, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT `+tradeEdgeColumns+`
		FROM trade_edges FINAL
		WHERE root_league = ?
		ORDER BY timestamp_ms ASC, transaction_id ASC, asset_id ASC
	`, rootLeague)
	if err != nil {
		return nil, fmt.Errorf("query by league: %w", err)
	}
	defer rows.Close()

	return scanTradeEdges(rows)
}

// GetByAsset retrieves edges for one asset ordered by timestamp ASC.
func (s *TradeEdgeStore) GetByAsset(ctx context.Context, rootLeague, assetID string) ([]*storage.TradeEdgeRecord, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT `+tradeEdgeColumns+`
		FROM trade_edges FINAL
		WHERE root_league = ? AND asset_id = ?
		ORDER BY timestamp_ms ASC, transaction_id ASC
	`, rootLeague, assetID)
	if err != nil {
		return nil, fmt.Errorf("query by asset: %w", err)
	}
	defer rows.Close()

	return scanTradeEdges(rows)
}

func (s *TradeEdgeStore) exists(ctx context.Context, edgeID string) (bool, error) {
	var count uint64
	row := s.conn.QueryRow(ctx, `SELECT count() FROM trade_edges WHERE edge_id = ?`, edgeID)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanTradeEdges(rows driver.Rows) ([]*storage.TradeEdgeRecord, error) {
	var result []*storage.TradeEdgeRecord
	for rows.Next() {
		var (
			e          storage.TradeEdgeRecord
			from, to   int32
			kind, ectx string
		)
		err := rows.Scan(
			&e.EdgeID, &e.RootLeague, &e.LeagueID, &e.Season, &e.TransactionID, &e.Timestamp,
			&from, &to, &e.AssetID, &kind, &ectx,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade edge: %w", err)
		}
		e.FromRosterID = int(from)
		e.ToRosterID = int(to)
		e.AssetKind = domain.AssetKind(kind)
		e.Context = domain.EdgeContext(ectx)
		result = append(result, &e)
	}
	return result, rows.Err()
}
