package clickhouse

import (
	"context"
	"fmt"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/storage"
)

// WeeklyStatStore implements storage.WeeklyStatStore using ClickHouse.
type WeeklyStatStore struct {
	conn *Conn
}

// NewWeeklyStatStore creates a new WeeklyStatStore.
func NewWeeklyStatStore(conn *Conn) *WeeklyStatStore {
	return &WeeklyStatStore{conn: conn}
}

var _ storage.WeeklyStatStore = (*WeeklyStatStore)(nil)

// InsertBulk adds stat lines, skipping (season, week, player) keys that already exist.
func (s *WeeklyStatStore) InsertBulk(ctx context.Context, stats []*domain.PlayerWeekStats) (int, error) {
	if len(stats) == 0 {
		return 0, nil
	}

	for _, st := range stats {
		if st == nil || st.PlayerID == "" || st.Season == "" || st.Week <= 0 {
			return 0, storage.ErrInvalidInput
		}
	}

	existing, err := s.existingKeys(ctx, stats)
	if err != nil {
		return 0, fmt.Errorf("load existing keys: %w", err)
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO player_week_stats (season, week, player_id, pts_ppr, games_played)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare batch: %w", err)
	}

	written := 0
	for _, st := range stats {
		key := weekKey(st.Week, st.PlayerID)
		if _, ok := existing[st.Season][key]; ok {
			continue
		}
		if existing[st.Season] == nil {
			existing[st.Season] = make(map[string]struct{})
		}
		existing[st.Season][key] = struct{}{}

		if err := batch.Append(st.Season, uint8(st.Week), st.PlayerID, st.PtsPPR, uint8(st.GamesPlayed)); err != nil {
			return 0, fmt.Errorf("append to batch: %w", err)
		}
		written++
	}

	if written == 0 {
		_ = batch.Abort()
		return 0, nil
	}
	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("send batch: %w", err)
	}
	return written, nil
}

// existingKeys loads stored week|player keys for the seasons in the batch.
func (s *WeeklyStatStore) existingKeys(ctx context.Context, stats []*domain.PlayerWeekStats) (map[string]map[string]struct{}, error) {
	out := make(map[string]map[string]struct{})
	for _, st := range stats {
		if _, loaded := out[st.Season]; loaded {
			continue
		}
		keys := make(map[string]struct{})

		rows, err := s.conn.Query(ctx, `
			SELECT week, player_id FROM player_week_stats WHERE season = ?
		`, st.Season)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var (
				week     uint8
				playerID string
			)
			if err := rows.Scan(&week, &playerID); err != nil {
				rows.Close()
				return nil, err
			}
			keys[weekKey(int(week), playerID)] = struct{}{}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
		out[st.Season] = keys
	}
	return out, nil
}

// GetByPlayer retrieves a player's lines for a season ordered by week ASC.
func (s *WeeklyStatStore) GetByPlayer(ctx context.Context, playerID, season string) ([]*domain.PlayerWeekStats, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT season, week, player_id, pts_ppr, games_played
		FROM player_week_stats FINAL
		WHERE player_id = ? AND season = ?
		ORDER BY week ASC
	`, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("query by player: %w", err)
	}
	defer rows.Close()

	var result []*domain.PlayerWeekStats
	for rows.Next() {
		var (
			st       domain.PlayerWeekStats
			week, gp uint8
		)
		if err := rows.Scan(&st.Season, &week, &st.PlayerID, &st.PtsPPR, &gp); err != nil {
			return nil, fmt.Errorf("scan stat line: %w", err)
		}
		st.Week = int(week)
		st.GamesPlayed = int(gp)
		result = append(result, &st)
	}
	return result, rows.Err()
}

func weekKey(week int, playerID string) string {
	return fmt.Sprintf("%d|%s", week, playerID)
}
