package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/storage"
)

// WeeklyStatStore is an in-memory implementation of storage.WeeklyStatStore.
type WeeklyStatStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PlayerWeekStats // keyed by season|week|player
}

// NewWeeklyStatStore creates a new in-memory weekly stat store.
func NewWeeklyStatStore() *WeeklyStatStore {
	return &WeeklyStatStore{
		data: make(map[string]*domain.PlayerWeekStats),
	}
}

func statKey(season string, week int, playerID string) string {
	return fmt.Sprintf("%s|%d|%s", season, week, playerID)
}

// InsertBulk adds stat lines, skipping keys that already exist.
func (s *WeeklyStatStore) InsertBulk(_ context.Context, stats []*domain.PlayerWeekStats) (int, error) {
	for _, st := range stats {
		if st == nil || st.PlayerID == "" || st.Season == "" || st.Week <= 0 {
			return 0, storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	written := 0
	for _, st := range stats {
		key := statKey(st.Season, st.Week, st.PlayerID)
		if _, exists := s.data[key]; exists {
			continue
		}
		statCopy := *st
		s.data[key] = &statCopy
		written++
	}
	return written, nil
}

// GetByPlayer retrieves a player's lines for a season ordered by week ASC.
func (s *WeeklyStatStore) GetByPlayer(_ context.Context, playerID, season string) ([]*domain.PlayerWeekStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PlayerWeekStats
	for _, st := range s.data {
		if st.PlayerID == playerID && st.Season == season {
			statCopy := *st
			result = append(result, &statCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Week < result[j].Week
	})
	return result, nil
}

var _ storage.WeeklyStatStore = (*WeeklyStatStore)(nil)
