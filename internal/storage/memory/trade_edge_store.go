package memory

import (
	"context"
	"sort"
	"sync"

	"sleeper-trade-lab/internal/storage"
)

// TradeEdgeStore is an in-memory implementation of storage.TradeEdgeStore.
type TradeEdgeStore struct {
	mu    sync.RWMutex
	data  map[string]*storage.TradeEdgeRecord // keyed by edge_id
	order []string                            // insertion order
}

// NewTradeEdgeStore creates a new in-memory trade edge store.
func NewTradeEdgeStore() *TradeEdgeStore {
	return &TradeEdgeStore{
		data: make(map[string]*storage.TradeEdgeRecord),
	}
}

// InsertBulk adds edges, skipping edge ids that already exist.
func (s *TradeEdgeStore) InsertBulk(_ context.Context, edges []*storage.TradeEdgeRecord) (int, error) {
	if len(edges) == 0 {
		return 0, nil
	}

	for _, e := range edges {
		if e == nil || e.EdgeID == "" || e.RootLeague == "" {
			return 0, storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	written := 0
	for _, e := range edges {
		if _, exists := s.data[e.EdgeID]; exists {
			continue
		}
		edgeCopy := *e
		s.data[e.EdgeID] = &edgeCopy
		s.order = append(s.order, e.EdgeID)
		written++
	}
	return written, nil
}

// GetByLeague retrieves edges for a root league ordered by timestamp ASC.
func (s *TradeEdgeStore) GetByLeague(_ context.Context, rootLeague string) ([]*storage.TradeEdgeRecord, error) {
	return s.filter(func(e *storage.TradeEdgeRecord) bool {
		return e.RootLeague == rootLeague
	}), nil
}

// GetByAsset retrieves edges for one asset ordered by timestamp ASC.
func (s *TradeEdgeStore) GetByAsset(_ context.Context, rootLeague, assetID string) ([]*storage.TradeEdgeRecord, error) {
	return s.filter(func(e *storage.TradeEdgeRecord) bool {
		return e.RootLeague == rootLeague && e.AssetID == assetID
	}), nil
}

func (s *TradeEdgeStore) filter(keep func(*storage.TradeEdgeRecord) bool) []*storage.TradeEdgeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.TradeEdgeRecord
	for _, id := range s.order {
		e := s.data[id]
		if keep(e) {
			edgeCopy := *e
			result = append(result, &edgeCopy)
		}
	}

	// Stable so edges of one transaction keep insertion order
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})
	return result
}

var _ storage.TradeEdgeStore = (*TradeEdgeStore)(nil)
