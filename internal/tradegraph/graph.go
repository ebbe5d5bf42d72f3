// Package tradegraph builds the directed graph of asset movements across a
// league chain.
package tradegraph

import (
	"sort"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/fanout"
	"sleeper-trade-lab/internal/identity"
)

// Graph is a built trade graph together with the chain data it was built
// from and lookup indexes over its edges.
type Graph struct {
	*domain.TradeGraph

	Chain    domain.LeagueChain
	Records  []domain.TransactionRecord // every transaction of the chain, ids re-tagged on collision
	Drafts   []domain.Draft
	Picks    []domain.DraftPick
	Players  map[string]domain.Player
	Failures []fanout.Failure // branches skipped while fetching
	Unknown  []string         // traded ids that are neither picks nor directory players, sorted

	slots   *identity.DraftSlots
	byAsset map[string][]int
	byTx    map[string][]int
	txByID  map[string]int
}

func (g *Graph) index() {
	g.byAsset = make(map[string][]int)
	g.byTx = make(map[string][]int)
	for i, e := range g.Edges {
		g.byAsset[e.AssetID] = append(g.byAsset[e.AssetID], i)
		g.byTx[e.TransactionID] = append(g.byTx[e.TransactionID], i)
	}
	g.txByID = make(map[string]int, len(g.Records))
	for i, tx := range g.Records {
		g.txByID[tx.TransactionID] = i
	}
}

// EdgesForAsset returns an asset's edges in processing order.
func (g *Graph) EdgesForAsset(assetID string) []domain.TradeEdge {
	return g.collect(g.byAsset[assetID])
}

// EdgesForTransaction returns a transaction's edges in processing order.
func (g *Graph) EdgesForTransaction(txID string) []domain.TradeEdge {
	return g.collect(g.byTx[txID])
}

// EdgeIndexes returns the positions in Edges of an asset's edges.
func (g *Graph) EdgeIndexes(assetID string) []int {
	return g.byAsset[assetID]
}

// TransactionEdgeIndexes returns the positions in Edges of a transaction's edges.
func (g *Graph) TransactionEdgeIndexes(txID string) []int {
	return g.byTx[txID]
}

func (g *Graph) collect(idx []int) []domain.TradeEdge {
	out := make([]domain.TradeEdge, 0, len(idx))
	for _, i := range idx {
		out = append(out, g.Edges[i])
	}
	return out
}

// Transaction returns a chain transaction by (possibly re-tagged) id.
func (g *Graph) Transaction(txID string) (*domain.TransactionRecord, bool) {
	i, ok := g.txByID[txID]
	if !ok {
		return nil, false
	}
	return &g.Records[i], true
}

// Node returns an asset node.
func (g *Graph) Node(assetID string) (*domain.AssetNode, bool) {
	n, ok := g.Nodes[assetID]
	return n, ok
}

// DraftSlots returns the per-season slot maps the graph was built with.
func (g *Graph) DraftSlots() *identity.DraftSlots {
	return g.slots
}

// PickNodes returns draft-pick nodes ordered by season, round and original roster.
func (g *Graph) PickNodes() []*domain.AssetNode {
	var out []*domain.AssetNode
	for _, n := range g.Nodes {
		if n.Kind == domain.AssetKindDraftPick && n.Pick != nil {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Pick.Identity, out[j].Pick.Identity
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.Round != b.Round {
			return a.Round < b.Round
		}
		return a.OriginalRosterID < b.OriginalRosterID
	})
	return out
}

// TimelineSummaries returns the timestamped trades in timeline order.
func (g *Graph) TimelineSummaries() []*domain.TransactionSummary {
	out := make([]*domain.TransactionSummary, 0, len(g.Timeline))
	for _, id := range g.Timeline {
		if s, ok := g.Transactions[id]; ok {
			out = append(out, s)
		}
	}
	return out
}
