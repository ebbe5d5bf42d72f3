// Package analysis derives league-level reports from a built trade graph:
// trade assets, connected trades, draft pick ownership, performance windows,
// roster acquisitions and historical coverage.
package analysis

import (
	"fmt"
	"sort"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/identity"
	"sleeper-trade-lab/internal/tradegraph"
)

// Direction is how an asset moved in a transaction.
type Direction string

const (
	DirectionTraded  Direction = "traded"
	DirectionAdded   Direction = "added"
	DirectionDropped Direction = "dropped"
)

// TradeAsset is one asset of a transaction.
type TradeAsset struct {
	AssetID      string
	Name         string
	Kind         domain.AssetKind
	Direction    Direction
	FromRosterID int // 0 for adds
	ToRosterID   int // 0 for drops
	Context      domain.EdgeContext
}

// TradeAssets classifies every asset of a transaction. Trade movements come
// from the graph's edges; adds and drops the graph did not turn into edges
// are classified on their own and reported as one-sided moves.
func TradeAssets(g *tradegraph.Graph, txID string) ([]TradeAsset, bool) {
	tx, ok := g.Transaction(txID)
	if !ok {
		return nil, false
	}

	var out []TradeAsset
	covered := make(map[string]bool)
	for _, e := range g.EdgesForTransaction(txID) {
		a := TradeAsset{
			AssetID:      e.AssetID,
			Direction:    DirectionTraded,
			FromRosterID: e.FromRosterID,
			ToRosterID:   e.ToRosterID,
			Context:      e.Context,
			Kind:         domain.AssetKindUnknown,
			Name:         e.AssetID,
		}
		if n, ok := g.Node(e.AssetID); ok {
			a.Kind = n.Kind
			a.Name = n.Name
			for _, ref := range n.RawRefs {
				covered[ref] = true
			}
		}
		covered[e.AssetID] = true
		out = append(out, a)
	}

	classifier := identity.NewClassifier(g.Players)
	out = append(out, loose(classifier, tx.Adds, DirectionAdded, covered)...)
	out = append(out, loose(classifier, tx.Drops, DirectionDropped, covered)...)
	return out, true
}

func loose(c *identity.Classifier, refs map[string]int, dir Direction, covered map[string]bool) []TradeAsset {
	ids := make([]string, 0, len(refs))
	for id := range refs {
		if !covered[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	out := make([]TradeAsset, 0, len(ids))
	for _, id := range ids {
		cl := c.Classify(id)
		a := TradeAsset{AssetID: id, Kind: cl.Kind, Direction: dir, Name: assetName(c, cl)}
		if dir == DirectionAdded {
			a.ToRosterID = refs[id]
		} else {
			a.FromRosterID = refs[id]
		}
		out = append(out, a)
	}
	return out
}

func assetName(c *identity.Classifier, cl identity.Classification) string {
	switch cl.Kind {
	case domain.AssetKindPlayer:
		if p, ok := c.Player(cl.AssetID); ok {
			return p.Name()
		}
	case domain.AssetKindDraftPick:
		return fmt.Sprintf("Draft Pick (%s, R%d)", cl.Season, cl.Round)
	}
	return cl.AssetID
}
