package genealogy

import (
	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/idhash"
	"sleeper-trade-lab/internal/tradegraph"
)

// OwnershipStep is one movement of an asset.
type OwnershipStep struct {
	TransactionID string
	Season        string
	Timestamp     int64
	FromRosterID  int
	FromName      string
	ToRosterID    int
	ToName        string
}

// PickChain is the ownership history of one pick identity.
type PickChain struct {
	Identity      domain.PickIdentity
	AssetID       string
	Name          string
	OriginalOwner int
	CurrentOwner  int
	Steps         []OwnershipStep
	Outcome       *domain.DraftOutcome
}

// Steps returns an asset's movements in graph order.
func Steps(g *tradegraph.Graph, assetID string) []OwnershipStep {
	edges := g.EdgesForAsset(assetID)
	out := make([]OwnershipStep, 0, len(edges))
	for _, e := range edges {
		out = append(out, OwnershipStep{
			TransactionID: e.TransactionID,
			Season:        e.Season,
			Timestamp:     e.Timestamp,
			FromRosterID:  e.FromRosterID,
			FromName:      g.RosterName(e.FromRosterID),
			ToRosterID:    e.ToRosterID,
			ToName:        g.RosterName(e.ToRosterID),
		})
	}
	return out
}

// PickChainFor returns the ownership chain of a pick identity. ok is false
// when the pick never appeared in a trade.
func PickChainFor(g *tradegraph.Graph, id domain.PickIdentity) (*PickChain, bool) {
	key := idhash.PickKey(id)
	n, ok := g.Node(key)
	if !ok {
		return nil, false
	}
	return pickChain(g, n), true
}

func pickChain(g *tradegraph.Graph, n *domain.AssetNode) *PickChain {
	pc := &PickChain{
		AssetID:       n.AssetID,
		Name:          n.Name,
		OriginalOwner: n.OriginalOwner,
		CurrentOwner:  n.CurrentOwner,
		Steps:         Steps(g, n.AssetID),
	}
	if n.Pick != nil {
		pc.Identity = n.Pick.Identity
		pc.Outcome = n.Pick.Outcome
	}
	return pc
}

// PickIdentities returns the chain of every traded pick, ordered by season,
// round and original roster.
func PickIdentities(g *tradegraph.Graph) []*PickChain {
	nodes := g.PickNodes()
	out := make([]*PickChain, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, pickChain(g, n))
	}
	return out
}
