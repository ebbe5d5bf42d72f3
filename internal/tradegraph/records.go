package tradegraph

import (
	"sleeper-trade-lab/internal/idhash"
	"sleeper-trade-lab/internal/storage"
)

// EdgeRecords converts the graph's edges into sink rows with deterministic ids.
func (g *Graph) EdgeRecords() []*storage.TradeEdgeRecord {
	out := make([]*storage.TradeEdgeRecord, 0, len(g.Edges))
	for _, e := range g.Edges {
		rec := &storage.TradeEdgeRecord{
			EdgeID:     idhash.ComputeEdgeID(e.LeagueID, e.TransactionID, e.AssetID, e.FromRosterID, e.ToRosterID),
			RootLeague: g.LeagueID,
			TradeEdge:  e,
		}
		if n, ok := g.Nodes[e.AssetID]; ok {
			rec.AssetKind = n.Kind
		}
		out = append(out, rec)
	}
	return out
}
