// Package verification checks stored trade edges against a rebuilt graph.
// A re-ingest of unchanged history must reproduce every stored edge.
package verification

import (
	"context"
	"fmt"
	"sort"

	"sleeper-trade-lab/internal/storage"
)

// FieldDivergence represents a mismatch between stored and rebuilt values.
type FieldDivergence struct {
	Field    string      // field name
	Expected interface{} // stored value
	Actual   interface{} // rebuilt value
}

// EdgeResult contains the result of verifying a single edge id.
type EdgeResult struct {
	EdgeID      string
	Match       bool
	Divergences []FieldDivergence
}

// Report contains results for one root league.
type Report struct {
	RootLeague     string
	TotalEdges     int      // edges in the rebuilt graph
	MatchedEdges   int      // stored and rebuilt identically
	MissingEdges   []string // rebuilt but not stored
	ExtraEdges     []string // stored but no longer produced
	DivergentEdges []EdgeResult
}

// OK reports whether storage and the rebuilt graph agree.
func (r *Report) OK() bool {
	return len(r.MissingEdges) == 0 && len(r.ExtraEdges) == 0 && len(r.DivergentEdges) == 0
}

func (r *Report) String() string {
	return fmt.Sprintf("%s: %d/%d matched, %d missing, %d extra, %d divergent",
		r.RootLeague, r.MatchedEdges, r.TotalEdges,
		len(r.MissingEdges), len(r.ExtraEdges), len(r.DivergentEdges))
}

// EdgeVerifier compares an edge store with rebuilt edge records.
type EdgeVerifier struct {
	store storage.TradeEdgeStore
}

// NewEdgeVerifier creates a new EdgeVerifier.
func NewEdgeVerifier(store storage.TradeEdgeStore) *EdgeVerifier {
	return &EdgeVerifier{store: store}
}

// Verify loads the stored edges of rootLeague and compares them with rebuilt.
func (v *EdgeVerifier) Verify(ctx context.Context, rootLeague string, rebuilt []*storage.TradeEdgeRecord) (*Report, error) {
	stored, err := v.store.GetByLeague(ctx, rootLeague)
	if err != nil {
		return nil, fmt.Errorf("load stored edges: %w", err)
	}
	report := CompareEdgeSets(stored, rebuilt)
	report.RootLeague = rootLeague
	return report, nil
}

// CompareEdgeSets matches edges by id. Id lists in the report are sorted.
func CompareEdgeSets(stored, rebuilt []*storage.TradeEdgeRecord) *Report {
	byID := make(map[string]*storage.TradeEdgeRecord, len(stored))
	for _, e := range stored {
		byID[e.EdgeID] = e
	}

	report := &Report{TotalEdges: len(rebuilt)}
	seen := make(map[string]bool, len(rebuilt))
	for _, e := range rebuilt {
		seen[e.EdgeID] = true
		s, ok := byID[e.EdgeID]
		if !ok {
			report.MissingEdges = append(report.MissingEdges, e.EdgeID)
			continue
		}
		if d := CompareEdgeRecords(s, e); len(d) > 0 {
			report.DivergentEdges = append(report.DivergentEdges, EdgeResult{EdgeID: e.EdgeID, Divergences: d})
			continue
		}
		report.MatchedEdges++
	}
	for id := range byID {
		if !seen[id] {
			report.ExtraEdges = append(report.ExtraEdges, id)
		}
	}

	sort.Strings(report.MissingEdges)
	sort.Strings(report.ExtraEdges)
	sort.Slice(report.DivergentEdges, func(i, j int) bool {
		return report.DivergentEdges[i].EdgeID < report.DivergentEdges[j].EdgeID
	})
	return report
}

// CompareEdgeRecords compares two records and returns divergences.
// Edge ids hash league, transaction, asset and rosters, so only the
// remaining columns can differ for the same id.
func CompareEdgeRecords(stored, rebuilt *storage.TradeEdgeRecord) []FieldDivergence {
	var divergences []FieldDivergence
	check := func(field string, expected, actual interface{}) {
		if expected != actual {
			divergences = append(divergences, FieldDivergence{Field: field, Expected: expected, Actual: actual})
		}
	}

	check("RootLeague", stored.RootLeague, rebuilt.RootLeague)
	check("TransactionID", stored.TransactionID, rebuilt.TransactionID)
	check("LeagueID", stored.LeagueID, rebuilt.LeagueID)
	check("Season", stored.Season, rebuilt.Season)
	check("Timestamp", stored.Timestamp, rebuilt.Timestamp)
	check("FromRosterID", stored.FromRosterID, rebuilt.FromRosterID)
	check("ToRosterID", stored.ToRosterID, rebuilt.ToRosterID)
	check("AssetID", stored.AssetID, rebuilt.AssetID)
	check("Context", stored.Context, rebuilt.Context)
	check("AssetKind", stored.AssetKind, rebuilt.AssetKind)

	return divergences
}
