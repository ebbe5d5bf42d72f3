package reporting

import (
	"context"
	"fmt"
	"time"

	"sleeper-trade-lab/internal/genealogy"
	"sleeper-trade-lab/internal/storage"
	"sleeper-trade-lab/internal/tradegraph"
)

// Generator produces genealogy reports from a built graph.
type Generator struct {
	tracer    *genealogy.Tracer
	edgeStore storage.TradeEdgeStore // optional
	now       func() time.Time       // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. edgeStore may be nil.
func NewGenerator(tracer *genealogy.Tracer, edgeStore storage.TradeEdgeStore) *Generator {
	return &Generator{
		tracer:    tracer,
		edgeStore: edgeStore,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate traces assetID from holder's perspective. holder 0 uses the
// asset's first recorded holder.
func (g *Generator) Generate(ctx context.Context, graph *tradegraph.Graph, assetID string, holder int) (*GenealogyReport, error) {
	gen, err := g.tracer.Trace(graph, assetID, holder)
	if err != nil {
		return nil, fmt.Errorf("trace %s: %w", assetID, err)
	}
	tree, err := g.tracer.Tree(graph, assetID, gen.Holder)
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", assetID, err)
	}

	r := &GenealogyReport{
		GeneratedAt: g.now(),
		LeagueID:    graph.LeagueID,
		Seasons:     graph.Chain.Seasons(),
		Asset:       gen.RootAsset,
		Holder:      gen.Holder,
		HolderName:  graph.RosterName(gen.Holder),
		Steps:       genealogy.Steps(graph, assetID),
		Genealogy:   gen,
		Tree:        tree,
		RosterNames: make(map[int]string),
	}

	if g.edgeStore != nil {
		stored, err := g.edgeStore.GetByAsset(ctx, graph.LeagueID, assetID)
		if err != nil {
			return nil, fmt.Errorf("load stored edges: %w", err)
		}
		r.StoredEdges = stored
	}

	r.RosterNames[gen.Holder] = graph.RosterName(gen.Holder)
	for _, s := range r.Steps {
		r.RosterNames[s.FromRosterID] = s.FromName
		r.RosterNames[s.ToRosterID] = s.ToName
	}
	for _, p := range gen.DescendantPaths {
		for _, id := range p.Participants {
			r.RosterNames[id] = graph.RosterName(id)
		}
	}
	return r, nil
}
