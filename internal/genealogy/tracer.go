// Package genealogy traces what an asset turned into through successive trades.
package genealogy

import (
	"errors"
	"sort"
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/idhash"
	"sleeper-trade-lab/internal/observability"
	"sleeper-trade-lab/internal/tradegraph"
)

// DefaultMaxDepth bounds the number of generations followed per branch.
const DefaultMaxDepth = 10

// ErrAssetNotFound is returned when the root asset is not in the graph.
var ErrAssetNotFound = errors.New("asset not found in trade graph")

// Tracer walks a trade graph breadth first.
type Tracer struct {
	maxDepth int
}

// Options contains configuration for creating a Tracer.
type Options struct {
	MaxDepth int
}

// NewTracer creates a new Tracer.
func NewTracer(opts Options) *Tracer {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &Tracer{maxDepth: depth}
}

// MaxDepth returns the generation bound.
func (t *Tracer) MaxDepth() int {
	return t.maxDepth
}

// step is one asset held by a roster, acquired at edge index after.
type step struct {
	assetID string
	holder  int
	after   int
	edges   []domain.TradeEdge
}

// departure is an asset leaving its holder and what came back in the same trade.
type departure struct {
	edge     domain.TradeEdge
	index    int
	received []receipt
	given    []string // every asset the holder sent in the transaction
}

type receipt struct {
	edge  domain.TradeEdge
	index int
}

// nextDeparture finds the first edge after index after in which holder gives
// assetID away, and every other asset holder received in that transaction.
func nextDeparture(g *tradegraph.Graph, assetID string, holder, after int) (departure, bool) {
	for _, i := range g.EdgeIndexes(assetID) {
		if i <= after {
			continue
		}
		e := g.Edges[i]
		if e.FromRosterID != holder {
			continue
		}

		d := departure{edge: e, index: i}
		for _, j := range g.TransactionEdgeIndexes(e.TransactionID) {
			other := g.Edges[j]
			switch {
			case other.ToRosterID == holder && other.AssetID != assetID:
				d.received = append(d.received, receipt{edge: other, index: j})
			case other.FromRosterID == holder:
				d.given = append(d.given, other.AssetID)
			}
		}
		return d, true
	}
	return departure{}, false
}

// firstHolder is the roster the root left in its first movement, or its
// current owner when it never moved.
func firstHolder(g *tradegraph.Graph, assetID string) int {
	if edges := g.EdgesForAsset(assetID); len(edges) > 0 {
		return edges[0].FromRosterID
	}
	if n, ok := g.Node(assetID); ok {
		return n.CurrentOwner
	}
	return 0
}

// Trace enumerates every descendant of rootID from holder's perspective.
// holder 0 means the roster that first traded the asset away.
//
// Each generation follows the asset's next departure from the holder; the
// assets the holder received in that transaction become the next generation.
// A transaction is expanded at most once and an (asset, holder) pair is
// queued at most once, so cyclic swaps terminate. An asset leaving in a
// transaction that was already expanded ends in a merged path.
func (t *Tracer) Trace(g *tradegraph.Graph, rootID string, holder int) (*domain.Genealogy, error) {
	root, ok := g.Node(rootID)
	if !ok {
		return nil, ErrAssetNotFound
	}
	if holder == 0 {
		holder = firstHolder(g, rootID)
	}

	out := &domain.Genealogy{
		RootAssetID: rootID,
		RootAsset:   *root,
		Holder:      holder,
	}

	type pair struct {
		asset  string
		holder int
	}
	visitedTx := make(map[string]bool)
	visited := map[pair]bool{{rootID, holder}: true}
	finals := make(map[string]bool)

	queue := []step{{assetID: rootID, holder: holder, after: -1}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		d, moved := nextDeparture(g, cur.assetID, cur.holder, cur.after)
		if !moved {
			finals[cur.assetID] = true
			t.finish(out, rootID, cur, domain.PathOutcomeHeld)
			continue
		}
		if len(cur.edges) >= t.maxDepth {
			finals[cur.assetID] = true
			t.finish(out, rootID, cur, domain.PathOutcomeDepthLimit)
			continue
		}

		edges := append(append([]domain.TradeEdge(nil), cur.edges...), d.edge)
		if visitedTx[d.edge.TransactionID] {
			// Left in a trade already expanded through a sibling.
			t.finish(out, rootID, step{assetID: cur.assetID, edges: edges}, domain.PathOutcomeMerged)
			continue
		}
		visitedTx[d.edge.TransactionID] = true

		if len(d.received) == 0 {
			t.finish(out, rootID, step{assetID: cur.assetID, edges: edges}, domain.PathOutcomeGivenAway)
			continue
		}

		queued := 0
		for _, r := range d.received {
			p := pair{r.edge.AssetID, cur.holder}
			if visited[p] {
				continue
			}
			visited[p] = true
			queued++
			queue = append(queue, step{
				assetID: r.edge.AssetID,
				holder:  cur.holder,
				after:   r.index,
				edges:   edges,
			})
		}

		// Everything received was already traced: the branch cycled back.
		if queued == 0 {
			back := d.received[0].edge.AssetID
			finals[back] = true
			t.finish(out, rootID, step{assetID: back, edges: edges}, domain.PathOutcomeHeld)
		}
	}

	out.FinalAssets = finalNodes(g, finals)
	out.Stats = domain.GenealogyStats{
		TransactionsVisited: len(visitedTx),
		AssetsVisited:       len(visited),
		Branches:            len(out.DescendantPaths),
		MaxDepth:            out.GenerationDepth,
	}
	return out, nil
}

// finish records a completed branch. A zero-length branch is the untraded
// root and produces no path.
func (t *Tracer) finish(out *domain.Genealogy, rootID string, s step, outcome domain.PathOutcome) {
	if len(s.edges) == 0 {
		return
	}
	out.DescendantPaths = append(out.DescendantPaths, newPath(rootID, s.assetID, s.edges, outcome))
	if len(s.edges) > out.GenerationDepth {
		out.GenerationDepth = len(s.edges)
	}
	observability.RecordGenealogyPath(string(outcome))
}

func newPath(rootID, toID string, edges []domain.TradeEdge, outcome domain.PathOutcome) domain.AssetPath {
	return domain.AssetPath{
		PathID:       idhash.ComputePathID(rootID, edges),
		FromAssetID:  rootID,
		ToAssetID:    toID,
		Edges:        edges,
		Length:       len(edges),
		TimeSpanDays: spanDays(edges),
		Participants: participants(edges),
		Outcome:      outcome,
	}
}

// spanDays is the whole days between the first and last timestamped edge.
func spanDays(edges []domain.TradeEdge) int {
	var first, last int64
	for _, e := range edges {
		if e.Timestamp <= 0 {
			continue
		}
		if first == 0 || e.Timestamp < first {
			first = e.Timestamp
		}
		if e.Timestamp > last {
			last = e.Timestamp
		}
	}
	if first == 0 {
		return 0
	}
	return int(time.Duration(last-first) * time.Millisecond / (24 * time.Hour))
}

func participants(edges []domain.TradeEdge) []int {
	seen := make(map[int]bool)
	var out []int
	for _, e := range edges {
		for _, r := range []int{e.FromRosterID, e.ToRosterID} {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	sort.Ints(out)
	return out
}

func finalNodes(g *tradegraph.Graph, ids map[string]bool) []domain.AssetNode {
	keys := make([]string, 0, len(ids))
	for id := range ids {
		keys = append(keys, id)
	}
	sort.Strings(keys)

	out := make([]domain.AssetNode, 0, len(keys))
	for _, id := range keys {
		if n, ok := g.Node(id); ok {
			out = append(out, *n)
		}
	}
	return out
}
