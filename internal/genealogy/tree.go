package genealogy

import (
	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/tradegraph"
)

// Received is an asset that came back in a branch's transaction.
type Received struct {
	AssetID      string
	Name         string
	Kind         domain.AssetKind
	FromRosterID int
}

// Branch is one trade in an asset tree: the package sent, what came back,
// and the trades those assets went on to.
type Branch struct {
	TransactionID   string
	Timestamp       int64
	Season          string
	AssetID         string // asset whose departure opened the branch
	Traded          []string
	Received        []Received
	Children        []*Branch
	Depth           int
	AssetsGenerated int // received here plus every descendant branch
	DepthLimited    bool
}

// Tree is the nested rendering of a genealogy.
type Tree struct {
	RootAssetID string
	Holder      int
	Root        *Branch // nil when the asset never left the holder
	MaxDepth    int
}

// Tree builds the nested branch structure of rootID from holder's perspective
// using the same expansion rules as Trace.
func (t *Tracer) Tree(g *tradegraph.Graph, rootID string, holder int) (*Tree, error) {
	if _, ok := g.Node(rootID); !ok {
		return nil, ErrAssetNotFound
	}
	if holder == 0 {
		holder = firstHolder(g, rootID)
	}
	tree := &Tree{RootAssetID: rootID, Holder: holder}

	type item struct {
		step
		parent *Branch
		depth  int
	}
	type pair struct {
		asset  string
		holder int
	}

	visitedTx := make(map[string]bool)
	visited := map[pair]bool{{rootID, holder}: true}
	var (
		order   []*Branch
		parents = make(map[*Branch]*Branch)
	)

	queue := []item{{step: step{assetID: rootID, holder: holder, after: -1}, depth: 1}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		d, moved := nextDeparture(g, cur.assetID, cur.holder, cur.after)
		if !moved || visitedTx[d.edge.TransactionID] {
			continue
		}
		if cur.depth > t.maxDepth {
			if cur.parent != nil {
				cur.parent.DepthLimited = true
			}
			continue
		}
		visitedTx[d.edge.TransactionID] = true

		b := &Branch{
			TransactionID: d.edge.TransactionID,
			Timestamp:     d.edge.Timestamp,
			Season:        d.edge.Season,
			AssetID:       cur.assetID,
			Traded:        d.given,
			Depth:         cur.depth,
		}
		for _, r := range d.received {
			rec := Received{AssetID: r.edge.AssetID, FromRosterID: r.edge.FromRosterID}
			if n, ok := g.Node(r.edge.AssetID); ok {
				rec.Name = n.Name
				rec.Kind = n.Kind
			}
			b.Received = append(b.Received, rec)
		}

		if cur.parent == nil {
			tree.Root = b
		} else {
			cur.parent.Children = append(cur.parent.Children, b)
			parents[b] = cur.parent
		}
		order = append(order, b)
		if b.Depth > tree.MaxDepth {
			tree.MaxDepth = b.Depth
		}

		for _, r := range d.received {
			p := pair{r.edge.AssetID, cur.holder}
			if visited[p] {
				continue
			}
			visited[p] = true
			queue = append(queue, item{
				step:   step{assetID: r.edge.AssetID, holder: cur.holder, after: r.index},
				parent: b,
				depth:  cur.depth + 1,
			})
		}
	}

	// BFS order lists parents before children; accumulate bottom up.
	for i := len(order) - 1; i >= 0; i-- {
		b := order[i]
		b.AssetsGenerated += len(b.Received)
		if p, ok := parents[b]; ok {
			p.AssetsGenerated += b.AssetsGenerated
		}
	}

	return tree, nil
}
