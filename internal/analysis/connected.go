package analysis

import (
	"sort"
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/tradegraph"
)

// DefaultConnectionWindow is how far from a group's root trade a trade may
// be and still join the group.
const DefaultConnectionWindow = 24 * time.Hour

// TradeNode is one trade of a connected group.
type TradeNode struct {
	TransactionID string
	LeagueID      string
	Timestamp     int64
	RosterIDs     []int
	Assets        []TradeAsset
	Connected     []string // ids of trades linked to this one
}

// Time returns the trade time, zero when untimestamped.
func (n *TradeNode) Time() time.Time {
	if n.Timestamp <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(n.Timestamp).UTC()
}

// TradeTree is a group of trades connected by shared assets.
type TradeTree struct {
	RootTransactionID string
	Trades            []*TradeNode
	TotalAssets       int
	Leagues           []string
	TimeSpanDays      *int // nil unless two or more trades carry timestamps
}

// Contains reports whether the group holds a transaction.
func (t *TradeTree) Contains(txID string) bool {
	for _, n := range t.Trades {
		if n.TransactionID == txID {
			return true
		}
	}
	return false
}

// ConnectedTrades groups trades in timestamp order. Each ungrouped trade
// roots a new group; a later trade joins when it shares an asset with the
// group and lies within window of the root. The group's asset set grows with
// every trade that joins. window <= 0 uses DefaultConnectionWindow.
func ConnectedTrades(g *tradegraph.Graph, window time.Duration) []*TradeTree {
	if window <= 0 {
		window = DefaultConnectionWindow
	}
	nodes := tradeNodes(g)

	var trees []*TradeTree
	grouped := make(map[string]bool, len(nodes))
	for i, root := range nodes {
		if grouped[root.TransactionID] {
			continue
		}
		grouped[root.TransactionID] = true

		tree := &TradeTree{RootTransactionID: root.TransactionID, Trades: []*TradeNode{root}}
		assets := assetSet(root)

		for _, cand := range nodes[i+1:] {
			if grouped[cand.TransactionID] {
				continue
			}
			if !withinWindow(root, cand, window) || !sharesAsset(assets, cand) {
				continue
			}
			grouped[cand.TransactionID] = true
			tree.Trades = append(tree.Trades, cand)
			root.Connected = append(root.Connected, cand.TransactionID)
			cand.Connected = append(cand.Connected, root.TransactionID)
			for _, a := range cand.Assets {
				assets[a.AssetID] = true
			}
		}

		if len(assets) == 0 {
			continue
		}
		tree.TotalAssets = len(assets)
		tree.Leagues = leagues(tree.Trades)
		tree.TimeSpanDays = timeSpan(tree.Trades)
		trees = append(trees, tree)
	}
	return trees
}

func tradeNodes(g *tradegraph.Graph) []*TradeNode {
	nodes := make([]*TradeNode, 0, len(g.Transactions))
	for id, s := range g.Transactions {
		if s.Type != domain.TransactionTypeTrade {
			continue
		}
		assets, _ := TradeAssets(g, id)
		nodes = append(nodes, &TradeNode{
			TransactionID: id,
			LeagueID:      s.LeagueID,
			Timestamp:     s.Timestamp,
			RosterIDs:     s.RosterIDs,
			Assets:        assets,
		})
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Timestamp != nodes[j].Timestamp {
			return nodes[i].Timestamp < nodes[j].Timestamp
		}
		return nodes[i].TransactionID < nodes[j].TransactionID
	})
	return nodes
}

func assetSet(n *TradeNode) map[string]bool {
	set := make(map[string]bool, len(n.Assets))
	for _, a := range n.Assets {
		set[a.AssetID] = true
	}
	return set
}

func sharesAsset(set map[string]bool, n *TradeNode) bool {
	for _, a := range n.Assets {
		if set[a.AssetID] {
			return true
		}
	}
	return false
}

func withinWindow(root, cand *TradeNode, window time.Duration) bool {
	diff := cand.Timestamp - root.Timestamp
	if diff < 0 {
		diff = -diff
	}
	return time.Duration(diff)*time.Millisecond <= window
}

func leagues(trades []*TradeNode) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range trades {
		if t.LeagueID != "" && !seen[t.LeagueID] {
			seen[t.LeagueID] = true
			out = append(out, t.LeagueID)
		}
	}
	sort.Strings(out)
	return out
}

func timeSpan(trades []*TradeNode) *int {
	var stamps []int64
	for _, t := range trades {
		if t.Timestamp > 0 {
			stamps = append(stamps, t.Timestamp)
		}
	}
	if len(stamps) < 2 {
		return nil
	}
	lo, hi := stamps[0], stamps[0]
	for _, s := range stamps[1:] {
		lo = min(lo, s)
		hi = max(hi, s)
	}
	days := int(time.Duration(hi-lo) * time.Millisecond / (24 * time.Hour))
	return &days
}

// AssetFlow is the trade history of one asset within a group.
type AssetFlow struct {
	Asset  TradeAsset
	Trades []FlowStep
}

// FlowStep is one appearance of an asset in a grouped trade.
type FlowStep struct {
	TransactionID string
	Timestamp     int64
}

// RosterImpact is what one roster gained and lost across a group.
type RosterImpact struct {
	RosterID       int
	Name           string
	TradesInvolved int
	Gained         []TradeAsset
	Lost           []TradeAsset
}

// ChainSummary describes the span of a group.
type ChainSummary struct {
	TotalTrades  int
	TotalAssets  int
	TimeSpanDays *int
	Start        *time.Time
	End          *time.Time
}

// ChainImpact is the asset flow through the group containing a transaction.
type ChainImpact struct {
	Tree    *TradeTree
	Flow    map[string]*AssetFlow
	Rosters map[int]*RosterImpact
	Summary ChainSummary
}

// TradeChainImpact finds the connected group holding txID and reports how
// assets flowed through it. ok is false when no group holds the transaction.
func TradeChainImpact(g *tradegraph.Graph, txID string, window time.Duration) (*ChainImpact, bool) {
	var tree *TradeTree
	for _, t := range ConnectedTrades(g, window) {
		if t.Contains(txID) {
			tree = t
			break
		}
	}
	if tree == nil {
		return nil, false
	}

	out := &ChainImpact{
		Tree:    tree,
		Flow:    make(map[string]*AssetFlow),
		Rosters: make(map[int]*RosterImpact),
		Summary: ChainSummary{
			TotalTrades:  len(tree.Trades),
			TotalAssets:  tree.TotalAssets,
			TimeSpanDays: tree.TimeSpanDays,
		},
	}

	roster := func(id int) *RosterImpact {
		r, ok := out.Rosters[id]
		if !ok {
			r = &RosterImpact{RosterID: id, Name: g.RosterName(id)}
			out.Rosters[id] = r
		}
		return r
	}

	for _, t := range tree.Trades {
		for _, a := range t.Assets {
			f, ok := out.Flow[a.AssetID]
			if !ok {
				f = &AssetFlow{Asset: a}
				out.Flow[a.AssetID] = f
			}
			f.Trades = append(f.Trades, FlowStep{TransactionID: t.TransactionID, Timestamp: t.Timestamp})

			if a.ToRosterID != 0 {
				roster(a.ToRosterID).Gained = append(roster(a.ToRosterID).Gained, a)
			}
			if a.FromRosterID != 0 {
				roster(a.FromRosterID).Lost = append(roster(a.FromRosterID).Lost, a)
			}
		}
		for _, id := range t.RosterIDs {
			roster(id).TradesInvolved++
		}

		if at := t.Time(); !at.IsZero() {
			if out.Summary.Start == nil || at.Before(*out.Summary.Start) {
				out.Summary.Start = &at
			}
			if out.Summary.End == nil || at.After(*out.Summary.End) {
				out.Summary.End = &at
			}
		}
	}
	return out, true
}
