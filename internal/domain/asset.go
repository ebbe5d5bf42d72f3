package domain

// AssetKind classifies a tradable asset.
type AssetKind string

// Asset kinds.
const (
	AssetKindPlayer    AssetKind = "player"
	AssetKindDraftPick AssetKind = "draft_pick"
	AssetKindUnknown   AssetKind = "unknown"
)

// IsValid checks if the asset kind is known.
func (k AssetKind) IsValid() bool {
	switch k {
	case AssetKindPlayer, AssetKindDraftPick, AssetKindUnknown:
		return true
	}
	return false
}

// String returns string representation.
func (k AssetKind) String() string {
	return string(k)
}

// PickIdentity is the stable identity of a draft pick independent of its
// current owner.
type PickIdentity struct {
	Season           string
	Round            int
	OriginalRosterID int
}

// IsZero reports whether the identity is unset.
func (p PickIdentity) IsZero() bool {
	return p.Season == "" && p.Round == 0 && p.OriginalRosterID == 0
}

// DraftOutcome is the selection eventually made with a pick.
type DraftOutcome struct {
	DraftID          string
	PickNo           int
	DraftSlot        int
	PlayerID         string
	PlayerName       string
	PickedByRosterID int
}

// PickMetadata is attached to draft-pick nodes.
type PickMetadata struct {
	Identity  PickIdentity
	DraftSlot int           // slot the original roster occupied, 0 if unknown
	Outcome   *DraftOutcome // nil until the draft happened and was matched
}

// PlayerMetadata is attached to player nodes.
type PlayerMetadata struct {
	Position string
	Team     string
	Age      int
}

// AssetNode is a vertex of the trade graph.
type AssetNode struct {
	AssetID       string
	Kind          AssetKind
	Name          string
	OriginalOwner int // 0 when unknown
	CurrentOwner  int // roster after the latest recorded movement
	Pick          *PickMetadata
	Player        *PlayerMetadata
	RawRefs       []string // upstream references that resolved to this node
}

// EdgeContext names the rule that produced an edge.
type EdgeContext string

// Edge contexts.
const (
	EdgeContextPickMovement  EdgeContext = "draft_pick_movement"
	EdgeContextPlayerSwap    EdgeContext = "player_swap"
	EdgeContextInferredPick  EdgeContext = "inferred_pick"
	EdgeContextUnresolvedRef EdgeContext = "unresolved_reference"
)

// TradeEdge is a single-asset movement between rosters.
type TradeEdge struct {
	TransactionID string
	LeagueID      string
	Season        string
	Timestamp     int64 // Unix ms, 0 when the transaction carried none
	FromRosterID  int
	ToRosterID    int
	AssetID       string
	Context       EdgeContext
}

// TransactionSummary is the graph's view of a transaction.
type TransactionSummary struct {
	TransactionID string
	LeagueID      string
	Season        string
	Week          int
	Type          TransactionType
	Timestamp     int64
	RosterIDs     []int
	AssetIDs      []string // assets moved, in edge order
}

// TradeGraph is the directed graph of asset movements across a league chain.
type TradeGraph struct {
	LeagueID     string
	Nodes        map[string]*AssetNode
	Edges        []TradeEdge // processing order: chronological, untimestamped last
	Transactions map[string]*TransactionSummary
	RosterNames  map[int]string
	Timeline     []string // timestamped transaction ids in non-decreasing time order
}

// NewTradeGraph creates an empty graph for a league.
func NewTradeGraph(leagueID string) *TradeGraph {
	return &TradeGraph{
		LeagueID:     leagueID,
		Nodes:        make(map[string]*AssetNode),
		Transactions: make(map[string]*TransactionSummary),
		RosterNames:  make(map[int]string),
	}
}

// RosterName returns the roster's display name or a placeholder.
func (g *TradeGraph) RosterName(rosterID int) string {
	if name, ok := g.RosterNames[rosterID]; ok && name != "" {
		return name
	}
	return PlaceholderRosterName(rosterID)
}
