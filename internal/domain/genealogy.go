package domain

import "fmt"

// PathOutcome describes how a lineage branch ended.
type PathOutcome string

// Path outcomes.
const (
	// PathOutcomeHeld means the final asset has no further movement from its holder.
	PathOutcomeHeld PathOutcome = "held"
	// PathOutcomeGivenAway means the asset left its holder with nothing received in return.
	PathOutcomeGivenAway PathOutcome = "given_away"
	// PathOutcomeDepthLimit means the branch was cut by the depth bound.
	PathOutcomeDepthLimit PathOutcome = "depth_limit"
	// PathOutcomeMerged means the asset left in a trade already followed through a sibling branch.
	PathOutcomeMerged PathOutcome = "merged"
)

// AssetPath is a traced lineage segment from a root asset to one descendant.
type AssetPath struct {
	PathID       string
	FromAssetID  string
	ToAssetID    string
	Edges        []TradeEdge // departure edge of each generation
	Length       int
	TimeSpanDays int
	Participants []int
	Outcome      PathOutcome
}

// GenealogyStats summarises a traversal.
type GenealogyStats struct {
	TransactionsVisited int
	AssetsVisited       int
	Branches            int
	MaxDepth            int
}

// Genealogy is the result of tracing an asset through the trade graph.
type Genealogy struct {
	RootAssetID     string
	RootAsset       AssetNode
	Holder          int // roster whose perspective was traced
	DescendantPaths []AssetPath
	FinalAssets     []AssetNode
	GenerationDepth int
	Stats           GenealogyStats
}

// PlaceholderRosterName is the synthetic name used when nothing better resolves.
func PlaceholderRosterName(rosterID int) string {
	return fmt.Sprintf("Team %d", rosterID)
}
