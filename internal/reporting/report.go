package reporting

import (
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/genealogy"
	"sleeper-trade-lab/internal/storage"
)

// GenealogyReport is everything rendered for one asset.
type GenealogyReport struct {
	// Metadata
	GeneratedAt time.Time
	LeagueID    string
	Seasons     []string

	// Asset and perspective
	Asset      domain.AssetNode
	Holder     int
	HolderName string

	// Movements of the asset itself, oldest first
	Steps []genealogy.OwnershipStep

	// Lineage from Holder's perspective
	Genealogy *domain.Genealogy
	Tree      *genealogy.Tree

	// Stored edge rows for the asset; empty without an edge store
	StoredEdges []*storage.TradeEdgeRecord

	// Roster id -> display name, for every roster referenced above
	RosterNames map[int]string
}

// RosterName returns a roster's display name with a placeholder fallback.
func (r *GenealogyReport) RosterName(id int) string {
	if name, ok := r.RosterNames[id]; ok && name != "" {
		return name
	}
	return domain.PlaceholderRosterName(id)
}
