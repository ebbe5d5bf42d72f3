package reporting

import (
	"fmt"
	"strings"

	"sleeper-trade-lab/internal/storage"
)

// RenderEdgesCSV renders trade edges as CSV string.
func RenderEdgesCSV(edges []*storage.TradeEdgeRecord) string {
	var sb strings.Builder

	// Header
	sb.WriteString("edge_id,root_league,league_id,season,transaction_id,timestamp,")
	sb.WriteString("asset_id,asset_kind,from_roster_id,to_roster_id,context\n")

	// Rows
	for _, e := range edges {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%d,%s,%s,%d,%d,%s\n",
			e.EdgeID,
			e.RootLeague,
			e.LeagueID,
			e.Season,
			e.TransactionID,
			e.Timestamp,
			e.AssetID,
			e.AssetKind,
			e.FromRosterID,
			e.ToRosterID,
			e.Context,
		))
	}

	return sb.String()
}
