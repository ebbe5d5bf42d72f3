package reporting

import (
	"fmt"
	"strings"
	"time"

	"sleeper-trade-lab/internal/genealogy"
)

// RenderGenealogyMarkdown renders a genealogy report as Markdown string.
func RenderGenealogyMarkdown(r *GenealogyReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Asset Genealogy: %s\n\n", r.Asset.Name))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("League: %s | Seasons: %s\n\n", r.LeagueID, strings.Join(r.Seasons, ", ")))

	// Asset
	sb.WriteString("## Asset\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Asset ID | %s |\n", r.Asset.AssetID))
	sb.WriteString(fmt.Sprintf("| Kind | %s |\n", r.Asset.Kind))
	if r.Asset.OriginalOwner != 0 {
		sb.WriteString(fmt.Sprintf("| Original Owner | %s |\n", r.RosterName(r.Asset.OriginalOwner)))
	}
	if r.Asset.CurrentOwner != 0 {
		sb.WriteString(fmt.Sprintf("| Current Owner | %s |\n", r.RosterName(r.Asset.CurrentOwner)))
	}
	if r.Asset.Pick != nil && r.Asset.Pick.Outcome != nil {
		o := r.Asset.Pick.Outcome
		sb.WriteString(fmt.Sprintf("| Selected | %s (pick %d) |\n", o.PlayerName, o.PickNo))
	}
	sb.WriteString(fmt.Sprintf("| Traced For | %s |\n", r.HolderName))
	sb.WriteString("\n")

	// Movements
	sb.WriteString("## Movements\n\n")
	if len(r.Steps) > 0 {
		sb.WriteString("| Transaction | Season | Date | From | To |\n")
		sb.WriteString("|-------------|--------|------|------|----|\n")
		for _, s := range r.Steps {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				s.TransactionID, s.Season, formatDate(s.Timestamp), s.FromName, s.ToName))
		}
	} else {
		sb.WriteString("Never traded.\n")
	}
	sb.WriteString("\n")

	// Lineage
	sb.WriteString("## Lineage\n\n")
	gen := r.Genealogy
	if gen != nil && len(gen.DescendantPaths) > 0 {
		sb.WriteString(fmt.Sprintf("Generation depth: %d | Paths: %d | Transactions visited: %d\n\n",
			gen.GenerationDepth, len(gen.DescendantPaths), gen.Stats.TransactionsVisited))
		sb.WriteString("| Path | Ends At | Length | Days | Outcome |\n")
		sb.WriteString("|------|---------|--------|------|---------|\n")
		for _, p := range gen.DescendantPaths {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %s |\n",
				p.PathID, p.ToAssetID, p.Length, p.TimeSpanDays, p.Outcome))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("No descendant paths.\n\n")
	}

	// Tree
	if r.Tree != nil && r.Tree.Root != nil {
		sb.WriteString("## Trade Tree\n\n")
		writeBranch(&sb, r.Tree.Root, 0)
		sb.WriteString("\n")
	}

	// Final assets
	if gen != nil && len(gen.FinalAssets) > 0 {
		sb.WriteString("## Final Assets\n\n")
		for _, a := range gen.FinalAssets {
			sb.WriteString(fmt.Sprintf("- %s (%s)\n", a.Name, a.Kind))
		}
		sb.WriteString("\n")
	}

	// Stored edges
	if len(r.StoredEdges) > 0 {
		sb.WriteString(fmt.Sprintf("Stored edges: %d\n", len(r.StoredEdges)))
	}

	return sb.String()
}

func writeBranch(sb *strings.Builder, b *genealogy.Branch, indent int) {
	pad := strings.Repeat("  ", indent)
	received := make([]string, 0, len(b.Received))
	for _, rc := range b.Received {
		received = append(received, rc.Name)
	}
	line := fmt.Sprintf("%s- %s: traded %s for %s", pad, b.TransactionID,
		strings.Join(b.Traded, ", "), strings.Join(received, ", "))
	if len(received) == 0 {
		line = fmt.Sprintf("%s- %s: gave away %s", pad, b.TransactionID, strings.Join(b.Traded, ", "))
	}
	if b.DepthLimited {
		line += " (depth limit)"
	}
	sb.WriteString(line + "\n")
	for _, c := range b.Children {
		writeBranch(sb, c, indent+1)
	}
}

func formatDate(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}
