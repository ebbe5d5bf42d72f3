package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/genealogy"
	"sleeper-trade-lab/internal/storage/memory"
	"sleeper-trade-lab/internal/tradegraph"
)

var fixedTime = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func day(n int) int64 {
	return time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n).UnixMilli()
}

// Roster 1 trades P to 2 for a pick, then trades the pick to 3 for Q.
func setupGraph() *tradegraph.Graph {
	pick := domain.DraftPickMovement{Season: "2025", Round: 1, RosterID: 2}
	tx1 := domain.TransactionRecord{
		TransactionID: "tx1", LeagueID: "L1", Season: "2024",
		Type: domain.TransactionTypeTrade, Status: domain.TransactionStatusComplete, StatusUpdated: day(0),
		Adds: map[string]int{"P": 2}, Drops: map[string]int{"P": 1}, RosterIDs: []int{1, 2},
	}
	pick.OwnerID, pick.PreviousOwnerID = 1, 2
	tx1.DraftPicks = []domain.DraftPickMovement{pick}

	tx2 := domain.TransactionRecord{
		TransactionID: "tx2", LeagueID: "L1", Season: "2024",
		Type: domain.TransactionTypeTrade, Status: domain.TransactionStatusComplete, StatusUpdated: day(30),
		Adds: map[string]int{"Q": 1}, Drops: map[string]int{"Q": 3}, RosterIDs: []int{1, 3},
	}
	pick.OwnerID, pick.PreviousOwnerID = 3, 1
	tx2.DraftPicks = []domain.DraftPickMovement{pick}

	return tradegraph.FromData(tradegraph.Input{
		LeagueID:     "L1",
		Chain:        domain.LeagueChain{{LeagueID: "L1", Season: "2024"}},
		Transactions: []domain.TransactionRecord{tx1, tx2},
		Players: map[string]domain.Player{
			"P": {PlayerID: "P", FullName: "Pat Runner"},
			"Q": {PlayerID: "Q", FullName: "Quinn Catcher"},
		},
		RosterNames: map[int]string{1: "Alpha", 2: "Bravo", 3: "Charlie"},
	})
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	g := setupGraph()

	edges := memory.NewTradeEdgeStore()
	if _, err := edges.InsertBulk(ctx, g.EdgeRecords()); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	gen := NewGenerator(genealogy.NewTracer(genealogy.Options{}), edges).
		WithClock(func() time.Time { return fixedTime })

	report, err := gen.Generate(ctx, g, "P", 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !report.GeneratedAt.Equal(fixedTime) {
		t.Errorf("GeneratedAt = %v, want %v", report.GeneratedAt, fixedTime)
	}
	if report.Holder != 1 || report.HolderName != "Alpha" {
		t.Errorf("holder = %d %q, want 1 Alpha", report.Holder, report.HolderName)
	}
	if len(report.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(report.Steps))
	}
	if report.Genealogy.GenerationDepth != 2 {
		t.Errorf("GenerationDepth = %d, want 2", report.Genealogy.GenerationDepth)
	}
	if len(report.StoredEdges) != 1 {
		t.Errorf("expected 1 stored edge for P, got %d", len(report.StoredEdges))
	}
	if report.RosterName(3) != "Charlie" {
		t.Errorf("RosterName(3) = %q, want Charlie", report.RosterName(3))
	}
}

func TestGenerator_UnknownAsset(t *testing.T) {
	gen := NewGenerator(genealogy.NewTracer(genealogy.Options{}), nil)
	if _, err := gen.Generate(context.Background(), setupGraph(), "nope", 0); err == nil {
		t.Fatal("expected error for unknown asset")
	}
}

func TestRenderGenealogyMarkdown(t *testing.T) {
	gen := NewGenerator(genealogy.NewTracer(genealogy.Options{}), nil).
		WithClock(func() time.Time { return fixedTime })
	report, err := gen.Generate(context.Background(), setupGraph(), "P", 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderGenealogyMarkdown(report)

	for _, want := range []string{
		"# Asset Genealogy: Pat Runner",
		"Generated: 2025-03-01T12:00:00Z",
		"| Traced For | Alpha |",
		"| tx1 | 2024 | 2024-09-01 | Alpha | Bravo |",
		"Generation depth: 2",
		"## Trade Tree",
		"- tx1: traded P for",
		"  - tx2: traded",
		"- Quinn Catcher (player)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "Stored edges") {
		t.Error("expected no stored edge line without an edge store")
	}
}

func TestRenderGenealogyMarkdown_NeverTraded(t *testing.T) {
	g := setupGraph()
	report := &GenealogyReport{
		GeneratedAt: fixedTime,
		LeagueID:    g.LeagueID,
		Asset:       *g.Nodes["Q"],
		Genealogy:   &domain.Genealogy{RootAssetID: "Q"},
	}

	md := RenderGenealogyMarkdown(report)
	if !strings.Contains(md, "Never traded.") {
		t.Errorf("expected never traded marker\n%s", md)
	}
	if !strings.Contains(md, "No descendant paths.") {
		t.Errorf("expected empty lineage marker\n%s", md)
	}
}

func TestRenderEdgesCSV(t *testing.T) {
	g := setupGraph()
	csv := RenderEdgesCSV(g.EdgeRecords())

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 1+len(g.Edges) {
		t.Fatalf("expected %d lines, got %d", 1+len(g.Edges), len(lines))
	}
	if !strings.HasPrefix(lines[0], "edge_id,root_league,league_id,season,transaction_id,timestamp,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	for _, line := range lines[1:] {
		if n := strings.Count(line, ","); n != 10 {
			t.Errorf("expected 11 columns, got %d in %q", n+1, line)
		}
	}
	if !strings.Contains(csv, ",P,player,1,2,player_swap\n") {
		t.Errorf("missing P movement row\n%s", csv)
	}
}
