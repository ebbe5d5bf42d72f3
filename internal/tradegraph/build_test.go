package tradegraph

import (
	"testing"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/idhash"
)

var testPlayers = map[string]domain.Player{
	"P1": {PlayerID: "P1", FullName: "Player One", Position: "RB"},
	"P2": {PlayerID: "P2", FullName: "Player Two", Position: "WR"},
	"P3": {PlayerID: "P3", FullName: "Player Three", Position: "QB"},
	"Q":  {PlayerID: "Q", FullName: "Player Q", Position: "TE"},
}

func trade(id string, ts int64, adds, drops map[string]int, rosters ...int) domain.TransactionRecord {
	return domain.TransactionRecord{
		TransactionID: id,
		LeagueID:      "L1",
		Season:        "2024",
		Type:          domain.TransactionTypeTrade,
		Status:        domain.TransactionStatusComplete,
		StatusUpdated: ts,
		Adds:          adds,
		Drops:         drops,
		RosterIDs:     rosters,
	}
}

func build(txs ...domain.TransactionRecord) *Graph {
	return FromData(Input{LeagueID: "L1", Transactions: txs, Players: testPlayers})
}

func TestFromData_NoSelfEdges(t *testing.T) {
	g := build(
		trade("t1", 100, map[string]int{"P1": 2, "P2": 1}, map[string]int{"P1": 1, "P2": 2}, 1, 2),
		trade("t2", 200, map[string]int{"P1": 2}, map[string]int{"P1": 2}, 2),
		trade("t3", 300, map[string]int{"P3": 3}, map[string]int{"P3": 3}, 3, 4),
	)

	for _, e := range g.Edges {
		if e.FromRosterID == e.ToRosterID {
			t.Errorf("self edge for %s in %s", e.AssetID, e.TransactionID)
		}
	}
	if len(g.Edges) != 2 {
		t.Errorf("expected 2 edges, got %d", len(g.Edges))
	}
}

func TestFromData_NoOpDropAndAdd(t *testing.T) {
	g := build(trade("t1", 100, map[string]int{"P1": 1}, map[string]int{"P1": 1}, 1))

	if edges := g.EdgesForAsset("P1"); len(edges) != 0 {
		t.Errorf("expected zero edges for P1, got %d", len(edges))
	}
	if _, ok := g.Transactions["t1"]; !ok {
		t.Error("transaction summary should still be recorded")
	}
}

func TestFromData_NodeCreatedOnce(t *testing.T) {
	g := build(
		trade("t1", 100, map[string]int{"P1": 2}, map[string]int{"P1": 1}, 1, 2),
		trade("t2", 200, map[string]int{"P1": 3}, map[string]int{"P1": 2}, 2, 3),
		trade("t3", 300, map[string]int{"P1": 1}, map[string]int{"P1": 3}, 3, 1),
	)

	if len(g.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(g.Nodes))
	}
	n := g.Nodes["P1"]
	if n.Name != "Player One" || n.Kind != domain.AssetKindPlayer {
		t.Errorf("unexpected node %+v", n)
	}
	if n.OriginalOwner != 1 {
		t.Errorf("OriginalOwner = %d, want 1", n.OriginalOwner)
	}
	if n.CurrentOwner != 1 {
		t.Errorf("CurrentOwner = %d, want 1", n.CurrentOwner)
	}
	if len(g.EdgesForAsset("P1")) != 3 {
		t.Errorf("expected 3 edges for P1")
	}
}

func TestFromData_MultiPartyTrade(t *testing.T) {
	g := build(trade("t1", 100,
		map[string]int{"P1": 2, "P2": 3, "P3": 1},
		map[string]int{"P1": 1, "P2": 2, "P3": 3},
		1, 2, 3,
	))

	want := map[string][2]int{"P1": {1, 2}, "P2": {2, 3}, "P3": {3, 1}}
	if len(g.Edges) != len(want) {
		t.Fatalf("expected %d edges, got %d", len(want), len(g.Edges))
	}
	for _, e := range g.Edges {
		w := want[e.AssetID]
		if e.FromRosterID != w[0] || e.ToRosterID != w[1] {
			t.Errorf("%s moved %d->%d, want %d->%d", e.AssetID, e.FromRosterID, e.ToRosterID, w[0], w[1])
		}
	}
}

func TestFromData_ExplicitPicksAreAuthoritative(t *testing.T) {
	tx := trade("t1", 100,
		map[string]int{"P1": 2, "2025_1_03": 1},
		map[string]int{"P1": 1, "2025_1_03": 2},
		1, 2,
	)
	tx.DraftPicks = []domain.DraftPickMovement{
		{Season: "2025", Round: 1, RosterID: 4, OwnerID: 1, PreviousOwnerID: 2},
	}
	g := FromData(Input{
		LeagueID:     "L1",
		Transactions: []domain.TransactionRecord{tx},
		Players:      testPlayers,
		Drafts:       []domain.Draft{{Season: "2025", SlotToRosterID: map[int]int{3: 9}}},
	})

	if len(g.Edges) != 2 {
		t.Fatalf("expected 2 edges (player + explicit pick), got %d", len(g.Edges))
	}

	key := idhash.PickKey(domain.PickIdentity{Season: "2025", Round: 1, OriginalRosterID: 4})
	pick, ok := g.Nodes[key]
	if !ok {
		t.Fatalf("expected pick node %s", key)
	}
	if pick.OriginalOwner != 4 || pick.CurrentOwner != 1 {
		t.Errorf("pick owners = %d/%d, want 4/1", pick.OriginalOwner, pick.CurrentOwner)
	}

	inferred := idhash.PickKey(domain.PickIdentity{Season: "2025", Round: 1, OriginalRosterID: 9})
	if _, ok := g.Nodes[inferred]; ok {
		t.Error("structured reference should not be inferred when explicit movements exist")
	}
	for _, e := range g.EdgesForAsset(key) {
		if e.Context != domain.EdgeContextPickMovement {
			t.Errorf("context = %s, want %s", e.Context, domain.EdgeContextPickMovement)
		}
	}
}

func TestFromData_NegativeReferenceReconciled(t *testing.T) {
	tx := trade("t1", 100, map[string]int{"-1": 2}, map[string]int{"-1": 1}, 1, 2)
	tx.DraftPicks = []domain.DraftPickMovement{
		{Season: "2025", Round: 1, RosterID: 1, OwnerID: 2, PreviousOwnerID: 1},
	}
	g := build(tx)

	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(g.Edges))
	}
	key := idhash.PickKey(domain.PickIdentity{Season: "2025", Round: 1, OriginalRosterID: 1})
	n, ok := g.Nodes[key]
	if !ok {
		t.Fatalf("expected pick node %s", key)
	}
	if len(n.RawRefs) != 1 || n.RawRefs[0] != "-1" {
		t.Errorf("RawRefs = %v, want [-1]", n.RawRefs)
	}
	if len(g.Nodes) != 1 {
		t.Errorf("expected only the pick node, got %d nodes", len(g.Nodes))
	}
}

func TestFromData_AmbiguousNegativeReferenceUnresolved(t *testing.T) {
	tx := trade("t1", 100, map[string]int{"-1": 2}, map[string]int{"-1": 1}, 1, 2)
	tx.DraftPicks = []domain.DraftPickMovement{
		{Season: "2025", Round: 1, RosterID: 1, OwnerID: 2, PreviousOwnerID: 1},
		{Season: "2025", Round: 2, RosterID: 1, OwnerID: 2, PreviousOwnerID: 1},
	}
	g := build(tx)

	if len(g.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(g.Edges))
	}
	n, ok := g.Nodes["-1@t1"]
	if !ok {
		t.Fatalf("expected unresolved node for -1, got %v", g.Nodes)
	}
	if n.Kind != domain.AssetKindUnknown {
		t.Errorf("kind = %s, want unknown", n.Kind)
	}
	if len(g.EdgesForAsset("-1@t1")) != 0 {
		t.Error("unresolved alias should not carry an edge")
	}
}

func TestFromData_InferredStructuredPick(t *testing.T) {
	tx := trade("t1", 100, map[string]int{"2025_2_01": 2}, map[string]int{"2025_2_01": 1}, 1, 2)
	g := FromData(Input{
		LeagueID:     "L1",
		Transactions: []domain.TransactionRecord{tx},
		Drafts: []domain.Draft{{
			Season:         "2025",
			Type:           domain.DraftTypeSnake,
			Teams:          2,
			SlotToRosterID: map[int]int{1: 1, 2: 2},
		}},
	})

	// snake round 2, first pick is slot 2
	key := idhash.PickKey(domain.PickIdentity{Season: "2025", Round: 2, OriginalRosterID: 2})
	n, ok := g.Nodes[key]
	if !ok {
		t.Fatalf("expected node %s, got %v", key, g.Nodes)
	}
	if len(n.RawRefs) != 1 || n.RawRefs[0] != "2025_2_01" {
		t.Errorf("RawRefs = %v", n.RawRefs)
	}
	if g.Edges[0].Context != domain.EdgeContextInferredPick {
		t.Errorf("context = %s", g.Edges[0].Context)
	}
}

func TestFromData_UnresolvedReferenceKept(t *testing.T) {
	g := build(trade("t1", 100, map[string]int{"-5": 2}, nil, 1, 2))

	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(g.Edges))
	}
	e := g.Edges[0]
	if e.Context != domain.EdgeContextUnresolvedRef || e.FromRosterID != 1 || e.ToRosterID != 2 {
		t.Errorf("unexpected edge %+v", e)
	}
	n := g.Nodes[e.AssetID]
	if n.Kind != domain.AssetKindUnknown {
		t.Errorf("kind = %s, want unknown", n.Kind)
	}
}

func TestFromData_UnknownPlayerStaysUnknown(t *testing.T) {
	g := build(trade("t1", 100, map[string]int{"X9": 2}, map[string]int{"X9": 1}, 1, 2))
	if n := g.Nodes["X9"]; n == nil || n.Kind != domain.AssetKindUnknown {
		t.Errorf("expected unknown node for X9, got %+v", n)
	}
}

func TestFromData_DraftingRosterIsOriginalOwner(t *testing.T) {
	tests := []struct {
		name  string
		picks []domain.DraftPick
		want  int
	}{
		{"no draft record", nil, 2},
		{"drafted before the trade", []domain.DraftPick{{Season: "2024", PlayerID: "P1", RosterID: 4}}, 4},
		{"drafted after the trade", []domain.DraftPick{{Season: "2025", PlayerID: "P1", RosterID: 4}}, 2},
		{"earliest draft wins", []domain.DraftPick{
			{Season: "2024", PlayerID: "P1", RosterID: 5},
			{Season: "2023", PlayerID: "P1", RosterID: 6},
		}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := FromData(Input{
				LeagueID:     "L1",
				Transactions: []domain.TransactionRecord{trade("t1", 100, map[string]int{"P1": 3}, map[string]int{"P1": 2}, 2, 3)},
				Picks:        tt.picks,
				Players:      testPlayers,
			})
			if got := g.Nodes["P1"].OriginalOwner; got != tt.want {
				t.Errorf("OriginalOwner = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromData_OrderingAndTimeline(t *testing.T) {
	g := build(
		trade("late", 300, map[string]int{"P1": 3}, map[string]int{"P1": 2}, 2, 3),
		trade("nots", 0, map[string]int{"P1": 1}, map[string]int{"P1": 3}, 3, 1),
		trade("early", 100, map[string]int{"P1": 2}, map[string]int{"P1": 1}, 1, 2),
	)

	var order []string
	for _, e := range g.Edges {
		order = append(order, e.TransactionID)
	}
	want := []string{"early", "late", "nots"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("edge order = %v, want %v", order, want)
		}
	}

	if len(g.Timeline) != 2 || g.Timeline[0] != "early" || g.Timeline[1] != "late" {
		t.Errorf("timeline = %v, want [early late]", g.Timeline)
	}
	if _, ok := g.Transactions["nots"]; !ok {
		t.Error("untimestamped trade should still have a summary")
	}
	if g.Nodes["P1"].CurrentOwner != 1 {
		t.Errorf("CurrentOwner = %d, want 1", g.Nodes["P1"].CurrentOwner)
	}
}

func TestFromData_SkipsNonTradesAndFailed(t *testing.T) {
	waiver := trade("w1", 100, map[string]int{"P1": 2}, map[string]int{"P1": 1}, 1, 2)
	waiver.Type = domain.TransactionTypeWaiver
	failed := trade("f1", 100, map[string]int{"P2": 2}, map[string]int{"P2": 1}, 1, 2)
	failed.Status = "failed"

	g := build(waiver, failed)
	if len(g.Edges) != 0 {
		t.Errorf("expected no edges, got %d", len(g.Edges))
	}
	if len(g.Records) != 2 {
		t.Errorf("records should keep every transaction, got %d", len(g.Records))
	}
}

func TestFromData_RetagsCollidingIDs(t *testing.T) {
	a := trade("t1", 100, map[string]int{"P1": 2}, map[string]int{"P1": 1}, 1, 2)
	b := trade("t1", 200, map[string]int{"P1": 1}, map[string]int{"P1": 2}, 1, 2)
	b.LeagueID = "L0"
	c := trade("t2", 300, map[string]int{"P2": 2}, map[string]int{"P2": 1}, 1, 2)

	g := build(a, b, c)

	for _, id := range []string{"L1:t1", "L0:t1", "t2"} {
		if _, ok := g.Transactions[id]; !ok {
			t.Errorf("missing transaction %s", id)
		}
		if _, ok := g.Transaction(id); !ok {
			t.Errorf("record %s not indexed", id)
		}
	}
	if _, ok := g.Transactions["t1"]; ok {
		t.Error("colliding id should have been re-tagged")
	}
}

func TestFromData_PickEnrichment(t *testing.T) {
	tx := trade("t1", 100, nil, nil, 1, 2)
	tx.DraftPicks = []domain.DraftPickMovement{{Season: "2024", Round: 1, RosterID: 1, OwnerID: 2, PreviousOwnerID: 1}}

	g := FromData(Input{
		LeagueID:     "L1",
		Transactions: []domain.TransactionRecord{tx},
		Drafts:       []domain.Draft{{DraftID: "D1", Season: "2024", Teams: 2, SlotToRosterID: map[int]int{1: 2, 2: 1}}},
		Picks: []domain.DraftPick{
			{DraftID: "D1", Season: "2024", PickNo: 1, Round: 1, DraftSlot: 1, PlayerID: "P3", RosterID: 2},
			{DraftID: "D1", Season: "2024", PickNo: 2, Round: 1, DraftSlot: 2, PlayerID: "Q", RosterID: 2, FirstName: "Player", LastName: "Q"},
		},
		RosterNames: map[int]string{1: "alice"},
	})

	n := g.Nodes[idhash.PickKey(domain.PickIdentity{Season: "2024", Round: 1, OriginalRosterID: 1})]
	if n == nil {
		t.Fatal("pick node missing")
	}
	if n.Pick.DraftSlot != 2 {
		t.Errorf("DraftSlot = %d, want 2", n.Pick.DraftSlot)
	}
	if n.Pick.Outcome == nil || n.Pick.Outcome.PlayerID != "Q" {
		t.Fatalf("expected outcome Q, got %+v", n.Pick.Outcome)
	}
	if n.Pick.Outcome.PlayerName != "Player Q" || n.Pick.Outcome.PickNo != 2 {
		t.Errorf("unexpected outcome %+v", n.Pick.Outcome)
	}
	if n.Name != "2024 Round 1 (alice)" {
		t.Errorf("Name = %q", n.Name)
	}
	if g.RosterName(2) != "Team 2" {
		t.Errorf("RosterName(2) = %q, want placeholder", g.RosterName(2))
	}
}

func TestEdgeRecords_Deterministic(t *testing.T) {
	g := build(trade("t1", 100, map[string]int{"P1": 2}, map[string]int{"P1": 1}, 1, 2))
	a := g.EdgeRecords()
	b := build(trade("t1", 100, map[string]int{"P1": 2}, map[string]int{"P1": 1}, 1, 2)).EdgeRecords()

	if len(a) != 1 || a[0].EdgeID != b[0].EdgeID {
		t.Fatalf("edge ids not deterministic")
	}
	if a[0].RootLeague != "L1" || a[0].AssetKind != domain.AssetKindPlayer {
		t.Errorf("unexpected record %+v", a[0])
	}
}
