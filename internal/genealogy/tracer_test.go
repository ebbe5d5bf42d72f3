package genealogy

import (
	"testing"
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/idhash"
	"sleeper-trade-lab/internal/tradegraph"
)

var players = map[string]domain.Player{
	"P": {PlayerID: "P", FullName: "Player P"},
	"Q": {PlayerID: "Q", FullName: "Player Q"},
	"R": {PlayerID: "R", FullName: "Player R"},
	"S": {PlayerID: "S", FullName: "Player S"},
	"Z": {PlayerID: "Z", FullName: "Player Z"},
}

var pickX = domain.PickIdentity{Season: "2025", Round: 1, OriginalRosterID: 2}

func day(n int) int64 {
	return time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n).UnixMilli()
}

func swap(id string, ts int64, moves ...move) domain.TransactionRecord {
	tx := domain.TransactionRecord{
		TransactionID: id,
		LeagueID:      "L1",
		Season:        "2024",
		Type:          domain.TransactionTypeTrade,
		Status:        domain.TransactionStatusComplete,
		StatusUpdated: ts,
		Adds:          map[string]int{},
		Drops:         map[string]int{},
	}
	rosters := map[int]bool{}
	for _, m := range moves {
		if m.pick != nil {
			tx.DraftPicks = append(tx.DraftPicks, domain.DraftPickMovement{
				Season: m.pick.Season, Round: m.pick.Round, RosterID: m.pick.OriginalRosterID,
				OwnerID: m.to, PreviousOwnerID: m.from,
			})
		} else {
			tx.Drops[m.asset] = m.from
			tx.Adds[m.asset] = m.to
		}
		for _, r := range []int{m.from, m.to} {
			if !rosters[r] {
				rosters[r] = true
				tx.RosterIDs = append(tx.RosterIDs, r)
			}
		}
	}
	return tx
}

type move struct {
	asset    string
	pick     *domain.PickIdentity
	from, to int
}

func player(id string, from, to int) move { return move{asset: id, from: from, to: to} }

func pick(id domain.PickIdentity, from, to int) move { return move{pick: &id, from: from, to: to} }

func graphOf(txs ...domain.TransactionRecord) *tradegraph.Graph {
	return tradegraph.FromData(tradegraph.Input{LeagueID: "L1", Transactions: txs, Players: players})
}

// Roster 1 trades P to 2 for pick X, then trades X to 3 for Q.
func chainGraph() *tradegraph.Graph {
	return graphOf(
		swap("tx1", day(0), player("P", 1, 2), pick(pickX, 2, 1)),
		swap("tx2", day(30), pick(pickX, 1, 3), player("Q", 3, 1)),
		swap("tx3", day(40), player("Z", 2, 3), player("S", 3, 2)),
	)
}

func TestTrace_TwoGenerationChain(t *testing.T) {
	gen, err := NewTracer(Options{}).Trace(chainGraph(), "P", 0)
	if err != nil {
		t.Fatalf("Trace failed: %v", err)
	}

	if gen.Holder != 1 {
		t.Errorf("Holder = %d, want 1", gen.Holder)
	}
	if len(gen.DescendantPaths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(gen.DescendantPaths))
	}
	p := gen.DescendantPaths[0]
	if p.Length != 2 || p.ToAssetID != "Q" {
		t.Errorf("path = length %d to %s, want length 2 to Q", p.Length, p.ToAssetID)
	}
	if p.Edges[1].AssetID != idhash.PickKey(pickX) {
		t.Errorf("second edge asset = %s, want pick X", p.Edges[1].AssetID)
	}
	if p.Outcome != domain.PathOutcomeHeld {
		t.Errorf("Outcome = %s, want held", p.Outcome)
	}
	if p.TimeSpanDays != 30 {
		t.Errorf("TimeSpanDays = %d, want 30", p.TimeSpanDays)
	}
	if len(p.Participants) != 3 {
		t.Errorf("Participants = %v, want [1 2 3]", p.Participants)
	}
	if gen.GenerationDepth != 2 {
		t.Errorf("GenerationDepth = %d, want 2", gen.GenerationDepth)
	}
	if len(gen.FinalAssets) != 1 || gen.FinalAssets[0].AssetID != "Q" {
		t.Errorf("FinalAssets = %v, want [Q]", gen.FinalAssets)
	}
	if p.PathID == "" {
		t.Error("expected a path id")
	}
}

func TestTrace_NeverTraded(t *testing.T) {
	g := chainGraph()
	gen, err := NewTracer(Options{}).Trace(g, "Q", 1)
	if err != nil {
		t.Fatalf("Trace failed: %v", err)
	}
	if len(gen.DescendantPaths) != 0 || gen.GenerationDepth != 0 {
		t.Errorf("expected no paths, got %d (depth %d)", len(gen.DescendantPaths), gen.GenerationDepth)
	}
	if len(gen.FinalAssets) != 1 || gen.FinalAssets[0].AssetID != "Q" {
		t.Errorf("FinalAssets = %v, want [Q]", gen.FinalAssets)
	}
}

func TestTrace_PackageBranches(t *testing.T) {
	g := graphOf(
		swap("tx1", day(0), player("P", 1, 2), player("Q", 2, 1), player("R", 2, 1)),
		swap("tx2", day(5), player("R", 1, 3), player("S", 3, 1)),
	)
	gen, err := NewTracer(Options{}).Trace(g, "P", 1)
	if err != nil {
		t.Fatalf("Trace failed: %v", err)
	}

	ends := map[string]int{}
	for _, p := range gen.DescendantPaths {
		ends[p.ToAssetID] = p.Length
	}
	if len(ends) != 2 || ends["Q"] != 1 || ends["S"] != 2 {
		t.Errorf("paths = %v, want Q:1 S:2", ends)
	}
	if gen.GenerationDepth != 2 {
		t.Errorf("GenerationDepth = %d, want 2", gen.GenerationDepth)
	}
}

func TestTrace_PackageLeavesTogether(t *testing.T) {
	g := graphOf(
		swap("tx1", day(0), player("P", 1, 2), player("Q", 2, 1), player("R", 2, 1)),
		swap("tx2", day(5), player("Q", 1, 3), player("R", 1, 3), player("S", 3, 1)),
	)
	gen, err := NewTracer(Options{}).Trace(g, "P", 1)
	if err != nil {
		t.Fatalf("Trace failed: %v", err)
	}

	outcomes := map[string]domain.PathOutcome{}
	for _, p := range gen.DescendantPaths {
		outcomes[p.ToAssetID] = p.Outcome
		if p.Length != 2 {
			t.Errorf("path to %s has length %d, want 2", p.ToAssetID, p.Length)
		}
	}
	want := map[string]domain.PathOutcome{"S": domain.PathOutcomeHeld, "R": domain.PathOutcomeMerged}
	if len(outcomes) != len(want) || outcomes["S"] != want["S"] || outcomes["R"] != want["R"] {
		t.Errorf("outcomes = %v, want %v", outcomes, want)
	}
	if gen.Stats.Branches != 2 {
		t.Errorf("Branches = %d, want 2", gen.Stats.Branches)
	}
	if gen.Stats.TransactionsVisited != 2 {
		t.Errorf("TransactionsVisited = %d, want 2", gen.Stats.TransactionsVisited)
	}
	if len(gen.FinalAssets) != 1 || gen.FinalAssets[0].AssetID != "S" {
		t.Errorf("FinalAssets = %v, want [S]", gen.FinalAssets)
	}
}

func TestTrace_GivenAway(t *testing.T) {
	g := graphOf(swap("tx1", day(0), player("P", 1, 2)))
	gen, err := NewTracer(Options{}).Trace(g, "P", 1)
	if err != nil {
		t.Fatalf("Trace failed: %v", err)
	}
	if len(gen.DescendantPaths) != 1 || gen.DescendantPaths[0].Outcome != domain.PathOutcomeGivenAway {
		t.Fatalf("expected one given_away path, got %+v", gen.DescendantPaths)
	}
	if len(gen.FinalAssets) != 0 {
		t.Errorf("FinalAssets = %v, want none", gen.FinalAssets)
	}
}

func TestTrace_CyclicSwapTerminates(t *testing.T) {
	g := graphOf(
		swap("tx1", day(0), player("P", 1, 2), player("Q", 2, 1)),
		swap("tx2", day(1), player("Q", 1, 2), player("P", 2, 1)),
		swap("tx3", day(2), player("P", 1, 2), player("Q", 2, 1)),
		swap("tx4", day(3), player("Q", 1, 2), player("P", 2, 1)),
	)
	gen, err := NewTracer(Options{}).Trace(g, "P", 1)
	if err != nil {
		t.Fatalf("Trace failed: %v", err)
	}
	if gen.Stats.TransactionsVisited > 4 {
		t.Errorf("visited %d transactions", gen.Stats.TransactionsVisited)
	}
	if len(gen.DescendantPaths) != 1 {
		t.Errorf("expected 1 path, got %d", len(gen.DescendantPaths))
	}
}

func TestTrace_DepthLimit(t *testing.T) {
	g := graphOf(
		swap("tx1", day(0), player("P", 1, 2), player("Q", 2, 1)),
		swap("tx2", day(1), player("Q", 1, 3), player("R", 3, 1)),
		swap("tx3", day(2), player("R", 1, 4), player("S", 4, 1)),
	)
	gen, err := NewTracer(Options{MaxDepth: 2}).Trace(g, "P", 1)
	if err != nil {
		t.Fatalf("Trace failed: %v", err)
	}
	if len(gen.DescendantPaths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(gen.DescendantPaths))
	}
	p := gen.DescendantPaths[0]
	if p.Outcome != domain.PathOutcomeDepthLimit || p.Length != 2 || p.ToAssetID != "R" {
		t.Errorf("path = %s length %d to %s, want depth_limit length 2 to R", p.Outcome, p.Length, p.ToAssetID)
	}
}

func TestTrace_UnknownAsset(t *testing.T) {
	if _, err := NewTracer(Options{}).Trace(chainGraph(), "nope", 0); err != ErrAssetNotFound {
		t.Errorf("expected ErrAssetNotFound, got %v", err)
	}
}
