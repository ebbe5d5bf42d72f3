package history

import (
	"context"
	"errors"
	"testing"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/sleeper"
	"sleeper-trade-lab/internal/sleeper/stub"
)

func league(id, season, prev string) domain.LeagueInstance {
	return domain.LeagueInstance{LeagueID: id, Season: season, PreviousLeagueID: prev}
}

func TestChain_NewestFirst(t *testing.T) {
	gw := stub.NewGateway()
	gw.AddLeague(league("L3", "2024", "L2"))
	gw.AddLeague(league("L2", "2023", "L1"))
	gw.AddLeague(league("L1", "2022", ""))

	chain, err := NewResolver(gw, 0).Chain(context.Background(), "L3")
	if err != nil {
		t.Fatalf("Chain failed: %v", err)
	}

	got := chain.LeagueIDs()
	want := []string{"L3", "L2", "L1"}
	if len(got) != len(want) {
		t.Fatalf("chain = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chain[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	chrono := chain.Chronological()
	if chrono[0].Season != "2022" {
		t.Errorf("chronological first season = %s, want 2022", chrono[0].Season)
	}
}

func TestChain_NotFoundOnThirdHop(t *testing.T) {
	gw := stub.NewGateway()
	gw.AddLeague(league("L3", "2024", "L2"))
	gw.AddLeague(league("L2", "2023", "L1"))
	// L1 is missing upstream

	chain, err := NewResolver(gw, 0).Chain(context.Background(), "L3")
	if err != nil {
		t.Fatalf("404 should terminate, not fail: %v", err)
	}
	if len(chain) != 2 {
		t.Errorf("chain length = %d, want 2", len(chain))
	}
}

func TestChain_SelfReferenceTerminates(t *testing.T) {
	gw := stub.NewGateway()
	gw.AddLeague(league("L1", "2024", "L1"))

	chain, err := NewResolver(gw, 0).Chain(context.Background(), "L1")
	if err != nil {
		t.Fatalf("Chain failed: %v", err)
	}
	if len(chain) != 1 {
		t.Errorf("chain length = %d, want 1", len(chain))
	}
}

func TestChain_CycleTerminates(t *testing.T) {
	gw := stub.NewGateway()
	gw.AddLeague(league("A", "2024", "B"))
	gw.AddLeague(league("B", "2023", "C"))
	gw.AddLeague(league("C", "2022", "A"))

	chain, err := NewResolver(gw, 0).Chain(context.Background(), "A")
	if err != nil {
		t.Fatalf("Chain failed: %v", err)
	}
	if len(chain) != 3 {
		t.Errorf("chain length = %d, want 3", len(chain))
	}
	if gw.Calls(stub.LeagueKey("A")) != 1 {
		t.Errorf("A fetched %d times, want 1", gw.Calls(stub.LeagueKey("A")))
	}
}

func TestChain_MaxHops(t *testing.T) {
	gw := stub.NewGateway()
	gw.AddLeague(league("L3", "2024", "L2"))
	gw.AddLeague(league("L2", "2023", "L1"))
	gw.AddLeague(league("L1", "2022", ""))

	chain, err := NewResolver(gw, 2).Chain(context.Background(), "L3")
	if err != nil {
		t.Fatalf("Chain failed: %v", err)
	}
	if len(chain) != 2 {
		t.Errorf("chain length = %d, want 2", len(chain))
	}
}

func TestChain_StartMissing(t *testing.T) {
	_, err := NewResolver(stub.NewGateway(), 0).Chain(context.Background(), "nope")
	if !errors.Is(err, ErrLeagueNotFound) {
		t.Fatalf("expected ErrLeagueNotFound, got %v", err)
	}
}

func TestChain_TransientErrorReturnsPartial(t *testing.T) {
	gw := stub.NewGateway()
	gw.AddLeague(league("L3", "2024", "L2"))
	gw.AddLeague(league("L2", "2023", "L1"))
	gw.FailOn(stub.LeagueKey("L2"), errors.New("502 bad gateway"))

	chain, err := NewResolver(gw, 0).Chain(context.Background(), "L3")
	if err == nil {
		t.Fatal("expected error for transient failure")
	}
	if errors.Is(err, sleeper.ErrNotFound) {
		t.Errorf("transient error should not look like not-found: %v", err)
	}
	if len(chain) != 1 || chain[0].LeagueID != "L3" {
		t.Errorf("expected partial chain [L3], got %v", chain.LeagueIDs())
	}
}
