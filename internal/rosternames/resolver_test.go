package rosternames

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/sleeper/stub"
)

func newResolver(gw *stub.Gateway) *Resolver {
	return NewResolver(Options{Gateway: gw, Logger: log.New(io.Discard, "", 0)})
}

func TestResolve_PriorityChain(t *testing.T) {
	gw := stub.NewGateway()
	gw.Rosters["L1"] = []domain.Roster{
		{RosterID: 1, OwnerID: "u1", TeamName: "ignored"},
		{RosterID: 2, OwnerID: "u2", TeamName: "ignored too"},
		{RosterID: 3, OwnerID: "u3", TeamName: "Gridiron"},
		{RosterID: 4},
	}
	gw.LeagueUsers["L1"] = []domain.User{{UserID: "u1", DisplayName: "alice"}}
	gw.AddUser(domain.User{UserID: "u2", Username: "bob"})
	gw.FailOn(stub.UserKey("u3"), errors.New("500"))

	names, err := newResolver(gw).Resolve(context.Background(), domain.LeagueChain{{LeagueID: "L1", Season: "2024"}})
	require.NoError(t, err)
	require.Len(t, names, 4)

	want := []struct {
		name   string
		source Source
	}{
		{"alice", SourceLeagueUser},
		{"bob", SourceFetchedUser},
		{"Gridiron", SourceTeamName},
		{"Team 4", SourcePlaceholder},
	}
	for i, w := range want {
		assert.Equal(t, i+1, names[i].RosterID)
		assert.Equal(t, w.name, names[i].Name, "roster %d", i+1)
		assert.Equal(t, w.source, names[i].Source, "roster %d", i+1)
	}
}

func TestResolve_EarliestSeasonWins(t *testing.T) {
	gw := stub.NewGateway()
	gw.Rosters["L1"] = []domain.Roster{{RosterID: 1, OwnerID: "u1"}, {RosterID: 2}}
	gw.Rosters["L2"] = []domain.Roster{{RosterID: 1, OwnerID: "u5"}, {RosterID: 2, TeamName: "Late Name"}}
	gw.LeagueUsers["L1"] = []domain.User{{UserID: "u1", DisplayName: "alice"}}
	gw.LeagueUsers["L2"] = []domain.User{{UserID: "u5", DisplayName: "eve"}}

	chain := domain.LeagueChain{
		{LeagueID: "L2", Season: "2024"},
		{LeagueID: "L1", Season: "2023"},
	}
	names, err := newResolver(gw).Names(context.Background(), chain)
	require.NoError(t, err)

	assert.Equal(t, "alice", names[1])
	// roster 2 has nothing in 2023, so the 2024 team name is used
	assert.Equal(t, "Late Name", names[2])
}

func TestResolve_UserFetchedOnce(t *testing.T) {
	gw := stub.NewGateway()
	gw.Rosters["L1"] = []domain.Roster{{RosterID: 1, OwnerID: "u2"}}
	gw.Rosters["L2"] = []domain.Roster{{RosterID: 3, OwnerID: "u2"}}
	gw.AddUser(domain.User{UserID: "u2", Username: "bob"})

	chain := domain.LeagueChain{{LeagueID: "L2", Season: "2024"}, {LeagueID: "L1", Season: "2023"}}
	names, err := newResolver(gw).Names(context.Background(), chain)
	require.NoError(t, err)

	assert.Equal(t, "bob", names[1])
	assert.Equal(t, "bob", names[3])
	assert.Equal(t, 1, gw.Calls(stub.UserKey("u2")))
}

func TestResolve_SkipsFailedSeason(t *testing.T) {
	gw := stub.NewGateway()
	gw.Rosters["L2"] = []domain.Roster{{RosterID: 1, TeamName: "Only"}}
	gw.FailOn(stub.RostersKey("L1"), errors.New("timeout"))

	chain := domain.LeagueChain{{LeagueID: "L2", Season: "2024"}, {LeagueID: "L1", Season: "2023"}}
	names, err := newResolver(gw).Names(context.Background(), chain)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "Only"}, names)
}
