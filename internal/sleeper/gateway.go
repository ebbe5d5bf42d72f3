// Package sleeper is the read-only gateway to the Sleeper fantasy API.
package sleeper

import (
	"context"
	"errors"

	"sleeper-trade-lab/internal/domain"
)

// ErrNotFound is returned when the upstream entity does not exist
// (HTTP 404 or a null body for a single-entity endpoint).
var ErrNotFound = errors.New("not found")

// Gateway defines the upstream fetch operations used by the analysis core.
// Every call is idempotent and keyed by its request URL.
type Gateway interface {
	// GetUser fetches a user by username or user id.
	GetUser(ctx context.Context, usernameOrID string) (*domain.User, error)

	// GetUserLeagues fetches a user's NFL leagues for a season.
	GetUserLeagues(ctx context.Context, userID, season string) ([]domain.LeagueInstance, error)

	// GetLeague fetches one league instance.
	GetLeague(ctx context.Context, leagueID string) (*domain.LeagueInstance, error)

	// GetLeagueUsers fetches the users of a league, with league-scoped team names.
	GetLeagueUsers(ctx context.Context, leagueID string) ([]domain.User, error)

	// GetRosters fetches a league's rosters.
	GetRosters(ctx context.Context, leagueID string) ([]domain.Roster, error)

	// GetDrafts fetches a league's draft list.
	GetDrafts(ctx context.Context, leagueID string) ([]domain.Draft, error)

	// GetDraft fetches one draft with its slot configuration.
	GetDraft(ctx context.Context, draftID string) (*domain.Draft, error)

	// GetDraftPicks fetches a draft's selections.
	GetDraftPicks(ctx context.Context, draftID string) ([]domain.DraftPick, error)

	// GetTransactions fetches one week of a league's transactions. A 404 is an empty list.
	GetTransactions(ctx context.Context, leagueID string, week int) ([]domain.TransactionRecord, error)

	// GetMatchups fetches one week of a league's matchups.
	GetMatchups(ctx context.Context, leagueID string, week int) ([]domain.Matchup, error)

	// GetTradedPicks fetches a league's traded-picks ledger.
	GetTradedPicks(ctx context.Context, leagueID string) ([]domain.TradedPick, error)

	// GetPlayers fetches the NFL player directory keyed by player id.
	GetPlayers(ctx context.Context) (map[string]domain.Player, error)

	// GetWeeklyStats fetches one regular-season week of player stats.
	GetWeeklyStats(ctx context.Context, season string, week int) ([]domain.PlayerWeekStats, error)
}
