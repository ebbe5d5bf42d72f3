// Package stub provides an in-memory sleeper.Gateway for tests.
package stub

import (
	"context"
	"fmt"
	"sync"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/sleeper"
)

// Gateway implements sleeper.Gateway from maps. Missing single entities return
// sleeper.ErrNotFound; missing collections are empty. Safe for concurrent use.
type Gateway struct {
	mu sync.RWMutex

	Users        map[string]*domain.User // keyed by user id and username
	UserLeagues  map[string][]domain.LeagueInstance
	Leagues      map[string]*domain.LeagueInstance
	LeagueUsers  map[string][]domain.User
	Rosters      map[string][]domain.Roster
	Drafts       map[string][]domain.Draft // keyed by league id
	DraftPicks   map[string][]domain.DraftPick
	Transactions map[string]map[int][]domain.TransactionRecord
	Matchups     map[string]map[int][]domain.Matchup
	TradedPicks  map[string][]domain.TradedPick
	Players      map[string]domain.Player
	Stats        map[string]map[int][]domain.PlayerWeekStats // keyed by season

	errs  map[string]error
	calls map[string]int
}

// NewGateway creates an empty stub gateway.
func NewGateway() *Gateway {
	return &Gateway{
		Users:        make(map[string]*domain.User),
		UserLeagues:  make(map[string][]domain.LeagueInstance),
		Leagues:      make(map[string]*domain.LeagueInstance),
		LeagueUsers:  make(map[string][]domain.User),
		Rosters:      make(map[string][]domain.Roster),
		Drafts:       make(map[string][]domain.Draft),
		DraftPicks:   make(map[string][]domain.DraftPick),
		Transactions: make(map[string]map[int][]domain.TransactionRecord),
		Matchups:     make(map[string]map[int][]domain.Matchup),
		TradedPicks:  make(map[string][]domain.TradedPick),
		Players:      make(map[string]domain.Player),
		Stats:        make(map[string]map[int][]domain.PlayerWeekStats),
		errs:         make(map[string]error),
		calls:        make(map[string]int),
	}
}

var _ sleeper.Gateway = (*Gateway)(nil)

// UserKey is the call key of GetUser.
func UserKey(id string) string { return "user:" + id }

// LeagueKey is the call key of GetLeague.
func LeagueKey(id string) string { return "league:" + id }

// LeagueUsersKey is the call key of GetLeagueUsers.
func LeagueUsersKey(id string) string { return "league_users:" + id }

// RostersKey is the call key of GetRosters.
func RostersKey(id string) string { return "rosters:" + id }

// DraftsKey is the call key of GetDrafts.
func DraftsKey(leagueID string) string { return "drafts:" + leagueID }

// DraftKey is the call key of GetDraft.
func DraftKey(id string) string { return "draft:" + id }

// DraftPicksKey is the call key of GetDraftPicks.
func DraftPicksKey(id string) string { return "draft_picks:" + id }

// TradedPicksKey is the call key of GetTradedPicks.
func TradedPicksKey(id string) string { return "traded_picks:" + id }

// TransactionsKey is the call key of GetTransactions.
func TransactionsKey(id string, week int) string {
	return fmt.Sprintf("transactions:%s:%d", id, week)
}

// MatchupsKey is the call key of GetMatchups.
func MatchupsKey(id string, week int) string {
	return fmt.Sprintf("matchups:%s:%d", id, week)
}

// StatsKey is the call key of GetWeeklyStats.
func StatsKey(season string, week int) string {
	return fmt.Sprintf("stats:%s:%d", season, week)
}

// PlayersKey is the call key of GetPlayers.
const PlayersKey = "players"

// FailOn makes the call identified by key return err.
func (g *Gateway) FailOn(key string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[key] = err
}

// Calls returns how many times the call identified by key was made.
func (g *Gateway) Calls(key string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.calls[key]
}

func (g *Gateway) enter(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[key]++
	return g.errs[key]
}

// AddLeague adds a league instance.
func (g *Gateway) AddLeague(l domain.LeagueInstance) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Leagues[l.LeagueID] = &l
}

// AddUser adds a user, reachable by id and username.
func (g *Gateway) AddUser(u domain.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Users[u.UserID] = &u
	if u.Username != "" {
		g.Users[u.Username] = &u
	}
}

// AddTransactions appends transactions to a league week.
func (g *Gateway) AddTransactions(leagueID string, week int, txs ...domain.TransactionRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Transactions[leagueID] == nil {
		g.Transactions[leagueID] = make(map[int][]domain.TransactionRecord)
	}
	g.Transactions[leagueID][week] = append(g.Transactions[leagueID][week], txs...)
}

// AddMatchups appends matchups to a league week.
func (g *Gateway) AddMatchups(leagueID string, week int, ms ...domain.Matchup) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Matchups[leagueID] == nil {
		g.Matchups[leagueID] = make(map[int][]domain.Matchup)
	}
	g.Matchups[leagueID][week] = append(g.Matchups[leagueID][week], ms...)
}

// AddStats appends stat lines to a season week.
func (g *Gateway) AddStats(season string, week int, lines ...domain.PlayerWeekStats) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Stats[season] == nil {
		g.Stats[season] = make(map[int][]domain.PlayerWeekStats)
	}
	g.Stats[season][week] = append(g.Stats[season][week], lines...)
}

// AddDraft adds a draft to its league and its picks.
func (g *Gateway) AddDraft(d domain.Draft, picks ...domain.DraftPick) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Drafts[d.LeagueID] = append(g.Drafts[d.LeagueID], d)
	g.DraftPicks[d.DraftID] = append(g.DraftPicks[d.DraftID], picks...)
}

// GetUser retrieves a user by id or username.
func (g *Gateway) GetUser(_ context.Context, usernameOrID string) (*domain.User, error) {
	if err := g.enter(UserKey(usernameOrID)); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	u, ok := g.Users[usernameOrID]
	if !ok {
		return nil, sleeper.ErrNotFound
	}
	c := *u
	return &c, nil
}

// GetUserLeagues retrieves a user's leagues; season is ignored.
func (g *Gateway) GetUserLeagues(_ context.Context, userID, _ string) ([]domain.LeagueInstance, error) {
	if err := g.enter("user_leagues:" + userID); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.LeagueInstance(nil), g.UserLeagues[userID]...), nil
}

// GetLeague retrieves a league instance.
func (g *Gateway) GetLeague(_ context.Context, leagueID string) (*domain.LeagueInstance, error) {
	if err := g.enter(LeagueKey(leagueID)); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	l, ok := g.Leagues[leagueID]
	if !ok {
		return nil, sleeper.ErrNotFound
	}
	c := *l
	return &c, nil
}

// GetLeagueUsers retrieves a league's users.
func (g *Gateway) GetLeagueUsers(_ context.Context, leagueID string) ([]domain.User, error) {
	if err := g.enter(LeagueUsersKey(leagueID)); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.User(nil), g.LeagueUsers[leagueID]...), nil
}

// GetRosters retrieves a league's rosters.
func (g *Gateway) GetRosters(_ context.Context, leagueID string) ([]domain.Roster, error) {
	if err := g.enter(RostersKey(leagueID)); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.Roster(nil), g.Rosters[leagueID]...), nil
}

// GetDrafts retrieves a league's drafts.
func (g *Gateway) GetDrafts(_ context.Context, leagueID string) ([]domain.Draft, error) {
	if err := g.enter(DraftsKey(leagueID)); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.Draft(nil), g.Drafts[leagueID]...), nil
}

// GetDraft retrieves a draft by id from any league.
func (g *Gateway) GetDraft(_ context.Context, draftID string) (*domain.Draft, error) {
	if err := g.enter(DraftKey(draftID)); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, drafts := range g.Drafts {
		for _, d := range drafts {
			if d.DraftID == draftID {
				c := d
				return &c, nil
			}
		}
	}
	return nil, sleeper.ErrNotFound
}

// GetDraftPicks retrieves a draft's picks.
func (g *Gateway) GetDraftPicks(_ context.Context, draftID string) ([]domain.DraftPick, error) {
	if err := g.enter(DraftPicksKey(draftID)); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.DraftPick(nil), g.DraftPicks[draftID]...), nil
}

// GetTransactions retrieves one week of transactions.
func (g *Gateway) GetTransactions(_ context.Context, leagueID string, week int) ([]domain.TransactionRecord, error) {
	if err := g.enter(TransactionsKey(leagueID, week)); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.TransactionRecord{}, g.Transactions[leagueID][week]...), nil
}

// GetMatchups retrieves one week of matchups.
func (g *Gateway) GetMatchups(_ context.Context, leagueID string, week int) ([]domain.Matchup, error) {
	if err := g.enter(MatchupsKey(leagueID, week)); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.Matchup(nil), g.Matchups[leagueID][week]...), nil
}

// GetTradedPicks retrieves a league's traded-picks ledger.
func (g *Gateway) GetTradedPicks(_ context.Context, leagueID string) ([]domain.TradedPick, error) {
	if err := g.enter(TradedPicksKey(leagueID)); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.TradedPick(nil), g.TradedPicks[leagueID]...), nil
}

// GetPlayers retrieves the player directory.
func (g *Gateway) GetPlayers(_ context.Context) (map[string]domain.Player, error) {
	if err := g.enter(PlayersKey); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]domain.Player, len(g.Players))
	for k, v := range g.Players {
		out[k] = v
	}
	return out, nil
}

// GetWeeklyStats retrieves one week of stats.
func (g *Gateway) GetWeeklyStats(_ context.Context, season string, week int) ([]domain.PlayerWeekStats, error) {
	if err := g.enter(StatsKey(season, week)); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.PlayerWeekStats(nil), g.Stats[season][week]...), nil
}
