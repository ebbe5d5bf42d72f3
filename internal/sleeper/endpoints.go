package sleeper

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"sleeper-trade-lab/internal/domain"
)

// GetUser fetches a user by username or user id.
func (c *HTTPClient) GetUser(ctx context.Context, usernameOrID string) (*domain.User, error) {
	var raw userJSON
	if err := c.getEntity(ctx, "user", "/user/"+url.PathEscape(usernameOrID), &raw); err != nil {
		return nil, err
	}
	u := raw.toDomain()
	return &u, nil
}

// GetUserLeagues fetches a user's NFL leagues for a season.
func (c *HTTPClient) GetUserLeagues(ctx context.Context, userID, season string) ([]domain.LeagueInstance, error) {
	var raw []leagueJSON
	path := fmt.Sprintf("/user/%s/leagues/nfl/%s", url.PathEscape(userID), url.PathEscape(season))
	if err := c.getList(ctx, "user_leagues", path, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.LeagueInstance, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].toDomain())
	}
	return out, nil
}

// GetLeague fetches one league instance.
func (c *HTTPClient) GetLeague(ctx context.Context, leagueID string) (*domain.LeagueInstance, error) {
	var raw leagueJSON
	if err := c.getEntity(ctx, "league", "/league/"+url.PathEscape(leagueID), &raw); err != nil {
		return nil, err
	}
	l := raw.toDomain()
	return &l, nil
}

// GetLeagueUsers fetches the users of a league.
func (c *HTTPClient) GetLeagueUsers(ctx context.Context, leagueID string) ([]domain.User, error) {
	var raw []userJSON
	if err := c.getList(ctx, "league_users", "/league/"+url.PathEscape(leagueID)+"/users", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].toDomain())
	}
	return out, nil
}

// GetRosters fetches a league's rosters.
func (c *HTTPClient) GetRosters(ctx context.Context, leagueID string) ([]domain.Roster, error) {
	var raw []rosterJSON
	if err := c.getList(ctx, "rosters", "/league/"+url.PathEscape(leagueID)+"/rosters", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Roster, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].toDomain(leagueID))
	}
	return out, nil
}

// GetDrafts fetches a league's draft list.
func (c *HTTPClient) GetDrafts(ctx context.Context, leagueID string) ([]domain.Draft, error) {
	var raw []draftJSON
	if err := c.getList(ctx, "drafts", "/league/"+url.PathEscape(leagueID)+"/drafts", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Draft, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].toDomain())
	}
	return out, nil
}

// GetDraft fetches one draft with its slot configuration.
func (c *HTTPClient) GetDraft(ctx context.Context, draftID string) (*domain.Draft, error) {
	var raw draftJSON
	if err := c.getEntity(ctx, "draft", "/draft/"+url.PathEscape(draftID), &raw); err != nil {
		return nil, err
	}
	d := raw.toDomain()
	return &d, nil
}

// GetDraftPicks fetches a draft's selections. Season is left for the caller to stamp.
func (c *HTTPClient) GetDraftPicks(ctx context.Context, draftID string) ([]domain.DraftPick, error) {
	var raw []draftPickJSON
	if err := c.getList(ctx, "draft_picks", "/draft/"+url.PathEscape(draftID)+"/picks", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.DraftPick, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].toDomain(draftID))
	}
	return out, nil
}

// GetTransactions fetches one week of transactions. A 404 yields an empty list.
func (c *HTTPClient) GetTransactions(ctx context.Context, leagueID string, week int) ([]domain.TransactionRecord, error) {
	var raw []transactionJSON
	path := fmt.Sprintf("/league/%s/transactions/%d", url.PathEscape(leagueID), week)
	if err := c.getList(ctx, "transactions", path, &raw); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []domain.TransactionRecord{}, nil
		}
		return nil, err
	}
	out := make([]domain.TransactionRecord, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].toDomain(leagueID, week))
	}
	return out, nil
}

// GetMatchups fetches one week of matchups.
func (c *HTTPClient) GetMatchups(ctx context.Context, leagueID string, week int) ([]domain.Matchup, error) {
	var raw []matchupJSON
	path := fmt.Sprintf("/league/%s/matchups/%d", url.PathEscape(leagueID), week)
	if err := c.getList(ctx, "matchups", path, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Matchup, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].toDomain(leagueID, week))
	}
	return out, nil
}

// GetTradedPicks fetches a league's traded-picks ledger.
func (c *HTTPClient) GetTradedPicks(ctx context.Context, leagueID string) ([]domain.TradedPick, error) {
	var raw []tradedPickJSON
	if err := c.getList(ctx, "traded_picks", "/league/"+url.PathEscape(leagueID)+"/traded_picks", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.TradedPick, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].toDomain())
	}
	return out, nil
}

// GetPlayers fetches the NFL player directory.
func (c *HTTPClient) GetPlayers(ctx context.Context) (map[string]domain.Player, error) {
	var raw map[string]playerJSON
	if err := c.getList(ctx, "players", "/players/nfl", &raw); err != nil {
		return nil, err
	}
	out := make(map[string]domain.Player, len(raw))
	for id, p := range raw {
		out[id] = p.toDomain(id)
	}
	return out, nil
}

// GetWeeklyStats fetches one regular-season week of player stats.
func (c *HTTPClient) GetWeeklyStats(ctx context.Context, season string, week int) ([]domain.PlayerWeekStats, error) {
	var raw map[string]statJSON
	path := fmt.Sprintf("/stats/nfl/regular/%s/%d", url.PathEscape(season), week)
	if err := c.getList(ctx, "weekly_stats", path, &raw); err != nil {
		return nil, err
	}
	return statsToDomain(raw, season, week), nil
}
