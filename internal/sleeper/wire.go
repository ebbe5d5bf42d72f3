package sleeper

import (
	"sort"
	"strconv"

	"sleeper-trade-lab/internal/domain"
)

// Wire shapes of the Sleeper API. Optional fields are pointers or maps so that
// null and absent values resolve to domain defaults in the to* conversions.

type userJSON struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Metadata    *struct {
		TeamName string `json:"team_name"`
	} `json:"metadata"`
}

func (u *userJSON) toDomain() domain.User {
	out := domain.User{
		UserID:      u.UserID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
	}
	if u.Metadata != nil {
		out.TeamName = u.Metadata.TeamName
	}
	return out
}

type leagueJSON struct {
	LeagueID         string  `json:"league_id"`
	Name             string  `json:"name"`
	Season           string  `json:"season"`
	Status           string  `json:"status"`
	TotalRosters     int     `json:"total_rosters"`
	PreviousLeagueID *string `json:"previous_league_id"`
	DraftID          *string `json:"draft_id"`
}

func (l *leagueJSON) toDomain() domain.LeagueInstance {
	return domain.LeagueInstance{
		LeagueID:         l.LeagueID,
		Name:             l.Name,
		Season:           l.Season,
		Status:           l.Status,
		TotalRosters:     l.TotalRosters,
		PreviousLeagueID: deref(l.PreviousLeagueID),
		DraftID:          deref(l.DraftID),
	}
}

type rosterJSON struct {
	RosterID int            `json:"roster_id"`
	LeagueID string         `json:"league_id"`
	OwnerID  *string        `json:"owner_id"`
	Players  []string       `json:"players"`
	Starters []string       `json:"starters"`
	Reserve  []string       `json:"reserve"`
	Metadata map[string]any `json:"metadata"`
}

func (r *rosterJSON) toDomain(leagueID string) domain.Roster {
	out := domain.Roster{
		RosterID: r.RosterID,
		LeagueID: r.LeagueID,
		OwnerID:  deref(r.OwnerID),
		Players:  r.Players,
		Starters: r.Starters,
		Reserve:  r.Reserve,
		TeamName: metaString(r.Metadata, "team_name"),
	}
	if out.LeagueID == "" {
		out.LeagueID = leagueID
	}
	return out
}

type draftJSON struct {
	DraftID   string `json:"draft_id"`
	LeagueID  string `json:"league_id"`
	Season    string `json:"season"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	StartTime *int64 `json:"start_time"`
	Settings  *struct {
		Rounds int `json:"rounds"`
		Teams  int `json:"teams"`
	} `json:"settings"`
	DraftOrder     map[string]int  `json:"draft_order"`
	SlotToRosterID map[string]*int `json:"slot_to_roster_id"`
}

func (d *draftJSON) toDomain() domain.Draft {
	out := domain.Draft{
		DraftID:        d.DraftID,
		LeagueID:       d.LeagueID,
		Season:         d.Season,
		Type:           d.Type,
		Status:         d.Status,
		DraftOrder:     d.DraftOrder,
		SlotToRosterID: make(map[int]int, len(d.SlotToRosterID)),
	}
	if d.StartTime != nil {
		out.StartTime = *d.StartTime
	}
	if d.Settings != nil {
		out.Rounds = d.Settings.Rounds
		out.Teams = d.Settings.Teams
	}
	for slot, roster := range d.SlotToRosterID {
		n, err := strconv.Atoi(slot)
		if err != nil || roster == nil {
			continue
		}
		out.SlotToRosterID[n] = *roster
	}
	if out.Teams == 0 {
		out.Teams = len(out.SlotToRosterID)
	}
	return out
}

type draftPickJSON struct {
	DraftID   string `json:"draft_id"`
	PickNo    int    `json:"pick_no"`
	Round     int    `json:"round"`
	DraftSlot int    `json:"draft_slot"`
	PlayerID  string `json:"player_id"`
	RosterID  *int   `json:"roster_id"`
	PickedBy  string `json:"picked_by"`
	IsKeeper  *bool  `json:"is_keeper"`
	Metadata  *struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Position  string `json:"position"`
		Team      string `json:"team"`
	} `json:"metadata"`
}

func (p *draftPickJSON) toDomain(draftID string) domain.DraftPick {
	out := domain.DraftPick{
		DraftID:   p.DraftID,
		PickNo:    p.PickNo,
		Round:     p.Round,
		DraftSlot: p.DraftSlot,
		PlayerID:  p.PlayerID,
		PickedBy:  p.PickedBy,
		IsKeeper:  p.IsKeeper != nil && *p.IsKeeper,
	}
	if out.DraftID == "" {
		out.DraftID = draftID
	}
	if p.RosterID != nil {
		out.RosterID = *p.RosterID
	}
	if p.Metadata != nil {
		out.FirstName = p.Metadata.FirstName
		out.LastName = p.Metadata.LastName
		out.Position = p.Metadata.Position
		out.Team = p.Metadata.Team
	}
	return out
}

type pickMoveJSON struct {
	Season          string `json:"season"`
	Round           int    `json:"round"`
	RosterID        int    `json:"roster_id"`
	OwnerID         int    `json:"owner_id"`
	PreviousOwnerID *int   `json:"previous_owner_id"`
}

type transactionJSON struct {
	TransactionID string         `json:"transaction_id"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	StatusUpdated *int64         `json:"status_updated"`
	Creator       string         `json:"creator"`
	Leg           int            `json:"leg"`
	Adds          map[string]int `json:"adds"`
	Drops         map[string]int `json:"drops"`
	RosterIDs     []int          `json:"roster_ids"`
	DraftPicks    []pickMoveJSON `json:"draft_picks"`
}

func (t *transactionJSON) toDomain(leagueID string, week int) domain.TransactionRecord {
	out := domain.TransactionRecord{
		TransactionID: t.TransactionID,
		LeagueID:      leagueID,
		Week:          t.Leg,
		Type:          domain.TransactionType(t.Type),
		Status:        t.Status,
		Creator:       t.Creator,
		Adds:          t.Adds,
		Drops:         t.Drops,
		RosterIDs:     t.RosterIDs,
	}
	if out.Week == 0 {
		out.Week = week
	}
	if t.StatusUpdated != nil {
		out.StatusUpdated = *t.StatusUpdated
	}
	for _, p := range t.DraftPicks {
		out.DraftPicks = append(out.DraftPicks, domain.DraftPickMovement{
			Season:          p.Season,
			Round:           p.Round,
			RosterID:        p.RosterID,
			OwnerID:         p.OwnerID,
			PreviousOwnerID: derefInt(p.PreviousOwnerID),
		})
	}
	return out
}

type matchupJSON struct {
	RosterID  int      `json:"roster_id"`
	MatchupID *int     `json:"matchup_id"`
	Points    *float64 `json:"points"`
	Players   []string `json:"players"`
	Starters  []string `json:"starters"`
}

func (m *matchupJSON) toDomain(leagueID string, week int) domain.Matchup {
	out := domain.Matchup{
		LeagueID:  leagueID,
		Week:      week,
		RosterID:  m.RosterID,
		MatchupID: derefInt(m.MatchupID),
		Players:   m.Players,
		Starters:  m.Starters,
	}
	if m.Points != nil {
		out.Points = *m.Points
	}
	return out
}

type tradedPickJSON struct {
	Season          string `json:"season"`
	Round           int    `json:"round"`
	RosterID        int    `json:"roster_id"`
	OwnerID         int    `json:"owner_id"`
	PreviousOwnerID *int   `json:"previous_owner_id"`
}

// toDomain maps roster_id to the original owner and owner_id to the current owner.
func (p *tradedPickJSON) toDomain() domain.TradedPick {
	return domain.TradedPick{
		Season:                p.Season,
		Round:                 p.Round,
		OriginalRosterID:      p.RosterID,
		OwnerRosterID:         p.OwnerID,
		PreviousOwnerRosterID: derefInt(p.PreviousOwnerID),
	}
}

type playerJSON struct {
	PlayerID  string  `json:"player_id"`
	FullName  string  `json:"full_name"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Position  string  `json:"position"`
	Team      *string `json:"team"`
	Age       *int    `json:"age"`
	Status    string  `json:"status"`
}

func (p *playerJSON) toDomain(id string) domain.Player {
	out := domain.Player{
		PlayerID:  p.PlayerID,
		FullName:  p.FullName,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Position:  p.Position,
		Team:      deref(p.Team),
		Age:       derefInt(p.Age),
		Status:    p.Status,
	}
	if out.PlayerID == "" {
		out.PlayerID = id
	}
	return out
}

type statJSON struct {
	PtsPPR *float64 `json:"pts_ppr"`
	GP     *float64 `json:"gp"`
}

// statsToDomain flattens a player-id keyed stats page, ordered by player id.
func statsToDomain(page map[string]statJSON, season string, week int) []domain.PlayerWeekStats {
	ids := make([]string, 0, len(page))
	for id := range page {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]domain.PlayerWeekStats, 0, len(ids))
	for _, id := range ids {
		s := page[id]
		line := domain.PlayerWeekStats{PlayerID: id, Season: season, Week: week}
		if s.PtsPPR != nil {
			line.PtsPPR = *s.PtsPPR
		}
		if s.GP != nil {
			line.GamesPlayed = int(*s.GP)
		}
		out = append(out, line)
	}
	return out
}

func metaString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
