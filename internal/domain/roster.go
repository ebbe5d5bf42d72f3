package domain

// User is an upstream account.
type User struct {
	UserID      string
	Username    string
	DisplayName string
	TeamName    string // league-scoped team name when fetched through league users
}

// Label returns the best human label for the user.
func (u *User) Label() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Roster is one team in a league instance.
type Roster struct {
	RosterID int
	LeagueID string
	OwnerID  string   // user id, may be empty for orphaned rosters
	Players  []string // player ids currently rostered
	Starters []string
	Reserve  []string
	TeamName string // metadata.team_name, may be empty
}

// HasPlayer reports whether the player is on the roster.
func (r *Roster) HasPlayer(playerID string) bool {
	for _, p := range r.Players {
		if p == playerID {
			return true
		}
	}
	return false
}

// Matchup is one roster's weekly lineup record.
type Matchup struct {
	LeagueID  string
	Week      int
	RosterID  int
	MatchupID int
	Points    float64
	Players   []string // full roster that week
	Starters  []string
}

// IsStarter reports whether the player started that week.
func (m *Matchup) IsStarter(playerID string) bool {
	return contains(m.Starters, playerID)
}

// IsRostered reports whether the player was on the weekly roster.
func (m *Matchup) IsRostered(playerID string) bool {
	return contains(m.Players, playerID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
