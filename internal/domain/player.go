package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Player is an entry of the player directory.
type Player struct {
	PlayerID  string
	FullName  string
	FirstName string
	LastName  string
	Position  string
	Team      string
	Age       int
	Status    string
}

// Name returns the player's display name.
func (p *Player) Name() string {
	if p.FullName != "" {
		return p.FullName
	}
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name != "" {
		return name
	}
	return fmt.Sprintf("Player %s", p.PlayerID)
}

// PlayerWeekStats is one player's stat line for one week.
type PlayerWeekStats struct {
	PlayerID    string
	Season      string
	Week        int
	PtsPPR      float64
	GamesPlayed int // gp, 0 when the player did not play
}

// Active reports whether the player appeared in a game that week.
func (s *PlayerWeekStats) Active() bool {
	return s.GamesPlayed > 0
}

// SeasonWeeks is the fixed league-length bound used for weekly fan-outs.
const SeasonWeeks = 18

// WeekStartDate approximates the start of an NFL week as Sept 1 of the
// season plus (week-1) weeks.
func WeekStartDate(season, week int) time.Time {
	return time.Date(season, time.September, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*(week-1))
}

// SeasonAnchor is the nominal acquisition date for a season's draft (June 1).
func SeasonAnchor(season string) time.Time {
	year, err := strconv.Atoi(season)
	if err != nil {
		return time.Time{}
	}
	return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
}
