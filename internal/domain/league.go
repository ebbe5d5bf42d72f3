package domain

// LeagueStatus values reported by the upstream API.
const (
	LeagueStatusPreDraft = "pre_draft"
	LeagueStatusDrafting = "drafting"
	LeagueStatusInSeason = "in_season"
	LeagueStatusComplete = "complete"
)

// LeagueInstance is one season's incarnation of a persistent league.
type LeagueInstance struct {
	LeagueID         string // upstream league identifier
	Name             string // league display name
	Season           string // season year, e.g. "2024"
	Status           string // pre_draft | drafting | in_season | complete
	TotalRosters     int    // number of rosters in this season
	PreviousLeagueID string // previous season's league id, empty terminates the chain
	DraftID          string // primary draft for this season, may be empty
}

// HasPrevious reports whether the instance links to an earlier season.
func (l *LeagueInstance) HasPrevious() bool {
	return l.PreviousLeagueID != "" && l.PreviousLeagueID != "0"
}

// LeagueChain is the sequence of league instances for one continuous league,
// newest first as walked from the starting league.
type LeagueChain []LeagueInstance

// Chronological returns a copy ordered oldest first.
func (c LeagueChain) Chronological() LeagueChain {
	out := make(LeagueChain, len(c))
	for i := range c {
		out[len(c)-1-i] = c[i]
	}
	return out
}

// LeagueIDs returns league ids in chain order.
func (c LeagueChain) LeagueIDs() []string {
	ids := make([]string, 0, len(c))
	for _, l := range c {
		ids = append(ids, l.LeagueID)
	}
	return ids
}

// Seasons returns the distinct seasons in chain order.
func (c LeagueChain) Seasons() []string {
	seen := make(map[string]bool, len(c))
	out := make([]string, 0, len(c))
	for _, l := range c {
		if l.Season == "" || seen[l.Season] {
			continue
		}
		seen[l.Season] = true
		out = append(out, l.Season)
	}
	return out
}

// ForSeason returns the instance for a season.
func (c LeagueChain) ForSeason(season string) (LeagueInstance, bool) {
	for _, l := range c {
		if l.Season == season {
			return l, true
		}
	}
	return LeagueInstance{}, false
}

// SeasonOf returns the season of a league id in the chain, or "".
func (c LeagueChain) SeasonOf(leagueID string) string {
	for _, l := range c {
		if l.LeagueID == leagueID {
			return l.Season
		}
	}
	return ""
}

// Newest returns the starting (most recent) instance.
func (c LeagueChain) Newest() (LeagueInstance, bool) {
	if len(c) == 0 {
		return LeagueInstance{}, false
	}
	return c[0], true
}
