package stints

import (
	"strconv"

	"github.com/shopspring/decimal"

	"sleeper-trade-lab/internal/domain"
)

// MatchupIndex is season -> week -> roster id -> matchup.
type MatchupIndex map[string]map[int]map[int]domain.Matchup

// IndexMatchups keys matchups by the season of their league in the chain.
func IndexMatchups(chain domain.LeagueChain, matchups []domain.Matchup) MatchupIndex {
	idx := make(MatchupIndex)
	for _, m := range matchups {
		season := chain.SeasonOf(m.LeagueID)
		if season == "" {
			continue
		}
		if idx[season] == nil {
			idx[season] = make(map[int]map[int]domain.Matchup)
		}
		if idx[season][m.Week] == nil {
			idx[season][m.Week] = make(map[int]domain.Matchup)
		}
		idx[season][m.Week][m.RosterID] = m
	}
	return idx
}

// Lineup reports whether the player started for the roster that week and
// whether the roster's matchup listed them at all. Weeks without a matchup
// report neither.
func (idx MatchupIndex) Lineup(season string, week, rosterID int, playerID string) (started, rostered bool) {
	m, ok := idx[season][week][rosterID]
	if !ok {
		return false, false
	}
	started = m.IsStarter(playerID)
	return started, started || m.IsRostered(playerID)
}

// Overlay attaches performance to each stint. A stat week belongs to the
// stint containing its week start date. A week is rostered, and split into
// starting or bench, only when the roster's matchup lists the player.
func Overlay(stints []domain.Stint, stats []domain.PlayerWeekStats, matchups MatchupIndex, playerID string) {
	type acc struct {
		starting, bench, total []decimal.Decimal
		rostered               int
	}
	accs := make([]acc, len(stints))

	for _, line := range stats {
		if line.PlayerID != playerID {
			continue
		}
		year, err := strconv.Atoi(line.Season)
		if err != nil {
			continue
		}
		at := domain.WeekStartDate(year, line.Week)

		for i := range stints {
			if !stints[i].Contains(at) {
				continue
			}
			a := &accs[i]
			started, rostered := matchups.Lineup(line.Season, line.Week, stints[i].RosterID, playerID)
			if rostered {
				a.rostered++
			}
			if !line.Active() {
				break
			}
			pts := decimal.NewFromFloat(line.PtsPPR)
			a.total = append(a.total, pts)
			switch {
			case started:
				a.starting = append(a.starting, pts)
			case rostered:
				a.bench = append(a.bench, pts)
			}
			break
		}
	}

	for i := range stints {
		a := accs[i]
		total := Summarize(a.total)
		starting := Summarize(a.starting)
		stints[i].Performance = &domain.StintPerformance{
			Starting:      starting,
			Bench:         Summarize(a.bench),
			TotalPoints:   total.TotalPoints,
			GamesRostered: a.rostered,
			GamesActive:   total.Games,
			GamesStarted:  starting.Games,
			AvgPPG:        total.AvgPPG,
		}
	}
}

// Summarize totals points exactly and rounds to two decimals.
func Summarize(points []decimal.Decimal) domain.StatLine {
	if len(points) == 0 {
		return domain.StatLine{}
	}
	total := decimal.Sum(points[0], points[1:]...)
	avg := total.Div(decimal.NewFromInt(int64(len(points))))
	return domain.StatLine{
		TotalPoints: total.Round(2).InexactFloat64(),
		Games:       len(points),
		AvgPPG:      avg.Round(2).InexactFloat64(),
	}
}

// SummarizeFloats is Summarize over float points.
func SummarizeFloats(points []float64) domain.StatLine {
	ds := make([]decimal.Decimal, 0, len(points))
	for _, p := range points {
		ds = append(ds, decimal.NewFromFloat(p))
	}
	return Summarize(ds)
}
