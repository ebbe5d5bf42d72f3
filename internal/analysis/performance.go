package analysis

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/stints"
)

// Activity buckets a stat week by games played.
type Activity string

const (
	ActivityActive   Activity = "active"
	ActivityInactive Activity = "inactive"
)

// PeriodSummary is a player's output over a set of weeks, overall and per
// season, split by activity.
type PeriodSummary struct {
	Overall  map[Activity]domain.StatLine
	BySeason map[Activity]map[string]domain.StatLine
}

// PerformanceSplit is a player's output before and after a transaction.
type PerformanceSplit struct {
	PlayerID      string
	TransactionID string
	At            time.Time // zero when the transaction carried no time
	Before        PeriodSummary
	After         PeriodSummary
}

// PerformanceWindow is a player's output between two transactions.
type PerformanceWindow struct {
	PlayerID string
	FromTxID string
	ToTxID   string
	Start    time.Time
	End      time.Time
	Between  PeriodSummary
}

// SplitAt buckets a player's weeks into before and after at. A week belongs
// to before when its start date is strictly earlier than at.
func SplitAt(stats []domain.PlayerWeekStats, playerID string, at time.Time) (before, after PeriodSummary) {
	var pre, post []domain.PlayerWeekStats
	for _, s := range playerWeeks(stats, playerID) {
		if weekStart(s).Before(at) {
			pre = append(pre, s)
		} else {
			post = append(post, s)
		}
	}
	return Summarize(pre), Summarize(post)
}

// Between keeps the weeks whose start date lies in [min(a, b), max(a, b)].
func Between(stats []domain.PlayerWeekStats, playerID string, a, b time.Time) (PeriodSummary, time.Time, time.Time) {
	if a.After(b) {
		a, b = b, a
	}
	var in []domain.PlayerWeekStats
	for _, s := range playerWeeks(stats, playerID) {
		at := weekStart(s)
		if !at.Before(a) && !at.After(b) {
			in = append(in, s)
		}
	}
	return Summarize(in), a, b
}

// TransactionTime is the time a transaction splits performance at.
func TransactionTime(tx *domain.TransactionRecord) time.Time {
	return stints.EffectiveTime(tx)
}

// Summarize buckets weeks by activity and season.
func Summarize(weeks []domain.PlayerWeekStats) PeriodSummary {
	points := make(map[Activity]map[string][]decimal.Decimal)
	for _, s := range weeks {
		act := ActivityInactive
		if s.Active() {
			act = ActivityActive
		}
		if points[act] == nil {
			points[act] = make(map[string][]decimal.Decimal)
		}
		points[act][s.Season] = append(points[act][s.Season], decimal.NewFromFloat(s.PtsPPR))
	}

	out := PeriodSummary{
		Overall:  make(map[Activity]domain.StatLine),
		BySeason: make(map[Activity]map[string]domain.StatLine),
	}
	for act, seasons := range points {
		out.BySeason[act] = make(map[string]domain.StatLine, len(seasons))
		var all []decimal.Decimal
		for season, pts := range seasons {
			out.BySeason[act][season] = stints.Summarize(pts)
			all = append(all, pts...)
		}
		out.Overall[act] = stints.Summarize(all)
	}
	return out
}

func playerWeeks(stats []domain.PlayerWeekStats, playerID string) []domain.PlayerWeekStats {
	var out []domain.PlayerWeekStats
	for _, s := range stats {
		if s.PlayerID == playerID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Week < out[j].Week
	})
	return out
}

func weekStart(s domain.PlayerWeekStats) time.Time {
	year, err := strconv.Atoi(s.Season)
	if err != nil {
		return time.Time{}
	}
	return domain.WeekStartDate(year, s.Week)
}

// SeasonSummary is a player's season totals. Games counts weeks with gp > 0
// and the average is over those games.
type SeasonSummary struct {
	PlayerID    string
	Season      string
	TotalPoints float64
	GamesPlayed int
	AvgPPG      float64
}

// PlayerSeasonSummary totals a player's season with exact decimal sums.
func PlayerSeasonSummary(stats []domain.PlayerWeekStats, playerID, season string) SeasonSummary {
	total := decimal.Zero
	games := 0
	for _, s := range stats {
		if s.PlayerID != playerID || s.Season != season {
			continue
		}
		total = total.Add(decimal.NewFromFloat(s.PtsPPR))
		if s.Active() {
			games++
		}
	}

	out := SeasonSummary{
		PlayerID:    playerID,
		Season:      season,
		TotalPoints: total.Round(2).InexactFloat64(),
		GamesPlayed: games,
	}
	if games > 0 {
		out.AvgPPG = total.Div(decimal.NewFromInt(int64(games))).Round(2).InexactFloat64()
	}
	return out
}
