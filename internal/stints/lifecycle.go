// Package stints derives a player's ownership intervals and overlays weekly
// performance on them.
package stints

import (
	"sort"
	"strconv"
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/tradegraph"
)

// Lifecycle returns the player's draft and transaction events across the
// graph's chain, in effective-time order. Drafts use the draft start (or June
// 1 of the season); untimestamped transactions use their week start. On equal
// times drafts come first.
func Lifecycle(g *tradegraph.Graph, playerID string) []domain.LifecycleEvent {
	var events []domain.LifecycleEvent

	drafts := make(map[string]domain.Draft, len(g.Drafts))
	for _, d := range g.Drafts {
		drafts[d.DraftID] = d
	}
	for _, p := range g.Picks {
		if p.PlayerID != playerID {
			continue
		}
		d := drafts[p.DraftID]
		start := d.EffectiveStart()
		if start.IsZero() {
			start = domain.SeasonAnchor(p.Season)
		}
		events = append(events, domain.LifecycleEvent{
			Type:       domain.LifecycleDraft,
			Time:       start,
			LeagueID:   d.LeagueID,
			Season:     p.Season,
			DraftID:    p.DraftID,
			ToRosterID: p.RosterID,
			Round:      p.Round,
			PickNo:     p.PickNo,
			RosterIDs:  []int{p.RosterID},
		})
	}

	for i := range g.Records {
		tx := &g.Records[i]
		if !tx.Involves(playerID) {
			continue
		}
		if tx.Status != "" && tx.Status != domain.TransactionStatusComplete {
			continue
		}
		events = append(events, domain.LifecycleEvent{
			Type:          lifecycleType(tx.Type),
			Time:          EffectiveTime(tx),
			Timestamp:     tx.StatusUpdated,
			LeagueID:      tx.LeagueID,
			Season:        tx.Season,
			TransactionID: tx.TransactionID,
			ToRosterID:    tx.Adds[playerID],
			FromRosterID:  tx.Drops[playerID],
			RosterIDs:     tx.RosterIDs,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		return a.Type == domain.LifecycleDraft && b.Type != domain.LifecycleDraft
	})
	return events
}

// EffectiveTime is the transaction timestamp, or the start of its week when
// the record carried none.
func EffectiveTime(tx *domain.TransactionRecord) time.Time {
	if tx.HasTimestamp() {
		return tx.Time()
	}
	year, err := strconv.Atoi(tx.Season)
	if err != nil || tx.Week <= 0 {
		return time.Time{}
	}
	return domain.WeekStartDate(year, tx.Week)
}

func lifecycleType(t domain.TransactionType) domain.LifecycleEventType {
	switch t {
	case domain.TransactionTypeTrade:
		return domain.LifecycleTrade
	case domain.TransactionTypeWaiver:
		return domain.LifecycleWaiver
	case domain.TransactionTypeFreeAgent:
		return domain.LifecycleFreeAgent
	}
	return domain.LifecycleCommissioner
}

// Latest returns the most recent event, if any.
func Latest(events []domain.LifecycleEvent) (domain.LifecycleEvent, bool) {
	if len(events) == 0 {
		return domain.LifecycleEvent{}, false
	}
	return events[len(events)-1], true
}
