package analysis

import (
	"context"
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/fanout"
)

// AcquisitionUnknown is reported for a rostered player with no lifecycle events.
const AcquisitionUnknown = "unknown"

// PlayerAcquisition is how a rostered player arrived on the roster.
type PlayerAcquisition struct {
	PlayerID  string
	FirstName string
	LastName  string
	Position  string
	Method    string     // lifecycle event type or AcquisitionUnknown
	Date      *time.Time // nil when neither a timestamp nor a draft season is known
	Event     *domain.LifecycleEvent
	Error     string // set when the player's lookup failed
}

// LifecycleFunc returns a player's lifecycle events, oldest first.
type LifecycleFunc func(ctx context.Context, playerID string) ([]domain.LifecycleEvent, error)

// RosterAnalysis resolves the latest lifecycle event of every player on a
// roster with at most limit lookups in flight. A failed lookup is reported
// on its player and does not abort the analysis.
func RosterAnalysis(ctx context.Context, roster domain.Roster, players map[string]domain.Player, lifecycle LifecycleFunc, limit int) ([]PlayerAcquisition, error) {
	if limit <= 0 {
		limit = fanout.DefaultLimit
	}

	results, err := fanout.Gather(ctx, len(roster.Players), limit, func(ctx context.Context, i int) (PlayerAcquisition, error) {
		id := roster.Players[i]
		events, err := lifecycle(ctx, id)
		if err != nil {
			return PlayerAcquisition{}, err
		}
		return acquisition(id, players, events), nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]PlayerAcquisition, len(results))
	for i, r := range results {
		if r.Err != nil {
			out[i] = PlayerAcquisition{PlayerID: roster.Players[i], Error: r.Err.Error()}
			continue
		}
		out[i] = r.Value
	}
	return out, nil
}

func acquisition(playerID string, players map[string]domain.Player, events []domain.LifecycleEvent) PlayerAcquisition {
	a := PlayerAcquisition{PlayerID: playerID, Method: AcquisitionUnknown}
	if p, ok := players[playerID]; ok {
		a.FirstName = p.FirstName
		a.LastName = p.LastName
		a.Position = p.Position
	}
	if len(events) == 0 {
		return a
	}

	last := events[len(events)-1]
	a.Method = string(last.Type)
	a.Event = &last
	if !last.Time.IsZero() {
		at := last.Time
		a.Date = &at
	}
	return a
}
