package domain

import "time"

// LifecycleEventType classifies a player lifecycle event.
type LifecycleEventType string

// Lifecycle event types.
const (
	LifecycleDraft        LifecycleEventType = "draft"
	LifecycleTrade        LifecycleEventType = "trade"
	LifecycleWaiver       LifecycleEventType = "waiver"
	LifecycleFreeAgent    LifecycleEventType = "free_agent"
	LifecycleCommissioner LifecycleEventType = "commissioner"
)

// MovesPlayer reports whether the event type can change a player's roster.
func (t LifecycleEventType) MovesPlayer() bool {
	switch t {
	case LifecycleDraft, LifecycleTrade, LifecycleWaiver, LifecycleFreeAgent, LifecycleCommissioner:
		return true
	}
	return false
}

// LifecycleEvent is one acquisition or departure of a player.
type LifecycleEvent struct {
	Type          LifecycleEventType
	Time          time.Time // effective time; drafts use the draft start
	Timestamp     int64     // upstream Unix ms, 0 for draft events
	LeagueID      string
	Season        string
	TransactionID string // empty for drafts
	DraftID       string // empty for transactions
	ToRosterID    int    // receiving roster, 0 when the player was released
	FromRosterID  int    // relinquishing roster, 0 when none
	Round         int    // draft round, drafts only
	PickNo        int    // overall pick, drafts only
	RosterIDs     []int
}

// Stint is a contiguous interval during which one roster held a player.
type Stint struct {
	RosterID    int
	TeamName    string
	OwnerID     string // owner user id, empty when unresolved
	OwnerName   string // resolved roster name
	Start       time.Time
	End         *time.Time // nil while open-ended
	Performance *StintPerformance
}

// IsOpen reports whether the stint has no end.
func (s *Stint) IsOpen() bool {
	return s.End == nil
}

// Contains reports whether t falls in [Start, End).
func (s *Stint) Contains(t time.Time) bool {
	if t.Before(s.Start) {
		return false
	}
	return s.End == nil || t.Before(*s.End)
}

// StatLine is an aggregated points line.
type StatLine struct {
	TotalPoints float64
	Games       int
	AvgPPG      float64
}

// StintPerformance overlays weekly stats on a stint.
type StintPerformance struct {
	Starting      StatLine
	Bench         StatLine
	TotalPoints   float64
	GamesRostered int
	GamesActive   int
	GamesStarted  int
	AvgPPG        float64 // total points over active games
}
