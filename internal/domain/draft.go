package domain

import "time"

// Draft types.
const (
	DraftTypeSnake   = "snake"
	DraftTypeLinear  = "linear"
	DraftTypeAuction = "auction"
)

// Draft is a league draft with its slot configuration.
type Draft struct {
	DraftID   string
	LeagueID  string
	Season    string
	Type      string // snake | linear | auction
	Status    string
	Rounds    int
	Teams     int
	StartTime int64 // Unix ms, 0 if unknown

	DraftOrder     map[string]int // user id -> draft slot
	SlotToRosterID map[int]int    // draft slot -> roster id
}

// RosterForSlot returns the roster occupying a draft slot.
func (d *Draft) RosterForSlot(slot int) (int, bool) {
	r, ok := d.SlotToRosterID[slot]
	return r, ok && r != 0
}

// SlotForRoster returns the draft slot a roster occupied.
func (d *Draft) SlotForRoster(rosterID int) (int, bool) {
	for slot, r := range d.SlotToRosterID {
		if r == rosterID {
			return slot, true
		}
	}
	return 0, false
}

// SlotForPickInRound maps a pick number within a round to a draft slot.
// Snake drafts reverse on even rounds.
func (d *Draft) SlotForPickInRound(round, pickInRound int) int {
	if d.Type == DraftTypeSnake && round%2 == 0 && d.Teams > 0 {
		return d.Teams - pickInRound + 1
	}
	return pickInRound
}

// EffectiveStart returns the draft start time, or June 1 of the season when unknown.
func (d *Draft) EffectiveStart() time.Time {
	if d.StartTime > 0 {
		return time.UnixMilli(d.StartTime).UTC()
	}
	return SeasonAnchor(d.Season)
}

// DraftPick is one selection made in a draft.
type DraftPick struct {
	DraftID   string
	Season    string // stamped from the draft
	PickNo    int    // overall pick number
	Round     int
	DraftSlot int    // physical slot, stable across trades
	PlayerID  string // selected player, empty if not yet made
	RosterID  int    // roster that made the selection
	PickedBy  string // user id
	IsKeeper  bool

	FirstName string
	LastName  string
	Position  string
	Team      string
}

// PlayerName returns the selection's display name from pick metadata.
func (p *DraftPick) PlayerName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.LastName != "":
		return p.LastName
	}
	return p.FirstName
}

// PickInRound returns the pick's position within its round.
func (p *DraftPick) PickInRound(teams int) int {
	if teams <= 0 {
		return p.PickNo
	}
	return p.PickNo - (p.Round-1)*teams
}
