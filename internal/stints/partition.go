package stints

import "sleeper-trade-lab/internal/domain"

// Partition splits a player's lifecycle into contiguous stints. A boundary
// falls wherever an event's receiving roster differs from the tracked roster.
// A release (no receiving roster) from the tracked roster closes its stint;
// a release from any other roster is ignored. The last stint stays open.
func Partition(events []domain.LifecycleEvent, names map[int]Label) []domain.Stint {
	var (
		out []domain.Stint
		cur int
	)
	for _, ev := range events {
		to := ev.ToRosterID
		if to == cur {
			continue
		}
		if to == 0 && ev.FromRosterID != cur {
			continue
		}

		if cur != 0 {
			end := ev.Time
			out[len(out)-1].End = &end
		}
		if to != 0 {
			s := domain.Stint{RosterID: to, Start: ev.Time}
			if l, ok := names[to]; ok {
				s.TeamName = l.Name
				s.OwnerID = l.OwnerID
				s.OwnerName = l.Name
			} else {
				s.TeamName = domain.PlaceholderRosterName(to)
			}
			out = append(out, s)
		}
		cur = to
	}
	return out
}

// Label is the display data attached to a stint's roster.
type Label struct {
	Name    string
	OwnerID string
}
