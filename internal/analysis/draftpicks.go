package analysis

import (
	"sort"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/genealogy"
	"sleeper-trade-lab/internal/idhash"
	"sleeper-trade-lab/internal/tradegraph"
)

// PickOwnership is the ownership history of one made draft pick.
type PickOwnership struct {
	DraftID       string
	Season        string
	PickNo        int
	Round         int
	DraftSlot     int
	PickInRound   int
	OriginalOwner int // roster occupying the draft slot
	FinalOwner    int // roster that made the selection
	Changes       []genealogy.OwnershipStep
	PlayerID      string
	PlayerName    string
}

// Traded reports whether the pick changed hands before the draft.
func (p *PickOwnership) Traded() bool {
	return len(p.Changes) > 0
}

// LeagueDraftPicks returns the picks of a season ordered by pick number.
func LeagueDraftPicks(g *tradegraph.Graph, season string) []domain.DraftPick {
	var out []domain.DraftPick
	for _, p := range g.Picks {
		if p.Season == season {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PickNo < out[j].PickNo
	})
	return out
}

// DraftPickOwnership returns the ownership history of every pick of a season.
// Changes come from the trade graph's node for the pick's identity.
func DraftPickOwnership(g *tradegraph.Graph, season string) []PickOwnership {
	draft, hasDraft := g.DraftSlots().Draft(season)

	picks := LeagueDraftPicks(g, season)
	out := make([]PickOwnership, 0, len(picks))
	for _, p := range picks {
		po := PickOwnership{
			DraftID:       p.DraftID,
			Season:        season,
			PickNo:        p.PickNo,
			Round:         p.Round,
			DraftSlot:     p.DraftSlot,
			PickInRound:   p.PickNo,
			OriginalOwner: p.RosterID,
			FinalOwner:    p.RosterID,
			PlayerID:      p.PlayerID,
			PlayerName:    playerName(g, &p),
		}
		if hasDraft {
			po.PickInRound = p.PickInRound(draft.Teams)
			if r, ok := draft.RosterForSlot(p.DraftSlot); ok {
				po.OriginalOwner = r
			}
		}

		key := idhash.PickKey(domain.PickIdentity{Season: season, Round: p.Round, OriginalRosterID: po.OriginalOwner})
		po.Changes = genealogy.Steps(g, key)
		out = append(out, po)
	}
	return out
}

// PickByNumber returns the ownership of one overall pick.
func PickByNumber(g *tradegraph.Graph, season string, pickNo int) (PickOwnership, bool) {
	for _, po := range DraftPickOwnership(g, season) {
		if po.PickNo == pickNo {
			return po, true
		}
	}
	return PickOwnership{}, false
}

func playerName(g *tradegraph.Graph, p *domain.DraftPick) string {
	if p.PlayerID == "" {
		return ""
	}
	if pl, ok := g.Players[p.PlayerID]; ok {
		return pl.Name()
	}
	return p.PlayerName()
}
