package identity

import "sleeper-trade-lab/internal/domain"

// DraftSlots maps structured pick references and draft slots to rosters,
// per season.
type DraftSlots struct {
	drafts map[string]domain.Draft
}

// NewDraftSlots indexes drafts by season. When a season has several drafts
// the first one with a slot map wins.
func NewDraftSlots(drafts []domain.Draft) *DraftSlots {
	m := make(map[string]domain.Draft, len(drafts))
	for _, d := range drafts {
		if existing, ok := m[d.Season]; ok && len(existing.SlotToRosterID) > 0 {
			continue
		}
		m[d.Season] = d
	}
	return &DraftSlots{drafts: m}
}

// Draft returns the season's draft.
func (s *DraftSlots) Draft(season string) (domain.Draft, bool) {
	d, ok := s.drafts[season]
	return d, ok
}

// Resolve derives the identity of a structured pick reference. The pick
// number is a position within the round; the slot it denotes is looked up
// in the season's slot map to find the original roster.
func (s *DraftSlots) Resolve(c Classification) (domain.PickIdentity, bool) {
	if c.Shape != ShapeStructured {
		return domain.PickIdentity{}, false
	}
	d, ok := s.drafts[c.Season]
	if !ok {
		return domain.PickIdentity{}, false
	}
	slot := d.SlotForPickInRound(c.Round, c.PickInRound)
	roster, ok := d.RosterForSlot(slot)
	if !ok {
		return domain.PickIdentity{}, false
	}
	return domain.PickIdentity{Season: c.Season, Round: c.Round, OriginalRosterID: roster}, true
}

// SlotOf returns the draft slot the original roster of a pick occupied.
func (s *DraftSlots) SlotOf(id domain.PickIdentity) (int, bool) {
	d, ok := s.drafts[id.Season]
	if !ok {
		return 0, false
	}
	return d.SlotForRoster(id.OriginalRosterID)
}
