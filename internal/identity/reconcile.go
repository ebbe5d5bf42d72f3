package identity

import "sleeper-trade-lab/internal/domain"

// ReconcileNegative resolves a negative pick reference against the
// transaction's explicit pick movements. The reference is matched by the
// roster it moved to (and from, when the transaction drops it). Exactly one
// candidate movement is required; anything else stays unresolved.
func ReconcileNegative(ref string, tx *domain.TransactionRecord) (domain.PickIdentity, bool) {
	if len(tx.DraftPicks) == 0 {
		return domain.PickIdentity{}, false
	}

	to, hasTo := tx.Adds[ref]
	from, hasFrom := tx.Drops[ref]
	if !hasTo && !hasFrom {
		return domain.PickIdentity{}, false
	}

	var (
		match domain.PickIdentity
		count int
	)
	for _, mv := range tx.DraftPicks {
		if hasTo && mv.OwnerID != to {
			continue
		}
		if hasFrom && mv.PreviousOwnerID != from {
			continue
		}
		match = domain.PickIdentity{Season: mv.Season, Round: mv.Round, OriginalRosterID: mv.RosterID}
		count++
	}

	if count != 1 {
		return domain.PickIdentity{}, false
	}
	return match, true
}
