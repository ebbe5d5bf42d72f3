package domain

import "time"

// TransactionType classifies a roster move.
type TransactionType string

// Transaction types reported by the upstream API.
const (
	TransactionTypeTrade        TransactionType = "trade"
	TransactionTypeWaiver       TransactionType = "waiver"
	TransactionTypeFreeAgent    TransactionType = "free_agent"
	TransactionTypeCommissioner TransactionType = "commissioner"
)

// IsValid checks if the transaction type is known.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeTrade, TransactionTypeWaiver, TransactionTypeFreeAgent, TransactionTypeCommissioner:
		return true
	}
	return false
}

// String returns string representation.
func (t TransactionType) String() string {
	return string(t)
}

// TransactionStatusComplete marks a processed transaction.
const TransactionStatusComplete = "complete"

// TransactionRecord is one roster-move event.
type TransactionRecord struct {
	TransactionID string          // unique within a league instance
	LeagueID      string          // league instance the record was fetched from
	Season        string          // season of LeagueID, stamped by the normalizer
	Week          int             // league week ("leg")
	Type          TransactionType // trade | waiver | free_agent | commissioner
	Status        string          // e.g. complete, failed
	StatusUpdated int64           // Unix ms, 0 when the record carried none
	Creator       string          // user id that created the move

	Adds       map[string]int      // asset id -> receiving roster id
	Drops      map[string]int      // asset id -> relinquishing roster id
	RosterIDs  []int               // rosters involved
	DraftPicks []DraftPickMovement // explicit pick movements, authoritative when present
}

// HasTimestamp reports whether StatusUpdated is usable for ordering.
func (t *TransactionRecord) HasTimestamp() bool {
	return t.StatusUpdated > 0
}

// Time returns StatusUpdated as time, zero when absent.
func (t *TransactionRecord) Time() time.Time {
	if !t.HasTimestamp() {
		return time.Time{}
	}
	return time.UnixMilli(t.StatusUpdated).UTC()
}

// IsTrade reports whether the record is a trade.
func (t *TransactionRecord) IsTrade() bool {
	return t.Type == TransactionTypeTrade
}

// Involves reports whether the asset appears in adds or drops.
func (t *TransactionRecord) Involves(assetID string) bool {
	if _, ok := t.Adds[assetID]; ok {
		return true
	}
	_, ok := t.Drops[assetID]
	return ok
}

// DraftPickMovement is an explicit pick movement carried on a transaction.
type DraftPickMovement struct {
	Season          string // draft season
	Round           int    // draft round
	RosterID        int    // ORIGINAL owner of the draft slot
	OwnerID         int    // roster receiving the pick in this transaction
	PreviousOwnerID int    // roster trading the pick away in this transaction
}

// TradedPick is one row of a league's traded-picks ledger.
type TradedPick struct {
	Season                string // draft season
	Round                 int    // draft round
	OriginalRosterID      int    // roster that originally controlled the slot
	OwnerRosterID         int    // current owner
	PreviousOwnerRosterID int    // owner before the latest trade, 0 if unknown
}
