package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeEdgeID computes a deterministic edge_id using SHA256.
// Formula: SHA256(league_id|transaction_id|asset_id|from_roster|to_roster)
// Returns hex-encoded hash (64 characters).
func ComputeEdgeID(
	leagueID string,
	transactionID string,
	assetID string,
	fromRosterID int,
	toRosterID int,
) string {
	data := fmt.Sprintf("%s|%s|%s|%d|%d",
		leagueID,
		transactionID,
		assetID,
		fromRosterID,
		toRosterID,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
