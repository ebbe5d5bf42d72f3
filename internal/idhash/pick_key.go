package idhash

import (
	"fmt"
	"strconv"
	"strings"

	"sleeper-trade-lab/internal/domain"
)

const pickKeyPrefix = "pick"

// PickKey returns the graph node id for a pick identity.
// Format: pick_<season>_r<round>_o<original_roster_id>
//
// The format never matches the upstream <year>_<round>_<pick> shape, so a
// node id cannot be mistaken for a raw pick-number reference.
func PickKey(id domain.PickIdentity) string {
	return fmt.Sprintf("%s_%s_r%d_o%d", pickKeyPrefix, id.Season, id.Round, id.OriginalRosterID)
}

// ParsePickKey is the inverse of PickKey.
func ParsePickKey(key string) (domain.PickIdentity, bool) {
	parts := strings.Split(key, "_")
	if len(parts) != 4 || parts[0] != pickKeyPrefix {
		return domain.PickIdentity{}, false
	}
	if !strings.HasPrefix(parts[2], "r") || !strings.HasPrefix(parts[3], "o") {
		return domain.PickIdentity{}, false
	}
	round, err := strconv.Atoi(parts[2][1:])
	if err != nil {
		return domain.PickIdentity{}, false
	}
	orig, err := strconv.Atoi(parts[3][1:])
	if err != nil {
		return domain.PickIdentity{}, false
	}
	return domain.PickIdentity{Season: parts[1], Round: round, OriginalRosterID: orig}, true
}
