// Package identity classifies opaque upstream asset ids and derives stable
// draft-pick identities from them.
package identity

import (
	"strconv"
	"strings"

	"sleeper-trade-lab/internal/domain"
)

// Structured pick reference bounds.
const (
	MinPickYear  = 2020
	MaxPickYear  = 2030
	MaxPickRound = 10
	MaxPickInRnd = 20
)

// RefShape describes how an id was recognised.
type RefShape string

// Reference shapes.
const (
	ShapePlayer     RefShape = "player"
	ShapeNegative   RefShape = "negative_id"
	ShapeStructured RefShape = "structured"
	ShapeUnknown    RefShape = "unknown"
)

// Classification is the result of classifying an asset id.
type Classification struct {
	AssetID string
	Kind    domain.AssetKind
	Shape   RefShape

	// Structured picks only.
	Season      string
	Round       int
	PickInRound int
}

// IsPick reports whether the id denotes a draft pick of either shape.
func (c Classification) IsPick() bool {
	return c.Kind == domain.AssetKindDraftPick
}

// Unresolved reports whether the pick carries no season or round.
func (c Classification) Unresolved() bool {
	return c.Shape == ShapeNegative
}

// Classifier classifies asset ids against a player directory.
type Classifier struct {
	players map[string]domain.Player
}

// NewClassifier creates a Classifier. A nil directory classifies every
// non-pick id as unknown.
func NewClassifier(players map[string]domain.Player) *Classifier {
	return &Classifier{players: players}
}

// Player returns the directory entry for an id.
func (c *Classifier) Player(id string) (domain.Player, bool) {
	p, ok := c.players[id]
	return p, ok
}

// Classify applies, in order: negative integer, structured
// <year>_<round>_<pick>, exact player directory match. Anything else is unknown.
func (c *Classifier) Classify(assetID string) Classification {
	if n, err := strconv.Atoi(assetID); err == nil && n < 0 {
		return Classification{AssetID: assetID, Kind: domain.AssetKindDraftPick, Shape: ShapeNegative}
	}

	if season, round, pick, ok := ParseStructuredPick(assetID); ok {
		return Classification{
			AssetID:     assetID,
			Kind:        domain.AssetKindDraftPick,
			Shape:       ShapeStructured,
			Season:      season,
			Round:       round,
			PickInRound: pick,
		}
	}

	if _, ok := c.players[assetID]; ok {
		return Classification{AssetID: assetID, Kind: domain.AssetKindPlayer, Shape: ShapePlayer}
	}

	return Classification{AssetID: assetID, Kind: domain.AssetKindUnknown, Shape: ShapeUnknown}
}

// ParseStructuredPick parses "<year>_<round>_<pick>" within the accepted ranges.
func ParseStructuredPick(id string) (season string, round, pick int, ok bool) {
	parts := strings.Split(id, "_")
	if len(parts) != 3 {
		return "", 0, 0, false
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || year < MinPickYear || year > MaxPickYear {
		return "", 0, 0, false
	}
	round, err = strconv.Atoi(parts[1])
	if err != nil || round < 1 || round > MaxPickRound {
		return "", 0, 0, false
	}
	pick, err = strconv.Atoi(parts[2])
	if err != nil || pick < 1 || pick > MaxPickInRnd {
		return "", 0, 0, false
	}

	return strconv.Itoa(year), round, pick, true
}
