// Package history resolves a league's multi-season chain by following
// previous-season links.
package history

import (
	"context"
	"errors"
	"fmt"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/sleeper"
)

// DefaultMaxHops bounds a chain walk. Real leagues span a handful of seasons.
const DefaultMaxHops = 50

// ErrLeagueNotFound is returned when the starting league does not exist.
var ErrLeagueNotFound = errors.New("league not found")

// Resolver walks previous_league_id links.
type Resolver struct {
	gateway sleeper.Gateway
	maxHops int
}

// NewResolver creates a Resolver. maxHops <= 0 uses DefaultMaxHops.
func NewResolver(gateway sleeper.Gateway, maxHops int) *Resolver {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	return &Resolver{gateway: gateway, maxHops: maxHops}
}

// Chain returns the league chain newest first, starting at leagueID.
//
// A not-found link terminates the walk normally. Any other upstream error
// stops the walk and is returned together with the chain accumulated so far;
// callers may use the partial chain. A link back to an already visited league
// terminates the walk. If the starting league itself cannot be fetched the
// result is ErrLeagueNotFound (not-found) or the upstream error.
func (r *Resolver) Chain(ctx context.Context, leagueID string) (domain.LeagueChain, error) {
	var chain domain.LeagueChain
	visited := make(map[string]bool)

	current := leagueID
	for current != "" && current != "0" && len(chain) < r.maxHops {
		if visited[current] {
			break
		}
		visited[current] = true

		league, err := r.gateway.GetLeague(ctx, current)
		if err != nil {
			if len(chain) == 0 {
				if errors.Is(err, sleeper.ErrNotFound) {
					return nil, fmt.Errorf("%w: %s", ErrLeagueNotFound, leagueID)
				}
				return nil, fmt.Errorf("fetch league %s: %w", leagueID, err)
			}
			if errors.Is(err, sleeper.ErrNotFound) {
				break
			}
			return chain, fmt.Errorf("fetch previous league %s: %w", current, err)
		}
		if league.LeagueID == "" {
			league.LeagueID = current
		}

		chain = append(chain, *league)
		current = league.PreviousLeagueID
	}

	return chain, nil
}
