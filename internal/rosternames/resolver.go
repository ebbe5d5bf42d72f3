// Package rosternames maps roster ids to display names across a league chain.
package rosternames

import (
	"context"
	"log"
	"sort"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/fanout"
	"sleeper-trade-lab/internal/sleeper"
)

// Source records which rule produced a name.
type Source string

// Name sources in priority order.
const (
	SourceLeagueUser  Source = "league_user"
	SourceFetchedUser Source = "fetched_user"
	SourceTeamName    Source = "team_name"
	SourcePlaceholder Source = "placeholder"
)

// Name is a resolved roster label.
type Name struct {
	RosterID int
	Name     string
	Source   Source
	Season   string // season whose data produced the name, empty for placeholders
	OwnerID  string
}

// Resolver resolves roster names.
type Resolver struct {
	gateway sleeper.Gateway
	limit   int
	logger  *log.Logger
}

// Options contains configuration for creating a Resolver.
type Options struct {
	Gateway sleeper.Gateway
	Limit   int // concurrent user lookups, defaults to fanout.DefaultLimit
	Logger  *log.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(opts Options) *Resolver {
	limit := opts.Limit
	if limit <= 0 {
		limit = fanout.DefaultLimit
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Resolver{gateway: opts.Gateway, limit: limit, logger: logger}
}

type season struct {
	league  domain.LeagueInstance
	rosters []domain.Roster
	users   map[string]domain.User
}

// Names returns roster id to display name. See Resolve.
func (r *Resolver) Names(ctx context.Context, chain domain.LeagueChain) (map[int]string, error) {
	resolved, err := r.Resolve(ctx, chain)
	if err != nil {
		return nil, err
	}
	out := make(map[int]string, len(resolved))
	for _, n := range resolved {
		out[n.RosterID] = n.Name
	}
	return out, nil
}

// Resolve evaluates each roster id once, walking seasons oldest first. In
// each season it tries, in order: the owner's name from that season's league
// users, a freshly fetched user record, the roster's team name. The first
// season that yields a name wins; otherwise the roster gets a placeholder.
// Seasons whose rosters cannot be fetched are skipped.
func (r *Resolver) Resolve(ctx context.Context, chain domain.LeagueChain) ([]Name, error) {
	seasons := r.loadSeasons(ctx, chain.Chronological())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fetched := r.fetchMissingOwners(ctx, seasons)

	names := make(map[int]Name)
	var ids []int
	for _, s := range seasons {
		for _, ro := range s.rosters {
			if _, seen := names[ro.RosterID]; !seen {
				ids = append(ids, ro.RosterID)
				names[ro.RosterID] = Name{RosterID: ro.RosterID, Source: SourcePlaceholder}
			}
			if names[ro.RosterID].Source != SourcePlaceholder {
				continue
			}
			if n, ok := nameFor(ro, s, fetched); ok {
				names[ro.RosterID] = n
			}
		}
	}

	sort.Ints(ids)
	out := make([]Name, 0, len(ids))
	for _, id := range ids {
		n := names[id]
		if n.Source == SourcePlaceholder {
			n.Name = domain.PlaceholderRosterName(id)
		}
		out = append(out, n)
	}
	return out, nil
}

func nameFor(ro domain.Roster, s season, fetched map[string]domain.User) (Name, bool) {
	n := Name{RosterID: ro.RosterID, Season: s.league.Season, OwnerID: ro.OwnerID}
	if ro.OwnerID != "" {
		if u, ok := s.users[ro.OwnerID]; ok && u.Label() != "" {
			n.Name, n.Source = u.Label(), SourceLeagueUser
			return n, true
		}
		if u, ok := fetched[ro.OwnerID]; ok && u.Label() != "" {
			n.Name, n.Source = u.Label(), SourceFetchedUser
			return n, true
		}
	}
	if ro.TeamName != "" {
		n.Name, n.Source = ro.TeamName, SourceTeamName
		return n, true
	}
	return Name{}, false
}

func (r *Resolver) loadSeasons(ctx context.Context, chain domain.LeagueChain) []season {
	var out []season
	for _, league := range chain {
		rosters, err := r.gateway.GetRosters(ctx, league.LeagueID)
		if err != nil {
			r.logger.Printf("Skipping rosters of league %s: %v", league.LeagueID, err)
			continue
		}

		users := make(map[string]domain.User)
		list, err := r.gateway.GetLeagueUsers(ctx, league.LeagueID)
		if err != nil {
			r.logger.Printf("League users of %s unavailable: %v", league.LeagueID, err)
		}
		for _, u := range list {
			users[u.UserID] = u
		}

		out = append(out, season{league: league, rosters: rosters, users: users})
	}
	return out
}

// fetchMissingOwners looks up owners absent from every season's league users.
func (r *Resolver) fetchMissingOwners(ctx context.Context, seasons []season) map[string]domain.User {
	seen := make(map[string]bool)
	var missing []string
	for _, s := range seasons {
		for _, ro := range s.rosters {
			if ro.OwnerID == "" || seen[ro.OwnerID] {
				continue
			}
			seen[ro.OwnerID] = true
			if !knownOwner(seasons, ro.OwnerID) {
				missing = append(missing, ro.OwnerID)
			}
		}
	}

	out := make(map[string]domain.User, len(missing))
	if len(missing) == 0 {
		return out
	}

	results, err := fanout.Gather(ctx, len(missing), r.limit, func(ctx context.Context, i int) (*domain.User, error) {
		return r.gateway.GetUser(ctx, missing[i])
	})
	if err != nil {
		return out
	}
	for _, res := range results {
		if res.Err != nil || res.Value == nil {
			if res.Err != nil {
				r.logger.Printf("Skipping user %s: %v", missing[res.Index], res.Err)
			}
			continue
		}
		out[missing[res.Index]] = *res.Value
	}
	return out
}

func knownOwner(seasons []season, ownerID string) bool {
	for _, s := range seasons {
		if u, ok := s.users[ownerID]; ok && u.Label() != "" {
			return true
		}
	}
	return false
}
