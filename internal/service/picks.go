package service

import (
	"context"
	"errors"
	"fmt"

	"sleeper-trade-lab/internal/analysis"
	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/genealogy"
	"sleeper-trade-lab/internal/sleeper"
)

// LeagueDraftPicks returns the picks made in the chain's draft for season.
func (s *Service) LeagueDraftPicks(ctx context.Context, leagueID, season string) ([]domain.DraftPick, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return analysis.LeagueDraftPicks(g, season), nil
}

// DraftPickOwnership returns the ownership history of every pick of a season.
func (s *Service) DraftPickOwnership(ctx context.Context, leagueID, season string) ([]analysis.PickOwnership, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return analysis.DraftPickOwnership(g, season), nil
}

// PickChain returns the ownership chain of one pick identity.
func (s *Service) PickChain(ctx context.Context, leagueID string, id domain.PickIdentity) (*genealogy.PickChain, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	pc, ok := genealogy.PickChainFor(g, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s round %d of roster %d in league chain %s",
			ErrPickNotFound, id.Season, id.Round, id.OriginalRosterID, chainLabel(g.Chain))
	}
	return pc, nil
}

// PickIdentities returns the chain of every traded pick.
func (s *Service) PickIdentities(ctx context.Context, leagueID string) ([]*genealogy.PickChain, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return genealogy.PickIdentities(g), nil
}

// TradedPicks returns the upstream traded-pick ledger of every instance.
func (s *Service) TradedPicks(ctx context.Context, leagueID string) ([]domain.TradedPick, error) {
	chain, err := s.Chain(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	var out []domain.TradedPick
	for _, l := range chain {
		picks, err := s.gateway.GetTradedPicks(ctx, l.LeagueID)
		if err != nil {
			return nil, fmt.Errorf("fetch traded picks of %s: %w", l.LeagueID, err)
		}
		out = append(out, picks...)
	}
	return out, nil
}

// PickOwner describes the roster that made a pick.
type PickOwner struct {
	RosterID    int
	TeamName    string
	Username    string
	DisplayName string
}

// PickJourney is one made pick with its ownership history and what the
// selected player went on to do.
type PickJourney struct {
	Ownership    analysis.PickOwnership
	CurrentOwner *PickOwner
	Stints       []domain.Stint
	Career       map[string]analysis.SeasonSummary // season -> totals
	TotalPicks   int
	Error        string // set when the player's performance could not be read
}

// DraftPickJourney follows one overall pick of a season.
func (s *Service) DraftPickJourney(ctx context.Context, leagueID, season string, pickNo int) (*PickJourney, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	po, ok := analysis.PickByNumber(g, season, pickNo)
	if !ok {
		return nil, fmt.Errorf("%w: pick #%d of %s in league chain %s", ErrPickNotFound, pickNo, season, chainLabel(g.Chain))
	}

	out := &PickJourney{
		Ownership:  po,
		TotalPicks: len(analysis.LeagueDraftPicks(g, season)),
	}

	if l, ok := g.Chain.ForSeason(season); ok {
		owner, err := s.pickOwner(ctx, l.LeagueID, po.FinalOwner)
		if err != nil {
			s.logger.Printf("Owner of pick #%d (%s) unavailable: %v", pickNo, season, err)
		}
		out.CurrentOwner = owner
	}

	if po.PlayerID == "" {
		return out, nil
	}

	st, err := s.stints(ctx, g, po.PlayerID)
	if err != nil {
		out.Error = fmt.Sprintf("failed to fetch player performance: %v", err)
		return out, nil
	}
	out.Stints = st

	stats, _, err := s.normalizer.PlayerStats(ctx, po.PlayerID, g.Chain.Seasons())
	if err != nil {
		out.Error = fmt.Sprintf("failed to fetch player performance: %v", err)
		return out, nil
	}
	out.Career = make(map[string]analysis.SeasonSummary)
	for _, season := range g.Chain.Seasons() {
		out.Career[season] = analysis.PlayerSeasonSummary(stats, po.PlayerID, season)
	}
	return out, nil
}

func (s *Service) pickOwner(ctx context.Context, leagueID string, rosterID int) (*PickOwner, error) {
	rosters, err := s.gateway.GetRosters(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	for _, r := range rosters {
		if r.RosterID != rosterID {
			continue
		}
		owner := &PickOwner{RosterID: r.RosterID, TeamName: r.TeamName}
		if r.OwnerID == "" {
			return owner, nil
		}
		u, err := s.gateway.GetUser(ctx, r.OwnerID)
		if err != nil {
			if errors.Is(err, sleeper.ErrNotFound) {
				return owner, nil
			}
			return owner, err
		}
		owner.Username = u.Username
		owner.DisplayName = u.DisplayName
		return owner, nil
	}
	return nil, nil
}
