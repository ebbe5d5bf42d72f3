package service

import (
	"context"
	"fmt"

	"sleeper-trade-lab/internal/analysis"
	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/stints"
	"sleeper-trade-lab/internal/tradegraph"
)

// PlayerLifecycle returns a player's draft and transaction events across the
// chain, oldest first.
func (s *Service) PlayerLifecycle(ctx context.Context, leagueID, playerID string) ([]domain.LifecycleEvent, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return stints.Lifecycle(g, playerID), nil
}

// PlayerStints partitions a player's lifecycle into roster stints and
// attaches weekly performance to each.
func (s *Service) PlayerStints(ctx context.Context, leagueID, playerID string) ([]domain.Stint, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return s.stints(ctx, g, playerID)
}

func (s *Service) stints(ctx context.Context, g *tradegraph.Graph, playerID string) ([]domain.Stint, error) {
	names, err := s.names.Resolve(ctx, g.Chain)
	if err != nil {
		return nil, fmt.Errorf("resolve roster names: %w", err)
	}
	labels := make(map[int]stints.Label, len(names))
	for _, n := range names {
		labels[n.RosterID] = stints.Label{Name: n.Name, OwnerID: n.OwnerID}
	}

	out := stints.Partition(stints.Lifecycle(g, playerID), labels)
	if len(out) == 0 {
		return out, nil
	}

	stats, _, err := s.normalizer.PlayerStats(ctx, playerID, g.Chain.Seasons())
	if err != nil {
		return nil, err
	}

	var matchups []domain.Matchup
	for _, league := range g.Chain {
		ms, _, err := s.normalizer.SeasonMatchups(ctx, league)
		if err != nil {
			return nil, err
		}
		matchups = append(matchups, ms...)
	}

	stints.Overlay(out, stats, stints.IndexMatchups(g.Chain, matchups), playerID)
	return out, nil
}

// PerformanceSinceTransaction splits a player's weeks at a transaction.
func (s *Service) PerformanceSinceTransaction(ctx context.Context, leagueID, playerID, txID string) (*analysis.PerformanceSplit, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	tx, err := s.transaction(g, txID)
	if err != nil {
		return nil, err
	}

	stats, _, err := s.normalizer.PlayerStats(ctx, playerID, g.Chain.Seasons())
	if err != nil {
		return nil, err
	}

	at := analysis.TransactionTime(tx)
	before, after := analysis.SplitAt(stats, playerID, at)
	return &analysis.PerformanceSplit{
		PlayerID:      playerID,
		TransactionID: txID,
		At:            at,
		Before:        before,
		After:         after,
	}, nil
}

// PerformanceBetweenTransactions keeps a player's weeks between two
// transactions, in either order.
func (s *Service) PerformanceBetweenTransactions(ctx context.Context, leagueID, playerID, txA, txB string) (*analysis.PerformanceWindow, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	a, err := s.transaction(g, txA)
	if err != nil {
		return nil, err
	}
	b, err := s.transaction(g, txB)
	if err != nil {
		return nil, err
	}

	stats, _, err := s.normalizer.PlayerStats(ctx, playerID, g.Chain.Seasons())
	if err != nil {
		return nil, err
	}

	window, start, end := analysis.Between(stats, playerID, analysis.TransactionTime(a), analysis.TransactionTime(b))
	return &analysis.PerformanceWindow{
		PlayerID: playerID,
		FromTxID: txA,
		ToTxID:   txB,
		Start:    start,
		End:      end,
		Between:  window,
	}, nil
}

// SeasonWeeklyStats returns every player's weekly lines for a season.
func (s *Service) SeasonWeeklyStats(ctx context.Context, season string) ([]domain.PlayerWeekStats, error) {
	stats, _, err := s.normalizer.SeasonWeeklyStats(ctx, season)
	return stats, err
}

// PlayerSeasonSummary totals one player's season.
func (s *Service) PlayerSeasonSummary(ctx context.Context, playerID, season string) (analysis.SeasonSummary, error) {
	stats, _, err := s.normalizer.PlayerStats(ctx, playerID, []string{season})
	if err != nil {
		return analysis.SeasonSummary{}, err
	}
	return analysis.PlayerSeasonSummary(stats, playerID, season), nil
}

// SeasonMatchups returns every week's matchups of one league instance.
func (s *Service) SeasonMatchups(ctx context.Context, leagueID string) ([]domain.Matchup, error) {
	league, err := s.gateway.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("fetch league %s: %w", leagueID, err)
	}
	ms, _, err := s.normalizer.SeasonMatchups(ctx, *league)
	return ms, err
}

// RosterAnalysis explains how each player on a roster of the newest league
// instance was acquired. An unknown roster yields an empty result.
func (s *Service) RosterAnalysis(ctx context.Context, leagueID string, rosterID int) ([]analysis.PlayerAcquisition, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	newest, _ := g.Chain.Newest()

	rosters, err := s.gateway.GetRosters(ctx, newest.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("fetch rosters of %s: %w", newest.LeagueID, err)
	}

	for _, r := range rosters {
		if r.RosterID != rosterID {
			continue
		}
		lifecycle := func(ctx context.Context, playerID string) ([]domain.LifecycleEvent, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return stints.Lifecycle(g, playerID), nil
		}
		return analysis.RosterAnalysis(ctx, r, g.Players, lifecycle, s.limit)
	}
	return nil, nil
}
