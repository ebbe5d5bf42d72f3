package service

import (
	"context"
	"fmt"
	"time"

	"sleeper-trade-lab/internal/analysis"
	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/genealogy"
	"sleeper-trade-lab/internal/rosternames"
)

// Genealogy traces an asset from holder's perspective; holder 0 uses the
// roster that first traded it away.
func (s *Service) Genealogy(ctx context.Context, leagueID, assetID string, holder int) (*domain.Genealogy, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return s.tracer.Trace(g, assetID, holder)
}

// AssetTree renders an asset's genealogy for one roster as nested branches.
func (s *Service) AssetTree(ctx context.Context, leagueID string, rosterID int, assetID string) (*genealogy.Tree, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return s.tracer.Tree(g, assetID, rosterID)
}

// ManagerAssetTrace explains one roster's acquisition, disposal and
// subsequent transformations of an asset.
func (s *Service) ManagerAssetTrace(ctx context.Context, leagueID string, rosterID int, assetID string) (*genealogy.ManagerTrace, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return s.tracer.ManagerAssetTrace(g, rosterID, assetID, s.now())
}

// RosterNames returns the resolved name of every roster in the chain.
func (s *Service) RosterNames(ctx context.Context, leagueID string) ([]rosternames.Name, error) {
	chain, err := s.Chain(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return s.names.Resolve(ctx, chain)
}

// TradeAssets classifies the assets of one transaction.
func (s *Service) TradeAssets(ctx context.Context, leagueID, txID string) ([]analysis.TradeAsset, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if _, err := s.transaction(g, txID); err != nil {
		return nil, err
	}
	assets, _ := analysis.TradeAssets(g, txID)
	return assets, nil
}

// ConnectedTrades groups the chain's trades by shared assets. windowHours
// <= 0 uses the default 24 hours.
func (s *Service) ConnectedTrades(ctx context.Context, leagueID string, windowHours int) ([]*analysis.TradeTree, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return analysis.ConnectedTrades(g, time.Duration(windowHours)*time.Hour), nil
}

// TradeChainImpact reports the asset flow through the group holding txID.
func (s *Service) TradeChainImpact(ctx context.Context, leagueID, txID string, windowHours int) (*analysis.ChainImpact, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	impact, ok := analysis.TradeChainImpact(g, txID, time.Duration(windowHours)*time.Hour)
	if !ok {
		return nil, fmt.Errorf("%w: %s in any trade group of league chain %s", ErrTransactionNotFound, txID, chainLabel(g.Chain))
	}
	return impact, nil
}

// HistoricalCoverage reports per-season data availability.
func (s *Service) HistoricalCoverage(ctx context.Context, leagueID string) (*analysis.Coverage, error) {
	chain, err := s.Chain(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return analysis.HistoricalCoverage(ctx, s.normalizer, chain, s.limit)
}

// Timeline returns the chain's timestamped trades in order.
func (s *Service) Timeline(ctx context.Context, leagueID string) ([]*domain.TransactionSummary, error) {
	g, err := s.Graph(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return g.TimelineSummaries(), nil
}
