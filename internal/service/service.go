// Package service exposes the league query operations over a single
// upstream gateway. Every query resolves the league chain, builds the trade
// graph from (cached) upstream data and derives its answer from that graph.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/fanout"
	"sleeper-trade-lab/internal/genealogy"
	"sleeper-trade-lab/internal/history"
	"sleeper-trade-lab/internal/ingestion"
	"sleeper-trade-lab/internal/rosternames"
	"sleeper-trade-lab/internal/sleeper"
	"sleeper-trade-lab/internal/tradegraph"
)

// Required single lookups that found nothing.
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrPickNotFound        = errors.New("draft pick not found")
)

// Service answers league queries.
type Service struct {
	gateway    sleeper.Gateway
	resolver   *history.Resolver
	normalizer *ingestion.Normalizer
	names      *rosternames.Resolver
	builder    *tradegraph.Builder
	tracer     *genealogy.Tracer
	limit      int
	logger     *log.Logger
	now        func() time.Time
}

// Options contains configuration for creating a Service.
type Options struct {
	Gateway  sleeper.Gateway
	MaxHops  int // chain walk bound, defaults to history.DefaultMaxHops
	MaxDepth int // genealogy bound, defaults to genealogy.DefaultMaxDepth
	Limit    int // per-roster fan-out gate, defaults to fanout.DefaultLimit
	Weeks    int // weeks fetched per season, defaults to domain.SeasonWeeks
	Logger   *log.Logger
}

// New creates a new Service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = fanout.DefaultLimit
	}

	normalizer := ingestion.NewNormalizer(ingestion.NormalizerOptions{
		Gateway: opts.Gateway,
		Weeks:   opts.Weeks,
		Logger:  logger,
	})
	names := rosternames.NewResolver(rosternames.Options{Gateway: opts.Gateway, Limit: limit, Logger: logger})

	return &Service{
		gateway:    opts.Gateway,
		resolver:   history.NewResolver(opts.Gateway, opts.MaxHops),
		normalizer: normalizer,
		names:      names,
		builder:    tradegraph.NewBuilder(tradegraph.BuilderOptions{Normalizer: normalizer, Namer: names, Logger: logger}),
		tracer:     genealogy.NewTracer(genealogy.Options{MaxDepth: opts.MaxDepth}),
		limit:      limit,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets the clock that closes open ownership periods.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Normalizer returns the normalizer the service fetches through.
func (s *Service) Normalizer() *ingestion.Normalizer {
	return s.normalizer
}

// Builder returns the graph builder.
func (s *Service) Builder() *tradegraph.Builder {
	return s.builder
}

// Tracer returns the genealogy tracer.
func (s *Service) Tracer() *genealogy.Tracer {
	return s.tracer
}

// Chain resolves a league's history, newest first. A partial chain from a
// transient upstream failure is returned without error and logged.
func (s *Service) Chain(ctx context.Context, leagueID string) (domain.LeagueChain, error) {
	chain, err := s.resolver.Chain(ctx, leagueID)
	if err != nil {
		if len(chain) == 0 {
			return nil, err
		}
		s.logger.Printf("Using partial chain for %s (%d instances): %v", leagueID, len(chain), err)
	}
	return chain, nil
}

// Graph resolves the chain and builds its trade graph.
func (s *Service) Graph(ctx context.Context, leagueID string) (*tradegraph.Graph, error) {
	chain, err := s.Chain(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return s.builder.Build(ctx, chain)
}

func (s *Service) transaction(g *tradegraph.Graph, txID string) (*domain.TransactionRecord, error) {
	if tx, ok := g.Transaction(txID); ok {
		return tx, nil
	}
	return nil, fmt.Errorf("%w: %s in league chain %s", ErrTransactionNotFound, txID, chainLabel(g.Chain))
}

func chainLabel(chain domain.LeagueChain) string {
	parts := make([]string, 0, len(chain))
	for _, l := range chain {
		parts = append(parts, fmt.Sprintf("%s (%s)", l.LeagueID, l.Season))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
