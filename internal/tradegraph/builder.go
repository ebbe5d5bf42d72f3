package tradegraph

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/fanout"
	"sleeper-trade-lab/internal/ingestion"
	"sleeper-trade-lab/internal/observability"
)

// ErrEmptyChain is returned when there is no league to build from.
var ErrEmptyChain = errors.New("empty league chain")

// RosterNamer resolves display names for a chain's rosters.
type RosterNamer interface {
	Names(ctx context.Context, chain domain.LeagueChain) (map[int]string, error)
}

// Builder fetches a chain's data and builds its graph.
type Builder struct {
	normalizer *ingestion.Normalizer
	namer      RosterNamer
	logger     *log.Logger
}

// BuilderOptions contains configuration for creating a Builder.
type BuilderOptions struct {
	Normalizer *ingestion.Normalizer
	Namer      RosterNamer // optional
	Logger     *log.Logger
}

// NewBuilder creates a new Builder.
func NewBuilder(opts BuilderOptions) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{
		normalizer: opts.Normalizer,
		namer:      opts.Namer,
		logger:     logger,
	}
}

// Build fetches transactions, drafts, the player directory and roster names
// for the chain and builds the graph. Failed weeks and drafts are recorded in
// Graph.Failures. A missing player directory leaves non-pick assets unknown.
func (b *Builder) Build(ctx context.Context, chain domain.LeagueChain) (*Graph, error) {
	root, ok := chain.Newest()
	if !ok {
		return nil, ErrEmptyChain
	}
	start := time.Now()

	txs, failures, err := b.normalizer.ChainTransactions(ctx, chain)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	bundles, failed, err := b.normalizer.ChainDrafts(ctx, chain)
	if err != nil {
		return nil, fmt.Errorf("fetch drafts: %w", err)
	}
	failures = append(failures, failed...)

	var (
		drafts []domain.Draft
		picks  []domain.DraftPick
	)
	for _, bundle := range bundles {
		drafts = append(drafts, bundle.Draft)
		picks = append(picks, bundle.Picks...)
	}

	players, err := b.normalizer.Gateway().GetPlayers(ctx)
	if err != nil {
		b.logger.Printf("Player directory unavailable: %v", err)
		failures = append(failures, fanout.Failure{Key: "players", Err: err})
		players = nil
	}

	var names map[int]string
	if b.namer != nil {
		names, err = b.namer.Names(ctx, chain)
		if err != nil {
			b.logger.Printf("Roster names unavailable: %v", err)
			failures = append(failures, fanout.Failure{Key: "roster names", Err: err})
		}
	}

	g := FromData(Input{
		LeagueID:     root.LeagueID,
		Chain:        chain,
		Transactions: txs,
		Drafts:       drafts,
		Picks:        picks,
		Players:      players,
		RosterNames:  names,
	})
	g.Failures = failures
	if players != nil {
		for _, id := range g.Unknown {
			b.logger.Printf("Unknown asset %s in %s: not a pick and not in the player directory", id, root.LeagueID)
		}
	}

	elapsed := time.Since(start)
	observability.RecordGraphBuild(elapsed.Seconds(), len(g.Nodes), len(g.Edges))
	b.logger.Printf("Built graph for %s: %d nodes, %d edges, %d trades, %d skipped branches in %v",
		root.LeagueID, len(g.Nodes), len(g.Edges), len(g.Transactions), len(failures), elapsed)

	return g, nil
}
