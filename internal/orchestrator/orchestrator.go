// Package orchestrator runs a full league ingest.
// It coordinates: chain → cache warm → graph build → sinks → export
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/fanout"
	"sleeper-trade-lab/internal/graphexport"
	"sleeper-trade-lab/internal/ingestion"
	"sleeper-trade-lab/internal/observability"
	"sleeper-trade-lab/internal/storage"
	"sleeper-trade-lab/internal/tradegraph"
	"sleeper-trade-lab/internal/verification"
)

// ChainResolver walks a league's previous-season links.
type ChainResolver interface {
	Chain(ctx context.Context, leagueID string) (domain.LeagueChain, error)
}

// GraphExporter writes a built graph to an external store.
type GraphExporter interface {
	Export(ctx context.Context, g *tradegraph.Graph) (*graphexport.ExportResult, error)
}

// EdgeVerifier compares stored edges with a rebuilt graph.
type EdgeVerifier interface {
	Verify(ctx context.Context, rootLeague string, rebuilt []*storage.TradeEdgeRecord) (*verification.Report, error)
}

// Orchestrator coordinates one ingest of a league chain.
// Flow: resolve chain → warm cache → build graph → sink edges → verify → sink stats → export
type Orchestrator struct {
	resolver   ChainResolver
	backfiller *ingestion.Backfiller
	builder    *tradegraph.Builder
	exporter   GraphExporter
	verifier   EdgeVerifier

	skipWarm bool
	verbose  bool
	logger   *log.Logger
}

// Options for creating Orchestrator.
type Options struct {
	// Required
	Resolver   ChainResolver
	Backfiller *ingestion.Backfiller
	Builder    *tradegraph.Builder

	// Optional; nil skips the phase
	Exporter GraphExporter
	Verifier EdgeVerifier

	SkipWarm bool // skip phase 2 when the cache is known to be warm
	Verbose  bool
	Logger   *log.Logger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		resolver:   opts.Resolver,
		backfiller: opts.Backfiller,
		builder:    opts.Builder,
		exporter:   opts.Exporter,
		verifier:   opts.Verifier,
		skipWarm:   opts.SkipWarm,
		verbose:    opts.Verbose,
		logger:     logger,
	}
}

// RunResult contains results from one ingest.
type RunResult struct {
	RunID    uuid.UUID
	LeagueID string
	Seasons  []string

	TransactionsFetched int
	DraftsFetched       int
	MatchupsFetched     int
	Nodes               int
	Edges               int
	EdgesStored         int
	StatsStored         int
	DuplicatesSkipped   int
	Exported            bool
	Verification        *verification.Report // nil when not verified

	Errors   []string
	Duration time.Duration
}

// Run executes the ingest.
// Phases:
//  1. Resolve the league chain
//  2. Warm transactions, drafts and matchups through the cache
//  3. Build the trade graph
//  4. Sink trade edges
//  5. Verify stored edges against the graph (optional)
//  6. Sink weekly stats of the chain's seasons
//  7. Export the graph (optional)
//
// Phases 1 and 3 are fatal. Failed branches of the other phases are
// collected in Errors.
func (o *Orchestrator) Run(ctx context.Context, leagueID string) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{RunID: uuid.New(), LeagueID: leagueID}
	o.log("Run %s for league %s", result.RunID, leagueID)

	// Phase 1: Chain
	o.log("Phase 1: Resolving league chain...")
	var chain domain.LeagueChain
	err := o.phase("chain", func() error {
		var err error
		chain, err = o.resolver.Chain(ctx, leagueID)
		if err != nil && len(chain) > 0 {
			// partial chain: keep what was walked
			result.Errors = append(result.Errors, fmt.Sprintf("chain: %v", err))
			return nil
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("phase 1 (resolve chain) failed: %w", err)
	}
	result.Seasons = chain.Seasons()
	o.log("  Found %d league instances", len(chain))

	// Phase 2: Warm
	if !o.skipWarm {
		o.log("Phase 2: Warming cache...")
		err := o.phase("warm", func() error {
			warm, err := o.backfiller.WarmChain(ctx, chain)
			if warm != nil {
				result.TransactionsFetched = warm.TransactionsFetched
				result.DraftsFetched = warm.DraftsFetched
				result.MatchupsFetched = warm.MatchupsFetched
				result.Errors = append(result.Errors, failureStrings("warm", warm.Failures)...)
			}
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("phase 2 (warm cache) failed: %w", err)
		}
		o.log("  Warmed %d transactions, %d drafts, %d matchups",
			result.TransactionsFetched, result.DraftsFetched, result.MatchupsFetched)
	} else {
		o.log("Phase 2: Skipping cache warm (skipWarm=true)")
	}

	// Phase 3: Graph
	o.log("Phase 3: Building trade graph...")
	var g *tradegraph.Graph
	err = o.phase("build", func() error {
		var err error
		g, err = o.builder.Build(ctx, chain)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("phase 3 (build graph) failed: %w", err)
	}
	result.Nodes = len(g.Nodes)
	result.Edges = len(g.Edges)
	result.Errors = append(result.Errors, failureStrings("build", g.Failures)...)
	o.log("  Built %d nodes, %d edges", result.Nodes, result.Edges)

	// Phase 4: Edge sink
	o.log("Phase 4: Storing trade edges...")
	edgeErr := o.phase("edges", func() error {
		stored, err := o.backfiller.StoreEdges(ctx, g.EdgeRecords())
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("edges: %v", err))
			return err
		}
		result.EdgesStored = stored.EdgesStored
		result.DuplicatesSkipped += stored.DuplicatesSkipped
		result.Errors = append(result.Errors, failureStrings("edges", stored.Failures)...)
		return nil
	})
	o.log("  Stored %d edges", result.EdgesStored)

	// Phase 5: Verify
	switch {
	case o.verifier == nil:
		o.log("Phase 5: Skipping verification (no verifier)")
	case edgeErr != nil:
		o.log("Phase 5: Skipping verification (edge sink failed)")
	default:
		o.log("Phase 5: Verifying stored edges...")
		err := o.phase("verify", func() error {
			report, err := o.verifier.Verify(ctx, g.LeagueID, g.EdgeRecords())
			if err != nil {
				return err
			}
			result.Verification = report
			if !report.OK() {
				return fmt.Errorf("%s", report)
			}
			return nil
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("verify: %v", err))
		}
		if result.Verification != nil {
			o.log("  %s", result.Verification)
		}
	}

	// Phase 6: Stat sink
	o.log("Phase 6: Storing weekly stats...")
	_ = o.phase("stats", func() error {
		stats, err := o.backfiller.BackfillStats(ctx, result.Seasons)
		if stats != nil {
			result.StatsStored = stats.StatsStored
			result.DuplicatesSkipped += stats.DuplicatesSkipped
			result.Errors = append(result.Errors, failureStrings("stats", stats.Failures)...)
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("stats: %v", err))
		}
		return err
	})
	o.log("  Stored %d stat lines", result.StatsStored)

	// Phase 7: Export
	if o.exporter != nil {
		o.log("Phase 7: Exporting graph...")
		err := o.phase("export", func() error {
			_, err := o.exporter.Export(ctx, g)
			return err
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("export: %v", err))
		} else {
			result.Exported = true
		}
	} else {
		o.log("Phase 7: Skipping export (no exporter)")
	}

	result.Duration = time.Since(start)
	observability.DefaultMetrics.LastSuccessfulIngest.SetToCurrentTime()
	o.log("Run completed: %d edges, %d stored, %d stats, %d errors in %v",
		result.Edges, result.EdgesStored, result.StatsStored, len(result.Errors), result.Duration)

	return result, nil
}

// phase times fn and records it under name.
func (o *Orchestrator) phase(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.RecordRun(name, status, time.Since(start).Seconds())
	return err
}

func failureStrings(phase string, failures []fanout.Failure) []string {
	out := make([]string, 0, len(failures))
	for _, f := range failures {
		out = append(out, fmt.Sprintf("%s %s: %v", phase, f.Key, f.Err))
	}
	return out
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		o.logger.Printf("[orchestrator] "+format, args...)
	}
}
