package ingestion

import (
	"context"
	"fmt"
	"log"
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/fanout"
	"sleeper-trade-lab/internal/storage"
)

// Backfiller warms the response cache for a league chain and writes derived
// rows to the analytic sinks.
type Backfiller struct {
	normalizer *Normalizer
	edgeStore  storage.TradeEdgeStore
	statStore  storage.WeeklyStatStore
	batchSize  int
	logger     *log.Logger
}

// BackfillOptions contains configuration for creating a Backfiller.
type BackfillOptions struct {
	Normalizer *Normalizer
	EdgeStore  storage.TradeEdgeStore  // optional
	StatStore  storage.WeeklyStatStore // optional
	BatchSize  int
	Logger     *log.Logger
}

// NewBackfiller creates a new Backfiller.
func NewBackfiller(opts BackfillOptions) *Backfiller {
	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = 1000
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Backfiller{
		normalizer: opts.Normalizer,
		edgeStore:  opts.EdgeStore,
		statStore:  opts.StatStore,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// BackfillResult contains statistics from a backfill operation.
type BackfillResult struct {
	TransactionsFetched int
	DraftsFetched       int
	MatchupsFetched     int
	EdgesStored         int
	StatsStored         int
	DuplicatesSkipped   int
	Failures            []fanout.Failure
	Duration            time.Duration
}

// Errors returns the number of failed branches.
func (r *BackfillResult) Errors() int {
	return len(r.Failures)
}

// WarmChain fetches transactions, drafts and matchups for every instance of
// the chain. With a caching gateway the later graph build reads warm entries.
func (b *Backfiller) WarmChain(ctx context.Context, chain domain.LeagueChain) (*BackfillResult, error) {
	start := time.Now()
	result := &BackfillResult{}

	b.logger.Printf("Warming %d league instances", len(chain))

	for _, league := range chain {
		txs, failed, err := b.normalizer.SeasonTransactions(ctx, league)
		if err != nil {
			return result, fmt.Errorf("warm transactions: %w", err)
		}
		result.TransactionsFetched += len(txs)
		result.Failures = append(result.Failures, failed...)

		matchups, failed, err := b.normalizer.SeasonMatchups(ctx, league)
		if err != nil {
			return result, fmt.Errorf("warm matchups: %w", err)
		}
		result.MatchupsFetched += len(matchups)
		result.Failures = append(result.Failures, failed...)
	}

	drafts, failed, err := b.normalizer.ChainDrafts(ctx, chain)
	if err != nil {
		return result, fmt.Errorf("warm drafts: %w", err)
	}
	result.DraftsFetched = len(drafts)
	result.Failures = append(result.Failures, failed...)

	result.Duration = time.Since(start)
	b.logger.Printf("Warm complete: %d transactions, %d drafts, %d matchups, %d errors in %v",
		result.TransactionsFetched, result.DraftsFetched, result.MatchupsFetched,
		result.Errors(), result.Duration)

	return result, nil
}

// StoreEdges writes trade edges to the edge sink in batches. Ids already
// present are counted as duplicates.
func (b *Backfiller) StoreEdges(ctx context.Context, edges []*storage.TradeEdgeRecord) (*BackfillResult, error) {
	start := time.Now()
	result := &BackfillResult{}
	if b.edgeStore == nil {
		return result, nil
	}

	for i := 0; i < len(edges); i += b.batchSize {
		end := i + b.batchSize
		if end > len(edges) {
			end = len(edges)
		}

		batch := edges[i:end]
		stored, err := b.edgeStore.InsertBulk(ctx, batch)
		if err != nil {
			b.logger.Printf("Error storing edge batch %d-%d: %v", i, end, err)
			result.Failures = append(result.Failures, fanout.Failure{
				Key: fmt.Sprintf("edges %d-%d", i, end),
				Err: err,
			})
			continue
		}
		result.EdgesStored += stored
		result.DuplicatesSkipped += len(batch) - stored
	}

	result.Duration = time.Since(start)
	b.logger.Printf("Stored %d edges, %d dupes, %d errors in %v",
		result.EdgesStored, result.DuplicatesSkipped, result.Errors(), result.Duration)

	return result, nil
}

// BackfillStats fetches weekly stats for each season and writes them to the
// stat sink. A failed week or season is recorded and skipped.
func (b *Backfiller) BackfillStats(ctx context.Context, seasons []string) (*BackfillResult, error) {
	start := time.Now()
	result := &BackfillResult{}
	if b.statStore == nil {
		return result, nil
	}

	for _, season := range seasons {
		lines, failed, err := b.normalizer.SeasonWeeklyStats(ctx, season)
		if err != nil {
			return result, fmt.Errorf("fetch stats for %s: %w", season, err)
		}
		result.Failures = append(result.Failures, failed...)

		rows := make([]*domain.PlayerWeekStats, 0, len(lines))
		for i := range lines {
			rows = append(rows, &lines[i])
		}

		for i := 0; i < len(rows); i += b.batchSize {
			end := i + b.batchSize
			if end > len(rows) {
				end = len(rows)
			}

			batch := rows[i:end]
			stored, err := b.statStore.InsertBulk(ctx, batch)
			if err != nil {
				b.logger.Printf("Error storing stats batch for %s: %v", season, err)
				result.Failures = append(result.Failures, fanout.Failure{
					Key: fmt.Sprintf("stats %s %d-%d", season, i, end),
					Err: err,
				})
				continue
			}
			result.StatsStored += stored
			result.DuplicatesSkipped += len(batch) - stored
		}
	}

	result.Duration = time.Since(start)
	b.logger.Printf("Stats backfill complete: %d lines, %d dupes, %d errors in %v",
		result.StatsStored, result.DuplicatesSkipped, result.Errors(), result.Duration)

	return result, nil
}
