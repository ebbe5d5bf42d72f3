// Package main runs one full ingest of a league chain: cache warm, graph
// build, ClickHouse sinks and optional Neo4j export.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sleeper-trade-lab/internal/app"
	"sleeper-trade-lab/internal/config"
	"sleeper-trade-lab/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	leagueID := flag.String("league", "", "Newest league id of the chain to ingest")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (overrides clickhouse.dsn)")
	neo4jURI := flag.String("neo4j-uri", "", "Neo4j Bolt URI (overrides neo4j.uri)")
	skipExport := flag.Bool("skip-export", false, "Skip the Neo4j export even when configured")
	verify := flag.Bool("verify", false, "Verify stored trade edges against the rebuilt graph")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags|log.Lshortfile)

	if *leagueID == "" {
		logger.Fatal("--league is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *clickhouseDSN != "" {
		cfg.ClickHouse.DSN = *clickhouseDSN
	}
	if *neo4jURI != "" {
		cfg.Neo4j.URI = *neo4jURI
	}
	if *skipExport {
		cfg.Neo4j.URI = ""
	}
	if *verify {
		cfg.ClickHouse.VerifyEdges = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling ingest...", sig)
		cancel()
	}()

	components, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to build components: %v", err)
	}
	defer components.Close()

	start := time.Now()
	result, err := components.Orchestrator.Run(ctx, *leagueID)
	if err != nil {
		logger.Fatalf("Ingest failed: %v", err)
	}

	logger.Printf("Run %s: %d seasons %v", result.RunID, len(result.Seasons), result.Seasons)
	logger.Printf("  Transactions: %d, drafts: %d, matchups: %d",
		result.TransactionsFetched, result.DraftsFetched, result.MatchupsFetched)
	logger.Printf("  Graph: %d nodes, %d edges", result.Nodes, result.Edges)
	logger.Printf("  Stored: %d edges, %d stat lines, %d duplicates skipped",
		result.EdgesStored, result.StatsStored, result.DuplicatesSkipped)
	logger.Printf("  Exported: %v", result.Exported)
	if result.Verification != nil {
		logger.Printf("  Verified: %s", result.Verification)
	}
	for _, e := range result.Errors {
		logger.Printf("  Error: %s", e)
	}
	logger.Printf("Completed in %v", time.Since(start))
}
