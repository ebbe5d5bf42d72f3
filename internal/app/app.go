// Package app wires configuration into the runtime components shared by the
// binaries.
package app

import (
	"context"
	"fmt"
	"log"

	"sleeper-trade-lab/internal/cache"
	"sleeper-trade-lab/internal/config"
	"sleeper-trade-lab/internal/graphexport"
	"sleeper-trade-lab/internal/history"
	"sleeper-trade-lab/internal/ingestion"
	"sleeper-trade-lab/internal/orchestrator"
	"sleeper-trade-lab/internal/service"
	"sleeper-trade-lab/internal/sleeper"
	"sleeper-trade-lab/internal/storage"
	chstore "sleeper-trade-lab/internal/storage/clickhouse"
	"sleeper-trade-lab/internal/storage/memory"
	"sleeper-trade-lab/internal/storage/migrations"
	pgstore "sleeper-trade-lab/internal/storage/postgres"
	"sleeper-trade-lab/internal/storage/sqlite"
	"sleeper-trade-lab/internal/verification"
)

// Components are the wired runtime pieces. Close releases every connection.
type Components struct {
	Config       *config.Config
	Memo         *cache.Memo
	Gateway      sleeper.Gateway
	Service      *service.Service
	EdgeStore    storage.TradeEdgeStore
	StatStore    storage.WeeklyStatStore
	Exporter     *graphexport.Exporter // nil when neo4j is not configured
	Orchestrator *orchestrator.Orchestrator

	closers []func()
}

// Build connects the configured backends and assembles the components.
func Build(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Components, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Components{Config: cfg}

	cacheStore, err := c.cacheStore(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Memo = cache.New(cache.Options{Store: cacheStore, TTL: cfg.Cache.TTL, Logger: logger})

	c.Gateway = sleeper.NewHTTPClient(cfg.Sleeper.BaseURL,
		sleeper.WithTimeout(cfg.Sleeper.Timeout),
		sleeper.WithMaxRetries(cfg.Sleeper.MaxRetries),
		sleeper.WithRetryDelay(cfg.Sleeper.RetryDelay),
		sleeper.WithMaxDelay(cfg.Sleeper.MaxDelay),
		sleeper.WithCache(c.Memo),
	)

	c.Service = service.New(service.Options{
		Gateway:  c.Gateway,
		MaxHops:  cfg.Analysis.MaxHops,
		MaxDepth: cfg.Analysis.MaxDepth,
		Limit:    cfg.Analysis.FanoutLimit,
		Weeks:    cfg.Analysis.Weeks,
		Logger:   logger,
	})

	if err := c.sinks(ctx, cfg, logger); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.exporter(ctx, cfg, logger); err != nil {
		c.Close()
		return nil, err
	}

	opts := orchestrator.Options{
		Resolver: history.NewResolver(c.Gateway, cfg.Analysis.MaxHops),
		Backfiller: ingestion.NewBackfiller(ingestion.BackfillOptions{
			Normalizer: c.Service.Normalizer(),
			EdgeStore:  c.EdgeStore,
			StatStore:  c.StatStore,
			Logger:     logger,
		}),
		Builder: c.Service.Builder(),
		Verbose: true,
		Logger:  logger,
	}
	if c.Exporter != nil {
		opts.Exporter = c.Exporter
	}
	if cfg.ClickHouse.VerifyEdges {
		opts.Verifier = verification.NewEdgeVerifier(c.EdgeStore)
	}
	c.Orchestrator = orchestrator.New(opts)

	return c, nil
}

// Close releases connections in reverse order of acquisition.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func (c *Components) cacheStore(ctx context.Context, cfg *config.Config) (storage.ResponseCacheStore, error) {
	switch cfg.Cache.Backend {
	case config.CacheSQLite:
		db, err := sqlite.Open(ctx, cfg.Cache.SQLitePath)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() { db.Close() })
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("sqlite migrations: %w", err)
		}
		return sqlite.NewResponseCacheStore(db), nil

	case config.CachePostgres:
		pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		c.closers = append(c.closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		return pgstore.NewResponseCacheStore(pool), nil
	}
	return memory.NewResponseCacheStore(), nil
}

// sinks opens ClickHouse when configured, otherwise keeps edges and stats in memory.
func (c *Components) sinks(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	if cfg.ClickHouse.DSN == "" {
		c.EdgeStore = memory.NewTradeEdgeStore()
		c.StatStore = memory.NewWeeklyStatStore()
		return nil
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickHouse.DSN)
	if err != nil {
		return fmt.Errorf("clickhouse: %w", err)
	}
	c.closers = append(c.closers, func() { conn.Close() })
	logger.Println("Analytic sinks: clickhouse")

	c.EdgeStore = chstore.NewTradeEdgeStore(conn)
	c.StatStore = chstore.NewWeeklyStatStore(conn)
	return nil
}

func (c *Components) exporter(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	if cfg.Neo4j.URI == "" {
		return nil
	}

	client, err := graphexport.NewNeo4jClient(ctx, graphexport.Options{
		URI:      cfg.Neo4j.URI,
		Database: cfg.Neo4j.Database,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
	})
	if err != nil {
		return fmt.Errorf("neo4j: %w", err)
	}
	c.closers = append(c.closers, func() { client.Close(context.Background()) })

	c.Exporter = graphexport.NewExporter(graphexport.ExporterOptions{
		Client:    client,
		BatchSize: cfg.Neo4j.BatchSize,
		Logger:    logger,
	})
	if err := c.Exporter.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("neo4j schema: %w", err)
	}
	return nil
}
