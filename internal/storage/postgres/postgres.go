package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	applicationName = "sleeper-trade-lab"
	defaultMaxConns = 4 // only the response cache lives here
)

// Pool is the response cache connection pool.
type Pool struct {
	*pgxpool.Pool
}

// NewPool connects and pings. A DSN without pool_max_conns gets a small pool,
// and sessions are tagged with the application name unless the DSN sets one.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	cfg, err := poolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres %s: %w", cfg.ConnConfig.Host, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres %s: %w", cfg.ConnConfig.Host, err)
	}
	return &Pool{Pool: pool}, nil
}

func poolConfig(dsn string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if !hasPoolMaxConns(dsn) {
		cfg.MaxConns = defaultMaxConns
	}
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	return cfg, nil
}

func hasPoolMaxConns(dsn string) bool {
	return strings.Contains(dsn, "pool_max_conns")
}

// Close closes the connection pool.
func (p *Pool) Close() {
	p.Pool.Close()
}

func isNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
