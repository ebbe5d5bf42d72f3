// Package config loads runtime configuration from defaults, an optional YAML
// file, a .env file and SLEEPER_LAB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SLEEPER_LAB_CACHE_TTL.
const EnvPrefix = "SLEEPER_LAB"

// Cache backends.
const (
	CacheMemory   = "memory"
	CacheSQLite   = "sqlite"
	CachePostgres = "postgres"
)

// Config is the complete application configuration.
type Config struct {
	Sleeper    SleeperConfig    `mapstructure:"sleeper"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	ClickHouse ClickHouseConfig `mapstructure:"clickhouse"`
	Neo4j      Neo4jConfig      `mapstructure:"neo4j"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Server     ServerConfig     `mapstructure:"server"`
}

// SleeperConfig holds upstream API configuration.
type SleeperConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	MaxDelay   time.Duration `mapstructure:"max_delay"`
}

// CacheConfig holds response cache configuration.
type CacheConfig struct {
	Backend    string        `mapstructure:"backend"`
	TTL        time.Duration `mapstructure:"ttl"`
	SQLitePath string        `mapstructure:"sqlite_path"`
}

// PostgresConfig holds the postgres cache connection.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// ClickHouseConfig holds the analytic sink connection. An empty DSN keeps
// the sinks in memory.
type ClickHouseConfig struct {
	DSN         string `mapstructure:"dsn"`
	VerifyEdges bool   `mapstructure:"verify_edges"` // compare stored edges with the rebuilt graph after each ingest
}

// Neo4jConfig holds the graph export connection. An empty URI disables export.
type Neo4jConfig struct {
	URI       string `mapstructure:"uri"`
	Database  string `mapstructure:"database"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	BatchSize int    `mapstructure:"batch_size"`
}

// AnalysisConfig bounds the analysis core.
type AnalysisConfig struct {
	MaxHops          int `mapstructure:"max_hops"`
	MaxDepth         int `mapstructure:"max_depth"`
	FanoutLimit      int `mapstructure:"fanout_limit"`
	Weeks            int `mapstructure:"weeks"`
	ConnectionWindow int `mapstructure:"connection_window_hours"`
}

// ServerConfig holds the HTTP surface configuration.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration. A .env file in the working directory is applied
// first and never overrides variables already set. An empty path skips the
// YAML file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Cache.Backend = strings.ToLower(cfg.Cache.Backend)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sleeper.base_url", "https://api.sleeper.app/v1")
	v.SetDefault("sleeper.timeout", "30s")
	v.SetDefault("sleeper.max_retries", 3)
	v.SetDefault("sleeper.retry_delay", "500ms")
	v.SetDefault("sleeper.max_delay", "10s")

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl", "168h")
	v.SetDefault("cache.sqlite_path", "./data/sleeper_cache.db")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("clickhouse.dsn", "")
	v.SetDefault("clickhouse.verify_edges", false)

	v.SetDefault("neo4j.uri", "")
	v.SetDefault("neo4j.database", "neo4j")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.batch_size", 500)

	v.SetDefault("analysis.max_hops", 50)
	v.SetDefault("analysis.max_depth", 10)
	v.SetDefault("analysis.fanout_limit", 5)
	v.SetDefault("analysis.weeks", 18)
	v.SetDefault("analysis.connection_window_hours", 24)

	v.SetDefault("server.addr", ":8080")
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.Sleeper.BaseURL == "" {
		return fmt.Errorf("sleeper.base_url is required")
	}
	if c.Sleeper.Timeout <= 0 {
		return fmt.Errorf("sleeper.timeout must be positive")
	}
	if c.Sleeper.MaxRetries < 0 {
		return fmt.Errorf("sleeper.max_retries must not be negative")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	switch c.Cache.Backend {
	case CacheMemory:
	case CacheSQLite:
		if c.Cache.SQLitePath == "" {
			return fmt.Errorf("cache.sqlite_path is required for the sqlite backend")
		}
	case CachePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("cache.backend must be one of: memory, sqlite, postgres")
	}

	if c.Analysis.FanoutLimit < 1 {
		return fmt.Errorf("analysis.fanout_limit must be at least 1")
	}
	if c.Analysis.Weeks < 1 {
		return fmt.Errorf("analysis.weeks must be at least 1")
	}
	if c.Neo4j.URI != "" && c.Neo4j.BatchSize < 1 {
		return fmt.Errorf("neo4j.batch_size must be at least 1")
	}

	return nil
}

// ConnectionWindowDuration returns the connected-trade window.
func (a AnalysisConfig) ConnectionWindowDuration() time.Duration {
	return time.Duration(a.ConnectionWindow) * time.Hour
}
