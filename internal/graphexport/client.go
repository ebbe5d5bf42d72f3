// Package graphexport writes built trade graphs to a Bolt-compatible graph
// database for ad-hoc Cypher exploration.
package graphexport

import (
	"context"
	"errors"
)

// Client is the subset of a graph database session the exporter needs.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result holds the records a statement returned.
type Result struct {
	Records []Record
}

// Record maps returned keys to values.
type Record map[string]any

// Options configures a Neo4j client.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI is returned when no Bolt URI was configured.
var ErrMissingURI = errors.New("neo4j URI is required")
