package graphexport

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"sleeper-trade-lab/internal/observability"
	"sleeper-trade-lab/internal/tradegraph"
)

// DefaultBatchSize is the number of rows sent per UNWIND statement.
const DefaultBatchSize = 500

const (
	cypherRosters = `UNWIND $rows AS row
MERGE (r:Roster {league_id: row.league_id, roster_id: row.roster_id})
SET r.name = row.name`

	cypherAssets = `UNWIND $rows AS row
MERGE (a:Asset {league_id: row.league_id, asset_id: row.asset_id})
SET a.kind = row.kind, a.name = row.name, a.original_owner = row.original_owner, a.current_owner = row.current_owner`

	cypherMoves = `UNWIND $rows AS row
MATCH (f:Roster {league_id: row.league_id, roster_id: row.from_roster_id})
MATCH (t:Roster {league_id: row.league_id, roster_id: row.to_roster_id})
MERGE (f)-[m:MOVED {edge_id: row.edge_id}]->(t)
SET m.transaction_id = row.transaction_id, m.asset_id = row.asset_id, m.timestamp = row.timestamp, m.season = row.season, m.context = row.context`

	cypherConstraints = `CREATE CONSTRAINT asset_key IF NOT EXISTS FOR (a:Asset) REQUIRE (a.league_id, a.asset_id) IS UNIQUE`
)

// ExportResult counts the rows sent.
type ExportResult struct {
	Rosters  int
	Assets   int
	Moves    int
	Duration time.Duration
}

// Exporter writes trade graphs as (:Roster)-[:MOVED]->(:Roster) relationships
// alongside (:Asset) nodes. Every statement is a MERGE keyed on stable ids, so
// re-exporting a graph leaves the database unchanged.
type Exporter struct {
	client    Client
	batchSize int
	logger    *log.Logger
}

// ExporterOptions contains configuration for creating an Exporter.
type ExporterOptions struct {
	Client    Client
	BatchSize int
	Logger    *log.Logger
}

// NewExporter creates a new Exporter.
func NewExporter(opts ExporterOptions) *Exporter {
	batch := opts.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Exporter{client: opts.Client, batchSize: batch, logger: logger}
}

// EnsureSchema creates the uniqueness constraint on assets.
func (e *Exporter) EnsureSchema(ctx context.Context) error {
	if _, err := e.client.ExecuteWrite(ctx, cypherConstraints, nil); err != nil {
		return fmt.Errorf("create asset constraint: %w", err)
	}
	return nil
}

// Export writes rosters, then assets, then moves.
func (e *Exporter) Export(ctx context.Context, g *tradegraph.Graph) (*ExportResult, error) {
	start := time.Now()
	league := g.LeagueID

	rosters := rosterRows(g)
	if err := e.write(ctx, "rosters", cypherRosters, rosters); err != nil {
		return nil, err
	}

	assets := make([]map[string]any, 0, len(g.Nodes))
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		n := g.Nodes[id]
		assets = append(assets, map[string]any{
			"league_id":      league,
			"asset_id":       n.AssetID,
			"kind":           string(n.Kind),
			"name":           n.Name,
			"original_owner": int64(n.OriginalOwner),
			"current_owner":  int64(n.CurrentOwner),
		})
	}
	if err := e.write(ctx, "assets", cypherAssets, assets); err != nil {
		return nil, err
	}

	records := g.EdgeRecords()
	moves := make([]map[string]any, 0, len(records))
	for _, r := range records {
		moves = append(moves, map[string]any{
			"league_id":      league,
			"edge_id":        r.EdgeID,
			"from_roster_id": int64(r.FromRosterID),
			"to_roster_id":   int64(r.ToRosterID),
			"transaction_id": r.TransactionID,
			"asset_id":       r.AssetID,
			"timestamp":      r.Timestamp,
			"season":         r.Season,
			"context":        string(r.Context),
		})
	}
	if err := e.write(ctx, "moves", cypherMoves, moves); err != nil {
		return nil, err
	}

	res := &ExportResult{
		Rosters:  len(rosters),
		Assets:   len(assets),
		Moves:    len(moves),
		Duration: time.Since(start),
	}
	e.logger.Printf("Exported league %s: %d rosters, %d assets, %d moves in %v",
		league, res.Rosters, res.Assets, res.Moves, res.Duration)
	return res, nil
}

func (e *Exporter) write(ctx context.Context, op, cypher string, rows []map[string]any) error {
	for i := 0; i < len(rows); i += e.batchSize {
		end := min(i+e.batchSize, len(rows))

		start := time.Now()
		_, err := e.client.ExecuteWrite(ctx, cypher, map[string]any{"rows": rows[i:end]})
		observability.RecordDBQuery("neo4j", op, time.Since(start).Seconds(), err)
		if err != nil {
			return fmt.Errorf("export %s batch %d-%d: %w", op, i, end, err)
		}
	}
	return nil
}

func rosterRows(g *tradegraph.Graph) []map[string]any {
	seen := make(map[int]bool)
	for _, e := range g.Edges {
		seen[e.FromRosterID] = true
		seen[e.ToRosterID] = true
	}
	for id := range g.RosterNames {
		seen[id] = true
	}
	delete(seen, 0)

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	rows := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, map[string]any{
			"league_id": g.LeagueID,
			"roster_id": int64(id),
			"name":      g.RosterName(id),
		})
	}
	return rows
}
