// Package main renders a Markdown genealogy report and an edges CSV for one
// asset of a league chain.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"sleeper-trade-lab/internal/app"
	"sleeper-trade-lab/internal/config"
	"sleeper-trade-lab/internal/reporting"
	"sleeper-trade-lab/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	leagueID := flag.String("league", "", "Newest league id of the chain")
	assetID := flag.String("asset", "", "Asset id: a player id or a pick key (pick_<season>_r<round>_o<roster>)")
	holder := flag.Int("holder", 0, "Roster whose perspective to trace from (0 = first roster to trade it away)")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	flag.Parse()

	if *leagueID == "" || *assetID == "" {
		fmt.Fprintln(os.Stderr, "Error: --league and --asset are required")
		os.Exit(1)
	}

	// Progress goes to stderr; stdout only lists written files.
	logger := log.New(os.Stderr, "[report] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	components, err := app.Build(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building components: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	g, err := components.Service.Graph(ctx, *leagueID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building trade graph: %v\n", err)
		os.Exit(1)
	}

	// Stored edges only mean something when a persistent sink is configured.
	var edges storage.TradeEdgeStore
	if cfg.ClickHouse.DSN != "" {
		edges = components.EdgeStore
	}

	gen := reporting.NewGenerator(components.Service.Tracer(), edges)
	report, err := gen.Generate(ctx, g, *assetID, *holder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	mdPath := filepath.Join(*outputDir, "GENEALOGY_"+fileSafe(*assetID)+".md")
	csvPath := filepath.Join(*outputDir, "TRADE_EDGES_"+fileSafe(*leagueID)+".csv")

	if err := writeFile(mdPath, reporting.RenderGenealogyMarkdown(report)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", mdPath, err)
		os.Exit(1)
	}
	if err := writeFile(csvPath, reporting.RenderEdgesCSV(g.EdgeRecords())); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", csvPath, err)
		os.Exit(1)
	}

	fmt.Println("Genealogy report generated successfully:")
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
}

func writeFile(path, content string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.WriteString(f, content)
	return err
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, s)
}
