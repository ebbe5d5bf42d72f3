// Package main runs the HTTP query server:
// - JSON endpoints over the league queries
// - /ws/leagues/{id}/timeline trade timeline stream
// - /health, /metrics, /status
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sleeper-trade-lab/internal/app"
	"sleeper-trade-lab/internal/config"
	"sleeper-trade-lab/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	addr := flag.String("addr", "", "HTTP listen address (overrides server.addr)")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to build components: %v", err)
	}
	defer components.Close()

	srv := server.New(server.Options{
		Service:     components.Service,
		Ingester:    components.Orchestrator,
		WindowHours: cfg.Analysis.ConnectionWindow,
		Logger:      logger,
	})

	// Channel to signal completion
	done := make(chan error, 1)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err = srv.ListenAndServe(ctx, cfg.Server.Addr)
	done <- err

	if err != nil {
		logger.Fatalf("Server error: %v", err)
	}
	logger.Println("Shutdown complete")
}
