// Package server exposes the league queries over HTTP and streams trade
// timelines over websockets.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"sleeper-trade-lab/internal/genealogy"
	"sleeper-trade-lab/internal/history"
	"sleeper-trade-lab/internal/observability"
	"sleeper-trade-lab/internal/orchestrator"
	"sleeper-trade-lab/internal/service"
	"sleeper-trade-lab/internal/sleeper"
)

// Ingester runs a full league ingest.
type Ingester interface {
	Run(ctx context.Context, leagueID string) (*orchestrator.RunResult, error)
}

// Options contains configuration for creating a Server.
type Options struct {
	Service     *service.Service
	Ingester    Ingester // optional; nil disables POST /api/leagues/{id}/ingest
	WindowHours int      // default connected-trade window
	Logger      *log.Logger
}

// Server holds the HTTP surface state.
type Server struct {
	svc         *service.Service
	ingester    Ingester
	windowHours int
	logger      *log.Logger

	mu            sync.Mutex
	started       time.Time
	ingestRunning bool
	ingestRuns    int
	lastIngest    *orchestrator.RunResult
	lastIngestAt  time.Time
}

// New creates a new Server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		svc:         opts.Service,
		ingester:    opts.Ingester,
		windowHours: opts.WindowHours,
		logger:      logger,
		started:     time.Now(),
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())
	mux.HandleFunc("GET /status", s.handleStatus)

	s.routes(mux)

	mux.HandleFunc("GET /ws/leagues/{id}/timeline", s.handleTimelineStream)
	if s.ingester != nil {
		mux.HandleFunc("POST /api/leagues/{id}/ingest", s.handleIngest)
	}

	return s.logging(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting HTTP server on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.logger.Println("Shutting down HTTP server...")
		return srv.Shutdown(shutdownCtx)
	}
}

// StatusResponse is the JSON response for /status.
type StatusResponse struct {
	Status        string                  `json:"status"`
	Uptime        string                  `json:"uptime"`
	Started       time.Time               `json:"started"`
	IngestRuns    int                     `json:"ingest_runs"`
	IngestRunning bool                    `json:"ingest_running"`
	LastIngestAt  time.Time               `json:"last_ingest_at,omitempty"`
	LastIngest    *orchestrator.RunResult `json:"last_ingest,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	respondJSON(w, http.StatusOK, StatusResponse{
		Status:        "running",
		Uptime:        time.Since(s.started).String(),
		Started:       s.started,
		IngestRuns:    s.ingestRuns,
		IngestRunning: s.ingestRunning,
		LastIngestAt:  s.lastIngestAt,
		LastIngest:    s.lastIngest,
	})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.ingestRunning {
		s.mu.Unlock()
		respondError(w, http.StatusConflict, errors.New("ingest already running"))
		return
	}
	s.ingestRunning = true
	s.mu.Unlock()

	result, err := s.ingester.Run(r.Context(), r.PathValue("id"))

	s.mu.Lock()
	s.ingestRunning = false
	s.ingestRuns++
	if err == nil {
		s.lastIngest = result
		s.lastIngestAt = time.Now()
	}
	s.mu.Unlock()

	if err != nil {
		s.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// fail maps lookup failures to 404 and everything else to 500.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, history.ErrLeagueNotFound),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrPickNotFound),
		errors.Is(err, genealogy.ErrAssetNotFound),
		errors.Is(err, sleeper.ErrNotFound):
		respondError(w, http.StatusNotFound, err)
	default:
		s.logger.Printf("Request failed: %v", err)
		respondError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Printf("%s %s %d %dms", r.Method, r.URL.Path, rec.status, time.Since(start).Milliseconds())
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}
