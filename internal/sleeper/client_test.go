package sleeper

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sleeper-trade-lab/internal/cache"
	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/storage/memory"
)

func fastClient(url string, opts ...ClientOption) *HTTPClient {
	opts = append([]ClientOption{
		WithRetryDelay(time.Millisecond),
		WithMaxDelay(5 * time.Millisecond),
	}, opts...)
	return NewHTTPClient(url, opts...)
}

func TestHTTPClient_GetLeague(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/league/L2024" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"league_id": "L2024",
			"name": "Dynasty Bros",
			"season": "2024",
			"status": "in_season",
			"total_rosters": 12,
			"previous_league_id": "L2023",
			"draft_id": "D2024"
		}`)
	}))
	defer server.Close()

	league, err := fastClient(server.URL).GetLeague(context.Background(), "L2024")
	if err != nil {
		t.Fatalf("GetLeague: %v", err)
	}

	if league.Season != "2024" || league.TotalRosters != 12 {
		t.Errorf("unexpected league: %+v", league)
	}
	if !league.HasPrevious() || league.PreviousLeagueID != "L2023" {
		t.Errorf("expected previous league L2023, got %q", league.PreviousLeagueID)
	}
}

func TestHTTPClient_NullLeagueIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "null")
	}))
	defer server.Close()

	_, err := fastClient(server.URL).GetLeague(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHTTPClient_NotFoundNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := fastClient(server.URL).GetLeague(context.Background(), "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestHTTPClient_RetryOn429(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `[{"roster_id": 1, "owner_id": "u1", "players": ["4046"], "metadata": {"team_name": "Sharks", "streak": 3}}]`)
	}))
	defer server.Close()

	rosters, err := fastClient(server.URL).GetRosters(context.Background(), "L1")
	if err != nil {
		t.Fatalf("GetRosters: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
	if len(rosters) != 1 || rosters[0].TeamName != "Sharks" || rosters[0].LeagueID != "L1" {
		t.Errorf("unexpected rosters: %+v", rosters)
	}
}

func TestHTTPClient_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := fastClient(server.URL).GetRosters(context.Background(), "L1")
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected StatusError 400, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestHTTPClient_MaxRetriesExceeded(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := fastClient(server.URL, WithMaxRetries(2)).GetDrafts(context.Background(), "L1")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
}

func TestHTTPClient_TransactionsNotFoundIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	txs, err := fastClient(server.URL).GetTransactions(context.Background(), "L1", 17)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if txs == nil || len(txs) != 0 {
		t.Errorf("expected empty non-nil list, got %v", txs)
	}
}

func TestHTTPClient_GetTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/league/L1/transactions/3" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `[{
			"transaction_id": "T1",
			"type": "trade",
			"status": "complete",
			"status_updated": 1700000000000,
			"leg": 3,
			"adds": {"4046": 2},
			"drops": {"4046": 1},
			"roster_ids": [1, 2],
			"draft_picks": [{"season": "2025", "round": 1, "roster_id": 2, "owner_id": 1, "previous_owner_id": 2}]
		}, {
			"transaction_id": "T2",
			"type": "free_agent",
			"status": "complete",
			"status_updated": null,
			"adds": null,
			"drops": {"999": 4},
			"roster_ids": [4],
			"draft_picks": []
		}]`)
	}))
	defer server.Close()

	txs, err := fastClient(server.URL).GetTransactions(context.Background(), "L1", 3)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}

	trade := txs[0]
	if !trade.IsTrade() || trade.LeagueID != "L1" || trade.Week != 3 {
		t.Errorf("unexpected trade: %+v", trade)
	}
	if trade.Adds["4046"] != 2 || trade.Drops["4046"] != 1 {
		t.Errorf("adds/drops not decoded: %+v / %+v", trade.Adds, trade.Drops)
	}
	want := domain.DraftPickMovement{Season: "2025", Round: 1, RosterID: 2, OwnerID: 1, PreviousOwnerID: 2}
	if len(trade.DraftPicks) != 1 || trade.DraftPicks[0] != want {
		t.Errorf("draft picks = %+v, want %+v", trade.DraftPicks, want)
	}

	fa := txs[1]
	if fa.HasTimestamp() {
		t.Error("null status_updated should have no timestamp")
	}
	if fa.Week != 3 {
		t.Errorf("missing leg should default to requested week, got %d", fa.Week)
	}
}

func TestHTTPClient_GetDraft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"draft_id": "D1",
			"league_id": "L1",
			"season": "2024",
			"type": "snake",
			"status": "complete",
			"start_time": 1714000000000,
			"settings": {"rounds": 4, "teams": 3},
			"draft_order": {"u1": 1, "u2": 2, "u3": 3},
			"slot_to_roster_id": {"1": 3, "2": 1, "3": 2}
		}`)
	}))
	defer server.Close()

	d, err := fastClient(server.URL).GetDraft(context.Background(), "D1")
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if r, ok := d.RosterForSlot(1); !ok || r != 3 {
		t.Errorf("slot 1 roster = %d, want 3", r)
	}
	if d.Rounds != 4 || d.Teams != 3 {
		t.Errorf("settings not decoded: %+v", d)
	}
}

func TestHTTPClient_GetWeeklyStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stats/nfl/regular/2024/5" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"4046": {"pts_ppr": 24.3, "gp": 1.0, "rush_yd": 88}, "6794": {"gp": 0}}`)
	}))
	defer server.Close()

	stats, err := fastClient(server.URL).GetWeeklyStats(context.Background(), "2024", 5)
	if err != nil {
		t.Fatalf("GetWeeklyStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(stats))
	}
	if stats[0].PlayerID != "4046" || stats[0].PtsPPR != 24.3 || !stats[0].Active() {
		t.Errorf("unexpected line: %+v", stats[0])
	}
	if stats[1].Active() || stats[1].Week != 5 || stats[1].Season != "2024" {
		t.Errorf("unexpected line: %+v", stats[1])
	}
}

func TestHTTPClient_CachedResponses(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		io.WriteString(w, `{"league_id": "L1", "season": "2024"}`)
	}))
	defer server.Close()

	memo := cache.New(cache.Options{
		Store:  memory.NewResponseCacheStore(),
		Logger: log.New(io.Discard, "", 0),
	})
	client := fastClient(server.URL, WithCache(memo))

	for i := 0; i < 3; i++ {
		if _, err := client.GetLeague(context.Background(), "L1"); err != nil {
			t.Fatalf("GetLeague: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls.Load())
	}
}

func TestHTTPClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPClient(server.URL, WithRetryDelay(time.Second)).GetLeague(ctx, "L1")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
