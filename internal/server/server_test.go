package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/orchestrator"
	"sleeper-trade-lab/internal/service"
	"sleeper-trade-lab/internal/sleeper/stub"
)

type fakeIngester struct {
	result *orchestrator.RunResult
	err    error
}

func (f *fakeIngester) Run(_ context.Context, leagueID string) (*orchestrator.RunResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := *f.result
	out.LeagueID = leagueID
	return &out, nil
}

func trade(id string, ts int64, asset string, from, to int) domain.TransactionRecord {
	return domain.TransactionRecord{
		TransactionID: id,
		Type:          domain.TransactionTypeTrade,
		Status:        domain.TransactionStatusComplete,
		StatusUpdated: ts,
		Adds:          map[string]int{asset: to},
		Drops:         map[string]int{asset: from},
		RosterIDs:     []int{from, to},
	}
}

func newTestServer(t *testing.T, ing Ingester) *httptest.Server {
	t.Helper()
	gw := stub.NewGateway()
	gw.AddLeague(domain.LeagueInstance{LeagueID: "L1", Season: "2024"})
	gw.Players["P"] = domain.Player{PlayerID: "P", FullName: "Pat Runner"}
	gw.Players["Q"] = domain.Player{PlayerID: "Q", FullName: "Quinn Catcher"}
	gw.AddTransactions("L1", 1,
		trade("t1", 1_725_000_000_000, "P", 1, 2),
		trade("t2", 1_725_100_000_000, "Q", 2, 3),
	)
	gw.AddUser(domain.User{UserID: "u1", Username: "alpha_user", DisplayName: "Alpha"})
	gw.UserLeagues["u1"] = []domain.LeagueInstance{{LeagueID: "L1", Season: "2024"}}

	quiet := log.New(io.Discard, "", 0)
	svc := service.New(service.Options{Gateway: gw, Weeks: 1, Logger: quiet})
	srv := New(Options{Service: svc, Ingester: ing, WindowHours: 24, Logger: quiet})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestServer_Timeline(t *testing.T) {
	ts := newTestServer(t, nil)

	var timeline []domain.TransactionSummary
	status := getJSON(t, ts.URL+"/api/leagues/L1/timeline", &timeline)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, timeline, 2)
	assert.Equal(t, "t1", timeline[0].TransactionID)
}

func TestServer_ErrorMapping(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"unknown league", "/api/leagues/missing/timeline", http.StatusNotFound},
		{"unknown transaction", "/api/leagues/L1/transactions/nope/assets", http.StatusNotFound},
		{"unknown asset", "/api/leagues/L1/assets/nope/genealogy", http.StatusNotFound},
		{"unknown user", "/api/users/nobody/leagues/2024", http.StatusNotFound},
		{"bad roster", "/api/leagues/L1/rosters/abc/analysis", http.StatusBadRequest},
		{"bad window", "/api/leagues/L1/connected-trades?window_hours=x", http.StatusBadRequest},
		{"performance without transactions", "/api/leagues/L1/players/P/performance", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getJSON(t, ts.URL+tt.path, nil))
		})
	}
}

func TestServer_UserLeagues(t *testing.T) {
	ts := newTestServer(t, nil)

	var u domain.User
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/users/alpha_user", &u))
	assert.Equal(t, "u1", u.UserID)

	var leagues []domain.LeagueInstance
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/users/alpha_user/leagues/2024", &leagues))
	require.Len(t, leagues, 1)
	assert.Equal(t, "L1", leagues[0].LeagueID)
}

func TestServer_Genealogy(t *testing.T) {
	ts := newTestServer(t, nil)

	var g domain.Genealogy
	status := getJSON(t, ts.URL+"/api/leagues/L1/assets/P/genealogy", &g)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "P", g.RootAssetID)
}

func TestServer_Ingest(t *testing.T) {
	ing := &fakeIngester{result: &orchestrator.RunResult{Edges: 2}}
	ts := newTestServer(t, ing)

	resp, err := http.Post(ts.URL+"/api/leagues/L1/ingest", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status StatusResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/status", &status))
	assert.Equal(t, 1, status.IngestRuns)
	require.NotNil(t, status.LastIngest)
	assert.Equal(t, "L1", status.LastIngest.LeagueID)
	assert.Equal(t, 2, status.LastIngest.Edges)
}

func TestServer_IngestFailure(t *testing.T) {
	ts := newTestServer(t, &fakeIngester{err: errors.New("boom")})

	resp, err := http.Post(ts.URL+"/api/leagues/L1/ingest", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestServer_TimelineStream(t *testing.T) {
	ts := newTestServer(t, nil)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/leagues/L1/timeline"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var got []TimelineMessage
	for {
		var msg TimelineMessage
		err := conn.ReadJSON(&msg)
		if err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
			break
		}
		got = append(got, msg)
	}

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Sequence)
	assert.Equal(t, "t1", got[0].Transaction.TransactionID)
	require.Len(t, got[0].Edges, 1)
	assert.Equal(t, "P", got[0].Edges[0].AssetID)
	assert.Equal(t, "t2", got[1].Transaction.TransactionID)
}

func TestServer_TimelineStream_UnknownLeague(t *testing.T) {
	ts := newTestServer(t, nil)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/leagues/missing/timeline"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
