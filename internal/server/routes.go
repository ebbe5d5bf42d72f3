package server

import (
	"fmt"
	"net/http"
	"strconv"

	"sleeper-trade-lab/internal/domain"
)

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/leagues/{id}/chain", s.handleChain)
	mux.HandleFunc("GET /api/leagues/{id}/rosters", s.handleRosterNames)
	mux.HandleFunc("GET /api/leagues/{id}/coverage", s.handleCoverage)
	mux.HandleFunc("GET /api/leagues/{id}/timeline", s.handleTimeline)
	mux.HandleFunc("GET /api/leagues/{id}/matchups", s.handleMatchups)
	mux.HandleFunc("GET /api/leagues/{id}/connected-trades", s.handleConnectedTrades)
	mux.HandleFunc("GET /api/leagues/{id}/traded-picks", s.handleTradedPicks)

	mux.HandleFunc("GET /api/leagues/{id}/assets/{asset}/genealogy", s.handleGenealogy)
	mux.HandleFunc("GET /api/leagues/{id}/rosters/{roster}/assets/{asset}/tree", s.handleAssetTree)
	mux.HandleFunc("GET /api/leagues/{id}/rosters/{roster}/assets/{asset}/trace", s.handleManagerTrace)
	mux.HandleFunc("GET /api/leagues/{id}/rosters/{roster}/analysis", s.handleRosterAnalysis)

	mux.HandleFunc("GET /api/leagues/{id}/transactions/{tx}/assets", s.handleTradeAssets)
	mux.HandleFunc("GET /api/leagues/{id}/transactions/{tx}/impact", s.handleTradeImpact)

	mux.HandleFunc("GET /api/leagues/{id}/players/{player}/lifecycle", s.handleLifecycle)
	mux.HandleFunc("GET /api/leagues/{id}/players/{player}/stints", s.handleStints)
	mux.HandleFunc("GET /api/leagues/{id}/players/{player}/performance", s.handlePerformance)

	mux.HandleFunc("GET /api/leagues/{id}/drafts/{season}/picks", s.handleDraftPicks)
	mux.HandleFunc("GET /api/leagues/{id}/drafts/{season}/ownership", s.handlePickOwnership)
	mux.HandleFunc("GET /api/leagues/{id}/drafts/{season}/picks/{pick}", s.handlePickJourney)
	mux.HandleFunc("GET /api/leagues/{id}/pick-chains", s.handlePickIdentities)
	mux.HandleFunc("GET /api/leagues/{id}/pick-chains/{season}/{round}/{roster}", s.handlePickChain)

	mux.HandleFunc("GET /api/users/{username}", s.handleUser)
	mux.HandleFunc("GET /api/users/{username}/leagues/{season}", s.handleUserLeagues)

	mux.HandleFunc("GET /api/stats/{season}", s.handleSeasonStats)
	mux.HandleFunc("GET /api/stats/{season}/players/{player}", s.handleSeasonSummary)
}

// reply writes v, or maps err.
func (s *Server) reply(w http.ResponseWriter, v any, err error) {
	if err != nil {
		s.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, r.PathValue(name))
	}
	return n, nil
}

// queryInt returns def when the parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.User(r.Context(), r.PathValue("username"))
	s.reply(w, u, err)
}

func (s *Server) handleUserLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := s.svc.UserLeagues(r.Context(), r.PathValue("username"), r.PathValue("season"))
	s.reply(w, leagues, err)
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	chain, err := s.svc.Chain(r.Context(), r.PathValue("id"))
	s.reply(w, chain, err)
}

func (s *Server) handleRosterNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.svc.RosterNames(r.Context(), r.PathValue("id"))
	s.reply(w, names, err)
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	cov, err := s.svc.HistoricalCoverage(r.Context(), r.PathValue("id"))
	s.reply(w, cov, err)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	tl, err := s.svc.Timeline(r.Context(), r.PathValue("id"))
	s.reply(w, tl, err)
}

func (s *Server) handleMatchups(w http.ResponseWriter, r *http.Request) {
	ms, err := s.svc.SeasonMatchups(r.Context(), r.PathValue("id"))
	s.reply(w, ms, err)
}

func (s *Server) handleConnectedTrades(w http.ResponseWriter, r *http.Request) {
	hours, err := queryInt(r, "window_hours", s.windowHours)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	trees, err := s.svc.ConnectedTrades(r.Context(), r.PathValue("id"), hours)
	s.reply(w, trees, err)
}

func (s *Server) handleTradedPicks(w http.ResponseWriter, r *http.Request) {
	picks, err := s.svc.TradedPicks(r.Context(), r.PathValue("id"))
	s.reply(w, picks, err)
}

func (s *Server) handleGenealogy(w http.ResponseWriter, r *http.Request) {
	holder, err := queryInt(r, "holder", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	g, err := s.svc.Genealogy(r.Context(), r.PathValue("id"), r.PathValue("asset"), holder)
	s.reply(w, g, err)
}

func (s *Server) handleAssetTree(w http.ResponseWriter, r *http.Request) {
	roster, err := pathInt(r, "roster")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	tree, err := s.svc.AssetTree(r.Context(), r.PathValue("id"), roster, r.PathValue("asset"))
	s.reply(w, tree, err)
}

func (s *Server) handleManagerTrace(w http.ResponseWriter, r *http.Request) {
	roster, err := pathInt(r, "roster")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	trace, err := s.svc.ManagerAssetTrace(r.Context(), r.PathValue("id"), roster, r.PathValue("asset"))
	s.reply(w, trace, err)
}

func (s *Server) handleRosterAnalysis(w http.ResponseWriter, r *http.Request) {
	roster, err := pathInt(r, "roster")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	out, err := s.svc.RosterAnalysis(r.Context(), r.PathValue("id"), roster)
	s.reply(w, out, err)
}

func (s *Server) handleTradeAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.svc.TradeAssets(r.Context(), r.PathValue("id"), r.PathValue("tx"))
	s.reply(w, assets, err)
}

func (s *Server) handleTradeImpact(w http.ResponseWriter, r *http.Request) {
	hours, err := queryInt(r, "window_hours", s.windowHours)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	impact, err := s.svc.TradeChainImpact(r.Context(), r.PathValue("id"), r.PathValue("tx"), hours)
	s.reply(w, impact, err)
}

func (s *Server) handleLifecycle(w http.ResponseWriter, r *http.Request) {
	events, err := s.svc.PlayerLifecycle(r.Context(), r.PathValue("id"), r.PathValue("player"))
	s.reply(w, events, err)
}

func (s *Server) handleStints(w http.ResponseWriter, r *http.Request) {
	stints, err := s.svc.PlayerStints(r.Context(), r.PathValue("id"), r.PathValue("player"))
	s.reply(w, stints, err)
}

// handlePerformance splits at ?since=tx, or windows between ?from=tx&to=tx.
func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	league, player := r.PathValue("id"), r.PathValue("player")

	switch {
	case q.Get("since") != "":
		split, err := s.svc.PerformanceSinceTransaction(r.Context(), league, player, q.Get("since"))
		s.reply(w, split, err)
	case q.Get("from") != "" && q.Get("to") != "":
		window, err := s.svc.PerformanceBetweenTransactions(r.Context(), league, player, q.Get("from"), q.Get("to"))
		s.reply(w, window, err)
	default:
		respondError(w, http.StatusBadRequest, fmt.Errorf("either since or from and to are required"))
	}
}

func (s *Server) handleDraftPicks(w http.ResponseWriter, r *http.Request) {
	picks, err := s.svc.LeagueDraftPicks(r.Context(), r.PathValue("id"), r.PathValue("season"))
	s.reply(w, picks, err)
}

func (s *Server) handlePickOwnership(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.DraftPickOwnership(r.Context(), r.PathValue("id"), r.PathValue("season"))
	s.reply(w, out, err)
}

func (s *Server) handlePickJourney(w http.ResponseWriter, r *http.Request) {
	pick, err := pathInt(r, "pick")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	j, err := s.svc.DraftPickJourney(r.Context(), r.PathValue("id"), r.PathValue("season"), pick)
	s.reply(w, j, err)
}

func (s *Server) handlePickIdentities(w http.ResponseWriter, r *http.Request) {
	chains, err := s.svc.PickIdentities(r.Context(), r.PathValue("id"))
	s.reply(w, chains, err)
}

func (s *Server) handlePickChain(w http.ResponseWriter, r *http.Request) {
	round, err := pathInt(r, "round")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	roster, err := pathInt(r, "roster")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	id := domain.PickIdentity{Season: r.PathValue("season"), Round: round, OriginalRosterID: roster}
	pc, err := s.svc.PickChain(r.Context(), r.PathValue("id"), id)
	s.reply(w, pc, err)
}

func (s *Server) handleSeasonStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.SeasonWeeklyStats(r.Context(), r.PathValue("season"))
	s.reply(w, stats, err)
}

func (s *Server) handleSeasonSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.PlayerSeasonSummary(r.Context(), r.PathValue("player"), r.PathValue("season"))
	s.reply(w, sum, err)
}
