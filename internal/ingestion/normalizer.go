package ingestion

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/fanout"
	"sleeper-trade-lab/internal/sleeper"
)

// Normalizer flattens per-week and per-draft pages into season-tagged collections.
type Normalizer struct {
	gateway sleeper.Gateway
	weeks   int
	limit   int
	logger  *log.Logger
}

// NormalizerOptions contains configuration for creating a Normalizer.
type NormalizerOptions struct {
	Gateway sleeper.Gateway
	Weeks   int // weeks per season, defaults to domain.SeasonWeeks
	Limit   int // in-flight weekly fetches, 0 means unbounded
	Logger  *log.Logger
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer(opts NormalizerOptions) *Normalizer {
	weeks := opts.Weeks
	if weeks <= 0 {
		weeks = domain.SeasonWeeks
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Normalizer{
		gateway: opts.Gateway,
		weeks:   weeks,
		limit:   opts.Limit,
		logger:  logger,
	}
}

// Gateway returns the upstream gateway the normalizer reads from.
func (n *Normalizer) Gateway() sleeper.Gateway {
	return n.gateway
}

// SeasonTransactions fetches weeks 1..N of one league instance concurrently.
// A failed week contributes nothing and is reported in the returned failures.
// The error is non-nil only when ctx was cancelled.
func (n *Normalizer) SeasonTransactions(ctx context.Context, league domain.LeagueInstance) ([]domain.TransactionRecord, []fanout.Failure, error) {
	results, err := fanout.Gather(ctx, n.weeks, n.limit, func(ctx context.Context, i int) ([]domain.TransactionRecord, error) {
		return n.gateway.GetTransactions(ctx, league.LeagueID, i+1)
	})
	if err != nil {
		return nil, nil, err
	}

	pages, failures := fanout.Split(results, "transactions", func(i int) string {
		return fmt.Sprintf("league %s week %d", league.LeagueID, i+1)
	})
	n.logFailures(failures)

	var out []domain.TransactionRecord
	for _, page := range pages {
		for _, tx := range page {
			tx.LeagueID = league.LeagueID
			tx.Season = league.Season
			out = append(out, tx)
		}
	}
	return out, failures, nil
}

// ChainTransactions fetches every season of a chain, newest first as given.
func (n *Normalizer) ChainTransactions(ctx context.Context, chain domain.LeagueChain) ([]domain.TransactionRecord, []fanout.Failure, error) {
	var (
		out      []domain.TransactionRecord
		failures []fanout.Failure
	)
	for _, league := range chain {
		txs, failed, err := n.SeasonTransactions(ctx, league)
		if err != nil {
			return out, failures, err
		}
		out = append(out, txs...)
		failures = append(failures, failed...)
	}
	return out, failures, nil
}

// DraftBundle is a draft with its configuration and selections.
type DraftBundle struct {
	Draft domain.Draft
	Picks []domain.DraftPick
}

// Drafts fetches a league's drafts and their picks. Drafts without an id are
// skipped. Missing slot configuration is completed from the draft endpoint.
func (n *Normalizer) Drafts(ctx context.Context, league domain.LeagueInstance) ([]DraftBundle, []fanout.Failure, error) {
	drafts, err := n.gateway.GetDrafts(ctx, league.LeagueID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch drafts for league %s: %w", league.LeagueID, err)
	}

	var usable []domain.Draft
	for _, d := range drafts {
		if d.DraftID == "" {
			continue
		}
		if d.Season == "" {
			d.Season = league.Season
		}
		if d.LeagueID == "" {
			d.LeagueID = league.LeagueID
		}
		usable = append(usable, d)
	}

	results, err := fanout.Gather(ctx, len(usable), n.limit, func(ctx context.Context, i int) (DraftBundle, error) {
		d := usable[i]
		if len(d.SlotToRosterID) == 0 {
			full, err := n.gateway.GetDraft(ctx, d.DraftID)
			if err == nil && full != nil {
				d.SlotToRosterID = full.SlotToRosterID
				if len(d.DraftOrder) == 0 {
					d.DraftOrder = full.DraftOrder
				}
				if d.Teams == 0 {
					d.Teams = full.Teams
				}
			}
		}
		picks, err := n.gateway.GetDraftPicks(ctx, d.DraftID)
		if err != nil {
			return DraftBundle{}, err
		}
		for j := range picks {
			picks[j].Season = d.Season
			if picks[j].DraftID == "" {
				picks[j].DraftID = d.DraftID
			}
		}
		return DraftBundle{Draft: d, Picks: picks}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	bundles, failures := fanout.Split(results, "draft_picks", func(i int) string {
		return "draft " + usable[i].DraftID
	})
	n.logFailures(failures)
	return bundles, failures, nil
}

// ChainDrafts fetches drafts for every instance of a chain. A league whose
// draft list fails is recorded as a failure.
func (n *Normalizer) ChainDrafts(ctx context.Context, chain domain.LeagueChain) ([]DraftBundle, []fanout.Failure, error) {
	var (
		out      []DraftBundle
		failures []fanout.Failure
	)
	for _, league := range chain {
		bundles, failed, err := n.Drafts(ctx, league)
		if err != nil {
			if ctx.Err() != nil {
				return out, failures, ctx.Err()
			}
			n.logger.Printf("Skipping drafts of league %s: %v", league.LeagueID, err)
			failures = append(failures, fanout.Failure{Key: "drafts " + league.LeagueID, Err: err})
			continue
		}
		out = append(out, bundles...)
		failures = append(failures, failed...)
	}
	return out, failures, nil
}

// SeasonMatchups fetches weeks 1..N of matchups for one league instance.
func (n *Normalizer) SeasonMatchups(ctx context.Context, league domain.LeagueInstance) ([]domain.Matchup, []fanout.Failure, error) {
	results, err := fanout.Gather(ctx, n.weeks, n.limit, func(ctx context.Context, i int) ([]domain.Matchup, error) {
		return n.gateway.GetMatchups(ctx, league.LeagueID, i+1)
	})
	if err != nil {
		return nil, nil, err
	}

	_, failures := fanout.Split(results, "matchups", func(i int) string {
		return fmt.Sprintf("league %s week %d", league.LeagueID, i+1)
	})
	n.logFailures(failures)

	var out []domain.Matchup
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		for _, m := range r.Value {
			m.LeagueID = league.LeagueID
			m.Week = r.Index + 1
			out = append(out, m)
		}
	}
	return out, failures, nil
}

// SeasonWeeklyStats fetches weeks 1..N of player stats for a season.
func (n *Normalizer) SeasonWeeklyStats(ctx context.Context, season string) ([]domain.PlayerWeekStats, []fanout.Failure, error) {
	results, err := fanout.Gather(ctx, n.weeks, n.limit, func(ctx context.Context, i int) ([]domain.PlayerWeekStats, error) {
		return n.gateway.GetWeeklyStats(ctx, season, i+1)
	})
	if err != nil {
		return nil, nil, err
	}

	pages, failures := fanout.Split(results, "weekly_stats", func(i int) string {
		return "season " + season + " week " + strconv.Itoa(i+1)
	})
	n.logFailures(failures)

	var out []domain.PlayerWeekStats
	for _, page := range pages {
		out = append(out, page...)
	}
	return out, failures, nil
}

// PlayerStats collects a player's weekly lines across seasons in the order
// given. Seasons are fetched concurrently and a failed season is skipped.
func (n *Normalizer) PlayerStats(ctx context.Context, playerID string, seasons []string) ([]domain.PlayerWeekStats, []fanout.Failure, error) {
	results, err := fanout.Gather(ctx, len(seasons), fanout.DefaultLimit, func(ctx context.Context, i int) ([]domain.PlayerWeekStats, error) {
		lines, failed, err := n.SeasonWeeklyStats(ctx, seasons[i])
		if err != nil {
			return nil, err
		}
		if len(failed) == n.weeks {
			return nil, fmt.Errorf("no weeks available for season %s", seasons[i])
		}
		var mine []domain.PlayerWeekStats
		for _, l := range lines {
			if l.PlayerID == playerID {
				mine = append(mine, l)
			}
		}
		return mine, nil
	})
	if err != nil {
		return nil, nil, err
	}

	pages, failures := fanout.Split(results, "player_stats", func(i int) string {
		return "season " + seasons[i]
	})
	n.logFailures(failures)

	var out []domain.PlayerWeekStats
	for _, page := range pages {
		out = append(out, page...)
	}
	return out, failures, nil
}

func (n *Normalizer) logFailures(failures []fanout.Failure) {
	for _, f := range failures {
		n.logger.Printf("Skipping %s: %v", f.Key, f.Err)
	}
}
