package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/fanout"
	"sleeper-trade-lab/internal/ingestion"
)

// CoverageStatusError marks a season whose data could not be read.
const CoverageStatusError = "error"

// ErrEmptyChain is returned when coverage is requested for no seasons.
var ErrEmptyChain = errors.New("league chain is empty")

// SeasonCoverage is the data available for one league instance.
type SeasonCoverage struct {
	Season       string
	LeagueID     string
	LeagueName   string
	Transactions int
	Drafts       int
	Status       string // league status, or CoverageStatusError
	HasData      bool
	Error        string
}

// Coverage summarizes the data available across a chain.
type Coverage struct {
	TotalSeasons      int
	TotalTransactions int
	SeasonsWithData   int
	Seasons           []SeasonCoverage // newest first
}

// HistoricalCoverage counts transactions and drafts per league instance. A
// season whose drafts fail, or that yielded no transactions while weeks
// failed, is reported with status error.
func HistoricalCoverage(ctx context.Context, n *ingestion.Normalizer, chain domain.LeagueChain, limit int) (*Coverage, error) {
	if len(chain) == 0 {
		return nil, ErrEmptyChain
	}

	results, err := fanout.Gather(ctx, len(chain), limit, func(ctx context.Context, i int) (SeasonCoverage, error) {
		return seasonCoverage(ctx, n, chain[i])
	})
	if err != nil {
		return nil, err
	}

	out := &Coverage{}
	for i, r := range results {
		sc := r.Value
		if r.Err != nil {
			l := chain[i]
			sc = SeasonCoverage{
				Season:     l.Season,
				LeagueID:   l.LeagueID,
				LeagueName: l.Name,
				Status:     CoverageStatusError,
				Error:      r.Err.Error(),
			}
		}
		out.TotalTransactions += sc.Transactions
		if sc.HasData {
			out.SeasonsWithData++
		}
		out.Seasons = append(out.Seasons, sc)
	}
	out.TotalSeasons = len(out.Seasons)

	sort.SliceStable(out.Seasons, func(i, j int) bool {
		return out.Seasons[i].Season > out.Seasons[j].Season
	})
	return out, nil
}

func seasonCoverage(ctx context.Context, n *ingestion.Normalizer, l domain.LeagueInstance) (SeasonCoverage, error) {
	txs, failures, err := n.SeasonTransactions(ctx, l)
	if err != nil {
		return SeasonCoverage{}, err
	}
	if len(txs) == 0 && len(failures) > 0 {
		return SeasonCoverage{}, fmt.Errorf("transactions of league %s: %w", l.LeagueID, failures[0].Err)
	}

	drafts, err := n.Gateway().GetDrafts(ctx, l.LeagueID)
	if err != nil {
		return SeasonCoverage{}, fmt.Errorf("drafts of league %s: %w", l.LeagueID, err)
	}

	return SeasonCoverage{
		Season:       l.Season,
		LeagueID:     l.LeagueID,
		LeagueName:   l.Name,
		Transactions: len(txs),
		Drafts:       len(drafts),
		Status:       l.Status,
		HasData:      len(txs) > 0 || len(drafts) > 0,
	}, nil
}
