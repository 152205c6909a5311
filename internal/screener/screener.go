package screener

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"stockscreener/internal/criteria"
	"stockscreener/internal/fetcher"
	"stockscreener/internal/model"
	"stockscreener/internal/ratio"
)

// Screener drives the fetch-calculate-evaluate pipeline over a ticker list
// with a bounded worker pool. Per-ticker failures become skip entries; a
// single ticker can never abort the run.
type Screener struct {
	fetcher     fetcher.Fetcher
	criteria    []criteria.Criterion
	concurrency int
	logger      zerolog.Logger
}

// job carries one ticker together with its position in the input list
type job struct {
	index  int
	ticker string
}

// New creates a Screener. Concurrency below 1 is treated as sequential.
func New(f fetcher.Fetcher, crits []criteria.Criterion, concurrency int, logger zerolog.Logger) *Screener {
	if concurrency < 1 {
		concurrency = 1
	}

	return &Screener{
		fetcher:     f,
		criteria:    crits,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "screener").Logger(),
	}
}

// Run screens every ticker and returns a report with exactly one entry per
// input ticker, in input order regardless of completion order. Cancellation
// stops dispatching new tickers promptly; tickers never dispatched are
// recorded as skipped.
func (s *Screener) Run(ctx context.Context, tickers []string) *model.ScreeningReport {
	results := make([]model.TickerResult, len(tickers))

	jobs := make(chan job)
	var wg sync.WaitGroup

	for i := 0; i < s.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				// Each worker writes only its own index, so the slice
				// needs no locking
				results[j.index] = s.screenOne(ctx, j.ticker)
			}
		}()
	}

dispatch:
	for i, ticker := range tickers {
		select {
		case <-ctx.Done():
			for k := i; k < len(tickers); k++ {
				results[k] = model.TickerResult{
					Ticker:     fetcher.Normalize(tickers[k]),
					SkipReason: "run canceled",
				}
			}
			break dispatch
		case jobs <- job{index: i, ticker: ticker}:
		}
	}
	close(jobs)
	wg.Wait()

	return &model.ScreeningReport{Results: results}
}

// screenOne runs the strictly sequential per-ticker pipeline:
// fetch, then calculate ratios, then evaluate criteria
func (s *Screener) screenOne(ctx context.Context, ticker string) model.TickerResult {
	symbol := fetcher.Normalize(ticker)

	snap, err := s.fetcher.Fetch(ctx, ticker)
	if err != nil {
		reason := fetcher.Reason(err)
		s.logger.Warn().Str("ticker", symbol).Str("reason", reason).Err(err).Msg("skipping ticker")
		return model.TickerResult{Ticker: symbol, SkipReason: reason}
	}

	ratios := ratio.Calculate(snap)
	result := criteria.Evaluate(snap, ratios, s.criteria)

	s.logger.Info().
		Str("ticker", symbol).
		Str("status", result.Status).
		Int("passed", result.PassedCriteria).
		Int("total", result.TotalCriteria).
		Msg("screened ticker")

	return model.TickerResult{Ticker: symbol, Result: &result}
}
