package fetcher

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stockscreener/internal/cache"
	"stockscreener/internal/model"
	"stockscreener/internal/ratelimit"
)

// Fetcher retrieves the financial snapshot for one ticker.
type Fetcher interface {
	// Fetch returns a fully populated snapshot or a *FetchError describing
	// why the ticker could not be fetched.
	Fetch(ctx context.Context, ticker string) (*model.FinancialSnapshot, error)
}

// Client retrieves a raw snapshot from the upstream data source. Retry and
// backoff for transient failures happen inside the client; the error it
// returns is terminal for this fetch.
type Client interface {
	FetchSnapshot(ctx context.Context, ticker string) (*model.FinancialSnapshot, error)
}

// Well-formed ticker symbols after normalization: letters, digits, dots and
// dashes, starting with a letter, at most 10 characters.
var tickerPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// Normalize upper-cases and trims a ticker symbol. All cache keys and
// upstream requests use the normalized form.
func Normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// SnapshotFetcher is the cache-first fetcher: it consults the cache store,
// falls back to the upstream client behind the rate limiter, and writes
// successful fetches back to the cache. It is cache-policy-agnostic: a
// disabled cache simply always misses.
type SnapshotFetcher struct {
	client  Client
	cache   cache.Store
	limiter *ratelimit.Limiter
	ttl     time.Duration
	logger  zerolog.Logger
}

// New creates a SnapshotFetcher over the given upstream client and cache store
func New(client Client, store cache.Store, limiter *ratelimit.Limiter, ttl time.Duration, logger zerolog.Logger) *SnapshotFetcher {
	return &SnapshotFetcher{
		client:  client,
		cache:   store,
		limiter: limiter,
		ttl:     ttl,
		logger:  logger.With().Str("component", "fetcher").Logger(),
	}
}

// Fetch implements the Fetcher interface.
//
// Order matters: syntax validation happens before any network attempt so an
// invalid symbol never consumes retry budget, and the cache is consulted
// before the rate limiter so cache hits never wait on the limiter.
func (f *SnapshotFetcher) Fetch(ctx context.Context, ticker string) (*model.FinancialSnapshot, error) {
	symbol := Normalize(ticker)
	if !tickerPattern.MatchString(symbol) {
		return nil, NewInvalidTickerError(ticker)
	}

	if snap, ok := f.cache.Get(symbol, f.ttl); ok {
		f.logger.Debug().Str("ticker", symbol).Msg("cache hit")
		return snap, nil
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	snap, err := f.client.FetchSnapshot(ctx, symbol)
	if err != nil {
		return nil, err
	}

	f.cache.Put(symbol, snap)
	f.logger.Debug().Str("ticker", symbol).Msg("fetched snapshot from upstream")

	return snap, nil
}
