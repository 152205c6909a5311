package cache

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/timshannon/badgerhold/v4"

	"stockscreener/internal/model"
)

// Store is the snapshot cache consulted by the fetcher. A Get with any entry
// older than ttl reports a miss. Storage failures degrade: Get reports a miss
// and Put becomes a no-op, so a broken cache never aborts a screening run.
type Store interface {
	Get(ticker string, ttl time.Duration) (*model.FinancialSnapshot, bool)
	Put(ticker string, snap *model.FinancialSnapshot)
	Close() error
}

// Entry wraps one cached snapshot with its capture timestamp. Entries are
// keyed by the normalized ticker and unconditionally overwritten on Put.
type Entry struct {
	Ticker     string
	Snapshot   model.FinancialSnapshot
	CapturedAt time.Time
}

// BadgerStore is a durable Store backed by an embedded Badger database, so a
// re-run within the TTL window issues zero network calls for cached tickers.
type BadgerStore struct {
	store  *badgerhold.Store
	logger zerolog.Logger
	now    func() time.Time
}

// Open opens (creating if necessary) the cache database in dir
func Open(dir string, logger zerolog.Logger) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	opts := badgerhold.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir
	opts.Logger = nil

	store, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot cache at %s: %w", dir, err)
	}

	return &BadgerStore{
		store:  store,
		logger: logger.With().Str("component", "cache").Logger(),
		now:    time.Now,
	}, nil
}

// Get returns the cached snapshot for ticker if an entry exists and is no
// older than ttl
func (s *BadgerStore) Get(ticker string, ttl time.Duration) (*model.FinancialSnapshot, bool) {
	if ttl <= 0 {
		return nil, false
	}

	var entry Entry
	if err := s.store.Get(ticker, &entry); err != nil {
		if err != badgerhold.ErrNotFound {
			s.logger.Warn().Str("ticker", ticker).Err(err).Msg("cache read failed, treating as miss")
		}
		return nil, false
	}

	if s.now().Sub(entry.CapturedAt) > ttl {
		s.logger.Debug().Str("ticker", ticker).Time("captured_at", entry.CapturedAt).Msg("cache entry expired")
		return nil, false
	}

	return &entry.Snapshot, true
}

// Put stores the snapshot under the ticker key with a fresh capture
// timestamp, overwriting any prior entry
func (s *BadgerStore) Put(ticker string, snap *model.FinancialSnapshot) {
	entry := Entry{
		Ticker:     ticker,
		Snapshot:   *snap,
		CapturedAt: s.now(),
	}

	if err := s.store.Upsert(ticker, &entry); err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("cache write failed, continuing without cache")
	}
}

// Close closes the underlying database
func (s *BadgerStore) Close() error {
	return s.store.Close()
}

// Nop is the Store used when caching is disabled: every Get misses and Put
// discards, which leaves the fetcher logic untouched.
type Nop struct{}

func (Nop) Get(string, time.Duration) (*model.FinancialSnapshot, bool) { return nil, false }

func (Nop) Put(string, *model.FinancialSnapshot) {}

func (Nop) Close() error { return nil }
