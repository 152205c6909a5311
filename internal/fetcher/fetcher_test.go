package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"stockscreener/internal/model"
	"stockscreener/internal/ratelimit"
)

// fakeClient counts upstream calls and plays back a scripted response
type fakeClient struct {
	calls int
	snap  *model.FinancialSnapshot
	err   error
}

func (c *fakeClient) FetchSnapshot(ctx context.Context, ticker string) (*model.FinancialSnapshot, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.snap, nil
}

// memStore is an in-memory cache.Store for fetcher tests
type memStore struct {
	entries map[string]*model.FinancialSnapshot
	puts    int
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]*model.FinancialSnapshot)}
}

func (s *memStore) Get(ticker string, ttl time.Duration) (*model.FinancialSnapshot, bool) {
	snap, ok := s.entries[ticker]
	return snap, ok
}

func (s *memStore) Put(ticker string, snap *model.FinancialSnapshot) {
	s.puts++
	s.entries[ticker] = snap
}

func (s *memStore) Close() error { return nil }

func testSnapshot() *model.FinancialSnapshot {
	return &model.FinancialSnapshot{
		Ticker:             "AAPL",
		CompanyName:        "Apple Inc",
		MarketCap:          3e12,
		CurrentAssets:      150,
		CurrentLiabilities: 100,
		TotalDebt:          80,
		TotalEquity:        200,
		NetIncome:          40,
		CurrentRevenue:     1000,
		PriorRevenue:       900,
		EPS:                5,
		MarketPrice:        50,
	}
}

func newTestFetcher(client Client, store *memStore) *SnapshotFetcher {
	return New(client, store, ratelimit.New(0), time.Hour, zerolog.Nop())
}

func TestFetch_InvalidTickerSkipsNetwork(t *testing.T) {
	tests := []string{"", "123", "TOOLONGSYMBOL", "BAD SYMBOL", ".X"}

	for _, ticker := range tests {
		t.Run(ticker, func(t *testing.T) {
			client := &fakeClient{snap: testSnapshot()}
			f := newTestFetcher(client, newMemStore())

			_, err := f.Fetch(context.Background(), ticker)
			if KindOf(err) != KindInvalidTicker {
				t.Errorf("Fetch(%q) error kind = %q, want %q", ticker, KindOf(err), KindInvalidTicker)
			}
			if client.calls != 0 {
				t.Errorf("Fetch(%q) made %d upstream calls, want 0", ticker, client.calls)
			}
		})
	}
}

func TestFetch_Normalization(t *testing.T) {
	client := &fakeClient{snap: testSnapshot()}
	store := newMemStore()
	f := newTestFetcher(client, store)

	if _, err := f.Fetch(context.Background(), "  aapl "); err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}

	if _, ok := store.entries["AAPL"]; !ok {
		t.Errorf("cache keys = %v, want entry under normalized key AAPL", store.entries)
	}
}

func TestFetch_CacheHitSkipsNetwork(t *testing.T) {
	client := &fakeClient{snap: testSnapshot()}
	store := newMemStore()
	store.entries["AAPL"] = testSnapshot()
	f := newTestFetcher(client, store)

	snap, err := f.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}
	if snap == nil {
		t.Fatal("Fetch() returned nil snapshot")
	}
	if client.calls != 0 {
		t.Errorf("Fetch() made %d upstream calls on a cache hit, want 0", client.calls)
	}
}

func TestFetch_SuccessWritesCache(t *testing.T) {
	client := &fakeClient{snap: testSnapshot()}
	store := newMemStore()
	f := newTestFetcher(client, store)

	snap, err := f.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}
	if snap.CompanyName != "Apple Inc" {
		t.Errorf("CompanyName = %q, want %q", snap.CompanyName, "Apple Inc")
	}
	if store.puts != 1 {
		t.Errorf("cache puts = %d, want 1", store.puts)
	}
}

func TestFetch_FailureDoesNotWriteCache(t *testing.T) {
	tests := []struct {
		name string
		err  *FetchError
		kind ErrorKind
	}{
		{"network", NewNetworkError(errors.New("connection refused")), KindNetwork},
		{"rate limit", NewRateLimitError(429), KindRateLimit},
		{"missing data", NewMissingDataError("AAPL", "eps"), KindMissingData},
		{"unknown symbol", NewInvalidTickerError("AAPL"), KindInvalidTicker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{err: tt.err}
			store := newMemStore()
			f := newTestFetcher(client, store)

			_, err := f.Fetch(context.Background(), "AAPL")
			if KindOf(err) != tt.kind {
				t.Errorf("error kind = %q, want %q", KindOf(err), tt.kind)
			}
			if store.puts != 0 {
				t.Errorf("cache puts = %d, want 0 after failed fetch", store.puts)
			}
		})
	}
}

func TestFetch_CanceledContext(t *testing.T) {
	client := &fakeClient{snap: testSnapshot()}
	f := newTestFetcher(client, newMemStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, "AAPL")
	if err == nil {
		t.Error("Fetch() with canceled context expected error, got nil")
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewInvalidTickerError("X1"), "invalid ticker symbol"},
		{NewMissingDataError("AAPL", "eps"), "required financial data missing"},
		{NewNetworkError(errors.New("dial tcp")), "network failure after retries"},
		{NewRateLimitError(429), "upstream rate limit exceeded"},
		{NewCacheError(errors.New("disk full")), "cache failure"},
		{context.Canceled, "run canceled"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Reason(tt.err); got != tt.want {
				t.Errorf("Reason() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"aapl", "AAPL"},
		{" MSFT ", "MSFT"},
		{"brk.b", "BRK.B"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
