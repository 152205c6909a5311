package cache

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"stockscreener/internal/model"
)

func testSnapshot(ticker string) *model.FinancialSnapshot {
	return &model.FinancialSnapshot{
		Ticker:             ticker,
		CompanyName:        ticker + " Corp",
		MarketCap:          5e9,
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

func openTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := Open(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() returned unexpected error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRoundTrip(t *testing.T) {
	store := openTestStore(t)
	snap := testSnapshot("AAPL")

	store.Put("AAPL", snap)

	got, ok := store.Get("AAPL", time.Hour)
	if !ok {
		t.Fatal("Get() reported a miss immediately after Put()")
	}
	if *got != *snap {
		t.Errorf("Get() = %+v, want %+v", *got, *snap)
	}
}

func TestMissOnUnknownTicker(t *testing.T) {
	store := openTestStore(t)

	if _, ok := store.Get("MSFT", time.Hour); ok {
		t.Error("Get() reported a hit for a ticker never written")
	}
}

func TestExpiry(t *testing.T) {
	store := openTestStore(t)
	snap := testSnapshot("AAPL")

	captured := time.Now()
	store.now = func() time.Time { return captured }
	store.Put("AAPL", snap)

	ttl := 10 * time.Minute

	// Just inside the TTL window
	store.now = func() time.Time { return captured.Add(ttl) }
	if _, ok := store.Get("AAPL", ttl); !ok {
		t.Error("Get() reported a miss for an entry exactly at TTL age")
	}

	// Just past the TTL window
	store.now = func() time.Time { return captured.Add(ttl + time.Second) }
	if _, ok := store.Get("AAPL", ttl); ok {
		t.Error("Get() reported a hit for an expired entry")
	}
}

func TestPutOverwritesAndRefreshesTimestamp(t *testing.T) {
	store := openTestStore(t)

	old := testSnapshot("AAPL")
	old.MarketPrice = 10

	captured := time.Now()
	store.now = func() time.Time { return captured.Add(-2 * time.Hour) }
	store.Put("AAPL", old)

	fresh := testSnapshot("AAPL")
	store.now = func() time.Time { return captured }
	store.Put("AAPL", fresh)

	got, ok := store.Get("AAPL", time.Hour)
	if !ok {
		t.Fatal("Get() reported a miss after overwrite")
	}
	if got.MarketPrice != fresh.MarketPrice {
		t.Errorf("MarketPrice = %v, want %v (stale entry survived overwrite)", got.MarketPrice, fresh.MarketPrice)
	}
}

func TestZeroTTLAlwaysMisses(t *testing.T) {
	store := openTestStore(t)
	store.Put("AAPL", testSnapshot("AAPL"))

	if _, ok := store.Get("AAPL", 0); ok {
		t.Error("Get() with zero TTL reported a hit")
	}
}

func TestDurableAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	snap := testSnapshot("AAPL")

	store, err := Open(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() returned unexpected error: %v", err)
	}
	store.Put("AAPL", snap)
	if err := store.Close(); err != nil {
		t.Fatalf("Close() returned unexpected error: %v", err)
	}

	reopened, err := Open(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopening store returned unexpected error: %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.Get("AAPL", time.Hour)
	if !ok {
		t.Fatal("Get() reported a miss after reopening the store")
	}
	if *got != *snap {
		t.Errorf("Get() = %+v, want %+v", *got, *snap)
	}
}

func TestNop(t *testing.T) {
	var store Store = Nop{}

	store.Put("AAPL", testSnapshot("AAPL"))
	if _, ok := store.Get("AAPL", time.Hour); ok {
		t.Error("Nop.Get() reported a hit")
	}
	if err := store.Close(); err != nil {
		t.Errorf("Nop.Close() returned unexpected error: %v", err)
	}
}
