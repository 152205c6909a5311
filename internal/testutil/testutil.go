package testutil

import (
	"context"

	"stockscreener/internal/fetcher"
	"stockscreener/internal/model"
)

// MockFetcher is a mock implementation of the Fetcher interface for testing
type MockFetcher struct {
	FetchFunc func(ctx context.Context, ticker string) (*model.FinancialSnapshot, error)
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(ctx context.Context, ticker string) (*model.FinancialSnapshot, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, ticker)
	}
	return Snapshot(fetcher.Normalize(ticker)), nil
}

// NewMockFetcher creates a mock that returns a fixed snapshot or error for
// every ticker
func NewMockFetcher(snap *model.FinancialSnapshot, err error) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context, ticker string) (*model.FinancialSnapshot, error) {
			if err != nil {
				return nil, err
			}
			return snap, nil
		},
	}
}

// Snapshot returns a healthy reference snapshot: current ratio 1.5,
// debt-to-equity 0.4, ROE 0.2, revenue growth ~0.111, P/E 10.
func Snapshot(ticker string) *model.FinancialSnapshot {
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
