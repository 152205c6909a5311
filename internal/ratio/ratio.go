// Package ratio derives the standard screening ratios from a financial
// snapshot. Calculation is pure and total: each ratio is computed
// independently, and a zero denominator yields a nil ratio instead of
// aborting the rest of the set.
package ratio

import "stockscreener/internal/model"

// Calculate maps a snapshot to its derived ratio set
func Calculate(s *model.FinancialSnapshot) model.RatioSet {
	var r model.RatioSet

	// Current Ratio = Current Assets / Current Liabilities.
	// Short-term liquidity; values between 1.5 and 3.0 are generally healthy.
	if s.CurrentLiabilities != 0 {
		v := s.CurrentAssets / s.CurrentLiabilities
		r.CurrentRatio = &v
	}

	// Debt-to-Equity = Total Debt / Total Shareholder Equity.
	// Leverage; below 1.0 is conservative, above 2.0 is highly leveraged.
	if s.TotalEquity != 0 {
		v := s.TotalDebt / s.TotalEquity
		r.DebtToEquity = &v
	}

	// ROE = Net Income / Total Shareholder Equity.
	if s.TotalEquity != 0 {
		v := s.NetIncome / s.TotalEquity
		r.ROE = &v
	}

	// Revenue Growth = (Current Revenue - Prior Revenue) / Prior Revenue.
	if s.PriorRevenue != 0 {
		v := (s.CurrentRevenue - s.PriorRevenue) / s.PriorRevenue
		r.RevenueGrowth = &v
	}

	// P/E = Market Price / EPS.
	if s.EPS != 0 {
		v := s.MarketPrice / s.EPS
		r.PERatio = &v
	}

	return r
}
