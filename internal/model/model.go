package model

// Status values for a screened ticker.
const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
)

// FinancialSnapshot holds the raw financial figures retrieved for one ticker
// at one point in time. A snapshot is always fully populated: the fetcher
// fails with a missing-data error rather than constructing a partial one.
type FinancialSnapshot struct {
	Ticker             string  `json:"ticker"`
	CompanyName        string  `json:"company_name"`
	MarketCap          float64 `json:"market_cap"`
	CurrentAssets      float64 `json:"current_assets"`
	CurrentLiabilities float64 `json:"current_liabilities"`
	TotalDebt          float64 `json:"total_debt"`
	TotalEquity        float64 `json:"total_equity"`
	NetIncome          float64 `json:"net_income"`
	CurrentRevenue     float64 `json:"current_revenue"`
	PriorRevenue       float64 `json:"prior_revenue"`
	EPS                float64 `json:"eps"`
	MarketPrice        float64 `json:"market_price"`
}

// RatioSet holds the ratios derived from one snapshot. A nil field means the
// ratio could not be computed (zero denominator); it is never zero-by-default.
type RatioSet struct {
	CurrentRatio  *float64 `json:"current_ratio"`
	DebtToEquity  *float64 `json:"debt_to_equity"`
	ROE           *float64 `json:"roe"`
	RevenueGrowth *float64 `json:"revenue_growth"`
	PERatio       *float64 `json:"pe_ratio"`
}

// CriterionCheck records the outcome of one criterion for one ticker.
// Actual is nil when the underlying metric could not be resolved.
type CriterionCheck struct {
	Name   string   `json:"name"`
	Passed bool     `json:"passed"`
	Actual *float64 `json:"actual"`
	Reason string   `json:"reason,omitempty"`
}

// CriteriaResult is the per-ticker screening outcome: the evaluated checks in
// declaration order plus the snapshot fields and ratios the exporter reports.
type CriteriaResult struct {
	Ticker         string           `json:"ticker"`
	CompanyName    string           `json:"company_name"`
	MarketCap      float64          `json:"market_cap"`
	NetIncome      float64          `json:"net_income"`
	Ratios         RatioSet         `json:"ratios"`
	Checks         []CriterionCheck `json:"checks"`
	PassedCriteria int              `json:"passed_criteria"`
	TotalCriteria  int              `json:"total_criteria"`
	FailedCriteria []string         `json:"failed_criteria"`
	Status         string           `json:"status"`
}

// TickerResult is one entry of a ScreeningReport: either an evaluated result
// or a skip record carrying the reason the ticker could not be screened.
type TickerResult struct {
	Ticker     string          `json:"ticker"`
	Result     *CriteriaResult `json:"result,omitempty"`
	SkipReason string          `json:"skip_reason,omitempty"`
}

// Skipped reports whether this entry is a skip record.
func (r TickerResult) Skipped() bool {
	return r.Result == nil
}

// ScreeningReport holds one entry per requested ticker, in request order.
type ScreeningReport struct {
	Results []TickerResult `json:"results"`
}

// Passing returns the results whose overall status is PASS, in report order.
func (r *ScreeningReport) Passing() []*CriteriaResult {
	var passing []*CriteriaResult
	for i := range r.Results {
		if res := r.Results[i].Result; res != nil && res.Status == StatusPass {
			passing = append(passing, res)
		}
	}
	return passing
}
