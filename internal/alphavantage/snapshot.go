package alphavantage

import (
	"context"
	"strconv"

	"resty.dev/v3"

	"stockscreener/internal/fetcher"
	"stockscreener/internal/model"
)

// OverviewResponse represents the AlphaVantage OVERVIEW response. AlphaVantage
// returns an empty JSON object for symbols it does not know.
type OverviewResponse struct {
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	MarketCapitalization string `json:"MarketCapitalization"`
	EPS                  string `json:"EPS"`
}

// GlobalQuoteResponse represents the AlphaVantage GLOBAL_QUOTE response
type GlobalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
}

// BalanceSheetResponse represents the AlphaVantage BALANCE_SHEET response.
// Annual reports are ordered most recent first.
type BalanceSheetResponse struct {
	Symbol        string `json:"symbol"`
	AnnualReports []struct {
		FiscalDateEnding        string `json:"fiscalDateEnding"`
		TotalCurrentAssets      string `json:"totalCurrentAssets"`
		TotalCurrentLiabilities string `json:"totalCurrentLiabilities"`
		ShortLongTermDebtTotal  string `json:"shortLongTermDebtTotal"`
		TotalShareholderEquity  string `json:"totalShareholderEquity"`
	} `json:"annualReports"`
}

// IncomeStatementResponse represents the AlphaVantage INCOME_STATEMENT response
type IncomeStatementResponse struct {
	Symbol        string `json:"symbol"`
	AnnualReports []struct {
		FiscalDateEnding string `json:"fiscalDateEnding"`
		TotalRevenue     string `json:"totalRevenue"`
		NetIncome        string `json:"netIncome"`
	} `json:"annualReports"`
}

// Client assembles financial snapshots from the AlphaVantage fundamentals
// and quote endpoints
type Client struct {
	apiKey string
	client *resty.Client
}

// NewClient creates a new AlphaVantage snapshot client
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey: apiKey,
		client: fetcher.NewHTTPClient(baseURL),
	}
}

// FetchSnapshot retrieves company overview, quote, balance sheet and income
// statement for the ticker and assembles one fully populated snapshot.
// Any required field that is absent fails the whole fetch with a
// missing-data error; no partial snapshot is returned.
func (c *Client) FetchSnapshot(ctx context.Context, ticker string) (*model.FinancialSnapshot, error) {
	var overview OverviewResponse
	if err := c.get(ctx, "OVERVIEW", ticker, &overview); err != nil {
		return nil, err
	}

	// An empty overview payload means AlphaVantage does not know the symbol
	if overview.Symbol == "" && overview.Name == "" {
		return nil, fetcher.NewInvalidTickerError(ticker)
	}

	var quote GlobalQuoteResponse
	if err := c.get(ctx, "GLOBAL_QUOTE", ticker, &quote); err != nil {
		return nil, err
	}

	var balance BalanceSheetResponse
	if err := c.get(ctx, "BALANCE_SHEET", ticker, &balance); err != nil {
		return nil, err
	}

	var income IncomeStatementResponse
	if err := c.get(ctx, "INCOME_STATEMENT", ticker, &income); err != nil {
		return nil, err
	}

	if len(balance.AnnualReports) < 1 {
		return nil, fetcher.NewMissingDataError(ticker, "balance_sheet")
	}
	// Revenue growth needs the prior fiscal year as well
	if len(income.AnnualReports) < 2 {
		return nil, fetcher.NewMissingDataError(ticker, "income_statement")
	}

	latestBalance := balance.AnnualReports[0]
	latestIncome := income.AnnualReports[0]
	priorIncome := income.AnnualReports[1]

	snap := &model.FinancialSnapshot{
		Ticker:      ticker,
		CompanyName: overview.Name,
	}
	if snap.CompanyName == "" {
		snap.CompanyName = ticker
	}

	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"market_capitalization", overview.MarketCapitalization, &snap.MarketCap},
		{"eps", overview.EPS, &snap.EPS},
		{"price", quote.GlobalQuote.Price, &snap.MarketPrice},
		{"total_current_assets", latestBalance.TotalCurrentAssets, &snap.CurrentAssets},
		{"total_current_liabilities", latestBalance.TotalCurrentLiabilities, &snap.CurrentLiabilities},
		{"total_debt", latestBalance.ShortLongTermDebtTotal, &snap.TotalDebt},
		{"total_shareholder_equity", latestBalance.TotalShareholderEquity, &snap.TotalEquity},
		{"net_income", latestIncome.NetIncome, &snap.NetIncome},
		{"total_revenue", latestIncome.TotalRevenue, &snap.CurrentRevenue},
		{"prior_total_revenue", priorIncome.TotalRevenue, &snap.PriorRevenue},
	}

	for _, f := range fields {
		value, ok := parseField(f.raw)
		if !ok {
			return nil, fetcher.NewMissingDataError(ticker, f.name)
		}
		*f.dst = value
	}

	return snap, nil
}

// get performs one AlphaVantage function call and classifies failures
func (c *Client) get(ctx context.Context, function, ticker string, result any) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   c.apiKey,
			"function": function,
			"symbol":   ticker,
		}).
		SetResult(result).
		Get("")

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fetcher.NewNetworkError(err)
	}

	if !resp.IsSuccess() {
		return fetcher.ClassifyHTTPError(resp.StatusCode())
	}

	return nil
}

// parseField parses an AlphaVantage numeric field. Absent values arrive as
// "", "None" or "-" rather than as JSON null.
func parseField(raw string) (float64, bool) {
	if raw == "" || raw == "None" || raw == "-" {
		return 0, false
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}
