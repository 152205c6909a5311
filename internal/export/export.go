// Package export serializes screening reports. It contains no decision
// logic: every column it writes is populated by the core pipeline.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"stockscreener/internal/model"
)

// Columns is the report column set, in output order
var Columns = []string{
	"ticker",
	"company_name",
	"market_cap",
	"pe_ratio",
	"current_ratio",
	"debt_to_equity",
	"revenue_growth",
	"roe",
	"net_income",
	"passed_criteria",
	"total_criteria",
	"failed_criteria",
	"status",
	"error",
}

// WriteCSV writes the report as CSV with a header row. Skipped tickers get a
// row with empty metric columns and the skip reason in the error column.
func WriteCSV(w io.Writer, report *model.ScreeningReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range report.Results {
		if err := cw.Write(row(entry)); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", entry.Ticker, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func row(entry model.TickerResult) []string {
	if entry.Skipped() {
		return []string{
			entry.Ticker,
			entry.Ticker,
			"", "", "", "", "", "",
			"",
			"0", "0", "",
			model.StatusFail,
			entry.SkipReason,
		}
	}

	r := entry.Result
	return []string{
		r.Ticker,
		r.CompanyName,
		formatFloat(&r.MarketCap),
		formatFloat(r.Ratios.PERatio),
		formatFloat(r.Ratios.CurrentRatio),
		formatFloat(r.Ratios.DebtToEquity),
		formatFloat(r.Ratios.RevenueGrowth),
		formatFloat(r.Ratios.ROE),
		formatFloat(&r.NetIncome),
		strconv.Itoa(r.PassedCriteria),
		strconv.Itoa(r.TotalCriteria),
		strings.Join(r.FailedCriteria, "; "),
		r.Status,
		"",
	}
}

// formatFloat renders a nullable metric; nil becomes an empty cell
func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, report *model.ScreeningReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
