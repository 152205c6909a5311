package criteria

import (
	"fmt"
	"math"

	"stockscreener/internal/model"
)

// epsilon bounds == comparisons; exact float equality on financial ratios is
// meaningless.
const epsilon = 1e-9

// Evaluate applies the criteria to one ticker's snapshot and ratio set, in
// declaration order. A criterion whose metric cannot be resolved (nil ratio)
// always fails: a missing value can never satisfy a threshold. The overall
// status is PASS iff every criterion passed.
func Evaluate(snap *model.FinancialSnapshot, ratios model.RatioSet, criteria []Criterion) model.CriteriaResult {
	result := model.CriteriaResult{
		Ticker:         snap.Ticker,
		CompanyName:    snap.CompanyName,
		MarketCap:      snap.MarketCap,
		NetIncome:      snap.NetIncome,
		Ratios:         ratios,
		Checks:         make([]model.CriterionCheck, 0, len(criteria)),
		TotalCriteria:  len(criteria),
		FailedCriteria: []string{},
	}

	for _, c := range criteria {
		check := evaluateOne(c, snap, ratios)
		result.Checks = append(result.Checks, check)
		if check.Passed {
			result.PassedCriteria++
		} else {
			result.FailedCriteria = append(result.FailedCriteria, c.Name)
		}
	}

	result.Status = model.StatusFail
	if result.PassedCriteria == result.TotalCriteria {
		result.Status = model.StatusPass
	}

	return result
}

func evaluateOne(c Criterion, snap *model.FinancialSnapshot, ratios model.RatioSet) model.CriterionCheck {
	check := model.CriterionCheck{Name: c.Name}

	value := resolve(c.Metric, snap, ratios)
	if value == nil {
		check.Reason = fmt.Sprintf("%s_missing", c.Metric)
		return check
	}
	check.Actual = value

	switch c.Op {
	case OpGTE:
		check.Passed = *value >= c.Threshold
		if !check.Passed {
			check.Reason = fmt.Sprintf("%s_below_min (%.4f < %.4f)", c.Metric, *value, c.Threshold)
		}
	case OpLTE:
		check.Passed = *value <= c.Threshold
		if !check.Passed {
			check.Reason = fmt.Sprintf("%s_above_max (%.4f > %.4f)", c.Metric, *value, c.Threshold)
		}
	case OpEQ:
		check.Passed = math.Abs(*value-c.Threshold) <= epsilon
		if !check.Passed {
			check.Reason = fmt.Sprintf("%s_not_equal (%.4f != %.4f)", c.Metric, *value, c.Threshold)
		}
	case OpPositive:
		check.Passed = *value > 0
		if !check.Passed {
			check.Reason = fmt.Sprintf("%s_not_positive (%.0f)", c.Metric, *value)
		}
	default:
		check.Reason = fmt.Sprintf("unsupported operator %q", c.Op)
	}

	return check
}

// resolve looks a metric up in the ratio set, or in the snapshot for the
// metrics that are raw figures rather than derived ratios
func resolve(m Metric, snap *model.FinancialSnapshot, ratios model.RatioSet) *float64 {
	switch m {
	case MetricCurrentRatio:
		return ratios.CurrentRatio
	case MetricDebtToEquity:
		return ratios.DebtToEquity
	case MetricROE:
		return ratios.ROE
	case MetricRevenueGrowth:
		return ratios.RevenueGrowth
	case MetricPERatio:
		return ratios.PERatio
	case MetricMarketCap:
		return &snap.MarketCap
	case MetricNetIncome:
		return &snap.NetIncome
	default:
		return nil
	}
}
