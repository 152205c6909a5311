// Package criteria models the configurable screening rules and evaluates
// them against derived ratios. Criteria are parsed and validated once at
// load time; evaluation never touches free-form strings.
package criteria

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Metric selects the value a criterion compares against. Most metrics
// resolve from the ratio set; market cap and net income resolve from the
// snapshot itself.
type Metric string

const (
	MetricCurrentRatio  Metric = "current_ratio"
	MetricDebtToEquity  Metric = "debt_to_equity"
	MetricROE           Metric = "roe"
	MetricRevenueGrowth Metric = "revenue_growth"
	MetricPERatio       Metric = "pe_ratio"
	MetricMarketCap     Metric = "market_cap"
	MetricNetIncome     Metric = "net_income"
)

// Op is a criterion's comparison operator
type Op string

const (
	// OpGTE passes when the metric is at least the threshold
	OpGTE Op = ">="
	// OpLTE passes when the metric is at most the threshold
	OpLTE Op = "<="
	// OpEQ passes when the metric equals the threshold within epsilon
	OpEQ Op = "=="
	// OpPositive passes when the metric is strictly positive; the threshold is unused
	OpPositive Op = "positive"
)

// Criterion is one named threshold check, immutable during a run
type Criterion struct {
	Name      string
	Metric    Metric
	Op        Op
	Threshold float64
}

// definitions maps config keys to their criterion shape. Slice order is the
// canonical evaluation order: YAML maps do not preserve declaration order,
// so a stable order has to be imposed here.
var definitions = []struct {
	key    string
	metric Metric
	op     Op
	flag   bool
}{
	{key: "market_cap_min", metric: MetricMarketCap, op: OpGTE},
	{key: "pe_max", metric: MetricPERatio, op: OpLTE},
	{key: "pe_eq", metric: MetricPERatio, op: OpEQ},
	{key: "current_ratio_min", metric: MetricCurrentRatio, op: OpGTE},
	{key: "debt_to_equity_max", metric: MetricDebtToEquity, op: OpLTE},
	{key: "revenue_growth_min", metric: MetricRevenueGrowth, op: OpGTE},
	{key: "roe_min", metric: MetricROE, op: OpGTE},
	{key: "positive_earnings", metric: MetricNetIncome, op: OpPositive, flag: true},
}

// FromConfig builds the ordered criteria list from a configuration map.
// Unknown keys and non-numeric thresholds are errors: a malformed criteria
// configuration is run-fatal before any screening starts.
func FromConfig(cfg map[string]any) ([]Criterion, error) {
	known := make(map[string]bool, len(definitions))
	for _, def := range definitions {
		known[def.key] = true
	}
	for key := range cfg {
		if !known[key] {
			return nil, fmt.Errorf("unknown criterion %q", key)
		}
	}

	var criteria []Criterion
	for _, def := range definitions {
		raw, ok := cfg[def.key]
		if !ok {
			continue
		}

		if def.flag {
			enabled, err := cast.ToBoolE(raw)
			if err != nil {
				return nil, fmt.Errorf("criterion %q: expected boolean, got %v", def.key, raw)
			}
			if enabled {
				criteria = append(criteria, Criterion{Name: def.key, Metric: def.metric, Op: def.op})
			}
			continue
		}

		threshold, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, fmt.Errorf("criterion %q: expected number, got %v", def.key, raw)
		}
		criteria = append(criteria, Criterion{
			Name:      def.key,
			Metric:    def.metric,
			Op:        def.op,
			Threshold: threshold,
		})
	}

	return criteria, nil
}

// ParseInline parses the compact criteria form
// "pe_max=25,roe_min=0.15,positive_earnings=true" and validates it through
// the same path as file configuration.
func ParseInline(spec string) ([]Criterion, error) {
	cfg := make(map[string]any)

	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("malformed criterion %q: expected key=value", pair)
		}
		cfg[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if len(cfg) == 0 {
		return nil, fmt.Errorf("no criteria in %q", spec)
	}

	return FromConfig(cfg)
}
