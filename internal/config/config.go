package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the stock screener.
type Config struct {
	// Tickers to screen, in report order
	Tickers []string `mapstructure:"tickers"`

	// Criteria as a map of criterion key to threshold (config file form),
	// or the compact inline string form; exactly one must be set
	Criteria       map[string]any `mapstructure:"criteria"`
	CriteriaInline string         `mapstructure:"criteria_inline"`

	// Snapshot cache
	CacheEnabled bool          `mapstructure:"cache_enabled"`
	CacheDir     string        `mapstructure:"cache_dir"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`

	// Upstream data source
	AlphavantageAPIKey  string  `mapstructure:"alphavantage_api_key"`
	AlphavantageBaseURL string  `mapstructure:"alphavantage_base_url"`
	RequestsPerSecond   float64 `mapstructure:"requests_per_second"`

	// Worker pool size for concurrent ticker screening
	Concurrency int `mapstructure:"concurrency"`

	// Report output: "csv" or "json", to OutputPath or stdout when empty
	OutputFormat string `mapstructure:"output_format"`
	OutputPath   string `mapstructure:"output_path"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Expected environment variables:
//   - ALPHAVANTAGE_API_KEY
//   - ALPHAVANTAGE_BASE_URL (optional, defaults to production)
//   - SCREENER_TICKERS (optional, comma-separated)
//   - SCREENER_CRITERIA (optional, inline form "pe_max=25,roe_min=0.15")
func Load() (*Config, error) {
	v := viper.New()

	// Set up environment variable support
	v.SetEnvPrefix("") // No prefix, use full names
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	// AlphaVantage free tier allows 5 requests per minute
	v.SetDefault("requests_per_second", 1.0/12.0)
	v.SetDefault("cache_enabled", true)
	v.SetDefault("cache_dir", ".cache/screener")
	v.SetDefault("cache_ttl", "24h")
	v.SetDefault("concurrency", 3)
	v.SetDefault("output_format", "csv")
	v.SetDefault("log_level", "info")

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.stockscreener")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	// Bind environment variables
	v.BindEnv("alphavantage_api_key", "ALPHAVANTAGE_API_KEY")
	v.BindEnv("alphavantage_base_url", "ALPHAVANTAGE_BASE_URL")
	v.BindEnv("tickers", "SCREENER_TICKERS")
	v.BindEnv("criteria_inline", "SCREENER_CRITERIA")
	v.BindEnv("cache_enabled", "SCREENER_CACHE_ENABLED")
	v.BindEnv("cache_dir", "SCREENER_CACHE_DIR")
	v.BindEnv("cache_ttl", "SCREENER_CACHE_TTL")
	v.BindEnv("concurrency", "SCREENER_CONCURRENCY")
	v.BindEnv("output_format", "SCREENER_OUTPUT_FORMAT")
	v.BindEnv("output_path", "SCREENER_OUTPUT_PATH")
	v.BindEnv("log_level", "SCREENER_LOG_LEVEL")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// SCREENER_TICKERS arrives as one comma-separated string; viper splits
	// it but does not trim whitespace around the symbols
	tickers := config.Tickers[:0]
	for _, ticker := range config.Tickers {
		if ticker = strings.TrimSpace(ticker); ticker != "" {
			tickers = append(tickers, ticker)
		}
	}
	config.Tickers = tickers

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.AlphavantageAPIKey == "" {
		missing = append(missing, "ALPHAVANTAGE_API_KEY")
	}
	if len(c.Tickers) == 0 {
		missing = append(missing, "tickers")
	}
	if len(c.Criteria) == 0 && c.CriteriaInline == "" {
		missing = append(missing, "criteria")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if len(c.Criteria) > 0 && c.CriteriaInline != "" {
		return fmt.Errorf("criteria and criteria_inline are mutually exclusive")
	}

	if c.OutputFormat != "csv" && c.OutputFormat != "json" {
		return fmt.Errorf("invalid output_format %q: must be csv or json", c.OutputFormat)
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %s", c.CacheTTL)
	}

	return nil
}
