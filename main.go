package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"stockscreener/internal/alphavantage"
	"stockscreener/internal/cache"
	"stockscreener/internal/config"
	"stockscreener/internal/criteria"
	"stockscreener/internal/export"
	"stockscreener/internal/fetcher"
	"stockscreener/internal/model"
	"stockscreener/internal/ratelimit"
	"stockscreener/internal/screener"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logging
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals: stop dispatching new tickers but still
	// export whatever was screened
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn().Msg("received interrupt signal, finishing in-flight tickers")
		cancel()
	}()

	// Parse and validate criteria once, before any fetching
	crits, err := loadCriteria(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid criteria configuration")
	}

	// Open the snapshot cache; an unreachable cache directory is run-fatal
	var store cache.Store = cache.Nop{}
	if cfg.CacheEnabled {
		badgerStore, err := cache.Open(cfg.CacheDir, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open snapshot cache")
		}
		store = badgerStore
	}
	defer store.Close()

	// Wire the pipeline: upstream client -> rate limiter -> cache-first
	// fetcher -> screening orchestrator
	client := alphavantage.NewClient(cfg.AlphavantageAPIKey, cfg.AlphavantageBaseURL)
	limiter := ratelimit.New(cfg.RequestsPerSecond)
	snapFetcher := fetcher.New(client, store, limiter, cfg.CacheTTL, log.Logger)
	scr := screener.New(snapFetcher, crits, cfg.Concurrency, log.Logger)

	log.Info().
		Int("tickers", len(cfg.Tickers)).
		Int("criteria", len(crits)).
		Int("concurrency", cfg.Concurrency).
		Msg("starting screening run")

	report := scr.Run(ctx, cfg.Tickers)

	if err := writeReport(cfg, report); err != nil {
		log.Fatal().Err(err).Msg("failed to write report")
	}

	passing := report.Passing()
	log.Info().
		Int("screened", len(report.Results)).
		Int("passing", len(passing)).
		Msg("screening run complete")
}

// loadCriteria builds the criteria list from whichever configuration form
// is present
func loadCriteria(cfg *config.Config) ([]criteria.Criterion, error) {
	if cfg.CriteriaInline != "" {
		return criteria.ParseInline(cfg.CriteriaInline)
	}
	return criteria.FromConfig(cfg.Criteria)
}

// writeReport serializes the report to the configured destination and format
func writeReport(cfg *config.Config, report *model.ScreeningReport) error {
	var out io.Writer = os.Stdout
	if cfg.OutputPath != "" {
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if cfg.OutputFormat == "json" {
		return export.WriteJSON(out, report)
	}
	return export.WriteCSV(out, report)
}
