package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"alphaHunt/config"
	"alphaHunt/internal/adapters/logger"
	"alphaHunt/internal/adapters/prices"
	"alphaHunt/internal/adapters/sqlite"
	"alphaHunt/internal/app"
)

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// journal bundles the wired service for one command run.
type journal struct {
	cfg  *config.Config
	svc   *app.JournalService
	repo  *sqlite.Repository
	cache *prices.Cache
}

func (j *journal) Close() error { return j.repo.Close() }

// openJournal loads configuration and wires the journal service.
func openJournal(ctx context.Context) (*journal, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.NewStdLoggerTo(stderr, cfg.LogLevel)

	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: log})
	if err != nil {
		return nil, err
	}

	fetcher, err := prices.NewFetcher(prices.SourceConfig{
		Source:              cfg.PriceSource,
		StaticPrices:        cfg.StaticPrices,
		AlphaVantageAPIKey:  cfg.AlphaVantageAPIKey,
		AlphaVantageBaseURL: cfg.AlphaVantageBaseURL,
		HTTPTimeout:         cfg.HTTPTimeout,
		BinanceAPIKey:       cfg.APIKey,
		BinanceSecretKey:    cfg.SecretKey,
		BinanceTestnet:      cfg.IsTestnet,
		Logger:              log,
	})
	if err != nil {
		repo.Close()
		return nil, err
	}

	cache := prices.NewCache(cfg.StaticPrices)
	svc, err := app.NewJournalService(log, repo, fetcher, cache, cfg.RequestDelay)
	if err != nil {
		repo.Close()
		return nil, err
	}
	if err := svc.UseQuoteStore(ctx, repo); err != nil {
		repo.Close()
		return nil, err
	}
	return &journal{cfg: cfg, svc: svc, repo: repo, cache: cache}, nil
}

func withJournal(ctx context.Context, fn func(j *journal) error) error {
	j, err := openJournal(ctx)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()
	return fn(j)
}
