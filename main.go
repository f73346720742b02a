package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"os/signal"
	"syscall"

	"alphaHunt/config"
	"alphaHunt/internal/adapters/logger"
	"alphaHunt/internal/adapters/prices"
	"alphaHunt/internal/adapters/sqlite"
	"alphaHunt/internal/app"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": appLogger.Level().String()})

	// Cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()

	// 4. Initialize Price Source
	fetcher, err := prices.NewFetcher(prices.SourceConfig{
		Source:              cfg.PriceSource,
		StaticPrices:        cfg.StaticPrices,
		AlphaVantageAPIKey:  cfg.AlphaVantageAPIKey,
		AlphaVantageBaseURL: cfg.AlphaVantageBaseURL,
		HTTPTimeout:         cfg.HTTPTimeout,
		BinanceAPIKey:       cfg.APIKey,
		BinanceSecretKey:    cfg.SecretKey,
		BinanceTestnet:      cfg.IsTestnet,
		Logger:              appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize price source")
		log.Fatalf("FATAL: Failed to initialize price source: %v", err)
	}
	appLogger.Info(ctx, "Price source initialized", map[string]interface{}{"source": fetcher.Name()})

	// 5. Initialize Application Service
	journalService, err := app.NewJournalService(appLogger, repo, fetcher, prices.NewCache(cfg.StaticPrices), cfg.RequestDelay)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize journal service: %v", err)
	}
	if err := journalService.UseQuoteStore(ctx, repo); err != nil {
		appLogger.Warn(ctx, "Continuing without stored quotes", map[string]interface{}{"error": err.Error()})
	}

	// 6. Start the scheduled refresher
	refresher, err := app.NewPriceRefresher(journalService, appLogger, cfg.RefreshCron)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize price refresher: %v", err)
	}
	if err := refresher.RunNow(ctx); err != nil {
		appLogger.Error(ctx, err, "Initial price refresh failed")
	}
	if err := refresher.Start(ctx); err != nil {
		log.Fatalf("FATAL: Failed to start price refresher: %v", err)
	}

	<-ctx.Done()
	appLogger.Info(context.Background(), "Received shutdown signal")
	refresher.Stop()

	appLogger.Info(context.Background(), "Application finished gracefully.")
}
