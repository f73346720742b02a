package prices

import (
	"fmt"
	"time"

	"alphaHunt/internal/adapters/alphavantage"
	"alphaHunt/internal/adapters/binanceclient"
	"alphaHunt/internal/ports"
)

// SourceConfig selects and configures a price source.
type SourceConfig struct {
	Source string // "static", "alphavantage" or "binance"

	StaticPrices map[string]float64

	AlphaVantageAPIKey  string
	AlphaVantageBaseURL string
	HTTPTimeout         time.Duration

	BinanceAPIKey    string
	BinanceSecretKey string
	BinanceTestnet   bool

	Logger ports.Logger
}

// NewFetcher builds the configured price source.
func NewFetcher(cfg SourceConfig) (ports.PriceFetcher, error) {
	switch cfg.Source {
	case "", "static":
		return NewStaticFetcher(cfg.StaticPrices), nil
	case "alphavantage":
		return alphavantage.New(alphavantage.Config{
			APIKey:  cfg.AlphaVantageAPIKey,
			BaseURL: cfg.AlphaVantageBaseURL,
			Timeout: cfg.HTTPTimeout,
			Logger:  cfg.Logger,
		})
	case "binance":
		return binanceclient.New(binanceclient.Config{
			APIKey:     cfg.BinanceAPIKey,
			SecretKey:  cfg.BinanceSecretKey,
			UseTestnet: cfg.BinanceTestnet,
			Logger:     cfg.Logger,
		})
	default:
		return nil, fmt.Errorf("unknown price source %q: %w", cfg.Source, ports.ErrConfigurationError)
	}
}
