package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"alphaHunt/internal/adapters/alphavantage"
	"alphaHunt/internal/adapters/logger"
	"alphaHunt/internal/adapters/prices"
)

// Price sources
const (
	SourceStatic       = "static"
	SourceAlphaVantage = "alphavantage"
	SourceBinance      = "binance"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DBPath string

	// Logging
	LogLevel logger.LogLevel

	// Price source selection
	PriceSource  string
	StaticPrices map[string]float64 // Seed prices, also served by the static source
	RequestDelay time.Duration      // Pause between consecutive price requests
	RefreshCron  string             // Watcher schedule, standard cron or @every syntax
	HTTPTimeout  time.Duration

	// Alpha Vantage
	AlphaVantageAPIKey  string
	AlphaVantageBaseURL string

	// Binance API
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Export
	ExportDir string
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/alphahunt.db")

	// Logging
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))

	// Price source
	cfg.PriceSource = strings.ToLower(getEnv("PRICE_SOURCE", SourceStatic))
	switch cfg.PriceSource {
	case SourceStatic, SourceAlphaVantage, SourceBinance:
	default:
		errs = append(errs, fmt.Sprintf("PRICE_SOURCE must be one of %s, %s, %s", SourceStatic, SourceAlphaVantage, SourceBinance))
	}

	cfg.StaticPrices, err = prices.ParseStatic(getEnv("STATIC_PRICES", ""))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid STATIC_PRICES: %v", err))
	}

	delayMs, err := getEnvAsIntRequired("PRICE_REQUEST_DELAY_MS", 500)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid PRICE_REQUEST_DELAY_MS: %v", err))
	} else if delayMs < 0 {
		errs = append(errs, "PRICE_REQUEST_DELAY_MS cannot be negative")
	}
	cfg.RequestDelay = time.Duration(delayMs) * time.Millisecond

	cfg.RefreshCron = getEnv("PRICE_REFRESH_SCHEDULE", "@every 5m")
	if _, err := cron.ParseStandard(cfg.RefreshCron); err != nil {
		errs = append(errs, fmt.Sprintf("invalid PRICE_REFRESH_SCHEDULE: %v", err))
	}

	timeoutSeconds, err := getEnvAsIntRequired("HTTP_TIMEOUT_SECONDS", 10)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid HTTP_TIMEOUT_SECONDS: %v", err))
	} else if timeoutSeconds <= 0 {
		errs = append(errs, "HTTP_TIMEOUT_SECONDS must be positive")
	}
	cfg.HTTPTimeout = time.Duration(timeoutSeconds) * time.Second

	// Alpha Vantage
	cfg.AlphaVantageAPIKey = getEnv("ALPHA_VANTAGE_API_KEY", "demo")
	cfg.AlphaVantageBaseURL = getEnv("ALPHA_VANTAGE_BASE_URL", alphavantage.DefaultBaseURL)

	// Binance API, keys are optional for public ticker data
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", true)
	if (cfg.APIKey == "") != (cfg.SecretKey == "") {
		errs = append(errs, "BINANCE_API_KEY and BINANCE_API_SECRET must be set together")
	}

	// Export
	cfg.ExportDir = getEnv("EXPORT_DIR", "./data")

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
