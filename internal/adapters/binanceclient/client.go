package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"alphaHunt/internal/domain"
	"alphaHunt/internal/ports"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
)

const (
	// Base URLs
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"

	defaultQuoteAsset = "USDT"
)

// Client implements ports.PriceFetcher using Binance futures ticker statistics.
type Client struct {
	futuresClient *futures.Client
	logger        ports.Logger
	quoteAsset    string
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	APIKey     string
	SecretKey  string
	UseTestnet bool
	BaseURL    string // Overrides the testnet/production URL when set
	QuoteAsset string // Appended to bare tickers, e.g. "BTC" -> "BTCUSDT"
	Logger     ports.Logger
}

// New creates a new Binance client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}

	// Ticker statistics are public; keys are optional
	client := futures.NewClient(cfg.APIKey, cfg.SecretKey)
	switch {
	case cfg.BaseURL != "":
		client.BaseURL = cfg.BaseURL
	case cfg.UseTestnet:
		client.BaseURL = baseURLTestnet
	default:
		client.BaseURL = baseURLProduction
	}
	cfg.Logger.Info(context.Background(), "Binance price client configured", map[string]interface{}{"baseURL": client.BaseURL})

	quote := strings.ToUpper(cfg.QuoteAsset)
	if quote == "" {
		quote = defaultQuoteAsset
	}

	return &Client{
		futuresClient: client,
		logger:        cfg.Logger,
		quoteAsset:    quote,
	}, nil
}

// Name identifies the source in logs.
func (c *Client) Name() string { return "binance" }

// Symbol maps a journal ticker to a Binance futures symbol.
func (c *Client) Symbol(ticker string) string {
	ticker = domain.NormalizeTicker(ticker)
	if strings.HasSuffix(ticker, c.quoteAsset) && len(ticker) > len(c.quoteAsset) {
		return ticker
	}
	return ticker + c.quoteAsset
}

// FetchPrice retrieves the last traded price for a ticker.
func (c *Client) FetchPrice(ctx context.Context, ticker string) (float64, error) {
	op := "FetchPrice"
	symbol := c.Symbol(ticker)
	stats, err := c.futuresClient.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, c.handleError(ctx, err, op)
	}
	if len(stats) == 0 {
		err := fmt.Errorf("no ticker data returned for symbol %s: %w", symbol, ports.ErrPriceUnavailable)
		return 0, c.handleError(ctx, err, op)
	}

	price, err := strconv.ParseFloat(stats[0].LastPrice, 64)
	if err != nil {
		parseErr := fmt.Errorf("could not parse price '%s': %w", stats[0].LastPrice, err)
		return 0, c.handleError(ctx, parseErr, op)
	}
	c.logger.Debug(ctx, "Binance price fetched", map[string]interface{}{"symbol": symbol, "price": price})
	return price, nil
}

// handleError translates Binance API errors into standardized ports errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1021: // Timestamp outside of the recvWindow
			mappedErr = ports.ErrTimeout
		case -1022, -2014, -2015: // Signature or API-key rejected
			mappedErr = ports.ErrAuthenticationFailed
		case -1121: // Invalid symbol
			mappedErr = ports.ErrPriceUnavailable
		case -1100, -1101, -1102, -1103, -1104, -1105, -1106:
			mappedErr = ports.ErrInvalidRequest
		default:
			mappedErr = ports.ErrUnknown
		}
		c.logger.Error(ctx, err, operation+" failed with API error", fields)
		return fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
	}

	var finalErr error
	switch {
	case errors.Is(err, ports.ErrPriceUnavailable):
		finalErr = fmt.Errorf("%s failed: %w", operation, err)
	case errors.Is(err, context.DeadlineExceeded):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	case strings.Contains(err.Error(), "connection refused"),
		strings.Contains(err.Error(), "connection reset by peer"),
		strings.Contains(err.Error(), "no such host"):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	default:
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}

	c.logger.Error(ctx, err, operation+" failed", fields)
	return finalErr
}
