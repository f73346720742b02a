// Package alphavantage fetches stock quotes from the Alpha Vantage GLOBAL_QUOTE endpoint.
package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"alphaHunt/internal/domain"
	"alphaHunt/internal/ports"
)

const DefaultBaseURL = "https://www.alphavantage.co/query"

// Config holds configuration for the Alpha Vantage fetcher.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  ports.Logger
}

// Fetcher implements ports.PriceFetcher.
type Fetcher struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  ports.Logger
}

// New creates a Fetcher. An empty key falls back to the public "demo" key.
func New(cfg Config) (*Fetcher, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Alpha Vantage fetcher")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid Alpha Vantage base URL: %w: %w", ports.ErrConfigurationError, err)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = "demo"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Fetcher{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  cfg.Logger,
	}, nil
}

// Name identifies the source in logs.
func (f *Fetcher) Name() string { return "alphavantage" }

// globalQuote is the response structure of the GLOBAL_QUOTE function.
type globalQuote struct {
	Quote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// FetchPrice returns the latest quoted price for ticker.
func (f *Fetcher) FetchPrice(ctx context.Context, ticker string) (float64, error) {
	symbol := domain.NormalizeTicker(ticker)
	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", f.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("alphavantage request: %w: %w", ports.ErrInvalidRequest, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return 0, fmt.Errorf("alphavantage fetch: %w: %w", ports.ErrContextCanceled, err)
		case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
			return 0, fmt.Errorf("alphavantage fetch: %w: %w", ports.ErrTimeout, err)
		}
		return 0, fmt.Errorf("alphavantage fetch: %w: %w", ports.ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("alphavantage read body: %w: %w", ports.ErrConnectionFailed, err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return 0, fmt.Errorf("alphavantage: status %d: %w", resp.StatusCode, ports.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("alphavantage: status %d, body: %s: %w", resp.StatusCode, string(body), ports.ErrUnknown)
	}

	var quote globalQuote
	if err := json.Unmarshal(body, &quote); err != nil {
		return 0, fmt.Errorf("alphavantage decode: %w: %w", ports.ErrUnknown, err)
	}
	// Throttled responses come back 200 with a Note or Information message
	if quote.Note != "" || quote.Information != "" {
		msg := strings.TrimSpace(quote.Note + " " + quote.Information)
		f.logger.Warn(ctx, "Alpha Vantage throttled request", map[string]interface{}{"symbol": symbol, "message": msg})
		return 0, fmt.Errorf("alphavantage: %s: %w", msg, ports.ErrRateLimited)
	}
	if quote.ErrorMessage != "" {
		return 0, fmt.Errorf("alphavantage: %s: %w", quote.ErrorMessage, ports.ErrPriceUnavailable)
	}
	if quote.Quote.Price == "" {
		return 0, fmt.Errorf("alphavantage: no quote for %s: %w", symbol, ports.ErrPriceUnavailable)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(quote.Quote.Price), 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("alphavantage: bad price '%s' for %s: %w", quote.Quote.Price, symbol, ports.ErrPriceUnavailable)
	}
	f.logger.Debug(ctx, "Alpha Vantage price fetched", map[string]interface{}{"symbol": symbol, "price": price})
	return price, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
