package ports

import "context"

// PriceFetcher retrieves a current market price for a ticker from an external source.
type PriceFetcher interface {
	// FetchPrice returns the latest price for ticker.
	// Returns an error wrapping ErrPriceUnavailable if the source has no quote.
	FetchPrice(ctx context.Context, ticker string) (float64, error)
	// Name identifies the source in logs.
	Name() string
}

// PriceCache stores the latest known price per ticker.
type PriceCache interface {
	// Set stores a price for ticker.
	Set(ticker string, price float64)
	// Price returns the cached price and whether one exists.
	Price(ticker string) (float64, bool)
}
