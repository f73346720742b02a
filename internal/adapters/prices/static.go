package prices

import (
	"context"
	"fmt"

	"alphaHunt/internal/domain"
	"alphaHunt/internal/ports"
)

// StaticFetcher serves prices from a fixed table. It backs the "static" price source.
type StaticFetcher struct {
	prices map[string]float64
}

// NewStaticFetcher creates a fetcher over a copy of table.
func NewStaticFetcher(table map[string]float64) *StaticFetcher {
	p := make(map[string]float64, len(table))
	for t, v := range table {
		p[domain.NormalizeTicker(t)] = v
	}
	return &StaticFetcher{prices: p}
}

func (f *StaticFetcher) Name() string { return "static" }

func (f *StaticFetcher) FetchPrice(ctx context.Context, ticker string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("static fetch: %w: %w", ports.ErrContextCanceled, err)
	}
	price, ok := f.prices[domain.NormalizeTicker(ticker)]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("no static price for %s: %w", ticker, ports.ErrPriceUnavailable)
	}
	return price, nil
}
