package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"alphaHunt/internal/domain"
)

const eps = 1e-9

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func prices(m map[string]float64) PriceFunc {
	return func(ticker string) (float64, bool) {
		p, ok := m[ticker]
		return p, ok
	}
}

func noPrices(string) (float64, bool) { return 0, false }

func TestComputeMetrics(t *testing.T) {
	tests := []struct {
		name    string
		trade   domain.Trade
		resolve PriceFunc
		want    domain.TradeMetric
	}{
		{
			name: "closed trade uses recorded exit price",
			trade: domain.Trade{
				Ticker: "AAPL", Shares: 10, EntryPrice: 100, ExitPrice: 110,
				EntryDate: day(2024, 1, 15), Status: domain.StatusClosed,
			},
			resolve: noPrices,
			want:    domain.TradeMetric{ExitPriceUsed: 110, PNL: 100, PNLPercent: 10, MarketValue: 1100, CostBasis: 1000},
		},
		{
			name: "open trade uses resolved price",
			trade: domain.Trade{
				Ticker: "MSFT", Shares: 2, EntryPrice: 50,
				EntryDate: day(2024, 1, 15), Status: domain.StatusOpen,
			},
			resolve: prices(map[string]float64{"MSFT": 60}),
			want:    domain.TradeMetric{ExitPriceUsed: 60, PNL: 20, PNLPercent: 20, MarketValue: 120, CostBasis: 100},
		},
		{
			name: "open trade without price is flat",
			trade: domain.Trade{
				Ticker: "NVDA", Shares: 3, EntryPrice: 40,
				EntryDate: day(2024, 1, 15), Status: domain.StatusOpen,
			},
			resolve: noPrices,
			want:    domain.TradeMetric{ExitPriceUsed: 40, PNL: 0, PNLPercent: 0, MarketValue: 120, CostBasis: 120},
		},
		{
			name: "open trade with nil resolver is flat",
			trade: domain.Trade{
				Ticker: "NVDA", Shares: 3, EntryPrice: 40,
				EntryDate: day(2024, 1, 15), Status: domain.StatusOpen,
			},
			resolve: nil,
			want:    domain.TradeMetric{ExitPriceUsed: 40, PNL: 0, PNLPercent: 0, MarketValue: 120, CostBasis: 120},
		},
		{
			name: "losing short-labelled trade keeps long sign convention",
			trade: domain.Trade{
				Ticker: "TSLA", Type: domain.Sell, Shares: 4, EntryPrice: 50, ExitPrice: 45,
				EntryDate: day(2024, 1, 15), Status: domain.StatusClosed,
			},
			resolve: noPrices,
			want:    domain.TradeMetric{ExitPriceUsed: 45, PNL: -20, PNLPercent: -10, MarketValue: 180, CostBasis: 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeMetrics(&tt.trade, tt.resolve)
			assert.InDelta(t, tt.want.ExitPriceUsed, got.ExitPriceUsed, eps)
			assert.InDelta(t, tt.want.PNL, got.PNL, eps)
			assert.InDelta(t, tt.want.PNLPercent, got.PNLPercent, eps)
			assert.InDelta(t, tt.want.MarketValue, got.MarketValue, eps)
			assert.InDelta(t, tt.want.CostBasis, got.CostBasis, eps)
		})
	}
}

func TestComputeMetricsClosedIgnoresResolver(t *testing.T) {
	trade := &domain.Trade{
		Ticker: "AAPL", Shares: 10, EntryPrice: 100, ExitPrice: 110,
		EntryDate: day(2024, 1, 15), Status: domain.StatusClosed,
	}
	called := false
	resolve := func(string) (float64, bool) {
		called = true
		return 999, true
	}

	withPrice := ComputeMetrics(trade, resolve)
	without := ComputeMetrics(trade, noPrices)

	assert.False(t, called, "resolver must not be consulted for closed trades")
	assert.Equal(t, without, withPrice)
}

func TestComputeMetricsUnpricedOpenInvariant(t *testing.T) {
	for _, shares := range []float64{0.5, 1, 17, 250} {
		trade := &domain.Trade{Ticker: "X", Shares: shares, EntryPrice: 12.34, Status: domain.StatusOpen}
		m := ComputeMetrics(trade, noPrices)
		assert.Zero(t, m.PNL)
		assert.Zero(t, m.PNLPercent)
		assert.Equal(t, m.CostBasis, m.MarketValue)
	}
}
