package analytics

import "alphaHunt/internal/domain"

// PriceFunc resolves the current market price of a ticker.
// It returns false when no price is known yet.
type PriceFunc func(ticker string) (float64, bool)

// ComputeMetrics values a single trade.
// Open trades use the resolved current price, falling back to the entry
// price when none is available. Closed trades use the recorded exit price
// and never consult resolve.
func ComputeMetrics(trade *domain.Trade, resolve PriceFunc) domain.TradeMetric {
	exitPrice := resolveExitPrice(trade, resolve)
	return domain.TradeMetric{
		ExitPriceUsed: exitPrice,
		PNL:           (exitPrice - trade.EntryPrice) * trade.Shares,
		PNLPercent:    (exitPrice - trade.EntryPrice) / trade.EntryPrice * 100,
		MarketValue:   exitPrice * trade.Shares,
		CostBasis:     trade.EntryPrice * trade.Shares,
	}
}

func resolveExitPrice(trade *domain.Trade, resolve PriceFunc) float64 {
	if trade.IsOpen() {
		if resolve != nil {
			if price, ok := resolve(trade.Ticker); ok && price > 0 {
				return price
			}
		}
		return trade.EntryPrice
	}
	// A closed trade without an exit price is malformed; value it flat.
	if !trade.HasExitPrice() {
		return trade.EntryPrice
	}
	return trade.ExitPrice
}
