package analytics

import "alphaHunt/internal/domain"

// Summarize computes the dashboard portfolio statistics.
// Unlike Compute, wins and losses count closed trades only.
func Summarize(trades []*domain.Trade, resolve PriceFunc) domain.PortfolioStats {
	stats := domain.PortfolioStats{TotalTrades: len(trades)}
	for _, trade := range trades {
		m := ComputeMetrics(trade, resolve)
		stats.TotalPNL += m.PNL
		stats.TotalInvested += m.CostBasis
		stats.TotalValue += m.MarketValue
		if trade.IsOpen() {
			stats.OpenPositions++
			continue
		}
		if m.PNL > 0 {
			stats.Wins++
		} else if m.PNL < 0 {
			stats.Losses++
		}
	}
	if stats.TotalInvested > 0 {
		stats.TotalReturn = (stats.TotalValue - stats.TotalInvested) / stats.TotalInvested * 100
	}
	if decided := stats.Wins + stats.Losses; decided > 0 {
		stats.WinRate = float64(stats.Wins) / float64(decided) * 100
	}
	return stats
}
