package analytics

import (
	"math"
	"sort"
	"time"

	"alphaHunt/internal/domain"
)

const (
	equityLabelLayout = "Jan 2"
	monthKeyLayout    = "Jan '06"
)

var weekdayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// Compute derives the analytics snapshot for a set of trades.
// It returns nil when trades is empty. The input slice is not modified.
func Compute(trades []*domain.Trade, resolve PriceFunc) *domain.Snapshot {
	if len(trades) == 0 {
		return nil
	}

	// Sort a copy by entry date, keeping insertion order on ties
	sorted := make([]*domain.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EntryDate.Before(sorted[j].EntryDate)
	})

	snap := &domain.Snapshot{
		TotalTrades: len(trades),
		EquityCurve: make([]domain.EquityPoint, 0, len(sorted)),
		Drawdowns:   make([]domain.DrawdownPoint, 0, len(sorted)),
		Returns:     make([]float64, 0, len(sorted)),
	}

	var runningPnL float64
	for _, trade := range sorted {
		m := ComputeMetrics(trade, resolve)
		runningPnL += m.PNL
		snap.EquityCurve = append(snap.EquityCurve, domain.EquityPoint{
			Label:    trade.EntryDate.Format(equityLabelLayout),
			Equity:   runningPnL,
			Ticker:   trade.Ticker,
			TradePNL: m.PNL,
		})
		snap.Returns = append(snap.Returns, m.PNLPercent)
	}

	snap.Drawdowns = drawdownSeries(snap.EquityCurve)
	snap.MaxDrawdown = maxDrawdown(snap.Drawdowns)

	applyReturnStats(snap, snap.Returns)
	snap.MaxConsecWins, snap.MaxConsecLosses = streaks(snap.Returns)

	snap.WeekdayBreakdown = weekdayBreakdown(sorted, snap.Returns)
	snap.MonthlyBreakdown = monthlyBreakdown(sorted, snap.Returns)

	return snap
}

// drawdownSeries walks the equity curve and reports the percent decline from
// the running peak. The peak starts at 0, so a curve that never rises above
// zero has no drawdown.
func drawdownSeries(curve []domain.EquityPoint) []domain.DrawdownPoint {
	points := make([]domain.DrawdownPoint, 0, len(curve))
	var peak float64
	for _, p := range curve {
		peak = math.Max(peak, p.Equity)
		var dd float64
		if peak > 0 {
			dd = (p.Equity - peak) / peak * 100
		}
		points = append(points, domain.DrawdownPoint{
			Label:    p.Label,
			Equity:   p.Equity,
			Peak:     peak,
			Drawdown: math.Min(0, dd),
		})
	}
	return points
}

func maxDrawdown(points []domain.DrawdownPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	worst := points[0].Drawdown
	for _, p := range points[1:] {
		worst = math.Min(worst, p.Drawdown)
	}
	return worst
}

// applyReturnStats fills the win/loss partition, central tendency,
// dispersion, and ratio fields of snap from the per-trade returns.
func applyReturnStats(snap *domain.Snapshot, returns []float64) {
	var sum, sumWins, sumLosses, downsideSq float64
	for _, r := range returns {
		sum += r
		switch {
		case r > 0:
			snap.Wins++
			sumWins += r
		case r < 0:
			snap.Losses++
			sumLosses += r
			downsideSq += r * r
		}
	}

	if decided := snap.Wins + snap.Losses; decided > 0 {
		snap.WinRate = float64(snap.Wins) / float64(decided) * 100
	}
	if len(returns) > 0 {
		snap.AvgReturn = sum / float64(len(returns))
	}
	if snap.Wins > 0 {
		snap.AvgWin = sumWins / float64(snap.Wins)
	}
	if snap.Losses > 0 {
		snap.AvgLoss = sumLosses / float64(snap.Losses)
	}

	var variance float64
	for _, r := range returns {
		d := r - snap.AvgReturn
		variance += d * d
	}
	if len(returns) > 0 {
		variance /= float64(len(returns))
	}
	snap.StdDev = math.Sqrt(variance)

	// Without losing trades the downside variance is pinned to 1.
	downsideVariance := 1.0
	if snap.Losses > 0 {
		downsideVariance = downsideSq / float64(snap.Losses)
	}
	snap.DownsideDev = math.Sqrt(downsideVariance)

	if snap.StdDev > 0 {
		snap.SharpeRatio = snap.AvgReturn / snap.StdDev
	}
	if snap.DownsideDev > 0 {
		snap.SortinoRatio = snap.AvgReturn / snap.DownsideDev
	}

	snap.GrossProfit = sumWins
	snap.GrossLoss = math.Abs(sumLosses)
	snap.ProfitFactor = profitFactor(snap.GrossProfit, snap.GrossLoss)
}

// profitFactor returns +Inf when there is profit and no loss.
func profitFactor(grossProfit, grossLoss float64) float64 {
	if grossLoss > 0 {
		return grossProfit / grossLoss
	}
	if grossProfit > 0 {
		return math.Inf(1)
	}
	return 0
}

// streaks returns the longest runs of positive and negative returns.
// A zero return ends both runs.
func streaks(returns []float64) (maxWins, maxLosses int) {
	var wins, losses int
	for _, r := range returns {
		switch {
		case r > 0:
			wins++
			losses = 0
		case r < 0:
			losses++
			wins = 0
		default:
			wins, losses = 0, 0
		}
		if wins > maxWins {
			maxWins = wins
		}
		if losses > maxLosses {
			maxLosses = losses
		}
	}
	return maxWins, maxLosses
}

// weekdayBreakdown buckets returns by entry weekday. Weekend entries are dropped.
func weekdayBreakdown(sorted []*domain.Trade, returns []float64) []domain.WeekdayPerformance {
	buckets := make([]domain.WeekdayPerformance, len(weekdayNames))
	for i, name := range weekdayNames {
		buckets[i].Day = name
	}
	for i, trade := range sorted {
		wd := trade.EntryDate.Weekday()
		if wd < time.Monday || wd > time.Friday {
			continue
		}
		b := &buckets[wd-time.Monday]
		b.SumReturn += returns[i]
		b.Count++
	}
	for i := range buckets {
		if buckets[i].Count > 0 {
			buckets[i].AvgReturn = buckets[i].SumReturn / float64(buckets[i].Count)
		}
	}
	return buckets
}

// monthlyBreakdown groups returns by calendar month in first-seen order.
func monthlyBreakdown(sorted []*domain.Trade, returns []float64) []domain.MonthlyPerformance {
	index := make(map[string]int)
	months := make([]domain.MonthlyPerformance, 0)
	for i, trade := range sorted {
		key := trade.EntryDate.Format(monthKeyLayout)
		pos, ok := index[key]
		if !ok {
			pos = len(months)
			index[key] = pos
			months = append(months, domain.MonthlyPerformance{Month: key})
		}
		months[pos].SumReturn += returns[i]
		months[pos].Trades++
	}
	return months
}
