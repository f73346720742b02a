package domain

// EquityPoint is one point of the cumulative P&L curve, one per trade.
type EquityPoint struct {
	Label    string  // Entry date formatted as "Jan 2"
	Equity   float64 // Running P&L after this trade
	Ticker   string
	TradePNL float64
}

// DrawdownPoint parallels an EquityPoint.
type DrawdownPoint struct {
	Label    string
	Equity   float64
	Peak     float64 // Running maximum of equity, starting at 0
	Drawdown float64 // Percent below Peak, never positive
}

// WeekdayPerformance aggregates per-trade returns by entry weekday (Mon-Fri).
type WeekdayPerformance struct {
	Day       string // "Mon" .. "Fri"
	SumReturn float64
	Count     int
	AvgReturn float64
}

// MonthlyPerformance aggregates per-trade returns by entry calendar month.
type MonthlyPerformance struct {
	Month     string // e.g. "Jan '24"
	SumReturn float64
	Trades    int
}

// Snapshot bundles every derived analytics series and statistic.
type Snapshot struct {
	EquityCurve []EquityPoint
	Drawdowns   []DrawdownPoint
	Returns     []float64 // Per-trade return percent, aligned with EquityCurve

	TotalTrades int
	Wins        int
	Losses      int
	WinRate     float64

	AvgReturn        float64
	AvgWin           float64
	AvgLoss          float64
	StdDev           float64
	DownsideDev      float64
	SharpeRatio      float64
	SortinoRatio     float64
	MaxDrawdown      float64
	GrossProfit      float64
	GrossLoss        float64
	ProfitFactor     float64 // +Inf when there are wins and no losses
	MaxConsecWins    int
	MaxConsecLosses  int
	WeekdayBreakdown []WeekdayPerformance
	MonthlyBreakdown []MonthlyPerformance
}

// PortfolioStats is the dashboard-level summary across all trades.
type PortfolioStats struct {
	TotalTrades   int
	OpenPositions int
	TotalPNL      float64
	TotalInvested float64
	TotalValue    float64
	TotalReturn   float64
	Wins          int // Closed trades with positive P&L
	Losses        int // Closed trades with negative P&L
	WinRate       float64
}
