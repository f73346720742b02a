package domain

import "time"

// Trade is a single journal entry as recorded by the user.
type Trade struct {
	ID         int64       // Unique identifier (assigned by the store)
	Ticker     string      // Upper-cased symbol (e.g., "AAPL")
	Type       TradeType   // BUY or SELL
	Shares     float64     // Position size, positive
	EntryPrice float64     // Price per share at entry, positive
	ExitPrice  float64     // Recorded exit price (0 if absent)
	EntryDate  time.Time   // Calendar date of entry
	ExitDate   time.Time   // Calendar date of exit (zero value if open)
	Status     TradeStatus // OPEN or CLOSED
	Sector     string      // Display-only classification
}

// IsOpen checks if the trade status is open.
func (t *Trade) IsOpen() bool {
	return t.Status == StatusOpen
}

// HasExitPrice reports whether an exit price was recorded.
func (t *Trade) HasExitPrice() bool {
	return t.ExitPrice > 0
}

// TradeMetric is the valuation of one trade at a resolved price.
// It is recomputed on every analytics pass and never stored.
type TradeMetric struct {
	ExitPriceUsed float64 // Current price if open, recorded exit price if closed
	PNL           float64 // (ExitPriceUsed - EntryPrice) * Shares
	PNLPercent    float64 // (ExitPriceUsed - EntryPrice) / EntryPrice * 100
	MarketValue   float64 // ExitPriceUsed * Shares
	CostBasis     float64 // EntryPrice * Shares
}
