package domain

import "strings"

// TradeType records the side the trade was entered on (BUY or SELL).
// It is informational only and does not change the P&L sign convention.
type TradeType string

const (
	Buy  TradeType = "BUY"
	Sell TradeType = "SELL"
)

// TradeStatus represents the lifecycle state of a trade.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "OPEN"
	StatusClosed TradeStatus = "CLOSED"
)

// DateLayout is the storage and input layout for trade dates.
const DateLayout = "2006-01-02"

// DefaultSector is assigned to trades entered without a sector.
const DefaultSector = "Technology"

// NormalizeTicker trims surrounding whitespace and upper-cases a symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
