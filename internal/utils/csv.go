package utils

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"alphaHunt/internal/analytics"
	"alphaHunt/internal/domain"
)

// TradeCSVHeader is the header row of a trade export.
var TradeCSVHeader = []string{"Ticker", "Type", "Shares", "Entry Price", "Exit Price", "Entry Date", "Exit Date", "Status", "P&L", "Return %"}

// ExportFileName returns the default export file name for the given day.
func ExportFileName(now time.Time) string {
	return "alphahunt_trades_" + now.UTC().Format(domain.DateLayout) + ".csv"
}

// WriteTradesCSV writes trades with their resolved metrics as CSV.
// Open trades are valued with resolve; the resolved exit price is written for them.
func WriteTradesCSV(w io.Writer, trades []*domain.Trade, resolve analytics.PriceFunc) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(TradeCSVHeader); err != nil {
		return err
	}

	for _, t := range trades {
		m := analytics.ComputeMetrics(t, resolve)
		exitDate := "N/A"
		if !t.ExitDate.IsZero() {
			exitDate = t.ExitDate.Format(domain.DateLayout)
		}
		row := []string{
			t.Ticker,
			string(t.Type),
			strconv.FormatFloat(t.Shares, 'f', -1, 64),
			strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
			strconv.FormatFloat(m.ExitPriceUsed, 'f', 2, 64),
			t.EntryDate.Format(domain.DateLayout),
			exitDate,
			string(t.Status),
			strconv.FormatFloat(m.PNL, 'f', 2, 64),
			strconv.FormatFloat(m.PNLPercent, 'f', 2, 64),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
