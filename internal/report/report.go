// Package report renders journal analytics as aligned text tables.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"alphaHunt/internal/adapters/prices"
	"alphaHunt/internal/analytics"
	"alphaHunt/internal/domain"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
}

// FormatProfitFactor renders +Inf as "∞" and finite values with two decimals.
func FormatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", pf)
}

func signed(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}

// WriteSnapshot renders the analytics snapshot. A nil snapshot prints a placeholder.
func WriteSnapshot(out io.Writer, snap *domain.Snapshot) error {
	if snap == nil {
		_, err := fmt.Fprintln(out, "No trades yet. Add trades to see analytics.")
		return err
	}

	w := newTable(out)
	fmt.Fprintln(w, "METRIC\tVALUE\t")
	fmt.Fprintf(w, "Trades\t%d (%dW / %dL)\t\n", snap.TotalTrades, snap.Wins, snap.Losses)
	fmt.Fprintf(w, "Win Rate\t%.1f%%\t\n", snap.WinRate)
	fmt.Fprintf(w, "Avg Return\t%s%%\t\n", signed(snap.AvgReturn))
	fmt.Fprintf(w, "Avg Win / Avg Loss\t%+.2f%% / %.2f%%\t\n", snap.AvgWin, snap.AvgLoss)
	fmt.Fprintf(w, "Sharpe Ratio\t%.2f\t\n", snap.SharpeRatio)
	fmt.Fprintf(w, "Sortino Ratio\t%.2f\t\n", snap.SortinoRatio)
	fmt.Fprintf(w, "Max Drawdown\t%.2f%%\t\n", snap.MaxDrawdown)
	fmt.Fprintf(w, "Profit Factor\t%s\t\n", FormatProfitFactor(snap.ProfitFactor))
	fmt.Fprintf(w, "Max Consecutive Wins / Losses\t%d / %d\t\n", snap.MaxConsecWins, snap.MaxConsecLosses)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	w = newTable(out)
	fmt.Fprintln(w, "DATE\tTICKER\tTRADE P&L\tEQUITY\tPEAK\tDRAWDOWN\t")
	for i, p := range snap.EquityCurve {
		dd := snap.Drawdowns[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f%%\t\n", p.Label, p.Ticker, signed(p.TradePNL), p.Equity, dd.Peak, dd.Drawdown)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	w = newTable(out)
	fmt.Fprintln(w, "DAY\tTRADES\tAVG RETURN\t")
	for _, d := range snap.WeekdayBreakdown {
		fmt.Fprintf(w, "%s\t%d\t%s%%\t\n", d.Day, d.Count, signed(d.AvgReturn))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	w = newTable(out)
	fmt.Fprintln(w, "MONTH\tTRADES\tTOTAL RETURN\t")
	for _, m := range snap.MonthlyBreakdown {
		fmt.Fprintf(w, "%s\t%d\t%s%%\t\n", m.Month, m.Trades, signed(m.SumReturn))
	}
	return w.Flush()
}

// WriteSummary renders the portfolio overview.
func WriteSummary(out io.Writer, stats domain.PortfolioStats) error {
	w := newTable(out)
	fmt.Fprintln(w, "PORTFOLIO\tVALUE\t")
	fmt.Fprintf(w, "Total Trades\t%d\t\n", stats.TotalTrades)
	fmt.Fprintf(w, "Open Positions\t%d\t\n", stats.OpenPositions)
	fmt.Fprintf(w, "Total Invested\t%.2f\t\n", stats.TotalInvested)
	fmt.Fprintf(w, "Total Value\t%.2f\t\n", stats.TotalValue)
	fmt.Fprintf(w, "Total P&L\t%s\t\n", signed(stats.TotalPNL))
	fmt.Fprintf(w, "Total Return\t%s%%\t\n", signed(stats.TotalReturn))
	fmt.Fprintf(w, "Win Rate\t%.1f%% (%dW / %dL)\t\n", stats.WinRate, stats.Wins, stats.Losses)
	return w.Flush()
}

// WriteTrades renders a trade list with resolved metrics.
func WriteTrades(out io.Writer, trades []*domain.Trade, resolve analytics.PriceFunc) error {
	if len(trades) == 0 {
		_, err := fmt.Fprintln(out, "No trades found.")
		return err
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tTICKER\tTYPE\tSHARES\tENTRY\tPRICE\tENTRY DATE\tEXIT DATE\tSTATUS\tP&L\tRETURN\t")
	for _, t := range trades {
		m := analytics.ComputeMetrics(t, resolve)
		exitDate := "-"
		if !t.ExitDate.IsZero() {
			exitDate = t.ExitDate.Format(domain.DateLayout)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%g\t%.2f\t%.2f\t%s\t%s\t%s\t%s\t%s%%\t\n",
			t.ID, t.Ticker, t.Type, t.Shares, t.EntryPrice, m.ExitPriceUsed,
			t.EntryDate.Format(domain.DateLayout), exitDate, t.Status, signed(m.PNL), signed(m.PNLPercent))
	}
	return w.Flush()
}

// WriteQuotes renders known prices, one row per ticker.
func WriteQuotes(out io.Writer, quotes []prices.Quote) error {
	if len(quotes) == 0 {
		_, err := fmt.Fprintln(out, "No prices known. Run refresh or set STATIC_PRICES.")
		return err
	}
	w := newTable(out)
	fmt.Fprintln(w, "TICKER\tPRICE\t")
	for _, q := range quotes {
		fmt.Fprintf(w, "%s\t%.2f\t\n", q.Ticker, q.Price)
	}
	return w.Flush()
}
