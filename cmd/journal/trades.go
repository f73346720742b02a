package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/google/subcommands"

	"alphaHunt/internal/app"
	"alphaHunt/internal/domain"
	"alphaHunt/internal/report"
)

type addCmd struct {
	ticker    string
	tradeType string
	shares    float64
	entry     float64
	exit      float64
	entryDate string
	exitDate  string
	status    string
	sector    string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a new trade" }
func (*addCmd) Usage() string {
	return `add -ticker <ticker> -shares <n> -entry <price> [-entry-date YYYY-MM-DD] [-type BUY|SELL]
    [-status OPEN|CLOSED -exit <price> -exit-date YYYY-MM-DD] [-sector <sector>]

  Records a trade in the journal. Entry date defaults to today.
  A CLOSED trade requires an exit price.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "ticker", "", "Ticker symbol (required)")
	f.StringVar(&c.tradeType, "type", "BUY", "Trade direction, BUY or SELL")
	f.Float64Var(&c.shares, "shares", 0, "Number of shares (required)")
	f.Float64Var(&c.entry, "entry", 0, "Entry price (required)")
	f.Float64Var(&c.exit, "exit", 0, "Exit price")
	f.StringVar(&c.entryDate, "entry-date", "", "Entry date, YYYY-MM-DD (default today)")
	f.StringVar(&c.exitDate, "exit-date", "", "Exit date, YYYY-MM-DD")
	f.StringVar(&c.status, "status", "OPEN", "Trade status, OPEN or CLOSED")
	f.StringVar(&c.sector, "sector", domain.DefaultSector, "Sector")
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(domain.DateLayout, s)
}

// calendarDay returns the calendar date of t as UTC midnight.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (c *addCmd) trade() (*domain.Trade, error) {
	entryDate, err := parseDate(c.entryDate)
	if err != nil {
		return nil, fmt.Errorf("invalid -entry-date: %w", err)
	}
	if entryDate.IsZero() {
		entryDate = calendarDay(time.Now())
	}
	exitDate, err := parseDate(c.exitDate)
	if err != nil {
		return nil, fmt.Errorf("invalid -exit-date: %w", err)
	}
	return &domain.Trade{
		Ticker:     c.ticker,
		Type:       domain.TradeType(c.tradeType),
		Shares:     c.shares,
		EntryPrice: c.entry,
		ExitPrice:  c.exit,
		EntryDate:  entryDate,
		ExitDate:   exitDate,
		Status:     domain.TradeStatus(c.status),
		Sector:     c.sector,
	}, nil
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	trade, err := c.trade()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	err = withJournal(ctx, func(j *journal) error {
		id, err := j.svc.AddTrade(ctx, trade)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added trade %d: %s %s %g @ %.2f\n", id, trade.Type, trade.Ticker, trade.Shares, trade.EntryPrice)
		return nil
	})
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type listCmd struct {
	status string
	search string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list trades with their current P&L" }
func (*listCmd) Usage() string {
	return `list [-status ALL|OPEN|CLOSED] [-search <text>]

  Lists journal trades in the order they were recorded.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.status, "status", "ALL", "Status filter: ALL, OPEN or CLOSED")
	f.StringVar(&c.search, "search", "", "Case-insensitive ticker search")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	status, err := app.ParseStatusFilter(c.status)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	err = withJournal(ctx, func(j *journal) error {
		trades, err := j.svc.ListTrades(ctx, app.ListFilter{Status: status, Search: c.search})
		if err != nil {
			return err
		}
		return report.WriteTrades(stdout, trades, j.svc.Resolve)
	})
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete trades by id" }
func (*deleteCmd) Usage() string {
	return `delete <id>...

  Removes the given trades from the journal.
`
}

func (*deleteCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(stderr, "Error: at least one trade id is required")
		return subcommands.ExitUsageError
	}
	ids := make([]int64, 0, f.NArg())
	for _, arg := range f.Args() {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Fprintf(stderr, "Error: invalid trade id %q\n", arg)
			return subcommands.ExitUsageError
		}
		ids = append(ids, id)
	}
	err := withJournal(ctx, func(j *journal) error {
		for _, id := range ids {
			if err := j.svc.DeleteTrade(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Deleted trade %d\n", id)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
