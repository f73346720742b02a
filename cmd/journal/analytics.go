package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/subcommands"

	"alphaHunt/internal/report"
	"alphaHunt/internal/utils"
)

type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch current prices for open positions" }
func (*refreshCmd) Usage() string {
	return `refresh

  Fetches the latest price of every open ticker from the configured
  PRICE_SOURCE and stores it for later commands.
`
}

func (*refreshCmd) SetFlags(f *flag.FlagSet) {}

func (*refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := withJournal(ctx, func(j *journal) error {
		n, err := j.svc.RefreshPrices(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Updated %d price(s) from %s\n", n, j.cfg.PriceSource)
		return nil
	})
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type pricesCmd struct {
	refresh bool
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "show the known price of every ticker" }
func (*pricesCmd) Usage() string {
	return `prices [-refresh]

  Lists the prices used to value open positions: STATIC_PRICES plus
  everything stored by earlier refreshes.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Refresh prices before listing")
}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := withJournal(ctx, func(j *journal) error {
		refreshFirst(ctx, j, c.refresh)
		return report.WriteQuotes(stdout, j.cache.Quotes())
	})
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// refreshFirst refreshes prices when asked to and reports, but tolerates, failures.
func refreshFirst(ctx context.Context, j *journal, enabled bool) {
	if !enabled {
		return
	}
	if _, err := j.svc.RefreshPrices(ctx); err != nil {
		fmt.Fprintln(stderr, "Warning: price refresh failed:", err)
	}
}

type analyzeCmd struct {
	refresh bool
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "show performance analytics" }
func (*analyzeCmd) Usage() string {
	return `analyze [-refresh]

  Prints win rate, risk ratios, drawdown, profit factor, the equity curve
  and the weekday and monthly breakdowns.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Refresh prices before computing")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := withJournal(ctx, func(j *journal) error {
		refreshFirst(ctx, j, c.refresh)
		snap, err := j.svc.Analytics(ctx)
		if err != nil {
			return err
		}
		return report.WriteSnapshot(stdout, snap)
	})
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	refresh bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show the portfolio overview" }
func (*summaryCmd) Usage() string {
	return `summary [-refresh]

  Prints invested capital, current value, total P&L and win rate.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Refresh prices before computing")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := withJournal(ctx, func(j *journal) error {
		refreshFirst(ctx, j, c.refresh)
		stats, err := j.svc.Summary(ctx)
		if err != nil {
			return err
		}
		return report.WriteSummary(stdout, stats)
	})
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export trades to CSV" }
func (*exportCmd) Usage() string {
	return `export [-o <file>|-]

  Writes every trade with its P&L to a CSV file. The default file is
  alphahunt_trades_YYYY-MM-DD.csv in EXPORT_DIR; "-" writes to stdout.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, '-' for stdout")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := withJournal(ctx, func(j *journal) error {
		if c.output == "-" {
			_, err := j.svc.ExportCSV(ctx, stdout)
			return err
		}

		name := c.output
		if name == "" {
			name = filepath.Join(j.cfg.ExportDir, utils.ExportFileName(time.Now()))
		}
		if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
		file, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		n, err := j.svc.ExportCSV(ctx, file)
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Exported %d trade(s) to %s\n", n, name)
		return nil
	})
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
