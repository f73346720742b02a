package app

import (
	"context"
	"fmt"
	"sync"

	"alphaHunt/internal/domain"
	"alphaHunt/internal/ports"

	"github.com/robfig/cron/v3"
)

// refreshService is the part of JournalService the refresher drives.
type refreshService interface {
	RefreshPrices(ctx context.Context) (int, error)
	Analytics(ctx context.Context) (*domain.Snapshot, error)
}

// PriceRefresher refreshes prices on a cron schedule and logs a fresh
// analytics snapshot after each run.
type PriceRefresher struct {
	svc      refreshService
	logger   ports.Logger
	cron     *cron.Cron
	schedule string

	running sync.Mutex // Held while a refresh is in progress
}

// NewPriceRefresher validates the schedule and creates a refresher.
func NewPriceRefresher(svc refreshService, logger ports.Logger, schedule string) (*PriceRefresher, error) {
	if svc == nil || logger == nil {
		return nil, fmt.Errorf("missing required dependencies for PriceRefresher")
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w: %w", schedule, ports.ErrConfigurationError, err)
	}
	return &PriceRefresher{
		svc:      svc,
		logger:   logger,
		cron:     cron.New(),
		schedule: schedule,
	}, nil
}

// Start registers the refresh job and starts the scheduler. Jobs run with ctx.
func (r *PriceRefresher) Start(ctx context.Context) error {
	if _, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.RunNow(ctx); err != nil {
			r.logger.Error(ctx, err, "Scheduled price refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}
	r.cron.Start()
	r.logger.Info(ctx, "Price refresher started", map[string]interface{}{"schedule": r.schedule})
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (r *PriceRefresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info(context.Background(), "Price refresher stopped")
}

// RunNow performs one refresh immediately. A run that overlaps another is skipped.
func (r *PriceRefresher) RunNow(ctx context.Context) error {
	if !r.running.TryLock() {
		r.logger.Warn(ctx, "Price refresh already running, skipping")
		return nil
	}
	defer r.running.Unlock()

	updated, err := r.svc.RefreshPrices(ctx)
	if err != nil {
		return fmt.Errorf("refresh prices: %w", err)
	}

	snap, err := r.svc.Analytics(ctx)
	if err != nil {
		return fmt.Errorf("compute analytics: %w", err)
	}
	if snap == nil {
		r.logger.Info(ctx, "Journal is empty, no analytics", map[string]interface{}{"updated": updated})
		return nil
	}

	r.logger.Info(ctx, "Portfolio snapshot", map[string]interface{}{
		"updated":      updated,
		"trades":       snap.TotalTrades,
		"winRate":      snap.WinRate,
		"avgReturn":    snap.AvgReturn,
		"sharpe":       snap.SharpeRatio,
		"sortino":      snap.SortinoRatio,
		"maxDrawdown":  snap.MaxDrawdown,
		"profitFactor": snap.ProfitFactor,
		"equity":       finalEquity(snap),
	})
	return nil
}

func finalEquity(snap *domain.Snapshot) float64 {
	if len(snap.EquityCurve) == 0 {
		return 0
	}
	return snap.EquityCurve[len(snap.EquityCurve)-1].Equity
}
