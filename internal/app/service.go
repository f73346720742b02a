package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"alphaHunt/internal/analytics"
	"alphaHunt/internal/domain"
	"alphaHunt/internal/ports"
	"alphaHunt/internal/utils"
)

// StatusFilter selects trades by status when listing.
type StatusFilter string

const (
	FilterAll    StatusFilter = "ALL"
	FilterOpen   StatusFilter = "OPEN"
	FilterClosed StatusFilter = "CLOSED"
)

// ParseStatusFilter parses a filter name case-insensitively. Empty means ALL.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToUpper(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterOpen, FilterClosed:
		return f, nil
	default:
		return "", fmt.Errorf("unknown status filter %q: %w", s, ports.ErrInvalidRequest)
	}
}

// ListFilter narrows the trade list.
type ListFilter struct {
	Status StatusFilter
	Search string // Case-insensitive ticker substring
}

func (f ListFilter) matches(t *domain.Trade) bool {
	switch f.Status {
	case FilterOpen:
		if t.Status != domain.StatusOpen {
			return false
		}
	case FilterClosed:
		if t.Status != domain.StatusClosed {
			return false
		}
	}
	if f.Search == "" {
		return true
	}
	return strings.Contains(strings.ToUpper(t.Ticker), strings.ToUpper(strings.TrimSpace(f.Search)))
}

// JournalService orchestrates the trade journal: storage, prices and analytics.
type JournalService struct {
	logger       ports.Logger
	repo         ports.TradeRepository
	fetcher      ports.PriceFetcher
	cache        ports.PriceCache
	quotes       ports.QuoteRepository // Optional
	requestDelay time.Duration
}

// NewJournalService creates a new application service instance.
func NewJournalService(
	logger ports.Logger,
	repo ports.TradeRepository,
	fetcher ports.PriceFetcher,
	cache ports.PriceCache,
	requestDelay time.Duration,
) (*JournalService, error) {
	if logger == nil || repo == nil || fetcher == nil || cache == nil {
		return nil, fmt.Errorf("missing required dependencies for JournalService")
	}
	if requestDelay < 0 {
		return nil, fmt.Errorf("request delay cannot be negative")
	}
	return &JournalService{
		logger:       logger,
		repo:         repo,
		fetcher:      fetcher,
		cache:        cache,
		requestDelay: requestDelay,
	}, nil
}

// UseQuoteStore loads persisted quotes into the cache and persists every
// price fetched by later refreshes.
func (s *JournalService) UseQuoteStore(ctx context.Context, quotes ports.QuoteRepository) error {
	stored, err := quotes.LoadQuotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stored quotes: %w", err)
	}
	for ticker, price := range stored {
		s.cache.Set(ticker, price)
	}
	s.quotes = quotes
	s.logger.Debug(ctx, "Stored quotes loaded", map[string]interface{}{"count": len(stored)})
	return nil
}

// Resolve returns the cached price for ticker. It satisfies analytics.PriceFunc.
func (s *JournalService) Resolve(ticker string) (float64, bool) {
	return s.cache.Price(ticker)
}

// AddTrade validates, normalizes and stores a trade. The trade's ID is set on success.
func (s *JournalService) AddTrade(ctx context.Context, trade *domain.Trade) (int64, error) {
	if trade == nil {
		return 0, fmt.Errorf("trade is required: %w", ports.ErrInvalidRequest)
	}
	if err := normalizeTrade(trade); err != nil {
		s.logger.Warn(ctx, "Rejected trade", map[string]interface{}{"ticker": trade.Ticker, "reason": err.Error()})
		return 0, fmt.Errorf("invalid trade: %w: %w", ports.ErrInvalidRequest, err)
	}

	id, err := s.repo.Create(ctx, trade)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to save trade", map[string]interface{}{"ticker": trade.Ticker})
		return 0, fmt.Errorf("failed to save trade: %w", err)
	}
	trade.ID = id
	s.logger.Info(ctx, "Trade added", map[string]interface{}{
		"id":     id,
		"ticker": trade.Ticker,
		"status": trade.Status,
		"shares": trade.Shares,
	})
	return id, nil
}

func normalizeTrade(t *domain.Trade) error {
	t.Ticker = domain.NormalizeTicker(t.Ticker)
	if t.Ticker == "" {
		return errors.New("ticker is required")
	}
	if t.Type == "" {
		t.Type = domain.Buy
	}
	t.Type = domain.TradeType(strings.ToUpper(string(t.Type)))
	if t.Type != domain.Buy && t.Type != domain.Sell {
		return fmt.Errorf("unknown trade type %q", t.Type)
	}
	if t.Status == "" {
		t.Status = domain.StatusOpen
	}
	t.Status = domain.TradeStatus(strings.ToUpper(string(t.Status)))
	if t.Status != domain.StatusOpen && t.Status != domain.StatusClosed {
		return fmt.Errorf("unknown trade status %q", t.Status)
	}
	if t.Shares <= 0 {
		return errors.New("shares must be positive")
	}
	if t.EntryPrice <= 0 {
		return errors.New("entry price must be positive")
	}
	if t.EntryDate.IsZero() {
		return errors.New("entry date is required")
	}
	if t.ExitPrice < 0 {
		return errors.New("exit price cannot be negative")
	}
	if t.Status == domain.StatusClosed && !t.HasExitPrice() {
		return errors.New("closed trade requires an exit price")
	}
	if !t.ExitDate.IsZero() && t.ExitDate.Before(t.EntryDate) {
		return errors.New("exit date is before entry date")
	}
	if strings.TrimSpace(t.Sector) == "" {
		t.Sector = domain.DefaultSector
	}
	return nil
}

// DeleteTrade removes a trade by ID.
func (s *JournalService) DeleteTrade(ctx context.Context, id int64) error {
	trade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to look up trade", map[string]interface{}{"id": id})
		return fmt.Errorf("failed to look up trade %d: %w", id, err)
	}
	if trade == nil {
		return fmt.Errorf("trade %d: %w", id, ports.ErrNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.Error(ctx, err, "Failed to delete trade", map[string]interface{}{"id": id})
		}
		return fmt.Errorf("failed to delete trade %d: %w", id, err)
	}
	s.logger.Info(ctx, "Trade deleted", map[string]interface{}{"id": id, "ticker": trade.Ticker})
	return nil
}

// ListTrades returns the stored trades matching filter, in insertion order.
func (s *JournalService) ListTrades(ctx context.Context, filter ListFilter) ([]*domain.Trade, error) {
	trades, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}
	out := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if filter.matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// RefreshPrices fetches current prices for every distinct open ticker and
// stores them in the cache. A ticker that fails keeps its previous price.
// It returns the number of tickers updated.
func (s *JournalService) RefreshPrices(ctx context.Context) (int, error) {
	trades, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load trades: %w", err)
	}
	tickers := openTickers(trades)
	if len(tickers) == 0 {
		s.logger.Debug(ctx, "No open positions to price")
		return 0, nil
	}

	updated := 0
	for i, ticker := range tickers {
		if i > 0 && s.requestDelay > 0 {
			select {
			case <-ctx.Done():
				return updated, fmt.Errorf("price refresh interrupted: %w: %w", ports.ErrContextCanceled, ctx.Err())
			case <-time.After(s.requestDelay):
			}
		}
		if err := ctx.Err(); err != nil {
			return updated, fmt.Errorf("price refresh interrupted: %w: %w", ports.ErrContextCanceled, err)
		}

		price, err := s.fetcher.FetchPrice(ctx, ticker)
		if err != nil {
			s.logger.Warn(ctx, "Price fetch failed, keeping previous price", map[string]interface{}{
				"ticker": ticker,
				"source": s.fetcher.Name(),
				"error":  err.Error(),
			})
			continue
		}
		s.cache.Set(ticker, price)
		updated++
		if s.quotes != nil {
			if err := s.quotes.SaveQuote(ctx, ticker, price, time.Now()); err != nil {
				s.logger.Error(ctx, err, "Failed to persist quote", map[string]interface{}{"ticker": ticker})
			}
		}
	}

	s.logger.Info(ctx, "Prices refreshed", map[string]interface{}{
		"source":  s.fetcher.Name(),
		"tickers": len(tickers),
		"updated": updated,
	})
	return updated, nil
}

// openTickers returns the distinct tickers of open trades in first-seen order.
func openTickers(trades []*domain.Trade) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range trades {
		if !t.IsOpen() || seen[t.Ticker] {
			continue
		}
		seen[t.Ticker] = true
		out = append(out, t.Ticker)
	}
	return out
}

// Analytics computes the performance snapshot over all trades.
// It returns nil when the journal is empty.
func (s *JournalService) Analytics(ctx context.Context) (*domain.Snapshot, error) {
	trades, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}
	return analytics.Compute(trades, s.Resolve), nil
}

// Summary computes the portfolio overview over all trades.
func (s *JournalService) Summary(ctx context.Context) (domain.PortfolioStats, error) {
	trades, err := s.repo.FindAll(ctx)
	if err != nil {
		return domain.PortfolioStats{}, fmt.Errorf("failed to load trades: %w", err)
	}
	return analytics.Summarize(trades, s.Resolve), nil
}

// ExportCSV writes every trade with its resolved metrics to w.
func (s *JournalService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	trades, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load trades: %w", err)
	}
	if err := utils.WriteTradesCSV(w, trades, s.Resolve); err != nil {
		return 0, fmt.Errorf("failed to write csv: %w", err)
	}
	s.logger.Info(ctx, "Trades exported", map[string]interface{}{"count": len(trades)})
	return len(trades), nil
}
