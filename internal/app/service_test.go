package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alphaHunt/internal/adapters/prices"
	"alphaHunt/internal/domain"
	"alphaHunt/internal/ports"
)

// Mock implementations
type mockLogger struct {
	mu        sync.Mutex
	debugMsgs []string
	infoMsgs  []string
	warnMsgs  []string
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debugMsgs = append(m.debugMsgs, msg)
}

func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infoMsgs = append(m.infoMsgs, msg)
}

func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnMsgs = append(m.warnMsgs, msg)
}

func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorMsgs = append(m.errorMsgs, msg)
}

type mockTradeRepo struct {
	trades      []*domain.Trade
	nextID      int64
	createErr   error
	findAllErr  error
	findByIDErr error
	deleteCalls int
}

func (m *mockTradeRepo) Create(ctx context.Context, trade *domain.Trade) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	trade.ID = m.nextID
	m.trades = append(m.trades, trade)
	return trade.ID, nil
}

func (m *mockTradeRepo) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	for i, t := range m.trades {
		if t.ID == id {
			m.trades = append(m.trades[:i], m.trades[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("trade %d: %w", id, ports.ErrNotFound)
}

func (m *mockTradeRepo) FindByID(ctx context.Context, id int64) (*domain.Trade, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	for _, t := range m.trades {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (m *mockTradeRepo) FindAll(ctx context.Context) ([]*domain.Trade, error) {
	if m.findAllErr != nil {
		return nil, m.findAllErr
	}
	return append([]*domain.Trade(nil), m.trades...), nil
}

type mockFetcher struct {
	prices map[string]float64
	errs   map[string]error
	calls  []string
}

func (m *mockFetcher) Name() string { return "mock" }

func (m *mockFetcher) FetchPrice(ctx context.Context, ticker string) (float64, error) {
	m.calls = append(m.calls, ticker)
	if err := m.errs[ticker]; err != nil {
		return 0, err
	}
	p, ok := m.prices[ticker]
	if !ok {
		return 0, ports.ErrPriceUnavailable
	}
	return p, nil
}

type mockQuoteRepo struct {
	saved   map[string]float64
	loadErr error
}

func (m *mockQuoteRepo) SaveQuote(ctx context.Context, ticker string, price float64, at time.Time) error {
	m.saved[ticker] = price
	return nil
}

func (m *mockQuoteRepo) LoadQuotes(ctx context.Context) (map[string]float64, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make(map[string]float64, len(m.saved))
	for k, v := range m.saved {
		out[k] = v
	}
	return out, nil
}

type fixture struct {
	svc     *JournalService
	repo    *mockTradeRepo
	fetcher *mockFetcher
	cache   *prices.Cache
	logger  *mockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:    &mockTradeRepo{},
		fetcher: &mockFetcher{prices: map[string]float64{}, errs: map[string]error{}},
		cache:   prices.NewCache(nil),
		logger:  &mockLogger{},
	}
	svc, err := NewJournalService(f.logger, f.repo, f.fetcher, f.cache, 0)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func openTrade(ticker string, entry, shares float64, date time.Time) *domain.Trade {
	return &domain.Trade{Ticker: ticker, Shares: shares, EntryPrice: entry, EntryDate: date, Status: domain.StatusOpen}
}

func closedTrade(ticker string, entry, exit, shares float64, date time.Time) *domain.Trade {
	return &domain.Trade{
		Ticker: ticker, Shares: shares, EntryPrice: entry, ExitPrice: exit,
		EntryDate: date, ExitDate: date.AddDate(0, 0, 7), Status: domain.StatusClosed,
	}
}

func TestNewJournalService(t *testing.T) {
	logger := &mockLogger{}
	repo := &mockTradeRepo{}
	fetcher := &mockFetcher{}
	cache := prices.NewCache(nil)

	_, err := NewJournalService(nil, repo, fetcher, cache, 0)
	assert.Error(t, err)
	_, err = NewJournalService(logger, nil, fetcher, cache, 0)
	assert.Error(t, err)
	_, err = NewJournalService(logger, repo, nil, cache, 0)
	assert.Error(t, err)
	_, err = NewJournalService(logger, repo, fetcher, nil, 0)
	assert.Error(t, err)
	_, err = NewJournalService(logger, repo, fetcher, cache, -time.Second)
	assert.Error(t, err)

	svc, err := NewJournalService(logger, repo, fetcher, cache, 500*time.Millisecond)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestAddTradeNormalizes(t *testing.T) {
	f := newFixture(t)
	trade := openTrade(" aapl ", 150, 10, day(2024, 1, 2))

	id, err := f.svc.AddTrade(context.Background(), trade)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, int64(1), trade.ID)
	assert.Equal(t, "AAPL", trade.Ticker)
	assert.Equal(t, domain.Buy, trade.Type)
	assert.Equal(t, domain.StatusOpen, trade.Status)
	assert.Equal(t, domain.DefaultSector, trade.Sector)
	assert.Contains(t, f.logger.infoMsgs, "Trade added")
}

func TestAddTradeValidation(t *testing.T) {
	base := func() *domain.Trade { return openTrade("AAPL", 100, 1, day(2024, 1, 2)) }

	tests := []struct {
		name   string
		mutate func(*domain.Trade)
	}{
		{"missing ticker", func(t *domain.Trade) { t.Ticker = "  " }},
		{"zero shares", func(t *domain.Trade) { t.Shares = 0 }},
		{"negative entry", func(t *domain.Trade) { t.EntryPrice = -1 }},
		{"missing entry date", func(t *domain.Trade) { t.EntryDate = time.Time{} }},
		{"closed without exit", func(t *domain.Trade) { t.Status = domain.StatusClosed }},
		{"negative exit", func(t *domain.Trade) { t.ExitPrice = -5 }},
		{"exit before entry", func(t *domain.Trade) { t.ExitDate = day(2023, 12, 1) }},
		{"bad type", func(t *domain.Trade) { t.Type = "HOLD" }},
		{"bad status", func(t *domain.Trade) { t.Status = "PENDING" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			trade := base()
			tt.mutate(trade)
			_, err := f.svc.AddTrade(context.Background(), trade)
			assert.ErrorIs(t, err, ports.ErrInvalidRequest)
			assert.Empty(t, f.repo.trades)
		})
	}

	f := newFixture(t)
	_, err := f.svc.AddTrade(context.Background(), nil)
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)
}

func TestAddTradeLowercaseEnums(t *testing.T) {
	f := newFixture(t)
	trade := closedTrade("nvda", 100, 120, 1, day(2024, 1, 2))
	trade.Type = "sell"
	trade.Status = "closed"
	_, err := f.svc.AddTrade(context.Background(), trade)
	require.NoError(t, err)
	assert.Equal(t, domain.Sell, trade.Type)
	assert.Equal(t, domain.StatusClosed, trade.Status)
}

func TestAddTradeRepoError(t *testing.T) {
	f := newFixture(t)
	f.repo.createErr = ports.ErrQueryFailed
	_, err := f.svc.AddTrade(context.Background(), openTrade("AAPL", 1, 1, day(2024, 1, 1)))
	assert.ErrorIs(t, err, ports.ErrQueryFailed)
	assert.Contains(t, f.logger.errorMsgs, "Failed to save trade")
}

func TestDeleteTrade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, err := f.svc.AddTrade(ctx, openTrade("AAPL", 100, 1, day(2024, 1, 1)))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTrade(ctx, id))
	assert.Empty(t, f.repo.trades)

	assert.Equal(t, 1, f.repo.deleteCalls)

	// Missing trades are rejected before reaching the store
	err = f.svc.DeleteTrade(ctx, id)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.Equal(t, 1, f.repo.deleteCalls)
	assert.Empty(t, f.logger.errorMsgs)
}

func TestDeleteTradeLookupError(t *testing.T) {
	f := newFixture(t)
	f.repo.findByIDErr = ports.ErrQueryFailed
	err := f.svc.DeleteTrade(context.Background(), 7)
	assert.ErrorIs(t, err, ports.ErrQueryFailed)
	assert.Zero(t, f.repo.deleteCalls)
	assert.Contains(t, f.logger.errorMsgs, "Failed to look up trade")
}

func TestOpenTradeValuedWithResolvedPrice(t *testing.T) {
	f := newFixture(t)
	f.repo.trades = []*domain.Trade{openTrade("TSLA", 50, 2, day(2024, 1, 3))}
	f.fetcher.prices["TSLA"] = 60

	updated, err := f.svc.RefreshPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	stats, err := f.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.OpenPositions)
	assert.InDelta(t, 20, stats.TotalPNL, 1e-9)
}

func TestListTradesFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, tr := range []*domain.Trade{
		openTrade("AAPL", 100, 1, day(2024, 1, 1)),
		closedTrade("MSFT", 100, 110, 1, day(2024, 1, 2)),
		openTrade("AMZN", 100, 1, day(2024, 1, 3)),
	} {
		_, err := f.svc.AddTrade(ctx, tr)
		require.NoError(t, err)
	}

	tickers := func(ts []*domain.Trade) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.Ticker)
		}
		return out
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"all", ListFilter{}, []string{"AAPL", "MSFT", "AMZN"}},
		{"open", ListFilter{Status: FilterOpen}, []string{"AAPL", "AMZN"}},
		{"closed", ListFilter{Status: FilterClosed}, []string{"MSFT"}},
		{"search", ListFilter{Search: "a"}, []string{"AAPL", "AMZN"}},
		{"open search", ListFilter{Status: FilterOpen, Search: "zn"}, []string{"AMZN"}},
		{"no match", ListFilter{Search: "TSLA"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.ListTrades(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tickers(got))
		})
	}
}

func TestParseStatusFilter(t *testing.T) {
	for in, want := range map[string]StatusFilter{"": FilterAll, "all": FilterAll, "Open": FilterOpen, "CLOSED": FilterClosed} {
		got, err := ParseStatusFilter(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseStatusFilter("pending")
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)
}

func TestRefreshPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.repo.trades = []*domain.Trade{
		openTrade("AAPL", 100, 1, day(2024, 1, 1)),
		closedTrade("MSFT", 100, 110, 1, day(2024, 1, 2)),
		openTrade("TSLA", 200, 1, day(2024, 1, 3)),
		openTrade("AAPL", 105, 1, day(2024, 1, 4)),
	}
	f.fetcher.prices["AAPL"] = 120
	f.fetcher.errs["TSLA"] = ports.ErrRateLimited
	f.cache.Set("TSLA", 210)

	updated, err := f.svc.RefreshPrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, []string{"AAPL", "TSLA"}, f.fetcher.calls)

	price, ok := f.cache.Price("AAPL")
	assert.True(t, ok)
	assert.Equal(t, 120.0, price)

	// Failed ticker keeps its previous price
	price, ok = f.cache.Price("TSLA")
	assert.True(t, ok)
	assert.Equal(t, 210.0, price)
	assert.Contains(t, f.logger.warnMsgs, "Price fetch failed, keeping previous price")

	_, ok = f.cache.Price("MSFT")
	assert.False(t, ok)
}

func TestUseQuoteStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := &mockQuoteRepo{saved: map[string]float64{"TSLA": 200}}
	require.NoError(t, f.svc.UseQuoteStore(ctx, store))

	price, ok := f.cache.Price("TSLA")
	assert.True(t, ok)
	assert.Equal(t, 200.0, price)

	f.repo.trades = []*domain.Trade{openTrade("AAPL", 100, 1, day(2024, 1, 1))}
	f.fetcher.prices["AAPL"] = 150
	_, err := f.svc.RefreshPrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"TSLA": 200, "AAPL": 150}, store.saved)

	err = f.svc.UseQuoteStore(ctx, &mockQuoteRepo{loadErr: ports.ErrQueryFailed})
	assert.ErrorIs(t, err, ports.ErrQueryFailed)
}

func TestRefreshPricesNoOpenTrades(t *testing.T) {
	f := newFixture(t)
	f.repo.trades = []*domain.Trade{closedTrade("MSFT", 100, 110, 1, day(2024, 1, 2))}
	updated, err := f.svc.RefreshPrices(context.Background())
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Empty(t, f.fetcher.calls)
}

func TestRefreshPricesCanceled(t *testing.T) {
	f := newFixture(t)
	svc, err := NewJournalService(f.logger, f.repo, f.fetcher, f.cache, time.Hour)
	require.NoError(t, err)
	f.repo.trades = []*domain.Trade{
		openTrade("AAPL", 100, 1, day(2024, 1, 1)),
		openTrade("TSLA", 100, 1, day(2024, 1, 2)),
	}
	f.fetcher.prices["AAPL"] = 101

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	updated, err := svc.RefreshPrices(ctx)
	assert.ErrorIs(t, err, ports.ErrContextCanceled)
	assert.Equal(t, 1, updated)
	assert.Equal(t, []string{"AAPL"}, f.fetcher.calls)
}

func TestRefreshPricesRepoError(t *testing.T) {
	f := newFixture(t)
	f.repo.findAllErr = ports.ErrQueryFailed
	_, err := f.svc.RefreshPrices(context.Background())
	assert.ErrorIs(t, err, ports.ErrQueryFailed)
}

func TestAnalyticsUsesCachedPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	f.repo.trades = []*domain.Trade{
		closedTrade("AAPL", 100, 110, 10, day(2024, 1, 2)),
		openTrade("TSLA", 50, 2, day(2024, 1, 3)),
	}
	f.cache.Set("TSLA", 60)

	snap, err = f.svc.Analytics(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Len(t, snap.EquityCurve, 2)
	assert.InDelta(t, 120, snap.EquityCurve[1].Equity, 1e-9)
	assert.Equal(t, 2, snap.Wins)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	f.repo.trades = []*domain.Trade{
		closedTrade("AAPL", 100, 110, 10, day(2024, 1, 2)),
		openTrade("TSLA", 50, 2, day(2024, 1, 3)),
	}
	f.cache.Set("TSLA", 60)

	stats, err := f.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTrades)
	assert.Equal(t, 1, stats.OpenPositions)
	assert.InDelta(t, 120, stats.TotalPNL, 1e-9)
	assert.Equal(t, 1, stats.Wins)

	f.repo.findAllErr = errors.New("boom")
	_, err = f.svc.Summary(context.Background())
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	f := newFixture(t)
	f.repo.trades = []*domain.Trade{closedTrade("AAPL", 100, 110, 10, day(2024, 1, 2))}
	f.repo.trades[0].Type = domain.Buy

	var buf bytes.Buffer
	n, err := f.svc.ExportCSV(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "AAPL,BUY,10,100,110.00,2024-01-02,2024-01-09,CLOSED,100.00,10.00", lines[1])
}
