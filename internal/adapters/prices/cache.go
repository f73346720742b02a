package prices

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"alphaHunt/internal/domain"
)

// Quote is a cached price with the time it was stored.
type Quote struct {
	Ticker    string
	Price     float64
	UpdatedAt time.Time
}

// Cache holds the latest known price per ticker. It is safe for concurrent use.
// Its Price method satisfies analytics.PriceFunc.
type Cache struct {
	mu     sync.RWMutex
	quotes map[string]Quote
	now    func() time.Time
}

// NewCache creates a cache pre-populated with seed prices.
func NewCache(seed map[string]float64) *Cache {
	c := &Cache{quotes: make(map[string]Quote), now: time.Now}
	for ticker, price := range seed {
		c.Set(ticker, price)
	}
	return c
}

// Set stores a price. Non-positive prices are ignored.
func (c *Cache) Set(ticker string, price float64) {
	if price <= 0 {
		return
	}
	ticker = domain.NormalizeTicker(ticker)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[ticker] = Quote{Ticker: ticker, Price: price, UpdatedAt: c.now()}
}

// Price returns the cached price for ticker.
func (c *Cache) Price(ticker string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[domain.NormalizeTicker(ticker)]
	return q.Price, ok
}

// Quotes returns all cached quotes sorted by ticker.
func (c *Cache) Quotes() []Quote {
	c.mu.RLock()
	out := make([]Quote, 0, len(c.quotes))
	for _, q := range c.quotes {
		out = append(out, q)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// ParseStatic parses "AAPL=190.5,MSFT=410" into a price map.
func ParseStatic(s string) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		ticker, value, ok := strings.Cut(pair, "=")
		ticker = domain.NormalizeTicker(ticker)
		if !ok || ticker == "" {
			return nil, fmt.Errorf("invalid price entry %q: expected TICKER=PRICE", pair)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price for %s: %w", ticker, err)
		}
		if price <= 0 {
			return nil, fmt.Errorf("price for %s must be positive", ticker)
		}
		out[ticker] = price
	}
	return out, nil
}
