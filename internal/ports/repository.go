package ports

import (
	"context"
	"time"

	"alphaHunt/internal/domain"
)

// TradeRepository defines the interface for storing and retrieving journal trades.
type TradeRepository interface {
	// Create saves a new trade and returns its assigned ID.
	Create(ctx context.Context, trade *domain.Trade) (int64, error)
	// Delete removes a trade by ID. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error
	// FindByID retrieves a trade by its unique ID.
	// Returns nil, nil if not found.
	FindByID(ctx context.Context, id int64) (*domain.Trade, error)
	// FindAll retrieves all trades in insertion order.
	FindAll(ctx context.Context) ([]*domain.Trade, error)
}

// QuoteRepository persists the latest known price per ticker.
type QuoteRepository interface {
	// SaveQuote stores price as the latest quote for ticker.
	SaveQuote(ctx context.Context, ticker string, price float64, at time.Time) error
	// LoadQuotes returns every stored quote keyed by ticker.
	LoadQuotes(ctx context.Context) (map[string]float64, error)
}
