package sqlite

import (
	"context"
	"fmt"
	"time"

	"alphaHunt/internal/ports"
)

// SaveQuote upserts the latest price of a ticker.
func (r *Repository) SaveQuote(ctx context.Context, ticker string, price float64, at time.Time) error {
	const query = `
	INSERT INTO quotes (ticker, price, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(ticker) DO UPDATE SET price = excluded.price, updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, query, ticker, price, at.UTC()); err != nil {
		return fmt.Errorf("failed to save quote for %s: %w: %w", ticker, ports.ErrQueryFailed, err)
	}
	r.logger.Debug(ctx, "Quote saved", map[string]interface{}{"ticker": ticker, "price": price})
	return nil
}

// LoadQuotes returns every stored price keyed by ticker.
func (r *Repository) LoadQuotes(ctx context.Context) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ticker, price FROM quotes`)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	quotes := make(map[string]float64)
	for rows.Next() {
		var (
			ticker string
			price  float64
		)
		if err := rows.Scan(&ticker, &price); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes[ticker] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quote rows: %w", err)
	}
	return quotes, nil
}
