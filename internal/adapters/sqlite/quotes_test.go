package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Quotes(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	quotes, err := repo.LoadQuotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, quotes)

	now := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveQuote(ctx, "AAPL", 190.5, now))
	require.NoError(t, repo.SaveQuote(ctx, "MSFT", 410, now))
	require.NoError(t, repo.SaveQuote(ctx, "AAPL", 192.25, now.Add(time.Minute)))

	quotes, err = repo.LoadQuotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"AAPL": 192.25, "MSFT": 410}, quotes)
}
