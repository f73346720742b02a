package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"alphaHunt/internal/domain"
	"alphaHunt/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const defaultDBPath = "./data/alphahunt.db"

// Repository implements ports.TradeRepository and ports.QuoteRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string // ":memory:" opens a private in-memory database
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	dsn := ":memory:"
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
			cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
			return nil, err
		}
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// One connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Debug(context.Background(), "Database schema initialized/verified")

	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		type TEXT NOT NULL,
		shares REAL NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL DEFAULT NULL,
		entry_date TEXT NOT NULL,
		exit_date TEXT DEFAULT NULL,
		status TEXT NOT NULL,
		sector TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_trades_status_ticker ON trades (status, ticker);

	CREATE TABLE IF NOT EXISTS quotes (
		ticker TEXT PRIMARY KEY,
		price REAL NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Debug(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// Create saves a new trade and returns its assigned ID.
func (r *Repository) Create(ctx context.Context, trade *domain.Trade) (int64, error) {
	const query = `
	INSERT INTO trades (ticker, type, shares, entry_price, exit_price, entry_date, exit_date, status, sector)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var exitPrice sql.NullFloat64
	if trade.HasExitPrice() {
		exitPrice = sql.NullFloat64{Float64: trade.ExitPrice, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		trade.Ticker, string(trade.Type), trade.Shares, trade.EntryPrice, exitPrice,
		formatDate(trade.EntryDate), nullDate(trade.ExitDate), string(trade.Status), trade.Sector)
	if err != nil {
		return 0, fmt.Errorf("failed to insert trade for ticker %s: %w: %w", trade.Ticker, ports.ErrQueryFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for trade %s: %w", trade.Ticker, err)
	}
	trade.ID = id
	r.logger.Debug(ctx, "Trade created", map[string]interface{}{"tradeID": id, "ticker": trade.Ticker, "status": trade.Status})
	return id, nil
}

// Delete removes a trade by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade ID %d: %w: %w", id, ports.ErrDeleteFailed, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for delete trade ID %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("trade ID %d not found for delete: %w", id, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Trade deleted", map[string]interface{}{"tradeID": id})
	return nil
}

const selectTrade = `
	SELECT id, ticker, type, shares, entry_price, exit_price, entry_date, exit_date, status, sector
	FROM trades`

// FindByID retrieves a trade by its unique ID.
func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Trade, error) {
	row := r.db.QueryRowContext(ctx, selectTrade+` WHERE id = ?`, id)
	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug(ctx, "Trade not found by ID", map[string]interface{}{"tradeID": id})
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query trade by ID %d: %w: %w", id, ports.ErrQueryFailed, err)
	}
	return trade, nil
}

// FindAll retrieves all trades in insertion order.
func (r *Repository) FindAll(ctx context.Context) ([]*domain.Trade, error) {
	rows, err := r.db.QueryContext(ctx, selectTrade+` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query all trades: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	trades := make([]*domain.Trade, 0)
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade during FindAll: %w", err)
		}
		trades = append(trades, trade)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	return trades, nil
}

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(s scanner) (*domain.Trade, error) {
	t := &domain.Trade{}
	var (
		tradeType, status, entryDate string
		exitPrice                    sql.NullFloat64
		exitDate                     sql.NullString
	)
	err := s.Scan(&t.ID, &t.Ticker, &tradeType, &t.Shares, &t.EntryPrice, &exitPrice,
		&entryDate, &exitDate, &status, &t.Sector)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	t.Type = domain.TradeType(tradeType)
	t.Status = domain.TradeStatus(status)
	if exitPrice.Valid {
		t.ExitPrice = exitPrice.Float64
	}
	if t.EntryDate, err = time.Parse(domain.DateLayout, entryDate); err != nil {
		return nil, fmt.Errorf("invalid entry_date %q for trade %d: %w", entryDate, t.ID, err)
	}
	if exitDate.Valid && exitDate.String != "" {
		if t.ExitDate, err = time.Parse(domain.DateLayout, exitDate.String); err != nil {
			return nil, fmt.Errorf("invalid exit_date %q for trade %d: %w", exitDate.String, t.ID, err)
		}
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func nullDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatDate(t), Valid: true}
}
