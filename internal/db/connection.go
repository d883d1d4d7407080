package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB holds a PostgreSQL connection pool. Every session is read-only: pgrid
// re-runs the user's query once per block and must never write.
type DB struct {
	pool *pgxpool.Pool
	url  string
	mu   sync.RWMutex
}

// sessionGUCs are applied to every new connection.
var sessionGUCs = []string{
	"SET default_transaction_read_only = on",
	"SET application_name = 'pgrid'",
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, url string) (*DB, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid connection URL: %w", err)
	}

	// One block load and one count run at a time; a third connection
	// covers a reload racing a slow count.
	config.MaxConns = 3
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 10 * time.Minute

	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for _, guc := range sessionGUCs {
			if _, err := conn.Exec(ctx, guc); err != nil {
				return fmt.Errorf("failed to set GUC %q on new connection: %w", guc, err)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool, url: url}, nil
}

// Close closes the database connection
func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.pool != nil {
		db.pool.Close()
		db.pool = nil
	}
}

// Query executes a query and returns rows
func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}

// QueryRow executes a query and returns a single row
func (db *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.pool.QueryRow(ctx, sql, args...)
}

// IsConnected returns true if the database is connected
func (db *DB) IsConnected() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.pool != nil
}
