// Package db provides PostgreSQL access for registering match jobs and running the scoring query.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/types"
)

// DB wraps a PostgreSQL connection pool.
// The pool is created once per process and handed to the pipeline explicitly.
type DB struct {
	pool   *pgxpool.Pool
	sql    *sql.DB
	logger *zap.SugaredLogger
}

// Connect establishes a connection pool to the database and verifies it with a ping
func Connect(ctx context.Context, databaseURL string, logger *zap.SugaredLogger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if !encrypted(cfg) {
		logger.Warnw("Database connection may be unencrypted; set sslmode=require", "host", cfg.ConnConfig.Host)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infow("Connected to database", "host", cfg.ConnConfig.Host, "database", cfg.ConnConfig.Database)

	return &DB{
		pool:   pool,
		sql:    stdlib.OpenDBFromPool(pool),
		logger: logger,
	}, nil
}

// encrypted reports whether every connection attempt uses TLS.
// sslmode=prefer and allow keep a plaintext fallback.
func encrypted(cfg *pgxpool.Config) bool {
	if cfg.ConnConfig.TLSConfig == nil {
		return false
	}
	for _, fb := range cfg.ConnConfig.Fallbacks {
		if fb.TLSConfig == nil {
			return false
		}
	}
	return true
}

// New wraps an already opened *sql.DB
func New(sqlDB *sql.DB, logger *zap.SugaredLogger) *DB {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DB{sql: sqlDB, logger: logger}
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	if err := db.sql.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.sql != nil {
		if err := db.sql.Close(); err != nil {
			db.logger.Warnw("Failed to close database handle", "error", err)
		}
	}
	if db.pool != nil {
		db.pool.Close()
	}
}

// IsReadQuery reports whether query is a read-only SELECT.
// Only the leading keyword of the trimmed text is inspected, case-insensitively.
func IsReadQuery(query string) bool {
	trimmed := strings.TrimSpace(query)
	return len(trimmed) >= len("select") && strings.EqualFold(trimmed[:len("select")], "select")
}

// RunQuery executes query inside its own transaction and materializes the result.
//
// A SELECT returns its full result set, possibly with zero rows. Any other
// statement is treated as mutating; rows it returns (for example from a
// RETURNING clause) are materialized the same way, and a statement that yields
// no result columns returns a nil table. The transaction is committed on
// success and rolled back on any error, which is returned wrapped.
func (db *DB) RunQuery(ctx context.Context, query string, args ...any) (*types.Table, error) {
	read := IsReadQuery(query)

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	table, err := materialize(rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if !read && len(table.Columns) == 0 {
		db.logger.Debug("Statement returned no result columns")
		return nil, nil
	}

	db.logger.Debugw("Query executed", "read", read, "columns", len(table.Columns), "rows", len(table.Rows))
	return table, nil
}

// materialize drains rows into a Table and closes them
func materialize(rows *sql.Rows) (*types.Table, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	table := &types.Table{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return table, nil
}
