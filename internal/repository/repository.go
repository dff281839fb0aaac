// Package repository provides the persistence layer of the collection API:
// a PostgreSQL store on pgx and an in-memory store with the same contract.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// DefaultTable is the table cats are stored in.
const DefaultTable = "cats"

// Common errors for cat store operations.
var (
	ErrCatNotFound = errors.New("cat not found")
)

// Repository is the PostgreSQL cat store.
type Repository struct {
	pool  *pgxpool.Pool
	table string // quoted identifier
}

// Option configures a Repository.
type Option func(*Repository)

// WithTable stores cats in the named table instead of DefaultTable.
func WithTable(name string) Option {
	return func(r *Repository) {
		if name != "" {
			r.table = pq.QuoteIdentifier(name)
		}
	}
}

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string, opts ...Option) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &Repository{pool: pool, table: pq.QuoteIdentifier(DefaultTable)}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// EnsureSchema creates the cats table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         BIGSERIAL PRIMARY KEY,
			name       TEXT NOT NULL,
			breed      TEXT NOT NULL,
			age        DOUBLE PRECISION NOT NULL CHECK (age >= 0),
			weight     DOUBLE PRECISION NOT NULL CHECK (weight >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, r.table)

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Repository.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}
