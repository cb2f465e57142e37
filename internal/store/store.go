// Package store implements PostgreSQL persistence for users, accounts,
// categories, rules and transactions using pgx connection pooling.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"financetrack/internal/logging"
)

// Store wraps a pgx pool and provides the queries used by the ingestion and
// categorization pipeline and the HTTP handlers.
type Store struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// New connects to PostgreSQL with the given URL and verifies the connection.
func New(ctx context.Context, databaseURL string, logger logging.Logger) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
