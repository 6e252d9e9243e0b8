// Package postgres implements the indexer's stores on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dash-indexer/internal/observability"
)

// defaultMaxConns caps the shared pool when the DSN does not say otherwise.
const defaultMaxConns = 8

// Pool wraps pgxpool.Pool for dependency injection.
type Pool struct {
	*pgxpool.Pool

	// Metrics records query durations when set.
	Metrics *observability.Metrics
}

// NewPool creates a new Postgres connection pool. TLS is driven by the DSN's
// sslmode parameter.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if !strings.Contains(dsn, "pool_max_conns") {
		config.MaxConns = defaultMaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() {
	p.Pool.Close()
}

// observe records one query's duration. Call with the query start time.
func (p *Pool) observe(table, operation string, start time.Time) {
	if p.Metrics == nil {
		return
	}
	p.Metrics.DBQueryDuration.WithLabelValues(table, operation).Observe(time.Since(start).Seconds())
}

// isNotFoundError checks if error indicates no rows found.
func isNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
