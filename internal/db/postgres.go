package db

import (
	"context"
	"errors"
	"time"

	"backend-stridelog/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoPostgres is returned when no connection URL is configured.
var ErrNoPostgres = errors.New("postgres not configured")

var (
	newPoolFn  = pgxpool.New
	pingPoolFn = func(ctx context.Context, pool *pgxpool.Pool) error { return pool.Ping(ctx) }
)

// ConnectPostgres opens the archive pool. An empty URL returns
// ErrNoPostgres so callers can run without an archive.
func ConnectPostgres(cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.PostgresURL == "" {
		return nil, ErrNoPostgres
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := newPoolFn(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, err
	}
	if err := pingPoolFn(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
