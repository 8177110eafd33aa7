// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

// Package store opens the Postgres pool and owns the schema migrations.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Pool is the subset of *pgxpool.Pool used by repositories. Each call
// acquires a connection for one statement and returns it before returning.
// pgxmock.PgxPoolIface satisfies it in unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// ConnectOptions bounds the startup connection attempts.
type ConnectOptions struct {
	MaxRetries uint64
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Logger     *slog.Logger
}

// DefaultConnectOptions retries for roughly half a minute.
func DefaultConnectOptions() ConnectOptions {
	return ConnectOptions{
		MaxRetries: 6,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   8 * time.Second,
		Logger:     slog.Default(),
	}
}

// Open creates a pool for databaseURL and waits until the database answers a
// ping. Unreachable databases are retried with exponential backoff; a URL
// that does not parse fails at once.
func Open(ctx context.Context, databaseURL string, opts ConnectOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("STORE_INVALID_URL").Wrap(err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, oops.Code("STORE_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}

	if err := waitForDatabase(ctx, pool, opts); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func waitForDatabase(ctx context.Context, pool Pool, opts ConnectOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backoff := retry.NewExponential(opts.BaseDelay)
	if opts.MaxDelay > 0 {
		backoff = retry.WithCappedDuration(opts.MaxDelay, backoff)
	}
	backoff = retry.WithMaxRetries(opts.MaxRetries, backoff)

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := pool.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "database not ready", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return oops.Code("STORE_CONNECT_FAILED").
			With("attempts", attempt).
			Wrap(err)
	}
	return nil
}
