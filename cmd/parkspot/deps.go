// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/parkspot/parkspot/internal/observability"
	"github.com/parkspot/parkspot/internal/store"
	"github.com/parkspot/parkspot/internal/web"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// DatabaseOpener connects to Postgres.
	// Default: store.Open with store.DefaultConnectOptions
	DatabaseOpener func(ctx context.Context, url string, logger *slog.Logger) (Database, error)

	// MigratorFactory creates a migrator for auto_migrate.
	// Default: store.NewMigrator
	MigratorFactory func(url string) (Migrator, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// WebServerFactory creates the public API server.
	// Default: web.NewServer
	WebServerFactory func(addr string, svc web.Authenticator, opts ...web.Option) (WebServer, error)

	// Signals returns the channel shutdown signals arrive on and a stop func.
	// Default: SIGINT and SIGTERM via signal.Notify
	Signals func() (<-chan os.Signal, func())
}

// MigrateDeps contains injectable dependencies for the migrate commands.
type MigrateDeps struct {
	// MigratorFactory creates a migrator.
	// Default: store.NewMigrator
	MigratorFactory func(url string) (Migrator, error)
}

// Database is the pool used by the serve command. *pgxpool.Pool and
// pgxmock.PgxPoolIface satisfy it.
type Database interface {
	store.Pool
	Close()
}

// Migrator wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	Status() (store.Status, error)
	Close() error
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// WebServer interface wraps the methods used from web.Server.
type WebServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

func defaultMigratorFactory(url string) (Migrator, error) {
	return store.NewMigrator(url)
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := ServeDeps{}
	if d != nil {
		out = *d
	}
	if out.DatabaseOpener == nil {
		out.DatabaseOpener = func(ctx context.Context, url string, logger *slog.Logger) (Database, error) {
			opts := store.DefaultConnectOptions()
			opts.Logger = logger
			return store.Open(ctx, url, opts)
		}
	}
	if out.MigratorFactory == nil {
		out.MigratorFactory = defaultMigratorFactory
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
	if out.WebServerFactory == nil {
		out.WebServerFactory = func(addr string, svc web.Authenticator, opts ...web.Option) (WebServer, error) {
			return web.NewServer(addr, svc, opts...)
		}
	}
	if out.Signals == nil {
		out.Signals = notifySignals
	}
	return &out
}

func (d *MigrateDeps) withDefaults() *MigrateDeps {
	out := MigrateDeps{}
	if d != nil {
		out = *d
	}
	if out.MigratorFactory == nil {
		out.MigratorFactory = defaultMigratorFactory
	}
	return &out
}
