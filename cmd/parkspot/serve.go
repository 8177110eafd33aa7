// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/parkspot/parkspot/internal/auth"
	"github.com/parkspot/parkspot/internal/auth/postgres"
	"github.com/parkspot/parkspot/internal/web"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return newServeCmdWithDeps(nil)
}

func newServeCmdWithDeps(deps *ServeDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the authentication API",
		Long: `Start the HTTP API serving /register, /token and /users/me, plus the
metrics and health endpoints when metrics.addr is set.

Startup aborts on any configuration error: a missing or weak signing secret,
no usable password hashing backend, or an unreachable database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, deps)
		},
	}
}

// runServeWithDeps runs the server until a signal, a server failure or ctx
// ends it. If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, deps *ServeDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	deps = deps.withDefaults()

	cfg, logger, err := loadValidated(cmd)
	if err != nil {
		return err
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}

	hasher, err := probeHasher(ctx, logger, cfg)
	if err != nil {
		return err
	}
	codec, err := newCodec(cfg)
	if err != nil {
		return err
	}

	if cfg.AutoMigrate {
		if err := autoMigrate(deps, cfg.DatabaseURL, logger); err != nil {
			return err
		}
	}

	db, err := deps.DatabaseOpener(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return oops.With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()
	logger.Info("connected to database")

	svc, err := auth.NewService(postgres.NewDirectory(db), hasher, codec,
		auth.WithLogger(logger),
		auth.WithRegistrationAllowList(cfg.Auth.Registration.AllowedIdentities...),
		auth.WithTokenTTL(cfg.Auth.TokenTTL),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	webOpts := []web.Option{web.WithLogger(logger)}

	var obsServer ObservabilityServer
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, db.Ping)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		webOpts = append(webOpts, web.WithMetrics(obsServer.Metrics()))
	}

	webServer, err := deps.WebServerFactory(cfg.HTTP.Addr, svc, webOpts...)
	if err != nil {
		stopServer(obsServer, "observability")
		return err
	}
	webErrChan, err := webServer.Start()
	if err != nil {
		stopServer(obsServer, "observability")
		return oops.With("operation", "start web server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, webErrChan, "web")

	sigChan, stopSignals := deps.Signals()
	defer stopSignals()

	cmd.Println("ParkSpot auth server started")
	logger.Info("server ready",
		"http_addr", webServer.Addr(),
		"metrics_addr", cfg.Metrics.Addr,
		"hash_scheme", string(hasher.Policy().Scheme()))

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	stopServer(webServer, "web")
	stopServer(obsServer, "observability")
	logger.Info("shutdown complete")
	return nil
}

func autoMigrate(deps *ServeDeps, url string, logger *slog.Logger) error {
	migrator, err := deps.MigratorFactory(url)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("failed to close migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return err
	}
	version, _, err := migrator.Version()
	if err != nil {
		return err
	}
	logger.Info("database schema is current", "version", version)
	return nil
}

type stoppable interface {
	Stop(ctx context.Context) error
}

func stopServer(s stoppable, name string) {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		slog.Warn("error stopping server", "server", name, "error", err)
	}
}

func notifySignals() (<-chan os.Signal, func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sigChan, func() { signal.Stop(sigChan) }
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
