// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/parkspot/parkspot/internal/config"
	"github.com/parkspot/parkspot/internal/credential"
	"github.com/parkspot/parkspot/internal/logging"
	"github.com/parkspot/parkspot/internal/token"
)

// loadConfig reads the layered configuration for cmd without validating it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, oops.Code(config.CodeInvalid).Wrap(err)
	}
	return config.Load(config.LoadOptions{File: path, Flags: cmd.Flags()})
}

// setupLogger builds the process logger from cfg and installs it as the
// slog default.
func setupLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{
		Service: "parkspot",
		Version: version,
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// loadValidated loads config, sets up logging and validates. Validation runs
// after logging so an insecure-secret warning reaches the configured sink.
func loadValidated(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := setupLogger(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(logger); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func probeConfig(h config.HashingConfig) credential.ProbeConfig {
	return credential.ProbeConfig{
		Preferred: credential.Scheme(h.Scheme),
		Argon2id: credential.Argon2idParams{
			MemoryKiB:   h.Argon2.MemoryKiB,
			Iterations:  h.Argon2.Iterations,
			Parallelism: h.Argon2.Parallelism,
			SaltLength:  h.Argon2.SaltLength,
			KeyLength:   h.Argon2.KeyLength,
		},
		BcryptCost:     h.BcryptCost,
		MaxConcurrency: h.MaxConcurrency,
	}
}

// probeHasher selects the hashing scheme for this process and logs the choice.
func probeHasher(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*credential.Hasher, error) {
	policy, err := credential.Probe(probeConfig(cfg.Hashing))
	if err != nil {
		return nil, err
	}
	if fallback := policy.Fallback(); fallback != "" {
		logger.WarnContext(ctx, "preferred hashing scheme unavailable, using fallback",
			"scheme", string(policy.Scheme()),
			"reason", fallback)
	}
	logger.InfoContext(ctx, "password hashing ready",
		"scheme", string(policy.Scheme()),
		"max_concurrency", policy.MaxConcurrency())
	return credential.NewHasher(policy)
}

func newCodec(cfg *config.Config) (*token.Codec, error) {
	return token.NewCodec(token.Config{
		SecretKey:  []byte(cfg.Auth.SecretKey),
		DefaultTTL: cfg.Auth.TokenTTL,
	})
}

func requireDatabaseURL(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return oops.Code(config.CodeInvalid).
			With("key", "database_url").
			Hint("set database_url, PARKSPOT_DATABASE_URL or --database-url").
			Wrap(fmt.Errorf("%w: database_url is required", config.ErrConfiguration))
	}
	return nil
}
