// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package config_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkspot/parkspot/internal/config"
	"github.com/parkspot/parkspot/pkg/errutil"
)

const strongSecret = "0123456789abcdef0123456789abcdef"

func validConfig() config.Config {
	cfg := config.Default()
	cfg.Auth.SecretKey = strongSecret
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "auto", cfg.Hashing.Scheme)
	assert.Equal(t, 12, cfg.Hashing.BcryptCost)
	assert.Equal(t, uint32(64*1024), cfg.Hashing.Argon2.MemoryKiB)
	assert.Empty(t, cfg.Auth.SecretKey)
}

func TestValidate_Secret(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		insecure bool
		code     string
		warns    bool
	}{
		{name: "missing", secret: "", code: config.CodeMissingSecret},
		{name: "whitespace", secret: "   ", code: config.CodeMissingSecret},
		{name: "placeholder", secret: "change-this-secret", code: config.CodeWeakSecret},
		{name: "placeholder any case", secret: "ChangeMe", code: config.CodeWeakSecret},
		{name: "short", secret: "too-short", code: config.CodeWeakSecret},
		{name: "short allowed", secret: "too-short", insecure: true, warns: true},
		{name: "placeholder allowed", secret: "secret", insecure: true, warns: true},
		{name: "missing never allowed", secret: "", insecure: true, code: config.CodeMissingSecret},
		{name: "strong", secret: strongSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			cfg := validConfig()
			cfg.Auth.SecretKey = tt.secret
			cfg.Auth.AllowInsecureSecret = tt.insecure

			err := cfg.Validate(logger)
			if tt.code != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, config.ErrConfiguration)
				errutil.AssertErrorCode(t, err, tt.code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.warns, strings.Contains(buf.String(), "INSECURE SECRET KEY"))
		})
	}
}

func TestValidate_Settings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "zero ttl", mutate: func(c *config.Config) { c.Auth.TokenTTL = 0 }},
		{name: "negative ttl", mutate: func(c *config.Config) { c.Auth.TokenTTL = -time.Hour }},
		{name: "unknown scheme", mutate: func(c *config.Config) { c.Hashing.Scheme = "md5" }},
		{name: "negative concurrency", mutate: func(c *config.Config) { c.Hashing.MaxConcurrency = -1 }},
		{name: "no http addr", mutate: func(c *config.Config) { c.HTTP.Addr = "" }},
		{name: "shared addr", mutate: func(c *config.Config) { c.Metrics.Addr = c.HTTP.Addr }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate(slog.Default())
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrConfiguration)
			errutil.AssertErrorCode(t, err, config.CodeInvalid)
		})
	}
}

func TestValidate_NilLogger(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.SecretKey = "short"
	cfg.Auth.AllowInsecureSecret = true

	assert.NoError(t, cfg.Validate(nil))
}
