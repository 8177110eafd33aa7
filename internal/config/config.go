// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

// Package config loads and validates ParkSpot process configuration.
//
// Sources are layered, lowest precedence first: built-in defaults, the YAML
// config file, PARKSPOT_* environment variables, then flags set on the
// command line.
package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/samber/oops"
)

// MinSecretKeyBytes is the shortest signing secret accepted without
// auth.allow_insecure_secret.
const MinSecretKeyBytes = 32

// placeholderSecrets are values that show up in sample configs and must never
// sign production tokens.
var placeholderSecrets = []string{
	"change-this-secret",
	"changeme",
	"secret",
}

// Config is the full process configuration.
type Config struct {
	DatabaseURL string        `koanf:"database_url" json:"database_url,omitempty" jsonschema:"description=PostgreSQL connection URL"`
	AutoMigrate bool          `koanf:"auto_migrate" json:"auto_migrate,omitempty" jsonschema:"description=Apply pending migrations before serving"`
	HTTP        HTTPConfig    `koanf:"http" json:"http,omitempty"`
	Metrics     MetricsConfig `koanf:"metrics" json:"metrics,omitempty"`
	Log         LogConfig     `koanf:"log" json:"log,omitempty"`
	Auth        AuthConfig    `koanf:"auth" json:"auth,omitempty"`
	Hashing     HashingConfig `koanf:"hashing" json:"hashing,omitempty"`
}

// HTTPConfig configures the public API listener.
type HTTPConfig struct {
	Addr string `koanf:"addr" json:"addr,omitempty" jsonschema:"description=API listen address"`
}

// MetricsConfig configures the metrics and health listener.
type MetricsConfig struct {
	// Addr empty disables the listener.
	Addr string `koanf:"addr" json:"addr,omitempty" jsonschema:"description=Metrics and health listen address (empty disables)"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Format string `koanf:"format" json:"format,omitempty" jsonschema:"enum=json,enum=text"`
	Level  string `koanf:"level" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// AuthConfig configures token signing and registration.
type AuthConfig struct {
	SecretKey           string             `koanf:"secret_key" json:"secret_key,omitempty" jsonschema:"description=HMAC key for signing bearer tokens"`
	TokenTTL            time.Duration      `koanf:"token_ttl" json:"token_ttl,omitempty" jsonschema:"type=string,description=Default token lifetime (e.g. 168h)"`
	AllowInsecureSecret bool               `koanf:"allow_insecure_secret" json:"allow_insecure_secret,omitempty" jsonschema:"description=Accept short or placeholder secrets (development only)"`
	Registration        RegistrationConfig `koanf:"registration" json:"registration,omitempty"`
}

// RegistrationConfig restricts who may register.
type RegistrationConfig struct {
	// AllowedIdentities are glob patterns. Empty allows everyone.
	AllowedIdentities []string `koanf:"allowed_identities" json:"allowed_identities,omitempty" jsonschema:"description=Glob patterns of identity keys allowed to register"`
}

// HashingConfig selects and tunes the password hashing backend.
type HashingConfig struct {
	Scheme         string       `koanf:"scheme" json:"scheme,omitempty" jsonschema:"enum=auto,enum=argon2id,enum=bcrypt"`
	BcryptCost     int          `koanf:"bcrypt_cost" json:"bcrypt_cost,omitempty" jsonschema:"minimum=4,maximum=31"`
	Argon2         Argon2Config `koanf:"argon2" json:"argon2,omitempty"`
	MaxConcurrency int          `koanf:"max_concurrency" json:"max_concurrency,omitempty" jsonschema:"minimum=0,description=Concurrent hash operations (0 means NumCPU)"`
}

// Argon2Config holds Argon2id cost parameters.
type Argon2Config struct {
	MemoryKiB   uint32 `koanf:"memory_kib" json:"memory_kib,omitempty"`
	Iterations  uint32 `koanf:"iterations" json:"iterations,omitempty"`
	Parallelism uint8  `koanf:"parallelism" json:"parallelism,omitempty"`
	SaltLength  uint32 `koanf:"salt_length" json:"salt_length,omitempty"`
	KeyLength   uint32 `koanf:"key_length" json:"key_length,omitempty"`
}

// Default returns the built-in defaults. The secret key has no default.
func Default() Config {
	return Config{
		HTTP:    HTTPConfig{Addr: ":8000"},
		Metrics: MetricsConfig{Addr: ":9100"},
		Log:     LogConfig{Format: "json", Level: "info"},
		Auth:    AuthConfig{TokenTTL: 7 * 24 * time.Hour},
		Hashing: HashingConfig{
			Scheme:     "auto",
			BcryptCost: 12,
			Argon2: Argon2Config{
				MemoryKiB:   64 * 1024,
				Iterations:  1,
				Parallelism: 4,
				SaltLength:  16,
				KeyLength:   32,
			},
		},
	}
}

// Validate checks settings that must hold before serving. A weak secret is
// accepted with a warning on logger when AllowInsecureSecret is set.
func (c *Config) Validate(logger *slog.Logger) error {
	if err := c.validateSecret(logger); err != nil {
		return err
	}
	if c.Auth.TokenTTL <= 0 {
		return invalid("auth.token_ttl", c.Auth.TokenTTL.String(), "token TTL must be positive")
	}
	if !slices.Contains([]string{"auto", "argon2id", "bcrypt"}, c.Hashing.Scheme) {
		return invalid("hashing.scheme", c.Hashing.Scheme, "unknown hashing scheme")
	}
	if c.Hashing.MaxConcurrency < 0 {
		return invalid("hashing.max_concurrency", fmt.Sprint(c.Hashing.MaxConcurrency), "concurrency cannot be negative")
	}
	if c.HTTP.Addr == "" {
		return invalid("http.addr", "", "API listen address is required")
	}
	if c.HTTP.Addr == c.Metrics.Addr {
		return invalid("metrics.addr", c.Metrics.Addr, "metrics address must differ from http.addr")
	}
	return nil
}

func (c *Config) validateSecret(logger *slog.Logger) error {
	secret := c.Auth.SecretKey
	if strings.TrimSpace(secret) == "" {
		return oops.Code(CodeMissingSecret).
			With("key", "auth.secret_key").
			Wrap(fmt.Errorf("%w: auth.secret_key is not set", ErrConfiguration))
	}

	var reason string
	switch {
	case slices.Contains(placeholderSecrets, strings.ToLower(secret)):
		reason = "secret key is a well-known placeholder"
	case len(secret) < MinSecretKeyBytes:
		reason = fmt.Sprintf("secret key is shorter than %d bytes", MinSecretKeyBytes)
	default:
		return nil
	}

	if !c.Auth.AllowInsecureSecret {
		return oops.Code(CodeWeakSecret).
			With("key", "auth.secret_key").
			Hint("set auth.allow_insecure_secret for local development only").
			Wrap(fmt.Errorf("%w: %s", ErrConfiguration, reason))
	}
	if logger != nil {
		logger.Warn("INSECURE SECRET KEY IN USE: tokens can be forged", "reason", reason)
	}
	return nil
}

func invalid(key, value, msg string) error {
	return oops.Code(CodeInvalid).
		With("key", key).
		With("value", value).
		Wrap(fmt.Errorf("%w: %s", ErrConfiguration, msg))
}
