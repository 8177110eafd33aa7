// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/parkspot/parkspot/internal/xdg"
)

// EnvPrefix prefixes every environment override. A double underscore
// separates nesting levels: PARKSPOT_AUTH__SECRET_KEY sets auth.secret_key.
const EnvPrefix = "PARKSPOT_"

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"database-url": "database_url",
	"auto-migrate": "auto_migrate",
	"http-addr":    "http.addr",
	"metrics-addr": "metrics.addr",
	"log-format":   "log.format",
	"log-level":    "log.level",
	"token-ttl":    "auth.token_ttl",
	"hash-scheme":  "hashing.scheme",
}

// RegisterFlags adds the flags that override config keys to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("database-url", d.DatabaseURL, "PostgreSQL connection URL")
	fs.Bool("auto-migrate", d.AutoMigrate, "apply pending migrations before serving")
	fs.String("http-addr", d.HTTP.Addr, "API listen address")
	fs.String("metrics-addr", d.Metrics.Addr, "metrics/health HTTP address (empty = disabled)")
	fs.String("log-format", d.Log.Format, "log format (json or text)")
	fs.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
	fs.Duration("token-ttl", d.Auth.TokenTTL, "default bearer token lifetime")
	fs.String("hash-scheme", d.Hashing.Scheme, "password hashing scheme (auto, argon2id, bcrypt)")
}

// LoadOptions controls Load.
type LoadOptions struct {
	// File is an explicit config path. It must exist. When empty the XDG
	// default is used if present.
	File string
	// Flags holds flags registered with RegisterFlags. May be nil.
	Flags *pflag.FlagSet
}

// Load builds a Config from defaults, file, environment and flags. It does
// not call Validate.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	path, err := resolveFile(opts.File)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := ValidateFile(path); err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, loadFailed("file", err, "path", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, loadFailed("env", err)
	}

	if opts.Flags != nil {
		// Unchanged flags only fill keys no other source has set.
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, loadFailed("flags", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, loadFailed("unmarshal", err)
	}
	return &cfg, nil
}

func resolveFile(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	path, found, err := xdg.DefaultConfigFile()
	if err != nil {
		return "", loadFailed("file", err)
	}
	if !found {
		return "", nil
	}
	return path, nil
}

// envKey turns PARKSPOT_AUTH__SECRET_KEY into auth.secret_key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func loadFailed(source string, err error, kv ...any) error {
	return oops.Code(CodeLoadFailed).
		With("source", source).
		With(kv...).
		Wrapf(fmt.Errorf("%w: %w", ErrConfiguration, err), "load config from %s", source)
}
