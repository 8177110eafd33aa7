// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package config_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkspot/parkspot/internal/config"
	"github.com/parkspot/parkspot/pkg/errutil"
)

func TestGenerateSchema(t *testing.T) {
	raw, err := config.GenerateSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))
	assert.Equal(t, config.SchemaID, schema["$id"])
	assert.Equal(t, "ParkSpot Configuration", schema["title"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"database_url", "http", "metrics", "log", "auth", "hashing"} {
		assert.Contains(t, props, key)
	}
	assert.NotContains(t, schema, "required")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{name: "empty", yaml: ""},
		{name: "minimal", yaml: "auth:\n  secret_key: abc\n"},
		{name: "full", yaml: `
database_url: postgres://db/parkspot
auto_migrate: true
http: {addr: ":8000"}
metrics: {addr: ""}
log: {format: json, level: warn}
auth:
  secret_key: abc
  token_ttl: 24h
  allow_insecure_secret: false
  registration: {allowed_identities: ["*@parkspot.dev"]}
hashing:
  scheme: argon2id
  bcrypt_cost: 12
  max_concurrency: 2
  argon2: {memory_kib: 65536, iterations: 2, parallelism: 1, salt_length: 16, key_length: 32}
`},
		{name: "not yaml", yaml: "auth: [unclosed", wantErr: true},
		{name: "unknown top-level key", yaml: "jwt_secret: x\n", wantErr: true},
		{name: "wrong type", yaml: "http:\n  addr: 8080\n", wantErr: true},
		{name: "bad log level", yaml: "log:\n  level: loud\n", wantErr: true},
		{name: "bcrypt cost too high", yaml: "hashing:\n  bcrypt_cost: 40\n", wantErr: true},
		{name: "ttl not a string", yaml: "auth:\n  token_ttl: 3600\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.Validate([]byte(tt.yaml))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrConfiguration)
			errutil.AssertErrorCode(t, err, config.CodeSchemaInvalid)
		})
	}
}

func TestExampleConfig(t *testing.T) {
	path := filepath.Join("..", "..", "config.example.yaml")
	require.NoError(t, config.ValidateFile(path))

	isolate(t)
	cfg, err := config.Load(config.LoadOptions{File: path})
	require.NoError(t, err)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, config.Default().Hashing, cfg.Hashing)
	assert.Equal(t, config.Default().Auth.TokenTTL, cfg.Auth.TokenTTL)
}
