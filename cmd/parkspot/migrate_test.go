// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkspot/parkspot/internal/config"
	"github.com/parkspot/parkspot/internal/store"
	"github.com/parkspot/parkspot/pkg/errutil"
)

func TestParseForceVersion(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantVersion int
		wantErr     bool
	}{
		{name: "valid integer", input: "3", wantVersion: 3},
		{name: "zero is valid", input: "0", wantVersion: 0},
		{name: "surrounding whitespace", input: "  42 ", wantVersion: 42},
		{name: "non-numeric", input: "abc", wantErr: true},
		{name: "float", input: "1.5", wantErr: true},
		{name: "trailing chars", input: "3abc", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseForceVersion(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "MIGRATE_INVALID_VERSION")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, got)
		})
	}
}

func runMigrate(t *testing.T, m *fakeMigrator, args ...string) (result, error) {
	t.Helper()
	isolateEnv(t)
	t.Setenv("PARKSPOT_DATABASE_URL", "postgres://test/parkspot")

	root := newRootCmdWithDeps(nil, &MigrateDeps{
		MigratorFactory: func(url string) (Migrator, error) {
			assert.Equal(t, "postgres://test/parkspot", url)
			return m, nil
		},
	})
	return execute(context.Background(), root, append([]string{"migrate"}, args...)...)
}

func TestMigrate_Up(t *testing.T) {
	for _, args := range [][]string{nil, {"up"}} {
		m := &fakeMigrator{version: 2}
		res, err := runMigrate(t, m, args...)
		require.NoError(t, err)
		assert.Equal(t, 1, m.upCalls)
		assert.True(t, m.closed)
		assert.Contains(t, res.err+res.out, "Migrations completed successfully (version 2)")
	}
}

func TestMigrate_Down(t *testing.T) {
	t.Run("one step by default", func(t *testing.T) {
		m := &fakeMigrator{}
		_, err := runMigrate(t, m, "down")
		require.NoError(t, err)
		assert.Equal(t, []int{-1}, m.steps)
		assert.Zero(t, m.downCalls)
	})

	t.Run("steps", func(t *testing.T) {
		m := &fakeMigrator{}
		_, err := runMigrate(t, m, "down", "--steps", "2")
		require.NoError(t, err)
		assert.Equal(t, []int{-2}, m.steps)
	})

	t.Run("all", func(t *testing.T) {
		m := &fakeMigrator{}
		_, err := runMigrate(t, m, "down", "--all")
		require.NoError(t, err)
		assert.Equal(t, 1, m.downCalls)
		assert.Empty(t, m.steps)
	})

	t.Run("zero steps rejected", func(t *testing.T) {
		m := &fakeMigrator{}
		_, err := runMigrate(t, m, "down", "--steps", "0")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MIGRATE_INVALID_STEPS")
		assert.Empty(t, m.steps)
	})
}

func TestMigrate_Status(t *testing.T) {
	m := &fakeMigrator{status: store.Status{Current: 1, Applied: []uint{1}, Pending: []uint{2}}}
	res, err := runMigrate(t, m, "status")
	require.NoError(t, err)

	out := res.err + res.out
	assert.Contains(t, out, "Current version: 1")
	assert.Contains(t, out, "[applied] 000001_create_users")
	assert.Contains(t, out, "[pending] 000002_users_identity_key_normalized")
	assert.NotContains(t, out, "dirty")
}

func TestMigrate_Version(t *testing.T) {
	m := &fakeMigrator{version: 2, dirty: true}
	res, err := runMigrate(t, m, "version")
	require.NoError(t, err)
	assert.Contains(t, res.err+res.out, "2 (dirty)")
}

func TestMigrate_Force(t *testing.T) {
	m := &fakeMigrator{}
	_, err := runMigrate(t, m, "force", "1")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, m.forced)

	m = &fakeMigrator{}
	_, err = runMigrate(t, m, "force", "nope")
	require.Error(t, err)
	assert.Empty(t, m.forced)
}

func TestMigrate_Errors(t *testing.T) {
	t.Run("migration failure propagates", func(t *testing.T) {
		m := &fakeMigrator{err: errors.New("syntax error at or near")}
		_, err := runMigrate(t, m, "up")
		require.Error(t, err)
		assert.True(t, m.closed)
	})

	t.Run("database url required", func(t *testing.T) {
		isolateEnv(t)
		root := newRootCmdWithDeps(nil, &MigrateDeps{
			MigratorFactory: func(string) (Migrator, error) {
				t.Error("migrator created without a database url")
				return nil, errors.New("unreachable")
			},
		})
		_, err := execute(context.Background(), root, "migrate", "up")
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrConfiguration)
	})
}
