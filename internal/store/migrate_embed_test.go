// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package store

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS_EmbeddedFiles(t *testing.T) {
	entries, err := migrationsFS.ReadDir(migrationsDir)
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^\d{6}_\w+\.(up|down)\.sql$`)
	ups, downs := map[string]bool{}, map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		assert.True(t, pattern.MatchString(name), "%s should match NNNNNN_name.(up|down).sql", name)
		if base, ok := strings.CutSuffix(name, ".up.sql"); ok {
			ups[base] = true
		}
		if base, ok := strings.CutSuffix(name, ".down.sql"); ok {
			downs[base] = true
		}
	}

	assert.True(t, ups["000001_create_users"])
	assert.Equal(t, ups, downs, "every up migration needs a down migration")
}

func TestMigrationsFS_UsersTable(t *testing.T) {
	sql, err := migrationsFS.ReadFile("migrations/000001_create_users.up.sql")
	require.NoError(t, err)

	for _, column := range []string{"id", "identity_key", "name", "secret_hash", "is_active", "created_at"} {
		assert.Contains(t, string(sql), column)
	}
	assert.Contains(t, string(sql), "UNIQUE (identity_key)")
}
