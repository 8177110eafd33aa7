// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package store

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx/v5 driver, registered under the pgx5:// scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/samber/oops"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// migrateIface is the subset of *migrate.Migrate the Migrator uses.
type migrateIface interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	Close() (source error, database error)
}

// Migrator applies the embedded schema migrations.
type Migrator struct {
	m migrateIface
}

// NewMigrator connects to databaseURL. postgres:// and postgresql:// URLs
// are accepted and rewritten for the pgx5 driver.
func NewMigrator(databaseURL string) (*Migrator, error) {
	source, err := iofs.New(migrationsFS, migrationsDir)
	if err != nil {
		return nil, oops.Code("STORE_MIGRATION_SOURCE_FAILED").Wrap(err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateURL(databaseURL))
	if err != nil {
		_ = source.Close() //nolint:errcheck // the init error is the one worth returning
		return nil, oops.Code("STORE_MIGRATION_INIT_FAILED").Wrap(err)
	}
	return &Migrator{m: m}, nil
}

func migrateURL(databaseURL string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(databaseURL, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return databaseURL
}

// Up applies every pending migration. Being current is not an error.
func (m *Migrator) Up() error {
	return ignoreNoChange(m.m.Up(), "STORE_MIGRATION_UP_FAILED")
}

// Down reverts every migration, dropping the users table.
func (m *Migrator) Down() error {
	return ignoreNoChange(m.m.Down(), "STORE_MIGRATION_DOWN_FAILED")
}

// Steps moves n migrations forward (n > 0) or back (n < 0).
func (m *Migrator) Steps(n int) error {
	if err := ignoreNoChange(m.m.Steps(n), "STORE_MIGRATION_STEPS_FAILED"); err != nil {
		return oops.With("steps", n).Wrap(err)
	}
	return nil
}

// Version reports the applied version. An empty database is version 0.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = m.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, oops.Code("STORE_MIGRATION_VERSION_FAILED").Wrap(err)
	}
	return version, dirty, nil
}

// Force records version as applied and clears the dirty flag without running
// anything. It is the recovery path after a half-applied migration.
func (m *Migrator) Force(version int) error {
	if version < 0 {
		return oops.Code("STORE_MIGRATION_INVALID_VERSION").
			Errorf("version must be non-negative, got %d", version)
	}
	if err := m.m.Force(version); err != nil {
		return oops.Code("STORE_MIGRATION_FORCE_FAILED").With("version", version).Wrap(err)
	}
	return nil
}

// Close releases the source and database handles.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		return oops.Code("STORE_MIGRATION_CLOSE_FAILED").Wrap(err)
	}
	return nil
}

// Status summarizes the migration state.
type Status struct {
	Current uint
	Dirty   bool
	Applied []uint
	Pending []uint
}

// Status splits the embedded migrations into applied and pending.
func (m *Migrator) Status() (Status, error) {
	current, dirty, err := m.Version()
	if err != nil {
		return Status{}, err
	}
	all, err := migrationVersions(migrationsFS)
	if err != nil {
		return Status{}, err
	}

	st := Status{Current: current, Dirty: dirty}
	for _, v := range all {
		if v <= current {
			st.Applied = append(st.Applied, v)
		} else {
			st.Pending = append(st.Pending, v)
		}
	}
	return st, nil
}

// migrationVersions lists the versions of every NNNNNN_name.up.sql file in
// ascending order. Files not following that pattern are ignored.
func migrationVersions(fsys fs.FS) ([]uint, error) {
	entries, err := fs.ReadDir(fsys, migrationsDir)
	if err != nil {
		return nil, oops.Code("STORE_MIGRATION_LIST_FAILED").Wrap(err)
	}

	var versions []uint
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		var v uint
		if _, err := fmt.Sscanf(name, "%06d_", &v); err != nil {
			continue
		}
		versions = append(versions, v)
	}
	slices.Sort(versions)
	return slices.Compact(versions), nil
}

// MigrationName returns the NNNNNN_name of version, or "" if there is none.
func MigrationName(version uint) (string, error) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	if err != nil {
		return "", oops.Code("STORE_MIGRATION_LIST_FAILED").Wrap(err)
	}
	prefix := fmt.Sprintf("%06d_", version)
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok && strings.HasPrefix(name, prefix) {
			return name, nil
		}
	}
	return "", nil
}

func ignoreNoChange(err error, code string) error {
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return oops.Code(code).Wrap(err)
}
