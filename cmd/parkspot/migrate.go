// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/parkspot/parkspot/internal/store"
)

// NewMigrateCmd creates the migrate command group. Bare "migrate" applies
// every pending migration.
func NewMigrateCmd() *cobra.Command {
	return newMigrateCmdWithDeps(nil)
}

func newMigrateCmdWithDeps(deps *MigrateDeps) *cobra.Command {
	deps = deps.withDefaults()

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  `Apply, roll back and inspect the embedded PostgreSQL schema migrations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, deps, runMigrateUp)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, deps, runMigrateUp)
		},
	})

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations (one step by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Both flags are registered below, so the lookups cannot fail.
			all, _ := cmd.Flags().GetBool("all")
			steps, _ := cmd.Flags().GetInt("steps")
			return withMigrator(cmd, deps, func(cmd *cobra.Command, m Migrator) error {
				return runMigrateDown(cmd, m, all, steps)
			})
		},
	}
	down.Flags().Int("steps", 1, "number of migrations to roll back")
	down.Flags().Bool("all", false, "roll back every migration")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, deps, runMigrateStatus)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, deps, runMigrateVersion)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Set the schema version without running migrations",
		Long: `Mark the schema as being at VERSION and clear the dirty flag. Use this
only after repairing a failed migration by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseForceVersion(args[0])
			if err != nil {
				return err
			}
			return withMigrator(cmd, deps, func(cmd *cobra.Command, m Migrator) error {
				if err := m.Force(version); err != nil {
					return err
				}
				cmd.Printf("Schema version forced to %d\n", version)
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(cmd *cobra.Command, deps *MigrateDeps, fn func(*cobra.Command, Migrator) error) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}

	m, err := deps.MigratorFactory(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(cmd, m)
}

func runMigrateUp(cmd *cobra.Command, m Migrator) error {
	cmd.Println("Running migrations...")
	if err := m.Up(); err != nil {
		return err
	}
	version, _, err := m.Version()
	if err != nil {
		return err
	}
	cmd.Printf("Migrations completed successfully (version %d)\n", version)
	return nil
}

func runMigrateDown(cmd *cobra.Command, m Migrator, all bool, steps int) error {
	if all {
		if err := m.Down(); err != nil {
			return err
		}
		cmd.Println("All migrations rolled back")
		return nil
	}
	if steps < 1 {
		return oops.Code("MIGRATE_INVALID_STEPS").With("steps", steps).Errorf("steps must be at least 1")
	}
	if err := m.Steps(-steps); err != nil {
		return err
	}
	cmd.Printf("Rolled back %d migration(s)\n", steps)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, m Migrator) error {
	st, err := m.Status()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Current version: %d", st.Current) //nolint:errcheck // terminal output
	if st.Dirty {
		fmt.Fprint(out, " (dirty)") //nolint:errcheck // terminal output
	}
	fmt.Fprintln(out) //nolint:errcheck // terminal output

	for _, v := range st.Applied {
		printMigration(cmd, "applied", v)
	}
	for _, v := range st.Pending {
		printMigration(cmd, "pending", v)
	}
	return nil
}

func printMigration(cmd *cobra.Command, state string, v uint) {
	name, err := store.MigrationName(v)
	if err != nil || name == "" {
		name = fmt.Sprintf("%06d", v)
	}
	cmd.Printf("  [%s] %s\n", state, name)
}

func runMigrateVersion(cmd *cobra.Command, m Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if dirty {
		cmd.Printf("%d (dirty)\n", version)
		return nil
	}
	cmd.Printf("%d\n", version)
	return nil
}

// parseForceVersion parses a non-negative schema version.
func parseForceVersion(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, oops.Code("MIGRATE_INVALID_VERSION").With("input", s).Wrap(err)
	}
	if v < 0 {
		return 0, oops.Code("MIGRATE_INVALID_VERSION").With("input", s).Errorf("version cannot be negative")
	}
	return v, nil
}
