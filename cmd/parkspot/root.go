// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/parkspot/parkspot/internal/config"
)

// NewRootCmd creates the root command for the ParkSpot CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmdWithDeps(nil, nil)
}

// newRootCmdWithDeps builds the command tree. Nil deps use the defaults.
func newRootCmdWithDeps(serveDeps *ServeDeps, migrateDeps *MigrateDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parkspot",
		Short: "ParkSpot - account registration and bearer-token authentication",
		Long: `ParkSpot registers accounts, verifies passwords and issues signed
bearer tokens for the ParkSpot parking service.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "config file path (default: $XDG_CONFIG_HOME/parkspot/config.yaml)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newServeCmdWithDeps(serveDeps))
	cmd.AddCommand(newMigrateCmdWithDeps(migrateDeps))
	cmd.AddCommand(NewConfigCmd())
	cmd.AddCommand(NewTokenCmd())
	cmd.AddCommand(NewProbeCmd())

	return cmd
}
