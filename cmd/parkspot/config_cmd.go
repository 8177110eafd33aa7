// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parkspot/parkspot/internal/config"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the effective configuration",
		Long: `Load the config file, environment and flags exactly as serve does, check
the file against the config schema and validate the result. The signing
secret is never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, _, err := loadValidated(cmd); err != nil {
				return err
			}
			cmd.Println("Configuration is valid")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for config files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			return err
		},
	})

	return cmd
}
