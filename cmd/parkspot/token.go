// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/parkspot/parkspot/internal/token"
)

// NewTokenCmd creates the token command group.
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Work with bearer tokens",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "inspect TOKEN",
		Short: "Validate a bearer token with the configured secret",
		Long: `Validate TOKEN with the configured signing secret and print its subject
and expiry, or the reason it was rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadValidated(cmd)
			if err != nil {
				return err
			}
			codec, err := newCodec(cfg)
			if err != nil {
				return err
			}

			claims, err := codec.Validate(args[0])
			if err != nil {
				cmd.Printf("invalid: %s\n", token.Outcome(err))
				return err
			}
			cmd.Printf("subject:    %s\n", claims.Subject)
			if claims.IssuedAt != nil {
				cmd.Printf("issued at:  %s\n", claims.IssuedAt.UTC().Format(time.RFC3339))
			}
			cmd.Printf("expires at: %s\n", claims.Expiry().UTC().Format(time.RFC3339))
			return nil
		},
	})

	return cmd
}
