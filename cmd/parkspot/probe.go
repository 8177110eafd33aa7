// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/parkspot/parkspot/internal/credential"
)

// NewProbeCmd creates the probe subcommand.
func NewProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Show which password hashing scheme this host would use",
		Long: `Run the same hashing self-test serve runs at startup and print the
selected scheme and its parameters. No database or secret is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			policy, err := credential.Probe(probeConfig(cfg.Hashing))
			if err != nil {
				return err
			}

			cmd.Printf("scheme:          %s\n", policy.Scheme())
			switch policy.Scheme() {
			case credential.SchemeArgon2id:
				a := policy.Argon2id()
				cmd.Printf("memory:          %d KiB\n", a.MemoryKiB)
				cmd.Printf("iterations:      %d\n", a.Iterations)
				cmd.Printf("parallelism:     %d\n", a.Parallelism)
			case credential.SchemeBcrypt:
				cmd.Printf("cost:            %d\n", policy.BcryptCost())
				cmd.Printf("max secret size: %d bytes\n", policy.MaxSecretBytes())
			}
			cmd.Printf("max concurrency: %d\n", policy.MaxConcurrency())
			if fallback := policy.Fallback(); fallback != "" {
				cmd.Printf("fallback reason: %s\n", fallback)
			}
			return nil
		},
	}
}
