// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app provides the entry point for the keyhive command-line application.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/keyhive/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:               "khv",
	DisableAutoGenTag: true,
	Short:             "KeyHive (khv) resolves signing and encryption keys for multi-tenant services",
	Long: `KeyHive (khv) resolves cryptographic signing and encryption keys for multi-tenant
services. Each tenant ("realm") configures a prioritized set of key providers
(generated keypairs, imported certificates, HMAC secrets, remote JWKS documents),
and KeyHive deterministically selects the active key for new operations or
locates historical keys by kid for verification.

Realms with no usable configuration still serve a baseline set of algorithms
through generated fallback keys, so a fresh deployment works before any keys
are imported.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Initialize()
	},
}

var (
	dbPath     string
	configPath string
)

// NewRootCmd creates a new root command for the keyhive CLI.
func NewRootCmd() *cobra.Command {
	// Add persistent flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	if err != nil {
		logger.Errorf("Error binding debug flag: %v", err)
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"Path to the provider configuration database (defaults to the user data directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a realm bootstrap YAML file (overrides --db)")

	// Add subcommands
	rootCmd.AddCommand(newKeysCmd())
	rootCmd.AddCommand(newProviderCmd())
	rootCmd.AddCommand(jwksCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newVersionCmd())

	// Silence printing the usage on error
	rootCmd.SilenceUsage = true

	return rootCmd
}
