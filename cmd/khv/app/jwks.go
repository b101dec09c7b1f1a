// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var jwksCmd = &cobra.Command{
	Use:   "jwks",
	Short: "Print a realm's public key set",
	Long: `Print the JSON Web Key Set a realm publishes for the given use.
Only enabled asymmetric keys appear; private material never does.`,
	RunE: jwksCmdFunc,
}

var (
	jwksRealm string
	jwksUse   string
)

func init() {
	jwksCmd.Flags().StringVar(&jwksRealm, "realm", "", "Realm to inspect")
	jwksCmd.Flags().StringVar(&jwksUse, "use", "sig", "Key use (sig or enc)")
	_ = jwksCmd.MarkFlagRequired("realm")
}

func jwksCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	use, err := parseKeyUse(jwksUse)
	if err != nil {
		return err
	}

	manager, configStore, err := openManager(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = manager.Close()
		_ = configStore.Close()
	}()

	set, err := manager.PublicJWKS(ctx, jwksRealm, use)
	if err != nil {
		return fmt.Errorf("failed to build JWKS for realm %s: %w", jwksRealm, err)
	}
	return printJSON(set)
}
