// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"github.com/spf13/cobra"

	"github.com/stacklok/keyhive/pkg/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve realm key material over HTTP",
	Long: `Serve realm JWKS documents and key metadata over HTTP until
interrupted. Realms resolve lazily on first request.`,
	RunE: serveCmdFunc,
}

var serveAddress string

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "127.0.0.1:8080", "Listen address")
}

func serveCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	manager, configStore, err := openManager(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = manager.Close()
		_ = configStore.Close()
	}()

	return api.Serve(ctx, serveAddress, manager)
}
