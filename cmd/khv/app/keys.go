// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/keyutil"
	"github.com/stacklok/keyhive/pkg/logger"
)

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every key a realm serves",
	Long: `List every key the realm's providers serve, including passive and disabled
keys, together with the kid selected for new operations per algorithm.`,
	RunE: keysListCmdFunc,
}

var keysActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the key serving new operations for a use and algorithm",
	RunE:  keysActiveCmdFunc,
}

var (
	keysRealm  string
	keysFormat string
	keysUse    string
	keysAlg    string
)

func newKeysCmd() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Inspect realm keys",
	}

	keysListCmd.Flags().StringVar(&keysRealm, "realm", "", "Realm to inspect")
	keysListCmd.Flags().StringVar(&keysFormat, "format", FormatText, "Output format (json or text)")
	_ = keysListCmd.MarkFlagRequired("realm")

	keysActiveCmd.Flags().StringVar(&keysRealm, "realm", "", "Realm to inspect")
	keysActiveCmd.Flags().StringVar(&keysFormat, "format", FormatText, "Output format (json or text)")
	keysActiveCmd.Flags().StringVar(&keysUse, "use", string(keys.UseSig), "Key use (sig or enc)")
	keysActiveCmd.Flags().StringVar(&keysAlg, "alg", keys.AlgRS256, "JOSE algorithm name")
	_ = keysActiveCmd.MarkFlagRequired("realm")

	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysActiveCmd)
	return keysCmd
}

func keysListCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	manager, configStore, err := openManager(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = manager.Close()
		_ = configStore.Close()
	}()

	meta, err := manager.KeysMetadata(ctx, keysRealm)
	if err != nil {
		return fmt.Errorf("failed to list keys for realm %s: %w", keysRealm, err)
	}

	switch keysFormat {
	case FormatJSON:
		return printJSON(meta)
	default:
		printKeysText(meta)
		return nil
	}
}

func keysActiveCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	use, err := parseKeyUse(keysUse)
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

	key, err := manager.ActiveKey(ctx, keysRealm, use, keysAlg)
	if err != nil {
		return fmt.Errorf("failed to resolve active key: %w", err)
	}

	meta := publicMetadata(key)
	switch keysFormat {
	case FormatJSON:
		return printJSON(meta)
	default:
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KID\tUSE\tTYPE\tALGORITHMS\tSTATUS\tPROVIDER")
		printKeyRow(w, meta)
		if err := w.Flush(); err != nil {
			logger.Errorf("Warning: Failed to flush tabwriter: %v", err)
		}
		return nil
	}
}

// parseKeyUse validates the --use flag.
func parseKeyUse(v string) (keys.KeyUse, error) {
	switch keys.KeyUse(v) {
	case keys.UseSig:
		return keys.UseSig, nil
	case keys.UseEnc:
		return keys.UseEnc, nil
	default:
		return "", fmt.Errorf("invalid key use %q (expected %q or %q)", v, keys.UseSig, keys.UseEnc)
	}
}

// publicMetadata projects a key descriptor for display, dropping
// private and secret material.
func publicMetadata(key *keys.Key) keys.KeyMetadata {
	meta := keys.KeyMetadata{
		KID:              key.KID,
		Use:              key.Use,
		Type:             key.Type,
		Algorithms:       key.Algorithms,
		Status:           key.Status,
		ProviderID:       key.ProviderID,
		ProviderPriority: key.ProviderPriority,
	}
	if key.PublicKey != nil {
		if pemKey, err := keyutil.EncodePublicKey(key.PublicKey); err == nil {
			meta.PublicKeyPEM = pemKey
		}
	}
	if key.Certificate != nil {
		meta.CertificatePEM = keyutil.EncodeCertificate(key.Certificate)
	}
	return meta
}

// printJSON prints any value as indented JSON.
func printJSON(v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %v", err)
	}
	fmt.Println(string(jsonData))
	return nil
}

// printKeysText prints realm key metadata as a table.
func printKeysText(meta *keys.RealmKeysMetadata) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "KID\tUSE\tTYPE\tALGORITHMS\tSTATUS\tPROVIDER")
	for _, key := range meta.Keys {
		printKeyRow(w, key)
	}
	if err := w.Flush(); err != nil {
		logger.Errorf("Warning: Failed to flush tabwriter: %v", err)
	}

	if len(meta.Active) > 0 {
		fmt.Println()
		fmt.Println("Active kids per algorithm:")
		aw := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		for alg, kid := range meta.Active {
			fmt.Fprintf(aw, "%s\t%s\n", alg, kid)
		}
		if err := aw.Flush(); err != nil {
			logger.Errorf("Warning: Failed to flush tabwriter: %v", err)
		}
	}
}

func printKeyRow(w *tabwriter.Writer, key keys.KeyMetadata) {
	provider := key.ProviderID
	if provider == "" {
		provider = "(fallback)"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		key.KID,
		key.Use,
		key.Type,
		strings.Join(key.Algorithms, ","),
		key.Status,
		provider,
	)
}
