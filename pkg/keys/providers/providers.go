// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package providers implements the built-in realm key providers:
// imported keypairs and secrets, PEM files on disk, remote JWKS
// documents, ephemeral development keys, and the fallback set that
// guarantees baseline algorithm coverage.
package providers

import (
	"context"
	"errors"

	"github.com/stacklok/keyhive/pkg/keys"
)

// Provider type identifiers accepted in configuration records.
const (
	// TypeRSA serves one imported RSA keypair with an optional
	// certificate.
	TypeRSA = "rsa"

	// TypeECDSA serves one imported EC keypair.
	TypeECDSA = "ecdsa"

	// TypeHMAC serves one imported HMAC secret.
	TypeHMAC = "hmac"

	// TypeAES serves one imported AES secret.
	TypeAES = "aes"

	// TypeFile serves signing keys loaded from PEM files in a
	// directory.
	TypeFile = "file"

	// TypeJWKS serves verification keys fetched from a remote JWKS
	// document.
	TypeJWKS = "jwks-remote"

	// TypeEphemeral generates a signing key on first use. Development
	// only: keys are lost on restart.
	TypeEphemeral = "ephemeral"
)

// Configuration attributes specific to the built-in providers.
const (
	// AttrKeyDir is the directory file providers load PEM files from.
	AttrKeyDir = "keyDir"

	// AttrSigningKeyFile names the primary signing key file.
	AttrSigningKeyFile = "signingKeyFile"

	// AttrFallbackKeyFiles is a comma-separated list of additional
	// key files kept enabled for verification only.
	AttrFallbackKeyFiles = "fallbackKeyFiles"

	// AttrJWKSURL is the URL of a remote JWKS document.
	AttrJWKSURL = "jwksUrl"
)

// ErrUnknownProviderType is returned when a configuration record names
// a provider type this package does not implement.
var ErrUnknownProviderType = errors.New("unknown key provider type")

// Create instantiates the provider described by a configuration
// record using the default registry. It is the default factory wired
// into the resolver.
func Create(ctx context.Context, cfg *keys.ProviderConfig) (keys.Provider, error) {
	return DefaultRegistry().Create(ctx, cfg)
}

// identity carries the fields every configured provider reports
// through the keys.Provider interface.
type identity struct {
	id       string
	typ      string
	priority int64
}

func identityFrom(cfg *keys.ProviderConfig, typ string) identity {
	return identity{id: cfg.ID, typ: typ, priority: cfg.Priority}
}

// ID returns the provider configuration identifier.
func (m identity) ID() string { return m.id }

// Type returns the stable provider type identifier.
func (m identity) Type() string { return m.typ }

// Priority orders providers within a realm, higher first.
func (m identity) Priority() int64 { return m.priority }

// Compile-time interface checks.
var (
	_ keys.Provider = (*RSAProvider)(nil)
	_ keys.Provider = (*ECDSAProvider)(nil)
	_ keys.Provider = (*HMACProvider)(nil)
	_ keys.Provider = (*AESProvider)(nil)
	_ keys.Provider = (*FileProvider)(nil)
	_ keys.Provider = (*JWKSProvider)(nil)
	_ keys.Provider = (*EphemeralProvider)(nil)
	_ keys.Provider = (*FallbackProvider)(nil)
)
