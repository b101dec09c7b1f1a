// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"context"
	"crypto"
	"crypto/x509"

	"github.com/stacklok/keyhive/pkg/keys"
)

// The narrow accessors below predate the algorithm-parameterized
// lookups and remain for callers written against them. Each is a thin
// view over Manager with no matching logic of its own.

// ActiveRSAKey returns the realm's active RS256 signing key.
//
// Deprecated: Use Manager.ActiveKey with keys.UseSig and keys.AlgRS256.
func ActiveRSAKey(ctx context.Context, m Manager, realm string) (*keys.Key, error) {
	return m.ActiveKey(ctx, realm, keys.UseSig, keys.AlgRS256)
}

// ActiveHMACKey returns the realm's active HS256 signing key.
//
// Deprecated: Use Manager.ActiveKey with keys.UseSig and keys.AlgHS256.
func ActiveHMACKey(ctx context.Context, m Manager, realm string) (*keys.Key, error) {
	return m.ActiveKey(ctx, realm, keys.UseSig, keys.AlgHS256)
}

// ActiveAESKey returns the realm's active AES encryption key.
//
// Deprecated: Use Manager.ActiveKey with keys.UseEnc and keys.AlgAES.
func ActiveAESKey(ctx context.Context, m Manager, realm string) (*keys.Key, error) {
	return m.ActiveKey(ctx, realm, keys.UseEnc, keys.AlgAES)
}

// RSAPublicKey returns the public half of the RS256 signing key with
// the given kid, or nil when absent.
//
// Deprecated: Use Manager.Key with keys.UseSig and keys.AlgRS256.
func RSAPublicKey(ctx context.Context, m Manager, realm, kid string) (crypto.PublicKey, error) {
	key, err := m.Key(ctx, realm, kid, keys.UseSig, keys.AlgRS256)
	if err != nil || key == nil {
		return nil, err
	}
	return key.PublicKey, nil
}

// RSACertificate returns the certificate bound to the RS256 signing
// key with the given kid, or nil when absent.
//
// Deprecated: Use Manager.Key with keys.UseSig and keys.AlgRS256.
func RSACertificate(ctx context.Context, m Manager, realm, kid string) (*x509.Certificate, error) {
	key, err := m.Key(ctx, realm, kid, keys.UseSig, keys.AlgRS256)
	if err != nil || key == nil {
		return nil, err
	}
	return key.Certificate, nil
}

// HMACSecret returns the secret of the HS256 signing key with the
// given kid, or nil when absent.
//
// Deprecated: Use Manager.Key with keys.UseSig and keys.AlgHS256.
func HMACSecret(ctx context.Context, m Manager, realm, kid string) ([]byte, error) {
	key, err := m.Key(ctx, realm, kid, keys.UseSig, keys.AlgHS256)
	if err != nil || key == nil {
		return nil, err
	}
	return key.SecretKey, nil
}

// AESSecret returns the secret of the AES encryption key with the
// given kid, or nil when absent.
//
// Deprecated: Use Manager.Key with keys.UseEnc and keys.AlgAES.
func AESSecret(ctx context.Context, m Manager, realm, kid string) ([]byte, error) {
	key, err := m.Key(ctx, realm, kid, keys.UseEnc, keys.AlgAES)
	if err != nil || key == nil {
		return nil, err
	}
	return key.SecretKey, nil
}
