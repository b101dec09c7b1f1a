// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"fmt"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/keyutil"
)

// minHMACSecretLength is the minimum accepted HMAC secret size in
// bytes. Matches the minimum for HS256 per RFC 7518.
const minHMACSecretLength = 32

// HMACProvider serves a single imported HMAC secret for signing.
type HMACProvider struct {
	identity
	key *keys.Key
}

// NewHMACProvider builds an HMACProvider from a configuration record.
// The record must carry a base64url-encoded secret of at least 32
// bytes.
func NewHMACProvider(cfg *keys.ProviderConfig) (*HMACProvider, error) {
	secret, err := decodeSecret(cfg)
	if err != nil {
		return nil, err
	}
	if len(secret) < minHMACSecretLength {
		return nil, fmt.Errorf("hmac secret must be at least %d bytes, got %d", minHMACSecretLength, len(secret))
	}

	algorithm := cfg.GetString(keys.AttrAlgorithm, keys.AlgHS256)
	switch algorithm {
	case keys.AlgHS256, keys.AlgHS384, keys.AlgHS512:
	default:
		return nil, fmt.Errorf("algorithm %s is not an HMAC algorithm", algorithm)
	}

	kid := cfg.GetString(keys.AttrKID, "")
	if kid == "" {
		kid, err = keyutil.DeriveSecretKeyID(secret)
		if err != nil {
			return nil, fmt.Errorf("failed to derive key ID: %w", err)
		}
	}

	return &HMACProvider{
		identity: identityFrom(cfg, TypeHMAC),
		key: &keys.Key{
			KID:              kid,
			Use:              keys.UseSig,
			Type:             keys.KeyTypeOCT,
			Algorithms:       []string{algorithm},
			Status:           cfg.Status(),
			ProviderID:       cfg.ID,
			ProviderPriority: cfg.Priority,
			SecretKey:        secret,
		},
	}, nil
}

// Keys returns a fresh snapshot of the provider's single descriptor.
func (p *HMACProvider) Keys(_ context.Context) ([]*keys.Key, error) {
	k := *p.key
	return []*keys.Key{&k}, nil
}
