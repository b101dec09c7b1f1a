// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/keyutil"
)

// ECDSAProvider serves a single imported EC keypair. The algorithm is
// derived from the curve unless configured explicitly, in which case
// it must match the curve.
type ECDSAProvider struct {
	identity
	key *keys.Key
}

// NewECDSAProvider builds an ECDSAProvider from a configuration
// record. The record must carry a PEM-encoded EC private key.
func NewECDSAProvider(cfg *keys.ProviderConfig) (*ECDSAProvider, error) {
	keyPEM := cfg.GetString(keys.AttrPrivateKey, "")
	if keyPEM == "" {
		return nil, fmt.Errorf("ecdsa provider requires the %s attribute", keys.AttrPrivateKey)
	}

	signer, err := keyutil.ParsePrivateKey([]byte(keyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ec private key: %w", err)
	}
	ecKey, ok := signer.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("ecdsa provider requires an EC private key, got %T", signer)
	}

	algorithm := cfg.GetString(keys.AttrAlgorithm, "")
	if algorithm == "" {
		algorithm, err = keyutil.DeriveAlgorithm(ecKey)
		if err != nil {
			return nil, fmt.Errorf("failed to derive algorithm: %w", err)
		}
	} else if err := keyutil.ValidateAlgorithmForKey(algorithm, ecKey); err != nil {
		return nil, err
	}

	kid := cfg.GetString(keys.AttrKID, "")
	if kid == "" {
		kid, err = keyutil.DeriveKeyID(ecKey.Public())
		if err != nil {
			return nil, fmt.Errorf("failed to derive key ID: %w", err)
		}
	}

	return &ECDSAProvider{
		identity: identityFrom(cfg, TypeECDSA),
		key: &keys.Key{
			KID:              kid,
			Use:              cfg.KeyUse(),
			Type:             keys.KeyTypeEC,
			Algorithms:       []string{algorithm},
			Status:           cfg.Status(),
			ProviderID:       cfg.ID,
			ProviderPriority: cfg.Priority,
			PrivateKey:       ecKey,
			PublicKey:        ecKey.Public(),
		},
	}, nil
}

// Keys returns a fresh snapshot of the provider's single descriptor.
func (p *ECDSAProvider) Keys(_ context.Context) ([]*keys.Key, error) {
	k := *p.key
	return []*keys.Key{&k}, nil
}
