// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/keyutil"
)

// RSAProvider serves a single imported RSA keypair, optionally bound
// to an X.509 certificate. The keypair is parsed once at construction;
// configuration changes require a new resolver.
type RSAProvider struct {
	identity
	key *keys.Key
}

// NewRSAProvider builds an RSAProvider from a configuration record.
// The record must carry a PEM-encoded RSA private key.
func NewRSAProvider(cfg *keys.ProviderConfig) (*RSAProvider, error) {
	keyPEM := cfg.GetString(keys.AttrPrivateKey, "")
	if keyPEM == "" {
		return nil, fmt.Errorf("rsa provider requires the %s attribute", keys.AttrPrivateKey)
	}

	signer, err := keyutil.ParsePrivateKey([]byte(keyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rsa private key: %w", err)
	}
	rsaKey, ok := signer.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("rsa provider requires an RSA private key, got %T", signer)
	}

	use := cfg.KeyUse()
	algorithm := cfg.GetString(keys.AttrAlgorithm, defaultRSAAlgorithm(use))
	if err := validateRSAAlgorithm(algorithm, use, rsaKey); err != nil {
		return nil, err
	}

	kid := cfg.GetString(keys.AttrKID, "")
	if kid == "" {
		kid, err = keyutil.DeriveKeyID(rsaKey.Public())
		if err != nil {
			return nil, fmt.Errorf("failed to derive key ID: %w", err)
		}
	}

	var cert *x509.Certificate
	if certPEM := cfg.GetString(keys.AttrCertificate, ""); certPEM != "" {
		cert, err = keyutil.ParseCertificate([]byte(certPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate: %w", err)
		}
	}

	return &RSAProvider{
		identity: identityFrom(cfg, TypeRSA),
		key: &keys.Key{
			KID:              kid,
			Use:              use,
			Type:             keys.KeyTypeRSA,
			Algorithms:       []string{algorithm},
			Status:           cfg.Status(),
			ProviderID:       cfg.ID,
			ProviderPriority: cfg.Priority,
			PrivateKey:       rsaKey,
			PublicKey:        rsaKey.Public(),
			Certificate:      cert,
		},
	}, nil
}

// Keys returns a fresh snapshot of the provider's single descriptor.
func (p *RSAProvider) Keys(_ context.Context) ([]*keys.Key, error) {
	k := *p.key
	return []*keys.Key{&k}, nil
}

func defaultRSAAlgorithm(use keys.KeyUse) string {
	if use == keys.UseEnc {
		return keys.AlgRSAOAEP
	}
	return keys.AlgRS256
}

func validateRSAAlgorithm(algorithm string, use keys.KeyUse, key *rsa.PrivateKey) error {
	if use == keys.UseEnc {
		switch algorithm {
		case keys.AlgRSAOAEP, keys.AlgRSAOAEP256:
			return nil
		default:
			return fmt.Errorf("algorithm %s is not an RSA encryption algorithm", algorithm)
		}
	}
	return keyutil.ValidateAlgorithmForKey(algorithm, key)
}
