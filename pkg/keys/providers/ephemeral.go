// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"sync"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/keyutil"
	"github.com/stacklok/keyhive/pkg/logger"
)

// DefaultEphemeralAlgorithm is the signing algorithm used when an
// ephemeral provider has none configured. ES256 is recommended by NIST
// and OWASP for JWT signing and generates far faster than RSA.
const DefaultEphemeralAlgorithm = keys.AlgES256

// EphemeralProvider generates a signing key on first enumeration.
// Suitable for development but NOT recommended for production:
// generated keys are lost on restart, invalidating everything signed
// with them.
type EphemeralProvider struct {
	identity
	algorithm string
	status    keys.KeyStatus

	mu  sync.Mutex
	key *keys.Key
}

// NewEphemeralProvider builds an EphemeralProvider from a
// configuration record. The key is generated lazily on the first Keys
// call.
func NewEphemeralProvider(cfg *keys.ProviderConfig) (*EphemeralProvider, error) {
	algorithm := cfg.GetString(keys.AttrAlgorithm, DefaultEphemeralAlgorithm)
	switch algorithm {
	case keys.AlgES256, keys.AlgES384, keys.AlgES512, keys.AlgRS256:
	default:
		return nil, fmt.Errorf("unsupported algorithm for key generation: %s", algorithm)
	}

	return &EphemeralProvider{
		identity:  identityFrom(cfg, TypeEphemeral),
		algorithm: algorithm,
		status:    cfg.Status(),
	}, nil
}

// Keys returns the provider's descriptor, generating the key if
// needed. Thread-safe: at most one key is ever generated.
func (p *EphemeralProvider) Keys(_ context.Context) ([]*keys.Key, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.key == nil {
		key, err := p.generateKey()
		if err != nil {
			return nil, err
		}
		logger.Warnw("generated ephemeral key, signatures will be invalid after restart",
			"algorithm", p.algorithm,
			"kid", key.KID,
		)
		p.key = key
	}

	k := *p.key
	return []*keys.Key{&k}, nil
}

func (p *EphemeralProvider) generateKey() (*keys.Key, error) {
	privateKey, err := generatePrivateKey(p.algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}

	kid, err := keyutil.DeriveKeyID(privateKey.Public())
	if err != nil {
		return nil, fmt.Errorf("failed to derive key ID: %w", err)
	}

	return &keys.Key{
		KID:              kid,
		Use:              keys.UseSig,
		Type:             keyTypeOf(privateKey),
		Algorithms:       []string{p.algorithm},
		Status:           p.status,
		ProviderID:       p.id,
		ProviderPriority: p.priority,
		PrivateKey:       privateKey,
		PublicKey:        privateKey.Public(),
	}, nil
}

// generatePrivateKey creates a new private key for the specified
// algorithm.
func generatePrivateKey(algorithm string) (crypto.Signer, error) {
	switch algorithm {
	case keys.AlgES256:
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case keys.AlgES384:
		return ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	case keys.AlgES512:
		return ecdsa.GenerateKey(elliptic.P521(), rand.Reader)
	case keys.AlgRS256:
		return rsa.GenerateKey(rand.Reader, 2048)
	default:
		return nil, fmt.Errorf("unsupported algorithm for key generation: %s", algorithm)
	}
}
