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

// Capability is one (use, algorithm) pair a realm can be asked to
// serve.
type Capability struct {
	Use       keys.KeyUse
	Algorithm string
}

// BaselineCapabilities lists the capabilities every realm must always
// serve. A realm with no active configured key for one of these
// receives a fallback provider instead of failing.
var BaselineCapabilities = []Capability{
	{Use: keys.UseSig, Algorithm: keys.AlgRS256},
	{Use: keys.UseSig, Algorithm: keys.AlgHS256},
	{Use: keys.UseEnc, Algorithm: keys.AlgAES},
	{Use: keys.UseEnc, Algorithm: keys.AlgES256},
}

// FallbackProvider serves one generated key covering a single baseline
// capability. Fallback providers carry no configuration identity and
// always sort after configured providers.
type FallbackProvider struct {
	typ string
	key *keys.Key
}

// ID returns the empty string: fallback providers have no
// configuration record.
func (*FallbackProvider) ID() string { return "" }

// Type returns the fallback provider type identifier.
func (p *FallbackProvider) Type() string { return p.typ }

// Priority is always zero. Fallback providers are appended after
// configured providers and never compete on priority.
func (*FallbackProvider) Priority() int64 { return 0 }

// Keys returns a fresh snapshot of the fallback descriptor.
func (p *FallbackProvider) Keys(_ context.Context) ([]*keys.Key, error) {
	k := *p.key
	return []*keys.Key{&k}, nil
}

// Fallback material is process-wide: every realm missing a capability
// shares the same generated key until restart, and a generation
// failure is reported consistently rather than retried.
var (
	fallbackMu   sync.Mutex
	fallbacks    = make(map[Capability]*FallbackProvider)
	fallbackErrs = make(map[Capability]error)
)

// Fallback returns the process-wide fallback provider for the given
// baseline capability, generating its key on first use.
func Fallback(use keys.KeyUse, algorithm string) (keys.Provider, error) {
	fallbackMu.Lock()
	defer fallbackMu.Unlock()

	capability := Capability{Use: use, Algorithm: algorithm}
	if p, ok := fallbacks[capability]; ok {
		return p, nil
	}
	if err, ok := fallbackErrs[capability]; ok {
		return nil, err
	}

	p, err := generateFallback(capability)
	if err != nil {
		fallbackErrs[capability] = err
		return nil, err
	}

	logger.Warnw("no active realm key found, generated fallback key",
		"use", use,
		"algorithm", algorithm,
		"kid", p.key.KID,
	)
	fallbacks[capability] = p
	return p, nil
}

func generateFallback(capability Capability) (*FallbackProvider, error) {
	switch capability {
	case Capability{Use: keys.UseSig, Algorithm: keys.AlgRS256}:
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, fmt.Errorf("failed to generate fallback rsa key: %w", err)
		}
		return newAsymmetricFallback("fallback-rsa", keys.KeyTypeRSA, capability, key)
	case Capability{Use: keys.UseSig, Algorithm: keys.AlgHS256}:
		return newSymmetricFallback("fallback-hmac", capability, 64)
	case Capability{Use: keys.UseEnc, Algorithm: keys.AlgAES}:
		return newSymmetricFallback("fallback-aes", capability, 16)
	case Capability{Use: keys.UseEnc, Algorithm: keys.AlgES256}:
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to generate fallback ec key: %w", err)
		}
		return newAsymmetricFallback("fallback-ecdsa", keys.KeyTypeEC, capability, key)
	default:
		return nil, fmt.Errorf("no fallback provider covers %s/%s", capability.Use, capability.Algorithm)
	}
}

func newAsymmetricFallback(typ, keyType string, capability Capability, key crypto.Signer) (*FallbackProvider, error) {
	kid, err := keyutil.DeriveKeyID(key.Public())
	if err != nil {
		return nil, fmt.Errorf("failed to derive key ID: %w", err)
	}
	return &FallbackProvider{
		typ: typ,
		key: &keys.Key{
			KID:        kid,
			Use:        capability.Use,
			Type:       keyType,
			Algorithms: []string{capability.Algorithm},
			Status:     keys.StatusActive,
			PrivateKey: key,
			PublicKey:  key.Public(),
		},
	}, nil
}

func newSymmetricFallback(typ string, capability Capability, size int) (*FallbackProvider, error) {
	secret := make([]byte, size)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate fallback secret: %w", err)
	}

	kid, err := keyutil.DeriveSecretKeyID(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key ID: %w", err)
	}
	return &FallbackProvider{
		typ: typ,
		key: &keys.Key{
			KID:        kid,
			Use:        capability.Use,
			Type:       keys.KeyTypeOCT,
			Algorithms: []string{capability.Algorithm},
			Status:     keys.StatusActive,
			SecretKey:  secret,
		},
	}, nil
}
