// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/logger"
)

// jwksRegisterTimeout bounds the initial fetch of a remote JWKS
// document.
const jwksRegisterTimeout = 5 * time.Second

// JWKSProvider serves verification keys fetched from a remote JWKS
// document with automatic refresh. The document carries no private
// material, so every descriptor is passive: remote keys verify and
// decrypt but never sign.
type JWKSProvider struct {
	identity
	url    string
	use    keys.KeyUse
	status keys.KeyStatus

	cache  *jwk.Cache
	cancel context.CancelFunc

	registrationMu  sync.Mutex
	registered      bool
	registrationErr error
}

// NewJWKSProvider builds a JWKSProvider from a configuration record.
// The record must carry the JWKS document URL. The document itself is
// fetched lazily on first enumeration.
func NewJWKSProvider(ctx context.Context, cfg *keys.ProviderConfig) (*JWKSProvider, error) {
	url := cfg.GetString(AttrJWKSURL, "")
	if url == "" {
		return nil, fmt.Errorf("jwks provider requires the %s attribute", AttrJWKSURL)
	}

	status := keys.StatusPassive
	if !cfg.GetBool(keys.AttrEnabled, true) {
		status = keys.StatusDisabled
	}

	// The refresh loop must outlive the request that triggered
	// provider construction; Close tears it down.
	cacheCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	cache, err := jwk.NewCache(cacheCtx, httprc.NewClient())
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS cache: %w", err)
	}

	return &JWKSProvider{
		identity: identityFrom(cfg, TypeJWKS),
		url:      url,
		use:      cfg.KeyUse(),
		status:   status,
		cache:    cache,
		cancel:   cancel,
	}, nil
}

// ensureRegistered registers the JWKS URL with the cache on first use.
// Registration failures are retried on the next enumeration.
func (p *JWKSProvider) ensureRegistered(ctx context.Context) error {
	p.registrationMu.Lock()
	defer p.registrationMu.Unlock()

	if p.registered {
		return nil
	}

	registrationCtx, cancel := context.WithTimeout(ctx, jwksRegisterTimeout)
	defer cancel()

	if err := p.cache.Register(registrationCtx, p.url); err != nil {
		return fmt.Errorf("failed to register JWKS URL: %w", err)
	}

	p.registered = true
	return nil
}

// Keys returns descriptors for the current contents of the remote
// document. Unusable document entries are skipped.
func (p *JWKSProvider) Keys(ctx context.Context) ([]*keys.Key, error) {
	if err := p.ensureRegistered(ctx); err != nil {
		return nil, err
	}

	keySet, err := p.cache.Lookup(ctx, p.url)
	if err != nil {
		return nil, fmt.Errorf("failed to look up JWKS: %w", err)
	}

	out := make([]*keys.Key, 0, keySet.Len())
	for i := 0; i < keySet.Len(); i++ {
		key, ok := keySet.Key(i)
		if !ok {
			continue
		}
		desc, err := p.descriptorFor(key)
		if err != nil {
			logger.Debugw("skipping unusable JWKS key", "url", p.url, "error", err)
			continue
		}
		out = append(out, desc)
	}
	return out, nil
}

// Close stops the background refresh of the JWKS document.
func (p *JWKSProvider) Close() error {
	p.cancel()
	return nil
}

func (p *JWKSProvider) descriptorFor(key jwk.Key) (*keys.Key, error) {
	kid, ok := key.KeyID()
	if !ok || kid == "" {
		return nil, errors.New("key has no kid")
	}

	var raw any
	if err := jwk.Export(key, &raw); err != nil {
		return nil, fmt.Errorf("failed to export raw key: %w", err)
	}

	var (
		keyType string
		pub     crypto.PublicKey
	)
	switch rawKey := raw.(type) {
	case *rsa.PublicKey:
		keyType = keys.KeyTypeRSA
		pub = rawKey
	case *ecdsa.PublicKey:
		keyType = keys.KeyTypeEC
		pub = rawKey
	default:
		return nil, fmt.Errorf("unsupported key type %T", raw)
	}

	algorithm := ""
	if alg, ok := key.Algorithm(); ok {
		algorithm = alg.String()
	}
	if algorithm == "" {
		algorithm = defaultPublicKeyAlgorithm(pub)
	}

	use := p.use
	if usage, ok := key.KeyUsage(); ok && usage != "" {
		use = keys.KeyUse(usage)
	}

	return &keys.Key{
		KID:              kid,
		Use:              use,
		Type:             keyType,
		Algorithms:       []string{algorithm},
		Status:           p.status,
		ProviderID:       p.id,
		ProviderPriority: p.priority,
		PublicKey:        pub,
	}, nil
}

func defaultPublicKeyAlgorithm(pub crypto.PublicKey) string {
	switch k := pub.(type) {
	case *ecdsa.PublicKey:
		switch k.Curve {
		case elliptic.P384():
			return keys.AlgES384
		case elliptic.P521():
			return keys.AlgES512
		default:
			return keys.AlgES256
		}
	default:
		return keys.AlgRS256
	}
}
