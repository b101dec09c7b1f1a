// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/keyutil"
)

// AESProvider serves a single imported AES secret for local content
// encryption.
type AESProvider struct {
	identity
	key *keys.Key
}

// NewAESProvider builds an AESProvider from a configuration record.
// The record must carry a base64url-encoded secret of a valid AES key
// size (16, 24, or 32 bytes).
func NewAESProvider(cfg *keys.ProviderConfig) (*AESProvider, error) {
	secret, err := decodeSecret(cfg)
	if err != nil {
		return nil, err
	}
	switch len(secret) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("aes secret must be 16, 24, or 32 bytes, got %d", len(secret))
	}

	kid := cfg.GetString(keys.AttrKID, "")
	if kid == "" {
		kid, err = keyutil.DeriveSecretKeyID(secret)
		if err != nil {
			return nil, fmt.Errorf("failed to derive key ID: %w", err)
		}
	}

	return &AESProvider{
		identity: identityFrom(cfg, TypeAES),
		key: &keys.Key{
			KID:              kid,
			Use:              keys.UseEnc,
			Type:             keys.KeyTypeOCT,
			Algorithms:       []string{keys.AlgAES},
			Status:           cfg.Status(),
			ProviderID:       cfg.ID,
			ProviderPriority: cfg.Priority,
			SecretKey:        secret,
		},
	}, nil
}

// Keys returns a fresh snapshot of the provider's single descriptor.
func (p *AESProvider) Keys(_ context.Context) ([]*keys.Key, error) {
	k := *p.key
	return []*keys.Key{&k}, nil
}

// decodeSecret decodes the secret attribute shared by the symmetric
// providers. Both padded and unpadded base64url forms are accepted.
func decodeSecret(cfg *keys.ProviderConfig) ([]byte, error) {
	encoded := cfg.GetString(keys.AttrSecret, "")
	if encoded == "" {
		return nil, fmt.Errorf("%s provider requires the %s attribute", cfg.Type, keys.AttrSecret)
	}

	secret, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		secret, err = base64.URLEncoding.DecodeString(encoded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s attribute: %w", keys.AttrSecret, err)
	}
	return secret, nil
}
