// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"context"
	"slices"

	"github.com/go-jose/go-jose/v4"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/keyutil"
)

// KeysMetadata returns the public projection of the realm's keys in
// the same order AllKeys reports them. Private and secret material is
// stripped; asymmetric keys carry their PEM-encoded public half and
// certificate. The Active map names the kid serving new operations per
// algorithm: the first active key for each algorithm in provider
// order.
func (m *DefaultManager) KeysMetadata(ctx context.Context, realm string) (*keys.RealmKeysMetadata, error) {
	all, err := m.AllKeys(ctx, realm)
	if err != nil {
		return nil, err
	}

	meta := &keys.RealmKeysMetadata{
		Active: make(map[string]string),
		Keys:   make([]keys.KeyMetadata, 0, len(all)),
	}
	for _, key := range all {
		if key.Status.IsActive() {
			for _, algorithm := range key.Algorithms {
				if _, ok := meta.Active[algorithm]; !ok {
					meta.Active[algorithm] = key.KID
				}
			}
		}
		meta.Keys = append(meta.Keys, m.metadataFor(key))
	}
	return meta, nil
}

// PublicJWKS projects the realm's enabled asymmetric keys of the given
// use into a JSON Web Key Set. Symmetric keys have no public half and
// never appear in the set.
func (m *DefaultManager) PublicJWKS(ctx context.Context, realm string, use keys.KeyUse) (*jose.JSONWebKeySet, error) {
	all, err := m.AllKeys(ctx, realm)
	if err != nil {
		return nil, err
	}

	set := &jose.JSONWebKeySet{Keys: make([]jose.JSONWebKey, 0, len(all))}
	for _, key := range all {
		if key.Use != use || !key.Status.IsEnabled() || key.PublicKey == nil {
			continue
		}

		algorithm := ""
		if len(key.Algorithms) > 0 {
			algorithm = key.Algorithms[0]
		}
		set.Keys = append(set.Keys, jose.JSONWebKey{
			Key:       key.PublicKey,
			KeyID:     key.KID,
			Algorithm: algorithm,
			Use:       string(use),
		})
	}
	return set, nil
}

func (m *DefaultManager) metadataFor(key *keys.Key) keys.KeyMetadata {
	meta := keys.KeyMetadata{
		KID:              key.KID,
		Use:              key.Use,
		Type:             key.Type,
		Algorithms:       slices.Clone(key.Algorithms),
		Status:           key.Status,
		ProviderID:       key.ProviderID,
		ProviderPriority: key.ProviderPriority,
	}

	if key.PublicKey != nil {
		pemKey, err := keyutil.EncodePublicKey(key.PublicKey)
		if err != nil {
			m.logger.Error("failed to encode public key", "kid", key.KID, "error", err)
		} else {
			meta.PublicKeyPEM = pemKey
		}
	}
	if key.Certificate != nil {
		meta.CertificatePEM = keyutil.EncodeCertificate(key.Certificate)
	}
	return meta
}
