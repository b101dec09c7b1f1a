// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/keyutil"
)

// FileProvider loads signing keys from PEM files in a directory. The
// primary key serves new signatures; fallback keys stay enabled for
// verification only, supporting rotation. Keys are loaded once at
// construction; changes require a new resolver.
type FileProvider struct {
	identity
	loaded []*keys.Key
}

// NewFileProvider builds a FileProvider from a configuration record.
// The record must name a key directory and a primary signing key file,
// and may list additional fallback key files.
func NewFileProvider(cfg *keys.ProviderConfig) (*FileProvider, error) {
	keyDir := cfg.GetString(AttrKeyDir, "")
	signingKeyFile := cfg.GetString(AttrSigningKeyFile, "")
	if keyDir == "" || signingKeyFile == "" {
		return nil, fmt.Errorf("file provider requires the %s and %s attributes", AttrKeyDir, AttrSigningKeyFile)
	}

	baseStatus := cfg.Status()

	// Load the primary signing key
	primary, err := loadKeyFile(cfg, filepath.Join(keyDir, signingKeyFile), baseStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}
	loaded := []*keys.Key{primary}

	// Fallback keys never sign, so they are passive unless the whole
	// provider is disabled.
	fallbackStatus := keys.StatusPassive
	if baseStatus == keys.StatusDisabled {
		fallbackStatus = keys.StatusDisabled
	}

	for _, filename := range splitKeyFiles(cfg.GetString(AttrFallbackKeyFiles, "")) {
		key, err := loadKeyFile(cfg, filepath.Join(keyDir, filename), fallbackStatus)
		if err != nil {
			return nil, fmt.Errorf("failed to load fallback key %s: %w", filename, err)
		}
		loaded = append(loaded, key)
	}

	return &FileProvider{
		identity: identityFrom(cfg, TypeFile),
		loaded:   loaded,
	}, nil
}

// Keys returns fresh snapshots of all loaded descriptors, primary key
// first.
func (p *FileProvider) Keys(_ context.Context) ([]*keys.Key, error) {
	out := make([]*keys.Key, 0, len(p.loaded))
	for _, key := range p.loaded {
		k := *key
		out = append(out, &k)
	}
	return out, nil
}

// loadKeyFile loads a single PEM key file and derives its descriptor.
func loadKeyFile(cfg *keys.ProviderConfig, keyPath string, status keys.KeyStatus) (*keys.Key, error) {
	signer, err := keyutil.LoadPrivateKey(keyPath)
	if err != nil {
		return nil, err
	}

	algorithm, err := keyutil.DeriveAlgorithm(signer)
	if err != nil {
		return nil, fmt.Errorf("failed to derive algorithm: %w", err)
	}

	kid, err := keyutil.DeriveKeyID(signer.Public())
	if err != nil {
		return nil, fmt.Errorf("failed to derive key ID: %w", err)
	}

	return &keys.Key{
		KID:              kid,
		Use:              keys.UseSig,
		Type:             keyTypeOf(signer),
		Algorithms:       []string{algorithm},
		Status:           status,
		ProviderID:       cfg.ID,
		ProviderPriority: cfg.Priority,
		PrivateKey:       signer,
		PublicKey:        signer.Public(),
	}, nil
}

func splitKeyFiles(list string) []string {
	var out []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func keyTypeOf(key crypto.Signer) string {
	switch key.(type) {
	case *rsa.PrivateKey:
		return keys.KeyTypeRSA
	case *ecdsa.PrivateKey:
		return keys.KeyTypeEC
	default:
		return ""
	}
}
