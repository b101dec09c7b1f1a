// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package keys

import (
	"context"
	"maps"
	"strconv"
)

// Provider is a single source of realm keys. Implementations range
// from configured keypairs to remote JWKS documents. Providers that
// hold releasable resources should additionally implement io.Closer.
type Provider interface {
	// ID returns the provider configuration identifier. Fallback
	// providers return the empty string.
	ID() string

	// Type returns the stable provider type identifier.
	Type() string

	// Priority orders providers within a realm. Higher values are
	// consulted first.
	Priority() int64

	// Keys enumerates the descriptors this provider currently serves.
	Keys(ctx context.Context) ([]*Key, error)
}

// Factory builds a Provider from its stored configuration.
type Factory func(ctx context.Context, config *ProviderConfig) (Provider, error)

// Configuration attributes understood by the built-in providers.
const (
	// AttrEnabled gates whether the provider's keys are usable at
	// all. Defaults to true.
	AttrEnabled = "enabled"

	// AttrActive gates whether the provider's keys serve new
	// operations. Defaults to true.
	AttrActive = "active"

	// AttrAlgorithm selects the JOSE algorithm for single-key
	// providers.
	AttrAlgorithm = "algorithm"

	// AttrPrivateKey carries PEM-encoded private key material.
	AttrPrivateKey = "privateKey"

	// AttrCertificate carries an optional PEM-encoded certificate.
	AttrCertificate = "certificate"

	// AttrSecret carries base64url-encoded symmetric material.
	AttrSecret = "secret"

	// AttrKeyUse declares the key use ("sig" or "enc"). Defaults to
	// "sig".
	AttrKeyUse = "keyUse"

	// AttrKID overrides the derived key identifier.
	AttrKID = "kid"
)

// ProviderConfig is the stored configuration record a provider is
// built from. Records are owned by a config store and handed out as
// copies.
type ProviderConfig struct {
	// ID is the record identifier, unique within a realm. It breaks
	// priority ties during provider ordering.
	ID string

	// RealmID names the tenant the provider belongs to.
	RealmID string

	// Type selects the provider implementation.
	Type string

	// Name is a human-readable label.
	Name string

	// Priority orders providers within the realm, higher first.
	Priority int64

	// Config holds the provider-specific attributes.
	Config map[string]string
}

// GetString returns the named attribute, or def when it is absent or
// empty.
func (c *ProviderConfig) GetString(name, def string) string {
	if v, ok := c.Config[name]; ok && v != "" {
		return v
	}
	return def
}

// GetBool returns the named attribute parsed as a bool, or def when it
// is absent or unparsable.
func (c *ProviderConfig) GetBool(name string, def bool) bool {
	v, ok := c.Config[name]
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Status derives the descriptor status from the enabled/active
// attributes. Both default to true, so an attribute-free record yields
// active keys.
func (c *ProviderConfig) Status() KeyStatus {
	if !c.GetBool(AttrEnabled, true) {
		return StatusDisabled
	}
	if !c.GetBool(AttrActive, true) {
		return StatusPassive
	}
	return StatusActive
}

// KeyUse derives the declared key use, defaulting to signatures.
func (c *ProviderConfig) KeyUse() KeyUse {
	if c.GetString(AttrKeyUse, string(UseSig)) == string(UseEnc) {
		return UseEnc
	}
	return UseSig
}

// Clone deep-copies the record.
func (c *ProviderConfig) Clone() *ProviderConfig {
	out := *c
	if c.Config != nil {
		out.Config = maps.Clone(c.Config)
	}
	return &out
}
