// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package keys defines the core types for realm key resolution: key
// descriptors, the sources that produce them, and the configuration
// records sources are built from.
package keys

import (
	"crypto"
	"crypto/x509"
	"slices"
)

// KeyUse declares the purpose of a key, mirroring the JOSE "use"
// parameter.
type KeyUse string

const (
	// UseSig marks signature keys.
	UseSig KeyUse = "sig"
	// UseEnc marks encryption keys.
	UseEnc KeyUse = "enc"
)

// KeyStatus describes where a key is in its lifecycle.
type KeyStatus string

const (
	// StatusActive keys serve new signing and encryption operations.
	StatusActive KeyStatus = "ACTIVE"

	// StatusPassive keys no longer sign or encrypt new payloads but
	// still verify and decrypt existing ones.
	StatusPassive KeyStatus = "PASSIVE"

	// StatusDisabled keys are never returned by lookups.
	StatusDisabled KeyStatus = "DISABLED"
)

// IsActive reports whether a key in this status may serve new
// operations.
func (s KeyStatus) IsActive() bool {
	return s == StatusActive
}

// IsEnabled reports whether a key in this status may be used at all.
// Every active status is also enabled.
func (s KeyStatus) IsEnabled() bool {
	return s == StatusActive || s == StatusPassive
}

// Key families, using the JWK "kty" names.
const (
	KeyTypeRSA = "RSA"
	KeyTypeEC  = "EC"
	KeyTypeOCT = "OCT"
)

// JOSE algorithm names understood by the built-in providers.
const (
	AlgRS256 = "RS256"
	AlgRS384 = "RS384"
	AlgRS512 = "RS512"
	AlgPS256 = "PS256"
	AlgPS384 = "PS384"
	AlgPS512 = "PS512"
	AlgES256 = "ES256"
	AlgES384 = "ES384"
	AlgES512 = "ES512"
	AlgHS256 = "HS256"
	AlgHS384 = "HS384"
	AlgHS512 = "HS512"

	// AlgAES labels raw AES material used for local content
	// encryption rather than a full JWE algorithm pair.
	AlgAES = "AES"

	AlgRSAOAEP    = "RSA-OAEP"
	AlgRSAOAEP256 = "RSA-OAEP-256"
)

// Key describes a single realm key as reported by a key source.
// Descriptors are produced fresh on each enumeration and must be
// treated as read-only by consumers.
type Key struct {
	// KID uniquely identifies the key within a realm's enabled set.
	KID string

	// Use declares what the key is for (signing or encryption).
	Use KeyUse

	// Type is the key family ("RSA", "EC", "OCT").
	Type string

	// Algorithms lists the JOSE algorithm names this key serves.
	Algorithms []string

	// Status gates selection: only active keys serve new operations,
	// enabled keys still verify and decrypt.
	Status KeyStatus

	// ProviderID is the configuration ID of the originating source,
	// or empty for fallback sources.
	ProviderID string

	// ProviderPriority mirrors the source priority for diagnostics
	// and metadata. It plays no part in matching.
	ProviderPriority int64

	// PrivateKey holds the signing half of an asymmetric key. Nil for
	// public-only and symmetric keys.
	PrivateKey crypto.Signer

	// PublicKey holds the verification half of an asymmetric key.
	PublicKey crypto.PublicKey

	// SecretKey holds raw symmetric material (HMAC, AES). Nil for
	// asymmetric keys.
	SecretKey []byte

	// Certificate is an optional X.509 certificate bound to the key.
	Certificate *x509.Certificate
}

// Matches reports whether the key can serve the given use and
// algorithm.
func (k *Key) Matches(use KeyUse, algorithm string) bool {
	if k.Use != use {
		return false
	}
	return slices.Contains(k.Algorithms, algorithm)
}
