// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package keys

// KeyMetadata is the public projection of a key descriptor. It carries
// everything but private and secret material and is safe to expose on
// admin surfaces.
type KeyMetadata struct {
	KID              string    `json:"kid"`
	Use              KeyUse    `json:"use"`
	Type             string    `json:"type,omitempty"`
	Algorithms       []string  `json:"algorithms,omitempty"`
	Status           KeyStatus `json:"status"`
	ProviderID       string    `json:"providerId,omitempty"`
	ProviderPriority int64     `json:"providerPriority"`

	// PublicKeyPEM is the PEM-encoded public half, when the key is
	// asymmetric.
	PublicKeyPEM string `json:"publicKey,omitempty"`

	// CertificatePEM is the PEM-encoded certificate, when one is
	// bound to the key.
	CertificatePEM string `json:"certificate,omitempty"`
}

// RealmKeysMetadata lists a realm's keys together with the kid
// currently serving new operations per algorithm.
type RealmKeysMetadata struct {
	// Active maps algorithm name to the kid of the key serving new
	// operations for that algorithm.
	Active map[string]string `json:"active"`

	Keys []KeyMetadata `json:"keys"`
}
