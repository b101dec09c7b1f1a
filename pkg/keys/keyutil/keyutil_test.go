// Copyright 2025 Stacklok, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package keyutil

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func generateECKey(t *testing.T, curve elliptic.Curve) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)
	return key
}

func encodePKCS8(t *testing.T, key crypto.Signer) []byte {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

func TestParsePrivateKey(t *testing.T) {
	t.Parallel()

	t.Run("rsa pkcs1", func(t *testing.T) {
		t.Parallel()
		key := generateRSAKey(t)
		keyPEM := pem.EncodeToMemory(&pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(key),
		})

		parsed, err := ParsePrivateKey(keyPEM)
		require.NoError(t, err)
		assert.IsType(t, &rsa.PrivateKey{}, parsed)
	})

	t.Run("rsa pkcs8", func(t *testing.T) {
		t.Parallel()
		key := generateRSAKey(t)

		parsed, err := ParsePrivateKey(encodePKCS8(t, key))
		require.NoError(t, err)
		assert.IsType(t, &rsa.PrivateKey{}, parsed)
	})

	t.Run("ec sec1", func(t *testing.T) {
		t.Parallel()
		key := generateECKey(t, elliptic.P256())
		der, err := x509.MarshalECPrivateKey(key)
		require.NoError(t, err)
		keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})

		parsed, err := ParsePrivateKey(keyPEM)
		require.NoError(t, err)
		assert.IsType(t, &ecdsa.PrivateKey{}, parsed)
	})

	t.Run("ec pkcs8", func(t *testing.T) {
		t.Parallel()
		key := generateECKey(t, elliptic.P384())

		parsed, err := ParsePrivateKey(encodePKCS8(t, key))
		require.NoError(t, err)
		assert.IsType(t, &ecdsa.PrivateKey{}, parsed)
	})

	t.Run("not pem", func(t *testing.T) {
		t.Parallel()
		_, err := ParsePrivateKey([]byte("not a key"))
		assert.ErrorContains(t, err, "failed to decode PEM block")
	})

	t.Run("pem but not a key", func(t *testing.T) {
		t.Parallel()
		garbage := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte("garbage")})
		_, err := ParsePrivateKey(garbage)
		assert.ErrorContains(t, err, "failed to parse private key")
	})
}

func TestLoadPrivateKey(t *testing.T) {
	t.Parallel()

	key := generateECKey(t, elliptic.P256())
	keyPath := filepath.Join(t.TempDir(), "signing.pem")
	require.NoError(t, os.WriteFile(keyPath, encodePKCS8(t, key), 0o600))

	parsed, err := LoadPrivateKey(keyPath)
	require.NoError(t, err)
	assert.IsType(t, &ecdsa.PrivateKey{}, parsed)

	_, err = LoadPrivateKey(filepath.Join(t.TempDir(), "missing.pem"))
	assert.ErrorContains(t, err, "failed to read private key")
}

func TestDeriveKeyID(t *testing.T) {
	t.Parallel()

	key := generateECKey(t, elliptic.P256())

	kid1, err := DeriveKeyID(key.Public())
	require.NoError(t, err)
	assert.NotEmpty(t, kid1)

	// Deterministic for the same key.
	kid2, err := DeriveKeyID(key.Public())
	require.NoError(t, err)
	assert.Equal(t, kid1, kid2)

	// Distinct keys get distinct IDs.
	other := generateECKey(t, elliptic.P256())
	kid3, err := DeriveKeyID(other.Public())
	require.NoError(t, err)
	assert.NotEqual(t, kid1, kid3)
}

func TestDeriveAlgorithm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  crypto.Signer
		want string
	}{
		{name: "rsa", key: generateRSAKey(t), want: "RS256"},
		{name: "ec p256", key: generateECKey(t, elliptic.P256()), want: "ES256"},
		{name: "ec p384", key: generateECKey(t, elliptic.P384()), want: "ES384"},
		{name: "ec p521", key: generateECKey(t, elliptic.P521()), want: "ES512"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			alg, err := DeriveAlgorithm(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, alg)
		})
	}
}

func TestValidateAlgorithmForKey(t *testing.T) {
	t.Parallel()

	rsaKey := generateRSAKey(t)
	ecKey := generateECKey(t, elliptic.P256())

	assert.NoError(t, ValidateAlgorithmForKey("RS384", rsaKey))
	assert.NoError(t, ValidateAlgorithmForKey("PS256", rsaKey))
	assert.ErrorContains(t, ValidateAlgorithmForKey("ES256", rsaKey), "not compatible with RSA key")

	assert.NoError(t, ValidateAlgorithmForKey("ES256", ecKey))
	assert.ErrorContains(t, ValidateAlgorithmForKey("ES384", ecKey), "not compatible with EC key")
}

func TestEncodePublicKey(t *testing.T) {
	t.Parallel()

	key := generateRSAKey(t)

	pubPEM, err := EncodePublicKey(key.Public())
	require.NoError(t, err)
	assert.Contains(t, pubPEM, "BEGIN PUBLIC KEY")

	block, _ := pem.Decode([]byte(pubPEM))
	require.NotNil(t, block)
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)
	assert.Equal(t, key.Public(), parsed)
}
