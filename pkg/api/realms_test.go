// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/providers"
	"github.com/stacklok/keyhive/pkg/keys/resolver"
	resolvermocks "github.com/stacklok/keyhive/pkg/keys/resolver/mocks"
	"github.com/stacklok/keyhive/pkg/keys/store"
	"github.com/stacklok/keyhive/pkg/logger"
)

// newRealmManager builds a resolver over a memory store holding one
// RSA signing provider for realm "acme".
func newRealmManager(t *testing.T) resolver.Manager {
	t.Helper()

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(rsaKey)
	require.NoError(t, err)

	s := store.NewMemoryStore()
	require.NoError(t, s.Create(context.Background(), &keys.ProviderConfig{
		ID: "rsa-1", RealmID: "acme", Type: providers.TypeRSA, Priority: 10,
		Config: map[string]string{
			keys.AttrPrivateKey: string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
		},
	}))

	m, err := resolver.New(resolver.Options{Store: s})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func doRequest(manager resolver.Manager, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	Router(manager).ServeHTTP(rec, req)
	return rec
}

func TestGetJWKS(t *testing.T) {
	t.Parallel()

	logger.Initialize()

	t.Run("serves the realm's public signing keys", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(newRealmManager(t), "/realms/acme/jwks")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

		var set jose.JSONWebKeySet
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
		require.NotEmpty(t, set.Keys)
		for _, jwk := range set.Keys {
			assert.True(t, jwk.IsPublic())
			assert.NotEmpty(t, jwk.KeyID)
			assert.Equal(t, "sig", jwk.Use)
		}

		// No private exponent anywhere in the document.
		assert.NotContains(t, rec.Body.String(), `"d":`)
	})

	t.Run("resolver failures are internal errors", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		manager := resolvermocks.NewMockManager(ctrl)
		manager.EXPECT().PublicJWKS(gomock.Any(), "acme", keys.UseSig).
			Return(nil, errors.New("store unavailable"))

		rec := doRequest(manager, "/realms/acme/jwks")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to build JWKS")
	})
}

func TestListKeys(t *testing.T) {
	t.Parallel()

	logger.Initialize()

	t.Run("serves realm key metadata", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(newRealmManager(t), "/realms/acme/keys")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var meta keys.RealmKeysMetadata
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
		assert.NotEmpty(t, meta.Active[keys.AlgRS256])
		require.NotEmpty(t, meta.Keys)

		// The configured RSA key leads the list with its public half;
		// nothing in the response carries private material.
		first := meta.Keys[0]
		assert.Equal(t, "rsa-1", first.ProviderID)
		assert.True(t, strings.HasPrefix(first.PublicKeyPEM, "-----BEGIN PUBLIC KEY-----"))
		assert.NotContains(t, rec.Body.String(), "PRIVATE KEY")
	})

	t.Run("resolver failures are internal errors", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		manager := resolvermocks.NewMockManager(ctrl)
		manager.EXPECT().KeysMetadata(gomock.Any(), "acme").
			Return(nil, errors.New("store unavailable"))

		rec := doRequest(manager, "/realms/acme/keys")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to list realm keys")
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	manager := resolvermocks.NewMockManager(ctrl)

	rec := doRequest(manager, "/health")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
