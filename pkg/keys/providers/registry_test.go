// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/keyhive/pkg/keys"
)

// staticProvider is a minimal keys.Provider for registry tests.
type staticProvider struct {
	identity
}

func (*staticProvider) Keys(_ context.Context) ([]*keys.Key, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("creates through a registered factory", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		r.Register("static", func(_ context.Context, cfg *keys.ProviderConfig) (keys.Provider, error) {
			return &staticProvider{identity: identityFrom(cfg, "static")}, nil
		})

		provider, err := r.Create(context.Background(), testConfig("cfg-1", "static", 7, nil))
		require.NoError(t, err)
		assert.Equal(t, "cfg-1", provider.ID())
		assert.Equal(t, "static", provider.Type())
		assert.Equal(t, int64(7), provider.Priority())
	})

	t.Run("unregistered type is an error", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()

		_, err := r.Create(context.Background(), testConfig("cfg-1", "vault", 0, nil))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownProviderType)
		assert.Contains(t, err.Error(), "vault")
	})

	t.Run("registering a type again replaces the factory", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		r.Register("static", func(_ context.Context, cfg *keys.ProviderConfig) (keys.Provider, error) {
			return &staticProvider{identity: identityFrom(cfg, "first")}, nil
		})
		r.Register("static", func(_ context.Context, cfg *keys.ProviderConfig) (keys.Provider, error) {
			return &staticProvider{identity: identityFrom(cfg, "second")}, nil
		})

		provider, err := r.Create(context.Background(), testConfig("cfg-1", "static", 0, nil))
		require.NoError(t, err)
		assert.Equal(t, "second", provider.Type())
	})

	t.Run("types are listed sorted", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		factory := func(_ context.Context, cfg *keys.ProviderConfig) (keys.Provider, error) {
			return &staticProvider{identity: identityFrom(cfg, cfg.Type)}, nil
		}
		r.Register("zulu", factory)
		r.Register("alpha", factory)

		assert.Equal(t, []string{"alpha", "zulu"}, r.Types())
	})
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		TypeAES,
		TypeECDSA,
		TypeEphemeral,
		TypeFile,
		TypeHMAC,
		TypeJWKS,
		TypeRSA,
	}, DefaultRegistry().Types())
}
