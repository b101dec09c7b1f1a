// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/store"
)

// newTestStore opens a store backed by a temp database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.Context(), filepath.Join(t.TempDir(), "keyhive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreCreateGet(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a record", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		cfg := &keys.ProviderConfig{
			ID:       "cfg-1",
			RealmID:  "acme",
			Type:     "rsa",
			Name:     "imported rsa",
			Priority: 100,
			Config: map[string]string{
				keys.AttrAlgorithm: keys.AlgRS256,
				keys.AttrActive:    "false",
			},
		}
		require.NoError(t, s.Create(t.Context(), cfg))

		got, err := s.Get(t.Context(), "acme", "cfg-1")
		require.NoError(t, err)
		assert.Equal(t, cfg, got)
	})

	t.Run("assigns an ID when missing", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		cfg := &keys.ProviderConfig{RealmID: "acme", Type: "hmac"}
		require.NoError(t, s.Create(t.Context(), cfg))
		assert.NotEmpty(t, cfg.ID)
	})

	t.Run("preserves a nil config map", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		require.NoError(t, s.Create(t.Context(), &keys.ProviderConfig{ID: "cfg-1", RealmID: "acme", Type: "ephemeral"}))

		got, err := s.Get(t.Context(), "acme", "cfg-1")
		require.NoError(t, err)
		assert.Nil(t, got.Config)
	})

	t.Run("rejects duplicate IDs within a realm", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		require.NoError(t, s.Create(t.Context(), &keys.ProviderConfig{ID: "cfg-1", RealmID: "acme", Type: "rsa"}))
		err := s.Create(t.Context(), &keys.ProviderConfig{ID: "cfg-1", RealmID: "acme", Type: "hmac"})
		assert.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("allows the same ID in different realms", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		require.NoError(t, s.Create(t.Context(), &keys.ProviderConfig{ID: "cfg-1", RealmID: "acme", Type: "rsa"}))
		require.NoError(t, s.Create(t.Context(), &keys.ProviderConfig{ID: "cfg-1", RealmID: "globex", Type: "rsa"}))
	})

	t.Run("missing record is ErrNotFound", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		_, err := s.Get(t.Context(), "acme", "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStoreList(t *testing.T) {
	t.Parallel()

	t.Run("orders records by ID ascending", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		for _, id := range []string{"c", "a", "b"} {
			require.NoError(t, s.Create(t.Context(), &keys.ProviderConfig{ID: id, RealmID: "acme", Type: "rsa"}))
		}

		got, err := s.List(t.Context(), "acme")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, "b", got[1].ID)
		assert.Equal(t, "c", got[2].ID)
	})

	t.Run("scopes listing to the realm", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		require.NoError(t, s.Create(t.Context(), &keys.ProviderConfig{ID: "a", RealmID: "acme", Type: "rsa"}))
		require.NoError(t, s.Create(t.Context(), &keys.ProviderConfig{ID: "b", RealmID: "globex", Type: "rsa"}))

		got, err := s.List(t.Context(), "acme")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].ID)
	})

	t.Run("unknown realm yields an empty list", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		got, err := s.List(t.Context(), "nowhere")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Create(t.Context(), &keys.ProviderConfig{ID: "a", RealmID: "acme", Type: "rsa"}))

	require.NoError(t, s.Delete(t.Context(), "acme", "a"))
	_, err := s.Get(t.Context(), "acme", "a")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.Delete(t.Context(), "acme", "a"), store.ErrNotFound)
}

func TestStoreReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keyhive.db")

	s, err := New(t.Context(), path)
	require.NoError(t, err)
	require.NoError(t, s.Create(t.Context(), &keys.ProviderConfig{
		ID:      "a",
		RealmID: "acme",
		Type:    "rsa",
		Config:  map[string]string{keys.AttrAlgorithm: keys.AlgRS256},
	}))
	require.NoError(t, s.Close())

	// Reopening applies no new migrations and sees the same data.
	s, err = New(t.Context(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Get(t.Context(), "acme", "a")
	require.NoError(t, err)
	assert.Equal(t, keys.AlgRS256, got.Config[keys.AttrAlgorithm])
}
