// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/keyhive/pkg/keys"
)

func TestEphemeralProvider(t *testing.T) {
	t.Parallel()

	t.Run("generates a key on first enumeration", func(t *testing.T) {
		t.Parallel()
		provider, err := NewEphemeralProvider(testConfig("cfg-eph", TypeEphemeral, 0, nil))
		require.NoError(t, err)

		got, err := provider.Keys(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.NotEmpty(t, got[0].KID)
		assert.Equal(t, []string{DefaultEphemeralAlgorithm}, got[0].Algorithms)
		assert.NotNil(t, got[0].PrivateKey)
	})

	t.Run("returns the same key on subsequent enumerations", func(t *testing.T) {
		t.Parallel()
		provider, err := NewEphemeralProvider(testConfig("cfg-eph", TypeEphemeral, 0, nil))
		require.NoError(t, err)

		first, err := provider.Keys(context.Background())
		require.NoError(t, err)
		second, err := provider.Keys(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first[0].KID, second[0].KID)
		assert.Equal(t, first[0].PrivateKey, second[0].PrivateKey)
	})

	t.Run("supports RS256 generation", func(t *testing.T) {
		t.Parallel()
		provider, err := NewEphemeralProvider(testConfig("cfg-eph", TypeEphemeral, 0, map[string]string{
			keys.AttrAlgorithm: keys.AlgRS256,
		}))
		require.NoError(t, err)

		got, err := provider.Keys(context.Background())
		require.NoError(t, err)
		assert.Equal(t, keys.KeyTypeRSA, got[0].Type)
	})

	t.Run("rejects unsupported algorithms", func(t *testing.T) {
		t.Parallel()
		_, err := NewEphemeralProvider(testConfig("cfg-eph", TypeEphemeral, 0, map[string]string{
			keys.AttrAlgorithm: keys.AlgHS256,
		}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported algorithm")
	})

	t.Run("thread-safe concurrent enumeration", func(t *testing.T) {
		t.Parallel()
		provider, err := NewEphemeralProvider(testConfig("cfg-eph", TypeEphemeral, 0, nil))
		require.NoError(t, err)

		var wg sync.WaitGroup
		var got [10][]*keys.Key
		var errs [10]error

		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				got[idx], errs[idx] = provider.Keys(context.Background())
			}(i)
		}

		wg.Wait()

		// All should succeed with the same key.
		for i := 0; i < 10; i++ {
			require.NoError(t, errs[i])
			require.Len(t, got[i], 1)
			assert.Equal(t, got[0][0].KID, got[i][0].KID)
		}
	})
}
