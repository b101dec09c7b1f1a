// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/stacklok/keyhive/pkg/keys"
)

// Registry maps provider type identifiers to the factories that build
// them. Use NewRegistry for an empty instance or DefaultRegistry for
// one preloaded with the built-in providers.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]keys.Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]keys.Factory)}
}

// Register binds a factory to a provider type identifier, replacing
// any existing registration for that type.
func (r *Registry) Register(typ string, factory keys.Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[typ] = factory
}

// Create instantiates the provider described by a configuration
// record. It returns ErrUnknownProviderType when no factory is
// registered for the record's type.
func (r *Registry) Create(ctx context.Context, cfg *keys.ProviderConfig) (keys.Provider, error) {
	r.mu.RLock()
	factory, ok := r.factories[cfg.Type]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProviderType, cfg.Type)
	}
	return factory(ctx, cfg)
}

// Types returns the registered provider type identifiers, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

var defaultRegistry = func() *Registry {
	r := NewRegistry()
	r.Register(TypeRSA, func(_ context.Context, cfg *keys.ProviderConfig) (keys.Provider, error) {
		return NewRSAProvider(cfg)
	})
	r.Register(TypeECDSA, func(_ context.Context, cfg *keys.ProviderConfig) (keys.Provider, error) {
		return NewECDSAProvider(cfg)
	})
	r.Register(TypeHMAC, func(_ context.Context, cfg *keys.ProviderConfig) (keys.Provider, error) {
		return NewHMACProvider(cfg)
	})
	r.Register(TypeAES, func(_ context.Context, cfg *keys.ProviderConfig) (keys.Provider, error) {
		return NewAESProvider(cfg)
	})
	r.Register(TypeFile, func(_ context.Context, cfg *keys.ProviderConfig) (keys.Provider, error) {
		return NewFileProvider(cfg)
	})
	r.Register(TypeJWKS, func(ctx context.Context, cfg *keys.ProviderConfig) (keys.Provider, error) {
		return NewJWKSProvider(ctx, cfg)
	})
	r.Register(TypeEphemeral, func(_ context.Context, cfg *keys.ProviderConfig) (keys.Provider, error) {
		return NewEphemeralProvider(cfg)
	})
	return r
}()

// DefaultRegistry returns the process-wide registry holding the
// built-in provider types.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
