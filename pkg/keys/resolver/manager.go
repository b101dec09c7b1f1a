// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package resolver selects realm keys for signing, encryption, and
// verification.
//
// Each realm configures an ordered set of key providers. The resolver
// walks them highest priority first and returns the first match, so
// new operations always use the most preferred active key while
// passive keys remain reachable by kid for verifying and decrypting
// older material. Realms with no usable configuration for a baseline
// capability are silently covered by generated fallback providers.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/go-jose/go-jose/v4"
	"golang.org/x/sync/singleflight"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/providers"
	"github.com/stacklok/keyhive/pkg/keys/store"
	"github.com/stacklok/keyhive/pkg/logger"
)

//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks -source=manager.go Manager

var (
	// ErrNoActiveKey is returned when a realm has no active key for
	// the requested use and algorithm. This is an expected, recoverable
	// condition: callers should handle it rather than treat it as
	// fatal.
	ErrNoActiveKey = errors.New("no active key found")

	// ErrStoreNil is returned when a Manager is constructed without a
	// config store.
	ErrStoreNil = errors.New("config store cannot be nil")
)

// Manager resolves realm keys. Implementations must be safe for
// concurrent use by many request-handling goroutines.
type Manager interface {
	// ActiveKey returns the key serving new operations for the given
	// use and algorithm: the first active matching descriptor in
	// provider order. Returns ErrNoActiveKey when no provider serves
	// one.
	ActiveKey(ctx context.Context, realm string, use keys.KeyUse, algorithm string) (*keys.Key, error)

	// Key locates a specific key by kid for verifying or decrypting
	// previously issued material. Only enabled keys are returned; a
	// disabled key never matches. An empty kid or no match yields
	// (nil, nil): absence is an expected outcome, not an error.
	Key(ctx context.Context, realm, kid string, use keys.KeyUse, algorithm string) (*keys.Key, error)

	// Keys returns every enabled key matching the given use and
	// algorithm, in provider-then-enumeration order.
	Keys(ctx context.Context, realm string, use keys.KeyUse, algorithm string) ([]*keys.Key, error)

	// AllKeys returns every key the realm's providers serve,
	// regardless of status, use, or algorithm.
	AllKeys(ctx context.Context, realm string) ([]*keys.Key, error)

	// KeysMetadata returns the public projection of the realm's keys:
	// everything AllKeys reports, with material accessors replaced by
	// PEM-encoded public halves, plus the kid serving new operations
	// per algorithm.
	KeysMetadata(ctx context.Context, realm string) (*keys.RealmKeysMetadata, error)

	// PublicJWKS projects the realm's enabled asymmetric keys of the
	// given use into a JSON Web Key Set of public keys.
	PublicJWKS(ctx context.Context, realm string, use keys.KeyUse) (*jose.JSONWebKeySet, error)

	// Close releases providers the manager registered for disposal.
	Close() error
}

// CloseRegistrar enlists providers that hold releasable resources for
// disposal at the end of the owning session. The resolver registers
// providers as it creates them but never disposes them itself.
type CloseRegistrar interface {
	EnlistForClose(c io.Closer)
}

// Options configures a Manager.
type Options struct {
	// Store supplies provider configuration records. Required.
	Store store.ConfigStore

	// Factory instantiates a provider from its configuration record.
	// Defaults to the built-in provider set.
	Factory keys.Factory

	// Registrar receives providers that need disposal. When nil, the
	// manager tracks them itself and Close disposes them.
	Registrar CloseRegistrar

	// Logger receives diagnostics. Defaults to the process logger.
	Logger *slog.Logger
}

// DefaultManager is the default Manager implementation. Provider lists
// are built once per realm and cached for the manager's lifetime;
// construct a new manager to pick up configuration changes.
type DefaultManager struct {
	store     store.ConfigStore
	factory   keys.Factory
	registrar CloseRegistrar
	logger    *slog.Logger

	// cache holds each realm's ordered provider list. Entries are
	// complete when published: fallback augmentation happens before
	// insertion, and an entry is never re-sorted or pruned afterwards.
	cacheMu sync.RWMutex
	cache   map[string][]keys.Provider

	// flight collapses concurrent first-time builds for one realm into
	// a single execution. Distinct realms build independently.
	flight singleflight.Group

	closersMu sync.Mutex
	closers   []io.Closer
}

var _ Manager = (*DefaultManager)(nil)

// New creates a Manager resolving keys from the given store.
func New(opts Options) (*DefaultManager, error) {
	if opts.Store == nil {
		return nil, ErrStoreNil
	}
	if opts.Factory == nil {
		opts.Factory = providers.Create
	}
	if opts.Logger == nil {
		opts.Logger = logger.Get()
	}

	return &DefaultManager{
		store:     opts.Store,
		factory:   opts.Factory,
		registrar: opts.Registrar,
		logger:    opts.Logger,
		cache:     make(map[string][]keys.Provider),
	}, nil
}

// ActiveKey returns the key serving new operations for the given use
// and algorithm.
func (m *DefaultManager) ActiveKey(ctx context.Context, realm string, use keys.KeyUse, algorithm string) (*keys.Key, error) {
	list, err := m.providersFor(ctx, realm)
	if err != nil {
		return nil, err
	}
	return m.findActiveKey(ctx, list, realm, use, algorithm)
}

// Key locates a specific enabled key by kid.
func (m *DefaultManager) Key(ctx context.Context, realm, kid string, use keys.KeyUse, algorithm string) (*keys.Key, error) {
	if kid == "" {
		m.logger.Warn("kid is empty, cannot look up key", "realm", realm)
		return nil, nil
	}

	list, err := m.providersFor(ctx, realm)
	if err != nil {
		return nil, err
	}

	for _, p := range list {
		for _, key := range m.enumerate(ctx, p, realm) {
			if key.KID == kid && key.Status.IsEnabled() && key.Matches(use, algorithm) {
				return key, nil
			}
		}
	}

	m.logger.Debug("no key found for kid", "realm", realm, "kid", kid, "algorithm", algorithm)
	return nil, nil
}

// Keys returns every enabled key matching the given use and algorithm.
func (m *DefaultManager) Keys(ctx context.Context, realm string, use keys.KeyUse, algorithm string) ([]*keys.Key, error) {
	list, err := m.providersFor(ctx, realm)
	if err != nil {
		return nil, err
	}

	out := make([]*keys.Key, 0)
	for _, p := range list {
		for _, key := range m.enumerate(ctx, p, realm) {
			if key.Status.IsEnabled() && key.Matches(use, algorithm) {
				out = append(out, key)
			}
		}
	}
	return out, nil
}

// AllKeys returns every key the realm's providers serve.
func (m *DefaultManager) AllKeys(ctx context.Context, realm string) ([]*keys.Key, error) {
	list, err := m.providersFor(ctx, realm)
	if err != nil {
		return nil, err
	}

	out := make([]*keys.Key, 0)
	for _, p := range list {
		out = append(out, m.enumerate(ctx, p, realm)...)
	}
	return out, nil
}

// Close disposes providers the manager registered for itself. With an
// external registrar, disposal is the registrar's job and Close does
// nothing. The config store is owned by the caller and is not closed.
func (m *DefaultManager) Close() error {
	m.closersMu.Lock()
	closers := m.closers
	m.closers = nil
	m.closersMu.Unlock()

	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// providersFor returns the realm's ordered provider list, building and
// caching it on first use.
func (m *DefaultManager) providersFor(ctx context.Context, realm string) ([]keys.Provider, error) {
	m.cacheMu.RLock()
	cached, ok := m.cache[realm]
	m.cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	// At most one build runs per realm; concurrent first-time lookups
	// share its result instead of instantiating providers twice.
	result, err, _ := m.flight.Do(realm, func() (any, error) {
		// Re-check after winning the flight slot: an earlier flight may
		// have completed the build while this goroutine waited.
		m.cacheMu.RLock()
		cached, ok := m.cache[realm]
		m.cacheMu.RUnlock()
		if ok {
			return cached, nil
		}
		return m.buildProviders(ctx, realm)
	})
	if err != nil {
		return nil, err
	}
	return result.([]keys.Provider), nil
}

// buildProviders constructs a realm's provider list: configured
// providers sorted by priority, then fallback providers for any
// baseline capability the configuration does not cover. The complete
// list is published to the cache in one step so no reader ever
// observes a partially built entry.
func (m *DefaultManager) buildProviders(ctx context.Context, realm string) ([]keys.Provider, error) {
	configs, err := m.store.List(ctx, realm)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider configs for realm %s: %w", realm, err)
	}

	list := make([]keys.Provider, 0, len(configs))
	for _, cfg := range configs {
		provider, err := m.factory(ctx, cfg)
		if err != nil {
			// A broken provider config never takes down resolution;
			// the remaining providers still serve.
			m.logger.Error("failed to load provider",
				"realm", realm,
				"provider_id", cfg.ID,
				"provider_type", cfg.Type,
				"error", err,
			)
			continue
		}
		if closer, ok := provider.(io.Closer); ok {
			m.enlistForClose(closer)
		}
		list = append(list, provider)
	}

	sortProviders(list)

	// Fallback detection runs against the list built so far in this
	// same construction pass. Configured providers always win: they
	// were consulted first, and a fallback is appended only when none
	// of them serves the capability.
	for _, capability := range providers.BaselineCapabilities {
		_, err := m.findActiveKey(ctx, list, realm, capability.Use, capability.Algorithm)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNoActiveKey) {
			return nil, err
		}

		fallback, err := providers.Fallback(capability.Use, capability.Algorithm)
		if err != nil {
			m.logger.Error("failed to create fallback provider",
				"realm", realm,
				"use", capability.Use,
				"algorithm", capability.Algorithm,
				"error", err,
			)
			continue
		}
		list = append(list, fallback)
	}

	m.cacheMu.Lock()
	m.cache[realm] = list
	m.cacheMu.Unlock()

	return list, nil
}

// findActiveKey runs the active-key lookup against an explicit
// provider list, so the fallback detection during a cache build can
// use it without re-entering the cache.
func (m *DefaultManager) findActiveKey(
	ctx context.Context, list []keys.Provider, realm string, use keys.KeyUse, algorithm string,
) (*keys.Key, error) {
	for _, p := range list {
		for _, key := range m.enumerate(ctx, p, realm) {
			if key.Status.IsActive() && key.Matches(use, algorithm) {
				m.logger.Debug("active key found",
					"realm", realm,
					"kid", key.KID,
					"algorithm", algorithm,
				)
				return key, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: realm=%s use=%s algorithm=%s", ErrNoActiveKey, realm, use, algorithm)
}

// enumerate lists a provider's current keys. An enumeration failure is
// logged and the provider contributes nothing to this operation.
func (m *DefaultManager) enumerate(ctx context.Context, p keys.Provider, realm string) []*keys.Key {
	out, err := p.Keys(ctx)
	if err != nil {
		m.logger.Error("failed to enumerate provider keys",
			"realm", realm,
			"provider_id", p.ID(),
			"provider_type", p.Type(),
			"error", err,
		)
		return nil
	}
	return out
}

// enlistForClose hands a provider to the registrar, or tracks it for
// the manager's own Close when no registrar is configured.
func (m *DefaultManager) enlistForClose(c io.Closer) {
	if m.registrar != nil {
		m.registrar.EnlistForClose(c)
		return
	}
	m.closersMu.Lock()
	m.closers = append(m.closers, c)
	m.closersMu.Unlock()
}

// sortProviders orders configured providers by priority descending,
// breaking ties by configuration ID ascending so equal priorities
// resolve the same way regardless of load order.
func sortProviders(list []keys.Provider) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Priority() != list[j].Priority() {
			return list[i].Priority() > list[j].Priority()
		}
		return list[i].ID() < list[j].ID()
	})
}
