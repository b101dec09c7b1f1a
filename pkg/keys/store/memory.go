// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/stacklok/keyhive/pkg/keys"
)

// MemoryStore implements ConfigStore with in-memory maps. Suitable for
// development, testing, and bootstrap-file deployments; records do not
// survive a restart.
type MemoryStore struct {
	mu sync.RWMutex

	// records maps realm ID to record ID to record.
	records map[string]map[string]*keys.ProviderConfig
}

var _ ConfigStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory config store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]map[string]*keys.ProviderConfig),
	}
}

// Create stores a new record, assigning a UUID when the ID is empty.
func (s *MemoryStore) Create(_ context.Context, cfg *keys.ProviderConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}

	realm, ok := s.records[cfg.RealmID]
	if !ok {
		realm = make(map[string]*keys.ProviderConfig)
		s.records[cfg.RealmID] = realm
	}
	if _, ok := realm[cfg.ID]; ok {
		return ErrAlreadyExists
	}

	realm[cfg.ID] = cfg.Clone()
	return nil
}

// Get retrieves a record by realm and ID.
func (s *MemoryStore) Get(_ context.Context, realmID, id string) (*keys.ProviderConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.records[realmID][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cfg.Clone(), nil
}

// List returns all of a realm's records ordered by ID ascending. An
// unknown realm yields an empty list, not an error.
func (s *MemoryStore) List(_ context.Context, realmID string) ([]*keys.ProviderConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	realm := s.records[realmID]
	out := make([]*keys.ProviderConfig, 0, len(realm))
	for _, cfg := range realm {
		out = append(out, cfg.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes a record by realm and ID.
func (s *MemoryStore) Delete(_ context.Context, realmID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[realmID][id]; !ok {
		return ErrNotFound
	}
	delete(s.records[realmID], id)
	return nil
}

// Close is a no-op for the in-memory store.
func (*MemoryStore) Close() error {
	return nil
}
