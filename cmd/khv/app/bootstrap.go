// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/resolver"
	"github.com/stacklok/keyhive/pkg/keys/store"
	"github.com/stacklok/keyhive/pkg/keys/store/sqlite"
)

// bootstrapFile is the on-disk shape of a realm bootstrap file.
type bootstrapFile struct {
	Realms []bootstrapRealm `yaml:"realms"`
}

type bootstrapRealm struct {
	Realm     string              `yaml:"realm"`
	Providers []bootstrapProvider `yaml:"providers"`
}

type bootstrapProvider struct {
	ID       string            `yaml:"id"`
	Type     string            `yaml:"type"`
	Name     string            `yaml:"name,omitempty"`
	Priority int64             `yaml:"priority"`
	Config   map[string]string `yaml:"config,omitempty"`
}

// loadBootstrap reads a realm bootstrap file into a memory store.
func loadBootstrap(ctx context.Context, path string) (store.ConfigStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bootstrap file: %w", err)
	}

	var file bootstrapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse bootstrap file %s: %w", path, err)
	}

	s := store.NewMemoryStore()
	for _, realm := range file.Realms {
		if realm.Realm == "" {
			return nil, fmt.Errorf("bootstrap file %s: realm entry missing a name", path)
		}
		for _, p := range realm.Providers {
			cfg := &keys.ProviderConfig{
				ID:       p.ID,
				RealmID:  realm.Realm,
				Type:     p.Type,
				Name:     p.Name,
				Priority: p.Priority,
				Config:   p.Config,
			}
			if err := s.Create(ctx, cfg); err != nil {
				return nil, fmt.Errorf("failed to load provider %q for realm %s: %w", p.ID, realm.Realm, err)
			}
		}
	}
	return s, nil
}

// openStore resolves the provider configuration store for a command: a
// bootstrap file loaded into a memory store when --config is given,
// otherwise the sqlite database at --db or its default location.
func openStore(ctx context.Context) (store.ConfigStore, error) {
	if configPath != "" {
		return loadBootstrap(ctx, configPath)
	}

	path := dbPath
	if path == "" {
		var err error
		path, err = xdg.DataFile("keyhive/providers.db")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}
	return sqlite.New(ctx, path)
}

// openManager builds a key resolver over the configured store. The
// caller closes the manager first, then the store.
func openManager(ctx context.Context) (resolver.Manager, store.ConfigStore, error) {
	s, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	m, err := resolver.New(resolver.Options{Store: s})
	if err != nil {
		_ = s.Close()
		return nil, nil, err
	}
	return m, s, nil
}
