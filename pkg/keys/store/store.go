// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package store defines persistence for realm key provider
// configuration records.
package store

import (
	"context"
	"errors"

	"github.com/stacklok/keyhive/pkg/keys"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go ConfigStore

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("provider config not found")

	// ErrAlreadyExists is returned when a record with the same ID
	// already exists.
	ErrAlreadyExists = errors.New("provider config already exists")
)

// ConfigStore manages provider configuration records. Implementations
// must be safe for concurrent use.
type ConfigStore interface {
	// Create stores a new record. A missing ID is assigned by the
	// store.
	Create(ctx context.Context, cfg *keys.ProviderConfig) error

	// Get retrieves a record by realm and ID.
	Get(ctx context.Context, realmID, id string) (*keys.ProviderConfig, error)

	// List returns all of a realm's records ordered by ID ascending.
	// The ordering is part of the contract: the resolver relies on it
	// for deterministic priority tie-breaks.
	List(ctx context.Context, realmID string) ([]*keys.ProviderConfig, error)

	// Delete removes a record by realm and ID.
	Delete(ctx context.Context, realmID, id string) error

	// Close releases any resources held by the store.
	Close() error
}
