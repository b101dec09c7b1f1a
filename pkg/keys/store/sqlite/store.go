// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package sqlite implements the provider config store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	sqlite3 "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/store"
)

// Store implements store.ConfigStore using SQLite.
type Store struct {
	db *sql.DB
}

var _ store.ConfigStore = (*Store)(nil)

// New opens (or creates) the database at path and applies pending
// migrations. The parent directory is created if needed.
func New(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY churn under concurrent use.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// configColumns is the SELECT column list shared by Get and List.
const configColumns = `id, realm_id, provider_type, name, priority, json(config)`

// Create stores a new record, assigning a UUID when the ID is empty.
func (s *Store) Create(ctx context.Context, cfg *keys.ProviderConfig) error {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}

	configJSON, err := encodeConfig(cfg.Config)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO provider_configs (id, realm_id, provider_type, name, priority, config)
		VALUES (?, ?, ?, ?, ?, jsonb(?))`,
		cfg.ID, cfg.RealmID, cfg.Type, cfg.Name, cfg.Priority, configJSON,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("inserting provider config: %w", err)
	}
	return nil
}

// Get retrieves a record by realm and ID.
func (s *Store) Get(ctx context.Context, realmID, id string) (*keys.ProviderConfig, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+configColumns+` FROM provider_configs WHERE realm_id = ? AND id = ?`,
		realmID, id,
	)
	return scanConfig(row)
}

// List returns all of a realm's records ordered by ID ascending.
func (s *Store) List(ctx context.Context, realmID string) ([]*keys.ProviderConfig, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+configColumns+` FROM provider_configs WHERE realm_id = ? ORDER BY id`,
		realmID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying provider configs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]*keys.ProviderConfig, 0)
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating provider config rows: %w", err)
	}
	return out, nil
}

// Delete removes a record by realm and ID.
func (s *Store) Delete(ctx context.Context, realmID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM provider_configs WHERE realm_id = ? AND id = ?`,
		realmID, id,
	)
	if err != nil {
		return fmt.Errorf("deleting provider config: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// scanner is an interface satisfied by both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

func scanConfig(sc scanner) (*keys.ProviderConfig, error) {
	var (
		cfg        keys.ProviderConfig
		configBlob []byte
	)
	err := sc.Scan(&cfg.ID, &cfg.RealmID, &cfg.Type, &cfg.Name, &cfg.Priority, &configBlob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("scanning provider config row: %w", err)
	}

	cfg.Config, err = decodeConfig(configBlob)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// encodeConfig marshals the attribute map for the SQLite jsonb()
// function.
func encodeConfig(config map[string]string) (string, error) {
	if config == nil {
		return "null", nil
	}
	data, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(data), nil
}

// decodeConfig unmarshals a JSONB blob from SQLite into the attribute
// map.
func decodeConfig(data []byte) (map[string]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var out map[string]string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return out, nil
}

// isUniqueViolation checks for a SQLite UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
