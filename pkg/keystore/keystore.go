// Package keystore provides SQLite-backed persistence for the session
// credential and cached profile.
package keystore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// TokenKey is the well-known key the bearer credential is stored under.
const TokenKey = "token"

// ProfileKey holds the last fetched profile as JSON, so the CLI can show
// who is logged in without a network round trip.
const ProfileKey = "profile"

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("keystore: not found")

// Store is a single-writer key/value store. Only the session layer
// writes the credential.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("keystore: open db: %w", err)
	}

	ctx := context.Background()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("keystore: set WAL: %w", err)
	}
	// Set busy timeout to avoid "database is locked" under concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("keystore: set busy_timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("keystore: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("keystore: set %q: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keystore: get %q: %w", key, err)
	}
	return value, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("keystore: delete %q: %w", key, err)
	}
	return nil
}

// SaveToken persists the bearer credential.
func (s *Store) SaveToken(token string) error {
	return s.Set(TokenKey, token)
}

// LoadToken returns the persisted credential, or ErrNotFound.
func (s *Store) LoadToken() (string, error) {
	return s.Get(TokenKey)
}

// DeleteToken removes the persisted credential and cached profile.
func (s *Store) DeleteToken() error {
	if err := s.Delete(TokenKey); err != nil {
		return err
	}
	return s.Delete(ProfileKey)
}

// SaveProfile caches the current user's profile JSON.
func (s *Store) SaveProfile(profileJSON string) error {
	return s.Set(ProfileKey, profileJSON)
}

// LoadProfile returns the cached profile JSON, or ErrNotFound.
func (s *Store) LoadProfile() (string, error) {
	return s.Get(ProfileKey)
}
