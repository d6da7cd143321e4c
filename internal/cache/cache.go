// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides a SQLite-backed key-value response cache with
// per-entry expiry. Entries are never served past their expiry; a write race
// on the same key is benign because values are derived deterministically from
// the same inputs (last write wins).
package cache

import (
	"database/sql"
	"fmt"
	"time"
)

// Store is a TTL key-value cache over a shared *sql.DB. Concurrent readers
// never block each other.
type Store struct {
	db *sql.DB
}

// New prepares the cache table on db and returns the store.
func New(db *sql.DB) (*Store, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS response_cache (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		created_at TEXT NOT NULL,
		expires_at TEXT NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("creating cache table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_cache_expires ON response_cache(expires_at)`); err != nil {
		return nil, fmt.Errorf("creating cache index: %w", err)
	}
	return &Store{db: db}, nil
}

// now is swapped by tests to control expiry.
var now = time.Now

// Get returns the cached value for key, or ok=false when the key is absent
// or expired. Expired rows are deleted on read.
func (s *Store) Get(key string) ([]byte, bool) {
	var value []byte
	var expiresAt string
	err := s.db.QueryRow(
		`SELECT value, expires_at FROM response_cache WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if err != nil {
		return nil, false
	}

	expiry, err := time.Parse(time.RFC3339Nano, expiresAt)
	if err != nil || !now().Before(expiry) {
		s.db.Exec(`DELETE FROM response_cache WHERE key = ?`, key)
		return nil, false
	}
	return value, true
}

// Set stores value under key with the given TTL, replacing any prior entry.
func (s *Store) Set(key string, value []byte, ttl time.Duration) error {
	t := now()
	_, err := s.db.Exec(
		`INSERT INTO response_cache (key, value, created_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			value=excluded.value, created_at=excluded.created_at, expires_at=excluded.expires_at`,
		key, value,
		t.UTC().Format(time.RFC3339Nano),
		t.Add(ttl).UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Purge deletes all expired entries and returns the number removed.
func (s *Store) Purge() (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM response_cache WHERE expires_at <= ?`,
		now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}
