// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := New(db)
	require.NoError(t, err)
	return s
}

func TestGetMissingKey(t *testing.T) {
	s := testStore(t)

	_, ok := s.Get("absent")
	assert.False(t, ok)
}

func TestSetThenGet(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Set("k", []byte("payload"), time.Hour))

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)
}

func TestSetOverwrites(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Set("k", []byte("first"), time.Hour))
	require.NoError(t, s.Set("k", []byte("second"), time.Hour))

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("second"), got)
}

func TestExpiredEntryNotServed(t *testing.T) {
	s := testStore(t)

	base := time.Now()
	now = func() time.Time { return base }
	defer func() { now = time.Now }()

	require.NoError(t, s.Set("k", []byte("payload"), time.Minute))

	// Still inside the TTL window.
	_, ok := s.Get("k")
	assert.True(t, ok)

	// Move past expiry.
	now = func() time.Time { return base.Add(2 * time.Minute) }
	_, ok = s.Get("k")
	assert.False(t, ok)

	// The expired row was deleted on read.
	now = func() time.Time { return base }
	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestPurge(t *testing.T) {
	s := testStore(t)

	base := time.Now()
	now = func() time.Time { return base }
	defer func() { now = time.Now }()

	require.NoError(t, s.Set("fresh", []byte("a"), time.Hour))
	require.NoError(t, s.Set("stale", []byte("b"), time.Minute))

	now = func() time.Time { return base.Add(10 * time.Minute) }
	removed, err := s.Purge()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok := s.Get("fresh")
	assert.True(t, ok)
}
