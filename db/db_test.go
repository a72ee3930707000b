package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "vetbuddy.db")
	sqlDB, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer sqlDB.Close()

	_, err = sqlDB.Exec(`CREATE TABLE t (v INTEGER); INSERT INTO t VALUES (7);`)
	require.NoError(t, err)
	var v int
	require.NoError(t, sqlDB.QueryRow(`SELECT v FROM t`).Scan(&v))
	assert.Equal(t, 7, v)
	assert.FileExists(t, path)
}

func TestOpenMemory(t *testing.T) {
	sqlDB, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()

	// A single connection keeps the in-memory schema visible across calls.
	_, err = sqlDB.Exec(`CREATE TABLE t (v INTEGER)`)
	require.NoError(t, err)
	_, err = sqlDB.Exec(`INSERT INTO t VALUES (1)`)
	require.NoError(t, err)
	var n int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	assert.Equal(t, 1, n)
}
