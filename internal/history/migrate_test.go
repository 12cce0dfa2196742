package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/plugcheck/plugcheck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateHistory_NoneBackend(t *testing.T) {
	err := MigrateHistory(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateHistory_SQLite(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test_migration.db")

	// Run migration to latest version (should go to version 1)
	err := MigrateHistory(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	// Run migration again (should be a no-op)
	err = MigrateHistory(schema.SQLiteBackend, dbPath, -1)
	assert.NoError(t, err)

	// Run migration to a specific version (version 1)
	err = MigrateHistory(schema.SQLiteBackend, dbPath, 1)
	assert.NoError(t, err)

	// Rollback to version 0
	err = MigrateHistory(schema.SQLiteBackend, dbPath, 0)
	assert.NoError(t, err)

	// Migrate back up to version 1
	err = MigrateHistory(schema.SQLiteBackend, dbPath, 1)
	assert.NoError(t, err)
}

func TestMigrateHistory_SQLiteInMemory(t *testing.T) {
	err := MigrateHistory(schema.SQLiteBackend, ":memory:", -1)
	require.NoError(t, err)
}

func TestClearHistory_SQLiteRemovesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewAuditStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.InsertAuditRun(sampleRecord("metalsmith-a"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))

	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing again is a no-op
	assert.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
}

func TestClearHistory_NoneBackend(t *testing.T) {
	assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
}
