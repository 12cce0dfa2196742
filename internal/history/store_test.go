package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/plugcheck/plugcheck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(name string) *schema.AuditRunRecord {
	rate := 95.0
	pct := 82.5
	return &schema.AuditRunRecord{
		PluginName:      name,
		PluginPath:      "/plugins/" + name,
		AuditTime:       time.Now().UTC(),
		ValidationScore: 88.9,
		TestPassRate:    &rate,
		CoveragePct:     &pct,
		OverallHealth:   string(schema.GoodHealth),
	}
}

func TestAuditStore_NoneBackend(t *testing.T) {
	store, err := NewAuditStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	// InsertAuditRun should return 0 for NoneBackend
	id, err := store.InsertAuditRun(sampleRecord("metalsmith-x"))
	assert.NoError(t, err)
	assert.Equal(t, int64(0), id)

	runs, err := store.GetAllAuditRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Close())
}

func TestAuditStore_SQLite(t *testing.T) {
	store, err := NewAuditStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	id, err := store.InsertAuditRun(sampleRecord("metalsmith-a"))
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	id2, err := store.InsertAuditRun(sampleRecord("metalsmith-b"))
	require.NoError(t, err)
	assert.Greater(t, id2, id)

	runs, err := store.GetAllAuditRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "metalsmith-a", runs[0].PluginName)
	assert.Equal(t, "metalsmith-b", runs[1].PluginName)
	assert.InDelta(t, 88.9, runs[0].ValidationScore, 0.001)
	require.NotNil(t, runs[0].TestPassRate)
	assert.InDelta(t, 95.0, *runs[0].TestPassRate, 0.001)
	require.NotNil(t, runs[0].CoveragePct)
	assert.InDelta(t, 82.5, *runs[0].CoveragePct, 0.001)
}

func TestAuditStore_NullableSignals(t *testing.T) {
	store, err := NewAuditStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	rec := sampleRecord("metalsmith-bare")
	rec.TestPassRate = nil
	rec.CoveragePct = nil

	_, err = store.InsertAuditRun(rec)
	require.NoError(t, err)

	runs, err := store.GetAllAuditRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].TestPassRate)
	assert.Nil(t, runs[0].CoveragePct)
}

func TestAuditStore_Status(t *testing.T) {
	store, err := NewAuditStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalRuns)

	first := sampleRecord("metalsmith-a")
	first.AuditTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = store.InsertAuditRun(first)
	require.NoError(t, err)

	second := sampleRecord("metalsmith-b")
	second.AuditTime = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err = store.InsertAuditRun(second)
	require.NoError(t, err)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, first.AuditTime, status.OldestRunTime)
	assert.Equal(t, second.AuditTime, status.LastRunTime)
}

func TestAuditStore_Clear(t *testing.T) {
	store, err := NewAuditStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.InsertAuditRun(sampleRecord("metalsmith-a"))
	require.NoError(t, err)

	require.NoError(t, store.Clear())

	runs, err := store.GetAllAuditRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestAuditStore_FileBacked(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewAuditStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.InsertAuditRun(sampleRecord("metalsmith-a"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening the same file sees the persisted run.
	store, err = NewAuditStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runs, err := store.GetAllAuditRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestAuditStore_UnsupportedBackend(t *testing.T) {
	_, err := NewAuditStore(schema.DatabaseBackend("oracle"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`plugcheck_audit_runs`", quoteTableName(auditRunsTable, schema.MySQLBackend))
	assert.Equal(t, `"plugcheck_audit_runs"`, quoteTableName(auditRunsTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"plugcheck_audit_runs"`, quoteTableName(auditRunsTable, schema.SQLiteBackend))
}
