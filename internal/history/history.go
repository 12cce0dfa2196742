package history

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/plugcheck/plugcheck/internal/contract"
	"github.com/plugcheck/plugcheck/schema"
)

// AuditStoreManager manages the audit history store instance.
type AuditStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	audit        contract.HistoryStore
}

var _ contract.HistoryManager = &AuditStoreManager{} // Compile-time check

// GetAuditStore returns the audit HistoryStore, nil when tracking is disabled.
func (mgr *AuditStoreManager) GetAuditStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.audit
}

// Global Manager instance for main logic.
var (
	Manager   = &AuditStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitHistory initializes the global history manager. The backend may be
// NoneBackend to disable tracking while keeping the manager usable.
func InitHistory(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		store, err := NewAuditStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize audit history: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.audit = store
	})

	return initErr
}

// CloseHistory should be called on application shutdown.
func CloseHistory() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.audit != nil {
			_ = Manager.audit.Close()
		}
	})
}

// ClearHistory removes all recorded audit runs for the specified backend.
// For SQLite, it deletes the database file. For server backends, it drops
// the table. For NoneBackend, it does nothing.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			dbFilePath = contract.GetHistoryDBFilePath()
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropSQLTable("mysql", connStr, auditRunsTable, backend)

	case schema.PostgreSQLBackend:
		return dropSQLTable("pgx", connStr, auditRunsTable, backend)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

// dropSQLTable connects to the SQL database and drops the table if it exists.
func dropSQLTable(driverName, connStr, tableName string, backend schema.DatabaseBackend) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
