package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// NewStores opens the backend and returns its session store and signature cache.
// SQL backends share one connection pool and are migrated to the latest schema.
func NewStores(backend schema.DatabaseBackend, connStr string) (*CacheStoreManager, error) {
	if backend == schema.NoneBackend {
		sessions := NewMemorySessionStore()
		return &CacheStoreManager{
			sessions:   sessions,
			weeks:      sessions,
			signatures: NewMemorySignatureCache(),
		}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := migrateUp(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}

	sessions := &SessionStoreImpl{db: db, backend: backend, connStr: connStr}
	return &CacheStoreManager{
		sessions:   sessions,
		weeks:      sessions,
		signatures: &SignatureCacheImpl{db: db, backend: backend},
	}, nil
}

// InitStores initializes the global store manager.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		mgr, err := NewStores(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize %s store: %w", backend, err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.sessions = mgr.sessions
		Manager.weeks = mgr.weeks
		Manager.signatures = mgr.signatures
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		_ = Manager.Close()
	})
}

// Close releases every store held by the manager.
// Stores sharing one database close it once.
func (mgr *CacheStoreManager) Close() error {
	var firstErr error
	if mgr.sessions != nil {
		firstErr = mgr.sessions.Close()
	}
	if mgr.signatures != nil {
		if _, shared := mgr.signatures.(*SignatureCacheImpl); !shared {
			if err := mgr.signatures.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ClearStores removes all stored data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearStores(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := openDB(backend, connStr)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		for _, table := range []string{sessionsTable, weeksTable, signaturesTable, migrationsTable} {
			if err := dropTable(db, backend, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// dropTable drops the table if it exists.
func dropTable(db *sql.DB, backend schema.DatabaseBackend, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}
	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}

// SQLiteFilePath resolves the database file used by the SQLite backend.
func SQLiteFilePath(connStr string) string {
	if connStr != "" {
		return connStr
	}
	return contract.GetDBFilePath()
}
