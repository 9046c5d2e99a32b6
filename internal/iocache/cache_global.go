package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// NewRecordCache builds the record cache of one backend.
// dir and file only apply to the file backend; connStr only to the SQL backends.
func NewRecordCache(backend schema.CacheBackend, connStr, dir, file string) (contract.RecordCache, error) {
	switch backend {
	case schema.FileBackend, "":
		return NewFileStore(dir, file), nil
	case schema.NoneBackend:
		return NoneStore{}, nil
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		return NewSQLStore(backend, connStr)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be file, sqlite, mysql, postgresql, or none", backend)
	}
}

// InitStores initializes the global cache manager once per process.
func InitStores(backend schema.CacheBackend, connStr, dir, file string) error {
	var initErr error

	initOnce.Do(func() {
		records, err := NewRecordCache(backend, connStr, dir, file)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize record cache: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.records = records
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.records != nil {
			_ = Manager.records.Close()
		}
	})
}

// ClearCache clears the cache for the specified backend.
// For the file backend, it removes the cache files of dir.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.CacheBackend, connStr, dir, file string) error {
	switch backend {
	case schema.FileBackend:
		return NewFileStore(dir, file).Clear()

	case schema.SQLiteBackend:
		dbFilePath := connStr
		if dbFilePath == "" {
			dbFilePath = contract.GetCacheDBFilePath()
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return clearSQLTable("mysql", connStr)

	case schema.PostgreSQLBackend:
		return clearSQLTable("pgx", connStr)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// clearSQLTable drops the records table together with the migration bookkeeping,
// so the next connection migrates from scratch.
func clearSQLTable(driverName, connStr string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, table := range []string{recordsTable, "schema_migrations"} {
		if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
