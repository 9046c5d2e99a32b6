package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// recordsTable holds one compressed record set per assignment.
const recordsTable = "heatmap_records"

// SQLStore keeps record sets in a SQL table, one row per assignment.
type SQLStore struct {
	db      *sql.DB
	backend schema.CacheBackend
	connStr string
}

var _ contract.RecordCache = &SQLStore{} // Compile-time check

// driverFor returns the database/sql driver name of a SQL backend.
func driverFor(backend schema.CacheBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported SQL cache backend: %s. Must be sqlite, mysql or postgresql", backend)
	}
}

// openDB opens and pings the database of a SQL backend.
func openDB(backend schema.CacheBackend, connStr string) (*sql.DB, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetCacheDBFilePath()
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s cache: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// NewSQLStore connects to a SQL backend and migrates the records table to the latest version.
// An empty SQLite connection string selects the default database file.
func NewSQLStore(backend schema.CacheBackend, connStr string) (*SQLStore, error) {
	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := migrateUp(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLStore{db: db, backend: backend, connStr: connStr}, nil
}

// Load returns the record set of an assignment. Rows written by another cache version are misses.
func (ss *SQLStore) Load(assignmentID int64) (schema.RecordSet, error) {
	var payload []byte
	var rawSize, version int

	query := fmt.Sprintf(`SELECT payload, raw_size, cache_version FROM %s WHERE assignment_id = %s`, recordsTable, ss.placeholder(1))
	err := ss.db.QueryRow(query, assignmentID).Scan(&payload, &rawSize, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contract.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached records: %w", err)
	}
	if version != cacheVersion {
		return nil, contract.ErrCacheMiss
	}
	return decodeRecords(payload, rawSize)
}

// Store upserts the record set of an assignment.
func (ss *SQLStore) Store(assignmentID int64, records schema.RecordSet) error {
	payload, rawSize, err := encodeRecords(records)
	if err != nil {
		return err
	}
	_, err = ss.db.Exec(ss.upsertQuery(), assignmentID, payload, rawSize, len(records), cacheVersion, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store records: %w", err)
	}
	return nil
}

// placeholder returns the n-th parameter placeholder for the backend.
func (ss *SQLStore) placeholder(n int) string {
	if ss.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// upsertQuery returns the UPSERT query for the backend.
func (ss *SQLStore) upsertQuery() string {
	const columns = "assignment_id, payload, raw_size, record_count, cache_version, cache_timestamp"
	switch ss.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE payload = new.payload, raw_size = new.raw_size, record_count = new.record_count,
			cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`, recordsTable, columns)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (assignment_id) DO UPDATE SET payload = EXCLUDED.payload, raw_size = EXCLUDED.raw_size,
			record_count = EXCLUDED.record_count, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`, recordsTable, columns)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)`, recordsTable, columns)
	}
}

// Close closes the underlying DB connection.
func (ss *SQLStore) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// GetStatus returns status information about the records table.
func (ss *SQLStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(ss.backend),
		Connected: ss.db != nil,
		Location:  ss.location(),
	}
	if ss.db == nil {
		return status, nil
	}

	var totalRecords sql.NullInt64
	row := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), SUM(record_count) FROM %s", recordsTable))
	if err := row.Scan(&status.TotalEntries, &totalRecords); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	status.TotalRecords = int(totalRecords.Int64)
	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	row = ss.db.QueryRow(fmt.Sprintf("SELECT MAX(cache_timestamp), MIN(cache_timestamp) FROM %s", recordsTable))
	if err := row.Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	// Fallback rough estimate if the size queries fail
	status.TableSizeBytes = int64(status.TotalEntries) * 1000
	switch ss.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		_ = ss.db.QueryRow(sizeQuery).Scan(&status.TableSizeBytes)
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ss.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		_ = ss.db.QueryRow(sizeQuery, cfg.DBName, recordsTable).Scan(&status.TableSizeBytes)
	case schema.PostgreSQLBackend:
		_ = ss.db.QueryRow("SELECT pg_total_relation_size($1)", recordsTable).Scan(&status.TableSizeBytes)
	}
	return status, nil
}

// location describes where the table lives without exposing credentials.
func (ss *SQLStore) location() string {
	switch ss.backend {
	case schema.SQLiteBackend:
		if ss.connStr == "" {
			return contract.GetCacheDBFilePath()
		}
		return ss.connStr
	case schema.MySQLBackend:
		if cfg, err := mysql.ParseDSN(ss.connStr); err == nil {
			return fmt.Sprintf("%s/%s", cfg.Addr, cfg.DBName)
		}
	}
	return recordsTable
}
