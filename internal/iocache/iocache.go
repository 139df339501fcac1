// Package iocache persists sessions, weekly aggregates and cached signatures.
package iocache

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/schema"
	"github.com/go-sql-driver/mysql"   // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names used by every SQL backend.
const (
	sessionsTable   = "coach_sessions"
	weeksTable      = "coach_weeks"
	signaturesTable = "coach_signatures"
	migrationsTable = "schema_migrations"
)

// allTables lists the data tables in creation order.
var allTables = []string{sessionsTable, weeksTable, signaturesTable}

// CacheStoreManager manages the session, week and signature stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	sessions     contract.SessionStore
	weeks        contract.WeekStore
	signatures   contract.SignatureCache
}

var _ contract.StoreManager = &CacheStoreManager{} // Compile-time check

// GetSessionStore returns the SessionStore.
func (mgr *CacheStoreManager) GetSessionStore() contract.SessionStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.sessions
}

// GetWeekStore returns the WeekStore.
func (mgr *CacheStoreManager) GetWeekStore() contract.WeekStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.weeks
}

// GetSignatureCache returns the SignatureCache.
func (mgr *CacheStoreManager) GetSignatureCache() contract.SignatureCache {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.signatures
}

// openDB opens and pings the database for a SQL backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		cfg, perr := mysql.ParseDSN(connStr)
		if perr != nil {
			return nil, fmt.Errorf("invalid MySQL connection string: %w. Check connection format: user:password@tcp(host:port)/dbname", perr)
		}
		if cfg.DBName == "" {
			return nil, fmt.Errorf("MySQL connection string must name a database: user:password@tcp(host:port)/dbname")
		}
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql or postgresql", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&sb, "$%d", n)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// tableNameRegex matches the table names accepted by quoteTableName.
var tableNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName rejects names that are not plain identifiers.
func validateTableName(tableName string) error {
	if !tableNameRegex.MatchString(tableName) {
		return fmt.Errorf("invalid table name: %s", tableName)
	}
	return nil
}

// quoteTableName quotes a table name for the backend.
func quoteTableName(tableName string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + tableName + "`"
	default: // PostgreSQL and SQLite
		return `"` + tableName + `"`
	}
}

// toMicros converts a time to the BIGINT representation stored in every backend.
func toMicros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

// fromMicros converts a stored BIGINT back into a UTC time.
func fromMicros(us int64) time.Time {
	if us == 0 {
		return time.Time{}
	}
	return time.UnixMicro(us).UTC()
}

// boolToInt encodes a flag for the INTEGER columns.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
