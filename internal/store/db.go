package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const sqliteMemory = ":memory:"

// NewDB opens the engine for the given dialect and verifies the connection.
//
// In-memory SQLite and DuckDB databases are private to a connection, so the
// pool is pinned to a single connection for them. Otherwise maxOpenConns
// applies when positive.
func NewDB(dialect Dialect, dsn string, maxOpenConns int) (*sql.DB, error) {
	memory := isMemoryDSN(dialect, dsn)
	if dialect == DialectSQLite {
		dsn = sqliteDSN(dsn, memory)
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	switch {
	case memory:
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		// The database disappears with its last connection.
		db.SetConnMaxLifetime(0)
	case maxOpenConns > 0:
		db.SetMaxOpenConns(maxOpenConns)
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", dialect, err)
	}

	return db, nil
}

func isMemoryDSN(dialect Dialect, dsn string) bool {
	switch dialect {
	case DialectSQLite:
		base, _, _ := strings.Cut(dsn, "?")
		return base == "" || strings.HasSuffix(base, sqliteMemory) || strings.Contains(dsn, "mode=memory")
	case DialectDuckDB:
		base, _, _ := strings.Cut(dsn, "?")
		return base == "" || base == sqliteMemory
	default:
		return false
	}
}

// sqliteDSN adds the pragmas every connection needs. Foreign keys are off by
// default in SQLite and cascading deletes depend on them. Timestamps are
// written in the SQLite text layout instead of time.Time.String.
func sqliteDSN(dsn string, memory bool) string {
	if dsn == "" {
		dsn = sqliteMemory
	}
	pragmas := []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)", "_time_format=sqlite"}
	if !memory {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)", "_pragma=synchronous(NORMAL)")
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(pragmas, "&")
}
