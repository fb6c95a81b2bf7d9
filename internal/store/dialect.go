package store

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Dialect names a relational engine the store knows how to talk to.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectDuckDB   Dialect = "duckdb"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case DialectSQLite, "sqlite3":
		return DialectSQLite, nil
	case DialectPostgres, "postgresql", "pgx":
		return DialectPostgres, nil
	case DialectDuckDB:
		return DialectDuckDB, nil
	default:
		return "", fmt.Errorf("unsupported dialect: %q", s)
	}
}

func (d Dialect) String() string {
	return string(d)
}

func (d Dialect) driverName() string {
	switch d {
	case DialectPostgres:
		return "pgx"
	case DialectDuckDB:
		return "duckdb"
	default:
		return "sqlite"
	}
}

func (d Dialect) placeholder() sq.PlaceholderFormat {
	if d == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// foreignKeys reports whether child tables reference their parent with an
// ON DELETE CASCADE foreign key.
//
// DuckDB has no CASCADE and checks foreign keys eagerly: an upsert of a host
// that variables point to, or deleting variables, hosts and orders in one
// transaction, fails with a constraint error. On DuckDB the tables carry no
// REFERENCES clause and the store removes children itself.
func (d Dialect) foreignKeys() bool {
	return d != DialectDuckDB
}

// secondaryIndexes reports whether plain (non-unique) indexes are created on
// the searchable columns. DuckDB rejects ON CONFLICT DO UPDATE of an indexed
// column, and host names are updated that way.
func (d Dialect) secondaryIndexes() bool {
	return d != DialectDuckDB
}

// offsetNeedsLimit is true when OFFSET is only valid after a LIMIT clause.
func (d Dialect) offsetNeedsLimit() bool {
	return d == DialectSQLite
}

func (d Dialect) idColumn(seq string) string {
	switch d {
	case DialectPostgres:
		return "id BIGSERIAL PRIMARY KEY"
	case DialectDuckDB:
		return fmt.Sprintf("id BIGINT PRIMARY KEY DEFAULT nextval('%s')", seq)
	default:
		return "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

func (d Dialect) refType() string {
	if d == DialectSQLite {
		return "INTEGER"
	}
	return "BIGINT"
}

func (d Dialect) timestampType() string {
	switch d {
	case DialectPostgres:
		return "TIMESTAMPTZ"
	case DialectDuckDB:
		return "TIMESTAMP"
	default:
		return "DATETIME"
	}
}

func (d Dialect) blobType() string {
	if d == DialectPostgres {
		return "BYTEA"
	}
	return "BLOB"
}
