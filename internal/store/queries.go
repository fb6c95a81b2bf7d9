package store

import (
	"fmt"
	"strings"
)

// Tables holds the resolved table names for one prefix.
type Tables struct {
	Order    string
	Host     string
	Variable string
}

func tablesFor(prefix string) Tables {
	return Tables{
		Order:    prefix + "order",
		Host:     prefix + "host",
		Variable: prefix + "variable",
	}
}

// quoteIdent quotes a table name. "order" is a reserved word, and the
// prefix is restricted to [A-Za-z0-9_] so no escaping is needed.
func quoteIdent(name string) string {
	return `"` + name + `"`
}

func seqName(table string) string {
	return table + "_id_seq"
}

// createStatements returns the DDL for all tables, parents first.
func createStatements(d Dialect, t Tables) []string {
	var stmts []string

	if d == DialectDuckDB {
		for _, table := range []string{t.Order, t.Host, t.Variable} {
			stmts = append(stmts, fmt.Sprintf(`CREATE SEQUENCE IF NOT EXISTS %s START 1`, quoteIdent(seqName(table))))
		}
	}

	// The UNIQUE constraints are the natural keys the upserts conflict on.
	references := func(parent string) string {
		if !d.foreignKeys() {
			return ""
		}
		return fmt.Sprintf(" REFERENCES %s (id) ON DELETE CASCADE", quoteIdent(parent))
	}

	stmts = append(stmts,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			%s,
			service VARCHAR(50),
			status VARCHAR(20),
			created %s DEFAULT CURRENT_TIMESTAMP,
			closed %s,
			created_by VARCHAR(50)
		)`, quoteIdent(t.Order), d.idColumn(seqName(t.Order)), d.timestampType(), d.timestampType()),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			%s,
			order_id %s NOT NULL%s,
			address VARCHAR(150),
			name VARCHAR(150),
			UNIQUE (order_id, address)
		)`, quoteIdent(t.Host), d.idColumn(seqName(t.Host)), d.refType(), references(t.Order)),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			%s,
			host_id %s NOT NULL%s,
			name VARCHAR(150),
			value %s,
			UNIQUE (host_id, name)
		)`, quoteIdent(t.Variable), d.idColumn(seqName(t.Variable)), d.refType(), references(t.Host), d.blobType()),
	)

	if d.secondaryIndexes() {
		stmts = append(stmts,
			createIndex(t.Order, "service", "service"),
			createIndex(t.Order, "status", "status"),
			createIndex(t.Host, "address", "address"),
			createIndex(t.Host, "name", "name"),
		)
	}
	stmts = append(stmts, createIndex(t.Variable, "name", "name"))

	return stmts
}

func createIndex(table, suffix string, columns ...string) string {
	return fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (%s)`,
		quoteIdent(table+"_"+suffix+"_idx"), quoteIdent(table), strings.Join(columns, ", "))
}

// dropStatements returns the DDL removing all tables, children first.
func dropStatements(d Dialect, t Tables) []string {
	stmts := []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(t.Variable)),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(t.Host)),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(t.Order)),
	}
	if d == DialectDuckDB {
		for _, table := range []string{t.Variable, t.Host, t.Order} {
			stmts = append(stmts, fmt.Sprintf(`DROP SEQUENCE IF EXISTS %s`, quoteIdent(seqName(table))))
		}
	}
	return stmts
}

// clearStatements empties the order table. Without foreign keys the children
// are deleted explicitly, children first.
func clearStatements(d Dialect, t Tables) []string {
	if d.foreignKeys() {
		return []string{fmt.Sprintf(`DELETE FROM %s`, quoteIdent(t.Order))}
	}
	return []string{
		fmt.Sprintf(`DELETE FROM %s`, quoteIdent(t.Variable)),
		fmt.Sprintf(`DELETE FROM %s`, quoteIdent(t.Host)),
		fmt.Sprintf(`DELETE FROM %s`, quoteIdent(t.Order)),
	}
}
