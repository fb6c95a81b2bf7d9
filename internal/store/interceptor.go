package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RowScanner is satisfied by *sql.Row.
type RowScanner interface {
	Scan(dest ...any) error
}

// QueryInterceptor wraps a *sql.DB or *sql.Tx and logs every statement.
// Statements are logged at debug level, or at info level while the store is
// in debug mode. Engine errors are passed through untouched.
type QueryInterceptor struct {
	q     querier
	debug *atomic.Bool
}

func newQueryInterceptor(q querier, debug *atomic.Bool) *QueryInterceptor {
	return &QueryInterceptor{q: q, debug: debug}
}

func (i *QueryInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	i.log("exec", query, args)
	return i.q.ExecContext(ctx, query, args...)
}

func (i *QueryInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	i.log("query", query, args)
	return i.q.QueryContext(ctx, query, args...)
}

func (i *QueryInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	i.log("query_row", query, args)
	return i.q.QueryRowContext(ctx, query, args...)
}

// Exec renders a squirrel builder and executes it.
func (i *QueryInterceptor) Exec(ctx context.Context, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build statement: %w", err)
	}
	return i.ExecContext(ctx, query, args...)
}

func (i *QueryInterceptor) Query(ctx context.Context, b sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return i.QueryContext(ctx, query, args...)
}

func (i *QueryInterceptor) QueryRow(ctx context.Context, b sq.Sqlizer) RowScanner {
	query, args, err := b.ToSql()
	if err != nil {
		return errRow{fmt.Errorf("failed to build query: %w", err)}
	}
	return i.QueryRowContext(ctx, query, args...)
}

func (i *QueryInterceptor) log(kind, query string, args []any) {
	logger := zap.S().Named("store.sql")
	if i.debug != nil && i.debug.Load() {
		logger.Infow(kind, "query", query, "args", args)
		return
	}
	logger.Debugw(kind, "query", query, "args", args)
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
