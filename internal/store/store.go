package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store provides access to the schema manager and the order store. Both share
// one database handle, one table prefix and one write guard.
type Store struct {
	conn   *conn
	schema *Schema
	orders *OrderStore
}

type Option func(*conn)

// WithGuard replaces the process-wide guard.
func WithGuard(g *Guard) Option {
	return func(c *conn) {
		c.guard = g
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *conn) {
		c.metrics = m
	}
}

func WithValueCodec(codec ValueCodec) Option {
	return func(c *conn) {
		c.codec = codec
	}
}

func NewStore(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	c := &conn{
		db:      db,
		dialect: dialect,
		guard:   ProcessGuard(),
		codec:   JSONCodec{},
		prefix:  DefaultTablePrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return &Store{
		conn:   c,
		schema: &Schema{conn: c},
		orders: &OrderStore{conn: c},
	}
}

func (s *Store) Schema() *Schema {
	return s.schema
}

func (s *Store) Orders() *OrderStore {
	return s.orders
}

func (s *Store) Dialect() Dialect {
	return s.conn.dialect
}

// Debug switches statement logging from debug to info level.
func (s *Store) Debug(enabled bool) {
	s.conn.debug.Store(enabled)
}

func (s *Store) Close() error {
	return s.conn.db.Close()
}

// conn is the state shared by Schema and OrderStore.
type conn struct {
	db      *sql.DB
	dialect Dialect
	guard   *Guard
	metrics *Metrics
	codec   ValueCodec
	debug   atomic.Bool

	mu     sync.RWMutex
	prefix string
}

func (c *conn) tables() Tables {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return tablesFor(c.prefix)
}

func (c *conn) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(c.dialect.placeholder())
}

func (c *conn) reader() *QueryInterceptor {
	return newQueryInterceptor(c.db, &c.debug)
}

// lock acquires the write guard and records how long it took.
func (c *conn) lock(ctx context.Context) (context.Context, func()) {
	if c.guard.Held(ctx) {
		return c.guard.Acquire(ctx)
	}
	start := time.Now()
	ctx, release := c.guard.Acquire(ctx)
	c.metrics.observeGuardWait(time.Since(start))
	return ctx, release
}

// unitOfWork is the transaction of one public call. Changes to in-memory
// objects are queued and applied only once the transaction has committed,
// so a rolled back call leaves the caller's objects as they were.
type unitOfWork struct {
	tx       *QueryInterceptor
	tables   Tables
	onCommit []func()
}

func (u *unitOfWork) afterCommit(fn func()) {
	u.onCommit = append(u.onCommit, fn)
}

// inTx runs fn inside one transaction while holding the write guard. Any
// error rolls back all work done by fn and is returned unchanged.
func (c *conn) inTx(ctx context.Context, operation string, fn func(context.Context, *unitOfWork) error) (err error) {
	ctx, release := c.lock(ctx)
	defer release()

	start := time.Now()
	defer func() {
		c.metrics.observe(operation, start, err)
	}()

	logger := zap.S().Named("store").With("tx_id", uuid.NewString(), "operation", operation)

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	logger.Debug("transaction started")

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	u := &unitOfWork{
		tx:     newQueryInterceptor(tx, &c.debug),
		tables: c.tables(),
	}
	if err := fn(ctx, u); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Errorw("failed to rollback transaction", "error", rbErr)
		}
		logger.Debugw("transaction rolled back", "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Errorw("failed to commit transaction", "error", err)
		return err
	}
	for _, apply := range u.onCommit {
		apply()
	}
	logger.Debug("transaction committed")

	return nil
}
