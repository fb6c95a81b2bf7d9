package commands

import (
	"context"
	"database/sql"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/exscriptd/orderdb/internal/config"
	"github.com/exscriptd/orderdb/internal/services"
	"github.com/exscriptd/orderdb/internal/store"
	"github.com/exscriptd/orderdb/pkg/scheduler"
)

const connectTimeout = 30 * time.Second

// app wires the store, the scheduler and the order service for one command.
type app struct {
	registry *prometheus.Registry
	store    *store.Store
	sched    *scheduler.Scheduler
	orders   *services.OrderService
}

func newApp(ctx context.Context, cfg *config.Configuration) (*app, error) {
	dialect, err := store.ParseDialect(cfg.Database.Dialect)
	if err != nil {
		return nil, err
	}

	db, err := connect(ctx, dialect, cfg.Database)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	st := store.NewStore(db, dialect, store.WithMetrics(store.NewMetrics(registry)))
	if err := st.Schema().SetTablePrefix(cfg.Database.TablePrefix); err != nil {
		_ = st.Close()
		return nil, err
	}
	st.Debug(cfg.Database.Debug)

	sched := scheduler.NewScheduler(cfg.Workers)

	return &app{
		registry: registry,
		store:    st,
		sched:    sched,
		orders:   services.NewOrderService(st, sched),
	}, nil
}

func (a *app) Close() {
	a.sched.Close()
	if err := a.store.Close(); err != nil {
		zap.S().Named("orderdb").Errorw("failed to close database", "error", err)
	}
}

// connect opens the database, retrying with exponential backoff while the
// engine is unreachable. A file based engine fails fast on bad input, a
// server that is still starting up does not.
func connect(ctx context.Context, dialect store.Dialect, dbCfg config.Database) (*sql.DB, error) {
	logger := zap.S().Named("orderdb")

	operation := func() (*sql.DB, error) {
		db, err := store.NewDB(dialect, dbCfg.DSN, dbCfg.MaxOpenConns)
		if err != nil && dialect != store.DialectPostgres {
			return nil, backoff.Permanent(err)
		}
		return db, err
	}

	db, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(connectTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warnw("database not reachable, retrying", "error", err, "next", next)
		}),
	)
	if err != nil {
		return nil, err
	}

	logger.Debugw("database connected", "dialect", dialect)
	return db, nil
}
