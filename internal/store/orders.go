package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/exscriptd/orderdb/internal/models"
	srvErrors "github.com/exscriptd/orderdb/pkg/errors"
)

// OrderStore reads and writes orders together with their hosts and
// variables.
type OrderStore struct {
	*conn
}

type writeOptions struct {
	recursive bool
}

type WriteOption func(*writeOptions)

// NonRecursive writes the order row only and leaves hosts alone.
func NonRecursive() WriteOption {
	return func(o *writeOptions) {
		o.recursive = false
	}
}

func newWriteOptions(opts []WriteOption) writeOptions {
	wo := writeOptions{recursive: true}
	for _, opt := range opts {
		opt(&wo)
	}
	return wo
}

// AddOrders inserts the orders and assigns their ids. Only dirty hosts are
// written. All orders are written in one transaction.
func (s *OrderStore) AddOrders(ctx context.Context, orders []*models.Order, opts ...WriteOption) error {
	if err := validateOrders(orders); err != nil {
		return err
	}
	wo := newWriteOptions(opts)

	return s.inTx(ctx, "add_orders", func(ctx context.Context, u *unitOfWork) error {
		for _, o := range orders {
			if err := s.insertOrder(ctx, u, o, wo.recursive); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *OrderStore) AddOrder(ctx context.Context, order *models.Order, opts ...WriteOption) error {
	if order == nil {
		return srvErrors.NewInvalidArgumentError("order")
	}
	return s.AddOrders(ctx, []*models.Order{order}, opts...)
}

// SaveOrders updates orders that already exist and inserts the others.
// Dirty hosts are upserted by address, their variables by name.
//
// Hosts removed from Order.Hosts and variables removed from a host stay in
// the database.
func (s *OrderStore) SaveOrders(ctx context.Context, orders []*models.Order, opts ...WriteOption) error {
	if err := validateOrders(orders); err != nil {
		return err
	}
	wo := newWriteOptions(opts)

	return s.inTx(ctx, "save_orders", func(ctx context.Context, u *unitOfWork) error {
		for _, o := range orders {
			if err := s.saveOrder(ctx, u, o, wo.recursive); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *OrderStore) SaveOrder(ctx context.Context, order *models.Order, opts ...WriteOption) error {
	if order == nil {
		return srvErrors.NewInvalidArgumentError("order")
	}
	return s.SaveOrders(ctx, []*models.Order{order}, opts...)
}

// GetOrders returns the matching orders, newest first.
func (s *OrderStore) GetOrders(ctx context.Context, opts ...ListOption) (orders []*models.Order, err error) {
	start := time.Now()
	defer func() {
		s.metrics.observe("get_orders", start, err)
	}()

	q := NewOrderQuery(opts...)
	rows, err := s.reader().Query(ctx, q.ToSelect(s.tables(), s.dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders, err = NewRowGrouper(newSQLRowSource(rows, q.IsShallow()), s.codec).Collect()
	if err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	s.metrics.addMaterialized(len(orders))

	return orders, nil
}

// GetOrder returns the single matching order, or nil if nothing matches.
// Pagination options are ignored.
func (s *OrderStore) GetOrder(ctx context.Context, opts ...ListOption) (*models.Order, error) {
	opts = append(opts, WithOffset(0), WithLimit(2))
	orders, err := s.GetOrders(ctx, opts...)
	if err != nil {
		return nil, err
	}
	switch len(orders) {
	case 0:
		return nil, nil
	case 1:
		return orders[0], nil
	default:
		return nil, srvErrors.NewAmbiguousResultError(len(orders))
	}
}

// CountOrders counts the rows of the order table matching the filters.
// Pagination options are ignored.
func (s *OrderStore) CountOrders(ctx context.Context, opts ...ListOption) (count int, err error) {
	start := time.Now()
	defer func() {
		s.metrics.observe("count_orders", start, err)
	}()

	q := NewOrderQuery(opts...)
	if err := s.reader().QueryRow(ctx, q.ToCount(s.tables(), s.dialect)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// CloseOpenOrders stamps the current time into every order that has no
// closed timestamp yet. The status is left alone.
func (s *OrderStore) CloseOpenOrders(ctx context.Context) (int64, error) {
	var affected int64
	err := s.inTx(ctx, "close_open_orders", func(ctx context.Context, u *unitOfWork) error {
		stmt := s.builder().
			Update(quoteIdent(u.tables.Order)).
			Set("closed", time.Now().UTC()).
			Where(sq.Eq{"closed": nil})
		res, err := u.tx.Exec(ctx, stmt)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	zap.S().Named("store").Infow("closed open orders", "count", affected)
	return affected, nil
}

func validateOrders(orders []*models.Order) error {
	if orders == nil {
		return srvErrors.NewInvalidArgumentError("orders")
	}
	for _, o := range orders {
		if o == nil {
			return srvErrors.NewInvalidArgumentError("order")
		}
		seen := make(map[string]struct{}, len(o.Hosts))
		for _, h := range o.Hosts {
			if h == nil {
				return srvErrors.NewInvalidArgumentError("host")
			}
			if _, found := seen[h.Address()]; found {
				return srvErrors.NewInvalidArgumentErrorf("host", "address %q appears twice in one order", h.Address())
			}
			seen[h.Address()] = struct{}{}
			for _, name := range h.VariableNames() {
				if name == "" {
					return srvErrors.NewInvalidArgumentErrorf("key", "variable name must not be empty")
				}
			}
		}
	}
	return nil
}

func (s *OrderStore) insertOrder(ctx context.Context, u *unitOfWork, o *models.Order, recursive bool) error {
	ctx, release := s.lock(ctx)
	defer release()

	cols := []string{"service", "status", "closed", "created_by"}
	vals := []any{o.Service, o.Status, nullableTime(o.Closed), o.CreatedBy}
	if !o.Created.IsZero() {
		cols = append(cols, "created")
		vals = append(vals, o.Created)
	}

	stmt := s.builder().
		Insert(quoteIdent(u.tables.Order)).
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING id, created")

	var (
		id      int64
		created sql.NullTime
	)
	if err := u.tx.QueryRow(ctx, stmt).Scan(&id, timeScanner{&created}); err != nil {
		return err
	}
	u.afterCommit(func() {
		o.ID = id
		if created.Valid {
			o.Created = created.Time
		}
	})

	if !recursive {
		return nil
	}
	for _, h := range o.Hosts {
		if err := s.insertHost(ctx, u, id, h); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderStore) insertHost(ctx context.Context, u *unitOfWork, orderID int64, h *models.Host) error {
	if orderID == 0 {
		return srvErrors.NewInvalidArgumentError("order_id")
	}
	if !h.IsDirty() {
		return nil
	}

	ctx, release := s.lock(ctx)
	defer release()

	stmt := s.builder().
		Insert(quoteIdent(u.tables.Host)).
		Columns("order_id", "address", "name").
		Values(orderID, h.Address(), h.Name()).
		Suffix("RETURNING id")

	var id int64
	if err := u.tx.QueryRow(ctx, stmt).Scan(&id); err != nil {
		return err
	}

	vars := h.All()
	for _, name := range h.VariableNames() {
		if err := s.insertVariable(ctx, u, id, name, vars[name]); err != nil {
			return err
		}
	}

	u.afterCommit(func() {
		h.ID = id
		h.OrderID = orderID
		h.Untouch()
	})
	return nil
}

func (s *OrderStore) insertVariable(ctx context.Context, u *unitOfWork, hostID int64, name string, value any) error {
	if hostID == 0 {
		return srvErrors.NewInvalidArgumentError("host_id")
	}

	ctx, release := s.lock(ctx)
	defer release()

	blob, err := s.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode variable %q: %w", name, err)
	}

	stmt := s.builder().
		Insert(quoteIdent(u.tables.Variable)).
		Columns("host_id", "name", "value").
		Values(hostID, name, blob)
	_, err = u.tx.Exec(ctx, stmt)
	return err
}

// saveOrder updates the order row when it exists and falls back to an
// insert otherwise.
func (s *OrderStore) saveOrder(ctx context.Context, u *unitOfWork, o *models.Order, recursive bool) error {
	ctx, release := s.lock(ctx)
	defer release()

	if o.ID == 0 {
		return s.insertOrder(ctx, u, o, recursive)
	}

	stmt := s.builder().
		Update(quoteIdent(u.tables.Order)).
		Set("service", o.Service).
		Set("status", o.Status).
		Set("closed", nullableTime(o.Closed)).
		Set("created_by", o.CreatedBy).
		Where(sq.Eq{"id": o.ID})
	res, err := u.tx.Exec(ctx, stmt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return s.insertOrder(ctx, u, o, recursive)
	}

	if !recursive {
		return nil
	}
	for _, h := range o.Hosts {
		if err := s.saveHost(ctx, u, o.ID, h); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderStore) saveHost(ctx context.Context, u *unitOfWork, orderID int64, h *models.Host) error {
	if orderID == 0 {
		return srvErrors.NewInvalidArgumentError("order_id")
	}
	if !h.IsDirty() {
		return nil
	}

	ctx, release := s.lock(ctx)
	defer release()

	stmt := s.builder().
		Insert(quoteIdent(u.tables.Host)).
		Columns("order_id", "address", "name").
		Values(orderID, h.Address(), h.Name()).
		Suffix("ON CONFLICT (order_id, address) DO UPDATE SET name = EXCLUDED.name RETURNING id")

	var id int64
	if err := u.tx.QueryRow(ctx, stmt).Scan(&id); err != nil {
		return err
	}

	vars := h.All()
	for _, name := range h.VariableNames() {
		if err := s.saveVariable(ctx, u, id, name, vars[name]); err != nil {
			return err
		}
	}

	u.afterCommit(func() {
		h.ID = id
		h.OrderID = orderID
		h.Untouch()
	})
	return nil
}

func (s *OrderStore) saveVariable(ctx context.Context, u *unitOfWork, hostID int64, name string, value any) error {
	if hostID == 0 {
		return srvErrors.NewInvalidArgumentError("host_id")
	}

	ctx, release := s.lock(ctx)
	defer release()

	blob, err := s.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode variable %q: %w", name, err)
	}

	stmt := s.builder().
		Insert(quoteIdent(u.tables.Variable)).
		Columns("host_id", "name", "value").
		Values(hostID, name, blob).
		Suffix("ON CONFLICT (host_id, name) DO UPDATE SET value = EXCLUDED.value")
	_, err = u.tx.Exec(ctx, stmt)
	return err
}

// nullableTime maps a nil timestamp to an untyped NULL.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
