package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/exscriptd/orderdb/internal/models"
)

// Row is one flattened row of order ⟕ host ⟕ variable. Host and variable
// columns are NULL when the outer join found nothing.
type Row struct {
	OrderID   int64
	Service   sql.NullString
	Status    sql.NullString
	Created   sql.NullTime
	Closed    sql.NullTime
	CreatedBy sql.NullString

	HostID      sql.NullInt64
	HostOrderID sql.NullInt64
	HostAddress sql.NullString
	HostName    sql.NullString

	VariableID     sql.NullInt64
	VariableHostID sql.NullInt64
	VariableName   sql.NullString
	VariableValue  []byte
}

// RowSource is a forward-only cursor of rows ordered by order id, with the
// rows of one host next to each other.
type RowSource interface {
	Next() bool
	Row() (Row, error)
	Err() error
}

// RowGrouper rebuilds orders from a RowSource in a single forward pass. A new
// order starts whenever the order id changes, a new host whenever the host id
// changes. It never counts rows, so any level may be missing.
type RowGrouper struct {
	src   RowSource
	codec ValueCodec

	lookahead *Row
	exhausted bool

	currentOrderID int64
	currentOrder   *models.Order
	// Store ids are positive, so 0 means no current host.
	currentHostID int64
	currentHost   *models.Host
}

func NewRowGrouper(src RowSource, codec ValueCodec) *RowGrouper {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &RowGrouper{src: src, codec: codec}
}

// Next returns the next complete order, or io.EOF once the source is drained.
func (g *RowGrouper) Next() (*models.Order, error) {
	row, err := g.peek()
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, io.EOF
	}
	g.startOrder(row)

	for {
		row, err := g.peek()
		if err != nil {
			return nil, err
		}
		if row == nil || row.OrderID != g.currentOrderID {
			break
		}
		g.advance()

		if !row.HostID.Valid {
			continue
		}
		if row.HostID.Int64 != g.currentHostID {
			g.startHost(row)
		}

		if !row.VariableHostID.Valid {
			continue
		}
		value, err := g.codec.Decode(row.VariableValue)
		if err != nil {
			return nil, fmt.Errorf("failed to decode variable %q of host %d: %w", row.VariableName.String, g.currentHostID, err)
		}
		g.currentHost.Set(row.VariableName.String, value)
	}

	order := g.currentOrder
	for _, h := range order.Hosts {
		h.Untouch()
	}
	return order, nil
}

// Collect drains the source.
func (g *RowGrouper) Collect() ([]*models.Order, error) {
	orders := []*models.Order{}
	for {
		o, err := g.Next()
		if errors.Is(err, io.EOF) {
			return orders, nil
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
}

func (g *RowGrouper) peek() (*Row, error) {
	if g.lookahead != nil || g.exhausted {
		return g.lookahead, nil
	}
	if !g.src.Next() {
		g.exhausted = true
		return nil, g.src.Err()
	}
	row, err := g.src.Row()
	if err != nil {
		return nil, err
	}
	g.lookahead = &row
	return g.lookahead, nil
}

func (g *RowGrouper) advance() {
	g.lookahead = nil
}

func (g *RowGrouper) startOrder(row *Row) {
	o := &models.Order{
		ID:        row.OrderID,
		Service:   row.Service.String,
		Status:    row.Status.String,
		CreatedBy: row.CreatedBy.String,
		Hosts:     []*models.Host{},
	}
	if row.Created.Valid {
		o.Created = row.Created.Time
	}
	if row.Closed.Valid {
		closed := row.Closed.Time
		o.Closed = &closed
	}
	g.currentOrderID = row.OrderID
	g.currentOrder = o
	g.currentHostID = 0
	g.currentHost = nil
}

func (g *RowGrouper) startHost(row *Row) {
	h := models.NewHost(row.HostName.String)
	h.SetAddress(row.HostAddress.String)
	h.ID = row.HostID.Int64
	h.OrderID = row.HostOrderID.Int64
	if !row.HostOrderID.Valid {
		h.OrderID = g.currentOrderID
	}
	g.currentOrder.AddHost(h)
	g.currentHostID = row.HostID.Int64
	g.currentHost = h
}

// sqlRowSource reads Rows from the result of OrderQuery.ToSelect.
type sqlRowSource struct {
	rows    *sql.Rows
	shallow bool
}

func newSQLRowSource(rows *sql.Rows, shallow bool) *sqlRowSource {
	return &sqlRowSource{rows: rows, shallow: shallow}
}

func (s *sqlRowSource) Next() bool {
	return s.rows.Next()
}

func (s *sqlRowSource) Err() error {
	return s.rows.Err()
}

func (s *sqlRowSource) Row() (Row, error) {
	var r Row
	dest := []any{
		&r.OrderID,
		&r.Service,
		&r.Status,
		timeScanner{&r.Created},
		timeScanner{&r.Closed},
		&r.CreatedBy,
	}
	if !s.shallow {
		dest = append(dest,
			&r.HostID,
			&r.HostOrderID,
			&r.HostAddress,
			&r.HostName,
			&r.VariableID,
			&r.VariableHostID,
			&r.VariableName,
			&r.VariableValue,
		)
	}
	if err := s.rows.Scan(dest...); err != nil {
		return Row{}, err
	}
	return r, nil
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02",
}

// timeScanner accepts timestamps as time.Time or as text. SQLite has no
// timestamp type and drivers differ in what they hand back.
type timeScanner struct {
	dst *sql.NullTime
}

func (s timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s.dst = sql.NullTime{}
		return nil
	case time.Time:
		*s.dst = sql.NullTime{Time: v, Valid: true}
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (s timeScanner) parse(v string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*s.dst = sql.NullTime{Time: t, Valid: true}
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", v)
}
