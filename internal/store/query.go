package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var (
	orderColumns = []string{
		"o.id",
		"o.service",
		"o.status",
		"o.created",
		"o.closed",
		"o.created_by",
	}
	hostColumns = []string{
		"h.id",
		"h.order_id",
		"h.address",
		"h.name",
	}
	variableColumns = []string{
		"v.id",
		"v.host_id",
		"v.name",
		"v.value",
	}
)

// OrderQuery selects orders by id, service and status. Values given for one
// field are ORed, distinct fields are ANDed. Offset and limit count orders,
// not joined rows.
type OrderQuery struct {
	ids      []int64
	services []string
	statuses []string
	offset   uint64
	limit    uint64
	shallow  bool
}

type ListOption func(*OrderQuery)

func NewOrderQuery(opts ...ListOption) *OrderQuery {
	q := &OrderQuery{}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func ByID(ids ...int64) ListOption {
	return func(q *OrderQuery) {
		q.ids = append(q.ids, ids...)
	}
}

func ByService(services ...string) ListOption {
	return func(q *OrderQuery) {
		q.services = append(q.services, services...)
	}
}

func ByStatus(statuses ...string) ListOption {
	return func(q *OrderQuery) {
		q.statuses = append(q.statuses, statuses...)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(q *OrderQuery) {
		q.offset = offset
	}
}

// WithLimit caps the number of orders returned. Zero means no limit.
func WithLimit(limit uint64) ListOption {
	return func(q *OrderQuery) {
		q.limit = limit
	}
}

// Shallow loads orders without their hosts.
func Shallow() ListOption {
	return func(q *OrderQuery) {
		q.shallow = true
	}
}

func (q *OrderQuery) IsShallow() bool {
	return q.shallow
}

func (q *OrderQuery) where() sq.And {
	var where sq.And
	if len(q.ids) > 0 {
		where = append(where, sq.Eq{"o.id": q.ids})
	}
	if len(q.services) > 0 {
		where = append(where, sq.Eq{"o.service": q.services})
	}
	if len(q.statuses) > 0 {
		where = append(where, sq.Eq{"o.status": q.statuses})
	}
	return where
}

func (q *OrderQuery) filter(b sq.SelectBuilder) sq.SelectBuilder {
	if where := q.where(); len(where) > 0 {
		return b.Where(where)
	}
	return b
}

func (q *OrderQuery) paginate(b sq.SelectBuilder, d Dialect) sq.SelectBuilder {
	if q.limit > 0 {
		b = b.Limit(q.limit)
	}
	if q.offset == 0 {
		return b
	}
	if q.limit == 0 && d.offsetNeedsLimit() {
		return b.Suffix(fmt.Sprintf("LIMIT -1 OFFSET %d", q.offset))
	}
	return b.Offset(q.offset)
}

// ToSelect builds the query for GetOrders.
//
// For a deep query the filters and the pagination go into a subselect of
// order ids; the outer join against hosts and variables happens afterwards
// so that fan-out never changes which orders are on a page. Rows come back
// grouped by order (id descending), then host, then variable, which is what
// RowGrouper expects.
func (q *OrderQuery) ToSelect(t Tables, d Dialect) sq.SelectBuilder {
	b := sq.StatementBuilder.PlaceholderFormat(d.placeholder())
	from := quoteIdent(t.Order) + " o"

	if q.shallow {
		sel := b.Select(orderColumns...).From(from)
		return q.paginate(q.filter(sel).OrderBy("o.id DESC"), d)
	}

	page := sq.Select("o.id AS order_id").From(from)
	page = q.paginate(q.filter(page).OrderBy("o.id DESC"), d)

	cols := make([]string, 0, len(orderColumns)+len(hostColumns)+len(variableColumns))
	cols = append(cols, orderColumns...)
	cols = append(cols, hostColumns...)
	cols = append(cols, variableColumns...)

	return b.Select(cols...).
		FromSelect(page, "page").
		Join(fmt.Sprintf("%s ON o.id = page.order_id", from)).
		LeftJoin(fmt.Sprintf("%s h ON h.order_id = o.id", quoteIdent(t.Host))).
		LeftJoin(fmt.Sprintf("%s v ON v.host_id = h.id", quoteIdent(t.Variable))).
		OrderBy("o.id DESC", "h.id ASC", "v.id ASC")
}

// ToCount builds a COUNT over the order table with the same filters.
// Pagination does not apply.
func (q *OrderQuery) ToCount(t Tables, d Dialect) sq.SelectBuilder {
	sel := sq.StatementBuilder.PlaceholderFormat(d.placeholder()).
		Select("COUNT(*)").
		From(quoteIdent(t.Order) + " o")
	return q.filter(sel)
}
