// Package store persists orders together with their hosts and variables.
//
// The package runs on SQLite (modernc.org/sqlite, the default), PostgreSQL
// (pgx) or DuckDB. All statements are built with squirrel and pass through a
// QueryInterceptor that logs them.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├────────────────────────────────┬────────────────────────────────┤
//	│            Schema              │          OrderStore            │
//	│   install / uninstall / clear  │   add / save / get / count     │
//	├────────────────────────────────┴────────────────────────────────┤
//	│   Guard (writes)   │  OrderQuery (reads)  │  RowGrouper (reads) │
//	├─────────────────────────────────────────────────────────────────┤
//	│                QueryInterceptor → *sql.DB / *sql.Tx             │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
// All table names carry a prefix, "exscriptd_" unless changed with
// Schema.SetTablePrefix.
//
//	┌────────────────┬──────────────────────────────────────────────────┐
//	│  Table         │  Columns                                         │
//	├────────────────┼──────────────────────────────────────────────────┤
//	│  <p>order      │  id, service, status, created, closed,           │
//	│                │  created_by                                      │
//	│  <p>host       │  id, order_id → order.id, address, name          │
//	│                │  UNIQUE (order_id, address)                      │
//	│  <p>variable   │  id, host_id → host.id, name, value              │
//	│                │  UNIQUE (host_id, name)                          │
//	└────────────────┴──────────────────────────────────────────────────┘
//
// Deleting an order removes its hosts and variables through ON DELETE
// CASCADE. DuckDB has no cascading foreign keys and checks them too eagerly
// for upserts, so its tables are created without REFERENCES and Clear
// deletes the children itself.
//
// Variable values are encoded by a ValueCodec. JSONCodec tags each value with
// its Go type, so int, int64, []byte and time.Time come back unchanged.
//
// # Writes
//
// Every Add/Save call runs in one transaction while holding the write Guard:
//
//	AddOrders(ctx, orders)
//	    ├── validate input          → InvalidArgumentError, nothing written
//	    ├── Guard.Acquire
//	    ├── BEGIN
//	    ├── INSERT order            RETURNING id, created
//	    │     └── dirty hosts       INSERT host RETURNING id
//	    │           └── variables   INSERT variable
//	    ├── COMMIT                  (ROLLBACK on any error)
//	    └── assign ids, mark hosts clean
//
// SaveOrders updates the order row by id and upserts dirty hosts and their
// variables with INSERT ... ON CONFLICT ... DO UPDATE. Hosts that are no
// longer part of the order in memory are kept in the database.
//
// Ids and dirty flags are only touched after the commit. A failed call
// leaves the caller's objects unchanged.
//
// # Reads
//
// GetOrders builds one query:
//
//	SELECT o.*, h.*, v.*
//	FROM (SELECT o.id AS order_id FROM order o
//	      WHERE ... ORDER BY o.id DESC LIMIT n OFFSET m) AS page
//	JOIN order o ON o.id = page.order_id
//	LEFT JOIN host h ON h.order_id = o.id
//	LEFT JOIN variable v ON v.host_id = h.id
//	ORDER BY o.id DESC, h.id ASC, v.id ASC
//
// Pagination is applied to order ids before the join, so a page always holds
// whole orders. RowGrouper folds the rows back into orders in one pass.
//
// List Options:
//
//	orders, err := s.Orders().GetOrders(ctx,
//	    store.ByService("backup", "restore"),
//	    store.ByStatus("new"),
//	    store.WithLimit(50),
//	    store.WithOffset(100),
//	)
//
//   - ByID, ByService, ByStatus
//     Several values of one option are ORed, different options are ANDed.
//
//   - WithLimit, WithOffset
//     Count orders. A limit of 0 means no limit.
//
//   - Shallow
//     Loads order rows only.
//
// # Concurrency
//
// Writes take the process-wide Guard. The guard is reentrant through the
// context returned by Acquire, so nested write helpers never deadlock.
// Reads take no lock.
package store
