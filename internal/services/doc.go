// Package services implements the business logic layer of orderdb.
//
// Services sit between the HTTP handlers (and the CLI) and the store. Every
// store call goes through the shared scheduler, so the number of concurrent
// database calls never exceeds the worker count and callers can bound their
// wait with a context.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints) / CLI
//	    │
//	    ▼
//	OrderService ──► Scheduler ──► Store
//
// # OrderService
//
//	┌────────────┬───────────────────────────────────────────────────────┐
//	│ Method     │ Behaviour                                             │
//	├────────────┼───────────────────────────────────────────────────────┤
//	│ List       │ One page of orders plus the total matching count      │
//	│ Get        │ One order by id, ResourceNotFoundError if missing     │
//	│ Count      │ Orders matching the filters                           │
//	│ CloseOpen  │ Stamps a closed time into every open order            │
//	│ Export     │ XLSX workbook with an Orders and a Hosts sheet        │
//	└────────────┴───────────────────────────────────────────────────────┘
//
// Filters in OrderListParams follow the store semantics: several values of
// one field are ORed, different fields are ANDed. Limit and Offset count
// orders; a Limit of 0 means no limit.
package services
