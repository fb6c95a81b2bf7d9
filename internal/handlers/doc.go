// Package handlers implements the HTTP API layer of orderdb.
//
// Handlers delegate to the services layer and focus on parameter parsing,
// error mapping to HTTP status codes and model-to-API conversion.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Parameter parsing                                            │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion (api/v1)                             │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                   OrderService (services)                       │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
// All routes live under /api/v1:
//
//	┌────────┬──────────────────┬───────────────────────────────────────┐
//	│ Method │ Endpoint         │ Description                           │
//	├────────┼──────────────────┼───────────────────────────────────────┤
//	│ GET    │ /orders          │ List orders with filtering/pagination │
//	│ GET    │ /orders/{id}     │ Get one order with hosts              │
//	│ GET    │ /orders/count    │ Count orders matching the filters     │
//	│ GET    │ /orders/export   │ Download matching orders as XLSX      │
//	│ POST   │ /orders/close    │ Close every open order                │
//	└────────┴──────────────────┴───────────────────────────────────────┘
//
// Query Parameters (list, count and export):
//
//	┌────────────┬──────────┬─────────────────────────────────────────┐
//	│ Parameter  │ Type     │ Description                             │
//	├────────────┼──────────┼─────────────────────────────────────────┤
//	│ id         │ []int64  │ Filter by order id (OR logic)           │
//	│ service    │ []string │ Filter by service name (OR logic)       │
//	│ status     │ []string │ Filter by status (OR logic)             │
//	│ shallow    │ bool     │ List only: skip hosts and variables     │
//	│ page       │ int      │ List only: page number (default: 1)     │
//	│ pageSize   │ int      │ List only: default 20, max 100          │
//	└────────────┴──────────┴─────────────────────────────────────────┘
//
// Different parameters are ANDed.
//
// Example: /orders?service=backup&service=restore&status=new&page=2
//
// Response:
//
//	{
//	    "page": 2,
//	    "pageCount": 3,
//	    "total": 45,
//	    "orders": [
//	        {
//	            "id": 42,
//	            "service": "backup",
//	            "status": "new",
//	            "created": "2024-03-01T12:30:00Z",
//	            "createdBy": "admin",
//	            "hosts": [
//	                {"id": 7, "address": "10.0.0.1", "name": "r1", "variables": {"vlan": 10}}
//	            ]
//	        }
//	    ]
//	}
//
// # Errors
//
//   - 400 Bad Request: malformed parameters, InvalidArgumentError
//   - 404 Not Found: ResourceNotFoundError
//   - 500 Internal Server Error: anything else, logged with zap
package handlers
