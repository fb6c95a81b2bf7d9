// Package v1 holds the JSON types of the orderdb HTTP API.
package v1

import "time"

type Order struct {
	Id        int64      `json:"id"`
	Service   string     `json:"service"`
	Status    string     `json:"status"`
	Created   time.Time  `json:"created"`
	Closed    *time.Time `json:"closed,omitempty"`
	CreatedBy string     `json:"createdBy"`
	Hosts     []Host     `json:"hosts"`
}

type Host struct {
	Id        int64          `json:"id"`
	Address   string         `json:"address"`
	Name      string         `json:"name"`
	Variables map[string]any `json:"variables"`
}

type OrderListResponse struct {
	Page      int     `json:"page"`
	PageCount int     `json:"pageCount"`
	Total     int     `json:"total"`
	Orders    []Order `json:"orders"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type CloseResponse struct {
	Closed int64 `json:"closed"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// GetOrdersParams are the query parameters of GET /orders.
type GetOrdersParams struct {
	Page     *int     `form:"page"`
	PageSize *int     `form:"pageSize"`
	Ids      []int64  `form:"id"`
	Services []string `form:"service"`
	Statuses []string `form:"status"`
	Shallow  bool     `form:"shallow"`
}
