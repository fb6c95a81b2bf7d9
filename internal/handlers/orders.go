package handlers

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/exscriptd/orderdb/api/v1"
	"github.com/exscriptd/orderdb/internal/services"
	srvErrors "github.com/exscriptd/orderdb/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxPage keeps (page-1)*pageSize within int.
	maxPage = math.MaxInt / maxPageSize

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// GetOrders returns orders with filtering and pagination
// (GET /orders)
func (h *Handler) GetOrders(c *gin.Context) {
	var params v1.GetOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: err.Error()})
		return
	}

	// Parse pagination
	page := 1
	if params.Page != nil && *params.Page > 0 {
		page = min(*params.Page, maxPage)
	}
	pageSize := defaultPageSize
	if params.PageSize != nil && *params.PageSize > 0 {
		pageSize = *params.PageSize
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}

	svcParams := services.OrderListParams{
		IDs:      params.Ids,
		Services: params.Services,
		Statuses: params.Statuses,
		Shallow:  params.Shallow,
		Limit:    uint64(pageSize),
		Offset:   uint64((page - 1) * pageSize),
	}

	result, err := h.orderSrv.List(c.Request.Context(), svcParams)
	if err != nil {
		respondError(c, "order_handler", "failed to list orders", err)
		return
	}

	// Calculate page count
	pageCount := (result.Total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	c.JSON(http.StatusOK, v1.OrderListResponse{
		Page:      page,
		PageCount: pageCount,
		Total:     result.Total,
		Orders:    v1.NewOrderListFromModel(result.Orders),
	})
}

// GetOrder returns one order with its hosts
// (GET /orders/{id})
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, "order_handler", "invalid order id", srvErrors.NewInvalidArgumentErrorf("id", "%q is not a number", c.Param("id")))
		return
	}

	order, err := h.orderSrv.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "order_handler", "failed to get order", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewOrderFromModel(order))
}

// CountOrders returns the number of orders matching the filters
// (GET /orders/count)
func (h *Handler) CountOrders(c *gin.Context) {
	var params v1.GetOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: err.Error()})
		return
	}

	count, err := h.orderSrv.Count(c.Request.Context(), services.OrderListParams{
		IDs:      params.Ids,
		Services: params.Services,
		Statuses: params.Statuses,
	})
	if err != nil {
		respondError(c, "order_handler", "failed to count orders", err)
		return
	}

	c.JSON(http.StatusOK, v1.CountResponse{Count: count})
}

// CloseOpenOrders stamps a closed time into every open order
// (POST /orders/close)
func (h *Handler) CloseOpenOrders(c *gin.Context) {
	n, err := h.orderSrv.CloseOpen(c.Request.Context())
	if err != nil {
		respondError(c, "order_handler", "failed to close orders", err)
		return
	}

	c.JSON(http.StatusOK, v1.CloseResponse{Closed: n})
}

// ExportOrders returns the matching orders as an XLSX workbook
// (GET /orders/export)
func (h *Handler) ExportOrders(c *gin.Context) {
	var params v1.GetOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: err.Error()})
		return
	}

	var buf bytes.Buffer
	err := h.orderSrv.Export(c.Request.Context(), &buf, services.OrderListParams{
		IDs:      params.Ids,
		Services: params.Services,
		Statuses: params.Statuses,
	})
	if err != nil {
		respondError(c, "order_handler", "failed to export orders", err)
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
