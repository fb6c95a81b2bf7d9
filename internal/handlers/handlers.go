package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/exscriptd/orderdb/api/v1"
	"github.com/exscriptd/orderdb/internal/services"
	srvErrors "github.com/exscriptd/orderdb/pkg/errors"
)

type Handler struct {
	orderSrv *services.OrderService
}

func New(orderSrv *services.OrderService) *Handler {
	return &Handler{
		orderSrv: orderSrv,
	}
}

// RegisterHandlers mounts the order routes on router.
func RegisterHandlers(router *gin.RouterGroup, h *Handler) {
	router.GET("/orders", h.GetOrders)
	router.GET("/orders/count", h.CountOrders)
	router.GET("/orders/export", h.ExportOrders)
	router.GET("/orders/:id", h.GetOrder)
	router.POST("/orders/close", h.CloseOpenOrders)
}

// respondError maps service errors to status codes.
func respondError(c *gin.Context, logName, msg string, err error) {
	switch {
	case srvErrors.IsResourceNotFoundError(err):
		c.JSON(http.StatusNotFound, v1.ErrorResponse{Error: err.Error()})
	case srvErrors.IsInvalidArgumentError(err):
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: err.Error()})
	default:
		zap.S().Named(logName).Errorw(msg, "error", err)
		c.JSON(http.StatusInternalServerError, v1.ErrorResponse{Error: msg})
	}
}
