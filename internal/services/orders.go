package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/exscriptd/orderdb/internal/models"
	"github.com/exscriptd/orderdb/internal/store"
	srvErrors "github.com/exscriptd/orderdb/pkg/errors"
	"github.com/exscriptd/orderdb/pkg/scheduler"
)

// OrderService runs store calls on the shared scheduler so that the number of
// concurrent database calls stays bounded.
type OrderService struct {
	store     *store.Store
	scheduler *scheduler.Scheduler
}

func NewOrderService(st *store.Store, s *scheduler.Scheduler) *OrderService {
	return &OrderService{store: st, scheduler: s}
}

type OrderListParams struct {
	IDs      []int64
	Services []string
	Statuses []string
	Shallow  bool
	Limit    uint64
	Offset   uint64
}

type OrderListResult struct {
	Orders []*models.Order
	// Total counts all orders matching the filters, ignoring pagination.
	Total int
}

func (s *OrderService) List(ctx context.Context, params OrderListParams) (*OrderListResult, error) {
	return scheduler.Run(ctx, s.scheduler, func(ctx context.Context) (*OrderListResult, error) {
		orders, err := s.store.Orders().GetOrders(ctx, s.buildListOptions(params)...)
		if err != nil {
			return nil, err
		}

		// Get total count without pagination
		total, err := s.store.Orders().CountOrders(ctx, s.buildListOptions(OrderListParams{
			IDs:      params.IDs,
			Services: params.Services,
			Statuses: params.Statuses,
		})...)
		if err != nil {
			return nil, err
		}

		return &OrderListResult{Orders: orders, Total: total}, nil
	})
}

// Get returns the order with the given id or a ResourceNotFoundError.
func (s *OrderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	if id <= 0 {
		return nil, srvErrors.NewInvalidArgumentErrorf("id", "must be positive, got %d", id)
	}
	return scheduler.Run(ctx, s.scheduler, func(ctx context.Context) (*models.Order, error) {
		order, err := s.store.Orders().GetOrder(ctx, store.ByID(id))
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, srvErrors.NewOrderNotFoundError(id)
		}
		return order, nil
	})
}

func (s *OrderService) Count(ctx context.Context, params OrderListParams) (int, error) {
	return scheduler.Run(ctx, s.scheduler, func(ctx context.Context) (int, error) {
		return s.store.Orders().CountOrders(ctx, s.buildListOptions(params)...)
	})
}

// CloseOpen stamps a closed time into every open order.
func (s *OrderService) CloseOpen(ctx context.Context) (int64, error) {
	n, err := scheduler.Run(ctx, s.scheduler, func(ctx context.Context) (int64, error) {
		return s.store.Orders().CloseOpenOrders(ctx)
	})
	if err != nil {
		return 0, err
	}
	zap.S().Named("order_service").Infow("open orders closed", "count", n)
	return n, nil
}

func (s *OrderService) buildListOptions(params OrderListParams) []store.ListOption {
	var opts []store.ListOption

	if len(params.IDs) > 0 {
		opts = append(opts, store.ByID(params.IDs...))
	}
	if len(params.Services) > 0 {
		opts = append(opts, store.ByService(params.Services...))
	}
	if len(params.Statuses) > 0 {
		opts = append(opts, store.ByStatus(params.Statuses...))
	}
	if params.Shallow {
		opts = append(opts, store.Shallow())
	}
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	return opts
}
