package v1

import (
	"github.com/exscriptd/orderdb/internal/models"
)

// NewOrderFromModel converts a models.Order to an API Order.
func NewOrderFromModel(o *models.Order) Order {
	apiOrder := Order{
		Id:        o.ID,
		Service:   o.Service,
		Status:    o.Status,
		Created:   o.Created,
		Closed:    o.Closed,
		CreatedBy: o.CreatedBy,
		Hosts:     make([]Host, 0, len(o.Hosts)),
	}

	for _, h := range o.Hosts {
		apiOrder.Hosts = append(apiOrder.Hosts, Host{
			Id:        h.ID,
			Address:   h.Address(),
			Name:      h.Name(),
			Variables: h.All(),
		})
	}

	return apiOrder
}

// NewOrderListFromModel converts a page of orders.
func NewOrderListFromModel(orders []*models.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderFromModel(o))
	}
	return out
}
