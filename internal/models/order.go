package models

import "time"

// Order is the root of the order aggregate. It owns its hosts.
type Order struct {
	// ID is assigned by the store on first insert. Zero means the order has
	// never been stored.
	ID        int64
	Service   string
	Status    string
	Created   time.Time
	Closed    *time.Time
	CreatedBy string
	Hosts     []*Host
}

func NewOrder(service string) *Order {
	return &Order{Service: service}
}

func (o *Order) AddHost(h *Host) {
	o.Hosts = append(o.Hosts, h)
}

// Host returns the host with the given address, or nil.
func (o *Order) Host(address string) *Host {
	for _, h := range o.Hosts {
		if h.Address() == address {
			return h
		}
	}
	return nil
}

func (o *Order) IsClosed() bool {
	return o.Closed != nil
}
