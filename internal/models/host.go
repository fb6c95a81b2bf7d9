package models

import (
	"maps"
	"slices"
)

// Host is a target device of an order together with its variables.
//
// Every mutation marks the host dirty. The store only writes dirty hosts and
// calls Untouch once the host matches storage.
type Host struct {
	ID      int64
	OrderID int64

	name    string
	address string
	vars    map[string]any
	dirty   bool
}

// NewHost creates a dirty host whose address defaults to its name.
func NewHost(name string) *Host {
	return &Host{
		name:    name,
		address: name,
		vars:    map[string]any{},
		dirty:   true,
	}
}

func (h *Host) Name() string {
	return h.name
}

func (h *Host) SetName(name string) {
	h.name = name
	h.dirty = true
}

func (h *Host) Address() string {
	return h.address
}

func (h *Host) SetAddress(address string) {
	h.address = address
	h.dirty = true
}

func (h *Host) Set(name string, value any) {
	if h.vars == nil {
		h.vars = map[string]any{}
	}
	h.vars[name] = value
	h.dirty = true
}

func (h *Host) Get(name string) (any, bool) {
	v, ok := h.vars[name]
	return v, ok
}

// All returns a copy of the host variables.
func (h *Host) All() map[string]any {
	out := make(map[string]any, len(h.vars))
	maps.Copy(out, h.vars)
	return out
}

// VariableNames returns the variable names in sorted order.
func (h *Host) VariableNames() []string {
	return slices.Sorted(maps.Keys(h.vars))
}

func (h *Host) IsDirty() bool {
	return h.dirty
}

func (h *Host) Untouch() {
	h.dirty = false
}
