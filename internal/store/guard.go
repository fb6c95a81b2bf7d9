package store

import (
	"context"
	"sync"
)

var (
	processGuard     *Guard
	processGuardOnce sync.Once
)

// ProcessGuard returns the guard shared by every store in the process. It is
// created on first use and lives as long as the process.
func ProcessGuard() *Guard {
	processGuardOnce.Do(func() {
		processGuard = NewGuard()
	})
	return processGuard
}

// Guard serializes the write path of the store. Single-file engines reject
// concurrent writers; queuing on the guard turns that into blocking.
//
// The guard is reentrant through the context: Acquire records ownership in
// the returned context, and a later Acquire with that context (or one derived
// from it) does not lock again. The owning context must not be shared with
// other goroutines.
type Guard struct {
	mu sync.Mutex
}

type guardKey struct {
	g *Guard
}

func NewGuard() *Guard {
	return &Guard{}
}

// Acquire locks the guard unless ctx already holds it. The returned release
// func is safe to call more than once.
func (g *Guard) Acquire(ctx context.Context) (context.Context, func()) {
	if g.Held(ctx) {
		return ctx, func() {}
	}
	g.mu.Lock()
	return context.WithValue(ctx, guardKey{g}, struct{}{}), sync.OnceFunc(g.mu.Unlock)
}

// Held reports whether ctx carries ownership of the guard.
func (g *Guard) Held(ctx context.Context) bool {
	return ctx.Value(guardKey{g}) != nil
}
