// Package scheduler implements a worker pool for executing async work with futures.
//
// The scheduler manages a fixed pool of workers. Work is submitted via
// AddWork or AddWorkContext and returns a Future that delivers exactly one
// Result. Run wraps both for the common "submit and wait" case and is what
// the order service uses to bound the number of concurrent store calls.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                           Scheduler                                 │
//	│                                                                     │
//	│  ┌──────────────┐      ┌──────────────┐      ┌──────────────┐       │
//	│  │   Worker 1   │      │   Worker 2   │      │   Worker N   │       │
//	│  └──────────────┘      └──────────────┘      └──────────────┘       │
//	│         ▲                     ▲                     ▲               │
//	│         └─────────────────────┼─────────────────────┘               │
//	│                        ┌──────┴──────┐                              │
//	│                        │  dispatch() │                              │
//	│                        └──────┬──────┘                              │
//	│  ┌────────────────────────────┴────────────────────────────┐        │
//	│  │                      Work Queue                         │        │
//	│  └─────────────────────────────────────────────────────────┘        │
//	│                               ▲                                     │
//	│                  AddWork / AddWorkContext / Run                     │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Cancellation
//
// The context handed to a work function is cancelled when any of these
// happens:
//   - future.Stop() is called
//   - the context passed to AddWorkContext or Run is done
//   - scheduler.Close() is called
//
// Values stored in the submitting context are visible to the work function.
//
// # Usage
//
//	s := scheduler.NewScheduler(4)
//	defer s.Close()
//
//	orders, err := scheduler.Run(ctx, s, func(ctx context.Context) ([]*models.Order, error) {
//	    return st.Orders().GetOrders(ctx, store.WithLimit(20))
//	})
//
// # Shutdown
//
// Close cancels all running work, fails queued work with context.Canceled and
// waits for in-flight work functions to return. AddWork after Close returns
// a future that already holds context.Canceled.
//
// # Panic Recovery
//
// A panicking work function is logged and reported to its future as an
// error. The worker returns to the pool.
package scheduler
