package scheduler

import (
	"context"
	"fmt"
	"sync"
)

// Work is one unit of work. Its context is cancelled when the future is
// stopped, when the context given to AddWorkContext is done or when the
// scheduler closes.
type Work[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

// As converts an untyped result to T. A nil Data gives the zero T.
func As[T any](r Result[any]) (T, error) {
	var zero T
	if r.Err != nil {
		return zero, r.Err
	}
	if r.Data == nil {
		return zero, nil
	}
	v, ok := r.Data.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected result type %T", r.Data)
	}
	return v, nil
}

// Future delivers exactly one value on C.
type Future[T any] struct {
	result <-chan T
	stop   func()
	once   sync.Once
}

func newFuture[T any](result <-chan T, stop func()) *Future[T] {
	return &Future[T]{
		result: result,
		stop:   stop,
	}
}

func (f *Future[T]) C() <-chan T {
	return f.result
}

// Stop cancels the work context and unlinks it from the scheduler. Calling
// it more than once has no further effect.
func (f *Future[T]) Stop() {
	f.once.Do(f.stop)
}
