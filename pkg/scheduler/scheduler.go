package scheduler

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type queue[T any] []T

func (wq *queue[T]) Len() int { return len(*wq) }

func (wq *queue[T]) Pop() T {
	old := *wq
	x := old[0]
	*wq = old[1:]
	return x
}

func (wq *queue[T]) Push(t T) {
	*wq = append(*wq, t)
}

type workRequest struct {
	fn  Work[any]
	c   chan Result[any]
	ctx context.Context
}

type worker struct {
	done chan any
	wg   *sync.WaitGroup
}

func (w worker) Work(r workRequest) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.S().Named("scheduler").Errorw("work panicked", "panic", rec)
			r.c <- Result[any]{Err: fmt.Errorf("worker panicked: %v", rec)}
		}
		w.done <- struct{}{}
		w.wg.Done()
	}()

	v, err := r.fn(r.ctx)
	r.c <- Result[any]{Data: v, Err: err}
}

func newWorker(done chan any, wg *sync.WaitGroup) worker {
	return worker{done: done, wg: wg}
}

// Scheduler runs work on a fixed number of workers. Work that arrives while
// every worker is busy waits in a FIFO queue.
type Scheduler struct {
	workers    *queue[worker]
	workQueue  *queue[workRequest]
	close      chan any
	stopped    chan any
	done       chan any
	work       chan workRequest
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewScheduler(nbWorkers int) *Scheduler {
	if nbWorkers < 1 {
		nbWorkers = 1
	}
	done := make(chan any, nbWorkers)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		workers:    &queue[worker]{},
		workQueue:  &queue[workRequest]{},
		close:      make(chan any),
		stopped:    make(chan any),
		done:       done,
		work:       make(chan workRequest),
		mainCtx:    ctx,
		mainCancel: cancel,
	}
	for range nbWorkers {
		s.workers.Push(newWorker(done, &s.wg))
	}
	go s.run()
	return s
}

// AddWork queues w. The work context is cancelled by Future.Stop or Close.
func (s *Scheduler) AddWork(w Work[any]) *Future[Result[any]] {
	return s.AddWorkContext(context.Background(), w)
}

// AddWorkContext queues w with a work context that is also cancelled when
// ctx is done. Values of ctx are visible to w.
func (s *Scheduler) AddWorkContext(ctx context.Context, w Work[any]) *Future[Result[any]] {
	c := make(chan Result[any], 1)

	workCtx, cancel := context.WithCancel(ctx)
	stopMain := context.AfterFunc(s.mainCtx, cancel)
	stop := func() {
		stopMain()
		cancel()
	}

	select {
	case <-s.mainCtx.Done():
		// we're closing here so send a result with an error
		c <- Result[any]{Err: context.Canceled}
	case s.work <- workRequest{w, c, workCtx}:
	}

	return newFuture(c, stop)
}

func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.mainCancel()
		s.close <- struct{}{}
		<-s.stopped
	})
}

func (s *Scheduler) run() {
	defer close(s.stopped)
	for {
		select {
		case w := <-s.work:
			s.workQueue.Push(w)
			s.dispatch()
		case <-s.done:
			s.workers.Push(newWorker(s.done, &s.wg))
			s.dispatch()
		case <-s.close:
			s.drain()
			s.wg.Wait()
			return
		}
	}
}

// drain fails queued work that never got a worker.
func (s *Scheduler) drain() {
	for s.workQueue.Len() > 0 {
		r := s.workQueue.Pop()
		r.c <- Result[any]{Err: context.Canceled}
	}
}

// dispatch drains the workQueue as much as possible
// based on available workers
func (s *Scheduler) dispatch() {
	for s.workers.Len() > 0 && s.workQueue.Len() > 0 {
		r := s.workQueue.Pop()
		worker := s.workers.Pop()
		s.wg.Add(1)
		go worker.Work(r)
	}
}

// Run submits fn and waits for its result. When ctx is done first the work
// is stopped and ctx.Err() is returned.
func Run[T any](ctx context.Context, s *Scheduler, fn Work[T]) (T, error) {
	var zero T

	future := s.AddWorkContext(ctx, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	defer future.Stop()

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-future.C():
		return As[T](r)
	}
}
