package async

import (
	"context"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await waits for the computation or for ctx to be done, whichever comes first.
func (f *Future[U]) Await(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout waits at most timeout and returns ErrTimeout when it elapses first.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the computation has finished without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async executes fn(ctx, param) in a new goroutine.
// A context that is already done short-circuits fn.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// WaitAll waits for the futures in order and returns on the first error.
func WaitAll[U any](ctx context.Context, futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await(ctx)
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// Result is the outcome of one future collected by Settle.
type Result[U any] struct {
	Index int
	Value U
	Err   error
}

// Settle waits for every future and returns their outcomes in input order.
// Futures still running when ctx is done report ctx.Err().
func Settle[U any](ctx context.Context, futures ...*Future[U]) []Result[U] {
	results := make([]Result[U], len(futures))
	for i, future := range futures {
		v, err := future.Await(ctx)
		results[i] = Result[U]{Index: i, Value: v, Err: err}
	}
	return results
}
