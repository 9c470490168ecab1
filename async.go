package nslsolver

import "context"

// Future is the pending result of an asynchronous call.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func runAsync[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn()
	}()
	return f
}

// Done is closed once the call has completed.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the call completes and returns its result.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// Await is like Wait but gives up when ctx is done. Giving up does not
// cancel the underlying call; cancel the context passed to the Async method
// for that.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// SolveTurnstileAsync runs SolveTurnstileContext on a new goroutine.
func (c *Client) SolveTurnstileAsync(ctx context.Context, params TurnstileParams) *Future[*TurnstileResult] {
	return runAsync(func() (*TurnstileResult, error) {
		return c.SolveTurnstileContext(ctx, params)
	})
}

// SolveChallengeAsync runs SolveChallengeContext on a new goroutine.
func (c *Client) SolveChallengeAsync(ctx context.Context, params ChallengeParams) *Future[*ChallengeResult] {
	return runAsync(func() (*ChallengeResult, error) {
		return c.SolveChallengeContext(ctx, params)
	})
}

// GetBalanceAsync runs GetBalanceContext on a new goroutine.
func (c *Client) GetBalanceAsync(ctx context.Context) *Future[*BalanceResult] {
	return runAsync(func() (*BalanceResult, error) {
		return c.GetBalanceContext(ctx)
	})
}
