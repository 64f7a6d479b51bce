package compose

import (
	"context"
	"sync"
)

// Future is a Deferred value resolved once, possibly from another
// goroutine.
type Future struct {
	done  chan struct{}
	once  sync.Once
	value any
}

// NewFuture creates an unresolved future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Ready creates a future resolved with v.
func Ready(v any) *Future {
	f := NewFuture()
	f.Resolve(v)
	return f
}

// Go calls fn in a new goroutine, and resolves the returned future with its
// result. When fn returns an error, the future resolves with a Failure.
func Go(fn func() (any, error)) *Future {
	f := NewFuture()
	go func() {
		v, err := fn()
		if err != nil {
			f.Fail(err)
			return
		}

		f.Resolve(v)
	}()

	return f
}

// Resolve sets the value of the future. Only the first call has an effect.
func (f *Future) Resolve(v any) {
	f.once.Do(func() {
		f.value = v
		close(f.done)
	})
}

// Fail resolves the future with a Failure.
func (f *Future) Fail(err error) {
	f.Resolve(Failure{Err: err})
}

func (f *Future) Poll() (any, bool) {
	select {
	case <-f.done:
		return f.value, true
	default:
		return nil, false
	}
}

func (f *Future) Done() <-chan struct{} { return f.done }

// Host drives the composition of a root value, waiting for the pending
// values in between.
type Host struct {

	// OnSuspend, when set, is called every time the composition stops on a
	// pending value.
	OnSuspend func(Deferred)
}

// Wait composes root until it is fully materialized, or ctx is done.
func (h Host) Wait(ctx context.Context, root any) (any, error) {
	for {
		v, pending := Compose(root)
		if pending == nil {
			return v, nil
		}

		if h.OnSuspend != nil {
			h.OnSuspend(pending)
		}

		select {
		case <-pending.Done():
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Wait composes root with a default host.
func Wait(ctx context.Context, root any) (any, error) {
	return Host{}.Wait(ctx, root)
}
