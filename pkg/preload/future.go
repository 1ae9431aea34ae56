package preload

import (
	"context"
	"sync"
)

// Outcome is the terminal state of a preload.
type Outcome int

const (
	// Ready means the resource was fetched and decoded.
	Ready Outcome = iota
	// Failed means the resource was abandoned (fetch error, decode error or deadline).
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what a Future resolves to.
type Result struct {
	URL     string
	Outcome Outcome
	// Err is set when Outcome is Failed.
	Err error
}

// OK reports whether the resource is ready.
func (r Result) OK() bool {
	return r.Outcome == Ready
}

// Future is the pending result of a Preload call. It resolves exactly once.
type Future struct {
	done chan struct{}
	once sync.Once
	res  Result
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(res Result) {
	f.once.Do(func() {
		f.res = res
		close(f.done)
	})
}

// Done returns a channel that is closed once the Future resolves.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the Future resolves or ctx is done. A ctx error only
// means the caller stopped waiting; the underlying fetch keeps running.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Result returns the resolved Result without blocking.
// The second return value is false while the Future is unresolved.
func (f *Future) Result() (Result, bool) {
	select {
	case <-f.done:
		return f.res, true
	default:
		return Result{}, false
	}
}

// waiter is one caller attached to a request.
type waiter struct {
	future     *Future
	onComplete func(Result)
}

// notify runs the caller's callback and then resolves its future.
func (w *waiter) notify(res Result) {
	if w.onComplete != nil {
		w.onComplete(res)
	}
	w.future.resolve(res)
}
