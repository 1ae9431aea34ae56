package preload

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFuture_ResolveOnce(t *testing.T) {
	f := newFuture()
	if _, ok := f.Result(); ok {
		t.Fatal("expected unresolved future")
	}
	f.resolve(Result{URL: "a", Outcome: Ready})
	f.resolve(Result{URL: "a", Outcome: Failed, Err: errors.New("late")})

	res, ok := f.Result()
	if !ok {
		t.Fatal("expected resolved future")
	}
	if res.Outcome != Ready || res.Err != nil {
		t.Fatalf("expected first resolution to win, got %+v", res)
	}
	select {
	case <-f.Done():
	default:
		t.Fatal("expected Done to be closed")
	}
}

func TestFuture_WaitContextCanceled(t *testing.T) {
	f := newFuture()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	// the future is unaffected by the caller giving up
	f.resolve(Result{URL: "a"})
	res, err := f.Wait(context.Background())
	if err != nil || !res.OK() {
		t.Fatalf("expected ready after resolve, got %+v / %v", res, err)
	}
}

func TestWaiter_CallbackBeforeResolve(t *testing.T) {
	f := newFuture()
	var resolvedDuringCallback bool
	w := &waiter{
		future: f,
		onComplete: func(Result) {
			_, resolvedDuringCallback = f.Result()
		},
	}
	w.notify(Result{URL: "a"})
	if resolvedDuringCallback {
		t.Fatal("expected onComplete to run before the future resolves")
	}
	if _, ok := f.Result(); !ok {
		t.Fatal("expected future to be resolved after notify")
	}
}

func TestOutcome_String(t *testing.T) {
	tests := map[Outcome]string{
		Ready:       "ready",
		Failed:      "failed",
		Outcome(42): "unknown",
	}
	for o, want := range tests {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q; want %q", int(o), got, want)
		}
	}
}
