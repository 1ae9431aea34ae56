package preload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/warpdl/imgwarm/pkg/logger"
)

// DEF_MAX_CONCURRENT keeps a batch below the browser's per-host connection
// limit while still overlapping fetches.
const DEF_MAX_CONCURRENT = 3

// SchedulerOpts configures a Scheduler. The zero value is valid.
type SchedulerOpts struct {
	// MaxConcurrent is the concurrency ceiling. Values < 1 use DEF_MAX_CONCURRENT.
	MaxConcurrent int
	// Timeout is the default per-request deadline. Zero disables it.
	Timeout time.Duration
	// Fetcher performs the fetches. Nil uses a SchemeRouter over http.DefaultClient.
	Fetcher Fetcher
	// Handlers receive scheduler-wide events.
	Handlers *Handlers
	// Logger receives failures and fetcher panics. Nil discards.
	Logger logger.Logger
	// StartPaused creates the scheduler paused; nothing is fetched until Resume.
	StartPaused bool
}

// Stats is a point-in-time view of the scheduler.
type Stats struct {
	MaxConcurrent int    `json:"maxConcurrent"`
	Active        int    `json:"active"`
	Pending       int    `json:"pending"`
	Completed     int    `json:"completed"`
	ReadyTotal    uint64 `json:"readyTotal"`
	FailedTotal   uint64 `json:"failedTotal"`
	Paused        bool   `json:"paused"`
}

// Scheduler owns the pending queue, the in-flight set and the completed set.
// It is safe for concurrent use.
type Scheduler struct {
	maxConcurrent int
	timeout       time.Duration
	fetcher       Fetcher
	handlers      *Handlers
	l             logger.Logger

	mu          sync.Mutex
	pending     *pendingQueue
	inFlight    map[string]*entry
	completed   map[string]struct{}
	paused      bool
	seq         uint64
	readyTotal  uint64
	failedTotal uint64
}

// NewScheduler creates a Scheduler. opts may be nil.
func NewScheduler(opts *SchedulerOpts) *Scheduler {
	if opts == nil {
		opts = &SchedulerOpts{}
	}
	s := &Scheduler{
		maxConcurrent: opts.MaxConcurrent,
		timeout:       opts.Timeout,
		fetcher:       opts.Fetcher,
		l:             opts.Logger,
		pending:       newPendingQueue(),
		inFlight:      make(map[string]*entry),
		completed:     make(map[string]struct{}),
		paused:        opts.StartPaused,
	}
	if s.maxConcurrent < 1 {
		s.maxConcurrent = DEF_MAX_CONCURRENT
	}
	if s.fetcher == nil {
		s.fetcher = NewSchemeRouter(nil, nil)
	}
	if s.l == nil {
		s.l = logger.NewNopLogger()
	}
	h := Handlers{}
	if opts.Handlers != nil {
		h = *opts.Handlers
	}
	h.setDefault(s.l)
	s.handlers = &h
	return s
}

var (
	defaultOnce      sync.Once
	defaultScheduler *Scheduler
)

// Default returns the process-wide Scheduler, creating it with default
// options on first use. It is never reset. Code that can take a *Scheduler
// as a dependency should do so instead.
func Default() *Scheduler {
	defaultOnce.Do(func() {
		defaultScheduler = NewScheduler(nil)
	})
	return defaultScheduler
}

// Preload requests url at the given priority. onComplete may be nil.
//
// A url that already loaded resolves synchronously with no fetch. A url that
// is queued or in flight is not fetched again; the caller is attached to the
// existing request and receives its outcome. A queued request asked for at a
// higher priority is promoted.
func (s *Scheduler) Preload(url string, priority int, onComplete func(Result)) *Future {
	return s.PreloadRequest(Request{
		URL:        url,
		Priority:   priority,
		OnComplete: onComplete,
	})
}

// PreloadRequest is Preload with the full set of request options.
func (s *Scheduler) PreloadRequest(req Request) *Future {
	s.mu.Lock()
	w, immediate := s.admitLocked(req)
	started := s.drainLocked()
	s.mu.Unlock()

	s.launch(started)
	if immediate != nil {
		w.notify(*immediate)
	}
	return w.future
}

// PreloadBatch admits every request before draining once, so the order in
// which the batch starts depends only on priority and position.
func (s *Scheduler) PreloadBatch(reqs []Request) []*Future {
	futures := make([]*Future, len(reqs))
	type settled struct {
		w   *waiter
		res Result
	}
	var now []settled

	s.mu.Lock()
	for i, req := range reqs {
		w, immediate := s.admitLocked(req)
		futures[i] = w.future
		if immediate != nil {
			now = append(now, settled{w, *immediate})
		}
	}
	started := s.drainLocked()
	s.mu.Unlock()

	s.launch(started)
	for _, st := range now {
		st.w.notify(st.res)
	}
	return futures
}

// admitLocked registers req. It returns the caller's waiter and, when the
// outcome is already known, the Result to deliver once the lock is released.
func (s *Scheduler) admitLocked(req Request) (*waiter, *Result) {
	w := &waiter{future: newFuture(), onComplete: req.OnComplete}
	if req.URL == "" {
		return w, &Result{Outcome: Failed, Err: ErrEmptyURL}
	}
	if _, ok := s.completed[req.URL]; ok {
		return w, &Result{URL: req.URL, Outcome: Ready}
	}
	if e, ok := s.inFlight[req.URL]; ok {
		e.waiters = append(e.waiters, w)
		return w, nil
	}
	if e, ok := s.pending.get(req.URL); ok {
		e.waiters = append(e.waiters, w)
		s.pending.promote(e, req.Priority)
		return w, nil
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = s.timeout
	}
	s.seq++
	s.pending.push(&entry{
		url:      req.URL,
		priority: req.Priority,
		seq:      s.seq,
		timeout:  timeout,
		waiters:  []*waiter{w},
	})
	return w, nil
}

// drainLocked moves entries from the head of the queue into flight until
// the queue is empty or every slot is taken. The caller must launch the
// returned entries after releasing the lock.
func (s *Scheduler) drainLocked() []*entry {
	if s.paused {
		return nil
	}
	var started []*entry
	for len(s.inFlight) < s.maxConcurrent {
		e := s.pending.pop()
		if e == nil {
			break
		}
		s.inFlight[e.url] = e
		started = append(started, e)
	}
	return started
}

func (s *Scheduler) launch(started []*entry) {
	for _, e := range started {
		s.handlers.StartHandler(e.url, e.priority)
		go s.run(e)
	}
}

// run fetches e and settles it. A deadline frees the slot even when the
// fetcher ignores ctx; its goroutine is left to finish on its own.
func (s *Scheduler) run(e *entry) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if e.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), e.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	defer cancel()

	errc := make(chan error, 1)
	start := time.Now()
	safeGo(s.l, "fetch "+e.url, func(r interface{}) {
		errc <- fmt.Errorf("%w: %v", ErrFetcherPanicked, r)
	}, func() {
		errc <- s.fetcher.Fetch(ctx, e.url)
	})

	err := awaitFetch(ctx, errc, e)
	s.settle(e, err, time.Since(start))
}

// awaitFetch waits for the fetch result or the deadline, whichever comes
// first. A result that is already available when the deadline fires wins.
func awaitFetch(ctx context.Context, errc <-chan error, e *entry) error {
	select {
	case err := <-errc:
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %w", ErrTimeout, e.timeout, err)
		}
		return err
	case <-ctx.Done():
	}
	select {
	case err := <-errc:
		if err != nil {
			err = fmt.Errorf("%w after %s: %w", ErrTimeout, e.timeout, err)
		}
		return err
	default:
		return fmt.Errorf("%w after %s: %s", ErrTimeout, e.timeout, e.url)
	}
}

// settle records the outcome of e, refills the freed slot and notifies
// every waiter attached to e. Refilled slots are launched before any
// callback runs; a blocking callback must never hold a slot with no fetch.
func (s *Scheduler) settle(e *entry, err error, elapsed time.Duration) {
	res := Result{URL: e.url, Outcome: Ready}

	s.mu.Lock()
	delete(s.inFlight, e.url)
	if err == nil {
		s.completed[e.url] = struct{}{}
		s.readyTotal++
	} else {
		res.Outcome = Failed
		res.Err = err
		s.failedTotal++
	}
	waiters := e.waiters
	e.waiters = nil
	started := s.drainLocked()
	s.mu.Unlock()

	s.launch(started)
	for _, w := range waiters {
		w.notify(res)
	}
	if err == nil {
		s.handlers.ReadyHandler(e.url, elapsed)
	} else {
		s.handlers.FailedHandler(e.url, err)
	}
}

// IsLoaded reports whether url has been fetched successfully.
func (s *Scheduler) IsLoaded(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.completed[url]
	return ok
}

// IsLoading reports whether a fetch for url is in flight.
func (s *Scheduler) IsLoading(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[url]
	return ok
}

// IsQueued reports whether url is waiting for a slot.
func (s *Scheduler) IsQueued(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending.get(url)
	return ok
}

// Forget removes url from the completed set so the next Preload fetches it
// again. It returns false if url was not loaded.
func (s *Scheduler) Forget(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.completed[url]; !ok {
		return false
	}
	delete(s.completed, url)
	return true
}

// ActiveCount returns the number of occupied slots.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inFlight)
}

// PendingCount returns the number of requests waiting for a slot.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.len()
}

// MaxConcurrent returns the concurrency ceiling.
func (s *Scheduler) MaxConcurrent() int {
	return s.maxConcurrent
}

// Pending returns the queued requests in the order they will start.
func (s *Scheduler) Pending() []QueuedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.snapshot()
}

// Stats returns counters for the scheduler.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		MaxConcurrent: s.maxConcurrent,
		Active:        len(s.inFlight),
		Pending:       s.pending.len(),
		Completed:     len(s.completed),
		ReadyTotal:    s.readyTotal,
		FailedTotal:   s.failedTotal,
		Paused:        s.paused,
	}
}

// Pause stops the scheduler from starting new fetches.
// In-flight fetches run to completion.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

// Resume re-enables starting fetches and fills free slots from the queue.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	s.paused = false
	started := s.drainLocked()
	s.mu.Unlock()
	s.launch(started)
}

// IsPaused returns whether the scheduler is paused.
func (s *Scheduler) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}
