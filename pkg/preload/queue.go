package preload

import "time"

// Request describes one preload.
type Request struct {
	// URL is the resource identifier and the dedup key.
	URL string
	// Priority ranks the request; higher numbers are started first.
	Priority int
	// Timeout bounds the fetch once it has started. Zero uses the
	// scheduler's default, negative disables the deadline.
	Timeout time.Duration
	// OnComplete is invoked once with the outcome, before the Future resolves.
	OnComplete func(Result)
}

// entry is a request known to the scheduler, queued or in flight.
// Later callers for the same URL attach to it as waiters.
type entry struct {
	url      string
	priority int
	seq      uint64
	timeout  time.Duration
	waiters  []*waiter
}

// before reports whether e must be started ahead of o:
// higher priority first, then earlier arrival.
func (e *entry) before(o *entry) bool {
	if e.priority != o.priority {
		return e.priority > o.priority
	}
	return e.seq < o.seq
}

// QueuedRequest is a read-only view of a pending entry.
type QueuedRequest struct {
	URL      string
	Priority int
	Waiters  int
}

// pendingQueue is a stable priority queue of entries not yet started.
// Entries are kept sorted so the head is always the next one to run.
type pendingQueue struct {
	items []*entry
	index map[string]*entry
}

func newPendingQueue() *pendingQueue {
	return &pendingQueue{
		items: make([]*entry, 0),
		index: make(map[string]*entry),
	}
}

func (q *pendingQueue) len() int {
	return len(q.items)
}

func (q *pendingQueue) get(url string) (*entry, bool) {
	e, ok := q.index[url]
	return e, ok
}

// push inserts e before the first entry it must run ahead of.
func (q *pendingQueue) push(e *entry) {
	insertIdx := len(q.items)
	for i, item := range q.items {
		if e.before(item) {
			insertIdx = i
			break
		}
	}
	q.items = append(q.items, nil)
	copy(q.items[insertIdx+1:], q.items[insertIdx:])
	q.items[insertIdx] = e
	q.index[e.url] = e
}

// pop removes and returns the head entry, or nil when empty.
func (q *pendingQueue) pop() *entry {
	if len(q.items) == 0 {
		return nil
	}
	e := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	delete(q.index, e.url)
	return e
}

func (q *pendingQueue) remove(e *entry) {
	for i, item := range q.items {
		if item == e {
			copy(q.items[i:], q.items[i+1:])
			q.items[len(q.items)-1] = nil
			q.items = q.items[:len(q.items)-1]
			delete(q.index, e.url)
			return
		}
	}
}

// promote raises e to priority and repositions it. The arrival sequence is
// kept, so e still runs ahead of later arrivals at the new priority.
func (q *pendingQueue) promote(e *entry, priority int) bool {
	if priority <= e.priority {
		return false
	}
	q.remove(e)
	e.priority = priority
	q.push(e)
	return true
}

func (q *pendingQueue) snapshot() []QueuedRequest {
	out := make([]QueuedRequest, len(q.items))
	for i, e := range q.items {
		out[i] = QueuedRequest{
			URL:      e.url,
			Priority: e.priority,
			Waiters:  len(e.waiters),
		}
	}
	return out
}
