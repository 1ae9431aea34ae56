package preload

import "testing"

func pushAll(q *pendingQueue, specs ...entry) {
	for i := range specs {
		e := specs[i]
		q.push(&e)
	}
}

func drainURLs(q *pendingQueue) []string {
	var out []string
	for e := q.pop(); e != nil; e = q.pop() {
		out = append(out, e.url)
	}
	return out
}

func TestPendingQueue_Order(t *testing.T) {
	tests := []struct {
		name  string
		specs []entry
		want  []string
	}{
		{
			name: "priority descending",
			specs: []entry{
				{url: "low", priority: 1, seq: 1},
				{url: "high", priority: 9, seq: 2},
				{url: "mid", priority: 5, seq: 3},
			},
			want: []string{"high", "mid", "low"},
		},
		{
			name: "fifo among equals",
			specs: []entry{
				{url: "a", priority: 2, seq: 1},
				{url: "b", priority: 2, seq: 2},
				{url: "c", priority: 2, seq: 3},
			},
			want: []string{"a", "b", "c"},
		},
		{
			name: "negative priorities",
			specs: []entry{
				{url: "neg", priority: -3, seq: 1},
				{url: "zero", priority: 0, seq: 2},
				{url: "neg2", priority: -3, seq: 3},
			},
			want: []string{"zero", "neg", "neg2"},
		},
		{
			name: "mixed priorities with ties",
			specs: []entry{
				{url: "A", priority: 1, seq: 1},
				{url: "B", priority: 5, seq: 2},
				{url: "C", priority: 3, seq: 3},
				{url: "D", priority: 5, seq: 4},
				{url: "E", priority: 2, seq: 5},
			},
			want: []string{"B", "D", "C", "E", "A"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newPendingQueue()
			pushAll(q, tt.specs...)
			got := drainURLs(q)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestPendingQueue_PopEmpty(t *testing.T) {
	q := newPendingQueue()
	if e := q.pop(); e != nil {
		t.Fatalf("expected nil from empty queue, got %+v", e)
	}
}

func TestPendingQueue_IndexTracksMembership(t *testing.T) {
	q := newPendingQueue()
	pushAll(q, entry{url: "x", priority: 1, seq: 1})
	if _, ok := q.get("x"); !ok {
		t.Fatal("expected x to be indexed")
	}
	q.pop()
	if _, ok := q.get("x"); ok {
		t.Fatal("expected x to be unindexed after pop")
	}
}

func TestPendingQueue_PromoteKeepsArrivalOrder(t *testing.T) {
	q := newPendingQueue()
	pushAll(q,
		entry{url: "early", priority: 1, seq: 1},
		entry{url: "mid", priority: 5, seq: 2},
		entry{url: "late", priority: 5, seq: 3},
	)
	e, _ := q.get("early")
	if !q.promote(e, 5) {
		t.Fatal("expected promotion to succeed")
	}
	got := drainURLs(q)
	want := []string{"early", "mid", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestPendingQueue_PromoteIgnoresLowerPriority(t *testing.T) {
	q := newPendingQueue()
	pushAll(q, entry{url: "x", priority: 5, seq: 1})
	e, _ := q.get("x")
	if q.promote(e, 3) {
		t.Fatal("expected demotion to be ignored")
	}
	if e.priority != 5 {
		t.Fatalf("expected priority to stay 5, got %d", e.priority)
	}
}

func TestPendingQueue_Snapshot(t *testing.T) {
	q := newPendingQueue()
	pushAll(q,
		entry{url: "a", priority: 1, seq: 1, waiters: []*waiter{{}, {}}},
		entry{url: "b", priority: 2, seq: 2},
	)
	snap := q.snapshot()
	if len(snap) != 2 || snap[0].URL != "b" || snap[1].Waiters != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if q.len() != 2 {
		t.Fatal("snapshot must not consume the queue")
	}
}
