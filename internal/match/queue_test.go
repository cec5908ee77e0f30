package match

import "testing"

type pairRecorder struct {
	pairs [][2]Entry
}

func (p *pairRecorder) pair(a, b Entry) {
	p.pairs = append(p.pairs, [2]Entry{a, b})
}

func alwaysAlive(string) bool { return true }

func TestQueue_FifoPairing(t *testing.T) {
	rec := &pairRecorder{}
	q := NewQueue(alwaysAlive, rec.pair)

	if paired := q.Enqueue(Entry{UserID: 1, ConnID: "a"}); paired {
		t.Fatalf("a lone entry cannot pair")
	}
	if paired := q.Enqueue(Entry{UserID: 2, ConnID: "b"}); !paired {
		t.Fatalf("the second entry should pair immediately")
	}
	q.Enqueue(Entry{UserID: 3, ConnID: "c"})

	if len(rec.pairs) != 1 {
		t.Fatalf("expected one pair, got %d", len(rec.pairs))
	}
	if rec.pairs[0][0].ConnID != "a" || rec.pairs[0][1].ConnID != "b" {
		t.Fatalf("pairing must be strict FIFO, got %+v", rec.pairs[0])
	}
	if q.Len() != 1 || !q.Waiting("c") {
		t.Fatalf("the odd entry stays queued")
	}
}

func TestQueue_DeadConnRequeuesSurvivorAtFront(t *testing.T) {
	dead := map[string]bool{"a": true}
	rec := &pairRecorder{}
	q := NewQueue(func(connID string) bool { return !dead[connID] }, rec.pair)

	q.Enqueue(Entry{UserID: 1, ConnID: "a"})
	q.Enqueue(Entry{UserID: 2, ConnID: "b"})

	// a is gone at pairing time: no pair forms and b keeps its place.
	if len(rec.pairs) != 0 {
		t.Fatalf("a dead connection must not pair, got %+v", rec.pairs)
	}
	if q.Len() != 1 || !q.Waiting("b") {
		t.Fatalf("the surviving entry should be requeued")
	}

	// The survivor pairs first against the next arrival.
	q.Enqueue(Entry{UserID: 3, ConnID: "c"})
	if len(rec.pairs) != 1 || rec.pairs[0][0].ConnID != "b" || rec.pairs[0][1].ConnID != "c" {
		t.Fatalf("the requeued survivor must keep its place at the front, got %+v", rec.pairs)
	}
}

func TestQueue_BothDeadKeepsDraining(t *testing.T) {
	dead := map[string]bool{"a": true, "b": true}
	rec := &pairRecorder{}
	q := NewQueue(func(connID string) bool { return !dead[connID] }, rec.pair)

	q.Enqueue(Entry{UserID: 1, ConnID: "a"})
	q.Enqueue(Entry{UserID: 2, ConnID: "b"})
	q.Enqueue(Entry{UserID: 3, ConnID: "c"})
	if paired := q.Enqueue(Entry{UserID: 4, ConnID: "d"}); !paired {
		t.Fatalf("draining should skip the dead pair and match c with d")
	}
	if len(rec.pairs) != 1 || rec.pairs[0][0].ConnID != "c" || rec.pairs[0][1].ConnID != "d" {
		t.Fatalf("unexpected pairs: %+v", rec.pairs)
	}
	if q.Len() != 0 {
		t.Fatalf("queue should be empty, got %d", q.Len())
	}
}

func TestQueue_DuplicateConnNotAppended(t *testing.T) {
	rec := &pairRecorder{}
	q := NewQueue(alwaysAlive, rec.pair)

	q.Enqueue(Entry{UserID: 1, ConnID: "a"})
	if paired := q.Enqueue(Entry{UserID: 1, ConnID: "a"}); paired {
		t.Fatalf("a duplicate connection must not pair against itself")
	}
	if q.Len() != 1 {
		t.Fatalf("duplicate enqueue must not grow the queue, got %d", q.Len())
	}
}

func TestQueue_RequeuePutsEntryAtFront(t *testing.T) {
	rec := &pairRecorder{}
	q := NewQueue(alwaysAlive, rec.pair)

	q.Enqueue(Entry{UserID: 3, ConnID: "c"})
	q.Requeue(Entry{UserID: 1, ConnID: "a"})

	// The returned entry outranks everyone already waiting.
	if len(rec.pairs) != 1 || rec.pairs[0][0].ConnID != "a" || rec.pairs[0][1].ConnID != "c" {
		t.Fatalf("requeued entry must pair from the front, got %+v", rec.pairs)
	}
}

func TestQueue_RequeueDoesNotDuplicate(t *testing.T) {
	rec := &pairRecorder{}
	q := NewQueue(alwaysAlive, rec.pair)

	q.Enqueue(Entry{UserID: 1, ConnID: "a"})
	q.Requeue(Entry{UserID: 1, ConnID: "a"})
	if q.Len() != 1 {
		t.Fatalf("requeue of an already-waiting connection must not grow the queue, got %d", q.Len())
	}
	if len(rec.pairs) != 0 {
		t.Fatalf("a single waiting player cannot pair, got %+v", rec.pairs)
	}
}

func TestQueue_Remove(t *testing.T) {
	rec := &pairRecorder{}
	q := NewQueue(alwaysAlive, rec.pair)

	q.Enqueue(Entry{UserID: 1, ConnID: "a"})
	q.Remove("a")
	if q.Len() != 0 || q.Waiting("a") {
		t.Fatalf("removed entry must leave the queue")
	}

	// Removing an unknown connection is a no-op.
	q.Enqueue(Entry{UserID: 2, ConnID: "b"})
	q.Remove("zz")
	if q.Len() != 1 || !q.Waiting("b") {
		t.Fatalf("unrelated entries must survive a remove")
	}

	// A cancelled player does not pair against the next arrival.
	q.Remove("b")
	if paired := q.Enqueue(Entry{UserID: 3, ConnID: "c"}); paired {
		t.Fatalf("cancelled entries must not pair")
	}
	if len(rec.pairs) != 0 {
		t.Fatalf("no pairs expected, got %+v", rec.pairs)
	}
}
