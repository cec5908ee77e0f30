// Package match implements the process-wide matchmaking queue. All queue
// operations are mutually exclusive so a disconnected or double-queued entry
// can never be paired.
package match

import (
	"sync"

	"github.com/190dpa/literate-umbrella/internal/build"
)

// Entry is one waiting player with their precomputed build.
type Entry struct {
	UserID uint
	Name   string
	ConnID string
	Build  build.PlayerBuild
}

// AliveFunc reports whether a connection is still valid at pairing time.
type AliveFunc func(connID string) bool

// PairFunc constructs the shared battle for two dequeued entries. It runs
// outside the queue lock.
type PairFunc func(a, b Entry)

// Queue pairs waiting players in strict FIFO order: the two oldest entries
// form the next match.
type Queue struct {
	mu      sync.Mutex
	entries []Entry
	alive   AliveFunc
	pair    PairFunc
}

func NewQueue(alive AliveFunc, pair PairFunc) *Queue {
	return &Queue{alive: alive, pair: pair}
}

// Enqueue appends the entry and attempts pairing. A player already waiting
// under the same connection is not appended twice. Returns true when the
// entry was consumed by an immediate pairing.
func (q *Queue) Enqueue(e Entry) (paired bool) {
	q.mu.Lock()
	for _, x := range q.entries {
		if x.ConnID == e.ConnID {
			q.mu.Unlock()
			return false
		}
	}
	q.entries = append(q.entries, e)
	pairs := q.drainLocked()
	q.mu.Unlock()

	for _, p := range pairs {
		if p[0].ConnID == e.ConnID || p[1].ConnID == e.ConnID {
			paired = true
		}
		q.pair(p[0], p[1])
	}
	return paired
}

// drainLocked dequeues as many valid pairs as the queue holds. When one of
// the two oldest entries has a dead connection it is dropped and the valid
// one goes back to the FRONT, so a still-waiting player never loses their
// place; pairing for that cycle is aborted.
func (q *Queue) drainLocked() [][2]Entry {
	var pairs [][2]Entry
	for len(q.entries) >= 2 {
		a, b := q.entries[0], q.entries[1]
		q.entries = q.entries[2:]

		aOK := q.alive(a.ConnID)
		bOK := q.alive(b.ConnID)
		switch {
		case aOK && bOK:
			pairs = append(pairs, [2]Entry{a, b})
		case aOK:
			q.entries = append([]Entry{a}, q.entries...)
			return pairs
		case bOK:
			q.entries = append([]Entry{b}, q.entries...)
			return pairs
		default:
			// both gone; keep draining
		}
	}
	return pairs
}

// Requeue puts an entry back at the FRONT of the queue after a pairing that
// could not be completed, so the player keeps their place, then retries
// pairing. Already-queued connections are not duplicated.
func (q *Queue) Requeue(e Entry) {
	q.mu.Lock()
	present := false
	for _, x := range q.entries {
		if x.ConnID == e.ConnID {
			present = true
			break
		}
	}
	if !present {
		q.entries = append([]Entry{e}, q.entries...)
	}
	pairs := q.drainLocked()
	q.mu.Unlock()

	for _, p := range pairs {
		q.pair(p[0], p[1])
	}
}

// Remove deletes a waiting entry by connection identity, leaving the order
// of unrelated entries untouched.
func (q *Queue) Remove(connID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, x := range q.entries {
		if x.ConnID == connID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}

// Len reports the number of waiting entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Waiting reports whether the connection is currently queued.
func (q *Queue) Waiting(connID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, x := range q.entries {
		if x.ConnID == connID {
			return true
		}
	}
	return false
}
