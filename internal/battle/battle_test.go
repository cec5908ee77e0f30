package battle

import (
	"testing"
	"time"
)

// stubDice pins every roll: Variance always returns mult, Chance consumes the
// queued outcomes in order and falls back to false.
type stubDice struct {
	mult    float64
	chances []bool
	i       int
}

func (d *stubDice) Variance(spread float64) float64 { return d.mult }

func (d *stubDice) Chance(p float64) bool {
	if d.i < len(d.chances) {
		v := d.chances[d.i]
		d.i++
		return v
	}
	return false
}

func flatDice() *stubDice { return &stubDice{mult: 1.0} }

// manualSched captures scheduled work so tests decide when timers fire.
type manualSched struct {
	fns []func()
}

func (s *manualSched) After(d time.Duration, fn func()) (stop func()) {
	idx := len(s.fns)
	s.fns = append(s.fns, fn)
	return func() { s.fns[idx] = nil }
}

func (s *manualSched) pendingCount() int {
	n := 0
	for _, fn := range s.fns {
		if fn != nil {
			n++
		}
	}
	return n
}

// fire runs the oldest outstanding scheduled callback.
func (s *manualSched) fire(t *testing.T) {
	t.Helper()
	for i, fn := range s.fns {
		if fn != nil {
			s.fns[i] = nil
			fn()
			return
		}
	}
	t.Fatalf("no scheduled work outstanding")
}

type emitted struct {
	connID  string
	event   string
	payload interface{}
}

// recordEmitter captures every pushed event in emission order.
type recordEmitter struct {
	events []emitted
}

func (e *recordEmitter) Emit(connID string, event string, payload interface{}) {
	e.events = append(e.events, emitted{connID: connID, event: event, payload: payload})
}

func (e *recordEmitter) lastOf(event string) (emitted, bool) {
	for i := len(e.events) - 1; i >= 0; i-- {
		if e.events[i].event == event {
			return e.events[i], true
		}
	}
	return emitted{}, false
}

func (e *recordEmitter) count(event string) int {
	n := 0
	for _, ev := range e.events {
		if ev.event == event {
			n++
		}
	}
	return n
}

type pveCall struct {
	userID uint
	won    bool
}

type pvpCall struct {
	winnerID uint
	loserID  uint
}

// stubSettler records settlement calls without touching storage. Setting err
// simulates a store outage at settlement time.
type stubSettler struct {
	pve []pveCall
	pvp []pvpCall
	err error
}

func (s *stubSettler) SettlePve(userID uint, won bool) error {
	s.pve = append(s.pve, pveCall{userID: userID, won: won})
	return s.err
}

func (s *stubSettler) SettlePvp(winnerID, loserID uint) error {
	s.pvp = append(s.pvp, pvpCall{winnerID: winnerID, loserID: loserID})
	return s.err
}
