package battle

import (
	"fmt"
	"sync"

	"github.com/190dpa/literate-umbrella/internal/logging"
)

// PvpSession is the two-sided battle state machine shared by a matched pair.
// Both connections funnel their actions through Submit; mu is the
// exclusive-access discipline for the shared state.
type PvpSession struct {
	mu sync.Mutex

	id    string
	sides [2]Combatant
	// turn indexes the side whose action is expected next.
	turn   int
	locked bool
	done   bool
	log    []string

	dice   Dice
	sched  Scheduler
	emit   Emitter
	settle Settler

	stopTimer func()
}

// NewPvpSession pairs two combatants. The first side acts first.
func NewPvpSession(id string, a, b Combatant, dice Dice, sched Scheduler, emit Emitter, settle Settler) *PvpSession {
	s := &PvpSession{
		id:     id,
		sides:  [2]Combatant{a, b},
		dice:   dice,
		sched:  sched,
		emit:   emit,
		settle: settle,
	}
	s.logf("%s and %s enter the arena", a.Name, b.Name)
	return s
}

func (s *PvpSession) ID() string { return s.id }

// Participants returns both combatants.
func (s *PvpSession) Participants() []Combatant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return []Combatant{s.sides[0], s.sides[1]}
}

func (s *PvpSession) logf(format string, args ...interface{}) {
	s.log = append(s.log, fmt.Sprintf(format, args...))
}

// snapshotFor builds the perspective-swapped state for one side: the
// receiver always sees itself as "you".
func (s *PvpSession) snapshotFor(idx int) Snapshot {
	return Snapshot{
		SessionID: s.id,
		You:       s.sides[idx].view(),
		Opponent:  s.sides[1-idx].view(),
		YourTurn:  s.turn == idx && !s.locked && !s.done,
		Locked:    s.locked,
		Log:       append([]string(nil), s.log...),
	}
}

// SnapshotFor returns the current state as seen by the given user.
func (s *PvpSession) SnapshotFor(userID uint) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sides[1].UserID == userID {
		return s.snapshotFor(1)
	}
	return s.snapshotFor(0)
}

func (s *PvpSession) emitStateLocked() {
	s.emit.Emit(s.sides[0].ConnID, EventBattleUpdate, s.snapshotFor(0))
	s.emit.Emit(s.sides[1].ConnID, EventBattleUpdate, s.snapshotFor(1))
}

func (s *PvpSession) sideOf(userID uint) int {
	if s.sides[0].UserID == userID {
		return 0
	}
	if s.sides[1].UserID == userID {
		return 1
	}
	return -1
}

// Submit applies one action from the given user. Out-of-turn, locked or
// otherwise illegal actions are no-ops that return the caller's unchanged
// perspective for resynchronization.
func (s *PvpSession) Submit(userID uint, action Action) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.sideOf(userID)
	if idx < 0 {
		return Snapshot{}, ErrInvalidAction
	}
	if s.done {
		return s.snapshotFor(idx), ErrStaleSession
	}
	if s.locked || s.turn != idx {
		return s.snapshotFor(idx), ErrInvalidAction
	}

	actor := &s.sides[idx]
	target := &s.sides[1-idx]

	if action == ActionUseAbility {
		if !actor.canAwaken() {
			return s.snapshotFor(idx), ErrNotEligible
		}
		s.castAwakeningLocked(idx)
		return s.snapshotFor(idx), nil
	}

	// Validate before touching any state: a rejected action must leave
	// both combatants exactly as they were.
	switch action {
	case ActionFastAttack, ActionStrongAttack, ActionDefend:
	case ActionAwakenedAbility:
		if !actor.Awakened.Active {
			return s.snapshotFor(idx), ErrInvalidAction
		}
	default:
		return s.snapshotFor(idx), ErrInvalidAction
	}

	// The action will now fully resolve, so it counts as an elapsed enemy
	// turn for the target's awakening; the expiry signal goes out before
	// this turn's damage.
	if tickAwakening(target) {
		s.logf("%s's awakening fades", target.Name)
		s.emit.Emit(target.ConnID, EventAwakeningEnded, s.snapshotFor(1-idx))
		s.emit.Emit(actor.ConnID, EventAwakeningEnded, s.snapshotFor(idx))
	}

	switch action {
	case ActionFastAttack:
		dmg, crit := rollDamage(s.dice, actor.Power, fastAttackScale, fastAttackSpread, playerCritChance)
		actor.IsDefending = false
		applied, defended := applyIncoming(target, dmg)
		s.logDamage(actor, target, applied, crit, defended)
	case ActionStrongAttack:
		actor.IsDefending = false
		if !s.dice.Chance(strongConnectOdds) {
			s.logf("%s's heavy strike misses", actor.Name)
		} else {
			dmg, crit := rollDamage(s.dice, actor.Power, strongAttackScale, strongAttackSpread, playerCritChance)
			applied, defended := applyIncoming(target, dmg)
			s.logDamage(actor, target, applied, crit, defended)
		}
	case ActionDefend:
		actor.IsDefending = true
		s.logf("%s braces for the next attack", actor.Name)
	case ActionAwakenedAbility:
		actor.IsDefending = false
		applied, defended := applyIncoming(target, actor.Ability.Damage)
		if defended {
			s.logf("%s unleashes %s; %s blocks most of it, taking %d", actor.Name, actor.Awakened.AbilityName, target.Name, applied)
		} else {
			s.logf("%s unleashes %s for %d", actor.Name, actor.Awakened.AbilityName, applied)
		}
	}

	if target.Health <= 0 {
		s.finishLocked(idx, false)
		return s.snapshotFor(idx), nil
	}

	s.turn = 1 - idx
	s.emitStateLocked()
	return s.snapshotFor(idx), nil
}

func (s *PvpSession) logDamage(actor, target *Combatant, applied int, crit, defended bool) {
	if defended {
		s.logf("%s attacks; %s blocks most of it, taking %d%s", actor.Name, target.Name, applied, critTag(crit))
	} else {
		s.logf("%s hits %s for %d%s", actor.Name, target.Name, applied, critTag(crit))
	}
}

// castAwakeningLocked enters the awakened state and pushes the cutscene to
// the opponent's connection with the caster's narrative payload. Control
// returns to the caster after the same fixed delay as PvE; the turn does not
// flip until the awakened follow-up resolves.
func (s *PvpSession) castAwakeningLocked(idx int) {
	actor := &s.sides[idx]
	other := &s.sides[1-idx]

	actor.AbilityUsed = true
	actor.Awakened = Awakening{Active: true, AbilityName: actor.Ability.Name, TurnsLeft: awakeningTurns}
	s.logf("%s awakens: %s", actor.Name, actor.Ability.Name)

	s.emit.Emit(actor.ConnID, EventAwakeningStarted, s.snapshotFor(idx))
	s.emit.Emit(other.ConnID, EventAwakeningCutscene, CutscenePayload{
		SessionID:   s.id,
		CasterName:  actor.Name,
		AbilityName: actor.Ability.Name,
		Lines:       actor.Ability.Lines,
		AudioTheme:  actor.Ability.AudioTheme,
	})

	s.locked = true
	s.stopTimer = s.sched.After(CutsceneDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.done {
			return
		}
		s.locked = false
		s.emitStateLocked()
	})
}

// finishLocked ends the battle in favor of sides[winner]. Rewards go to the
// winner only; a PvP loss carries no coin penalty.
func (s *PvpSession) finishLocked(winner int, forfeit bool) {
	s.done = true
	s.locked = false
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
	win := &s.sides[winner]
	lose := &s.sides[1-winner]
	if forfeit {
		s.logf("%s wins by forfeit", win.Name)
	} else {
		s.logf("%s is victorious", win.Name)
	}

	settleFailed := false
	if err := s.settle.SettlePvp(win.UserID, lose.UserID); err != nil {
		logging.Error("pvp settlement failed", err, logging.Fields{"session": s.id, "winner_id": win.UserID, "loser_id": lose.UserID})
		settleFailed = true
	}

	s.emit.Emit(win.ConnID, EventBattleEnd, Outcome{SessionID: s.id, Won: true, Forfeit: forfeit, Coins: PvpWinCoins, XP: PvpWinXP, SettlementFailed: settleFailed})
	s.emit.Emit(lose.ConnID, EventBattleEnd, Outcome{SessionID: s.id, Won: false, Forfeit: forfeit, SettlementFailed: settleFailed})
}

// Forfeit ends the session immediately in favor of the side that did not
// disconnect, without resolving outstanding actions.
func (s *PvpSession) Forfeit(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	switch connID {
	case s.sides[0].ConnID:
		s.finishLocked(1, true)
	case s.sides[1].ConnID:
		s.finishLocked(0, true)
	}
}

// Done reports whether the session has reached a terminal state.
func (s *PvpSession) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
