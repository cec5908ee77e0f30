package battle

import (
	"fmt"
	"sync"

	"github.com/190dpa/literate-umbrella/internal/game"
	"github.com/190dpa/literate-umbrella/internal/logging"
)

// Settler applies terminal currency/XP settlement. Implementations persist
// atomically; the session emits its end event only after settlement returns.
type Settler interface {
	SettlePve(userID uint, won bool) error
	SettlePvp(winnerID, loserID uint) error
}

// PveSession is the single-player battle state machine. All mutation happens
// under mu, driven either by the owning connection's actions or by the
// session's own scheduled opponent turn.
type PveSession struct {
	mu sync.Mutex

	id       string
	player   Combatant
	opponent Combatant

	// locked is set while a scheduled resolution (opponent turn or
	// cutscene) is outstanding; actions arriving meanwhile are no-ops.
	locked bool
	done   bool
	log    []string

	dice   Dice
	sched  Scheduler
	emit   Emitter
	settle Settler

	stopTimer func()
}

// NewPveSession creates a session for one player against a scripted opponent
// template. The player Combatant carries the freshly computed build stats.
func NewPveSession(id string, player Combatant, opp game.Opponent, dice Dice, sched Scheduler, emit Emitter, settle Settler) *PveSession {
	s := &PveSession{
		id:     id,
		player: player,
		opponent: Combatant{
			Name:      opp.Name,
			Health:    opp.Health,
			MaxHealth: opp.Health,
			Power:     opp.Power,
		},
		dice:   dice,
		sched:  sched,
		emit:   emit,
		settle: settle,
	}
	s.logf("%s challenges %s", player.Name, opp.Name)
	return s
}

func (s *PveSession) ID() string { return s.id }

// Participants returns the owning user and connection identity.
func (s *PveSession) Participants() []Combatant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return []Combatant{s.player}
}

func (s *PveSession) logf(format string, args ...interface{}) {
	s.log = append(s.log, fmt.Sprintf(format, args...))
}

func (s *PveSession) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID: s.id,
		You:       s.player.view(),
		Opponent:  s.opponent.view(),
		YourTurn:  !s.locked && !s.done,
		Locked:    s.locked,
		Log:       append([]string(nil), s.log...),
	}
}

// Snapshot returns the current state from the player's perspective.
func (s *PveSession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Submit applies one player action. Illegal or mistimed actions return the
// unchanged state with ErrInvalidAction/ErrNotEligible so the caller can
// resynchronize the client; they never mutate the session.
func (s *PveSession) Submit(action Action) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return s.snapshotLocked(), ErrStaleSession
	}
	if s.locked {
		return s.snapshotLocked(), ErrInvalidAction
	}

	switch action {
	case ActionFastAttack:
		dmg, crit := rollDamage(s.dice, s.player.Power, fastAttackScale, fastAttackSpread, playerCritChance)
		s.player.IsDefending = false
		s.opponent.Health -= dmg
		s.logf("%s hits %s for %d%s", s.player.Name, s.opponent.Name, dmg, critTag(crit))
	case ActionStrongAttack:
		s.player.IsDefending = false
		if !s.dice.Chance(strongConnectOdds) {
			s.logf("%s's heavy strike misses", s.player.Name)
		} else {
			dmg, crit := rollDamage(s.dice, s.player.Power, strongAttackScale, strongAttackSpread, playerCritChance)
			s.opponent.Health -= dmg
			s.logf("%s lands a heavy strike on %s for %d%s", s.player.Name, s.opponent.Name, dmg, critTag(crit))
		}
	case ActionDefend:
		s.player.IsDefending = true
		s.logf("%s braces for the next attack", s.player.Name)
	case ActionUseAbility:
		if !s.player.canAwaken() {
			return s.snapshotLocked(), ErrNotEligible
		}
		s.castAwakeningLocked()
		return s.snapshotLocked(), nil
	case ActionAwakenedAbility:
		if !s.player.Awakened.Active {
			return s.snapshotLocked(), ErrInvalidAction
		}
		s.player.IsDefending = false
		dmg := s.player.Ability.Damage
		s.opponent.Health -= dmg
		s.logf("%s unleashes %s for %d", s.player.Name, s.player.Awakened.AbilityName, dmg)
	default:
		return s.snapshotLocked(), ErrInvalidAction
	}

	if s.opponent.Health <= 0 {
		s.finishLocked(true)
		return s.snapshotLocked(), nil
	}

	s.scheduleOpponentTurnLocked()
	snap := s.snapshotLocked()
	s.emit.Emit(s.player.ConnID, EventBattleUpdate, snap)
	return snap, nil
}

// castAwakeningLocked flips the one-shot gate, enters the awakened state and
// holds the session through the cutscene delay. The damage itself is
// deferred to a follow-up awakened_ability action; no opponent turn runs in
// between.
func (s *PveSession) castAwakeningLocked() {
	s.player.AbilityUsed = true
	s.player.Awakened = Awakening{Active: true, AbilityName: s.player.Ability.Name, TurnsLeft: awakeningTurns}
	s.logf("%s awakens: %s", s.player.Name, s.player.Ability.Name)
	s.emit.Emit(s.player.ConnID, EventAwakeningStarted, s.snapshotLocked())

	s.locked = true
	s.stopTimer = s.sched.After(CutsceneDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.done {
			return
		}
		s.locked = false
		s.emit.Emit(s.player.ConnID, EventBattleUpdate, s.snapshotLocked())
	})
}

func (s *PveSession) scheduleOpponentTurnLocked() {
	s.locked = true
	s.stopTimer = s.sched.After(OpponentTurnDelay, s.resolveOpponentTurn)
}

// resolveOpponentTurn runs the scripted retaliation after its fixed delay.
func (s *PveSession) resolveOpponentTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}

	// The awakening ages one enemy turn before any damage of that turn is
	// applied, so the expiry signal can never trail a stale awakened UI.
	if tickAwakening(&s.player) {
		s.logf("%s's awakening fades", s.player.Name)
		s.emit.Emit(s.player.ConnID, EventAwakeningEnded, s.snapshotLocked())
	}

	dmg, crit := rollDamage(s.dice, s.opponent.Power, opponentAttackScale, opponentAttackSpread, opponentCritChance)
	applied, defended := applyIncoming(&s.player, dmg)
	if defended {
		s.logf("%s attacks; %s blocks most of it, taking %d%s", s.opponent.Name, s.player.Name, applied, critTag(crit))
	} else {
		s.logf("%s attacks %s for %d%s", s.opponent.Name, s.player.Name, applied, critTag(crit))
	}

	if s.player.Health <= 0 {
		s.finishLocked(false)
		return
	}

	s.locked = false
	s.emit.Emit(s.player.ConnID, EventBattleUpdate, s.snapshotLocked())
}

// finishLocked settles and emits the terminal event exactly once.
func (s *PveSession) finishLocked(won bool) {
	s.done = true
	s.locked = false
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
	if won {
		s.logf("%s is defeated", s.opponent.Name)
	} else {
		s.logf("%s falls in battle", s.player.Name)
	}

	out := Outcome{SessionID: s.id, Won: won}
	if won {
		out.Coins = PveWinCoins
		out.XP = PveWinXP
	} else {
		out.Coins = -PveLossPenalty
	}
	if err := s.settle.SettlePve(s.player.UserID, won); err != nil {
		logging.Error("pve settlement failed", err, logging.Fields{"session": s.id, "user_id": s.player.UserID})
		out.SettlementFailed = true
	}
	s.emit.Emit(s.player.ConnID, EventBattleEnd, out)
}

// Abandon ends the session on disconnect. PvE abandonment carries no reward
// or penalty; the session is silently discarded.
func (s *PveSession) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
}

// Done reports whether the session has reached a terminal state.
func (s *PveSession) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func critTag(crit bool) string {
	if crit {
		return " (critical!)"
	}
	return ""
}
