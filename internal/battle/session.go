package battle

import (
	"errors"

	"github.com/190dpa/literate-umbrella/internal/game"
)

// Action is a player's chosen move for their turn.
type Action string

const (
	ActionFastAttack      Action = "fast_attack"
	ActionStrongAttack    Action = "strong_attack"
	ActionDefend          Action = "defend"
	ActionUseAbility      Action = "use_ability"
	ActionAwakenedAbility Action = "awakened_ability"
)

var (
	// ErrInvalidAction marks actions that are not legal in the current
	// state. Handlers treat it as a no-op and re-emit unchanged state.
	ErrInvalidAction = errors.New("action not legal in current battle state")
	// ErrNotEligible marks ability requests without a qualifying
	// collectible, or after the one-shot has fired.
	ErrNotEligible = errors.New("combatant is not eligible for that ability")
	// ErrStaleSession marks actions referencing an already-terminated
	// session.
	ErrStaleSession = errors.New("battle session has already ended")
)

// Fixed settlement amounts.
const (
	PveWinCoins    = 50
	PveWinXP       = 50
	PveLossPenalty = 25
	PvpWinCoins    = 50
	PvpWinXP       = 50
)

// Crit and action tuning.
const (
	playerCritChance   = 0.10
	opponentCritChance = 0.05
	critMultiplier     = 1.5

	fastAttackScale    = 0.5
	fastAttackSpread   = 0.10
	strongAttackScale  = 1.0
	strongAttackSpread = 0.20
	strongConnectOdds  = 0.70

	opponentAttackScale  = 0.8
	opponentAttackSpread = 0.20
	defendReduction      = 0.30

	awakeningTurns = 3
)

// Awakening is the temporary empowered sub-state entered by a one-shot
// ability cast. TurnsLeft decrements once per resolved enemy turn.
type Awakening struct {
	Active      bool
	AbilityName string
	TurnsLeft   int
}

// Combatant is one side's live state, owned exclusively by its session.
type Combatant struct {
	UserID uint
	ConnID string
	Name   string

	Health    int
	MaxHealth int
	Power     int

	IsDefending bool
	// AbilityUsed is a one-shot gate: set true the first time the ability
	// fires, never reset within the session.
	AbilityUsed bool
	Awakened    Awakening

	Ability *game.Ability
}

func (c *Combatant) view() CombatantView {
	return CombatantView{
		Name:        c.Name,
		Health:      c.Health,
		MaxHealth:   c.MaxHealth,
		Power:       c.Power,
		IsDefending: c.IsDefending,
		AbilityUsed: c.AbilityUsed,
		Awakened: AwakeningView{
			Active:      c.Awakened.Active,
			AbilityName: c.Awakened.AbilityName,
			TurnsLeft:   c.Awakened.TurnsLeft,
		},
	}
}

// canAwaken reports whether the combatant may cast its one-shot ability now.
func (c *Combatant) canAwaken() bool {
	return c.Ability != nil && !c.AbilityUsed
}

// rollDamage computes one direct-damage hit: scale and variance first, then
// an independent crit roll multiplies the result. Truncated once at the end.
func rollDamage(d Dice, power int, scale, spread, critChance float64) (dmg int, crit bool) {
	base := float64(power) * scale * d.Variance(spread)
	if d.Chance(critChance) {
		base *= critMultiplier
		crit = true
	}
	return int(base), crit
}

// applyIncoming applies damage to target, honoring an active defend stance:
// the inbound roll is cut to 30% before the stance is cleared.
func applyIncoming(target *Combatant, dmg int) (applied int, defended bool) {
	if target.IsDefending {
		dmg = int(float64(dmg) * defendReduction)
		target.IsDefending = false
		defended = true
	}
	target.Health -= dmg
	return dmg, defended
}

// tickAwakening advances the target's awakening by one elapsed enemy turn.
// Returns true when the awakening just expired; the caller must emit the end
// signal before applying any damage from this turn.
func tickAwakening(c *Combatant) (ended bool) {
	if !c.Awakened.Active {
		return false
	}
	c.Awakened.TurnsLeft--
	if c.Awakened.TurnsLeft <= 0 {
		c.Awakened.Active = false
		c.Awakened.TurnsLeft = 0
		return true
	}
	return false
}
