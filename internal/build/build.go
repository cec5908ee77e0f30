// Package build derives a player's combat stats from base attributes and the
// owned collectibles/weapons resolved against the configured catalog. The
// computation is a pure function of its inputs: nothing is cached between
// battles and concurrent calls for different players are safe.
package build

import (
	"math"

	"github.com/190dpa/literate-umbrella/internal/game"
)

// PlayerBuild is the derived combat profile for one battle. It is recomputed
// fresh at every battle start and never persisted.
type PlayerBuild struct {
	BasePower  int
	BaseHealth int

	FlatAttackBonus    int
	FlatHealthBonus    int
	AttackPercentBonus float64
	DefensePercentBonus float64
	WeaponBonus        int

	TotalPower  int
	TotalHealth int

	// Dominant is the collectible whose intrinsic health is highest among
	// everything owned; its template stats feed the flat bonuses above.
	Dominant *game.CollectibleTemplate
	// AbilitySource is the collectible selected by rarity rank that gates
	// the awakening. It intentionally uses a different criterion than
	// Dominant; both selections are live behavior.
	AbilitySource *game.CollectibleTemplate
}

// Ability returns the awakening attached to the ability-gating collectible,
// or nil when the player owns none with an ability.
func (b *PlayerBuild) Ability() *game.Ability {
	if b.AbilitySource == nil {
		return nil
	}
	return b.AbilitySource.Ability
}

// Compute derives the full build for the given attributes and inventory.
func Compute(strength, vitality int, collectibles []game.CollectibleTemplate, weapons []game.WeaponTemplate) PlayerBuild {
	b := PlayerBuild{
		BasePower:  10 + 2*strength,
		BaseHealth: 50 + 10*vitality,
	}

	if len(collectibles) > 0 {
		dom := dominantByHealth(collectibles)
		b.Dominant = dom
		b.FlatAttackBonus += dom.Attack
		b.FlatHealthBonus += dom.Health
		b.AbilitySource = abilitySourceByRarity(collectibles)
	}

	for _, t := range collectibles {
		applyBuff(&b, t.Buff)
	}

	for _, w := range weapons {
		if w.AttackBonus > b.WeaponBonus {
			b.WeaponBonus = w.AttackBonus
		}
	}

	b.TotalPower = int(math.Floor(float64(b.BasePower+b.FlatAttackBonus)*(1+b.AttackPercentBonus) + float64(b.WeaponBonus)))
	b.TotalHealth = b.BaseHealth + b.FlatHealthBonus
	return b
}

// applyBuff accumulates one collectible's passive bonus into the running
// totals. Unknown kinds are ignored so a stale config entry cannot break a
// battle start.
func applyBuff(b *PlayerBuild, buff game.Buff) {
	switch buff.Kind {
	case game.BuffAttackPercent:
		b.AttackPercentBonus += buff.Percent
	case game.BuffDefensePercent:
		b.DefensePercentBonus += buff.Percent
	case game.BuffHealthFlat:
		b.FlatHealthBonus += buff.Amount
	case game.BuffAttackFlat:
		b.FlatAttackBonus += buff.Amount
	case game.BuffAllPercent:
		b.AttackPercentBonus += buff.Percent
		b.DefensePercentBonus += buff.Percent
	case game.BuffMixed:
		b.AttackPercentBonus += buff.AttackPercent
		b.DefensePercentBonus += buff.DefensePercent
		b.FlatHealthBonus += buff.HealthFlat
		b.FlatAttackBonus += buff.AttackFlat
	case game.BuffNone:
	default:
	}
}

// dominantByHealth picks the collectible with the highest intrinsic template
// health, retaining the first encountered on ties.
func dominantByHealth(collectibles []game.CollectibleTemplate) *game.CollectibleTemplate {
	best := 0
	for i := 1; i < len(collectibles); i++ {
		if collectibles[i].Health > collectibles[best].Health {
			best = i
		}
	}
	return &collectibles[best]
}

// abilitySourceByRarity picks the collectible with the highest rarity rank,
// retaining the first encountered on ties. This deliberately differs from
// dominantByHealth; the two selections gate different things.
func abilitySourceByRarity(collectibles []game.CollectibleTemplate) *game.CollectibleTemplate {
	best := 0
	for i := 1; i < len(collectibles); i++ {
		if collectibles[i].Rarity.Rank() > collectibles[best].Rarity.Rank() {
			best = i
		}
	}
	return &collectibles[best]
}
