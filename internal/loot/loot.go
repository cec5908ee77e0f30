// Package loot implements the weighted-rarity draws behind the shop. A draw
// takes one uniform [0,1) sample and walks the declared tier order,
// accumulating the published probability mass of every tier that actually has
// templates for the requested table. Tiers with empty pools are skipped
// without consuming the mass meant for them.
package loot

import (
	"errors"
	"math/rand"

	"github.com/190dpa/literate-umbrella/internal/game"
)

var ErrEmptyTable = errors.New("loot table has no rollable templates")

// RollCollectible draws one collectible template from the catalog.
func RollCollectible(catalog *game.Catalog, rng *rand.Rand) (game.CollectibleTemplate, error) {
	tier, ok := pickTier(rng, catalog.DropChance, func(r game.Rarity) int { return len(catalog.CollectiblePool(r)) })
	if !ok {
		return game.CollectibleTemplate{}, ErrEmptyTable
	}
	pool := catalog.CollectiblePool(tier)
	return pool[rng.Intn(len(pool))], nil
}

// RollWeapon draws one weapon template from the catalog.
func RollWeapon(catalog *game.Catalog, rng *rand.Rand) (game.WeaponTemplate, error) {
	tier, ok := pickTier(rng, catalog.DropChance, func(r game.Rarity) int { return len(catalog.WeaponPool(r)) })
	if !ok {
		return game.WeaponTemplate{}, ErrEmptyTable
	}
	pool := catalog.WeaponPool(tier)
	return pool[rng.Intn(len(pool))], nil
}

// pickTier walks the rarity ladder in declared order and selects the first
// tier whose cumulative mass exceeds the draw. chance supplies the mass per
// tier (the catalog's, so configured overrides apply); poolSize reports how
// many templates the requested table has at a given tier, and tiers reporting
// zero are skipped entirely. When the draw lands beyond the cumulative mass
// of every populated tier (possible once tiers have been skipped) the draw
// falls back to the first populated tier.
func pickTier(rng *rand.Rand, chance func(game.Rarity) float64, poolSize func(game.Rarity) int) (game.Rarity, bool) {
	draw := rng.Float64()
	cumulative := 0.0
	first := game.Rarity("")
	for _, r := range game.RarityOrder {
		mass := chance(r)
		if mass == 0 || poolSize(r) == 0 {
			continue
		}
		if first == "" {
			first = r
		}
		cumulative += mass
		if draw < cumulative {
			return r, true
		}
	}
	if first == "" {
		return "", false
	}
	return first, true
}
