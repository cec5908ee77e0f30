package game

import "strings"

// Catalog holds the configured template definitions for one server instance.
// It is immutable after construction and safe for concurrent readers.
type Catalog struct {
	collectibles map[string]CollectibleTemplate
	weapons      map[string]WeaponTemplate
	opponents    []Opponent

	collectiblePools map[Rarity][]CollectibleTemplate
	weaponPools      map[Rarity][]WeaponTemplate
	dropRates        map[Rarity]float64
}

func NewCatalog(collectibles []CollectibleTemplate, weapons []WeaponTemplate, opponents []Opponent) *Catalog {
	return NewCatalogWithDropRates(collectibles, weapons, opponents, nil)
}

// NewCatalogWithDropRates builds a catalog whose draw masses override the
// published ladder for the tiers present in rates. Tiers absent from rates
// keep their published mass; a nil map keeps the whole ladder.
func NewCatalogWithDropRates(collectibles []CollectibleTemplate, weapons []WeaponTemplate, opponents []Opponent, rates map[Rarity]float64) *Catalog {
	c := &Catalog{
		collectibles:     make(map[string]CollectibleTemplate, len(collectibles)),
		weapons:          make(map[string]WeaponTemplate, len(weapons)),
		opponents:        opponents,
		collectiblePools: make(map[Rarity][]CollectibleTemplate),
		weaponPools:      make(map[Rarity][]WeaponTemplate),
		dropRates:        rates,
	}
	for _, t := range collectibles {
		c.collectibles[strings.ToLower(t.Name)] = t
		c.collectiblePools[t.Rarity] = append(c.collectiblePools[t.Rarity], t)
	}
	for _, w := range weapons {
		c.weapons[strings.ToLower(w.Name)] = w
		c.weaponPools[w.Rarity] = append(c.weaponPools[w.Rarity], w)
	}
	return c
}

// Collectible looks up a template by name (case-insensitive).
func (c *Catalog) Collectible(name string) (CollectibleTemplate, bool) {
	t, ok := c.collectibles[strings.ToLower(name)]
	return t, ok
}

// Weapon looks up a weapon template by name (case-insensitive).
func (c *Catalog) Weapon(name string) (WeaponTemplate, bool) {
	t, ok := c.weapons[strings.ToLower(name)]
	return t, ok
}

// CollectiblePool returns the templates of one rarity tier, in declared order.
func (c *Catalog) CollectiblePool(r Rarity) []CollectibleTemplate {
	return c.collectiblePools[r]
}

// WeaponPool returns the weapon templates of one rarity tier.
func (c *Catalog) WeaponPool(r Rarity) []WeaponTemplate {
	return c.weaponPools[r]
}

// Opponents returns the scripted PvE opponent catalog in declared order.
func (c *Catalog) Opponents() []Opponent { return c.opponents }

// DropChance returns the draw mass for a tier under this catalog, honoring
// any configured override. The special tier never gains mass.
func (c *Catalog) DropChance(r Rarity) float64 {
	if r == RaritySpecial {
		return 0
	}
	if v, ok := c.dropRates[r]; ok {
		return v
	}
	return DropChance(r)
}

// ResolveCollectibles maps owned records to their configured templates,
// preserving inventory order. Records whose template was removed from the
// config are dropped rather than failing the whole resolution.
func (c *Catalog) ResolveCollectibles(owned []OwnedCollectible) []CollectibleTemplate {
	out := make([]CollectibleTemplate, 0, len(owned))
	for _, o := range owned {
		if t, ok := c.Collectible(o.TemplateName); ok {
			out = append(out, t)
		}
	}
	return out
}

// ResolveWeapons maps owned weapon records to their configured templates.
func (c *Catalog) ResolveWeapons(owned []OwnedWeapon) []WeaponTemplate {
	out := make([]WeaponTemplate, 0, len(owned))
	for _, o := range owned {
		if t, ok := c.Weapon(o.TemplateName); ok {
			out = append(out, t)
		}
	}
	return out
}
