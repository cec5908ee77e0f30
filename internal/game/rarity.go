package game

// Rarity is the fixed ladder used by both loot tables and the ability gate.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
	RarityUltra     Rarity = "ultra_rare"
	// RaritySpecial is reserved for event grants and never rolls from the
	// shop tables.
	RaritySpecial Rarity = "special"
)

// rarityRanks orders the ladder from weakest to strongest. Special sits on
// top so event-granted collectibles always win the ability-gate selection.
var rarityRanks = map[Rarity]int{
	RarityCommon:    1,
	RarityRare:      2,
	RarityLegendary: 3,
	RarityMythic:    4,
	RarityUltra:     5,
	RaritySpecial:   6,
}

// Rank returns the ladder position of r, or 0 for an unknown rarity.
func (r Rarity) Rank() int { return rarityRanks[r] }

// Rollable reports whether the rarity may come out of a shop draw.
func (r Rarity) Rollable() bool { return r != RaritySpecial && r.Rank() > 0 }

// RarityOrder is the declared tier order loot draws walk through.
var RarityOrder = []Rarity{RarityCommon, RarityRare, RarityLegendary, RarityMythic, RarityUltra, RaritySpecial}

// DropChance returns the published probability mass for a tier. The special
// tier has zero mass and can never be selected by a draw.
func DropChance(r Rarity) float64 {
	switch r {
	case RarityCommon:
		return 0.60
	case RarityRare:
		return 0.25
	case RarityLegendary:
		return 0.10
	case RarityMythic:
		return 0.045
	case RarityUltra:
		return 0.005
	default:
		return 0
	}
}
