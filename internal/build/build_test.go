package build

import (
	"testing"

	"github.com/190dpa/literate-umbrella/internal/game"
)

func TestCompute_BaseOnly(t *testing.T) {
	b := Compute(5, 3, nil, nil)
	if b.BasePower != 20 {
		t.Fatalf("expected base power 20, got %d", b.BasePower)
	}
	if b.BaseHealth != 80 {
		t.Fatalf("expected base health 80, got %d", b.BaseHealth)
	}
	if b.TotalPower != 20 || b.TotalHealth != 80 {
		t.Fatalf("totals should equal base with an empty inventory, got power=%d health=%d", b.TotalPower, b.TotalHealth)
	}
	if b.Dominant != nil || b.AbilitySource != nil {
		t.Fatalf("no collectibles should yield no dominant or ability source")
	}
}

func TestCompute_FullInventory(t *testing.T) {
	collectibles := []game.CollectibleTemplate{
		{Name: "A", Rarity: game.RarityCommon, Attack: 4, Health: 20, Buff: game.Buff{Kind: game.BuffAttackFlat, Amount: 2}},
		{Name: "B", Rarity: game.RarityRare, Attack: 10, Health: 32, Buff: game.Buff{Kind: game.BuffAttackPercent, Percent: 0.1}},
	}
	weapons := []game.WeaponTemplate{
		{Name: "W1", Rarity: game.RarityCommon, AttackBonus: 5},
		{Name: "W2", Rarity: game.RarityRare, AttackBonus: 9},
	}

	b := Compute(5, 3, collectibles, weapons)

	if b.Dominant == nil || b.Dominant.Name != "B" {
		t.Fatalf("dominant should be the highest-health collectible B, got %+v", b.Dominant)
	}
	if b.WeaponBonus != 9 {
		t.Fatalf("weapon bonus should be the single best weapon, got %d", b.WeaponBonus)
	}
	// (20 + 10 + 2) * 1.1 + 9 = 44.2 -> 44, floored once at the end.
	if b.TotalPower != 44 {
		t.Fatalf("expected total power 44, got %d", b.TotalPower)
	}
	if b.TotalHealth != 112 {
		t.Fatalf("expected total health 112, got %d", b.TotalHealth)
	}
}

func TestCompute_DominantAndAbilitySourceDiffer(t *testing.T) {
	ability := &game.Ability{Name: "Burst", Damage: 50}
	collectibles := []game.CollectibleTemplate{
		{Name: "Tank", Rarity: game.RarityCommon, Attack: 1, Health: 100},
		{Name: "Glass", Rarity: game.RarityLegendary, Attack: 9, Health: 10, Ability: ability},
	}

	b := Compute(1, 1, collectibles, nil)

	if b.Dominant == nil || b.Dominant.Name != "Tank" {
		t.Fatalf("dominant selection is by intrinsic health, got %+v", b.Dominant)
	}
	if b.AbilitySource == nil || b.AbilitySource.Name != "Glass" {
		t.Fatalf("ability source selection is by rarity rank, got %+v", b.AbilitySource)
	}
	if b.Ability() == nil || b.Ability().Name != "Burst" {
		t.Fatalf("ability should come from the rarity-selected collectible")
	}
}

func TestCompute_TiesKeepFirst(t *testing.T) {
	collectibles := []game.CollectibleTemplate{
		{Name: "First", Rarity: game.RarityRare, Attack: 3, Health: 40},
		{Name: "Second", Rarity: game.RarityRare, Attack: 7, Health: 40},
	}
	b := Compute(1, 1, collectibles, nil)
	if b.Dominant.Name != "First" || b.AbilitySource.Name != "First" {
		t.Fatalf("ties should retain the first collectible, got dominant=%s source=%s", b.Dominant.Name, b.AbilitySource.Name)
	}
}

func TestCompute_MixedBuff(t *testing.T) {
	collectibles := []game.CollectibleTemplate{
		{Name: "M", Rarity: game.RarityMythic, Attack: 5, Health: 30, Buff: game.Buff{
			Kind:           game.BuffMixed,
			AttackPercent:  0.2,
			DefensePercent: 0.1,
			HealthFlat:     15,
			AttackFlat:     4,
		}},
	}
	b := Compute(0, 0, collectibles, nil)
	if b.AttackPercentBonus != 0.2 || b.DefensePercentBonus != 0.1 {
		t.Fatalf("mixed percent sub-fields not applied: atk=%v def=%v", b.AttackPercentBonus, b.DefensePercentBonus)
	}
	// base 10 + dominant attack 5 + flat 4, then *1.2 = 22.8 -> 22
	if b.TotalPower != 22 {
		t.Fatalf("expected total power 22, got %d", b.TotalPower)
	}
	// base 50 + dominant health 30 + flat 15
	if b.TotalHealth != 95 {
		t.Fatalf("expected total health 95, got %d", b.TotalHealth)
	}
}

func TestCompute_UnknownBuffIgnored(t *testing.T) {
	collectibles := []game.CollectibleTemplate{
		{Name: "Odd", Rarity: game.RarityCommon, Attack: 2, Health: 10, Buff: game.Buff{Kind: game.BuffKind("lifesteal"), Percent: 0.5, Amount: 99}},
	}
	b := Compute(0, 0, collectibles, nil)
	if b.AttackPercentBonus != 0 || b.DefensePercentBonus != 0 {
		t.Fatalf("unknown buff kinds must be ignored")
	}
	if b.TotalPower != 12 {
		t.Fatalf("expected total power 12 from base plus dominant attack, got %d", b.TotalPower)
	}
}

func TestCompute_AllPercentAppliesBothSides(t *testing.T) {
	collectibles := []game.CollectibleTemplate{
		{Name: "Aura", Rarity: game.RarityRare, Attack: 0, Health: 0, Buff: game.Buff{Kind: game.BuffAllPercent, Percent: 0.15}},
	}
	b := Compute(0, 0, collectibles, nil)
	if b.AttackPercentBonus != 0.15 || b.DefensePercentBonus != 0.15 {
		t.Fatalf("all_percent must feed both percent totals, got atk=%v def=%v", b.AttackPercentBonus, b.DefensePercentBonus)
	}
}
