package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/190dpa/literate-umbrella/internal/game"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arena_config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `{
  "collectible_list": [
    {"name": "Ember Pup", "rarity": "common", "attack": 4, "health": 20,
     "buff": {"kind": "attack_flat", "amount": 2}},
    {"name": "Storm Herald", "rarity": "rare", "attack": 10, "health": 32,
     "ability": {"name": "Thunderclap", "damage": 60}}
  ],
  "weapon_list": [
    {"name": "Iron Saber", "rarity": "common", "attack_bonus": 5}
  ],
  "opponent_list": [
    {"name": "Training Dummy", "power": 60, "health": 120}
  ],
  "shop": {"character_cost": 150, "weapon_cost": 90},
  "server": {"address": ":9090"}
}`

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Collectibles) != 2 || len(cfg.Weapons) != 1 || len(cfg.Opponents) != 1 {
		t.Fatalf("unexpected list sizes: %+v", cfg)
	}
	if cfg.CharacterCost != 150 || cfg.WeaponCost != 90 {
		t.Fatalf("shop costs not applied: %d/%d", cfg.CharacterCost, cfg.WeaponCost)
	}
	if cfg.ServerAddress != ":9090" {
		t.Fatalf("server address not applied: %s", cfg.ServerAddress)
	}

	catalog := cfg.Catalog()
	if _, ok := catalog.Collectible("ember pup"); !ok {
		t.Fatalf("catalog lookups are case-insensitive")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	body := `{
  "collectible_list": [{"name": "A", "rarity": "common", "attack": 1, "health": 1}],
  "weapon_list": [],
  "opponent_list": [{"name": "Dummy", "power": 1, "health": 1}]
}`
	cfg, err := LoadConfig(writeConfig(t, body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CharacterCost != 100 || cfg.WeaponCost != 75 || cfg.ServerAddress != ":8080" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfig_DropRates(t *testing.T) {
	body := `{
  "collectible_list": [{"name": "A", "rarity": "common", "attack": 1, "health": 1}],
  "opponent_list": [{"name": "Dummy", "power": 1, "health": 1}],
  "drop_rates": {"common": 0.30, "Rare": 0.55}
}`
	cfg, err := LoadConfig(writeConfig(t, body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	catalog := cfg.Catalog()
	if got := catalog.DropChance(game.RarityCommon); got != 0.30 {
		t.Fatalf("common override not applied, got %v", got)
	}
	// Keys are normalized the same way template names are.
	if got := catalog.DropChance(game.RarityRare); got != 0.55 {
		t.Fatalf("rare override not applied, got %v", got)
	}
	// Tiers without an override keep the published mass.
	if got := catalog.DropChance(game.RarityLegendary); got != game.DropChance(game.RarityLegendary) {
		t.Fatalf("legendary should keep its published mass, got %v", got)
	}
	if got := catalog.DropChance(game.RaritySpecial); got != 0 {
		t.Fatalf("the special tier can never gain mass, got %v", got)
	}
}

func TestLoadConfig_Rejections(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing file is an error", ""},
		{"empty collectibles", `{"collectible_list": [], "opponent_list": [{"name": "D", "power": 1, "health": 1}]}`},
		{"empty opponents", `{"collectible_list": [{"name": "A", "rarity": "common"}], "opponent_list": []}`},
		{"duplicate name case-insensitive", `{
  "collectible_list": [
    {"name": "Ember Pup", "rarity": "common"},
    {"name": "ember pup", "rarity": "rare"}
  ],
  "opponent_list": [{"name": "D", "power": 1, "health": 1}]}`},
		{"unknown rarity", `{
  "collectible_list": [{"name": "A", "rarity": "iridescent"}],
  "opponent_list": [{"name": "D", "power": 1, "health": 1}]}`},
		{"ability without damage", `{
  "collectible_list": [{"name": "A", "rarity": "common", "ability": {"name": "Zap", "damage": 0}}],
  "opponent_list": [{"name": "D", "power": 1, "health": 1}]}`},
		{"opponent without power", `{
  "collectible_list": [{"name": "A", "rarity": "common"}],
  "opponent_list": [{"name": "D", "power": 0, "health": 1}]}`},
		{"drop rate for the special tier", `{
  "collectible_list": [{"name": "A", "rarity": "common"}],
  "opponent_list": [{"name": "D", "power": 1, "health": 1}],
  "drop_rates": {"special": 0.1}}`},
		{"drop rate for an unknown rarity", `{
  "collectible_list": [{"name": "A", "rarity": "common"}],
  "opponent_list": [{"name": "D", "power": 1, "health": 1}],
  "drop_rates": {"iridescent": 0.1}}`},
		{"drop rate outside [0,1]", `{
  "collectible_list": [{"name": "A", "rarity": "common"}],
  "opponent_list": [{"name": "D", "power": 1, "health": 1}],
  "drop_rates": {"common": 1.5}}`},
		{"drop rates exceeding total mass", `{
  "collectible_list": [{"name": "A", "rarity": "common"}],
  "opponent_list": [{"name": "D", "power": 1, "health": 1}],
  "drop_rates": {"common": 0.9, "rare": 0.9}}`},
	}

	for _, c := range cases {
		path := filepath.Join(t.TempDir(), "missing.json")
		if c.body != "" {
			path = writeConfig(t, c.body)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
	}
}
