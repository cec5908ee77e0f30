package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/190dpa/literate-umbrella/internal/game"
)

type rawConfig struct {
	CollectibleList []game.CollectibleTemplate `json:"collectible_list"`
	WeaponList      []game.WeaponTemplate      `json:"weapon_list"`
	OpponentList    []game.Opponent            `json:"opponent_list"`
	Shop            *struct {
		CharacterCost int `json:"character_cost"`
		WeaponCost    int `json:"weapon_cost"`
	} `json:"shop"`
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	DropRates map[string]float64 `json:"drop_rates"`
}

// LoadedConfig carries the validated template catalog and server settings.
type LoadedConfig struct {
	Collectibles []game.CollectibleTemplate
	Weapons      []game.WeaponTemplate
	Opponents    []game.Opponent
	DropRates    map[game.Rarity]float64

	CharacterCost int
	WeaponCost    int
	ServerAddress string
}

// Catalog builds the immutable runtime catalog from the loaded lists.
func (c *LoadedConfig) Catalog() *game.Catalog {
	return game.NewCatalogWithDropRates(c.Collectibles, c.Weapons, c.Opponents, c.DropRates)
}

// LoadConfig reads and validates the configuration file at path. It requires
// `collectible_list`, `weapon_list` and `opponent_list` (snake_case).
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.CollectibleList) == 0 {
		return nil, fmt.Errorf("config file %s: collectible_list is empty (provide a 'collectible_list' array)", path)
	}
	if len(rc.OpponentList) == 0 {
		return nil, fmt.Errorf("config file %s: opponent_list is empty (provide an 'opponent_list' array)", path)
	}

	// Cross-entry validation: unique names (case-insensitive), known
	// rarities, abilities with a usable damage amount.
	nameSet := make(map[string]struct{}, len(rc.CollectibleList))
	for _, t := range rc.CollectibleList {
		if t.Name == "" {
			return nil, fmt.Errorf("config file %s: collectible entry missing 'name'", path)
		}
		ln := strings.ToLower(strings.TrimSpace(t.Name))
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate collectible name '%s'", path, t.Name)
		}
		nameSet[ln] = struct{}{}
		if t.Rarity.Rank() == 0 {
			return nil, fmt.Errorf("config file %s: collectible '%s' has unknown rarity '%s'", path, t.Name, t.Rarity)
		}
		if t.Ability != nil {
			if strings.TrimSpace(t.Ability.Name) == "" {
				return nil, fmt.Errorf("config file %s: collectible '%s' ability missing 'name'", path, t.Name)
			}
			if t.Ability.Damage <= 0 {
				return nil, fmt.Errorf("config file %s: collectible '%s' ability needs a positive 'damage'", path, t.Name)
			}
		}
	}
	weaponSet := make(map[string]struct{}, len(rc.WeaponList))
	for _, w := range rc.WeaponList {
		if w.Name == "" {
			return nil, fmt.Errorf("config file %s: weapon entry missing 'name'", path)
		}
		lw := strings.ToLower(strings.TrimSpace(w.Name))
		if _, exists := weaponSet[lw]; exists {
			return nil, fmt.Errorf("config file %s: duplicate weapon name '%s'", path, w.Name)
		}
		weaponSet[lw] = struct{}{}
		if w.Rarity.Rank() == 0 {
			return nil, fmt.Errorf("config file %s: weapon '%s' has unknown rarity '%s'", path, w.Name, w.Rarity)
		}
	}
	for _, o := range rc.OpponentList {
		if o.Name == "" || o.Power <= 0 || o.Health <= 0 {
			return nil, fmt.Errorf("config file %s: opponent entries need 'name', positive 'power' and 'health'", path)
		}
	}

	// Optional drop-rate overrides: keys must name rollable rarities and the
	// overridden ladder must stay a valid distribution.
	var dropRates map[game.Rarity]float64
	if len(rc.DropRates) > 0 {
		dropRates = make(map[game.Rarity]float64, len(rc.DropRates))
		for k, v := range rc.DropRates {
			r := game.Rarity(strings.ToLower(strings.TrimSpace(k)))
			if !r.Rollable() {
				return nil, fmt.Errorf("config file %s: drop_rates key '%s' is not a rollable rarity", path, k)
			}
			if v < 0 || v > 1 {
				return nil, fmt.Errorf("config file %s: drop_rates['%s'] must be in [0, 1], got %v", path, k, v)
			}
			dropRates[r] = v
		}
		total := 0.0
		for _, r := range game.RarityOrder {
			if !r.Rollable() {
				continue
			}
			if v, ok := dropRates[r]; ok {
				total += v
			} else {
				total += game.DropChance(r)
			}
		}
		if total > 1+1e-9 {
			return nil, fmt.Errorf("config file %s: drop_rates push the ladder's total mass to %v (must not exceed 1)", path, total)
		}
	}

	out := &LoadedConfig{
		Collectibles:  rc.CollectibleList,
		Weapons:       rc.WeaponList,
		Opponents:     rc.OpponentList,
		DropRates:     dropRates,
		CharacterCost: 100,
		WeaponCost:    75,
		ServerAddress: ":8080",
	}
	if rc.Shop != nil {
		if rc.Shop.CharacterCost > 0 {
			out.CharacterCost = rc.Shop.CharacterCost
		}
		if rc.Shop.WeaponCost > 0 {
			out.WeaponCost = rc.Shop.WeaponCost
		}
	}
	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	return out, nil
}
