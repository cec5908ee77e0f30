package game

import (
	"gorm.io/gorm"
)

// User stores account identity, wallet, attributes and progression. Combat
// stats are never persisted here; they are derived fresh from the user's
// inventory at the start of every battle.
type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"uniqueIndex"`
	Email        string `json:"email" gorm:"index"`
	PasswordHash string `json:"-"`

	Coins int `json:"coins"`

	Level         int `json:"level"`
	XP            int `json:"xp"`
	XPToNextLevel int `json:"xp_to_next_level"`
	StatPoints    int `json:"stat_points"`
	Strength      int `json:"strength"`
	Vitality      int `json:"vitality"`

	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Unify the global users table name as "player_profiles".
func (User) TableName() string { return "player_profiles" }

// OwnedCollectible is one granted collectible in a player's inventory. Only
// the template name is persisted; intrinsic stats, buffs and abilities always
// come from the configured catalog so the config stays the source of truth.
type OwnedCollectible struct {
	gorm.Model
	UserID       uint   `json:"-" gorm:"index"`
	TemplateName string `json:"template_name"`
}

func (OwnedCollectible) TableName() string { return "owned_collectibles" }

// OwnedWeapon is one granted weapon in a player's inventory.
type OwnedWeapon struct {
	gorm.Model
	UserID       uint   `json:"-" gorm:"index"`
	TemplateName string `json:"template_name"`
}

func (OwnedWeapon) TableName() string { return "owned_weapons" }

// BuffKind discriminates the passive bonus a collectible grants. Using a
// dedicated type with exhaustive switches makes new kinds a compile-time
// decision instead of string-keyed dispatch.
type BuffKind string

const (
	BuffNone           BuffKind = ""
	BuffAttackPercent  BuffKind = "attack_percent"
	BuffDefensePercent BuffKind = "defense_percent"
	BuffHealthFlat     BuffKind = "health_flat"
	BuffAttackFlat     BuffKind = "attack_flat"
	BuffAllPercent     BuffKind = "all_percent"
	BuffMixed          BuffKind = "mixed"
)

// Buff is the tagged payload for a collectible's passive bonus. Which fields
// are meaningful depends on Kind: percent kinds read Percent, flat kinds read
// Amount, and mixed reads the explicit sub-fields.
type Buff struct {
	Kind    BuffKind `json:"kind"`
	Percent float64  `json:"percent,omitempty"`
	Amount  int      `json:"amount,omitempty"`

	// Sub-fields for Kind == "mixed".
	AttackPercent  float64 `json:"attack_percent,omitempty"`
	DefensePercent float64 `json:"defense_percent,omitempty"`
	HealthFlat     int     `json:"health_flat,omitempty"`
	AttackFlat     int     `json:"attack_flat,omitempty"`
}

// Ability is the one-shot awakening attached to a subset of collectibles.
type Ability struct {
	Name       string   `json:"name"`
	Damage     int      `json:"damage"`
	Lines      []string `json:"lines,omitempty"`
	AudioTheme string   `json:"audio_theme,omitempty"`
}

// CollectibleTemplate is a configured collectible definition. Templates are
// loaded from the arena config file and are never persisted.
type CollectibleTemplate struct {
	Name    string   `json:"name"`
	Rarity  Rarity   `json:"rarity"`
	Attack  int      `json:"attack"`
	Health  int      `json:"health"`
	Buff    Buff     `json:"buff"`
	Ability *Ability `json:"ability,omitempty"`
}

// WeaponTemplate is a configured weapon definition.
type WeaponTemplate struct {
	Name        string `json:"name"`
	Rarity      Rarity `json:"rarity"`
	AttackBonus int    `json:"attack_bonus"`
}

// Opponent is one scripted PvE opponent from the configured catalog.
type Opponent struct {
	Name   string `json:"name"`
	Power  int    `json:"power"`
	Health int    `json:"health"`
}
