package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/190dpa/literate-umbrella/internal/game"
	"github.com/190dpa/literate-umbrella/internal/loot"
	"github.com/190dpa/literate-umbrella/internal/storage"
)

// Shop sells randomized collectible and weapon rolls. The roll itself is
// pure; the charge and the grant land in one repository transaction so a
// player is never charged without receiving the item.
type Shop struct {
	repo    storage.Repository
	catalog *game.Catalog

	CharacterCost int
	WeaponCost    int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewShop(repo storage.Repository, catalog *game.Catalog, characterCost, weaponCost int) *Shop {
	return &Shop{
		repo:          repo,
		catalog:       catalog,
		CharacterCost: characterCost,
		WeaponCost:    weaponCost,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// RollCharacter draws one collectible and completes the purchase atomically.
// storage.ErrInsufficientFunds comes back with no state mutated.
func (s *Shop) RollCharacter(userID uint) (game.CollectibleTemplate, error) {
	s.mu.Lock()
	rolled, err := loot.RollCollectible(s.catalog, s.rng)
	s.mu.Unlock()
	if err != nil {
		return game.CollectibleTemplate{}, err
	}
	if err := s.repo.PurchaseCollectible(userID, s.CharacterCost, rolled.Name); err != nil {
		return game.CollectibleTemplate{}, err
	}
	return rolled, nil
}

// RollWeapon draws one weapon and completes the purchase atomically.
func (s *Shop) RollWeapon(userID uint) (game.WeaponTemplate, error) {
	s.mu.Lock()
	rolled, err := loot.RollWeapon(s.catalog, s.rng)
	s.mu.Unlock()
	if err != nil {
		return game.WeaponTemplate{}, err
	}
	if err := s.repo.PurchaseWeapon(userID, s.WeaponCost, rolled.Name); err != nil {
		return game.WeaponTemplate{}, err
	}
	return rolled, nil
}
