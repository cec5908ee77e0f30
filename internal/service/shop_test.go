package service

import (
	"testing"

	"github.com/190dpa/literate-umbrella/internal/game"
	"github.com/190dpa/literate-umbrella/internal/loot"
	"github.com/190dpa/literate-umbrella/internal/storage"
	"gorm.io/gorm"
)

func shopCatalog() *game.Catalog {
	return game.NewCatalog(
		[]game.CollectibleTemplate{{Name: "Ember Pup", Rarity: game.RarityCommon}},
		[]game.WeaponTemplate{{Name: "Iron Saber", Rarity: game.RarityCommon, AttackBonus: 5}},
		nil,
	)
}

func TestShop_RollCharacterPurchases(t *testing.T) {
	repo := newMockRepo(&game.User{Model: gorm.Model{ID: 1}, Coins: 500})
	s := NewShop(repo, shopCatalog(), 100, 75)

	rolled, err := s.RollCharacter(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rolled.Name != "Ember Pup" {
		t.Fatalf("unexpected roll: %+v", rolled)
	}
	if len(repo.purchases) != 1 || repo.purchases[0] != "Ember Pup" {
		t.Fatalf("the rolled template must be purchased, got %+v", repo.purchases)
	}
	if repo.users[1].Coins != 400 {
		t.Fatalf("expected the character cost deducted, got %d coins", repo.users[1].Coins)
	}
	if len(repo.collectibles[1]) != 1 {
		t.Fatalf("expected the grant to land, got %+v", repo.collectibles[1])
	}
}

func TestShop_RollWeaponPurchases(t *testing.T) {
	repo := newMockRepo(&game.User{Model: gorm.Model{ID: 1}, Coins: 500})
	s := NewShop(repo, shopCatalog(), 100, 75)

	rolled, err := s.RollWeapon(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rolled.Name != "Iron Saber" {
		t.Fatalf("unexpected roll: %+v", rolled)
	}
	if repo.users[1].Coins != 425 {
		t.Fatalf("expected the weapon cost deducted, got %d coins", repo.users[1].Coins)
	}
}

func TestShop_InsufficientFundsLeavesNoGrant(t *testing.T) {
	repo := newMockRepo(&game.User{Model: gorm.Model{ID: 1}, Coins: 10})
	repo.purchaseErr = storage.ErrInsufficientFunds
	s := NewShop(repo, shopCatalog(), 100, 75)

	if _, err := s.RollCharacter(1); err != storage.ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if len(repo.collectibles[1]) != 0 {
		t.Fatalf("a failed purchase must grant nothing")
	}
	if repo.users[1].Coins != 10 {
		t.Fatalf("a failed purchase must not charge, got %d coins", repo.users[1].Coins)
	}
}

func TestShop_EmptyTable(t *testing.T) {
	repo := newMockRepo(&game.User{Model: gorm.Model{ID: 1}, Coins: 500})
	catalog := game.NewCatalog(nil, nil, nil)
	s := NewShop(repo, catalog, 100, 75)

	if _, err := s.RollCharacter(1); err != loot.ErrEmptyTable {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
	if len(repo.purchases) != 0 {
		t.Fatalf("an unrollable table must not charge anyone")
	}
}
