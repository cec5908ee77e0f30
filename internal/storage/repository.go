package storage

import (
	"errors"

	"github.com/190dpa/literate-umbrella/internal/game"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrInsufficientFunds rejects a purchase before any state mutates.
	ErrInsufficientFunds = errors.New("not enough coins")
)

// Repository is the persistence boundary the core depends on. Coin and
// progression updates are atomic per operation; a purchase either charges
// and grants together or does neither.
type Repository interface {
	CreateUser(u *game.User) error
	GetUserByID(id uint) (*game.User, error)
	GetUserByUsername(username string) (*game.User, error)
	GetUserByEmail(email string) (*game.User, error)
	SaveUser(u *game.User) error

	// AdjustCoins applies delta atomically; balances never go below zero.
	AdjustCoins(userID uint, delta int) error

	GetOwnedCollectibles(userID uint) ([]game.OwnedCollectible, error)
	GetOwnedWeapons(userID uint) ([]game.OwnedWeapon, error)
	GrantCollectible(userID uint, templateName string) error
	GrantWeapon(userID uint, templateName string) error

	// PurchaseCollectible and PurchaseWeapon deduct cost and append the
	// grant in one transaction.
	PurchaseCollectible(userID uint, cost int, templateName string) error
	PurchaseWeapon(userID uint, cost int, templateName string) error

	// RecordResult bumps win/loss tallies for a finished battle. The
	// loser id may be zero for PvE battles.
	RecordResult(winnerID, loserID uint) error

	GetTopPlayers(limit int) ([]game.User, error)
}
