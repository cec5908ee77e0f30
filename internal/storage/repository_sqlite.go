package storage

import (
	"errors"

	"github.com/190dpa/literate-umbrella/internal/game"

	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateUser(u *game.User) error {
	return r.db.Create(u).Error
}

func (r *sqliteRepository) GetUserByID(id uint) (*game.User, error) {
	var u game.User
	if err := r.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) GetUserByUsername(username string) (*game.User, error) {
	var u game.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) GetUserByEmail(email string) (*game.User, error) {
	var u game.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) SaveUser(u *game.User) error {
	return r.db.Save(u).Error
}

// AdjustCoins applies the delta in a single UPDATE so concurrent settlements
// cannot interleave. MAX keeps penalties from driving a balance negative.
func (r *sqliteRepository) AdjustCoins(userID uint, delta int) error {
	res := r.db.Model(&game.User{}).Where("id = ?", userID).
		Update("coins", gorm.Expr("MAX(coins + ?, 0)", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *sqliteRepository) GetOwnedCollectibles(userID uint) ([]game.OwnedCollectible, error) {
	var owned []game.OwnedCollectible
	if err := r.db.Where("user_id = ?", userID).Order("id").Find(&owned).Error; err != nil {
		return nil, err
	}
	return owned, nil
}

func (r *sqliteRepository) GetOwnedWeapons(userID uint) ([]game.OwnedWeapon, error) {
	var owned []game.OwnedWeapon
	if err := r.db.Where("user_id = ?", userID).Order("id").Find(&owned).Error; err != nil {
		return nil, err
	}
	return owned, nil
}

func (r *sqliteRepository) GrantCollectible(userID uint, templateName string) error {
	return r.db.Create(&game.OwnedCollectible{UserID: userID, TemplateName: templateName}).Error
}

func (r *sqliteRepository) GrantWeapon(userID uint, templateName string) error {
	return r.db.Create(&game.OwnedWeapon{UserID: userID, TemplateName: templateName}).Error
}

// chargeLocked deducts cost inside tx, failing without mutation when the
// balance is short. The guard lives in the WHERE clause so the check and the
// deduction are one statement.
func chargeLocked(tx *gorm.DB, userID uint, cost int) error {
	res := tx.Model(&game.User{}).
		Where("id = ? AND coins >= ?", userID, cost).
		Update("coins", gorm.Expr("coins - ?", cost))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func (r *sqliteRepository) PurchaseCollectible(userID uint, cost int, templateName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := chargeLocked(tx, userID, cost); err != nil {
			return err
		}
		return tx.Create(&game.OwnedCollectible{UserID: userID, TemplateName: templateName}).Error
	})
}

func (r *sqliteRepository) PurchaseWeapon(userID uint, cost int, templateName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := chargeLocked(tx, userID, cost); err != nil {
			return err
		}
		return tx.Create(&game.OwnedWeapon{UserID: userID, TemplateName: templateName}).Error
	})
}

func (r *sqliteRepository) RecordResult(winnerID, loserID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if winnerID != 0 {
			if err := tx.Model(&game.User{}).Where("id = ?", winnerID).
				Update("wins", gorm.Expr("wins + 1")).Error; err != nil {
				return err
			}
		}
		if loserID != 0 {
			if err := tx.Model(&game.User{}).Where("id = ?", loserID).
				Update("losses", gorm.Expr("losses + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTopPlayers returns the leaderboard ordered by level, then wins.
func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.User, error) {
	var users []game.User
	if err := r.db.Order("level DESC, wins DESC, xp DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
