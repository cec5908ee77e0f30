package storage

import (
	"github.com/190dpa/literate-umbrella/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the SQLite database and keeps the schema updated via
// AutoMigrate. Template definitions live in the arena config, never in the
// database, so there is nothing to seed here.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&game.User{}, &game.OwnedCollectible{}, &game.OwnedWeapon{}); err != nil {
		return nil, err
	}
	return db, nil
}
