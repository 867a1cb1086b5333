package storage

import (
	"github.com/arrakeen/dune-battles/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the SQLite database and brings the schema up to
// date. Card and leader definitions are not persisted; they live in the
// rules registry loaded from the config file, which stays the single
// source of truth.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&game.Game{},
		&game.Player{},
		&game.LeaderState{},
		&game.ForceStack{},
		&game.BattleReport{},
		&game.User{},
	)
	if err != nil {
		return nil, err
	}

	// One row per faction per sector; the service accumulates forces into
	// the existing stack instead of inserting duplicates.
	if execErr := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_force_stacks_position ON force_stacks(game_id, faction, territory, sector);").Error; execErr != nil {
		return nil, execErr
	}
	return db, nil
}
