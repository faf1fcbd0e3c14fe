package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"explore-sync.backend/internal/infrastructure/models"
)

// OpenArtifact opens (creating if needed) the SQLite artifact database the
// pipeline populates and publishes.
func OpenArtifact(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create artifact directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.MerchantLocation{},
		&models.GiftCardProvider{},
		&models.AtmLocation{},
		&models.LocationMatch{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate artifact schema: %w", err)
	}
	return db, nil
}
