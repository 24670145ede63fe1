package database

import (
	"fmt"

	"finance-ledger/internal/models"

	"gorm.io/gorm"
)

// Migrate runs database schema migrations for all models. It is idempotent and
// runs once at process start, before the server accepts requests.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.Asset{},
		&models.Backup{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
