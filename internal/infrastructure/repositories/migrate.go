package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"wallet-registry.backend/internal/infrastructure/models"
)

// Migrate creates the schema and the uniqueness indexes the registry's
// invariants depend on. The partial unique index (one primary row per owner)
// is created with raw SQL: gorm tags cannot express WHERE clauses portably
// across postgres and sqlite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Network{}, &models.Wallet{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	var predicate string
	switch db.Dialector.Name() {
	case "sqlite":
		predicate = "is_primary = 1"
	default:
		predicate = "is_primary"
	}

	stmt := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS uniq_wallets_owner_primary ON wallets (user_id) WHERE %s",
		predicate,
	)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create primary-uniqueness index: %w", err)
	}

	return nil
}
