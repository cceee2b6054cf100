package database

import (
	"fmt"
	"log/slog"

	"github.com/horvbalint/recet/internal/extraction"
	"github.com/horvbalint/recet/internal/models"
	"gorm.io/gorm"
)

// RunMigrations creates the reference tables. On Postgres it also enables
// pg_trgm and adds trigram and full-text indexes used by fuzzy lookups.
func RunMigrations(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		slog.Info("using gorm auto-migration for sqlite")
		return db.AutoMigrate(models.ReferenceModels()...)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`).Error; err != nil {
		return fmt.Errorf("failed to enable pg_trgm: %w", err)
	}

	if err := db.AutoMigrate(models.ReferenceModels()...); err != nil {
		return fmt.Errorf("failed to migrate reference tables: %w", err)
	}

	for _, table := range extraction.Tables {
		statements := []string{
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_name_trgm ON %[1]s USING GIN (name gin_trgm_ops)`, table),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_name_fts ON %[1]s USING GIN (to_tsvector('simple', name))`, table),
			fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_household_name ON %[1]s (COALESCE(household_id, ''), lower(name))`, table),
		}
		for _, stmt := range statements {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to index %s: %w", table, err)
			}
		}
		slog.Info("migrated reference table", "table", table)
	}

	return nil
}
