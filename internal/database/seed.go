package database

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/horvbalint/recet/internal/models"
)

// ReferenceSeed lists reference names per table, e.g.
//
//	unit: [g, kg, tablespoon]
//	cuisine: [italian, hungarian]
type ReferenceSeed map[string][]string

// ParseReferenceSeed reads a YAML reference seed and rejects unknown tables.
func ParseReferenceSeed(r io.Reader) (ReferenceSeed, error) {
	var seed ReferenceSeed
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		if err == io.EOF {
			return ReferenceSeed{}, nil
		}
		return nil, fmt.Errorf("failed to parse reference seed: %w", err)
	}
	for table := range seed {
		if _, err := models.NewReference(table, "", nil); err != nil {
			return nil, err
		}
	}
	return seed, nil
}

// SeedReferences inserts every name of seed that is not already present for
// household (nil means global rows). It returns the number of rows created.
func SeedReferences(ctx context.Context, db *gorm.DB, seed ReferenceSeed, household *uuid.UUID) (int, error) {
	tables := make([]string, 0, len(seed))
	for table := range seed {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	created := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			for _, raw := range seed[table] {
				name := strings.TrimSpace(raw)
				if name == "" {
					continue
				}
				row, err := models.NewReference(table, name, household)
				if err != nil {
					return err
				}

				q := tx.Where("LOWER(name) = LOWER(?)", name)
				if household == nil {
					q = q.Where("household_id IS NULL")
				} else {
					q = q.Where("household_id = ?", household.String())
				}
				var existing int64
				if err := q.Model(row).Count(&existing).Error; err != nil {
					return fmt.Errorf("failed to look up %s %q: %w", table, name, err)
				}
				if existing > 0 {
					continue
				}
				if err := tx.Create(row).Error; err != nil {
					return fmt.Errorf("failed to seed %s %q: %w", table, name, err)
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
