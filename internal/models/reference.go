package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferenceRow holds the columns shared by every reference table. Rows without
// a household are global and visible to every household.
type ReferenceRow struct {
	ID          uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	HouseholdID *uuid.UUID `gorm:"type:varchar(36);index" json:"household_id,omitempty"`
	Name        string     `gorm:"not null" json:"name"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Row exposes the shared columns of any reference model.
func (r *ReferenceRow) Row() *ReferenceRow { return r }

// Referencer is implemented by every reference table model.
type Referencer interface {
	Row() *ReferenceRow
	TableName() string
}

// BeforeCreate assigns an ID when none was set.
func (r *ReferenceRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Ingredient struct {
	ReferenceRow
}

func (Ingredient) TableName() string { return "ingredient" }

type Unit struct {
	ReferenceRow
}

func (Unit) TableName() string { return "unit" }

type Cuisine struct {
	ReferenceRow
}

func (Cuisine) TableName() string { return "cuisine" }

type RecipeTag struct {
	ReferenceRow
}

func (RecipeTag) TableName() string { return "recipe_tag" }

type Meal struct {
	ReferenceRow
}

func (Meal) TableName() string { return "meal" }

// ReferenceModels returns one zero value per reference table, for migrations.
func ReferenceModels() []interface{} {
	return []interface{}{
		&Ingredient{},
		&Unit{},
		&Cuisine{},
		&RecipeTag{},
		&Meal{},
	}
}

// NewReference builds a row for the named table.
func NewReference(table, name string, household *uuid.UUID) (Referencer, error) {
	row := ReferenceRow{Name: name, HouseholdID: household}
	switch table {
	case "ingredient":
		return &Ingredient{row}, nil
	case "unit":
		return &Unit{row}, nil
	case "cuisine":
		return &Cuisine{row}, nil
	case "recipe_tag":
		return &RecipeTag{row}, nil
	case "meal":
		return &Meal{row}, nil
	default:
		return nil, fmt.Errorf("unknown reference table %q", table)
	}
}
