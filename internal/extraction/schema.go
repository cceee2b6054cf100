package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Table names a reference table that freeform labels are resolved against.
type Table string

const (
	TableIngredient Table = "ingredient"
	TableUnit       Table = "unit"
	TableCuisine    Table = "cuisine"
	TableTag        Table = "recipe_tag"
	TableMeal       Table = "meal"
)

// Tables lists every reference table, in resolution order.
var Tables = []Table{TableIngredient, TableUnit, TableCuisine, TableTag, TableMeal}

// Valid reports whether t is one of the known reference tables.
func (t Table) Valid() bool {
	for _, known := range Tables {
		if t == known {
			return true
		}
	}
	return false
}

// Reference points at a row of a reference table.
type Reference struct {
	Table Table  `json:"table"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}

// Portions is either a serving count or a free-text yield ("2 loaves").
// Exactly one of Number and Text is set.
type Portions struct {
	Number *float64
	Text   *string
}

// NumberPortions returns a numeric Portions value.
func NumberPortions(n float64) *Portions {
	return &Portions{Number: &n}
}

// TextPortions returns a free-text Portions value.
func TextPortions(s string) *Portions {
	return &Portions{Text: &s}
}

// String renders the portions for logs and prompts.
func (p Portions) String() string {
	switch {
	case p.Number != nil:
		return strconv.FormatFloat(*p.Number, 'f', -1, 64)
	case p.Text != nil:
		return *p.Text
	default:
		return ""
	}
}

// MarshalJSON writes the numeric or text form as a bare JSON value.
func (p Portions) MarshalJSON() ([]byte, error) {
	switch {
	case p.Number != nil:
		return json.Marshal(*p.Number)
	case p.Text != nil:
		return json.Marshal(*p.Text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON number or a JSON string.
func (p *Portions) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Portions{}
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*p = *NumberPortions(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*p = *TextPortions(str)
		return nil
	}

	return fmt.Errorf("portions must be a number or a string, got %s", data)
}

// IngredientExtraction is one decomposed ingredient line.
type IngredientExtraction struct {
	Name        string   `json:"name"`
	Amount      *float64 `json:"amount"`
	UnitLabel   *string  `json:"unitLabel"`
	Description *string  `json:"description"`

	// Filled by the resolver only.
	Ingredient *Reference `json:"ingredient"`
	Unit       *Reference `json:"unit"`
}

// RecipeExtraction is the canonical internal representation of an extracted recipe.
// Freeform labels produced by the model are kept apart from the references the
// resolver attaches to them, whichever schema generation was decoded.
type RecipeExtraction struct {
	Name               *string                `json:"name"`
	Portions           *Portions              `json:"portions"`
	Ingredients        []IngredientExtraction `json:"ingredients"`
	Steps              []string               `json:"steps"`
	CuisineLabel       *string                `json:"cuisineLabel"`
	Cuisine            *Reference             `json:"cuisine"`
	CookingTimeMinutes *int                   `json:"cookingTimeMinutes"`
	TagLabels          []string               `json:"tagLabels"`
	Tags               []Reference            `json:"tags"`
	MealLabels         []string               `json:"mealLabels"`
	Meals              []Reference            `json:"meals"`
	ImageURL           *string                `json:"imageUrl"`
}

// NewRecipeExtraction returns an empty record with every list initialised.
func NewRecipeExtraction() *RecipeExtraction {
	return &RecipeExtraction{
		Ingredients: []IngredientExtraction{},
		Steps:       []string{},
		TagLabels:   []string{},
		Tags:        []Reference{},
		MealLabels:  []string{},
		Meals:       []Reference{},
	}
}

// Generation identifies which JSON shape the model produced.
type Generation int

const (
	// GenerationLabeled pairs "*_string" labels with separate reference fields
	// (cuisine_string/cuisine, tag_strings/tags, unit_string/unit).
	GenerationLabeled Generation = iota
	// GenerationPlural carries plain label arrays (cuisines, tags, meals) and a
	// plain "unit" string with no resolved counterpart.
	GenerationPlural
)

func (g Generation) String() string {
	switch g {
	case GenerationLabeled:
		return "labeled"
	case GenerationPlural:
		return "plural"
	default:
		return "unknown"
	}
}
