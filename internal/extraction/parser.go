package extraction

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed recipe.schema.json
var recipeSchemaDocument []byte

var (
	recipeSchemaOnce sync.Once
	recipeSchema     *jsonschema.Schema
	recipeSchemaErr  error
)

func compiledRecipeSchema() (*jsonschema.Schema, error) {
	recipeSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("recipe.schema.json", bytes.NewReader(recipeSchemaDocument)); err != nil {
			recipeSchemaErr = fmt.Errorf("failed to load recipe schema: %w", err)
			return
		}
		recipeSchema, recipeSchemaErr = compiler.Compile("recipe.schema.json")
		if recipeSchemaErr != nil {
			recipeSchemaErr = fmt.Errorf("failed to compile recipe schema: %w", recipeSchemaErr)
		}
	})
	return recipeSchema, recipeSchemaErr
}

// labeledDocument is the shape requested by SystemPrompt.
type labeledDocument struct {
	Name               *string             `json:"name"`
	Portions           *Portions           `json:"portions"`
	Ingredients        []labeledIngredient `json:"ingredients"`
	Steps              []string            `json:"steps"`
	CuisineString      *string             `json:"cuisine_string"`
	CookingTimeMinutes *float64            `json:"cooking_time_minutes"`
	TagStrings         []string            `json:"tag_strings"`
	MealStrings        []string            `json:"meal_strings"`
	ImageURL           *string             `json:"image_url"`
}

type labeledIngredient struct {
	Name        string   `json:"name"`
	Amount      *float64 `json:"amount"`
	UnitString  *string  `json:"unit_string"`
	Description *string  `json:"description"`
}

// pluralDocument is the later shape with plain label arrays.
type pluralDocument struct {
	Name               *string            `json:"name"`
	Portions           *Portions          `json:"portions"`
	Ingredients        []pluralIngredient `json:"ingredients"`
	Steps              []string           `json:"steps"`
	Cuisines           []string           `json:"cuisines"`
	CookingTimeMinutes *float64           `json:"cooking_time_minutes"`
	Tags               []string           `json:"tags"`
	Meals              []string           `json:"meals"`
	ImageURL           *string            `json:"image_url"`
}

type pluralIngredient struct {
	Name        string   `json:"name"`
	Amount      *float64 `json:"amount"`
	Unit        *string  `json:"unit"`
	Description *string  `json:"description"`
}

// ParseCompletion decodes raw completion content into a RecipeExtraction.
// Reference fields in the input are ignored; only the resolver sets them.
// Any decoding or validation failure is returned as a *SchemaError.
func ParseCompletion(raw string) (*RecipeExtraction, Generation, error) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, GenerationLabeled, &SchemaError{Raw: raw, Err: err}
	}

	schema, err := compiledRecipeSchema()
	if err != nil {
		return nil, GenerationLabeled, &SchemaError{Raw: raw, Err: err}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, GenerationLabeled, &SchemaError{Raw: raw, Err: err}
	}

	object, _ := doc.(map[string]any)
	generation := DetectGeneration(object)

	var rec *RecipeExtraction
	switch generation {
	case GenerationPlural:
		var d pluralDocument
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, generation, &SchemaError{Raw: raw, Err: err}
		}
		rec = d.normalize()
	default:
		var d labeledDocument
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, generation, &SchemaError{Raw: raw, Err: err}
		}
		rec = d.normalize()
	}
	return rec, generation, nil
}

// DetectGeneration decides which shape a decoded object uses. Any "*_string"
// key marks the labeled generation; label arrays or a string "unit" mark the
// plural one. Objects with neither default to labeled.
func DetectGeneration(object map[string]any) Generation {
	for _, key := range []string{"cuisine_string", "tag_strings", "meal_strings"} {
		if _, ok := object[key]; ok {
			return GenerationLabeled
		}
	}
	ingredients, _ := object["ingredients"].([]any)
	for _, item := range ingredients {
		if m, ok := item.(map[string]any); ok {
			if _, ok := m["unit_string"]; ok {
				return GenerationLabeled
			}
		}
	}

	if _, ok := object["cuisines"]; ok {
		return GenerationPlural
	}
	for _, key := range []string{"tags", "meals"} {
		if isStringList(object[key]) {
			return GenerationPlural
		}
	}
	for _, item := range ingredients {
		if m, ok := item.(map[string]any); ok {
			if _, ok := m["unit"].(string); ok {
				return GenerationPlural
			}
		}
	}
	return GenerationLabeled
}

func isStringList(v any) bool {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return false
	}
	for _, item := range list {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

func (d labeledDocument) normalize() *RecipeExtraction {
	rec := NewRecipeExtraction()
	rec.Name = d.Name
	rec.Portions = d.Portions
	rec.Steps = nonNil(d.Steps)
	rec.CuisineLabel = label(d.CuisineString)
	rec.CookingTimeMinutes = minutes(d.CookingTimeMinutes)
	rec.TagLabels = labels(d.TagStrings)
	rec.MealLabels = labels(d.MealStrings)
	rec.ImageURL = d.ImageURL
	for _, ing := range d.Ingredients {
		rec.Ingredients = append(rec.Ingredients, IngredientExtraction{
			Name:        ing.Name,
			Amount:      ing.Amount,
			UnitLabel:   label(ing.UnitString),
			Description: ing.Description,
		})
	}
	return rec
}

func (d pluralDocument) normalize() *RecipeExtraction {
	rec := NewRecipeExtraction()
	rec.Name = d.Name
	rec.Portions = d.Portions
	rec.Steps = nonNil(d.Steps)
	rec.CookingTimeMinutes = minutes(d.CookingTimeMinutes)
	rec.TagLabels = labels(d.Tags)
	rec.MealLabels = labels(d.Meals)
	rec.ImageURL = d.ImageURL
	// Only one cuisine is kept; the first non-blank label wins.
	for _, c := range d.Cuisines {
		if l := label(&c); l != nil {
			rec.CuisineLabel = l
			break
		}
	}
	for _, ing := range d.Ingredients {
		rec.Ingredients = append(rec.Ingredients, IngredientExtraction{
			Name:        ing.Name,
			Amount:      ing.Amount,
			UnitLabel:   label(ing.Unit),
			Description: ing.Description,
		})
	}
	return rec
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// label trims a scalar label and drops it when blank.
func label(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func labels(in []string) []string {
	out := make([]string, 0, len(in))
	for i := range in {
		if l := label(&in[i]); l != nil {
			out = append(out, *l)
		}
	}
	return out
}

func minutes(f *float64) *int {
	if f == nil {
		return nil
	}
	m := int(*f)
	return &m
}
