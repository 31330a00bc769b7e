package schema

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Dataset names as published on the CDN, without the .json suffix.
const (
	DatasetItems              = "items"
	DatasetRecipes            = "recipes"
	DatasetRecipeIngredients  = "recipeIngredients"
	DatasetRecipeResults      = "recipeResults"
	DatasetRecipeCategories   = "recipeCategories"
	DatasetStates             = "states"
	DatasetActions            = "actions"
	DatasetEquipmentItemTypes = "equipmentItemTypes"
)

// Datasets lists every dataset the sync and mirror commands know about.
var Datasets = []string{
	DatasetItems,
	DatasetRecipes,
	DatasetRecipeIngredients,
	DatasetRecipeResults,
	DatasetRecipeCategories,
	DatasetStates,
	DatasetActions,
	DatasetEquipmentItemTypes,
}

// Path is a gjson path to a scalar field of one dataset row.
type Path string

func (p Path) Get(raw []byte) gjson.Result {
	return gjson.GetBytes(raw, string(p))
}

func (p Path) Int(raw []byte) int {
	return int(p.Get(raw).Int())
}

// Localized is a gjson path to an object keyed by language code.
type Localized string

func (l Localized) Get(raw []byte, lang string) string {
	return gjson.GetBytes(raw, string(l)+"."+lang).String()
}

func (l Localized) All(raw []byte) map[string]string {
	res := gjson.GetBytes(raw, string(l))
	if !res.IsObject() {
		return nil
	}
	out := make(map[string]string)
	res.ForEach(func(k, v gjson.Result) bool {
		if s := v.String(); s != "" {
			out[k.String()] = s
		}
		return true
	})
	return out
}

type ItemFields struct {
	ID          Path
	Level       Path
	TypeID      Path
	Title       Localized
	Description Localized
}

type RecipeFields struct {
	ID         Path
	CategoryID Path
	Level      Path
}

type IngredientFields struct {
	RecipeID Path
	ItemID   Path
	Quantity Path
	Order    Path
}

type ResultFields struct {
	RecipeID Path
	ItemID   Path
	Quantity Path
}

type StateFields struct {
	ID          Path
	Title       Localized
	Description Localized
}

type ActionFields struct {
	ID          Path
	Effect      Path
	Description Localized
}

type CategoryFields struct {
	ID    Path
	Title Localized
}

type EquipmentTypeFields struct {
	ID       Path
	ParentID Path
	Title    Localized
}

// Mapping names exactly one path per field per dataset for one schema
// generation of the CDN.
type Mapping struct {
	Name           string
	Items          ItemFields
	Recipes        RecipeFields
	Ingredients    IngredientFields
	Results        ResultFields
	States         StateFields
	Actions        ActionFields
	Categories     CategoryFields
	EquipmentTypes EquipmentTypeFields
}

// MissingFieldError reports a required field absent from a dataset row.
type MissingFieldError struct {
	Generation string
	Dataset    string
	Field      string
	Path       string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("schema %s: dataset %s: field %s (%s) not present", e.Generation, e.Dataset, e.Field, e.Path)
}

type field struct {
	name string
	path string
}

func (m *Mapping) required(dataset string) []field {
	switch dataset {
	case DatasetItems:
		return []field{{"id", string(m.Items.ID)}, {"title", string(m.Items.Title)}}
	case DatasetRecipes:
		return []field{{"id", string(m.Recipes.ID)}}
	case DatasetRecipeIngredients:
		return []field{
			{"recipeId", string(m.Ingredients.RecipeID)},
			{"itemId", string(m.Ingredients.ItemID)},
			{"quantity", string(m.Ingredients.Quantity)},
		}
	case DatasetRecipeResults:
		return []field{
			{"recipeId", string(m.Results.RecipeID)},
			{"itemId", string(m.Results.ItemID)},
		}
	case DatasetStates:
		return []field{{"id", string(m.States.ID)}}
	case DatasetActions:
		return []field{{"id", string(m.Actions.ID)}}
	case DatasetRecipeCategories:
		return []field{{"id", string(m.Categories.ID)}}
	case DatasetEquipmentItemTypes:
		return []field{{"id", string(m.EquipmentTypes.ID)}}
	}
	return nil
}

// Validate checks that raw, a row of dataset, carries every field this
// generation requires.
func (m *Mapping) Validate(dataset string, raw []byte) error {
	for _, f := range m.required(dataset) {
		if !gjson.GetBytes(raw, f.path).Exists() {
			return &MissingFieldError{Generation: m.Name, Dataset: dataset, Field: f.name, Path: f.path}
		}
	}
	return nil
}
