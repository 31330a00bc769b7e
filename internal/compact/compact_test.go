package compact

import (
	"reflect"
	"testing"

	"github.com/OCharnyshevich/wakfu-craft/internal/schema"
	"github.com/OCharnyshevich/wakfu-craft/internal/stream"
	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

func TestBuildRecipes(t *testing.T) {
	recipes := []schema.RawRecipe{
		{ID: 3, CategoryID: 40, Level: 20},
		{ID: 1, CategoryID: 41, Level: 5},
		{ID: 2, CategoryID: 41, Level: 10},
	}
	ingredients := []schema.RawIngredient{
		{RecipeID: 1, ItemID: 200, Quantity: 5, Order: 1},
		{RecipeID: 1, ItemID: 201, Quantity: 2, Order: 0},
		{RecipeID: 3, ItemID: 202, Quantity: 1, Order: 0},
		{RecipeID: 9, ItemID: 203, Quantity: 1, Order: 0},
	}
	results := []schema.RawResult{
		{RecipeID: 1, ItemID: 100, Quantity: 1},
		{RecipeID: 3, ItemID: 101, Quantity: 4},
		{RecipeID: 3, ItemID: 102, Quantity: 1},
		{RecipeID: 8, ItemID: 103, Quantity: 1},
	}

	got, st := BuildRecipes(recipes, ingredients, results)

	want := []gamedata.Recipe{
		{ID: 1, ResultItemID: 100, ResultQty: 1, ProfessionID: 41, Level: 5,
			Ingredients: []gamedata.Ingredient{{ItemID: 201, Qty: 2}, {ItemID: 200, Qty: 5}}},
		{ID: 3, ResultItemID: 101, ResultQty: 4, ProfessionID: 40, Level: 20,
			Ingredients: []gamedata.Ingredient{{ItemID: 202, Qty: 1}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildRecipes =\n%+v\nwant\n%+v", got, want)
	}

	if st.Recipes != 3 || st.Built != 2 || st.SkippedNoResult != 1 {
		t.Errorf("unexpected counts %+v", st)
	}
	if st.OrphanIngredients != 1 || st.OrphanResults != 1 || st.ExtraResults != 1 {
		t.Errorf("unexpected orphan counts %+v", st)
	}
	if !reflect.DeepEqual(st.SampleSkippedRecipe, []int{2}) {
		t.Errorf("unexpected samples %v", st.SampleSkippedRecipe)
	}
}

func TestBuildRecipes_DuplicateIDs(t *testing.T) {
	recipes := []schema.RawRecipe{
		{ID: 10, CategoryID: 40, Level: 1},
		{ID: 10, CategoryID: 41, Level: 99},
		{ID: 11, CategoryID: 40, Level: 2},
	}
	ingredients := []schema.RawIngredient{
		{RecipeID: 10, ItemID: 1, Quantity: 2},
		{RecipeID: 11, ItemID: 2, Quantity: 1},
	}
	results := []schema.RawResult{
		{RecipeID: 10, ItemID: 3, Quantity: 1},
		{RecipeID: 11, ItemID: 4, Quantity: 1},
	}

	got, st := BuildRecipes(recipes, ingredients, results)

	if len(got) != 2 {
		t.Fatalf("expected 2 recipes, got %+v", got)
	}
	if got[0].ID != 10 || got[0].ProfessionID != 40 || got[0].Level != 1 {
		t.Errorf("expected the first row of recipe 10, got %+v", got[0])
	}
	if len(got[0].Ingredients) != 1 {
		t.Errorf("expected ingredients joined once, got %+v", got[0].Ingredients)
	}
	if st.DuplicateRecipes != 1 || st.Built != 2 || st.Recipes != 3 {
		t.Errorf("unexpected counts %+v", st)
	}
}

func TestNeededItemIDs(t *testing.T) {
	recipes := []gamedata.Recipe{
		{ResultItemID: 5, Ingredients: []gamedata.Ingredient{{ItemID: 3}, {ItemID: 9}}},
		{ResultItemID: 3, Ingredients: []gamedata.Ingredient{{ItemID: 1}}},
	}
	got := NeededItemIDs(recipes)
	if !reflect.DeepEqual(got, []int{1, 3, 5, 9}) {
		t.Errorf("NeededItemIDs = %v", got)
	}
}

func TestBuildItems(t *testing.T) {
	records := map[int]stream.Record{
		1: {ID: 1, Level: 10, Titles: map[string]string{"en": "Wheat", "fr": "Blé"}, Descriptions: map[string]string{"fr": "Une <i>céréale</i>"}},
		2: {ID: 2, Level: 0, Titles: map[string]string{"fr": "Pain"}},
	}

	items, missing := BuildItems(records, []int{3, 2, 1}, "en")
	want := []gamedata.Item{
		{ID: 1, Name: "Wheat", Level: 10},
		{ID: 2, Name: "#2"},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("BuildItems = %+v, want %+v", items, want)
	}
	if !reflect.DeepEqual(missing, []int{3}) {
		t.Errorf("missing = %v", missing)
	}

	fr, _ := BuildItems(records, []int{1}, "fr")
	if fr[0].Description != "Une céréale" {
		t.Errorf("expected sanitized description, got %q", fr[0].Description)
	}
}
