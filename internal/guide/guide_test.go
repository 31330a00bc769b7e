package guide_test

import (
	"errors"
	"reflect"
	"testing"

	igd "github.com/OCharnyshevich/wakfu-craft/internal/gamedata"
	"github.com/OCharnyshevich/wakfu-craft/internal/guide"
	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

func newBuilder(recipes []gamedata.Recipe, maxDepth int) *guide.Builder {
	items := igd.NewItems([]gamedata.Item{
		{ID: 1, Name: "Wheat"},
		{ID: 2, Name: "Water"},
		{ID: 3, Name: "Flour"},
		{ID: 4, Name: "Bread"},
	})
	return guide.NewBuilder(items, igd.NewRecipes(recipes), maxDepth)
}

func breadRecipes() []gamedata.Recipe {
	return []gamedata.Recipe{
		{ID: 10, ResultItemID: 3, ResultQty: 2, Level: 1, Ingredients: []gamedata.Ingredient{{ItemID: 1, Qty: 3}}},
		{ID: 11, ResultItemID: 4, ResultQty: 1, Level: 5, Ingredients: []gamedata.Ingredient{{ItemID: 3, Qty: 2}, {ItemID: 2, Qty: 1}}},
		{ID: 12, ResultItemID: 4, ResultQty: 1, Level: 50, Ingredients: []gamedata.Ingredient{{ItemID: 2, Qty: 9}}},
	}
}

func TestBuild_BillOfMaterials(t *testing.T) {
	b := newBuilder(breadRecipes(), 0)

	g, err := b.Build(4, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Root.RecipeID != 11 {
		t.Errorf("expected lowest level recipe 11, got %d", g.Root.RecipeID)
	}
	if g.Root.Crafts != 3 {
		t.Errorf("expected 3 crafts, got %d", g.Root.Crafts)
	}

	flour := g.Root.Ingredients[0]
	// 6 flour at 2 per craft.
	if flour.Quantity != 6 || flour.Crafts != 3 {
		t.Errorf("unexpected flour node %+v", flour)
	}

	want := []guide.Material{
		{ItemID: 1, Name: "Wheat", Quantity: 9},
		{ItemID: 2, Name: "Water", Quantity: 3},
	}
	if !reflect.DeepEqual(g.Materials, want) {
		t.Errorf("materials = %+v, want %+v", g.Materials, want)
	}
}

func TestBuild_RoundsCraftsUp(t *testing.T) {
	b := newBuilder(breadRecipes(), 0)
	g, err := b.Build(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if g.Root.Crafts != 2 || g.Materials[0].Quantity != 6 {
		t.Errorf("unexpected guide %+v / %+v", g.Root, g.Materials)
	}
}

func TestBuild_RecipeWithoutIngredients(t *testing.T) {
	recipes := []gamedata.Recipe{
		{ID: 20, ResultItemID: 1, ResultQty: 1, Level: 1, Ingredients: []gamedata.Ingredient{}},
	}
	b := newBuilder(recipes, 0)

	g, err := b.Build(1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Root.IsBase || g.Root.RecipeID != 0 || g.Root.Message == "" {
		t.Errorf("expected item treated as base with message, got %+v", g.Root)
	}
	want := []guide.Material{{ItemID: 1, Name: "Wheat", Quantity: 3}}
	if !reflect.DeepEqual(g.Materials, want) {
		t.Errorf("materials = %+v, want %+v", g.Materials, want)
	}
}

func TestBuild_SkipsEmptyRecipe(t *testing.T) {
	recipes := append(breadRecipes(),
		gamedata.Recipe{ID: 5, ResultItemID: 4, ResultQty: 1, Level: 0})
	b := newBuilder(recipes, 0)

	g, err := b.Build(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if g.Root.RecipeID != 11 {
		t.Errorf("expected recipe 11 over the empty recipe 5, got %d", g.Root.RecipeID)
	}
}

func TestBuild_Cycle(t *testing.T) {
	recipes := []gamedata.Recipe{
		{ID: 1, ResultItemID: 1, ResultQty: 1, Ingredients: []gamedata.Ingredient{{ItemID: 2, Qty: 1}}},
		{ID: 2, ResultItemID: 2, ResultQty: 1, Ingredients: []gamedata.Ingredient{{ItemID: 1, Qty: 1}}},
	}
	b := newBuilder(recipes, 0)

	g, err := b.Build(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	leaf := g.Root.Ingredients[0].Ingredients[0]
	if !leaf.IsBase || leaf.ItemID != 1 || leaf.Message == "" {
		t.Errorf("expected cyclic item treated as base with message, got %+v", leaf)
	}
}

func TestBuild_MaxDepth(t *testing.T) {
	b := newBuilder(breadRecipes(), 1)
	g, err := b.Build(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	flour := g.Root.Ingredients[0]
	if !flour.IsBase || flour.Ingredients != nil {
		t.Errorf("expected expansion to stop at depth 1, got %+v", flour)
	}
}

func TestBuild_Errors(t *testing.T) {
	b := newBuilder(breadRecipes(), 0)
	if _, err := b.Build(999, 1); !errors.Is(err, guide.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := b.Build(4, 0); err == nil {
		t.Error("expected error for zero quantity")
	}
}
