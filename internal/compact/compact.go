// Package compact joins the raw recipe datasets into the compact
// artifacts served to the web client.
package compact

import (
	"sort"

	"github.com/OCharnyshevich/wakfu-craft/internal/i18n"
	"github.com/OCharnyshevich/wakfu-craft/internal/schema"
	"github.com/OCharnyshevich/wakfu-craft/internal/stream"
	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

// RecipeStats counts what BuildRecipes joined and skipped.
type RecipeStats struct {
	Recipes             int
	Built               int
	SkippedNoResult     int
	NoIngredients       int
	OrphanIngredients   int
	OrphanResults       int
	ExtraResults        int
	DuplicateRecipes    int
	SampleSkippedRecipe []int
}

const maxSamples = 5

// BuildRecipes joins recipes with their ingredients and results. A recipe
// without a result is skipped. A repeated recipe id keeps its first row.
// Ingredients keep the upstream order.
func BuildRecipes(recipes []schema.RawRecipe, ingredients []schema.RawIngredient, results []schema.RawResult) ([]gamedata.Recipe, RecipeStats) {
	st := RecipeStats{Recipes: len(recipes)}

	known := make(map[int]bool, len(recipes))
	for _, r := range recipes {
		known[r.ID] = true
	}

	byRecipe := make(map[int][]schema.RawIngredient)
	for _, ing := range ingredients {
		if !known[ing.RecipeID] {
			st.OrphanIngredients++
			continue
		}
		byRecipe[ing.RecipeID] = append(byRecipe[ing.RecipeID], ing)
	}

	resultOf := make(map[int]schema.RawResult)
	for _, res := range results {
		if !known[res.RecipeID] {
			st.OrphanResults++
			continue
		}
		if _, dup := resultOf[res.RecipeID]; dup {
			st.ExtraResults++
			continue
		}
		resultOf[res.RecipeID] = res
	}

	out := make([]gamedata.Recipe, 0, len(recipes))
	built := make(map[int]bool, len(recipes))
	for _, r := range recipes {
		if built[r.ID] {
			st.DuplicateRecipes++
			continue
		}
		built[r.ID] = true

		res, ok := resultOf[r.ID]
		if !ok || res.ItemID == 0 {
			st.SkippedNoResult++
			if len(st.SampleSkippedRecipe) < maxSamples {
				st.SampleSkippedRecipe = append(st.SampleSkippedRecipe, r.ID)
			}
			continue
		}

		ings := byRecipe[r.ID]
		sort.SliceStable(ings, func(i, j int) bool { return ings[i].Order < ings[j].Order })
		compact := make([]gamedata.Ingredient, 0, len(ings))
		for _, ing := range ings {
			compact = append(compact, gamedata.Ingredient{ItemID: ing.ItemID, Qty: ing.Quantity})
		}
		if len(compact) == 0 {
			st.NoIngredients++
		}

		out = append(out, gamedata.Recipe{
			ID:           r.ID,
			ResultItemID: res.ItemID,
			ResultQty:    res.Quantity,
			Ingredients:  compact,
			ProfessionID: r.CategoryID,
			Level:        r.Level,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	st.Built = len(out)
	return out, st
}

// NeededItemIDs returns the sorted ids of every result and ingredient.
func NeededItemIDs(recipes []gamedata.Recipe) []int {
	seen := make(map[int]struct{})
	for _, r := range recipes {
		seen[r.ResultItemID] = struct{}{}
		for _, ing := range r.Ingredients {
			seen[ing.ItemID] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// BuildItems returns the compact items for ids in lang, sorted by id, and
// the ids with no extracted record. Items without a title in lang get the
// placeholder name.
func BuildItems(records map[int]stream.Record, ids []int, lang string) (items []gamedata.Item, missing []int) {
	items = make([]gamedata.Item, 0, len(ids))
	for _, id := range ids {
		rec, ok := records[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		name := rec.Titles[lang]
		if name == "" {
			name = gamedata.PlaceholderName(id)
		}
		items = append(items, gamedata.Item{
			ID:          id,
			Name:        name,
			Description: i18n.PlainText(rec.Descriptions[lang]),
			Level:       rec.Level,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, missing
}
