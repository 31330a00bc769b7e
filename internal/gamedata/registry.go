// Package gamedata provides in-memory registries over the compact
// datasets.
package gamedata

import (
	"sort"

	"github.com/OCharnyshevich/wakfu-craft/internal/i18n"
	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

type itemRegistry struct {
	all    []gamedata.Item
	byID   map[int]int
	byName map[string]int
}

// NewItems indexes items by id and by normalized name. On duplicate names
// the lowest id wins.
func NewItems(items []gamedata.Item) gamedata.ItemRegistry {
	all := make([]gamedata.Item, len(items))
	copy(all, items)
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	r := &itemRegistry{
		all:    all,
		byID:   make(map[int]int, len(all)),
		byName: make(map[string]int, len(all)),
	}
	for i, it := range all {
		r.byID[it.ID] = i
		key := i18n.Normalize(it.Name)
		if _, dup := r.byName[key]; !dup && key != "" {
			r.byName[key] = i
		}
	}
	return r
}

func (r *itemRegistry) ByID(id int) (gamedata.Item, bool) {
	i, ok := r.byID[id]
	if !ok {
		return gamedata.Item{}, false
	}
	return r.all[i], true
}

func (r *itemRegistry) ByName(name string) (gamedata.Item, bool) {
	i, ok := r.byName[i18n.Normalize(name)]
	if !ok {
		return gamedata.Item{}, false
	}
	return r.all[i], true
}

func (r *itemRegistry) All() []gamedata.Item {
	return r.all
}

type recipeRegistry struct {
	all      []gamedata.Recipe
	byID     map[int]int
	byResult map[int][]int
}

// NewRecipes indexes recipes by id and by the item they produce.
func NewRecipes(recipes []gamedata.Recipe) gamedata.RecipeRegistry {
	all := make([]gamedata.Recipe, len(recipes))
	copy(all, recipes)
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	r := &recipeRegistry{
		all:      all,
		byID:     make(map[int]int, len(all)),
		byResult: make(map[int][]int),
	}
	for i, rec := range all {
		r.byID[rec.ID] = i
		r.byResult[rec.ResultItemID] = append(r.byResult[rec.ResultItemID], i)
	}
	return r
}

func (r *recipeRegistry) ByID(id int) (gamedata.Recipe, bool) {
	i, ok := r.byID[id]
	if !ok {
		return gamedata.Recipe{}, false
	}
	return r.all[i], true
}

func (r *recipeRegistry) ByResult(itemID int) []gamedata.Recipe {
	idx := r.byResult[itemID]
	out := make([]gamedata.Recipe, len(idx))
	for i, j := range idx {
		out[i] = r.all[j]
	}
	return out
}

func (r *recipeRegistry) All() []gamedata.Recipe {
	return r.all
}

type sublimationRegistry struct {
	all    []gamedata.Sublimation
	byName map[string]int
}

// NewSublimations indexes sublimations by normalized name, keeping the
// input order for All.
func NewSublimations(subs []gamedata.Sublimation) gamedata.SublimationRegistry {
	r := &sublimationRegistry{
		all:    subs,
		byName: make(map[string]int, len(subs)),
	}
	for i, s := range subs {
		key := i18n.Normalize(s.Name)
		if _, dup := r.byName[key]; !dup {
			r.byName[key] = i
		}
	}
	return r
}

func (r *sublimationRegistry) ByName(name string) (gamedata.Sublimation, bool) {
	i, ok := r.byName[i18n.Normalize(name)]
	if !ok {
		return gamedata.Sublimation{}, false
	}
	return r.all[i], true
}

func (r *sublimationRegistry) All() []gamedata.Sublimation {
	return r.all
}
