// Package guide expands a craftable item into its full bill of materials.
package guide

import (
	"errors"
	"fmt"
	"sort"

	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

// ErrNotFound is returned for items that are neither known nor craftable.
var ErrNotFound = errors.New("item not found")

// DefaultMaxDepth bounds the expansion of deep recipe chains.
const DefaultMaxDepth = 12

type Node struct {
	ItemID      int     `json:"itemId"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	RecipeID    int     `json:"recipeId,omitempty"`
	Crafts      int     `json:"crafts,omitempty"`
	IsBase      bool    `json:"isBase"`
	Message     string  `json:"message,omitempty"`
	Depth       int     `json:"depth"`
	Ingredients []*Node `json:"ingredients,omitempty"`
}

// Material is a base component with the total quantity needed.
type Material struct {
	ItemID   int    `json:"itemId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Guide struct {
	Root      *Node      `json:"root"`
	Materials []Material `json:"materials"`
}

type Builder struct {
	items    gamedata.ItemRegistry
	recipes  gamedata.RecipeRegistry
	maxDepth int
}

func NewBuilder(items gamedata.ItemRegistry, recipes gamedata.RecipeRegistry, maxDepth int) *Builder {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Builder{items: items, recipes: recipes, maxDepth: maxDepth}
}

// Build expands qty units of itemID.
func (b *Builder) Build(itemID, qty int) (*Guide, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", qty)
	}
	_, known := b.items.ByID(itemID)
	if !known && len(b.recipes.ByResult(itemID)) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, itemID)
	}

	root := b.expand(itemID, qty, 0, map[int]bool{})

	totals := map[int]int{}
	collect(root, totals)
	mats := make([]Material, 0, len(totals))
	for id, n := range totals {
		mats = append(mats, Material{ItemID: id, Name: b.name(id), Quantity: n})
	}
	sort.Slice(mats, func(i, j int) bool { return mats[i].ItemID < mats[j].ItemID })

	return &Guide{Root: root, Materials: mats}, nil
}

func (b *Builder) expand(itemID, qty, depth int, path map[int]bool) *Node {
	n := &Node{ItemID: itemID, Name: b.name(itemID), Quantity: qty, Depth: depth}

	if path[itemID] {
		n.IsBase = true
		n.Message = fmt.Sprintf("cycle detected on item %d", itemID)
		return n
	}
	if depth >= b.maxDepth {
		n.IsBase = true
		n.Message = fmt.Sprintf("expansion stopped at depth %d", depth)
		return n
	}

	recipe, ok := b.pick(itemID)
	if !ok {
		n.IsBase = true
		if len(b.recipes.ByResult(itemID)) > 0 {
			n.Message = fmt.Sprintf("no recipe for item %d has ingredients", itemID)
		}
		return n
	}

	per := recipe.ResultQty
	if per <= 0 {
		per = 1
	}
	n.RecipeID = recipe.ID
	n.Crafts = (qty + per - 1) / per

	path[itemID] = true
	for _, ing := range recipe.Ingredients {
		n.Ingredients = append(n.Ingredients, b.expand(ing.ItemID, ing.Qty*n.Crafts, depth+1, path))
	}
	delete(path, itemID)
	return n
}

// pick chooses the lowest level recipe, then the lowest id. Recipes
// without ingredients are ignored.
func (b *Builder) pick(itemID int) (gamedata.Recipe, bool) {
	var best gamedata.Recipe
	found := false
	for _, r := range b.recipes.ByResult(itemID) {
		if len(r.Ingredients) == 0 {
			continue
		}
		if !found || r.Level < best.Level || (r.Level == best.Level && r.ID < best.ID) {
			best, found = r, true
		}
	}
	return best, found
}

func (b *Builder) name(id int) string {
	if it, ok := b.items.ByID(id); ok {
		return it.Name
	}
	return gamedata.PlaceholderName(id)
}

func collect(n *Node, totals map[int]int) {
	if n.IsBase {
		totals[n.ItemID] += n.Quantity
		return
	}
	for _, c := range n.Ingredients {
		collect(c, totals)
	}
}
