package gamedata

type ItemRegistry interface {
	ByID(id int) (Item, bool)
	ByName(name string) (Item, bool)
	All() []Item
}

type RecipeRegistry interface {
	ByID(id int) (Recipe, bool)
	ByResult(itemID int) []Recipe
	All() []Recipe
}

type SublimationRegistry interface {
	ByName(name string) (Sublimation, bool)
	All() []Sublimation
}
