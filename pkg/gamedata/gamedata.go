package gamedata

// GameData bundles the compact datasets of one language.
type GameData struct {
	Lang         string
	Items        ItemRegistry
	Recipes      RecipeRegistry
	Sublimations SublimationRegistry
	Version      *Version
}
