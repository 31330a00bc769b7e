package gamedata

// Category is a recipe category (a profession) with its localized names.
type Category struct {
	ID    int               `json:"id"`
	Names map[string]string `json:"names"`
}
