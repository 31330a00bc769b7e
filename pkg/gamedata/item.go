package gamedata

import "strconv"

type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Level       int    `json:"level,omitempty"`
}

// PlaceholderName is the name used for items with no translation.
func PlaceholderName(id int) string {
	return "#" + strconv.Itoa(id)
}
