package gamedata

import (
	"errors"
	"fmt"

	"github.com/OCharnyshevich/wakfu-craft/internal/storage"
	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

// Load builds the registries of one language from the artifacts in st.
// A missing sublimation file for lang yields an empty registry.
func Load(st *storage.Storage, lang string) (*gamedata.GameData, error) {
	items, err := st.LoadItems()
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	recipes, err := st.LoadRecipes()
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	subs, err := st.LoadSublimations(lang)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load sublimations: %w", err)
	}
	version, err := st.LoadVersion()
	if err != nil {
		return nil, fmt.Errorf("load version: %w", err)
	}

	return &gamedata.GameData{
		Lang:         lang,
		Items:        NewItems(items),
		Recipes:      NewRecipes(recipes),
		Sublimations: NewSublimations(subs),
		Version:      version,
	}, nil
}
