package api

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/patrickmn/go-cache"

	gdata "github.com/OCharnyshevich/wakfu-craft/internal/gamedata"
	"github.com/OCharnyshevich/wakfu-craft/internal/storage"
	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

// fallbackFS is a small sample dataset served when the artifacts have not
// been generated yet.
//
//go:embed fallback/*.json
var fallbackFS embed.FS

var langRe = regexp.MustCompile(`^[a-z]{2,3}$`)

// dataset is what one language resolves to.
type dataset struct {
	*gamedata.GameData
	Fallback bool
}

func (s *Server) dataset(lang string) (*dataset, error) {
	key := "dataset:" + lang
	if v, ok := s.cache.Get(key); ok {
		return v.(*dataset), nil
	}

	ds, err := s.loadDataset(lang)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, ds, cache.DefaultExpiration)
	return ds, nil
}

func (s *Server) loadDataset(lang string) (*dataset, error) {
	gd, err := gdata.Load(s.st, lang)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if err == nil && len(gd.Items.All()) > 0 && len(gd.Recipes.All()) > 0 {
		if len(gd.Sublimations.All()) == 0 {
			if subs, ferr := fallbackSublimations(lang); ferr == nil {
				gd.Sublimations = gdata.NewSublimations(subs)
			}
		}
		return &dataset{GameData: gd}, nil
	}

	s.log.Warn("artifacts missing or empty, serving fallback dataset", "lang", lang, "dir", s.st.Dir())
	gd, err = loadFallback(lang)
	if err != nil {
		return nil, err
	}
	return &dataset{GameData: gd, Fallback: true}, nil
}

func loadFallback(lang string) (*gamedata.GameData, error) {
	var items []gamedata.Item
	if err := decodeFallback(storage.ItemsFile, &items); err != nil {
		return nil, err
	}
	var recipes []gamedata.Recipe
	if err := decodeFallback(storage.RecipesFile, &recipes); err != nil {
		return nil, err
	}
	subs, err := fallbackSublimations(lang)
	if err != nil {
		return nil, err
	}
	var version gamedata.Version
	if err := decodeFallback(storage.VersionFile, &version); err != nil {
		return nil, err
	}
	return &gamedata.GameData{
		Lang:         lang,
		Items:        gdata.NewItems(items),
		Recipes:      gdata.NewRecipes(recipes),
		Sublimations: gdata.NewSublimations(subs),
		Version:      &version,
	}, nil
}

// fallbackSublimations returns the sample sublimations of lang, or the
// English ones when lang has none.
func fallbackSublimations(lang string) ([]gamedata.Sublimation, error) {
	var subs []gamedata.Sublimation
	err := decodeFallback(storage.SublimationsFile(lang), &subs)
	if errors.Is(err, fs.ErrNotExist) {
		err = decodeFallback(storage.SublimationsFile("en"), &subs)
	}
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func decodeFallback(name string, v any) error {
	data, err := fallbackFS.ReadFile("fallback/" + name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse fallback %s: %w", name, err)
	}
	return nil
}
