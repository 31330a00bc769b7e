package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

// Artifact file names under the data directory.
const (
	RecipesFile       = "recipes.compact.json"
	ItemsFile         = "items.compact.json"
	NeededItemIDsFile = "needed_item_ids.json"
	CategoriesFile    = "recipe_categories.json"
	VersionFile       = "wakfu_version.json"
)

// ErrNotFound is returned when an artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// SublimationsFile returns the per-language sublimation artifact name.
func SublimationsFile(lang string) string {
	return "sublimations." + lang + ".json"
}

// UnmatchedFile returns the artifact holding sublimations that could not
// be matched for lang.
func UnmatchedFile(lang string) string {
	return "sublimations.unmatched." + lang + ".json"
}

// Storage handles the static JSON artifacts consumed by the web client.
type Storage struct {
	dir string
	log *slog.Logger
}

// New creates a new Storage rooted at dir, creating it as needed.
func New(dir string, log *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	return &Storage{dir: dir, log: log}, nil
}

// Dir returns the root directory.
func (s *Storage) Dir() string { return s.dir }

func (s *Storage) SaveRecipes(recipes []gamedata.Recipe) error {
	return s.save(RecipesFile, orEmpty(recipes), false)
}

func (s *Storage) LoadRecipes() ([]gamedata.Recipe, error) {
	var out []gamedata.Recipe
	if err := s.load(RecipesFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Storage) SaveItems(items []gamedata.Item) error {
	return s.save(ItemsFile, orEmpty(items), false)
}

func (s *Storage) LoadItems() ([]gamedata.Item, error) {
	var out []gamedata.Item
	if err := s.load(ItemsFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Storage) SaveNeededItemIDs(ids []int) error {
	return s.save(NeededItemIDsFile, orEmpty(ids), false)
}

func (s *Storage) LoadNeededItemIDs() ([]int, error) {
	var out []int
	if err := s.load(NeededItemIDsFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Storage) SaveSublimations(lang string, subs []gamedata.Sublimation) error {
	return s.save(SublimationsFile(lang), orEmpty(subs), true)
}

func (s *Storage) LoadSublimations(lang string) ([]gamedata.Sublimation, error) {
	var out []gamedata.Sublimation
	if err := s.load(SublimationsFile(lang), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Storage) SaveUnmatched(lang string, subs []gamedata.Sublimation) error {
	return s.save(UnmatchedFile(lang), orEmpty(subs), true)
}

func (s *Storage) LoadUnmatched(lang string) ([]gamedata.Sublimation, error) {
	var out []gamedata.Sublimation
	if err := s.load(UnmatchedFile(lang), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Storage) SaveCategories(cats []gamedata.Category) error {
	return s.save(CategoriesFile, orEmpty(cats), false)
}

func (s *Storage) LoadCategories() ([]gamedata.Category, error) {
	var cats []gamedata.Category
	if err := s.load(CategoriesFile, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (s *Storage) SaveVersion(v *gamedata.Version) error {
	return s.save(VersionFile, v, true)
}

// LoadVersion returns the stored manifest, or nil if there is none.
func (s *Storage) LoadVersion() (*gamedata.Version, error) {
	var v gamedata.Version
	if err := s.load(VersionFile, &v); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (s *Storage) save(name string, v any, indent bool) error {
	data, err := Encode(v, indent)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.atomicWrite(filepath.Join(s.dir, name), data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	s.log.Debug("wrote artifact", "name", name, "bytes", len(data))
	return nil
}

func (s *Storage) load(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Encode renders v the way artifacts are stored: no HTML escaping and a
// trailing newline.
func Encode(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// atomicWrite writes data using a temp file + rename.
func (s *Storage) atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// orEmpty keeps nil slices from being written as null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
