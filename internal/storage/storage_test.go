package storage

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func readFile(t *testing.T, s *Storage, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(s.Dir(), name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return b
}

func TestRecipes_RoundTripBytes(t *testing.T) {
	s := newTestStorage(t)
	recipes := []gamedata.Recipe{
		{ID: 1, ResultItemID: 10, ResultQty: 1, Ingredients: []gamedata.Ingredient{{ItemID: 20, Qty: 5}}, ProfessionID: 40, Level: 15},
		{ID: 2, ResultItemID: 11, ResultQty: 3, Ingredients: []gamedata.Ingredient{}},
	}
	if err := s.SaveRecipes(recipes); err != nil {
		t.Fatalf("SaveRecipes: %v", err)
	}
	first := readFile(t, s, RecipesFile)

	loaded, err := s.LoadRecipes()
	if err != nil {
		t.Fatalf("LoadRecipes: %v", err)
	}
	if err := s.SaveRecipes(loaded); err != nil {
		t.Fatalf("SaveRecipes again: %v", err)
	}
	second := readFile(t, s, RecipesFile)

	if !bytes.Equal(first, second) {
		t.Errorf("round trip changed bytes:\n%s\n%s", first, second)
	}
}

func TestSublimations_RoundTripBytes(t *testing.T) {
	s := newTestStorage(t)
	subs := []gamedata.Sublimation{{
		Name:        "Ambition",
		Colors:      []string{"R", "G"},
		Description: "+[X]% damage <b>dealt</b> & more",
		Rarity:      []string{"rare"},
		Effect:      "damage",
		MinLevel:    1,
		MaxLevel:    6,
		Step:        1,
		Obtenation:  "Drop",
		Category:    "offense",
		Values:      []gamedata.Value{{Base: 2.5, Increment: 0.5}},
		ItemID:      27000,
	}}
	if err := s.SaveSublimations("fr", subs); err != nil {
		t.Fatalf("SaveSublimations: %v", err)
	}
	first := readFile(t, s, SublimationsFile("fr"))
	if bytes.Contains(first, []byte(`<`)) {
		t.Error("expected HTML characters to be written unescaped")
	}

	loaded, err := s.LoadSublimations("fr")
	if err != nil {
		t.Fatalf("LoadSublimations: %v", err)
	}
	if err := s.SaveSublimations("fr", loaded); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, readFile(t, s, SublimationsFile("fr"))) {
		t.Error("round trip changed bytes")
	}
}

func TestSave_NilSliceWritesEmptyArray(t *testing.T) {
	s := newTestStorage(t)
	if err := s.SaveNeededItemIDs(nil); err != nil {
		t.Fatal(err)
	}
	if got := string(readFile(t, s, NeededItemIDsFile)); got != "[]\n" {
		t.Errorf("expected empty array, got %q", got)
	}
}

func TestLoad_Missing(t *testing.T) {
	s := newTestStorage(t)

	if _, err := s.LoadItems(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	v, err := s.LoadVersion()
	if err != nil || v != nil {
		t.Fatalf("expected nil manifest without error, got %v, %v", v, err)
	}
}

func TestVersion_RoundTrip(t *testing.T) {
	s := newTestStorage(t)
	want := &gamedata.Version{
		Version:   "1.83.1.26",
		FetchedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		RunID:     "run-1",
		Schema:    "current",
	}
	if err := s.SaveVersion(want); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadVersion()
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != want.Version || got.RunID != want.RunID || got.Schema != want.Schema || !got.FetchedAt.Equal(want.FetchedAt) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), VersionFile+".tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}
