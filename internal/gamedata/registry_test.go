package gamedata_test

import (
	"testing"

	"github.com/OCharnyshevich/wakfu-craft/internal/gamedata"
	pub "github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

func TestItems_ByIDAndName(t *testing.T) {
	reg := gamedata.NewItems([]pub.Item{
		{ID: 3, Name: "Pain de Blé"},
		{ID: 1, Name: "Blé"},
		{ID: 2, Name: "ble"},
	})

	it, ok := reg.ByID(3)
	if !ok || it.Name != "Pain de Blé" {
		t.Fatalf("ByID(3) = %+v, %v", it, ok)
	}

	it, ok = reg.ByName("BLE")
	if !ok {
		t.Fatal("expected diacritic-insensitive name match")
	}
	if it.ID != 1 {
		t.Errorf("expected lowest id to win duplicate names, got %d", it.ID)
	}

	all := reg.All()
	if len(all) != 3 || all[0].ID != 1 || all[2].ID != 3 {
		t.Errorf("expected items sorted by id, got %+v", all)
	}

	if _, ok := reg.ByID(99); ok {
		t.Error("expected not found for unknown id")
	}
}

func TestRecipes_ByResult(t *testing.T) {
	reg := gamedata.NewRecipes([]pub.Recipe{
		{ID: 10, ResultItemID: 5, ResultQty: 1},
		{ID: 11, ResultItemID: 6, ResultQty: 1},
		{ID: 12, ResultItemID: 5, ResultQty: 2},
	})

	got := reg.ByResult(5)
	if len(got) != 2 || got[0].ID != 10 || got[1].ID != 12 {
		t.Errorf("ByResult(5) = %+v", got)
	}
	if len(reg.ByResult(42)) != 0 {
		t.Error("expected no recipes for unknown result")
	}
	if r, ok := reg.ByID(11); !ok || r.ResultItemID != 6 {
		t.Errorf("ByID(11) = %+v, %v", r, ok)
	}
}

func TestSublimations_ByName(t *testing.T) {
	reg := gamedata.NewSublimations([]pub.Sublimation{{Name: "Ambition"}, {Name: "Élan"}})

	if _, ok := reg.ByName("elan"); !ok {
		t.Error("expected normalized lookup to find 'Élan'")
	}
	if len(reg.All()) != 2 {
		t.Errorf("expected 2 sublimations, got %d", len(reg.All()))
	}
}
