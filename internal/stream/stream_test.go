package stream_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/OCharnyshevich/wakfu-craft/internal/schema"
	"github.com/OCharnyshevich/wakfu-craft/internal/stream"
)

const items = `[
	{"definition":{"item":{"id":1,"level":10,"baseParameters":{"itemTypeId":100}}},"title":{"en":"Wheat","fr":"Blé"}},
	{"definition":{"item":{"id":2,"level":20,"baseParameters":{"itemTypeId":812}}},"title":{"en":"Ambition {brace}","fr":"Ambition"}},
	{"definition":{"item":{"id":3,"level":30,"baseParameters":{"itemTypeId":100}}},"title":{"en":"Bread \"}\" loaf","fr":"Pain"}}
]`

func currentMapping(t *testing.T) *schema.Mapping {
	t.Helper()
	m, err := schema.Lookup("current")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	return m
}

func TestEach_CountsElements(t *testing.T) {
	n := 0
	err := stream.Each(context.Background(), strings.NewReader(items), func(i int, raw json.RawMessage) error {
		if i != n {
			t.Errorf("expected index %d, got %d", n, i)
		}
		n++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 elements, got %d", n)
	}
}

func TestEach_NotArray(t *testing.T) {
	err := stream.Each(context.Background(), strings.NewReader(`{"a":1}`), func(int, json.RawMessage) error { return nil })
	if !errors.Is(err, stream.ErrNotArray) {
		t.Fatalf("expected ErrNotArray, got %v", err)
	}
}

func TestEach_MalformedElement(t *testing.T) {
	err := stream.Each(context.Background(), strings.NewReader(`[{"a":1},{"a":]`), func(int, json.RawMessage) error { return nil })
	if err == nil {
		t.Fatal("expected error for malformed element")
	}
	if !strings.Contains(err.Error(), "element 1") {
		t.Errorf("expected element index in error, got %v", err)
	}
}

func TestEach_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := stream.Each(ctx, strings.NewReader(items), func(int, json.RawMessage) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtract_WantedIDs(t *testing.T) {
	m := currentMapping(t)

	var got []stream.Record
	err := stream.Extract(context.Background(), strings.NewReader(items), m, "en", stream.NewIDSet(1, 3, 99),
		func(r stream.Record) error {
			got = append(got, r)
			return nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].Name != "Wheat" || got[0].Level != 10 {
		t.Errorf("unexpected first record %+v", got[0])
	}
	// Braces and quotes inside string values do not split objects.
	if got[1].ID != 3 || got[1].Name != `Bread "}" loaf` {
		t.Errorf("unexpected second record %+v", got[1])
	}
}

func TestExtract_OneByteReader(t *testing.T) {
	m := currentMapping(t)

	var names []string
	err := stream.Extract(context.Background(), iotest.OneByteReader(strings.NewReader(items)), m, "fr",
		stream.AnyOf{stream.TypeSet{812: {}}, stream.NewIDSet(1)},
		func(r stream.Record) error {
			names = append(names, r.Name)
			return nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "Blé" || names[1] != "Ambition" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestExtract_WrongGeneration(t *testing.T) {
	m, err := schema.Lookup("legacy")
	if err != nil {
		t.Fatal(err)
	}
	err = stream.Extract(context.Background(), strings.NewReader(items), m, "en", stream.NewIDSet(1),
		func(stream.Record) error { return nil })
	var mfe *schema.MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
}

func TestCollect_Ingredients(t *testing.T) {
	m := currentMapping(t)
	raw := `[{"recipeId":1,"itemId":10,"quantity":2,"ingredientOrder":1},{"recipeId":1,"itemId":11,"quantity":5,"ingredientOrder":0}]`

	rows, err := stream.Collect(context.Background(), strings.NewReader(raw), m, schema.DatasetRecipeIngredients, m.Ingredient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || rows[1].ItemID != 11 || rows[1].Quantity != 5 {
		t.Errorf("unexpected rows %+v", rows)
	}
}
