package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/OCharnyshevich/wakfu-craft/internal/schema"
)

// Record is one item kept by Extract.
type Record struct {
	ID           int
	Name         string
	Level        int
	TypeID       int
	Titles       map[string]string
	Descriptions map[string]string
}

// Filter decides which items Extract keeps.
type Filter interface {
	Want(item schema.RawItem) bool
}

// IDSet keeps items whose id is in the set.
type IDSet map[int]struct{}

func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Want(item schema.RawItem) bool {
	_, ok := s[item.ID]
	return ok
}

// TypeSet keeps items whose item type is in the set.
type TypeSet map[int]struct{}

func (s TypeSet) Want(item schema.RawItem) bool {
	_, ok := s[item.TypeID]
	return ok
}

// AnyOf keeps an item when at least one filter wants it.
type AnyOf []Filter

func (a AnyOf) Want(item schema.RawItem) bool {
	for _, f := range a {
		if f.Want(item) {
			return true
		}
	}
	return false
}

// Extract streams the items dataset from r and emits the wanted items.
// Name is resolved for lang and is empty when the item has no title in
// that language.
func Extract(ctx context.Context, r io.Reader, m *schema.Mapping, lang string, f Filter, emit func(Record) error) error {
	err := Each(ctx, r, func(i int, raw json.RawMessage) error {
		if i == 0 {
			if err := m.Validate(schema.DatasetItems, raw); err != nil {
				return err
			}
		}

		it := m.Item(raw)
		if !f.Want(it) {
			return nil
		}
		return emit(Record{
			ID:           it.ID,
			Name:         it.Titles[lang],
			Level:        it.Level,
			TypeID:       it.TypeID,
			Titles:       it.Titles,
			Descriptions: it.Descriptions,
		})
	})
	if err != nil {
		return fmt.Errorf("extract items: %w", err)
	}
	return nil
}
