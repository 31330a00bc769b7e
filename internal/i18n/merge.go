package i18n

import (
	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

// Merger rewrites the English-keyed sublimations for each language.
type Merger struct {
	tr       *Translations
	aliases  *AliasTable
	baseLang string
	index    map[string]int

	effects      *Translations
	effectsIndex map[string]int
}

// NewMerger indexes the baseLang names of tr. Base sublimation names are
// matched against that index.
func NewMerger(tr *Translations, aliases *AliasTable, baseLang string) *Merger {
	return &Merger{
		tr:       tr,
		aliases:  aliases,
		baseLang: baseLang,
		index:    tr.index(baseLang),
	}
}

// WithEffects sets the state texts used for the effect of a sublimation
// whose item has no description in the target language. States are
// matched by their baseLang title.
func (m *Merger) WithEffects(states *Translations) *Merger {
	m.effects = states
	m.effectsIndex = states.index(m.baseLang)
	return m
}

// Resolve returns the upstream item id for a base sublimation name.
func (m *Merger) Resolve(name string) (int, bool) {
	id, ok := m.index[Normalize(m.aliases.upstream(name))]
	return id, ok
}

// Merge returns the sublimations translated to lang and, separately, the
// base records that could not be matched or have no text in lang.
func (m *Merger) Merge(base []gamedata.Sublimation, lang string) (matched, unmatched []gamedata.Sublimation) {
	for _, b := range base {
		s := clone(b)
		override := m.aliases.override(lang, b.Name)

		id := b.ItemID
		if _, known := m.tr.Get(m.baseLang, id); id == 0 || !known {
			var ok bool
			if id, ok = m.Resolve(b.Name); !ok {
				id = 0
			}
		}

		var e Entry
		if id != 0 {
			e, _ = m.tr.Get(lang, id)
			s.ItemID = id
		}

		switch {
		case override != "":
			s.Name = override
		case e.Name != "":
			s.Name = e.Name
		case lang == m.baseLang && id != 0:
			// Base names are already in the base language.
		default:
			unmatched = append(unmatched, clone(b))
			continue
		}

		if e.Description != "" {
			s.Effect = PlainText(e.Description)
		} else if d := m.stateEffect(b.Name, lang); d != "" {
			s.Effect = d
		}
		if d := m.aliases.description(lang, b.Name); d != "" {
			s.Description = d
		}
		matched = append(matched, s)
	}
	return matched, unmatched
}

func (m *Merger) stateEffect(name, lang string) string {
	if m.effects == nil {
		return ""
	}
	id, ok := m.effectsIndex[Normalize(m.aliases.upstream(name))]
	if !ok {
		return ""
	}
	e, _ := m.effects.Get(lang, id)
	return PlainText(e.Description)
}

// clone copies the slices of s. The copies are never nil so an empty list
// is written as [] rather than null.
func clone(s gamedata.Sublimation) gamedata.Sublimation {
	s.Colors = cloneSlice(s.Colors)
	s.Rarity = cloneSlice(s.Rarity)
	s.Values = cloneSlice(s.Values)
	return s
}

func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
