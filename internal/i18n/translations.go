package i18n

import "sort"

// Entry is the translated text of one item.
type Entry struct {
	Name        string
	Description string
}

// Translations holds item texts per language.
type Translations struct {
	byLang map[string]map[int]Entry
}

func NewTranslations() *Translations {
	return &Translations{byLang: make(map[string]map[int]Entry)}
}

// Set merges e into the entry for (lang, id). Empty fields of e leave the
// existing value in place.
func (t *Translations) Set(lang string, id int, e Entry) {
	m, ok := t.byLang[lang]
	if !ok {
		m = make(map[int]Entry)
		t.byLang[lang] = m
	}
	cur := m[id]
	if e.Name != "" {
		cur.Name = e.Name
	}
	if e.Description != "" {
		cur.Description = e.Description
	}
	m[id] = cur
}

// AddItem records the titles and descriptions of one upstream item.
func (t *Translations) AddItem(id int, titles, descriptions map[string]string) {
	for lang, name := range titles {
		t.Set(lang, id, Entry{Name: name})
	}
	for lang, desc := range descriptions {
		t.Set(lang, id, Entry{Description: desc})
	}
}

func (t *Translations) Get(lang string, id int) (Entry, bool) {
	e, ok := t.byLang[lang][id]
	return e, ok
}

// Len returns the number of entries for lang.
func (t *Translations) Len(lang string) int {
	return len(t.byLang[lang])
}

// Langs returns the languages with at least one entry.
func (t *Translations) Langs() []string {
	out := make([]string, 0, len(t.byLang))
	for l := range t.byLang {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// index maps normalized names of lang to item ids. The lowest id wins
// when two items share a name.
func (t *Translations) index(lang string) map[string]int {
	entries := t.byLang[lang]
	ids := make([]int, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	idx := make(map[string]int, len(ids))
	for _, id := range ids {
		key := Normalize(entries[id].Name)
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = id
		}
	}
	return idx
}
