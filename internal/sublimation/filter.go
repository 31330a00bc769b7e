package sublimation

import (
	"strings"

	"github.com/OCharnyshevich/wakfu-craft/internal/i18n"
	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

// Filter selects sublimations for the browser. Zero fields match anything.
type Filter struct {
	Colors   []string // every color must be present
	Rarity   []string // any rarity matches
	Category string
	Level    int
	Query    string
}

func (f Filter) Match(s *gamedata.Sublimation) bool {
	for _, c := range f.Colors {
		if !containsFold(s.Colors, c) {
			return false
		}
	}
	if len(f.Rarity) > 0 {
		ok := false
		for _, r := range f.Rarity {
			if containsFold(s.Rarity, r) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(f.Category, s.Category) {
		return false
	}
	if f.Level > 0 && (f.Level < s.MinLevel || f.Level > s.MaxLevel) {
		return false
	}
	if q := i18n.Normalize(f.Query); q != "" {
		hay := i18n.Normalize(s.Name + " " + s.Effect + " " + s.Description + " " + s.Obtenation)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

// Apply returns the sublimations matching f, in input order.
func Apply(subs []gamedata.Sublimation, f Filter) []gamedata.Sublimation {
	out := []gamedata.Sublimation{}
	for i := range subs {
		if f.Match(&subs[i]) {
			out = append(out, subs[i])
		}
	}
	return out
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
