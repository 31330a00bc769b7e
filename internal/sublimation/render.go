// Package sublimation validates, renders and filters sublimation records.
package sublimation

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

var tokenRe = regexp.MustCompile(`\[([A-Z][A-Z0-9]*)\]`)

// Tokens returns the distinct tokens of description in order of first use.
func Tokens(description string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range tokenRe.FindAllStringSubmatch(description, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Stage returns how many steps level is above MinLevel. level is clamped
// to [MinLevel, MaxLevel].
func Stage(s *gamedata.Sublimation, level int) int {
	if s.Step <= 0 {
		return 0
	}
	if level < s.MinLevel {
		level = s.MinLevel
	}
	if level > s.MaxLevel {
		level = s.MaxLevel
	}
	return (level - s.MinLevel) / s.Step
}

// ValueAt computes one value at level.
func ValueAt(s *gamedata.Sublimation, v gamedata.Value, level int) float64 {
	return v.Base + v.Increment*float64(Stage(s, level))
}

// values maps each token to its value index.
func values(s *gamedata.Sublimation) map[string]int {
	m := make(map[string]int, len(s.Values))
	for i := range s.Values {
		if t := s.TokenAt(i); t != "" {
			if _, dup := m[t]; !dup {
				m[t] = i
			}
		}
	}
	return m
}

// Render substitutes every token of the description for level. It fails
// on a token without a value.
func Render(s *gamedata.Sublimation, level int) (string, error) {
	idx := values(s)
	var missing string
	out := tokenRe.ReplaceAllStringFunc(s.Description, func(tok string) string {
		name := tok[1 : len(tok)-1]
		i, ok := idx[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return tok
		}
		return FormatValue(ValueAt(s, s.Values[i], level))
	})
	if missing != "" {
		return "", fmt.Errorf("sublimation %q: token [%s] has no value", s.Name, missing)
	}
	return out, nil
}

// FormatValue prints v without trailing zeros.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
