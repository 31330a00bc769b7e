package sublimation

import (
	"fmt"
	"strings"

	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

// ValidationError lists everything wrong with one sublimation.
type ValidationError struct {
	Name     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sublimation %q: %s", e.Name, strings.Join(e.Problems, "; "))
}

// Validate checks the fields the browser relies on.
func Validate(s *gamedata.Sublimation) error {
	var p []string
	if strings.TrimSpace(s.Name) == "" {
		p = append(p, "name is empty")
	}
	if strings.TrimSpace(s.Description) == "" {
		p = append(p, "description is empty")
	}
	if len(nonEmpty(s.Colors)) == 0 {
		p = append(p, "colors are empty")
	}
	if len(nonEmpty(s.Rarity)) == 0 {
		p = append(p, "rarity is empty")
	}
	if s.MinLevel > s.MaxLevel {
		p = append(p, fmt.Sprintf("minLevel %d > maxLevel %d", s.MinLevel, s.MaxLevel))
	}
	if s.Step <= 0 {
		p = append(p, fmt.Sprintf("step %d is not positive", s.Step))
	}

	idx := values(s)
	for _, tok := range Tokens(s.Description) {
		if _, ok := idx[tok]; !ok {
			p = append(p, fmt.Sprintf("token [%s] has no value", tok))
		}
	}
	seen := map[string]bool{}
	for i := range s.Values {
		t := s.TokenAt(i)
		if t == "" {
			p = append(p, fmt.Sprintf("value %d has no token", i))
			continue
		}
		if seen[t] {
			p = append(p, fmt.Sprintf("token [%s] has more than one value", t))
		}
		seen[t] = true
	}

	if len(p) > 0 {
		return &ValidationError{Name: s.Name, Problems: p}
	}
	return nil
}

func nonEmpty(ss []string) []string {
	var out []string
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
