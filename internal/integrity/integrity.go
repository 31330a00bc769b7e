// Package integrity checks the generated artifacts for broken references and
// invalid sublimations.
package integrity

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/wakfu-craft/internal/storage"
	"github.com/OCharnyshevich/wakfu-craft/internal/sublimation"
	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

// Violation kinds.
const (
	KindMissingResult     = "missing_result"
	KindMissingIngredient = "missing_ingredient"
	KindSublimation       = "invalid_sublimation"
	KindStepIncrement     = "step_increment"
	KindEmptyArtifact     = "empty_artifact"
)

const epsilon = 1e-9

// Exceptions lists known violations that do not fail a check.
type Exceptions struct {
	MissingItems []int    `yaml:"missing_items"`
	Sublimations []string `yaml:"sublimations"`
}

// LoadExceptions reads an exception list. A missing file yields none.
func LoadExceptions(path string) (*Exceptions, error) {
	e := &Exceptions{}
	if path == "" {
		return e, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return e, nil
		}
		return nil, fmt.Errorf("read exceptions: %w", err)
	}
	if err := yaml.Unmarshal(b, e); err != nil {
		return nil, fmt.Errorf("parse exceptions %s: %w", path, err)
	}
	return e, nil
}

func (e *Exceptions) itemAllowed(id int) bool {
	if e == nil {
		return false
	}
	for _, x := range e.MissingItems {
		if x == id {
			return true
		}
	}
	return false
}

func (e *Exceptions) sublimationAllowed(name string) bool {
	if e == nil {
		return false
	}
	for _, x := range e.Sublimations {
		if x == name {
			return true
		}
	}
	return false
}

type Violation struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Detail  string `json:"detail"`
}

type Report struct {
	RecipesChecked      int         `json:"recipesChecked"`
	SublimationsChecked int         `json:"sublimationsChecked"`
	Allowed             int         `json:"allowed"`
	Violations          []Violation `json:"violations"`
}

func (r *Report) OK() bool { return len(r.Violations) == 0 }

// CheckRecipes verifies that every result and ingredient is a known item.
func CheckRecipes(recipes []gamedata.Recipe, items []gamedata.Item, exc *Exceptions, r *Report) {
	known := make(map[int]bool, len(items))
	for _, it := range items {
		known[it.ID] = true
	}

	check := func(kind string, recipeID, itemID int) {
		if known[itemID] {
			return
		}
		if exc.itemAllowed(itemID) {
			r.Allowed++
			return
		}
		r.Violations = append(r.Violations, Violation{
			Kind:    kind,
			Subject: fmt.Sprintf("recipe %d", recipeID),
			Detail:  fmt.Sprintf("item %d not in items", itemID),
		})
	}

	for _, rec := range recipes {
		r.RecipesChecked++
		check(KindMissingResult, rec.ID, rec.ResultItemID)
		for _, ing := range rec.Ingredients {
			check(KindMissingIngredient, rec.ID, ing.ItemID)
		}
	}
}

// CheckSublimations validates every record of one language and checks
// that one step above MinLevel adds exactly the increment.
func CheckSublimations(lang string, subs []gamedata.Sublimation, exc *Exceptions, r *Report) {
	for i := range subs {
		s := &subs[i]
		r.SublimationsChecked++
		subject := fmt.Sprintf("%s/%s", lang, s.Name)

		if exc.sublimationAllowed(s.Name) {
			r.Allowed++
			continue
		}

		if err := sublimation.Validate(s); err != nil {
			var ve *sublimation.ValidationError
			if errors.As(err, &ve) {
				for _, p := range ve.Problems {
					r.Violations = append(r.Violations, Violation{Kind: KindSublimation, Subject: subject, Detail: p})
				}
			}
			continue
		}

		if s.MinLevel+s.Step > s.MaxLevel {
			continue
		}
		for j, v := range s.Values {
			diff := sublimation.ValueAt(s, v, s.MinLevel+s.Step) - sublimation.ValueAt(s, v, s.MinLevel)
			if math.Abs(diff-v.Increment) > epsilon {
				r.Violations = append(r.Violations, Violation{
					Kind:    KindStepIncrement,
					Subject: subject,
					Detail:  fmt.Sprintf("value [%s]: step adds %v, increment is %v", s.TokenAt(j), diff, v.Increment),
				})
			}
		}
	}
}

// Check loads the artifacts from st and runs every check. langs names the
// sublimation files to check.
func Check(st *storage.Storage, langs []string, exc *Exceptions) (*Report, error) {
	r := &Report{}

	recipes, err := st.LoadRecipes()
	if err != nil {
		return nil, err
	}
	items, err := st.LoadItems()
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		r.Violations = append(r.Violations, Violation{Kind: KindEmptyArtifact, Subject: storage.RecipesFile, Detail: "no recipes"})
	}
	CheckRecipes(recipes, items, exc, r)

	sort.Strings(langs)
	for _, lang := range langs {
		subs, err := st.LoadSublimations(lang)
		if err != nil {
			return nil, err
		}
		CheckSublimations(lang, subs, exc, r)
	}
	return r, nil
}
