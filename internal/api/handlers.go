package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"

	"github.com/OCharnyshevich/wakfu-craft/internal/calculator"
	"github.com/OCharnyshevich/wakfu-craft/internal/config"
	"github.com/OCharnyshevich/wakfu-craft/internal/guide"
	"github.com/OCharnyshevich/wakfu-craft/internal/sublimation"
	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

// handleVersion returns the manifest of the last sync.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	v, err := s.st.LoadVersion()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read version")
		return
	}
	if v != nil {
		respondJSON(w, http.StatusOK, map[string]any{"version": v, "fallback": false})
		return
	}

	var fb gamedata.Version
	if err := decodeFallback("wakfu_version.json", &fb); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read fallback version")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"version": fb, "fallback": true})
}

// handleCalculator computes crafts and resources for an XP gap.
func (s *Server) handleCalculator(w http.ResponseWriter, r *http.Request) {
	in := calculator.Input{ResourcesPerCraft: s.opts.ResourcesPerCraft}
	var err error
	for _, f := range []struct {
		name string
		dst  *int64
	}{
		{"expDiff", &in.ExpDiff},
		{"currentXp", &in.CurrentXP},
		{"targetXp", &in.TargetXP},
		{"expPerItem", &in.ExpPerItem},
	} {
		if *f.dst, err = int64Param(r, f.name, 0); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"currentLevel", &in.CurrentLevel},
		{"targetLevel", &in.TargetLevel},
		{"resourcesPerCraft", &in.ResourcesPerCraft},
	} {
		if *f.dst, err = intParam(r, f.name, *f.dst); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	res, err := calculator.Calculate(in, s.opts.Curve)
	if err != nil {
		if errors.Is(err, calculator.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Calculation failed")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// handleSublimations lists the sublimations of a language matching the
// query filters.
func (s *Server) handleSublimations(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.langDataset(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	level, err := intParam(r, "level", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	f := sublimation.Filter{
		Colors:   config.SplitList(q.Get("color")),
		Rarity:   config.SplitList(q.Get("rarity")),
		Category: q.Get("category"),
		Level:    level,
		Query:    q.Get("q"),
	}
	subs := sublimation.Apply(ds.Sublimations.All(), f)
	respondJSON(w, http.StatusOK, map[string]any{
		"sublimations": subs,
		"total_count":  len(subs),
		"fallback":     ds.Fallback,
	})
}

// handleSublimation renders one sublimation at a level, MinLevel by
// default.
func (s *Server) handleSublimation(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.langDataset(w, r)
	if !ok {
		return
	}
	sub, found := ds.Sublimations.ByName(chi.URLParam(r, "name"))
	if !found {
		respondError(w, http.StatusNotFound, "Sublimation not found")
		return
	}

	level, err := intParam(r, "level", sub.MinLevel)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	text, err := sublimation.Render(&sub, level)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"sublimation": sub,
		"level":       sublimation.Stage(&sub, level)*sub.Step + sub.MinLevel,
		"rendered":    text,
		"fallback":    ds.Fallback,
	})
}

// handleItem returns an item and the recipes producing it.
func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	ds, id, ok := s.itemRequest(w, r)
	if !ok {
		return
	}
	item, found := ds.Items.ByID(id)
	if !found {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}
	recipes := ds.Recipes.ByResult(id)
	if recipes == nil {
		recipes = []gamedata.Recipe{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"item":     item,
		"recipes":  recipes,
		"fallback": ds.Fallback,
	})
}

// maxGuideQty keeps the quantities of a guide tree far from int overflow.
const maxGuideQty = 1_000_000

// handleGuide returns the craft tree and base materials for qty units of
// an item.
func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	ds, id, ok := s.itemRequest(w, r)
	if !ok {
		return
	}
	qty, err := intParam(r, "qty", 1)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if qty > maxGuideQty {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("qty must be at most %d", maxGuideQty))
		return
	}

	key := fmt.Sprintf("guide:%s:%d:%d", ds.Lang, id, qty)
	if v, found := s.cache.Get(key); found {
		respondJSON(w, http.StatusOK, v)
		return
	}

	g, err := guide.NewBuilder(ds.Items, ds.Recipes, guide.DefaultMaxDepth).Build(id, qty)
	if err != nil {
		if errors.Is(err, guide.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Item not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.cache.Set(key, g, cache.DefaultExpiration)
	respondJSON(w, http.StatusOK, g)
}

// handleRuns lists the sync history when a database is configured.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.opts.DB == nil {
		respondError(w, http.StatusNotFound, "Run history is not enabled")
		return
	}
	limit, err := intParam(r, "limit", 20)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	runs, err := s.opts.DB.Runs(r.Context(), limit)
	if err != nil {
		s.log.Error("failed to list runs", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch runs")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"runs":        runs,
		"total_count": len(runs),
	})
}

// langDataset resolves the {lang} URL parameter.
func (s *Server) langDataset(w http.ResponseWriter, r *http.Request) (*dataset, bool) {
	return s.resolve(w, chi.URLParam(r, "lang"))
}

// itemRequest resolves the {id} URL parameter and the lang query, which
// defaults to English.
func (s *Server) itemRequest(w http.ResponseWriter, r *http.Request) (*dataset, int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid item id")
		return nil, 0, false
	}
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "en"
	}
	ds, ok := s.resolve(w, lang)
	return ds, id, ok
}

func (s *Server) resolve(w http.ResponseWriter, lang string) (*dataset, bool) {
	if !langRe.MatchString(lang) {
		respondError(w, http.StatusBadRequest, "Invalid language")
		return nil, false
	}
	ds, err := s.dataset(lang)
	if err != nil {
		s.log.Error("failed to load dataset", "lang", lang, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to load data")
		return nil, false
	}
	return ds, true
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, v)
	}
	return n, nil
}

func int64Param(r *http.Request, name string, def int64) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, v)
	}
	return n, nil
}
