// Package pipeline runs one sync: resolve the CDN version, fetch and join
// the datasets, localize the sublimations and write the artifacts.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/wakfu-craft/internal/cdn"
	"github.com/OCharnyshevich/wakfu-craft/internal/compact"
	"github.com/OCharnyshevich/wakfu-craft/internal/config"
	"github.com/OCharnyshevich/wakfu-craft/internal/i18n"
	"github.com/OCharnyshevich/wakfu-craft/internal/schema"
	"github.com/OCharnyshevich/wakfu-craft/internal/storage"
	"github.com/OCharnyshevich/wakfu-craft/internal/store"
	"github.com/OCharnyshevich/wakfu-craft/internal/stream"
	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

// BaseLang is the language the base sublimation file is written in.
const BaseLang = "en"

// ErrNoRecipes is returned when the join produced no recipe at all.
var ErrNoRecipes = errors.New("no recipes built")

// Result summarizes a run.
type Result struct {
	RunID        string
	Version      string
	Skipped      bool
	Recipes      int
	Items        int
	MissingItems []int
	Sublimations map[string]int
	Unmatched    map[string]int
}

type Pipeline struct {
	cfg *config.Config
	src cdn.Source
	st  *storage.Storage
	db  *store.Store
	log *slog.Logger
	now func() time.Time
}

// New returns a pipeline reading from src and writing into st. db may be
// nil, in which case no SQLite export or run history is kept.
func New(cfg *config.Config, src cdn.Source, st *storage.Storage, db *store.Store, log *slog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, src: src, st: st, db: db, log: log, now: time.Now}
}

// datasets holds the small datasets fetched before the items stream.
type datasets struct {
	recipes     []schema.RawRecipe
	ingredients []schema.RawIngredient
	results     []schema.RawResult
	categories  []schema.RawCategory
	states      []schema.RawState
	equipment   []schema.RawEquipmentType
}

// Run executes one sync. Nothing is written unless every step succeeds.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := p.now()
	res := &Result{
		RunID:        uuid.NewString(),
		Sublimations: make(map[string]int),
		Unmatched:    make(map[string]int),
	}
	log := p.log.With("run", res.RunID)

	err := p.run(ctx, log, res, started)
	p.record(ctx, log, res, started, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, log *slog.Logger, res *Result, started time.Time) error {
	mapping, err := schema.Lookup(p.cfg.Schema)
	if err != nil {
		return err
	}

	version := p.cfg.Version
	if version == "" {
		if version, err = p.src.Version(ctx); err != nil {
			return fmt.Errorf("resolve version: %w", err)
		}
	}
	res.Version = version
	log = log.With("version", version, "schema", mapping.Name)

	prev, err := p.st.LoadVersion()
	if err != nil {
		return err
	}
	if prev != nil && !p.cfg.Force {
		newer, err := cdn.IsNewer(version, prev.Version)
		if err != nil {
			return err
		}
		if !newer {
			log.Info("artifacts are up to date, skipping", "current", prev.Version)
			res.Skipped = true
			return nil
		}
	}

	log.Info("sync started")
	ds, err := p.fetch(ctx, log, version, mapping)
	if err != nil {
		return err
	}

	recipes, stats := compact.BuildRecipes(ds.recipes, ds.ingredients, ds.results)
	log.Info("recipes joined",
		"recipes", stats.Recipes,
		"built", stats.Built,
		"skipped_no_result", stats.SkippedNoResult,
		"no_ingredients", stats.NoIngredients,
		"orphan_ingredients", stats.OrphanIngredients,
		"orphan_results", stats.OrphanResults,
		"extra_results", stats.ExtraResults,
		"duplicate_recipes", stats.DuplicateRecipes)
	if len(recipes) == 0 {
		logSamples(log, ds)
		return ErrNoRecipes
	}
	if len(stats.SampleSkippedRecipe) > 0 {
		log.Debug("sample recipes without result", "ids", stats.SampleSkippedRecipe)
	}

	needed := compact.NeededItemIDs(recipes)
	subTypes := sublimationTypes(p.cfg.SublimationTypeIDs, ds.equipment)
	records, tr, err := p.extract(ctx, version, mapping, needed, subTypes)
	if err != nil {
		return err
	}
	log.Info("items extracted", "needed", len(needed), "records", len(records), "sublimation_items", tr.Len(BaseLang))

	if p.cfg.JarsPath != "" {
		if err := i18n.LoadJars(p.cfg.JarsPath, p.cfg.Langs, tr, log); err != nil {
			return err
		}
	}

	items, missing := compact.BuildItems(records, needed, p.cfg.PrimaryLang)
	if len(missing) > 0 {
		log.Warn("needed items not found in items dataset", "count", len(missing), "sample", sample(missing))
	}
	res.Recipes, res.Items, res.MissingItems = len(recipes), len(items), missing

	localized, unmatched, err := p.localize(tr, ds.states)
	if err != nil {
		return err
	}
	for lang, subs := range localized {
		res.Sublimations[lang] = len(subs)
		res.Unmatched[lang] = len(unmatched[lang])
		if len(unmatched[lang]) > 0 {
			log.Warn("sublimations without translation", "lang", lang, "count", len(unmatched[lang]))
		}
	}

	// The export is transactional, so it goes first: a failed export
	// leaves the artifacts of the previous run untouched.
	if p.db != nil {
		run := p.runRow(res, started, nil)
		if err := p.db.Export(ctx, run, store.Snapshot{Items: items, Recipes: recipes, Sublimations: localized}); err != nil {
			return fmt.Errorf("export database: %w", err)
		}
	}
	if err := p.write(recipes, items, needed, categories(ds.categories), localized, unmatched); err != nil {
		return err
	}
	if err := p.st.SaveVersion(&gamedata.Version{
		Version:   version,
		FetchedAt: p.now().UTC(),
		RunID:     res.RunID,
		Schema:    mapping.Name,
	}); err != nil {
		return err
	}

	log.Info("sync finished", "recipes", res.Recipes, "items", res.Items)
	return nil
}

func (p *Pipeline) fetch(ctx context.Context, log *slog.Logger, version string, m *schema.Mapping) (*datasets, error) {
	ds := &datasets{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.FetchConcurrency)

	g.Go(func() (err error) {
		ds.recipes, err = collect(ctx, p.src, log, version, m, schema.DatasetRecipes, m.Recipe)
		return err
	})
	g.Go(func() (err error) {
		ds.ingredients, err = collect(ctx, p.src, log, version, m, schema.DatasetRecipeIngredients, m.Ingredient)
		return err
	})
	g.Go(func() (err error) {
		ds.results, err = collect(ctx, p.src, log, version, m, schema.DatasetRecipeResults, m.Result)
		return err
	})
	g.Go(func() (err error) {
		ds.categories, err = collect(ctx, p.src, log, version, m, schema.DatasetRecipeCategories, m.Category)
		return err
	})
	g.Go(func() (err error) {
		ds.states, err = collect(ctx, p.src, log, version, m, schema.DatasetStates, m.State)
		return err
	})
	g.Go(func() (err error) {
		ds.equipment, err = collect(ctx, p.src, log, version, m, schema.DatasetEquipmentItemTypes, m.EquipmentType)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}

func collect[T any](ctx context.Context, src cdn.Source, log *slog.Logger, version string, m *schema.Mapping, dataset string, decode func([]byte) T) ([]T, error) {
	rc, err := src.Open(ctx, version, dataset)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rows, err := stream.Collect(ctx, rc, m, dataset, decode)
	if err != nil {
		return nil, err
	}
	log.Debug("dataset fetched", "dataset", dataset, "count", len(rows))
	return rows, nil
}

// extract streams the items dataset once. Needed items become records;
// sublimation items feed the translations.
func (p *Pipeline) extract(ctx context.Context, version string, m *schema.Mapping, needed []int, subTypes stream.TypeSet) (map[int]stream.Record, *i18n.Translations, error) {
	rc, err := p.src.Open(ctx, version, schema.DatasetItems)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	want := stream.NewIDSet(needed...)
	records := make(map[int]stream.Record, len(needed))
	tr := i18n.NewTranslations()

	err = stream.Extract(ctx, rc, m, p.cfg.PrimaryLang, stream.AnyOf{want, subTypes}, func(rec stream.Record) error {
		if _, ok := want[rec.ID]; ok {
			records[rec.ID] = rec
		}
		if _, ok := subTypes[rec.TypeID]; ok {
			tr.AddItem(rec.ID, rec.Titles, rec.Descriptions)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return records, tr, nil
}

func (p *Pipeline) localize(tr *i18n.Translations, states []schema.RawState) (matched, unmatched map[string][]gamedata.Sublimation, err error) {
	base, err := loadBase(p.cfg.SublimationsPath)
	if err != nil {
		return nil, nil, err
	}
	aliases, err := i18n.LoadAliases(p.cfg.AliasesPath)
	if err != nil {
		return nil, nil, err
	}

	stateTr := i18n.NewTranslations()
	for _, s := range states {
		stateTr.AddItem(s.ID, s.Titles, s.Descriptions)
	}
	merger := i18n.NewMerger(tr, aliases, BaseLang).WithEffects(stateTr)

	matched = make(map[string][]gamedata.Sublimation, len(p.cfg.Langs))
	unmatched = make(map[string][]gamedata.Sublimation, len(p.cfg.Langs))
	for _, lang := range p.cfg.Langs {
		matched[lang], unmatched[lang] = merger.Merge(base, lang)
	}
	return matched, unmatched, nil
}

func (p *Pipeline) write(recipes []gamedata.Recipe, items []gamedata.Item, needed []int, cats []gamedata.Category,
	subs, unmatched map[string][]gamedata.Sublimation) error {
	if err := p.st.SaveRecipes(recipes); err != nil {
		return err
	}
	if err := p.st.SaveItems(items); err != nil {
		return err
	}
	if err := p.st.SaveNeededItemIDs(needed); err != nil {
		return err
	}
	if err := p.st.SaveCategories(cats); err != nil {
		return err
	}
	for _, lang := range p.cfg.Langs {
		if err := p.st.SaveSublimations(lang, subs[lang]); err != nil {
			return err
		}
		if err := p.st.SaveUnmatched(lang, unmatched[lang]); err != nil {
			return err
		}
	}
	return nil
}

// record stores the run in the history. A successful export already
// recorded it; a failure after the export overwrites that row.
func (p *Pipeline) record(ctx context.Context, log *slog.Logger, res *Result, started time.Time, runErr error) {
	if p.db == nil || (runErr == nil && !res.Skipped) {
		return
	}
	run := p.runRow(res, started, runErr)
	if err := p.db.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		log.Error("failed to record run", "error", err)
	}
}

func (p *Pipeline) runRow(res *Result, started time.Time, runErr error) store.Run {
	run := store.Run{
		ID:         res.RunID,
		Version:    res.Version,
		Schema:     p.cfg.Schema,
		Status:     store.StatusOK,
		Recipes:    res.Recipes,
		Items:      res.Items,
		StartedAt:  started,
		FinishedAt: p.now(),
	}
	for _, n := range res.Sublimations {
		run.Sublimations += n
	}
	switch {
	case runErr != nil:
		run.Status = store.StatusFailed
		run.Error = runErr.Error()
	case res.Skipped:
		run.Status = store.StatusSkipped
	}
	return run
}

func loadBase(path string) ([]gamedata.Sublimation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read base sublimations: %w", err)
	}
	var subs []gamedata.Sublimation
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("parse base sublimations %s: %w", path, err)
	}
	return subs, nil
}

// sublimationTypes returns ids plus every equipment type below them.
func sublimationTypes(ids []int, equipment []schema.RawEquipmentType) stream.TypeSet {
	set := make(stream.TypeSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	for changed := true; changed; {
		changed = false
		for _, e := range equipment {
			_, parent := set[e.ParentID]
			_, have := set[e.ID]
			if parent && !have && e.ParentID != 0 {
				set[e.ID] = struct{}{}
				changed = true
			}
		}
	}
	return set
}

func categories(raw []schema.RawCategory) []gamedata.Category {
	out := make([]gamedata.Category, 0, len(raw))
	for _, c := range raw {
		out = append(out, gamedata.Category{ID: c.ID, Names: c.Titles})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func logSamples(log *slog.Logger, ds *datasets) {
	log.Warn("join produced no recipes",
		"recipes", len(ds.recipes),
		"ingredients", len(ds.ingredients),
		"results", len(ds.results),
		"sample_recipes", firstN(ds.recipes),
		"sample_results", firstN(ds.results))
}

func firstN[T any](rows []T) []T {
	if len(rows) > 3 {
		return rows[:3]
	}
	return rows
}

func sample(ids []int) []int {
	if len(ids) > 10 {
		return ids[:10]
	}
	return ids
}
