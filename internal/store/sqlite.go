// Package store exports the compact datasets to SQLite and keeps the
// history of sync runs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/OCharnyshevich/wakfu-craft/pkg/gamedata"
)

// Run statuses.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Run is one row of the sync history.
type Run struct {
	ID           string    `json:"id"`
	Version      string    `json:"version"`
	Schema       string    `json:"schema"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	Recipes      int       `json:"recipes"`
	Items        int       `json:"items"`
	Sublimations int       `json:"sublimations"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
}

// Snapshot is the data of one successful run.
type Snapshot struct {
	Items        []gamedata.Item
	Recipes      []gamedata.Recipe
	Sublimations map[string][]gamedata.Sublimation
}

type Store struct {
	db *sql.DB
}

// New opens path and runs the migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sync_runs (
			id TEXT PRIMARY KEY,
			version TEXT NOT NULL,
			schema TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			recipes INTEGER DEFAULT 0,
			items INTEGER DEFAULT 0,
			sublimations INTEGER DEFAULT 0,
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_runs_started ON sync_runs(started_at)`,
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			level INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS recipes (
			id INTEGER PRIMARY KEY,
			result_item_id INTEGER NOT NULL,
			result_qty INTEGER NOT NULL,
			profession_id INTEGER,
			level INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recipes_result ON recipes(result_item_id)`,
		`CREATE TABLE IF NOT EXISTS ingredients (
			recipe_id INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			item_id INTEGER NOT NULL,
			qty INTEGER NOT NULL,
			PRIMARY KEY (recipe_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS sublimations (
			lang TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT,
			min_level INTEGER,
			max_level INTEGER,
			data TEXT NOT NULL,
			PRIMARY KEY (lang, name)
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Export replaces the stored datasets with snap and records run, in one
// transaction.
func (s *Store) Export(ctx context.Context, run Run, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"ingredients", "recipes", "items", "sublimations"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	itemStmt, err := tx.PrepareContext(ctx, `INSERT INTO items (id, name, description, level) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()
	for _, it := range snap.Items {
		if _, err := itemStmt.ExecContext(ctx, it.ID, it.Name, it.Description, it.Level); err != nil {
			return fmt.Errorf("insert item %d: %w", it.ID, err)
		}
	}

	recipeStmt, err := tx.PrepareContext(ctx, `INSERT INTO recipes (id, result_item_id, result_qty, profession_id, level) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer recipeStmt.Close()
	ingStmt, err := tx.PrepareContext(ctx, `INSERT INTO ingredients (recipe_id, position, item_id, qty) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ingStmt.Close()
	for _, r := range snap.Recipes {
		if _, err := recipeStmt.ExecContext(ctx, r.ID, r.ResultItemID, r.ResultQty, r.ProfessionID, r.Level); err != nil {
			return fmt.Errorf("insert recipe %d: %w", r.ID, err)
		}
		for i, ing := range r.Ingredients {
			if _, err := ingStmt.ExecContext(ctx, r.ID, i, ing.ItemID, ing.Qty); err != nil {
				return fmt.Errorf("insert ingredient %d of recipe %d: %w", i, r.ID, err)
			}
		}
	}

	subStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO sublimations (lang, name, category, min_level, max_level, data) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer subStmt.Close()
	langs := make([]string, 0, len(snap.Sublimations))
	for lang := range snap.Sublimations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		for _, sub := range snap.Sublimations[lang] {
			data, err := json.Marshal(sub)
			if err != nil {
				return fmt.Errorf("encode sublimation %q: %w", sub.Name, err)
			}
			if _, err := subStmt.ExecContext(ctx, lang, sub.Name, sub.Category, sub.MinLevel, sub.MaxLevel, string(data)); err != nil {
				return fmt.Errorf("insert sublimation %s/%q: %w", lang, sub.Name, err)
			}
		}
	}

	if err := insertRun(ctx, tx, run); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordRun stores a run without touching the datasets. A run with the
// same id is replaced.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	return insertRun(ctx, s.db, run)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRun(ctx context.Context, db execer, run Run) error {
	_, err := db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sync_runs (id, version, schema, status, error, recipes, items, sublimations, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Version, run.Schema, run.Status, run.Error, run.Recipes, run.Items, run.Sublimations,
		run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Runs returns the most recent runs first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, version, schema, status, COALESCE(error, ''), recipes, items, sublimations, started_at, finished_at
		FROM sync_runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Version, &r.Schema, &r.Status, &r.Error,
			&r.Recipes, &r.Items, &r.Sublimations, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Counts returns the number of stored items and recipes.
func (s *Store) Counts(ctx context.Context) (items, recipes int, err error) {
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&items); err != nil {
		return 0, 0, err
	}
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&recipes); err != nil {
		return 0, 0, err
	}
	return items, recipes, nil
}
