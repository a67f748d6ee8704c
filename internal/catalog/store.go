// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists a record of convert runs and the recipes they
// produced in a SQLite database under the output directory.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pantryops/recipe-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "recipes.db"
)

// Store manages the run catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the catalog at <output_dir>/index/recipes.db,
// creating the schema if it does not exist. The catalog lives inside the
// output directory, so failure here is fatal the same way an unwritable
// output directory is.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.OutputDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			documents INTEGER DEFAULT 0,
			pages_processed INTEGER DEFAULT 0,
			recipes_written INTEGER DEFAULT 0,
			pages_skipped INTEGER DEFAULT 0,
			pages_failed INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS recipes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			title TEXT,
			source_pdf TEXT NOT NULL,
			page INTEGER NOT NULL,
			file_path TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recipes_run_id ON recipes(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recipes_source ON recipes(source_pdf)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts a run row and returns its id.
func (s *Store) BeginRun(ctx context.Context, startedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at) VALUES (?)`,
		startedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// FinishRun records the final counts for a run.
func (s *Store) FinishRun(ctx context.Context, runID int64, summary types.RunSummary) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, documents = ?, pages_processed = ?,
			recipes_written = ?, pages_skipped = ?, pages_failed = ?
		 WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339),
		summary.Documents, summary.PagesProcessed, summary.RecipesWritten,
		summary.PagesSkipped, summary.PagesFailed, runID)
	if err != nil {
		return fmt.Errorf("finishing run %d: %w", runID, err)
	}
	return nil
}

// RecordRecipe stores one written recipe with its provenance.
func (s *Store) RecordRecipe(ctx context.Context, runID int64, rec types.Recipe) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recipes (run_id, title, source_pdf, page, file_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, rec.Title, rec.Source.PDFPath, rec.Source.Page, rec.FilePath,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording recipe %q: %w", rec.Title, err)
	}
	return nil
}

// RecipeRow is one catalog entry as returned by ListRecipes.
type RecipeRow struct {
	RunID     int64
	Title     string
	SourcePDF string
	Page      int
	FilePath  string
	CreatedAt string
}

// ListRecipes returns the most recent catalog entries, newest first.
func (s *Store) ListRecipes(ctx context.Context, limit int) ([]RecipeRow, error) {
	if limit <= 0 || limit > s.maxResults {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, title, source_pdf, page, file_path, created_at
		 FROM recipes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recipes: %w", err)
	}
	defer rows.Close()

	var out []RecipeRow
	for rows.Next() {
		var r RecipeRow
		if err := rows.Scan(&r.RunID, &r.Title, &r.SourcePDF, &r.Page, &r.FilePath, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning recipe row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats summarizes the catalog across all runs.
type Stats struct {
	Runs        int
	Recipes     int
	SourcePDFs  int
	LastStarted string
}

// Stats returns aggregate counts across all recorded runs.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(started_at), '') FROM runs`)
	if err := row.Scan(&st.Runs, &st.LastStarted); err != nil {
		return Stats{}, fmt.Errorf("scanning run stats: %w", err)
	}

	row = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT source_pdf) FROM recipes`)
	if err := row.Scan(&st.Recipes, &st.SourcePDFs); err != nil {
		return Stats{}, fmt.Errorf("scanning recipe stats: %w", err)
	}

	return st, nil
}
