// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantryops/recipe-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.CatalogConfig{OutputDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStoreCreatesSchema(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.CatalogConfig{OutputDir: dir})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, "index", "recipes.db"))
	require.NoError(t, err)

	// Opening the same catalog again must not fail.
	s2, err := NewStore(types.CatalogConfig{OutputDir: dir})
	require.NoError(t, err)
	s2.Close()
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	runID, err := s.BeginRun(ctx, time.Now())
	require.NoError(t, err)
	require.Positive(t, runID)

	recipes := []types.Recipe{
		{Title: "Chili", Source: types.PageRef{PDFPath: "book.pdf", Page: 1}, FilePath: "out/chili.recipe"},
		{Title: "Soup", Source: types.PageRef{PDFPath: "book.pdf", Page: 3}, FilePath: "out/soup.recipe"},
	}
	for _, rec := range recipes {
		require.NoError(t, s.RecordRecipe(ctx, runID, rec))
	}

	summary := types.RunSummary{Documents: 1, PagesProcessed: 3, RecipesWritten: 2, PagesSkipped: 1}
	require.NoError(t, s.FinishRun(ctx, runID, summary))

	rows, err := s.ListRecipes(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Newest first.
	assert.Equal(t, "Soup", rows[0].Title)
	assert.Equal(t, 3, rows[0].Page)
	assert.Equal(t, "Chili", rows[1].Title)
	assert.Equal(t, "book.pdf", rows[1].SourcePDF)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Runs)
	assert.Equal(t, 2, stats.Recipes)
	assert.Equal(t, 1, stats.SourcePDFs)
	assert.NotEmpty(t, stats.LastStarted)
}

func TestListRecipesLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	runID, err := s.BeginRun(ctx, time.Now())
	require.NoError(t, err)
	for i := 1; i <= 5; i++ {
		rec := types.Recipe{
			Title:    "Recipe",
			Source:   types.PageRef{PDFPath: "book.pdf", Page: i},
			FilePath: "out/r.recipe",
		}
		require.NoError(t, s.RecordRecipe(ctx, runID, rec))
	}

	rows, err := s.ListRecipes(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, 5, rows[0].Page)
}

func TestStatsEmptyCatalog(t *testing.T) {
	s := newTestStore(t)
	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Runs)
	assert.Zero(t, stats.Recipes)
	assert.Empty(t, stats.LastStarted)
}
