// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantryops/recipe-engine/internal/pages"
	"github.com/pantryops/recipe-engine/internal/recipefile"
	"github.com/pantryops/recipe-engine/pkg/types"
)

// --- fakes ---

type fakeDoc struct {
	texts   []string      // 1-indexed via texts[n-1]
	textErr map[int]error // page → forced error
}

func (d *fakeDoc) PageCount() int { return len(d.texts) }

func (d *fakeDoc) PageText(n int) (string, error) {
	if err, ok := d.textErr[n]; ok {
		return "", err
	}
	if n < 1 || n > len(d.texts) {
		return "", fmt.Errorf("page %d out of range", n)
	}
	return d.texts[n-1], nil
}

func (d *fakeDoc) Close() error { return nil }

type fakeSource struct {
	docs    map[string]*fakeDoc
	openErr map[string]error
}

func (s *fakeSource) Open(path string) (pages.Document, error) {
	if err, ok := s.openErr[path]; ok {
		return nil, err
	}
	doc, ok := s.docs[path]
	if !ok {
		return nil, fmt.Errorf("no such document %s", path)
	}
	return doc, nil
}

// scriptedModel plays both pipeline calls. Page text of the form
// "RECIPE <Title>" yields a transcript and then a formatted recipe with
// that title; anything else gets the sentinel.
type scriptedModel struct {
	extractErr map[string]error // title → extraction failure
	formatErr  map[string]error // title → formatting failure
}

func (m *scriptedModel) Complete(_ context.Context, _, user string) (string, error) {
	switch {
	case strings.Contains(user, "Page text:"):
		// Only the section after the marker is page content; the prompt
		// preamble itself mentions the sentinel.
		page := user[strings.Index(user, "Page text:"):]
		idx := strings.Index(page, "RECIPE ")
		if idx < 0 {
			return "NO RECIPE FOUND", nil
		}
		title := strings.TrimSpace(strings.SplitN(page[idx+len("RECIPE "):], "\n", 2)[0])
		if err, ok := m.extractErr[title]; ok {
			return "", err
		}
		return "TRANSCRIPT " + title, nil
	case strings.Contains(user, "Extract structured recipe data"):
		idx := strings.Index(user, "TRANSCRIPT ")
		if idx < 0 {
			return "", fmt.Errorf("unexpected format input: %q", user)
		}
		title := strings.TrimSpace(strings.SplitN(user[idx+len("TRANSCRIPT "):], "\n", 2)[0])
		if err, ok := m.formatErr[title]; ok {
			return "", err
		}
		return fmt.Sprintf("# %s\n\n## Ingredients\n- Eggs | 2 | any\n- Oats | 1 cup | any\n- Banana | 1 | ripe\n\n## Instructions\n1. Mix.\n2. Cook.", title), nil
	default:
		return "", fmt.Errorf("unexpected prompt: %q", user)
	}
}

func newTestPipeline(t *testing.T, src *fakeSource, model *scriptedModel) (*Pipeline, string, *bytes.Buffer) {
	t.Helper()
	outDir := t.TempDir()
	w, err := recipefile.NewWriter(outDir)
	require.NoError(t, err)
	var log bytes.Buffer
	return &Pipeline{Source: src, Client: model, Writer: w, Log: &log}, outDir, &log
}

func writePDFStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o644))
	return path
}

// --- tests ---

func TestRunThreePageScenario(t *testing.T) {
	inDir := t.TempDir()
	book := writePDFStub(t, inDir, "book.pdf")

	src := &fakeSource{docs: map[string]*fakeDoc{
		book: {texts: []string{"RECIPE Pancakes", "blank front matter", "RECIPE Waffles"}},
	}}
	p, outDir, log := newTestPipeline(t, src, &scriptedModel{})

	summary, written, err := p.Run(context.Background(), inDir, types.FullRange)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Documents)
	assert.Equal(t, 3, summary.PagesProcessed)
	assert.Equal(t, 2, summary.RecipesWritten)
	assert.Equal(t, 1, summary.PagesSkipped)
	assert.Zero(t, summary.PagesFailed)

	require.Len(t, written, 2)
	assert.Equal(t, "Pancakes", written[0].Title)
	assert.Equal(t, 1, written[0].Source.Page)
	assert.Equal(t, "Waffles", written[1].Title)
	assert.Equal(t, 3, written[1].Source.Page)

	// Output files exist under sanitized-title names with all lines intact.
	data, err := os.ReadFile(filepath.Join(outDir, "pancakes.recipe"))
	require.NoError(t, err)
	for _, line := range []string{"- Eggs | 2 | any", "- Oats | 1 cup | any", "- Banana | 1 | ripe", "1. Mix.", "2. Cook."} {
		assert.Contains(t, string(data), line)
	}
	_, err = os.Stat(filepath.Join(outDir, "waffles.recipe"))
	require.NoError(t, err)

	assert.Contains(t, log.String(), "skipped "+book+" page 2: no recipe")
	assert.Contains(t, log.String(), "Run summary: 3 pages processed, 2 recipes written, 1 pages skipped, 0 pages failed")
}

func TestRunSinglePageRange(t *testing.T) {
	inDir := t.TempDir()
	book := writePDFStub(t, inDir, "book.pdf")

	src := &fakeSource{docs: map[string]*fakeDoc{
		book: {texts: []string{"RECIPE Pancakes", "blank front matter", "RECIPE Waffles"}},
	}}
	p, _, _ := newTestPipeline(t, src, &scriptedModel{})

	summary, written, err := p.Run(context.Background(), inDir, types.PageRange{Start: 1, End: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.PagesProcessed)
	assert.Equal(t, 1, summary.RecipesWritten)
	require.Len(t, written, 1)
	assert.Equal(t, "Pancakes", written[0].Title)
}

func TestRunInvalidRangeWritesNothing(t *testing.T) {
	inDir := t.TempDir()
	book := writePDFStub(t, inDir, "book.pdf")

	src := &fakeSource{docs: map[string]*fakeDoc{
		book: {texts: []string{"RECIPE Pancakes"}},
	}}
	p, outDir, _ := newTestPipeline(t, src, &scriptedModel{})

	_, written, err := p.Run(context.Background(), inDir, types.PageRange{Start: 5, End: 2})
	require.Error(t, err)
	assert.Empty(t, written)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunRangeBeyondDocumentWritesNothing(t *testing.T) {
	inDir := t.TempDir()
	big := writePDFStub(t, inDir, "big.pdf")
	small := writePDFStub(t, inDir, "small.pdf")

	// The range fits big.pdf but starts beyond small.pdf; the run must
	// fail up front without writing files from big.pdf.
	src := &fakeSource{docs: map[string]*fakeDoc{
		big:   {texts: []string{"RECIPE A", "RECIPE B", "RECIPE C"}},
		small: {texts: []string{"RECIPE D"}},
	}}
	p, outDir, _ := newTestPipeline(t, src, &scriptedModel{})

	_, _, err := p.Run(context.Background(), inDir, types.PageRange{Start: 2, End: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "small.pdf")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunPageFailuresAreSkipped(t *testing.T) {
	inDir := t.TempDir()
	book := writePDFStub(t, inDir, "book.pdf")

	src := &fakeSource{docs: map[string]*fakeDoc{
		book: {
			texts:   []string{"RECIPE Good", "RECIPE Broken", "RECIPE Unformatted", "torn page"},
			textErr: map[int]error{4: fmt.Errorf("corrupt page")},
		},
	}}
	model := &scriptedModel{
		extractErr: map[string]error{"Broken": fmt.Errorf("api down")},
		formatErr:  map[string]error{"Unformatted": fmt.Errorf("rate limited")},
	}
	p, _, log := newTestPipeline(t, src, model)

	summary, written, err := p.Run(context.Background(), inDir, types.FullRange)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.PagesProcessed)
	assert.Equal(t, 1, summary.RecipesWritten)
	assert.Equal(t, 3, summary.PagesFailed)
	require.Len(t, written, 1)
	assert.Equal(t, "Good", written[0].Title)

	assert.Contains(t, log.String(), "api down")
	assert.Contains(t, log.String(), "rate limited")
	assert.Contains(t, log.String(), "corrupt page")
}

func TestRunDuplicateTitlesGetDistinctFiles(t *testing.T) {
	inDir := t.TempDir()
	book := writePDFStub(t, inDir, "book.pdf")

	src := &fakeSource{docs: map[string]*fakeDoc{
		book: {texts: []string{"RECIPE Chili", "RECIPE Chili"}},
	}}
	p, outDir, _ := newTestPipeline(t, src, &scriptedModel{})

	summary, written, err := p.Run(context.Background(), inDir, types.FullRange)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.RecipesWritten)
	require.Len(t, written, 2)
	assert.NotEqual(t, written[0].FilePath, written[1].FilePath)

	_, err = os.Stat(filepath.Join(outDir, "chili.recipe"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "chili_2.recipe"))
	require.NoError(t, err)
}

func TestRunUnopenableDocumentIsSkipped(t *testing.T) {
	inDir := t.TempDir()
	good := writePDFStub(t, inDir, "good.pdf")
	bad := writePDFStub(t, inDir, "bad.pdf")

	src := &fakeSource{
		docs:    map[string]*fakeDoc{good: {texts: []string{"RECIPE Soup"}}},
		openErr: map[string]error{bad: fmt.Errorf("not a PDF")},
	}
	p, _, log := newTestPipeline(t, src, &scriptedModel{})

	summary, written, err := p.Run(context.Background(), inDir, types.FullRange)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Documents)
	assert.Equal(t, 1, summary.RecipesWritten)
	require.Len(t, written, 1)
	assert.Contains(t, log.String(), "warning: skipping "+bad)
}

func TestRunEmptyInputDir(t *testing.T) {
	inDir := t.TempDir()
	p, _, log := newTestPipeline(t, &fakeSource{}, &scriptedModel{})

	summary, written, err := p.Run(context.Background(), inDir, types.FullRange)
	require.NoError(t, err)
	assert.Zero(t, summary.Total())
	assert.Empty(t, written)
	assert.Contains(t, log.String(), "no PDF files")
}

func TestRunOnRecipeCallback(t *testing.T) {
	inDir := t.TempDir()
	book := writePDFStub(t, inDir, "book.pdf")

	src := &fakeSource{docs: map[string]*fakeDoc{
		book: {texts: []string{"RECIPE Soup"}},
	}}
	p, _, _ := newTestPipeline(t, src, &scriptedModel{})

	var seen []string
	p.OnRecipe = func(rec types.Recipe) error {
		seen = append(seen, rec.Title)
		return nil
	}

	_, _, err := p.Run(context.Background(), inDir, types.FullRange)
	require.NoError(t, err)
	assert.Equal(t, []string{"Soup"}, seen)
}

func TestRunOnRecipeErrorIsFatal(t *testing.T) {
	inDir := t.TempDir()
	book := writePDFStub(t, inDir, "book.pdf")

	src := &fakeSource{docs: map[string]*fakeDoc{
		book: {texts: []string{"RECIPE Soup", "RECIPE Stew"}},
	}}
	p, _, _ := newTestPipeline(t, src, &scriptedModel{})
	p.OnRecipe = func(types.Recipe) error { return fmt.Errorf("catalog closed") }

	_, _, err := p.Run(context.Background(), inDir, types.FullRange)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog closed")
}

func TestRunContextCancelled(t *testing.T) {
	inDir := t.TempDir()
	book := writePDFStub(t, inDir, "book.pdf")

	src := &fakeSource{docs: map[string]*fakeDoc{
		book: {texts: []string{"RECIPE A", "RECIPE B"}},
	}}
	p, _, _ := newTestPipeline(t, src, &scriptedModel{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := p.Run(ctx, inDir, types.FullRange)
	assert.ErrorIs(t, err, context.Canceled)
}
