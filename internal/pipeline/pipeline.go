// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives pages through render, extraction, formatting,
// and writing, strictly one page at a time. Per-page failures are logged
// and skipped; only configuration and output IO errors abort the run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pantryops/recipe-engine/internal/pages"
	"github.com/pantryops/recipe-engine/internal/recipeai"
	"github.com/pantryops/recipe-engine/internal/recipefile"
	"github.com/pantryops/recipe-engine/pkg/types"
)

// Pipeline wires the stages together. Source and Client are interfaces so
// tests can run the whole pipeline against fakes.
type Pipeline struct {
	Source pages.DocumentSource
	Client recipeai.ModelClient
	Writer *recipefile.Writer

	// Log receives per-page status lines and the run summary.
	Log io.Writer

	// OnRecipe, when set, is called after each recipe file is written,
	// e.g. to record it in the run catalog. An error here is fatal.
	OnRecipe func(types.Recipe) error
}

// docPlan is one document with its resolved page span.
type docPlan struct {
	path  string
	start int
	end   int
}

// Run processes every PDF in inputDir through the pipeline and returns the
// run summary and the recipes written. The page range is resolved against
// every document before any page is processed, so a range error writes no
// files.
func (p *Pipeline) Run(ctx context.Context, inputDir string, r types.PageRange) (types.RunSummary, []types.Recipe, error) {
	summary := types.RunSummary{StartedAt: time.Now().UTC()}

	if err := pages.Validate(r); err != nil {
		return summary, nil, err
	}

	pdfs, err := pages.ListPDFs(inputDir)
	if err != nil {
		return summary, nil, err
	}
	if len(pdfs) == 0 {
		fmt.Fprintf(p.Log, "no PDF files in %s\n", inputDir)
		return summary, nil, nil
	}

	plans, err := p.plan(pdfs, r)
	if err != nil {
		return summary, nil, err
	}
	summary.Documents = len(plans)

	var written []types.Recipe
	for _, plan := range plans {
		recs, err := p.processDocument(ctx, plan, &summary)
		if err != nil {
			return summary, written, err
		}
		written = append(written, recs...)
	}

	fmt.Fprintf(p.Log, "\nRun summary: %d pages processed, %d recipes written, %d pages skipped, %d pages failed\n",
		summary.PagesProcessed, summary.RecipesWritten, summary.PagesSkipped, summary.PagesFailed)

	return summary, written, nil
}

// plan resolves the page range against each document up front. Documents
// that cannot be opened are dropped with a warning; a range that resolves
// against no document at all is a configuration error.
func (p *Pipeline) plan(pdfs []string, r types.PageRange) ([]docPlan, error) {
	var plans []docPlan
	for _, path := range pdfs {
		doc, err := p.Source.Open(path)
		if err != nil {
			fmt.Fprintf(p.Log, "warning: skipping %s: %v\n", path, err)
			continue
		}
		pageCount := doc.PageCount()
		doc.Close()

		if pageCount == 0 {
			fmt.Fprintf(p.Log, "warning: skipping %s: document has no pages\n", path)
			continue
		}

		start, end, err := pages.Resolve(r, pageCount)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		plans = append(plans, docPlan{path: path, start: start, end: end})
	}
	return plans, nil
}

// processDocument runs one document's selected pages through the pipeline.
// Only writer and catalog errors propagate; everything else is a per-page
// skip.
func (p *Pipeline) processDocument(ctx context.Context, plan docPlan, summary *types.RunSummary) ([]types.Recipe, error) {
	fmt.Fprintf(p.Log, "processing %s (pages %d-%d)\n", plan.path, plan.start, plan.end)

	doc, err := p.Source.Open(plan.path)
	if err != nil {
		fmt.Fprintf(p.Log, "warning: skipping %s: %v\n", plan.path, err)
		return nil, nil
	}
	defer doc.Close()

	var written []types.Recipe
	for page := plan.start; page <= plan.end; page++ {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		recs, err := p.processPage(ctx, doc, types.PageRef{PDFPath: plan.path, Page: page}, summary)
		if err != nil {
			return written, err
		}
		written = append(written, recs...)
	}
	return written, nil
}

// processPage takes one page from rendered text to written files.
func (p *Pipeline) processPage(ctx context.Context, doc pages.Document, ref types.PageRef, summary *types.RunSummary) ([]types.Recipe, error) {
	text, err := doc.PageText(ref.Page)
	if err != nil {
		fmt.Fprintf(p.Log, "failed  %s page %d: %v\n", ref.PDFPath, ref.Page, err)
		summary.PagesFailed++
		return nil, nil
	}

	transcript, found, err := recipeai.ExtractPage(ctx, p.Client, text)
	if err != nil {
		fmt.Fprintf(p.Log, "failed  %s page %d: %v\n", ref.PDFPath, ref.Page, err)
		summary.PagesFailed++
		return nil, nil
	}
	if !found {
		fmt.Fprintf(p.Log, "skipped %s page %d: no recipe\n", ref.PDFPath, ref.Page)
		summary.PagesProcessed++
		summary.PagesSkipped++
		return nil, nil
	}

	formatted, err := recipeai.FormatRecipe(ctx, p.Client, transcript)
	if err != nil {
		fmt.Fprintf(p.Log, "failed  %s page %d: %v\n", ref.PDFPath, ref.Page, err)
		summary.PagesFailed++
		return nil, nil
	}

	var written []types.Recipe
	for _, body := range recipefile.SplitRecipes(formatted) {
		rec, err := p.Writer.Write(types.Recipe{Body: body, Source: ref})
		if err != nil {
			// Output directory trouble is fatal to the run.
			return written, err
		}
		if p.OnRecipe != nil {
			if err := p.OnRecipe(rec); err != nil {
				return written, err
			}
		}
		fmt.Fprintf(p.Log, "wrote   %s (from %s page %d)\n", rec.FilePath, ref.PDFPath, ref.Page)
		summary.RecipesWritten++
		written = append(written, rec)
	}

	summary.PagesProcessed++
	return written, nil
}
