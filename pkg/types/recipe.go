// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PageRange is a 1-indexed inclusive span of pages, applied uniformly to
// every PDF in a run. A zero End means "through the last page".
type PageRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// FullRange selects every page of a document.
var FullRange = PageRange{Start: 1, End: 0}

// PageRef identifies a single page within a source PDF.
type PageRef struct {
	// PDFPath is the filesystem path of the source document.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// Page is the 1-indexed page number.
	Page int `json:"page" yaml:"page"`
}

// Recipe is one formatted recipe ready to be persisted, together with the
// provenance of the page it was transcribed from.
type Recipe struct {
	// Title is the recipe title parsed from the first heading line.
	// Empty when the formatted text carries no title.
	Title string `json:"title" yaml:"title"`

	// Body is the full structured Markdown, including the title heading.
	Body string `json:"-" yaml:"-"`

	// Source is the page the recipe was transcribed from.
	Source PageRef `json:"source" yaml:"source"`

	// FilePath is the path the recipe was written to. Set by the writer.
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
}

// RunSummary holds the counts reported at the end of a convert run.
type RunSummary struct {
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Documents is the number of PDF files found in the input directory.
	Documents int `json:"documents" yaml:"documents"`

	// PagesProcessed counts pages that completed the full pipeline,
	// whether or not they yielded a recipe.
	PagesProcessed int `json:"pages_processed" yaml:"pages_processed"`

	// RecipesWritten counts output files created.
	RecipesWritten int `json:"recipes_written" yaml:"recipes_written"`

	// PagesSkipped counts pages where the model found no recipe.
	PagesSkipped int `json:"pages_skipped" yaml:"pages_skipped"`

	// PagesFailed counts pages abandoned after a render or API error.
	PagesFailed int `json:"pages_failed" yaml:"pages_failed"`
}

// Total returns the number of pages the run attempted.
func (s RunSummary) Total() int {
	return s.PagesProcessed + s.PagesFailed
}

// HasFailures reports whether any pages failed.
func (s RunSummary) HasFailures() bool {
	return s.PagesFailed > 0
}
