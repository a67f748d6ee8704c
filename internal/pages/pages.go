// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pages enumerates PDF files and renders their pages to text.
// The DocumentSource boundary keeps the PDF library behind an interface
// so the pipeline can be exercised with fakes.
package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pantryops/recipe-engine/pkg/types"
)

// Document is one open PDF. Page numbers are 1-indexed.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// PageText renders page n as plain text, preserving line layout as
	// far as the underlying renderer allows.
	PageText(n int) (string, error)

	// Close releases the document's resources.
	Close() error
}

// DocumentSource opens documents by path.
type DocumentSource interface {
	Open(path string) (Document, error)
}

// ListPDFs returns the PDF files directly inside dir (non-recursive),
// sorted by name. Extension matching is case-insensitive.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// Validate checks a page range before any document is opened. Start must be
// at least 1 and End, when set, must not precede Start.
func Validate(r types.PageRange) error {
	if r.Start < 1 {
		return fmt.Errorf("invalid page range: start %d is before page 1", r.Start)
	}
	if r.End != 0 && r.End < r.Start {
		return fmt.Errorf("invalid page range: start %d is after end %d", r.Start, r.End)
	}
	return nil
}

// Resolve clamps a validated range against a document's page count and
// returns the concrete inclusive span. A zero End means the last page.
// Resolve fails when the start lies beyond the document.
func Resolve(r types.PageRange, pageCount int) (start, end int, err error) {
	if err := Validate(r); err != nil {
		return 0, 0, err
	}

	start = r.Start
	end = r.End
	if end == 0 || end > pageCount {
		end = pageCount
	}
	if start > end {
		return 0, 0, fmt.Errorf("invalid page range: start %d is beyond the last page (%d)", start, pageCount)
	}
	return start, end, nil
}
