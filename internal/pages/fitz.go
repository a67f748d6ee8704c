// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pages

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// FitzSource opens PDFs with MuPDF via go-fitz.
type FitzSource struct{}

// Open opens the PDF at path. Corrupt or unreadable files fail here, not
// at page render time.
func (FitzSource) Open(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

// PageText renders page n as plain text. go-fitz pages are 0-indexed.
func (d *fitzDocument) PageText(n int) (string, error) {
	if n < 1 || n > d.doc.NumPage() {
		return "", fmt.Errorf("page %d out of range [1, %d]", n, d.doc.NumPage())
	}
	text, err := d.doc.Text(n - 1)
	if err != nil {
		return "", fmt.Errorf("rendering page %d: %w", n, err)
	}
	return text, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
