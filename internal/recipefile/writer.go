// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recipefile persists formatted recipes as individual .recipe
// files with filesystem-safe, collision-free names.
package recipefile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pantryops/recipe-engine/pkg/types"
)

// Ext is the file extension the recipe manager imports.
const Ext = ".recipe"

// maxNameLen bounds derived filenames (before the extension).
const maxNameLen = 80

// Writer writes recipes into one output directory, tracking names used
// during the run so collisions get a numeric suffix instead of an
// overwrite.
type Writer struct {
	outDir  string
	used    map[string]bool
	counter int
}

// NewWriter creates the output directory if needed and verifies it is
// writable. Failure here is fatal to the run.
func NewWriter(outDir string) (*Writer, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	// Probe writability up front rather than failing on the first recipe.
	probe, err := os.CreateTemp(outDir, ".probe-*")
	if err != nil {
		return nil, fmt.Errorf("output directory %s is not writable: %w", outDir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return &Writer{outDir: outDir, used: make(map[string]bool)}, nil
}

// Write persists one recipe and returns it with Title and FilePath filled
// in. The filename comes from the recipe's title line, or a sequential
// counter when no title parses.
func (w *Writer) Write(recipe types.Recipe) (types.Recipe, error) {
	recipe.Title = TitleOf(recipe.Body)

	name := SanitizeTitle(recipe.Title)
	if name == "" {
		w.counter++
		name = fmt.Sprintf("recipe_%d", w.counter)
	}
	name = w.dedupe(name)

	path := filepath.Join(w.outDir, name+Ext)
	if err := os.WriteFile(path, []byte(recipe.Body), 0o644); err != nil {
		return recipe, fmt.Errorf("writing %s: %w", path, err)
	}

	recipe.FilePath = path
	return recipe, nil
}

// dedupe reserves a name for this run, appending _2, _3, ... when the name
// was already used or a file from an earlier run is in the way.
func (w *Writer) dedupe(name string) string {
	candidate := name
	for n := 2; ; n++ {
		if !w.used[candidate] && !fileExists(filepath.Join(w.outDir, candidate+Ext)) {
			w.used[candidate] = true
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// SplitRecipes breaks formatted Markdown into individual recipes at
// top-level "# " headings. Text before the first heading becomes its own
// untitled recipe. Blank-only chunks are dropped.
func SplitRecipes(markdown string) []string {
	var recipes []string
	var current []string

	flush := func() {
		chunk := strings.TrimSpace(strings.Join(current, "\n"))
		if chunk != "" {
			recipes = append(recipes, chunk)
		}
		current = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "# ") {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return recipes
}

// TitleOf returns the recipe title from the first "# " heading line, or ""
// when the text has no top-level heading.
func TitleOf(recipe string) string {
	for _, line := range strings.Split(recipe, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
		return ""
	}
	return ""
}

var unsafeChars = regexp.MustCompile(`[^\w\s-]`)
var whitespace = regexp.MustCompile(`\s+`)

// SanitizeTitle converts a recipe title into a filesystem-safe name:
// path-unsafe characters are removed, whitespace collapses to underscores,
// the result is lowercased and truncated.
func SanitizeTitle(title string) string {
	name := unsafeChars.ReplaceAllString(title, "")
	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.ToLower(name)
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
		name = strings.Trim(name, "_")
	}
	return name
}
