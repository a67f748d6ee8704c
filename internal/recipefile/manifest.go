// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recipefile

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pantryops/recipe-engine/pkg/types"
)

// manifestFile is written into the output directory after each run.
const manifestFile = "manifest.yaml"

// Manifest records what a convert run produced.
type Manifest struct {
	Summary types.RunSummary `yaml:"summary"`
	Recipes []types.Recipe   `yaml:"recipes"`
}

// WriteManifest marshals the run record to <outDir>/manifest.yaml,
// replacing any manifest from a previous run.
func WriteManifest(outDir string, summary types.RunSummary, recipes []types.Recipe) error {
	data, err := yaml.Marshal(Manifest{Summary: summary, Recipes: recipes})
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	path := filepath.Join(outDir, manifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
