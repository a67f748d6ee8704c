// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pantryops/recipe-engine/internal/catalog"
	"github.com/pantryops/recipe-engine/internal/pages"
	"github.com/pantryops/recipe-engine/internal/pipeline"
	"github.com/pantryops/recipe-engine/internal/recipeai"
	"github.com/pantryops/recipe-engine/internal/recipefile"
	"github.com/pantryops/recipe-engine/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Extract recipes from the PDFs in the input directory",
	Long: `Convert scans the input directory for PDF files and processes each page
in the selected range: the page text is sent to the model for transcription,
transcribed recipes are reformatted, and each recipe is written to its own
.recipe file in the output directory.

Pages that fail or hold no recipe are logged and skipped; the run still
exits zero. Only configuration errors and an unwritable output directory
abort the run.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Int("start", 1, "first page to process (1-indexed)")
	convertCmd.Flags().Int("end", 0, "last page to process, inclusive (default: last page)")
	convertCmd.Flags().String("input", "", "directory of PDF files (default: $PDF_FOLDER or pdf)")
	convertCmd.Flags().String("output", "", "directory for .recipe files (default: $RECIPE_OUTPUT_FOLDER or recipeFiles)")
	convertCmd.Flags().String("model", "", "model identifier override (default: $OPENAI_MODEL)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := convertConfig(cmd)
	if err != nil {
		return err
	}
	if err := pages.Validate(cfg.Range); err != nil {
		return err
	}

	writer, err := recipefile.NewWriter(cfg.OutputDir)
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(types.CatalogConfig{OutputDir: cfg.OutputDir})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	runID, err := store.BeginRun(ctx, time.Now())
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Source: pages.FitzSource{},
		Client: recipeai.NewOpenAIClient(cfg.AIConfig),
		Writer: writer,
		Log:    os.Stdout,
		OnRecipe: func(rec types.Recipe) error {
			return store.RecordRecipe(ctx, runID, rec)
		},
	}

	summary, written, err := p.Run(ctx, cfg.InputDir, cfg.Range)
	if err != nil {
		return err
	}

	if err := store.FinishRun(ctx, runID, summary); err != nil {
		return err
	}
	if err := recipefile.WriteManifest(cfg.OutputDir, summary, written); err != nil {
		return err
	}

	return nil
}

// convertConfig assembles the convert configuration from flags, config
// file, environment, and the secrets directory. Missing credentials are a
// configuration error caught here, before any processing.
func convertConfig(cmd *cobra.Command) (types.ConvertConfig, error) {
	start, _ := cmd.Flags().GetInt("start")
	end, _ := cmd.Flags().GetInt("end")

	inputDir, _ := cmd.Flags().GetString("input")
	if inputDir == "" {
		inputDir = viper.GetString("input_dir")
	}
	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = viper.GetString("output_dir")
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("model")
	}

	cfg := types.ConvertConfig{
		AIConfig: types.AIConfig{
			Model:      model,
			APIKey:     secretDefault("openai-api-key", viper.GetString("api_key")),
			BaseURL:    secretDefault("openai-base-url", viper.GetString("base_url")),
			MaxRetries: viper.GetInt("max_retries"),
			Timeout:    viper.GetDuration("timeout"),
		},
		InputDir:  inputDir,
		OutputDir: outputDir,
		Range:     types.PageRange{Start: start, End: end},
	}

	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("missing API key: set OPENAI_API_KEY (or .secrets/openai-api-key)")
	}
	if cfg.Model == "" {
		return cfg, fmt.Errorf("missing model name: set OPENAI_MODEL or pass --model")
	}
	return cfg, nil
}
