// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pantryops/recipe-engine/internal/catalog"
	"github.com/pantryops/recipe-engine/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the record of past convert runs",
	Long: `Catalog reads the SQLite database kept under <output>/index/ and reports
what earlier runs produced. Use list for individual recipes and stats for
aggregate counts.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes written by past runs, newest first",
	RunE:  runCatalogList,
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate counts across all runs",
	RunE:  runCatalogStats,
}

func init() {
	catalogCmd.PersistentFlags().String("output", "", "recipe output directory the catalog lives under")
	catalogListCmd.Flags().Int("limit", 0, "maximum rows to list (default 50)")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogStatsCmd)
	rootCmd.AddCommand(catalogCmd)
}

func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = viper.GetString("output_dir")
	}
	return catalog.NewStore(types.CatalogConfig{OutputDir: outputDir})
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	rows, err := store.ListRecipes(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Println("catalog is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tTITLE\tSOURCE\tPAGE\tFILE")
	for _, r := range rows {
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", r.RunID, title, r.SourcePDF, r.Page, r.FilePath)
	}
	return w.Flush()
}

func runCatalogStats(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("runs:        %d\n", stats.Runs)
	fmt.Printf("recipes:     %d\n", stats.Recipes)
	fmt.Printf("source PDFs: %d\n", stats.SourcePDFs)
	if stats.LastStarted != "" {
		fmt.Printf("last run:    %s\n", stats.LastStarted)
	}
	return nil
}
