// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the recipe-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pantryops/recipe-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for
// key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the recipe-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "recipe-engine",
	Short: "Convert PDF cookbook pages into recipe files",
	Long: `recipe-engine scans a directory of PDF cookbooks, sends each selected page
to a hosted language model to transcribe any recipe on it, reformats the
transcript into the recipe manager's structured format, and writes one
.recipe file per recipe found.

The convert subcommand runs the pipeline; catalog inspects the record of
past runs kept alongside the output files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env first so secrets and config see the same environment
		// the original shell would. A missing .env is fine.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./recipe-engine.yaml or ~/.config/recipe-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("recipe-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "recipe-engine"))
		}
	}

	viper.SetEnvPrefix("RECIPE_ENGINE")
	viper.AutomaticEnv()

	// The environment names the original tool established.
	viper.BindEnv("api_key", "OPENAI_API_KEY")
	viper.BindEnv("model", "OPENAI_MODEL")
	viper.BindEnv("base_url", "OPENAI_BASE_URL")
	viper.BindEnv("input_dir", "PDF_FOLDER")
	viper.BindEnv("output_dir", "RECIPE_OUTPUT_FOLDER")

	viper.SetDefault("input_dir", "pdf")
	viper.SetDefault("output_dir", "recipeFiles")
	viper.SetDefault("max_retries", 3)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
