// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AIConfig holds shared settings for calls to the hosted model API.
type AIConfig struct {
	// Model is the model identifier (e.g. "gpt-4o-mini"). Required.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the model API. Required.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the chat-completions endpoint. Empty uses the
	// OpenAI default; useful for compatible gateways.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts on rate limits and
	// transient server errors (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout is the per-request HTTP timeout (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ConvertConfig holds settings for the convert stage.
type ConvertConfig struct {
	AIConfig `yaml:",inline"`

	// InputDir is the directory scanned (non-recursively) for PDFs.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir is the directory recipe files are written to. It also
	// hosts the run catalog under index/ and the run manifest.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Range is the page span applied to every document.
	Range PageRange `json:"range" yaml:"range"`
}

// CatalogConfig holds settings for the run catalog.
type CatalogConfig struct {
	// OutputDir is the recipe output directory the catalog lives under
	// (index/recipes.db).
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MaxResults is the default maximum number of list results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
