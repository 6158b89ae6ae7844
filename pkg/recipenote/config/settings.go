// Package config loads run settings and taxonomy files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/cognicore/recipenote/pkg/recipenote/internalerr"
)

// DefaultPattern matches the publication's page exports
const DefaultPattern = "Tasty Shreds Jan-Feb-March_Part*.pdf"

// DefaultOutputDir is created under the input directory
const DefaultOutputDir = "obsidian_recipes"

// DefaultSettingsFile is read when no path is given
const DefaultSettingsFile = "recipenote.toml"

// Settings is the run configuration of the batch converter
type Settings struct {
	Input    InputSettings    `toml:"input"`
	Output   OutputSettings   `toml:"output"`
	Taxonomy TaxonomySettings `toml:"taxonomy"`
	Ledger   LedgerSettings   `toml:"ledger"`
	Extract  ExtractSettings  `toml:"extract"`
}

// InputSettings selects the source documents
type InputSettings struct {
	Dir     string `toml:"dir"`
	Pattern string `toml:"pattern"`
}

// OutputSettings names the vault directory; empty means inside the input dir
type OutputSettings struct {
	Dir string `toml:"dir"`
}

// TaxonomySettings points at an optional taxonomy YAML file
type TaxonomySettings struct {
	Path string `toml:"path"`
}

// LedgerSettings points at an optional SQLite ledger
type LedgerSettings struct {
	Path string `toml:"path"`
}

// ExtractSettings picks the PDF backend: auto, fitz or pdf
type ExtractSettings struct {
	Backend string `toml:"backend"`
}

// Default returns Settings with all defaults applied
func Default() Settings {
	return Settings{
		Input:   InputSettings{Dir: ".", Pattern: DefaultPattern},
		Extract: ExtractSettings{Backend: "auto"},
	}
}

// Load reads settings: defaults -> .env -> TOML file -> env vars (env wins).
// A missing file is not an error; a malformed one is.
func Load(path string) (Settings, error) {
	cfg := Default()

	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = DefaultSettingsFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w: %v", path, internalerr.ErrInvalidConfig, err)
		}
	case explicit || !os.IsNotExist(err):
		return cfg, fmt.Errorf("read settings: %w", err)
	}

	// Env overrides
	if v := os.Getenv("RECIPENOTE_INPUT_DIR"); v != "" {
		cfg.Input.Dir = v
	}
	if v := os.Getenv("RECIPENOTE_PATTERN"); v != "" {
		cfg.Input.Pattern = v
	}
	if v := os.Getenv("RECIPENOTE_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("RECIPENOTE_TAXONOMY"); v != "" {
		cfg.Taxonomy.Path = v
	}
	if v := os.Getenv("RECIPENOTE_LEDGER"); v != "" {
		cfg.Ledger.Path = v
	}
	if v := os.Getenv("RECIPENOTE_BACKEND"); v != "" {
		cfg.Extract.Backend = v
	}

	return cfg, nil
}

// OutputDir resolves the output directory, defaulting to a folder inside the
// input directory.
func (s Settings) OutputDir() string {
	if s.Output.Dir != "" {
		return s.Output.Dir
	}
	return filepath.Join(s.Input.Dir, DefaultOutputDir)
}
