// Package projectconfig provides the ProjectConfig struct and loader for
// .rankllms.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultArchiveDir     = "test_archive/comparisons"
	DefaultLeaderboardDir = "leaderboard"
	DefaultPromptsetDir   = "promptsets"

	DefaultPromptset  = "basic1"
	DefaultFocusDepth = 3

	DefaultKFactor     = 32
	DefaultStartingElo = 1400.0

	DefaultMinComparisons = 5
	DefaultMinPerCategory = 2
	DefaultMaxRatingDiff  = 50.0
	DefaultMaxSuggestions = 10
)

// PathsConfig holds directory paths for the comparison archive, leaderboard
// output, and promptset definitions.
type PathsConfig struct {
	Archive     string `yaml:"archive,omitempty"`
	Leaderboard string `yaml:"leaderboard,omitempty"`
	Promptsets  string `yaml:"promptsets,omitempty"`
}

// DefaultsConfig holds default ranking parameters.
type DefaultsConfig struct {
	Promptset  string `yaml:"promptset,omitempty"`
	FocusDepth int    `yaml:"focus_depth,omitempty"`
}

// EloConfig holds rating system parameters applied when rebuilding ratings.
type EloConfig struct {
	KFactor     int     `yaml:"k_factor,omitempty"`
	StartingElo float64 `yaml:"starting_elo,omitempty"`
}

// AnalysisConfig holds the gap analyzer's thresholds. Selection is an untyped
// prompt-selection block (categories, per-category budget) decoded loosely by
// the analyze command; its keys are owned by the promptset package.
type AnalysisConfig struct {
	MinComparisons int            `yaml:"min_comparisons,omitempty"`
	MinPerCategory int            `yaml:"min_per_category,omitempty"`
	MaxRatingDiff  float64        `yaml:"max_rating_diff,omitempty"`
	MaxSuggestions int            `yaml:"max_suggestions,omitempty"`
	Selection      map[string]any `yaml:"selection,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .rankllms.yaml.
type ProjectConfig struct {
	Paths    PathsConfig    `yaml:"paths,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Elo      EloConfig      `yaml:"elo,omitempty"`
	Analysis AnalysisConfig `yaml:"analysis,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Archive:     DefaultArchiveDir,
			Leaderboard: DefaultLeaderboardDir,
			Promptsets:  DefaultPromptsetDir,
		},
		Defaults: DefaultsConfig{
			Promptset:  DefaultPromptset,
			FocusDepth: DefaultFocusDepth,
		},
		Elo: EloConfig{
			KFactor:     DefaultKFactor,
			StartingElo: DefaultStartingElo,
		},
		Analysis: AnalysisConfig{
			MinComparisons: DefaultMinComparisons,
			MinPerCategory: DefaultMinPerCategory,
			MaxRatingDiff:  DefaultMaxRatingDiff,
			MaxSuggestions: DefaultMaxSuggestions,
		},
	}
}

// Load finds .rankllms.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading .rankllms.yaml: %w", err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .rankllms.yaml: %w", err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .rankllms.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ".rankllms.yaml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Archive != "" {
		dst.Paths.Archive = src.Paths.Archive
	}
	if src.Paths.Leaderboard != "" {
		dst.Paths.Leaderboard = src.Paths.Leaderboard
	}
	if src.Paths.Promptsets != "" {
		dst.Paths.Promptsets = src.Paths.Promptsets
	}

	// Defaults
	if src.Defaults.Promptset != "" {
		dst.Defaults.Promptset = src.Defaults.Promptset
	}
	if src.Defaults.FocusDepth != 0 {
		dst.Defaults.FocusDepth = src.Defaults.FocusDepth
	}

	// Elo
	if src.Elo.KFactor != 0 {
		dst.Elo.KFactor = src.Elo.KFactor
	}
	if src.Elo.StartingElo != 0 {
		dst.Elo.StartingElo = src.Elo.StartingElo
	}

	// Analysis
	if src.Analysis.MinComparisons != 0 {
		dst.Analysis.MinComparisons = src.Analysis.MinComparisons
	}
	if src.Analysis.MinPerCategory != 0 {
		dst.Analysis.MinPerCategory = src.Analysis.MinPerCategory
	}
	if src.Analysis.MaxRatingDiff != 0 {
		dst.Analysis.MaxRatingDiff = src.Analysis.MaxRatingDiff
	}
	if src.Analysis.MaxSuggestions != 0 {
		dst.Analysis.MaxSuggestions = src.Analysis.MaxSuggestions
	}
	if len(src.Analysis.Selection) > 0 {
		dst.Analysis.Selection = src.Analysis.Selection
	}
}
