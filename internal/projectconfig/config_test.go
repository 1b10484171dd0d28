package projectconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoConfigFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultArchiveDir, cfg.Paths.Archive)
	assert.Equal(t, DefaultPromptset, cfg.Defaults.Promptset)
	assert.Equal(t, DefaultKFactor, cfg.Elo.KFactor)
	assert.Equal(t, DefaultMaxSuggestions, cfg.Analysis.MaxSuggestions)
}

func TestLoad_MergesFileOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `paths:
  archive: /data/comparisons
defaults:
  promptset: hard1
elo:
  k_factor: 16
analysis:
  max_suggestions: 25
  selection:
    categories: [Reasoning]
    max_per_category: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".rankllms.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/data/comparisons", cfg.Paths.Archive)
	assert.Equal(t, "hard1", cfg.Defaults.Promptset)
	assert.Equal(t, 16, cfg.Elo.KFactor)
	assert.Equal(t, 25, cfg.Analysis.MaxSuggestions)
	assert.Equal(t, []any{"Reasoning"}, cfg.Analysis.Selection["categories"])
	assert.Equal(t, 5, cfg.Analysis.Selection["max_per_category"])

	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultLeaderboardDir, cfg.Paths.Leaderboard)
	assert.Equal(t, DefaultStartingElo, cfg.Elo.StartingElo)
	assert.Equal(t, DefaultFocusDepth, cfg.Defaults.FocusDepth)
}

func TestLoad_WalksUpToParent(t *testing.T) {
	parent := t.TempDir()
	child := filepath.Join(parent, "a", "b")
	require.NoError(t, os.MkdirAll(child, 0o755))

	content := "defaults:\n  promptset: nested\n"
	require.NoError(t, os.WriteFile(filepath.Join(parent, ".rankllms.yaml"), []byte(content), 0o644))

	cfg, err := Load(child)
	require.NoError(t, err)
	assert.Equal(t, "nested", cfg.Defaults.Promptset)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".rankllms.yaml"), []byte("paths: ["), 0o644))

	_, err := Load(dir)
	require.ErrorContains(t, err, "parsing .rankllms.yaml")
}
