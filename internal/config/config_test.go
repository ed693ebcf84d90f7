package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetByNameKnownAndFallback(t *testing.T) {
	assert.Equal(t, "fast", PresetByName("fast").Name)
	assert.Equal(t, "thorough", PresetByName("thorough").Name)
	assert.Equal(t, "balanced", PresetByName("does-not-exist").Name)
}

func TestPresetNamesStableOrder(t *testing.T) {
	assert.Equal(t, []string{"fast", "balanced", "deep", "thorough"}, PresetNames())
}

func TestDefaultSetsExpectedValues(t *testing.T) {
	cfg := Default("/repo")
	assert.Equal(t, "/repo", cfg.Root)
	assert.True(t, cfg.RespectGitignore)
	assert.True(t, cfg.FuzzyPathMatching)
	assert.Equal(t, ".topo", cfg.DotDir)
}

func TestLoadWithNoConfigFileReturnsDefaults(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root)
	require.NoError(t, err)
	absRoot, _ := filepath.Abs(root)
	assert.Equal(t, absRoot, cfg.Root)
	assert.True(t, cfg.RespectGitignore)
	assert.Equal(t, Default(absRoot).MaxFileSizeBytes, cfg.MaxFileSizeBytes)
}

func TestLoadAppliesTopoKDLOverlayWithoutZeroingDefaults(t *testing.T) {
	root := t.TempDir()
	doc := `
index {
    max_goroutines 6
}
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ".topo.kdl"), []byte(doc), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.MaxGoroutines)
	assert.True(t, cfg.RespectGitignore)
	assert.True(t, cfg.FuzzyPathMatching)
}

func TestLoadReturnsErrorForMalformedTopoKDL(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".topo.kdl"), []byte("index {{{"), 0o644))
	_, err := Load(root)
	assert.Error(t, err)
}

func TestLoadHonorsTopoConfigEnvOverride(t *testing.T) {
	root := t.TempDir()
	altDir := t.TempDir()
	altPath := filepath.Join(altDir, "alt.kdl")
	require.NoError(t, os.WriteFile(altPath, []byte(`index { max_goroutines 2 }`), 0o644))

	t.Setenv("TOPO_CONFIG", altPath)
	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxGoroutines)
}
