package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKDLMissingFileReturnsNilNil(t *testing.T) {
	overlay, err := loadKDL(filepath.Join(t.TempDir(), ".topo.kdl"))
	require.NoError(t, err)
	assert.Nil(t, overlay)
}

func TestLoadKDLMalformedFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".topo.kdl")
	require.NoError(t, os.WriteFile(path, []byte("index {{{ not kdl"), 0o644))
	_, err := loadKDL(path)
	assert.Error(t, err)
}

func TestLoadKDLParsesIndexAndScoringAndPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".topo.kdl")
	doc := `
index {
    max_file_size "2MB"
    max_goroutines 8
    respect_gitignore false
    dot_dir ".myindex"
}
scoring {
    stem_body_terms true
    fuzzy_path_matching false
    fuzzy_threshold 0.9
}
include "src/**"
exclude "vendor/**" "*.generated.go"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	overlay, err := loadKDL(path)
	require.NoError(t, err)
	require.NotNil(t, overlay)

	assert.Equal(t, int64(2*1024*1024), overlay.MaxFileSizeBytes)
	assert.Equal(t, 8, overlay.MaxGoroutines)
	require.NotNil(t, overlay.RespectGitignore)
	assert.False(t, *overlay.RespectGitignore)
	assert.Equal(t, ".myindex", overlay.DotDir)

	require.NotNil(t, overlay.StemBodyTerms)
	assert.True(t, *overlay.StemBodyTerms)
	require.NotNil(t, overlay.FuzzyPathMatching)
	assert.False(t, *overlay.FuzzyPathMatching)
	assert.Equal(t, 0.9, overlay.FuzzyThreshold)

	assert.Equal(t, []string{"src/**"}, overlay.Include)
	assert.ElementsMatch(t, []string{"vendor/**", "*.generated.go"}, overlay.Exclude)
}

func TestLoadKDLBlockFormExcludeUsesChildNodeNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".topo.kdl")
	doc := `
exclude {
    "vendor/**"
    "dist/**"
}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	overlay, err := loadKDL(path)
	require.NoError(t, err)
	require.NotNil(t, overlay)
	assert.ElementsMatch(t, []string{"vendor/**", "dist/**"}, overlay.Exclude)
}

func TestApplyOverlayLeavesUnsetBoolsAtDefault(t *testing.T) {
	dst := Default("/repo")
	require.True(t, dst.RespectGitignore)
	require.True(t, dst.FuzzyPathMatching)

	src := &kdlOverlay{MaxGoroutines: 4}
	applyOverlay(dst, src)

	assert.True(t, dst.RespectGitignore)
	assert.True(t, dst.FuzzyPathMatching)
	assert.Equal(t, 4, dst.MaxGoroutines)
}

func TestApplyOverlayExplicitFalseOverridesDefault(t *testing.T) {
	dst := Default("/repo")
	f := false
	src := &kdlOverlay{RespectGitignore: &f}
	applyOverlay(dst, src)
	assert.False(t, dst.RespectGitignore)
}

func TestParseSizeUnits(t *testing.T) {
	gb, err := parseSize("1GB")
	require.NoError(t, err)
	assert.Equal(t, int64(1024*1024*1024), gb)

	kb, err := parseSize("10KB")
	require.NoError(t, err)
	assert.Equal(t, int64(10*1024), kb)

	plain, err := parseSize("512")
	require.NoError(t, err)
	assert.Equal(t, int64(512), plain)
}
