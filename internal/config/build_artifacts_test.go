package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArtifactDetectorCargoToml(t *testing.T) {
	dir := t.TempDir()
	manifest := `
[package]
name = "widget"

[package.metadata]
target-dir = "out"

[profile.release.build-override]
out-dir = "staging"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(manifest), 0o644))

	d := NewBuildArtifactDetector(dir)
	dirs := d.OutputDirectories()
	assert.Contains(t, dirs, "target")
	assert.Contains(t, dirs, "out")
	assert.Contains(t, dirs, "staging")
}

func TestBuildArtifactDetectorPackageJSON(t *testing.T) {
	dir := t.TempDir()
	manifest := `{"directories": {"output": "build-out", "dist": "public"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0o644))

	d := NewBuildArtifactDetector(dir)
	dirs := d.OutputDirectories()
	assert.Contains(t, dirs, "build-out")
	assert.Contains(t, dirs, "public")
}

func TestBuildArtifactDetectorNoManifestsReturnsEmpty(t *testing.T) {
	d := NewBuildArtifactDetector(t.TempDir())
	assert.Empty(t, d.OutputDirectories())
}
