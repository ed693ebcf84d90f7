package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Demwunz/topo/internal/config"
	"github.com/Demwunz/topo/internal/model"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestScanAdmitsSourceAndSkipsDenied(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":                "package main\nfunc main() {}\n",
		"README.md":               "# hello\n",
		"node_modules/dep/idx.js": "module.exports = {}\n",
		".git/HEAD":               "ref: refs/heads/main\n",
	})

	cfg := config.Default(root)
	results, stats, err := Scan(context.Background(), cfg, true, nil)
	require.NoError(t, err)

	var paths []string
	for _, r := range results {
		paths = append(paths, r.Record.Path)
	}
	sort.Strings(paths)

	assert.Contains(t, paths, "main.go")
	assert.Contains(t, paths, "README.md")
	assert.NotContains(t, paths, "node_modules/dep/idx.js")
	assert.NotContains(t, paths, ".git/HEAD")
	assert.Equal(t, len(results), stats.FilesScanned)
}

func TestScanShallowOmitsContentBytes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"main.go": "package main\n"})

	cfg := config.Default(root)
	results, _, err := Scan(context.Background(), cfg, false, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].Content)
}

func TestScanDeepRetainsContentBytes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"main.go": "package main\n"})

	cfg := config.Default(root)
	results, _, err := Scan(context.Background(), cfg, true, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "package main\n", string(results[0].Content))
}

func TestScanClassifiesRoleAndLanguage(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"internal/widget/widget.go":      "package widget\n",
		"internal/widget/widget_test.go": "package widget\n",
	})

	cfg := config.Default(root)
	results, _, err := Scan(context.Background(), cfg, true, nil)
	require.NoError(t, err)

	byPath := map[string]model.FileRecord{}
	for _, r := range results {
		byPath[r.Record.Path] = r.Record
	}
	assert.Equal(t, model.RoleImpl, byPath["internal/widget/widget.go"].Role)
	assert.Equal(t, model.RoleTest, byPath["internal/widget/widget_test.go"].Role)
	assert.Equal(t, "go", byPath["internal/widget/widget.go"].Language)
}

func TestScanMissingRootReturnsRepoNotFound(t *testing.T) {
	cfg := config.Default(filepath.Join(t.TempDir(), "does-not-exist"))
	_, _, err := Scan(context.Background(), cfg, true, nil)
	assert.Error(t, err)
}

func TestScanLargeFileWithoutRecognizedExtensionIsGenerated(t *testing.T) {
	root := t.TempDir()
	big := make([]byte, 9*1024*1024)
	for i := range big {
		big[i] = byte(i % 256)
	}
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.xyz"), big, 0o644))

	cfg := config.Default(root)
	results, _, err := Scan(context.Background(), cfg, false, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.RoleGenerated, results[0].Record.Role)
}

func TestScanLargeFileWithRecognizedExtensionIsNotForcedGenerated(t *testing.T) {
	root := t.TempDir()
	var body strings.Builder
	body.WriteString("package big\n\n")
	for i := 0; i < 200000; i++ {
		body.WriteString("// padding line to push this file past the large-file threshold\n")
	}
	writeTree(t, root, map[string]string{"big.go": body.String()})

	cfg := config.Default(root)
	results, _, err := Scan(context.Background(), cfg, false, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Greater(t, results[0].Record.SizeBytes, cfg.MaxFileSizeBytes)
	assert.Equal(t, model.RoleImpl, results[0].Record.Role)
	assert.Equal(t, "go", results[0].Record.Language)
}

func TestScanRespectsExcludeGlob(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/main.go":            "package main\n",
		"src/generated/types.go": "package generated\n",
	})

	cfg := config.Default(root)
	cfg.Exclude = []string{"src/generated/**"}
	results, _, err := Scan(context.Background(), cfg, true, nil)
	require.NoError(t, err)

	var paths []string
	for _, r := range results {
		paths = append(paths, r.Record.Path)
	}
	assert.Contains(t, paths, "src/main.go")
	assert.NotContains(t, paths, "src/generated/types.go")
}
