package scanner

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	enry "github.com/go-enry/go-enry/v2"

	"github.com/Demwunz/topo/internal/model"
)

var testPathMarkers = []string{"test/", "tests/", "__tests__/", "spec/", "specs/"}

var testNameSuffixes = []string{
	"_test.go", "_test.py", ".test.ts", ".test.tsx", ".test.js", ".test.jsx",
	".spec.ts", ".spec.tsx", ".spec.js", ".spec.jsx", "Test.java", "Tests.cs",
	"_spec.rb", "_test.rs",
}

var configExt = map[string]bool{
	".json": true, ".yaml": true, ".yml": true, ".toml": true, ".ini": true,
	".cfg": true, ".conf": true, ".kdl": true, ".env": true,
}

var docsExt = map[string]bool{
	".md": true, ".mdx": true, ".rst": true, ".txt": true, ".adoc": true,
}

var buildManifestNames = map[string]bool{
	"Makefile": true, "Dockerfile": true, "CMakeLists.txt": true,
	"go.mod": true, "go.sum": true, "package.json": true, "Cargo.toml": true,
	"build.gradle": true, "pom.xml": true, "requirements.txt": true,
	"pyproject.toml": true, "Gemfile": true, ".gitignore": true,
}

// classifyRole implements the ordered rule chain of spec.md §4.1:
// generated-path -> test-path -> config extension -> docs extension ->
// build-manifest name -> default impl.
func classifyRole(relPath string, policy *ignorePolicy, isLargeNonSource bool) model.Role {
	if isLargeNonSource || policy.isGeneratedPath(relPath) || enry.IsVendor(relPath) || enry.IsGenerated(relPath, nil) {
		return model.RoleGenerated
	}
	lower := strings.ToLower(relPath)
	base := filepath.Base(relPath)
	for _, marker := range testPathMarkers {
		if strings.Contains(lower, "/"+marker) || strings.HasPrefix(lower, marker) {
			return model.RoleTest
		}
	}
	for _, suffix := range testNameSuffixes {
		if strings.HasSuffix(base, suffix) {
			return model.RoleTest
		}
	}
	ext := filepath.Ext(base)
	if configExt[ext] {
		return model.RoleConfig
	}
	if docsExt[ext] {
		return model.RoleDocs
	}
	if buildManifestNames[base] {
		return model.RoleBuild
	}
	return model.RoleImpl
}

// classifyLanguage uses go-enry's content+filename classifier, falling
// back to a shebang sniff for extensionless files per spec.md §4.1. Only
// languages the Chunker has a table for are kept; anything else is
// "unknown".
func classifyLanguage(relPath string, content []byte) string {
	lang := strings.ToLower(enry.GetLanguage(relPath, content))
	if lang == "" && filepath.Ext(relPath) == "" {
		lang = sniffShebang(content)
	}
	switch lang {
	case "go", "typescript", "javascript", "python", "rust", "java", "c", "c++", "c#",
		"ruby", "php", "swift", "kotlin", "scala", "zig", "shell", "yaml", "json", "markdown":
		return lang
	}
	return "unknown"
}

func sniffShebang(content []byte) string {
	if len(content) == 0 || content[0] != '#' {
		return ""
	}
	scanner := bufio.NewScanner(strings.NewReader(string(content)))
	if !scanner.Scan() {
		return ""
	}
	line := scanner.Text()
	if !strings.HasPrefix(line, "#!") {
		return ""
	}
	switch {
	case strings.Contains(line, "python"):
		return "python"
	case strings.Contains(line, "bash"), strings.Contains(line, "/sh"):
		return "shell"
	case strings.Contains(line, "node"):
		return "javascript"
	case strings.Contains(line, "ruby"):
		return "ruby"
	case strings.Contains(line, "perl"):
		return "perl"
	default:
		return ""
	}
}

// isDeviceFile reports whether a path should be skipped outright because
// it is not a regular file (device, socket, etc.).
func isDeviceFile(info os.FileInfo) bool {
	return !info.Mode().IsRegular() && !info.IsDir()
}
