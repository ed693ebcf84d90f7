package scanner

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Demwunz/topo/internal/config"
)

// builtInDenyDirs lists directory names that are always excluded regardless of
// .gitignore contents, matching spec.md §4.1's "built-in deny list".
var builtInDenyDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".topo":        true,
}

// binaryMediaExt lists extensions the Scanner never admits as source,
// regardless of size.
var binaryMediaExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".mp3": true, ".mp4": true, ".mov": true,
	".avi": true, ".zip": true, ".tar": true, ".gz": true, ".7z": true,
	".pdf": true, ".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".so": true, ".dll": true, ".dylib": true, ".exe": true, ".o": true,
	".a": true, ".class": true, ".jar": true, ".wasm": true,
}

// ignorePolicy composes the layered ignore rules of spec.md §4.1: stacked
// .gitignore files, the built-in deny list, and configured
// include/exclude globs.
type ignorePolicy struct {
	root          string
	gitignore     *config.GitignoreParser
	include       []string
	exclude       []string
	generatedDirs map[string]bool
}

func newIgnorePolicy(cfg *config.Config) (*ignorePolicy, error) {
	p := &ignorePolicy{
		root:    cfg.Root,
		include: cfg.Include,
		exclude: cfg.Exclude,
	}
	if cfg.RespectGitignore {
		gi := config.NewGitignoreParser()
		if err := gi.LoadStack(cfg.Root); err != nil {
			return nil, err
		}
		p.gitignore = gi
	}

	detector := config.NewBuildArtifactDetector(cfg.Root)
	p.generatedDirs = make(map[string]bool)
	for _, d := range detector.OutputDirectories() {
		p.generatedDirs[filepath.ToSlash(filepath.Clean(d))] = true
	}
	return p, nil
}

// shouldSkipDir reports whether a directory (repo-relative, forward-slash)
// should not be descended into at all.
func (p *ignorePolicy) shouldSkipDir(relPath string) bool {
	base := filepath.Base(relPath)
	if builtInDenyDirs[base] {
		return true
	}
	if p.gitignore != nil && p.gitignore.ShouldIgnore(relPath, true) {
		return true
	}
	if len(p.exclude) > 0 && p.matchesAny(p.exclude, relPath) {
		return true
	}
	return false
}

// shouldSkipFile reports whether a file (repo-relative, forward-slash)
// should be excluded entirely from the index.
func (p *ignorePolicy) shouldSkipFile(relPath string) bool {
	if isBinaryMediaExt(filepath.Ext(relPath)) {
		return true
	}
	if p.gitignore != nil && p.gitignore.ShouldIgnore(relPath, false) {
		return true
	}
	if len(p.exclude) > 0 && p.matchesAny(p.exclude, relPath) {
		return true
	}
	if len(p.include) > 0 && !p.matchesAny(p.include, relPath) {
		return true
	}
	return false
}

func (p *ignorePolicy) matchesAny(patterns []string, relPath string) bool {
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, relPath); ok {
			return true
		}
	}
	return false
}

// isGeneratedPath reports whether relPath falls under a known
// generated-output directory (vendor, lock files, build output detected
// from manifests).
func (p *ignorePolicy) isGeneratedPath(relPath string) bool {
	lower := strings.ToLower(relPath)
	for _, marker := range []string{"vendor/", "dist/", "build/", "out/", ".generated/", "__generated__/"} {
		if strings.HasPrefix(lower, marker) || strings.Contains(lower, "/"+marker) {
			return true
		}
	}
	for dir := range p.generatedDirs {
		if dir == "" {
			continue
		}
		if strings.HasPrefix(relPath, dir+"/") || relPath == dir {
			return true
		}
	}
	base := filepath.Base(relPath)
	for _, suffix := range []string{".lock", ".min.js", ".min.css", ".pb.go", "_pb2.py", ".g.dart", ".generated.go"} {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	switch base {
	case "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "Cargo.lock", "go.sum":
		return true
	}
	return false
}

func isBinaryMediaExt(ext string) bool {
	return binaryMediaExt[strings.ToLower(ext)]
}
