package config

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// GitignoreParser parses one or more stacked .gitignore files and answers
// ShouldIgnore queries against the combined pattern set, implementing the
// layered ignore policy of spec.md §4.1 (repository .gitignore plus
// parent-directory .gitignore files up to the root).
type GitignoreParser struct {
	patterns   []gitignorePattern
	regexCache sync.Map
}

type gitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool

	patternType patternType
	compiled    *regexp.Regexp
	prefix      string
	suffix      string
}

type patternType int

const (
	patternExact patternType = iota
	patternPrefix
	patternSuffix
	patternComplex
	patternWildcard
)

func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadFile appends patterns from a single .gitignore file, closest-root
// first or last is the caller's choice (later-loaded patterns can override
// earlier ones via negation, matching git's own precedence within a file;
// cross-file precedence is caller-managed by load order).
func (gp *GitignoreParser) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.patterns = append(gp.patterns, gp.parsePattern(line))
	}
	return scanner.Err()
}

// LoadStack loads .gitignore from root and from every ancestor directory
// above it, up to the filesystem root. Patterns from all of them are
// matched against the same relative paths; .gitignore files in
// subdirectories below root are not loaded.
func (gp *GitignoreParser) LoadStack(root string) error {
	dirs := []string{}
	for d := root; ; {
		dirs = append(dirs, d)
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	// Load root-most first so deeper .gitignore files can override via negation.
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := gp.LoadFile(filepath.Join(dirs[i], ".gitignore")); err != nil {
			return err
		}
	}
	return nil
}

func (gp *GitignoreParser) parsePattern(line string) gitignorePattern {
	p := gitignorePattern{}
	line = gp.extractModifiers(&p, line)
	p.Pattern = line
	p.patternType, p.prefix, p.suffix, p.compiled = gp.analyzePattern(line)
	return p
}

func (gp *GitignoreParser) extractModifiers(p *gitignorePattern, line string) string {
	if strings.HasPrefix(line, "!") {
		p.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.Absolute = true
		line = line[1:]
	}
	return line
}

func (gp *GitignoreParser) analyzePattern(pattern string) (patternType, string, string, *regexp.Regexp) {
	if !strings.ContainsAny(pattern, "*?[") {
		return patternExact, pattern, pattern, nil
	}
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "?") && !strings.Contains(pattern, "[") {
		if strings.HasPrefix(pattern, "*") && !strings.Contains(pattern[1:], "*") {
			return patternSuffix, "", pattern[1:], nil
		}
		if strings.HasSuffix(pattern, "*") && !strings.Contains(pattern[:len(pattern)-1], "*") {
			return patternPrefix, pattern[:len(pattern)-1], "", nil
		}
	}
	regexPattern := globToRegex(pattern)
	if cached, ok := gp.regexCache.Load(regexPattern); ok {
		return patternComplex, "", "", cached.(*regexp.Regexp)
	}
	compiled, err := regexp.Compile(regexPattern)
	if err != nil {
		return patternWildcard, "", "", nil
	}
	gp.regexCache.Store(regexPattern, compiled)
	return patternComplex, "", "", compiled
}

func globToRegex(pattern string) string {
	regex := regexp.QuoteMeta(pattern)
	regex = strings.ReplaceAll(regex, `\*`, `.*`)
	regex = strings.ReplaceAll(regex, `\?`, `.`)
	regex = strings.ReplaceAll(regex, `\[`, `[`)
	regex = strings.ReplaceAll(regex, `\]`, `]`)
	return "^" + regex + "$"
}

// ShouldIgnore reports whether path (forward-slash, repo-relative) should
// be excluded, applying negation in pattern order (later patterns win).
func (gp *GitignoreParser) ShouldIgnore(path string, isDir bool) bool {
	path = filepath.ToSlash(path)
	ignored := false
	for _, p := range gp.patterns {
		if gp.matches(p, path, isDir) {
			ignored = !p.Negate
		}
	}
	return ignored
}

func (gp *GitignoreParser) matches(p gitignorePattern, path string, isDir bool) bool {
	if p.Directory {
		if isDir {
			return gp.fastMatch(p, path) || gp.matchWithDoubleStarSuffix(p, path)
		}
		return strings.HasPrefix(path, p.Pattern+"/") || gp.fastMatch(p, path)
	}
	if p.Absolute {
		return gp.fastMatch(p, path)
	}
	if gp.fastMatch(p, path) {
		return true
	}
	parts := strings.Split(path, "/")
	for i := range parts {
		if gp.fastMatch(p, strings.Join(parts[i:], "/")) {
			return true
		}
	}
	return false
}

func (gp *GitignoreParser) matchWithDoubleStarSuffix(p gitignorePattern, path string) bool {
	if strings.HasSuffix(p.Pattern, "/**") {
		base := strings.TrimSuffix(p.Pattern, "/**")
		return path == base || strings.HasPrefix(path, base+"/")
	}
	return false
}

func (gp *GitignoreParser) fastMatch(p gitignorePattern, path string) bool {
	switch p.patternType {
	case patternExact:
		return p.Pattern == path
	case patternPrefix:
		return strings.HasPrefix(path, p.prefix)
	case patternSuffix:
		return strings.HasSuffix(path, p.suffix)
	case patternComplex:
		return p.compiled != nil && p.compiled.MatchString(path)
	default:
		matched, _ := filepath.Match(p.Pattern, path)
		return matched
	}
}
