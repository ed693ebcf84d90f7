// Package config loads layered configuration for the core engine: a
// .topo.kdl file, environment variable overrides, and (applied by the
// cmd/topo collaborator) CLI flag overrides on top.
package config

import (
	"os"
	"path/filepath"
)

// Preset bundles index depth, scoring signals, and Selector budgets, as
// enumerated in spec.md §6.4.
type Preset struct {
	Name              string
	Deep              bool // index depth: chunks, term bags, imports, PageRank
	UseBM25F          bool
	UsePageRank       bool
	UseRecency        bool
	MaxBytes          int64
	MaxTokens         int64
	Top               int
	MinScore          float64
}

var presets = map[string]Preset{
	"fast": {
		Name: "fast", Deep: false,
		UseBM25F: false, UsePageRank: false, UseRecency: false,
		MaxBytes: 50 * 1024, MinScore: 0.05,
	},
	"balanced": {
		Name: "balanced", Deep: true,
		UseBM25F: true, UsePageRank: false, UseRecency: false,
		MaxBytes: 100 * 1024, MinScore: 0.01,
	},
	"deep": {
		Name: "deep", Deep: true,
		UseBM25F: true, UsePageRank: true, UseRecency: false,
		MaxBytes: 200 * 1024, MinScore: 0.005,
	},
	"thorough": {
		Name: "thorough", Deep: true,
		UseBM25F: true, UsePageRank: true, UseRecency: true,
		MaxBytes: 500 * 1024, MinScore: 0.001,
	},
}

// PresetByName returns a copy of the named preset, or the "balanced"
// preset if name is unrecognized.
func PresetByName(name string) Preset {
	if p, ok := presets[name]; ok {
		return p
	}
	return presets["balanced"]
}

// PresetNames lists presets in a stable order for CLI help text.
func PresetNames() []string {
	return []string{"fast", "balanced", "deep", "thorough"}
}

// Config is the resolved, ready-to-use configuration for a single root.
type Config struct {
	Root                string
	Include             []string
	Exclude             []string
	RespectGitignore    bool
	MaxFileSizeBytes    int64 // scanner admits, marks generated past this
	MaxGoroutines       int   // 0 = auto (NumCPU)
	StemBodyTerms       bool
	FuzzyPathMatching   bool
	FuzzyThreshold      float64
	DotDir              string // e.g. ".topo"
}

// Default returns the configuration used when no .topo.kdl is present.
func Default(root string) *Config {
	return &Config{
		Root:              root,
		RespectGitignore:  true,
		MaxFileSizeBytes:  8 * 1024 * 1024,
		MaxGoroutines:     0,
		StemBodyTerms:     false,
		FuzzyPathMatching: true,
		FuzzyThreshold:    0.85,
		DotDir:            ".topo",
	}
}

// Load resolves the root (the passed-in root, then the TOPO_ROOT env var,
// then cwd), reads .topo.kdl if present, and applies TOPO_* environment
// overrides. It never returns an error for a missing config file — that is
// the expected common case — only for a malformed one.
func Load(root string) (*Config, error) {
	if root == "" {
		if envRoot := os.Getenv("TOPO_ROOT"); envRoot != "" {
			root = envRoot
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			root = cwd
		}
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	cfg := Default(absRoot)

	kdlPath := os.Getenv("TOPO_CONFIG")
	if kdlPath == "" {
		kdlPath = filepath.Join(absRoot, ".topo.kdl")
	}
	if fromFile, err := loadKDL(kdlPath); err != nil {
		return nil, err
	} else if fromFile != nil {
		applyOverlay(cfg, fromFile)
	}

	return cfg, nil
}

// applyOverlay merges the fields a .topo.kdl file actually set into dst.
// Bool fields use overlay pointers so a key the file never mentions leaves
// Default()'s value in place rather than zeroing it out.
func applyOverlay(dst *Config, src *kdlOverlay) {
	if len(src.Include) > 0 {
		dst.Include = src.Include
	}
	if len(src.Exclude) > 0 {
		dst.Exclude = append(dst.Exclude, src.Exclude...)
	}
	if src.MaxFileSizeBytes > 0 {
		dst.MaxFileSizeBytes = src.MaxFileSizeBytes
	}
	if src.MaxGoroutines > 0 {
		dst.MaxGoroutines = src.MaxGoroutines
	}
	if src.RespectGitignore != nil {
		dst.RespectGitignore = *src.RespectGitignore
	}
	if src.StemBodyTerms != nil {
		dst.StemBodyTerms = *src.StemBodyTerms
	}
	if src.FuzzyPathMatching != nil {
		dst.FuzzyPathMatching = *src.FuzzyPathMatching
	}
	if src.FuzzyThreshold > 0 {
		dst.FuzzyThreshold = src.FuzzyThreshold
	}
	if src.DotDir != "" {
		dst.DotDir = src.DotDir
	}
}
