// Package engine wires the Scanner, Chunker, import graph, PageRank,
// Index Store, Scoring Engine, and Selector into the four operations
// named in spec.md §6.1: build_or_refresh_index, load_index, score, and
// select.
package engine

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Demwunz/topo/internal/chunker"
	"github.com/Demwunz/topo/internal/config"
	topoerrors "github.com/Demwunz/topo/internal/errors"
	"github.com/Demwunz/topo/internal/gitrecency"
	"github.com/Demwunz/topo/internal/importgraph"
	"github.com/Demwunz/topo/internal/indexstore"
	"github.com/Demwunz/topo/internal/logging"
	"github.com/Demwunz/topo/internal/model"
	"github.com/Demwunz/topo/internal/pagerank"
	"github.com/Demwunz/topo/internal/scanner"
	"github.com/Demwunz/topo/internal/scoring"
	"github.com/Demwunz/topo/internal/selector"
)

// IndexStats summarizes one build_or_refresh_index call.
type IndexStats struct {
	FilesScanned  int
	FilesSkipped  int
	FilesCarried  int
	FilesRechunked int
	IOErrors      []error
}

// IndexHandle is a loaded, mmap'd artifact ready for scoring. Close must
// be called to release the mapping.
type IndexHandle struct {
	Artifact *indexstore.Artifact
	reader   *indexstore.Reader
	Path     string
}

func (h *IndexHandle) Close() error {
	if h == nil {
		return nil
	}
	return h.reader.Close()
}

func indexPath(cfg *config.Config) string {
	return filepath.Join(cfg.Root, cfg.DotDir, "index.bin")
}

// BuildOrRefreshIndex performs Scanner -> Chunker -> Index Store. When
// deep is false, chunking, term bags, import edges, and PageRank are
// skipped entirely, matching spec.md §6.1. When force is false and a
// valid prior artifact exists, unchanged files (by path+content_hash)
// are carried forward rather than rechunked.
func BuildOrRefreshIndex(ctx context.Context, cfg *config.Config, deep, force bool, log *logging.Logger) (IndexStats, error) {
	if log == nil {
		log = logging.Default()
	}

	artifactPath := indexPath(cfg)
	var prior *indexstore.Artifact
	if !force {
		if a, r, err := indexstore.Open(artifactPath); err == nil {
			prior = a
			r.Close()
		}
	}

	results, scanStats, err := scanner.Scan(ctx, cfg, deep, log)
	if err != nil {
		return IndexStats{}, err
	}

	records := make([]model.FileRecord, 0, len(results))
	for _, r := range results {
		records = append(records, r.Record)
	}

	stats := IndexStats{
		FilesScanned: scanStats.FilesScanned,
		FilesSkipped: scanStats.FilesSkipped,
		IOErrors:     scanStats.IOErrors,
	}

	if !deep {
		if err := os.MkdirAll(filepath.Dir(artifactPath), 0o755); err != nil {
			return stats, topoerrors.NewFileIOError("mkdir", filepath.Dir(artifactPath), err)
		}
		artifact := indexstore.Build(records, nil, nil, nil)
		if err := indexstore.WriteAtomic(artifactPath, artifact); err != nil {
			return stats, topoerrors.NewFileIOError("write", artifactPath, err)
		}
		return stats, nil
	}

	plan := indexstore.BuildPlan(prior, records)

	if prior != nil && plan.Stale.IsEmpty() && len(records) == len(prior.Files) {
		// Every current file carries forward unchanged: the existing
		// artifact is still valid, so skip rewriting it (spec.md §4.3
		// step 5).
		return stats, nil
	}

	chunked := make(map[string]*model.FileResult, len(records))

	contentByPath := make(map[string][]byte, len(results))
	for _, r := range results {
		contentByPath[r.Record.Path] = r.Content
	}

	for i, rec := range records {
		if priorIdx, ok := plan.Carried[rec.Path]; ok && !plan.Stale.ContainsInt(i) {
			chunked[rec.Path] = indexstore.CarryForward(prior, priorIdx)
			stats.FilesCarried++
			continue
		}
		content := contentByPath[rec.Path]
		res := chunker.Chunk(rec.Path, rec.Language, content, cfg.StemBodyTerms)
		chunked[rec.Path] = res
		stats.FilesRechunked++
	}

	allPaths := make([]string, len(records))
	for i, r := range records {
		allPaths[i] = r.Path
	}

	var rawEdges []model.ImportEdge
	for _, res := range chunked {
		rawEdges = append(rawEdges, res.Edges...)
	}
	graph := importgraph.Resolve(allPaths, rawEdges)

	var resolved []model.ResolvedEdge
	for src, targets := range graph.Out {
		for _, tgt := range targets {
			resolved = append(resolved, model.ResolvedEdge{SrcFile: src, TargetFile: tgt})
		}
	}

	ranks := pagerank.Compute(graph)

	artifact := indexstore.Build(records, chunked, resolved, ranks)
	if err := os.MkdirAll(filepath.Dir(artifactPath), 0o755); err != nil {
		return stats, topoerrors.NewFileIOError("mkdir", filepath.Dir(artifactPath), err)
	}
	if err := indexstore.WriteAtomic(artifactPath, artifact); err != nil {
		return stats, topoerrors.NewFileIOError("write", artifactPath, err)
	}

	return stats, nil
}

// LoadIndex memory-maps the persisted artifact for root.
func LoadIndex(cfg *config.Config) (*IndexHandle, error) {
	path := indexPath(cfg)
	artifact, reader, err := indexstore.Open(path)
	if err != nil {
		return nil, err
	}
	return &IndexHandle{Artifact: artifact, reader: reader, Path: path}, nil
}

// Score ranks every file in handle against query under preset. recency
// is nil when no git recency provider is wired in (spec.md §6.2).
func Score(ctx context.Context, handle *IndexHandle, query string, preset config.Preset, recency map[string]int) []scoring.ScoredFile {
	a := handle.Artifact

	rankByPath := make(map[string]float64, len(a.PageRank))
	for _, pr := range a.PageRank {
		rankByPath[a.Strings.Lookup(pr.PathIdx)] = pr.Rank
	}

	termsByFile := make(map[uint32]scoring.Document, len(a.Terms))
	for _, tb := range a.Terms {
		doc := scoring.Document{
			FilenameTerms: make(map[string]int, len(tb.Filename)),
			SymbolTerms:   make(map[string]int, len(tb.Symbol)),
			BodyTerms:     make(map[string]int, len(tb.Body)),
		}
		for _, t := range tb.Filename {
			doc.FilenameTerms[a.Strings.Lookup(t.TermIdx)] = int(t.Freq)
		}
		for _, t := range tb.Symbol {
			doc.SymbolTerms[a.Strings.Lookup(t.TermIdx)] = int(t.Freq)
		}
		for _, t := range tb.Body {
			doc.BodyTerms[a.Strings.Lookup(t.TermIdx)] = int(t.Freq)
		}
		termsByFile[tb.FileIdx] = doc
	}

	candidates := make([]scoring.CandidateFile, 0, len(a.Files))
	for i, f := range a.Files {
		path := a.Strings.Lookup(f.PathIdx)
		doc := termsByFile[uint32(i)]
		doc.Path = path
		c := scoring.CandidateFile{
			Path:      path,
			Role:      f.Role,
			SizeBytes: f.SizeBytes,
			Terms:     doc,
			PageRank:  rankByPath[path],
		}
		if n, ok := recency[path]; ok {
			nn := n
			c.RecencyCommits90d = &nn
		}
		candidates = append(candidates, c)
	}

	return scoring.Score(candidates, query, preset)
}

// Select enforces preset's budget over a ranked list.
func Select(handle *IndexHandle, ranked []scoring.ScoredFile, preset config.Preset) selector.Selection {
	sizeOf := func(path string) int64 {
		if f, ok := handle.Artifact.FileByPath(path); ok {
			return f.SizeBytes
		}
		return 0
	}
	return selector.Select(ranked, preset, sizeOf)
}

// ResolveGitRecency runs a GitProvider over every file in handle, or
// returns nil if root is not a git working tree.
func ResolveGitRecency(ctx context.Context, handle *IndexHandle, root string) map[string]int {
	provider, err := gitrecency.NewGitProvider(ctx, root)
	if err != nil {
		return nil
	}
	paths := make([]string, len(handle.Artifact.Files))
	for i, f := range handle.Artifact.Files {
		paths[i] = handle.Artifact.Strings.Lookup(f.PathIdx)
	}
	return gitrecency.BatchCommitsLast90d(ctx, provider, paths)
}
