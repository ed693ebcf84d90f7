// Package importgraph resolves the Chunker's raw import edges into
// file-to-file edges and builds the adjacency used by PageRank, per
// spec.md §4.2's target_ref resolution rule.
package importgraph

import (
	"path/filepath"
	"strings"

	"github.com/Demwunz/topo/internal/model"
)

// Graph is a resolved, deduplicated, self-loop-free directed import graph
// keyed by repo-relative path.
type Graph struct {
	Nodes []string            // all known files, stable order
	Out   map[string][]string // src -> distinct targets
	In    map[string][]string // target -> distinct sources
}

// candidate indexes a file's resolvable name forms for target_ref lookup.
type candidate struct {
	path     string
	stem     string   // filename without extension, lowercased
	segments []string // path segments, lowercased, for longest-suffix matching
}

// Resolve builds a Graph from every file's known path and the Chunker's
// unresolved edges. Resolution (spec.md §4.2 steps 2-4):
//  1. exact path match (ref, with or without a leading "./")
//  2. bare filename-stem match (e.g. "gizmo" -> any file stemmed "gizmo")
//  3. longest path-suffix match against known files' segments
//
// Ties are broken by shortest resolved path, then lexicographic order.
// Unresolvable refs (external packages, stdlib, unresolvable names) are
// dropped silently, matching spec.md's "best-effort" framing.
func Resolve(allPaths []string, edges []model.ImportEdge) *Graph {
	g := &Graph{
		Nodes: append([]string(nil), allPaths...),
		Out:   make(map[string][]string),
		In:    make(map[string][]string),
	}

	byExact := make(map[string]string, len(allPaths))
	candidates := make([]candidate, 0, len(allPaths))
	for _, p := range allPaths {
		norm := filepath.ToSlash(p)
		byExact[norm] = p
		byExact[strings.TrimPrefix(norm, "./")] = p
		base := filepath.Base(norm)
		stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
		segs := strings.Split(strings.ToLower(norm), "/")
		candidates = append(candidates, candidate{path: p, stem: stem, segments: segs})
	}

	seenOut := make(map[string]map[string]bool)

	for _, e := range edges {
		target := resolveOne(e.TargetRef, byExact, candidates)
		if target == "" || target == e.SrcFile {
			continue
		}
		if seenOut[e.SrcFile] == nil {
			seenOut[e.SrcFile] = make(map[string]bool)
		}
		if seenOut[e.SrcFile][target] {
			continue
		}
		seenOut[e.SrcFile][target] = true
		g.Out[e.SrcFile] = append(g.Out[e.SrcFile], target)
		g.In[target] = append(g.In[target], e.SrcFile)
	}

	return g
}

func resolveOne(ref string, byExact map[string]string, candidates []candidate) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	normRef := filepath.ToSlash(strings.TrimPrefix(ref, "./"))
	if p, ok := byExact[normRef]; ok {
		return p
	}
	for _, withExt := range []string{".go", ".ts", ".tsx", ".js", ".jsx", ".py", ".rs"} {
		if p, ok := byExact[normRef+withExt]; ok {
			return p
		}
	}

	refLower := strings.ToLower(normRef)

	// Step 3a: bare file-stem match, tried before suffix overlap per
	// spec.md §4.2 step 3's ordering.
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(refLower), filepath.Ext(refLower)))
	if stem != "" {
		best := ""
		for _, c := range candidates {
			if c.stem != stem {
				continue
			}
			if best == "" || len(c.path) < len(best) || (len(c.path) == len(best) && c.path < best) {
				best = c.path
			}
		}
		if best != "" {
			return best
		}
	}

	// Step 3b: longest path-suffix overlap, for multi-segment refs with
	// no stem match.
	refSegs := strings.Split(refLower, "/")
	if len(refSegs) > 1 {
		best := ""
		bestLen := 0
		for _, c := range candidates {
			n := suffixOverlap(c.segments, refSegs)
			if n == 0 {
				continue
			}
			if n > bestLen || (n == bestLen && (best == "" || len(c.path) < len(best) || (len(c.path) == len(best) && c.path < best))) {
				bestLen = n
				best = c.path
			}
		}
		if best != "" {
			return best
		}
	}

	return ""
}

// suffixOverlap counts how many trailing segments a and b share.
func suffixOverlap(a, b []string) int {
	n := 0
	for i, j := len(a)-1, len(b)-1; i >= 0 && j >= 0; i, j = i-1, j-1 {
		if a[i] != b[j] {
			break
		}
		n++
	}
	return n
}
