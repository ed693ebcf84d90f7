package scoring

import (
	"strings"

	"github.com/Demwunz/topo/internal/model"
)

const (
	blendBM25Weight      = 0.6
	blendHeuristicWeight = 0.4
)

// ScoredFile is one file's full scoring breakdown, the output shape
// named in spec.md §4.4.
type ScoredFile struct {
	Path       string
	TotalScore float64
	BM25F      float64
	Heuristic  float64
	PageRank   float64
	Recency    float64
	Role       model.Role
	Depth      int
}

// minMaxNormalize rescales values to [0,1] across the candidate set. A
// degenerate (all-equal) set maps every value to 0, matching "zero BM25F
// contribution" for e.g. an empty query (spec.md §5 edge case 9).
func minMaxNormalize(values map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(values))
	if len(values) == 0 {
		return out
	}
	min, max := -1.0, -1.0
	first := true
	for _, v := range values {
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	spread := max - min
	for k, v := range values {
		if spread == 0 {
			out[k] = 0
			continue
		}
		out[k] = (v - min) / spread
	}
	return out
}

// tieBreak implements spec.md §4.4's deterministic tie-break: impl role
// first, then shallower path, then lexicographic path.
func tieBreak(files map[string]ScoredFile) func(a, b string) bool {
	return func(a, b string) bool {
		fa, fb := files[a], files[b]
		if (fa.Role == model.RoleImpl) != (fb.Role == model.RoleImpl) {
			return fa.Role == model.RoleImpl
		}
		if fa.Depth != fb.Depth {
			return fa.Depth < fb.Depth
		}
		return a < b
	}
}

func pathDepth(path string) int {
	return strings.Count(path, "/")
}
