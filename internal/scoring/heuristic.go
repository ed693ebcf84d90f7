package scoring

import (
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/Demwunz/topo/internal/model"
)

const sizePenaltyThreshold = 128 * 1024

var wellKnownPathSegments = map[string]bool{
	"src": true, "lib": true, "core": true, "pkg": true, "internal": true,
}

// fuzzyThreshold gates when a path token is considered a fuzzy match to a
// query token that didn't match exactly (Jaro-Winkler similarity).
const fuzzyThreshold = 0.85

// HeuristicInput is everything the heuristic score needs about one file,
// independent of the query.
type HeuristicInput struct {
	Path      string
	Role      model.Role
	SizeBytes int64
	Depth     int // path segment count minus 1
}

// Heuristic computes spec.md §4.4's additive, path/role-driven score and
// normalizes it to [0,1] via the signed-sigmoid squash
// 0.5 + 0.5*x/(1+|x|) (the spec leaves the exact
// normalization unspecified beyond "normalized to [0,1]"; a squash keeps
// contributions comparable without needing corpus-wide min/max here).
func Heuristic(in HeuristicInput, queryTerms []string, fuzzyPathMatching bool) float64 {
	raw := pathTokenOverlap(in.Path, queryTerms, fuzzyPathMatching)
	raw += roleBonus(in.Role)
	raw += 1.0 / (1.0 + float64(in.Depth)/4.0)
	if hasWellKnownSegment(in.Path) {
		raw += 0.5
	}
	if in.SizeBytes > sizePenaltyThreshold {
		raw -= 0.5
	}
	return squash(raw)
}

func pathTokenOverlap(path string, queryTerms []string, fuzzyPathMatching bool) float64 {
	if len(queryTerms) == 0 {
		return 0
	}
	pathTokens := model.Tokenize(strings.ToLower(path), false)
	pathSet := make(map[string]bool, len(pathTokens))
	for _, t := range pathTokens {
		pathSet[t] = true
	}

	var matches float64
	for _, qt := range queryTerms {
		if pathSet[qt] {
			matches += 1.0
			continue
		}
		if !fuzzyPathMatching {
			continue
		}
		for pt := range pathSet {
			sim, err := edlib.StringsSimilarity(qt, pt, edlib.JaroWinkler)
			if err == nil && float64(sim) >= fuzzyThreshold {
				matches += float64(sim)
				break
			}
		}
	}
	return 3.0 * matches / float64(len(queryTerms))
}

func roleBonus(role model.Role) float64 {
	switch role {
	case model.RoleImpl:
		return 0.5
	case model.RoleGenerated:
		return -2.0
	case model.RoleConfig:
		return -0.5
	default:
		return 0
	}
}

func hasWellKnownSegment(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if wellKnownPathSegments[strings.ToLower(seg)] {
			return true
		}
	}
	return false
}

func squash(x float64) float64 {
	// maps (-inf, inf) -> (0, 1), monotonic, matching the spec's "additive
	// contributions ... normalized to [0,1]" without needing a second
	// corpus pass.
	abs := x
	if abs < 0 {
		abs = -abs
	}
	return 0.5 + 0.5*x/(1+abs)
}
