package scoring

import "sort"

const rrfK = 60.0

// RankedList is an ordered (best-first) list of file paths for one
// signal (blended base, PageRank, recency).
type RankedList []string

// ReciprocalRankFusion implements spec.md §4.4: for each file,
// rrf_score = sum(1/(k+rank_i)) across the supplied lists, 1-based ranks.
// A file absent from a list contributes zero for it.
func ReciprocalRankFusion(lists ...RankedList) map[string]float64 {
	scores := make(map[string]float64)
	for _, list := range lists {
		for i, path := range list {
			rank := float64(i + 1)
			scores[path] += 1.0 / (rrfK + rank)
		}
	}
	return scores
}

// RankByScore returns paths sorted best-first by descending score, using
// tieBreak for exact ties.
func RankByScore(scores map[string]float64, tieBreak func(a, b string) bool) RankedList {
	paths := make([]string, 0, len(scores))
	for p := range scores {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		si, sj := scores[paths[i]], scores[paths[j]]
		if si != sj {
			return si > sj
		}
		return tieBreak(paths[i], paths[j])
	})
	return paths
}
