package scoring

import (
	"github.com/Demwunz/topo/internal/config"
	"github.com/Demwunz/topo/internal/model"
)

// CandidateFile is everything the engine needs about one indexed file to
// score it, gathered by the caller from the loaded artifact.
type CandidateFile struct {
	Path      string
	Role      model.Role
	SizeBytes int64
	Terms     Document
	PageRank  float64
	// RecencyCommits90d is nil when no git recency provider ran; its
	// absence drops the recency signal entirely (spec.md §4.5).
	RecencyCommits90d *int
}

// Score ranks candidates against query under preset, producing the
// deterministic ordering described in spec.md §4.4.
func Score(candidates []CandidateFile, query string, preset config.Preset) []ScoredFile {
	queryTerms := TokenizeQuery(query)

	docs := make([]Document, len(candidates))
	for i, c := range candidates {
		docs[i] = c.Terms
	}
	stats := BuildFieldStats(docs)

	files := make(map[string]ScoredFile, len(candidates))
	rawBM25 := make(map[string]float64, len(candidates))

	for _, c := range candidates {
		sf := ScoredFile{
			Path:     c.Path,
			Role:     c.Role,
			Depth:    pathDepth(c.Path),
			PageRank: c.PageRank,
		}
		if preset.UseBM25F {
			sf.BM25F = BM25F(c.Terms, queryTerms, stats)
			rawBM25[c.Path] = sf.BM25F
		}
		sf.Heuristic = Heuristic(HeuristicInput{
			Path:      c.Path,
			Role:      c.Role,
			SizeBytes: c.SizeBytes,
			Depth:     sf.Depth,
		}, queryTerms, true)
		if preset.UseRecency && c.RecencyCommits90d != nil {
			sf.Recency = float64(*c.RecencyCommits90d)
		}
		files[c.Path] = sf
	}

	bm25Norm := minMaxNormalize(rawBM25)
	blended := make(map[string]float64, len(candidates))
	for path, sf := range files {
		blended[path] = blendBM25Weight*bm25Norm[path] + blendHeuristicWeight*sf.Heuristic
	}

	tb := tieBreak(files)

	useStructural := preset.UsePageRank || preset.UseRecency
	var final map[string]float64
	if !useStructural {
		final = blended
	} else {
		blendedList := RankByScore(blended, tb)

		pageRankScores := make(map[string]float64, len(candidates))
		for _, c := range candidates {
			pageRankScores[c.Path] = c.PageRank
		}
		pageRankList := RankByScore(pageRankScores, tb)

		lists := []RankedList{blendedList, pageRankList}
		if preset.UseRecency {
			recencyScores := make(map[string]float64, len(candidates))
			for _, c := range candidates {
				if c.RecencyCommits90d != nil {
					recencyScores[c.Path] = float64(*c.RecencyCommits90d)
				}
			}
			if len(recencyScores) > 0 {
				lists = append(lists, RankByScore(recencyScores, tb))
			}
		}
		final = ReciprocalRankFusion(lists...)
	}

	for path, sf := range files {
		sf.TotalScore = final[path]
		files[path] = sf
	}

	ordered := RankByScore(final, tb)
	out := make([]ScoredFile, 0, len(ordered))
	for _, path := range ordered {
		out = append(out, files[path])
	}
	return out
}
