// Package scoring ranks indexed files against a query by fusing BM25F,
// a path/role heuristic, PageRank centrality, and optional git recency,
// per spec.md §4.4.
package scoring

import (
	"math"
	"strings"

	"github.com/Demwunz/topo/internal/model"
)

const (
	weightFilename = 5.0
	weightSymbol   = 3.0
	weightBody     = 1.0
	bm25k1         = 1.2
	bm25b          = 0.75
)

// FieldStats carries the corpus-wide statistics BM25F needs: document
// count, per-field average length, and document frequency per term.
type FieldStats struct {
	N              int
	AvgFilenameLen float64
	AvgSymbolLen   float64
	AvgBodyLen     float64
	DocFreq        map[string]int // term -> number of files containing it in any field
}

// Document is one file's term-bag view for scoring purposes.
type Document struct {
	Path          string
	FilenameTerms map[string]int
	SymbolTerms   map[string]int
	BodyTerms     map[string]int
}

// BuildFieldStats computes the corpus statistics BM25F's IDF and
// length-normalization terms depend on.
func BuildFieldStats(docs []Document) *FieldStats {
	stats := &FieldStats{N: len(docs), DocFreq: make(map[string]int)}
	if len(docs) == 0 {
		return stats
	}
	var totalFilename, totalSymbol, totalBody int
	for _, d := range docs {
		totalFilename += model.TotalTerms(d.FilenameTerms)
		totalSymbol += model.TotalTerms(d.SymbolTerms)
		totalBody += model.TotalTerms(d.BodyTerms)

		seen := make(map[string]bool)
		for t := range d.FilenameTerms {
			seen[t] = true
		}
		for t := range d.SymbolTerms {
			seen[t] = true
		}
		for t := range d.BodyTerms {
			seen[t] = true
		}
		for t := range seen {
			stats.DocFreq[t]++
		}
	}
	n := float64(len(docs))
	stats.AvgFilenameLen = float64(totalFilename) / n
	stats.AvgSymbolLen = float64(totalSymbol) / n
	stats.AvgBodyLen = float64(totalBody) / n
	return stats
}

// idf implements spec.md §4.4's IDF formula: log((N - n + 0.5)/(n + 0.5) + 1).
func idf(stats *FieldStats, term string) float64 {
	n := float64(stats.DocFreq[term])
	N := float64(stats.N)
	return math.Log((N-n+0.5)/(n+0.5) + 1)
}

// fieldScore computes one field's BM25 contribution for a single term:
// weight * idf * (tf*(k1+1)) / (tf + k1*(1-b+b*len/avgLen)).
func fieldScore(weight, tf, fieldLen, avgLen, idfVal float64) float64 {
	if tf == 0 {
		return 0
	}
	if avgLen == 0 {
		avgLen = 1
	}
	numerator := tf * (bm25k1 + 1)
	denominator := tf + bm25k1*(1-bm25b+bm25b*fieldLen/avgLen)
	return weight * idfVal * (numerator / denominator)
}

// BM25F scores doc against the tokenized query terms.
func BM25F(doc Document, queryTerms []string, stats *FieldStats) float64 {
	filenameLen := float64(model.TotalTerms(doc.FilenameTerms))
	symbolLen := float64(model.TotalTerms(doc.SymbolTerms))
	bodyLen := float64(model.TotalTerms(doc.BodyTerms))

	var total float64
	for _, term := range queryTerms {
		idfVal := idf(stats, term)
		total += fieldScore(weightFilename, float64(doc.FilenameTerms[term]), filenameLen, stats.AvgFilenameLen, idfVal)
		total += fieldScore(weightSymbol, float64(doc.SymbolTerms[term]), symbolLen, stats.AvgSymbolLen, idfVal)
		total += fieldScore(weightBody, float64(doc.BodyTerms[term]), bodyLen, stats.AvgBodyLen, idfVal)
	}
	return total
}

// TokenizeQuery lowercases and splits the query by the same rule body
// terms use (identifier splits included; stop words are not removed).
func TokenizeQuery(query string) []string {
	return model.Tokenize(strings.ToLower(query), false)
}
