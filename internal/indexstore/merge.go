package indexstore

import (
	"bytes"

	"github.com/RoaringBitmap/roaring"

	"github.com/Demwunz/topo/internal/model"
)

// Plan describes which current files can be carried forward from a prior
// artifact without reparsing, per spec.md §4.3's incremental merge rule:
// current records are keyed by (path, content_hash) against the prior
// index, and only the set difference is reprocessed.
type Plan struct {
	// Carried holds, for every current file whose (path, content_hash)
	// matched a prior record, that prior file's index within the old
	// Artifact.Files slice.
	Carried map[string]int
	// Stale is the set of current file indices (into the new records
	// slice, by position) that must be run through the Chunker.
	Stale *roaring.Bitmap
}

// BuildPlan compares current to prior and returns which files are
// unchanged (eligible to carry chunks/terms/edges forward) and which
// must be reprocessed.
func BuildPlan(prior *Artifact, current []model.FileRecord) *Plan {
	plan := &Plan{Carried: make(map[string]int), Stale: roaring.New()}
	if prior == nil {
		for i := range current {
			plan.Stale.AddInt(i)
		}
		return plan
	}

	priorByPath := make(map[string]int, len(prior.Files))
	for i, f := range prior.Files {
		priorByPath[prior.Strings.Lookup(f.PathIdx)] = i
	}

	for i, rec := range current {
		priorIdx, ok := priorByPath[rec.Path]
		if !ok {
			plan.Stale.AddInt(i)
			continue
		}
		priorFile := prior.Files[priorIdx]
		if !bytes.Equal(priorFile.ContentHash[:], rec.ContentHash[:]) {
			plan.Stale.AddInt(i)
			continue
		}
		plan.Carried[rec.Path] = priorIdx
	}

	return plan
}

// CarryForward copies a prior file's chunks and term bag into a fresh
// model.FileResult so the rebuild can skip re-chunking it. Edges are
// resolved separately by the caller once the full current file set is
// known (target paths may have moved even when the source didn't).
func CarryForward(prior *Artifact, priorFileIdx int) *model.FileResult {
	priorPath := prior.Strings.Lookup(prior.Files[priorFileIdx].PathIdx)
	res := &model.FileResult{Path: priorPath, Terms: model.NewTermBag()}

	for _, c := range prior.Chunks {
		if prior.Strings.Lookup(c.OwningIdx) != priorPath {
			continue
		}
		res.Chunks = append(res.Chunks, model.Chunk{
			Kind:       c.Kind,
			Name:       prior.Strings.Lookup(c.NameIdx),
			StartLine:  int(c.StartLine),
			EndLine:    int(c.EndLine),
			OwningFile: priorPath,
		})
	}

	for _, tb := range prior.Terms {
		if int(tb.FileIdx) != priorFileIdx {
			continue
		}
		for _, t := range tb.Filename {
			res.Terms.FilenameTerms[prior.Strings.Lookup(t.TermIdx)] = int(t.Freq)
		}
		for _, t := range tb.Symbol {
			res.Terms.SymbolTerms[prior.Strings.Lookup(t.TermIdx)] = int(t.Freq)
		}
		for _, t := range tb.Body {
			res.Terms.BodyTerms[prior.Strings.Lookup(t.TermIdx)] = int(t.Freq)
		}
	}

	for _, e := range prior.Edges {
		if prior.Strings.Lookup(e.SrcIdx) != priorPath {
			continue
		}
		res.Edges = append(res.Edges, model.ImportEdge{
			SrcFile:   priorPath,
			TargetRef: prior.Strings.Lookup(e.TargetIdx),
		})
	}

	return res
}
