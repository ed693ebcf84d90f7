package indexstore

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"sort"

	"github.com/Demwunz/topo/internal/model"
)

// Build assembles an Artifact from one index build's worth of Scanner and
// Chunker output. records is every admitted file; results is keyed by
// path and may be a strict subset of records (shallow builds skip
// chunking); edges are already resolved to file paths; ranks is nil for
// presets that skip PageRank.
//
// Every section is emitted in path-sorted (or path-then-term-sorted)
// order regardless of the input maps' iteration order, so that two
// builds over identical content produce byte-identical artifacts —
// spec.md §5's determinism guarantee.
func Build(records []model.FileRecord, results map[string]*model.FileResult, edges []model.ResolvedEdge, ranks map[string]float64) *Artifact {
	sorted := make([]model.FileRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	st := NewStringTable()
	a := &Artifact{Strings: st}

	for _, r := range sorted {
		a.Files = append(a.Files, StoredFile{
			PathIdx:     st.Intern(r.Path),
			SizeBytes:   r.SizeBytes,
			ModTime:     r.ModTime,
			ContentHash: r.ContentHash,
			FastHash:    r.FastHash,
			LanguageIdx: st.Intern(r.Language),
			Role:        r.Role,
		})
	}

	fileIdx := make(map[string]uint32, len(a.Files))
	for i, f := range a.Files {
		fileIdx[st.Lookup(f.PathIdx)] = uint32(i)
	}

	for _, r := range sorted {
		res, ok := results[r.Path]
		if !ok {
			continue
		}
		idx := fileIdx[r.Path]
		for _, c := range res.Chunks {
			a.Chunks = append(a.Chunks, StoredChunk{
				Kind:      c.Kind,
				NameIdx:   st.Intern(c.Name),
				StartLine: int32(c.StartLine),
				EndLine:   int32(c.EndLine),
				OwningIdx: st.Intern(c.OwningFile),
			})
		}
		if res.Terms != nil {
			a.Terms = append(a.Terms, StoredTermBag{
				FileIdx:  idx,
				Filename: internTerms(st, res.Terms.FilenameTerms),
				Symbol:   internTerms(st, res.Terms.SymbolTerms),
				Body:     internTerms(st, res.Terms.BodyTerms),
			})
		}
	}

	sortedEdges := make([]model.ResolvedEdge, len(edges))
	copy(sortedEdges, edges)
	sort.Slice(sortedEdges, func(i, j int) bool {
		if sortedEdges[i].SrcFile != sortedEdges[j].SrcFile {
			return sortedEdges[i].SrcFile < sortedEdges[j].SrcFile
		}
		return sortedEdges[i].TargetFile < sortedEdges[j].TargetFile
	})
	for _, e := range sortedEdges {
		a.Edges = append(a.Edges, StoredEdge{
			SrcIdx:    st.Intern(e.SrcFile),
			TargetIdx: st.Intern(e.TargetFile),
		})
	}

	rankPaths := make([]string, 0, len(ranks))
	for path := range ranks {
		rankPaths = append(rankPaths, path)
	}
	sort.Strings(rankPaths)
	for _, path := range rankPaths {
		a.PageRank = append(a.PageRank, StoredPageRank{
			PathIdx: st.Intern(path),
			Rank:    ranks[path],
		})
	}

	return a
}

func internTerms(st *StringTable, field map[string]int) []StoredTerm {
	if len(field) == 0 {
		return nil
	}
	terms := make([]string, 0, len(field))
	for term := range field {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	out := make([]StoredTerm, 0, len(field))
	for _, term := range terms {
		out = append(out, StoredTerm{TermIdx: st.Intern(term), Freq: int32(field[term])})
	}
	return out
}

// WriteAtomic serializes a to a section-framed binary artifact and
// installs it at path via temp-file write + rename, matching spec.md
// §4.3's "rewritten in place atomically" lifecycle rule.
func WriteAtomic(path string, a *Artifact) error {
	sections := [sectionCount][]byte{}
	var err error

	if sections[sectionStrings], err = gobEncode(a.Strings.Values()); err != nil {
		return err
	}
	if sections[sectionFiles], err = gobEncode(a.Files); err != nil {
		return err
	}
	if sections[sectionChunks], err = gobEncode(a.Chunks); err != nil {
		return err
	}
	if sections[sectionTermBags], err = gobEncode(a.Terms); err != nil {
		return err
	}
	if sections[sectionEdges], err = gobEncode(a.Edges); err != nil {
		return err
	}
	if sections[sectionPageRank], err = gobEncode(a.PageRank); err != nil {
		return err
	}

	var body bytes.Buffer
	toc := make([]tocEntry, sectionCount)
	var offset uint64
	for i, sec := range sections {
		toc[i] = tocEntry{Offset: offset, Length: uint64(len(sec))}
		body.Write(sec)
		offset += uint64(len(sec))
	}

	var out bytes.Buffer
	writeUint32(&out, magic)
	writeUint32(&out, formatVersion)
	writeUint32(&out, uint32(sectionCount))
	for _, e := range toc {
		writeUint64(&out, e.Offset)
		writeUint64(&out, e.Length)
	}
	writeUint64(&out, uint64(body.Len()))
	out.Write(body.Bytes())

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".index-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(out.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func gobEncode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	byteOrder.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	byteOrder.PutUint64(b[:], v)
	buf.Write(b[:])
}
