package indexstore

import "github.com/Demwunz/topo/internal/model"

// StoredFile mirrors model.FileRecord with string-table indices instead
// of inline strings.
type StoredFile struct {
	PathIdx     uint32
	SizeBytes   int64
	ModTime     int64
	ContentHash [32]byte
	FastHash    uint64
	LanguageIdx uint32
	Role        model.Role
}

// StoredChunk mirrors model.Chunk with string-table indices.
type StoredChunk struct {
	Kind        model.ChunkKind
	NameIdx     uint32
	StartLine   int32
	EndLine     int32
	OwningIdx   uint32
}

// StoredTerm is one (term, frequency) posting within a file's field.
type StoredTerm struct {
	TermIdx uint32
	Freq    int32
}

// StoredTermBag groups a file's three field postings.
type StoredTermBag struct {
	FileIdx  uint32 // index into the Files section
	Filename []StoredTerm
	Symbol   []StoredTerm
	Body     []StoredTerm
}

// StoredEdge mirrors model.ResolvedEdge with string-table indices.
type StoredEdge struct {
	SrcIdx    uint32
	TargetIdx uint32
}

// StoredPageRank is one file's rank, keyed by path index.
type StoredPageRank struct {
	PathIdx uint32
	Rank    float64
}
