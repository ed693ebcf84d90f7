// Package indexstore persists Scanner+Chunker output as a single
// memory-mappable binary artifact and supports incremental merge against
// a prior build, per spec.md §4.3. The section/TOC layout is modeled on
// sourcegraph-zoekt's indexTOC (toc.go): a fixed header naming a
// contiguous run of sections, each independently readable off the mmap
// without touching the others.
package indexstore

import "encoding/binary"

// magic identifies the artifact format; version guards incompatible
// layout changes. Both are validated on open (spec.md §4.3 corruption
// policy).
const (
	magic          uint32 = 0x746f706f // "topo"
	formatVersion  uint32 = 1
	headerByteSize        = 4 + 4 + 4 + 8 // minimum: magic, version, sectionCount, body-size sentinel (the TOC sits before the sentinel)
)

// sectionID names each contiguous region of the artifact, in the fixed
// order they are always written.
type sectionID uint32

const (
	sectionStrings sectionID = iota
	sectionFiles
	sectionChunks
	sectionTermBags
	sectionEdges
	sectionPageRank
	sectionCount
)

// tocEntry locates one section within the artifact body.
type tocEntry struct {
	Offset uint64
	Length uint64
}

var byteOrder = binary.LittleEndian
