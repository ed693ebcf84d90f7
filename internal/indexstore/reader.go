package indexstore

import (
	"bytes"
	"encoding/gob"
	"os"

	"github.com/edsrzf/mmap-go"

	topoerrors "github.com/Demwunz/topo/internal/errors"
)

// Reader holds an mmap'd artifact open for the Scoring Engine's lifetime.
// Close must be called to release the mapping.
type Reader struct {
	file *os.File
	mm   mmap.MMap
}

// Open memory-maps path and decodes its sections into an Artifact. The
// mapping itself is zero-copy; decoding into Go structs still allocates,
// matching the teacher's corpus convention of mmap for I/O, typed
// structs for access (grounded on sourcegraph-zoekt's indexfile.go).
func Open(path string) (*Artifact, *Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, topoerrors.NewIndexMissing(path)
		}
		return nil, nil, topoerrors.NewFileIOError("open", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, topoerrors.NewFileIOError("stat", path, err)
	}
	if info.Size() < headerByteSize {
		f.Close()
		return nil, nil, topoerrors.NewIndexCorrupt(path, "file too small for header", nil)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, nil, topoerrors.NewFileIOError("mmap", path, err)
	}

	a, err := decode(m)
	if err != nil {
		m.Unmap()
		f.Close()
		if ce, ok := err.(*corruptError); ok {
			return nil, nil, topoerrors.NewIndexCorrupt(path, ce.reason, nil)
		}
		return nil, nil, topoerrors.NewFileIOError("decode", path, err)
	}

	return a, &Reader{file: f, mm: m}, nil
}

// Close releases the memory mapping and underlying file descriptor.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}
	if err := r.mm.Unmap(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

type corruptError struct{ reason string }

func (e *corruptError) Error() string { return e.reason }

func decode(data []byte) (*Artifact, error) {
	if len(data) < headerByteSize {
		return nil, &corruptError{"truncated header"}
	}
	gotMagic := byteOrder.Uint32(data[0:4])
	if gotMagic != magic {
		return nil, &corruptError{"magic mismatch"}
	}
	gotVersion := byteOrder.Uint32(data[4:8])
	if gotVersion != formatVersion {
		return nil, &corruptError{"unsupported format version"}
	}
	count := byteOrder.Uint32(data[8:12])
	if count != uint32(sectionCount) {
		return nil, &corruptError{"section count mismatch"}
	}

	cursor := 12
	toc := make([]tocEntry, count)
	for i := range toc {
		if len(data) < cursor+16 {
			return nil, &corruptError{"truncated table of contents"}
		}
		toc[i] = tocEntry{
			Offset: byteOrder.Uint64(data[cursor : cursor+8]),
			Length: byteOrder.Uint64(data[cursor+8 : cursor+16]),
		}
		cursor += 16
	}
	if len(data) < cursor+8 {
		return nil, &corruptError{"truncated body size sentinel"}
	}
	bodySize := byteOrder.Uint64(data[cursor : cursor+8])
	cursor += 8
	body := data[cursor:]
	if uint64(len(body)) != bodySize {
		return nil, &corruptError{"body size sentinel mismatch"}
	}

	section := func(id sectionID) ([]byte, error) {
		e := toc[id]
		if e.Offset+e.Length > uint64(len(body)) {
			return nil, &corruptError{"section out of bounds"}
		}
		return body[e.Offset : e.Offset+e.Length], nil
	}

	var strValues []string
	var files []StoredFile
	var chunks []StoredChunk
	var terms []StoredTermBag
	var edges []StoredEdge
	var ranks []StoredPageRank

	for id, target := range []interface{}{&strValues, &files, &chunks, &terms, &edges, &ranks} {
		b, err := section(sectionID(id))
		if err != nil {
			return nil, err
		}
		if len(b) == 0 {
			continue
		}
		if err := gob.NewDecoder(bytes.NewReader(b)).Decode(target); err != nil {
			return nil, &corruptError{"section decode failed: " + err.Error()}
		}
	}

	return &Artifact{
		Strings:  StringTableFromValues(strValues),
		Files:    files,
		Chunks:   chunks,
		Terms:    terms,
		Edges:    edges,
		PageRank: ranks,
	}, nil
}
