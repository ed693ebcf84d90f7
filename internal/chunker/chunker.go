// Package chunker extracts coarse syntactic chunks, unresolved import
// edges, and per-field term bags from a file's raw bytes, per spec.md
// §4.2. It never builds an AST: each supported language carries a small
// table of line-anchored regular expressions, the same trade-off the
// spec calls out explicitly (full type-accurate parsing is a non-goal).
package chunker

import (
	"path/filepath"
	"strings"

	"github.com/Demwunz/topo/internal/model"
)

// Chunk extracts chunks, import edges, and term bags for one file.
// content is the raw file bytes; language is the Scanner's classification
// (lower-cased). stem controls whether body terms are Porter2-stemmed.
func Chunk(path, language string, content []byte, stem bool) *model.FileResult {
	res := &model.FileResult{
		Path:  path,
		Terms: model.NewTermBag(),
	}

	base := filepath.Base(path)
	nameNoExt := strings.TrimSuffix(base, filepath.Ext(base))
	model.AddTerms(res.Terms.FilenameTerms, nameNoExt, false)
	for _, seg := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		model.AddTerms(res.Terms.FilenameTerms, seg, false)
	}

	text := string(content)
	model.AddTerms(res.Terms.BodyTerms, text, stem)

	table, ok := tableFor(language)
	if !ok {
		// Unknown/unsupported language: body terms still populate per
		// spec.md §4.2's "no chunks, but body terms" fallback.
		return res
	}

	lines := strings.Split(text, "\n")

	emit := func(kind model.ChunkKind, name string, lineIdx int) {
		if name != "" {
			model.AddTerms(res.Terms.SymbolTerms, name, false)
		}
		res.Chunks = append(res.Chunks, model.Chunk{
			Kind:       kind,
			Name:       name,
			StartLine:  lineIdx + 1,
			EndLine:    chunkEndLine(lines, lineIdx),
			OwningFile: path,
		})
	}

	for i, line := range lines {
		for _, re := range table.Functions {
			if m := re.FindStringSubmatch(line); m != nil {
				emit(model.ChunkFunction, nameGroup(m), i)
				break
			}
		}
		for _, re := range table.Types {
			if m := re.FindStringSubmatch(line); m != nil {
				emit(model.ChunkType, nameGroup(m), i)
				break
			}
		}
		for _, re := range table.Impls {
			if m := re.FindStringSubmatch(line); m != nil {
				emit(model.ChunkImpl, nameGroup(m), i)
				break
			}
		}
	}

	for _, re := range table.Imports {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			ref := nameGroup(m)
			if ref == "" {
				continue
			}
			res.Edges = append(res.Edges, model.ImportEdge{SrcFile: path, TargetRef: ref})
		}
	}

	return res
}

// chunkEndLine returns a coarse 1-based end line for the chunk starting at
// startIdx. If a '{' appears on or after the start line, it is the line
// where the brace depth first returns to zero (braces in strings and
// comments are counted too). Otherwise it is the line before the next
// non-blank line indented no deeper than the start line, or the file's
// last line. The Chunker trades span precision for not needing a parser.
func chunkEndLine(lines []string, startIdx int) int {
	depth := 0
	seenOpen := false
	for i := startIdx; i < len(lines); i++ {
		for _, r := range lines[i] {
			switch r {
			case '{':
				depth++
				seenOpen = true
			case '}':
				depth--
			}
		}
		if seenOpen && depth <= 0 {
			return i + 1
		}
	}
	// No brace structure (e.g. Python/Ruby): fall back to an
	// indentation-drop heuristic that skips blank lines.
	if startIdx >= len(lines) {
		return startIdx + 1
	}
	baseIndent := leadingSpace(lines[startIdx])
	for i := startIdx + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if leadingSpace(lines[i]) <= baseIndent {
			return i
		}
	}
	return len(lines)
}

func leadingSpace(s string) int {
	n := 0
	for _, r := range s {
		if r == ' ' {
			n++
		} else if r == '\t' {
			n += 4
		} else {
			break
		}
	}
	return n
}
