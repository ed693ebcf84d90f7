// Package selector enforces budget limits over a ranked file list,
// per spec.md §4.5.
package selector

import (
	"github.com/Demwunz/topo/internal/config"
	"github.com/Demwunz/topo/internal/scoring"
)

// SizeLookup resolves a file's byte size; the Scoring Engine's ScoredFile
// doesn't carry size, so the caller supplies it (from the loaded index).
type SizeLookup func(path string) int64

// Selection is the Selector's output: the chosen subset in ranked order,
// plus running totals.
type Selection struct {
	Files      []scoring.ScoredFile
	TotalBytes int64
	TotalTokens int64
}

// Select walks ranked in order, including every file whose TotalScore
// meets preset.MinScore, skipping (not aborting on) any file whose
// inclusion would exceed a budget — spec.md §4.5's "fit-all-or-skip".
func Select(ranked []scoring.ScoredFile, preset config.Preset, size SizeLookup) Selection {
	var sel Selection
	for _, f := range ranked {
		if f.TotalScore < preset.MinScore {
			continue
		}
		if preset.Top > 0 && len(sel.Files) >= preset.Top {
			continue
		}
		bytes := size(f.Path)
		tokens := estimateTokens(bytes)

		if preset.MaxBytes > 0 && sel.TotalBytes+bytes > preset.MaxBytes {
			continue
		}
		if preset.MaxTokens > 0 && sel.TotalTokens+tokens > preset.MaxTokens {
			continue
		}

		sel.Files = append(sel.Files, f)
		sel.TotalBytes += bytes
		sel.TotalTokens += tokens
	}
	return sel
}

// estimateTokens implements spec.md §4.5's ceil(size_bytes / 4) estimate.
func estimateTokens(sizeBytes int64) int64 {
	if sizeBytes <= 0 {
		return 0
	}
	return (sizeBytes + 3) / 4
}
