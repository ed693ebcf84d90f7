package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Demwunz/topo/internal/config"
	"github.com/Demwunz/topo/internal/scoring"
)

func TestSelectBudgetStopScenarioD(t *testing.T) {
	ranked := []scoring.ScoredFile{
		{Path: "a.go", TotalScore: 1.0},
		{Path: "b.go", TotalScore: 0.9},
		{Path: "c.go", TotalScore: 0.8},
	}
	sizes := map[string]int64{"a.go": 400, "b.go": 400, "c.go": 400}
	preset := config.PresetByName("fast")
	preset.MaxBytes = 1000
	preset.MinScore = 0

	sel := Select(ranked, preset, func(p string) int64 { return sizes[p] })
	require.Len(t, sel.Files, 2)
	assert.Equal(t, "a.go", sel.Files[0].Path)
	assert.Equal(t, "b.go", sel.Files[1].Path)
	assert.Equal(t, int64(800), sel.TotalBytes)
}

func TestSelectSkipsOversizedButContinues(t *testing.T) {
	ranked := []scoring.ScoredFile{
		{Path: "big.go", TotalScore: 1.0},
		{Path: "small.go", TotalScore: 0.9},
	}
	sizes := map[string]int64{"big.go": 10000, "small.go": 100}
	preset := config.PresetByName("fast")
	preset.MaxBytes = 500
	preset.MinScore = 0

	sel := Select(ranked, preset, func(p string) int64 { return sizes[p] })
	require.Len(t, sel.Files, 1)
	assert.Equal(t, "small.go", sel.Files[0].Path)
}

func TestSelectRespectsMinScore(t *testing.T) {
	ranked := []scoring.ScoredFile{
		{Path: "a.go", TotalScore: 0.5},
		{Path: "b.go", TotalScore: 0.001},
	}
	sizes := map[string]int64{"a.go": 10, "b.go": 10}
	preset := config.PresetByName("balanced")
	preset.MinScore = 0.01
	preset.MaxBytes = 0

	sel := Select(ranked, preset, func(p string) int64 { return sizes[p] })
	require.Len(t, sel.Files, 1)
	assert.Equal(t, "a.go", sel.Files[0].Path)
}
