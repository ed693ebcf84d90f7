package indexstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Demwunz/topo/internal/model"
)

func TestBuildPlanCarriesUnchangedFiles(t *testing.T) {
	prior := Build(
		[]model.FileRecord{
			{Path: "a.go", ContentHash: [32]byte{1}},
			{Path: "b.go", ContentHash: [32]byte{2}},
		},
		nil, nil, nil,
	)

	current := []model.FileRecord{
		{Path: "a.go", ContentHash: [32]byte{1}}, // unchanged
		{Path: "b.go", ContentHash: [32]byte{9}}, // content changed
		{Path: "c.go", ContentHash: [32]byte{3}}, // new
	}

	plan := BuildPlan(prior, current)

	assert.Contains(t, plan.Carried, "a.go")
	assert.NotContains(t, plan.Carried, "b.go")
	assert.NotContains(t, plan.Carried, "c.go")
	assert.True(t, plan.Stale.ContainsInt(1))
	assert.True(t, plan.Stale.ContainsInt(2))
	assert.False(t, plan.Stale.ContainsInt(0))
}

func TestBuildPlanWithNilPriorMarksEverythingStale(t *testing.T) {
	current := []model.FileRecord{{Path: "a.go"}, {Path: "b.go"}}
	plan := BuildPlan(nil, current)
	assert.Empty(t, plan.Carried)
	assert.Equal(t, uint64(2), plan.Stale.GetCardinality())
}

func TestCarryForwardCopiesChunksAndTerms(t *testing.T) {
	prior := Build(
		[]model.FileRecord{{Path: "a.go", ContentHash: [32]byte{1}}},
		map[string]*model.FileResult{
			"a.go": {
				Path:   "a.go",
				Chunks: []model.Chunk{{Kind: model.ChunkFunction, Name: "Foo", StartLine: 1, EndLine: 2, OwningFile: "a.go"}},
				Terms: &model.TermBag{
					FilenameTerms: map[string]int{"a": 1},
					SymbolTerms:   map[string]int{"foo": 1},
					BodyTerms:     map[string]int{"foo": 3},
				},
			},
		},
		nil, nil,
	)

	res := CarryForward(prior, 0)
	require.Len(t, res.Chunks, 1)
	assert.Equal(t, "Foo", res.Chunks[0].Name)
	assert.Equal(t, 3, res.Terms.BodyTerms["foo"])
}
