package strategy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

func TestSelectorEmptyDocument(t *testing.T) {
	sel := NewSelector(nil)
	cfg := types.DefaultChunkConfig()

	for _, text := range []string{"", "   \n\t\n  "} {
		name, chunks := sel.Select(makeDoc(t, text), cfg)
		assert.Equal(t, NameSentences, name)
		assert.Empty(t, chunks)
	}
}

func TestSelectorStrictPriority(t *testing.T) {
	sel := NewSelector(nil)

	codeDoc := "```go\n" + strings.Repeat("x := compute(1)\n", 10) + "```"
	listDoc := "- one\n- two\n- three\n- four\n- five\n- six"
	tableDoc := "| a | b |\n|---|---|\n| 1 | 2 |\n| 3 | 4 |"
	structuralDoc := "# One\n\ntext a\n\n## Two\n\ntext b\n\n### Three\n\ntext c"
	proseDoc := "Just some plain text without structure."

	tests := []struct {
		name string
		text string
		want string
	}{
		{"code block dominates", codeDoc, NameCode},
		{"item list", listDoc, NameList},
		{"pure table", tableDoc, NameTable},
		{"header hierarchy", structuralDoc, NameStructural},
		{"plain prose", proseDoc, NameSentences},
	}

	cfg := types.DefaultChunkConfig()
	require.True(t, cfg.StrictSelection)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := makeDoc(t, tt.text)
			name, chunks := sel.Select(doc, cfg)
			assert.Equal(t, tt.want, name)
			assertFullCoverage(t, doc, chunks)
		})
	}
}

func TestSelectorWeightedMode(t *testing.T) {
	sel := NewSelector(nil)
	cfg := types.DefaultChunkConfig()
	cfg.StrictSelection = false

	codeDoc := makeDoc(t, "```go\n"+strings.Repeat("x := compute(1)\n", 10)+"```")
	name, _ := sel.Select(codeDoc, cfg)
	assert.Equal(t, NameCode, name)

	proseDoc := makeDoc(t, "Only prose lives here. Nothing structural at all.")
	name, _ = sel.Select(proseDoc, cfg)
	assert.Equal(t, NameSentences, name)
}

func TestSelectorWeightedPreferredStrategy(t *testing.T) {
	sel := NewSelector(nil)
	cfg := types.DefaultChunkConfig()
	cfg.StrictSelection = false
	cfg.PreferredStrategy = NameSentences

	// the preference biases scoring but cannot activate a strategy whose
	// shape matches better by a wide margin
	codeDoc := makeDoc(t, "```go\n"+strings.Repeat("x := compute(1)\n", 10)+"```")
	name, _ := sel.Select(codeDoc, cfg)
	assert.Equal(t, NameCode, name)
}

func TestSelectorStampsSequence(t *testing.T) {
	sel := NewSelector(nil)
	cfg := types.DefaultChunkConfig()
	cfg.MaxChunkSize = 25
	cfg.MinChunkSize = 1

	doc := makeDoc(t, "# One\n\ntext a\n\n## Two\n\ntext b\n\n### Three\n\ntext c")
	name, chunks := sel.Select(doc, cfg)
	require.Equal(t, NameStructural, name)
	require.Len(t, chunks, 3)

	for i, c := range chunks {
		assert.Equal(t, i, c.Metadata.Index)
		assert.Equal(t, len(chunks), c.Metadata.Total)
		assert.Equal(t, i == 0, c.Metadata.First)
		assert.Equal(t, i == len(chunks)-1, c.Metadata.Last)
		assert.Equal(t, NameStructural, c.Metadata.Strategy)
		assert.False(t, c.Metadata.EmergencyFallback)
	}
}

func TestSelectorResultValidation(t *testing.T) {
	doc := NewDocument("line one\nline two", nil)

	good := []*types.Chunk{
		{Content: "line one", StartLine: 1, EndLine: 1},
		{Content: "line two", StartLine: 2, EndLine: 2},
	}
	assert.NoError(t, checkCandidate(doc, good))

	assert.Error(t, checkCandidate(doc, nil), "empty result is rejected")

	beyond := []*types.Chunk{{Content: "x", StartLine: 1, EndLine: 5}}
	assert.Error(t, checkCandidate(doc, beyond), "line range past document end")

	unordered := []*types.Chunk{
		{Content: "line two", StartLine: 2, EndLine: 2},
		{Content: "line one", StartLine: 1, EndLine: 1},
	}
	assert.Error(t, checkCandidate(doc, unordered), "out of order chunks")
}

func TestEmergencyChunk(t *testing.T) {
	doc := NewDocument("alpha\nbeta", nil)
	cfg := types.DefaultChunkConfig()

	c := emergencyChunk(doc, cfg)

	assert.Equal(t, doc.Text, c.Content)
	assert.Equal(t, 1, c.StartLine)
	assert.Equal(t, 2, c.EndLine)
	assert.True(t, c.Metadata.EmergencyFallback)
	assert.True(t, c.Metadata.First)
	assert.True(t, c.Metadata.Last)
	assert.False(t, c.Metadata.Oversize)

	cfg.MaxChunkSize = 5
	assert.True(t, emergencyChunk(doc, cfg).Metadata.Oversize)
}
