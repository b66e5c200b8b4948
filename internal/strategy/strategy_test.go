package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mdchunk-mcp/internal/analyzer"
	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// makeDoc analyzes text and wraps it for strategy use
func makeDoc(t *testing.T, text string) *Document {
	t.Helper()
	return NewDocument(text, analyzer.New().Analyze(text))
}

// assertFullCoverage verifies the chunks span every document line in order
func assertFullCoverage(t *testing.T, doc *Document, chunks []*types.Chunk) {
	t.Helper()
	require.NotEmpty(t, chunks)

	covered := make([]bool, doc.LineCount()+1)
	prevStart := 0
	for i, c := range chunks {
		assert.GreaterOrEqual(t, c.StartLine, 1, "chunk %d start line", i)
		assert.LessOrEqual(t, c.EndLine, doc.LineCount(), "chunk %d end line", i)
		assert.GreaterOrEqual(t, c.StartLine, prevStart, "chunk %d out of order", i)
		prevStart = c.StartLine
		for ln := c.StartLine; ln <= c.EndLine; ln++ {
			covered[ln] = true
		}
	}
	for ln := 1; ln <= doc.LineCount(); ln++ {
		assert.True(t, covered[ln], "line %d not covered by any chunk", ln)
	}
}

func TestDocumentSliceAndSize(t *testing.T) {
	doc := NewDocument("abc\ndef\n\nxy", nil)

	assert.Equal(t, 4, doc.LineCount())
	assert.Equal(t, "abc\ndef", doc.Slice(1, 2))
	assert.Equal(t, "abc\ndef\n\nxy", doc.Slice(1, 4))
	assert.Equal(t, doc.Text, doc.Slice(0, 99))
	assert.Equal(t, "", doc.Slice(3, 2))

	assert.Equal(t, len("abc\ndef"), doc.SizeBetween(1, 2))
	assert.Equal(t, len(doc.Text), doc.SizeBetween(1, 4))
	assert.Equal(t, 0, doc.SizeBetween(3, 3))
}

func TestDocumentBlankRange(t *testing.T) {
	doc := NewDocument("text\n\n   \nmore", nil)

	assert.False(t, doc.isBlankRange(1, 2))
	assert.True(t, doc.isBlankRange(2, 3))
	assert.False(t, doc.isBlankRange(2, 4))
}

func TestHeaderTextAt(t *testing.T) {
	lines := []string{"## Getting Started  ", "not a header"}

	assert.Equal(t, "Getting Started", headerTextAt(lines, 1))
	assert.Equal(t, "not a header", headerTextAt(lines, 2))
	assert.Equal(t, "", headerTextAt(lines, 0))
	assert.Equal(t, "", headerTextAt(lines, 5))
}

func TestAccumulateGrowthPolicy(t *testing.T) {
	// three 20-byte lines, limit forces a close after two
	doc := NewDocument("aaaaaaaaaaaaaaaaaaaa\nbbbbbbbbbbbbbbbbbbbb\ncccccccccccccccccccc", nil)
	cfg := types.DefaultChunkConfig()
	cfg.MaxChunkSize = 45
	cfg.MinChunkSize = 5

	units := []unit{
		{startLine: 1, endLine: 1, kind: kindProse},
		{startLine: 2, endLine: 2, kind: kindProse},
		{startLine: 3, endLine: 3, kind: kindProse},
	}
	chunks := accumulate(doc, cfg, types.ContentText, units)

	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 2, chunks[0].EndLine)
	assert.Equal(t, 3, chunks[1].StartLine)
	assert.Equal(t, 3, chunks[1].EndLine)
	assert.False(t, chunks[0].Metadata.Oversize)
}

func TestAccumulateMinSizeOverridesMax(t *testing.T) {
	doc := NewDocument("aaaaaaaaaaaaaaaaaaaa\nbbbbbbbbbbbbbbbbbbbb", nil)
	cfg := types.DefaultChunkConfig()
	cfg.MaxChunkSize = 30
	cfg.MinChunkSize = 25 // first unit alone is below the minimum

	units := []unit{
		{startLine: 1, endLine: 1, kind: kindProse},
		{startLine: 2, endLine: 2, kind: kindProse},
	}
	chunks := accumulate(doc, cfg, types.ContentText, units)

	require.Len(t, chunks, 1)
	assert.Equal(t, doc.Text, chunks[0].Content)
}

func TestCoverWithProseFillsGaps(t *testing.T) {
	doc := makeDoc(t, "intro line\n\n- item\n\ntail line")
	elems := []unit{{startLine: 3, endLine: 3, kind: kindList, atomic: true}}

	units := coverWithProse(doc, elems)

	require.Len(t, units, 3)
	assert.Equal(t, kindProse, units[0].kind)
	assert.Equal(t, 1, units[0].startLine)
	assert.Equal(t, 2, units[0].endLine)
	assert.Equal(t, kindList, units[1].kind)
	assert.Equal(t, kindProse, units[2].kind)
	assert.Equal(t, 5, units[2].endLine)
}

func TestCoverWithProseAbsorbsBlankGaps(t *testing.T) {
	doc := makeDoc(t, "- item\n\n\n- item two")
	elems := []unit{
		{startLine: 1, endLine: 1, kind: kindList, atomic: true},
		{startLine: 4, endLine: 4, kind: kindList, atomic: true},
	}

	units := coverWithProse(doc, elems)

	// blank gap folds into the preceding element, no whitespace-only unit
	require.Len(t, units, 2)
	assert.Equal(t, 3, units[0].endLine)
	assert.Equal(t, 4, units[1].startLine)
}

func TestSplitByParagraphs(t *testing.T) {
	doc := NewDocument("para one\nstill one\n\npara two\n\n\npara three", nil)
	u := unit{startLine: 1, endLine: 7, kind: kindProse}

	parts := splitByParagraphs(doc, u)

	require.Len(t, parts, 3)
	assert.Equal(t, 1, parts[0].startLine)
	assert.Equal(t, 3, parts[0].endLine) // trailing blank rides along
	assert.Equal(t, 4, parts[1].startLine)
	assert.Equal(t, 6, parts[1].endLine)
	assert.Equal(t, 7, parts[2].startLine)
}

func TestSplitByParagraphsSingleParagraph(t *testing.T) {
	doc := NewDocument("one\ntwo", nil)
	u := unit{startLine: 1, endLine: 2, kind: kindProse}

	parts := splitByParagraphs(doc, u)

	require.Len(t, parts, 1)
	assert.Equal(t, u.startLine, parts[0].startLine)
	assert.Equal(t, u.endLine, parts[0].endLine)
}
