package strategy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

func TestIsSeparatorRow(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"|---|---|", true},
		{"| --- | --- |", true},
		{"|:--|--:|", true},
		{"| a | b |", false},
		{"plain text", false},
		{"| | |", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isSeparatorRow(tt.line), "line %q", tt.line)
	}
}

func TestTableCanHandle(t *testing.T) {
	cfg := types.DefaultChunkConfig()

	doc := &Document{Analysis: &types.DocumentAnalysis{TableCount: 1, TableRatio: 0.5}}
	assert.True(t, tableStrategy{}.CanHandle(doc, cfg))

	doc = &Document{Analysis: &types.DocumentAnalysis{TableCount: 3, TableRatio: 0.1}}
	assert.True(t, tableStrategy{}.CanHandle(doc, cfg))

	doc = &Document{Analysis: &types.DocumentAnalysis{TableCount: 1, TableRatio: 0.1}}
	assert.False(t, tableStrategy{}.CanHandle(doc, cfg))

	doc = &Document{Analysis: &types.DocumentAnalysis{}}
	assert.False(t, tableStrategy{}.CanHandle(doc, cfg))
}

func TestTableApplyKeepsSmallTableWhole(t *testing.T) {
	doc := makeDoc(t, "| a | b |\n|---|---|\n| 1 | 2 |\n| 3 | 4 |")
	cfg := types.DefaultChunkConfig()

	chunks, err := tableStrategy{}.Apply(doc, cfg)
	require.NoError(t, err)
	assertFullCoverage(t, doc, chunks)

	require.Len(t, chunks, 1)
	assert.Equal(t, doc.Text, chunks[0].Content)
	assert.Equal(t, types.ContentTable, chunks[0].Metadata.ContentType)
	assert.Equal(t, 2, chunks[0].Metadata.TotalRows)
}

func TestTableApplyRowSplitDuplicatesHeader(t *testing.T) {
	// header 9 bytes, separator 13, each data row 13: with a 110 byte limit
	// the ten rows split into fragments of six and four
	var sb strings.Builder
	sb.WriteString("| a | b |\n| --- | --- |")
	for i := 1; i <= 10; i++ {
		sb.WriteString(fmt.Sprintf("\n| r%02d | v%02d |", i, i))
	}
	doc := makeDoc(t, sb.String())

	cfg := types.DefaultChunkConfig()
	cfg.MaxChunkSize = 110
	cfg.MinChunkSize = 10
	cfg.AllowOversize = false

	chunks, err := tableStrategy{}.Apply(doc, cfg)
	require.NoError(t, err)
	assertFullCoverage(t, doc, chunks)

	require.Len(t, chunks, 2)
	for i, c := range chunks {
		assert.True(t, strings.HasPrefix(c.Content, "| a | b |\n| --- | --- |"),
			"fragment %d must restate the header rows", i)
		assert.LessOrEqual(t, len(c.Content), cfg.MaxChunkSize)
		assert.Equal(t, i+1, c.Metadata.PartNumber)
		assert.Equal(t, 2, c.Metadata.TotalParts)
		assert.Equal(t, 10, c.Metadata.TotalRows)
	}

	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 8, chunks[0].EndLine)
	assert.Contains(t, chunks[0].Content, "| r06 |")
	assert.NotContains(t, chunks[0].Content, "| r07 |")

	assert.Equal(t, 9, chunks[1].StartLine)
	assert.Equal(t, 12, chunks[1].EndLine)
	assert.Contains(t, chunks[1].Content, "| r10 |")
}

func TestTableApplyOversizeAllowedKeepsWhole(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("| a | b |\n| --- | --- |")
	for i := 1; i <= 10; i++ {
		sb.WriteString(fmt.Sprintf("\n| r%02d | v%02d |", i, i))
	}
	doc := makeDoc(t, sb.String())

	cfg := types.DefaultChunkConfig()
	cfg.MaxChunkSize = 110
	cfg.MinChunkSize = 10

	chunks, err := tableStrategy{}.Apply(doc, cfg)
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.True(t, chunks[0].Metadata.Oversize)
	assert.Equal(t, doc.Text, chunks[0].Content)
}

func TestTableApplyWithSurroundingProse(t *testing.T) {
	doc := makeDoc(t, "Results below.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\nDone.")
	cfg := types.DefaultChunkConfig()

	chunks, err := tableStrategy{}.Apply(doc, cfg)
	require.NoError(t, err)
	assertFullCoverage(t, doc, chunks)

	require.Len(t, chunks, 1)
	assert.Equal(t, doc.Text, chunks[0].Content)
}
