package strategy

import (
	"strings"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// Strategy names, also recorded in chunk metadata
const (
	NameCode       = "code"
	NameMixed      = "mixed"
	NameList       = "list"
	NameTable      = "table"
	NameStructural = "structural"
	NameSentences  = "sentences"
	NameEmergency  = "emergency"
)

// Strategy is one content-aware splitting algorithm. Implementations are
// stateless; all per-document state lives in the Document passed to Apply.
type Strategy interface {
	// Name identifies the strategy in metadata and logs
	Name() string

	// Priority orders strategies for strict selection; lower ranks first
	Priority() int

	// CanHandle reports whether the document's structure activates this strategy
	CanHandle(doc *Document, cfg *types.ChunkConfig) bool

	// Quality scores this strategy's fit for the document in [0, 1]
	Quality(doc *Document, cfg *types.ChunkConfig) float64

	// Apply splits the document into ordered chunk candidates
	Apply(doc *Document, cfg *types.ChunkConfig) ([]*types.Chunk, error)
}

// Document bundles the raw text, its line decomposition, and the structural
// analysis so strategies don't re-split the text on every call.
type Document struct {
	Text     string
	Lines    []string
	Analysis *types.DocumentAnalysis

	// cum[i] holds the byte total of lines[0..i-1], excluding newlines
	cum []int
}

// NewDocument prepares a document for splitting
func NewDocument(text string, analysis *types.DocumentAnalysis) *Document {
	lines := strings.Split(text, "\n")
	cum := make([]int, len(lines)+1)
	for i, l := range lines {
		cum[i+1] = cum[i] + len(l)
	}
	return &Document{Text: text, Lines: lines, Analysis: analysis, cum: cum}
}

// LineCount returns the number of lines in the document
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// Slice returns the exact text of lines [start, end], 1-indexed inclusive
func (d *Document) Slice(start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(d.Lines) {
		end = len(d.Lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(d.Lines[start-1:end], "\n")
}

// SizeBetween returns the byte length of Slice(start, end) without building it
func (d *Document) SizeBetween(start, end int) int {
	if start < 1 {
		start = 1
	}
	if end > len(d.Lines) {
		end = len(d.Lines)
	}
	if start > end {
		return 0
	}
	return d.cum[end] - d.cum[start-1] + (end - start)
}

// isBlankRange reports whether every line in [start, end] is whitespace-only
func (d *Document) isBlankRange(start, end int) bool {
	for ln := start; ln <= end && ln <= len(d.Lines); ln++ {
		if strings.TrimSpace(d.Lines[ln-1]) != "" {
			return false
		}
	}
	return true
}

// headerTextAt extracts the title of an ATX header line, without markers
func headerTextAt(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	t := strings.TrimSpace(lines[line-1])
	t = strings.TrimLeft(t, "#")
	return strings.TrimSpace(t)
}
