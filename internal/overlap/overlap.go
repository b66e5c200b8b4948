// Package overlap annotates adjacent chunks with prefix and suffix context
// windows. Windows are stored in metadata only; chunk content is never
// touched, so concatenating chunk bodies still reconstructs the source
// without duplication.
package overlap

import (
	"strings"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// Apply attaches overlap windows to every chunk boundary in the sequence.
// Each chunk after the first receives a prefix drawn from the tail of its
// predecessor; each chunk before the last receives a suffix drawn from the
// head of its successor. The mutation is metadata-only and idempotent.
func Apply(chunks []*types.Chunk, cfg *types.ChunkConfig) {
	if !cfg.EnableOverlap || len(chunks) < 2 {
		return
	}
	size := cfg.EffectiveOverlapSize()
	if size <= 0 {
		return
	}

	for i, c := range chunks {
		if i > 0 {
			c.Metadata.OverlapPrefix = tailWindow(chunks[i-1].Content, size)
		} else {
			c.Metadata.OverlapPrefix = ""
		}
		if i < len(chunks)-1 {
			c.Metadata.OverlapSuffix = headWindow(chunks[i+1].Content, size)
		} else {
			c.Metadata.OverlapSuffix = ""
		}
	}
}

func isWordByte(b byte) bool {
	return b != ' ' && b != '\t' && b != '\n'
}

// tailWindow returns a suffix of content roughly size bytes long, grown
// backward so it never starts mid-word (which also covers URLs), capped at
// the last paragraph break, and balanced with respect to inline code spans.
func tailWindow(content string, size int) string {
	start := len(content) - size
	if start < 0 {
		start = 0
	}
	for start > 0 && isWordByte(content[start-1]) {
		start--
	}
	w := content[start:]

	// never carry context across a paragraph boundary
	if i := strings.LastIndex(w, "\n\n"); i >= 0 {
		w = w[i+2:]
	}

	// an unpaired backtick means the window starts or ends mid code span;
	// dropping through the first one restores balance
	if strings.Count(w, "`")%2 == 1 {
		if j := strings.Index(w, "`"); j >= 0 {
			w = w[j+1:]
		}
	}
	return strings.TrimLeft(w, " \t\n")
}

// headWindow mirrors tailWindow for the start of the following chunk
func headWindow(content string, size int) string {
	end := size
	if end > len(content) {
		end = len(content)
	}
	for end < len(content) && isWordByte(content[end]) {
		end++
	}
	w := content[:end]

	if i := strings.Index(w, "\n\n"); i >= 0 {
		w = w[:i]
	}

	if strings.Count(w, "`")%2 == 1 {
		if j := strings.LastIndex(w, "`"); j >= 0 {
			w = w[:j]
		}
	}
	return strings.TrimRight(w, " \t\n")
}
