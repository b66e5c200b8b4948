package strategy

import (
	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// Unit kinds
const (
	kindProse     = "prose"
	kindParagraph = "paragraph"
	kindCode      = "code"
	kindList      = "list"
	kindTable     = "table"
	kindSection   = "section"
)

// unit is one atomic accumulation step: a line range plus the metadata the
// owning strategy wants carried into the resulting chunk. Atomic units are
// never fragmented by the accumulator; noMerge units always stand alone.
type unit struct {
	startLine int
	endLine   int
	kind      string
	atomic    bool
	noMerge   bool

	// content overrides the line slice when set (table fragments duplicate
	// their header and separator rows, so their text is not a pure slice)
	content string

	// annotations merged into chunk metadata
	headerPath        string
	parentContext     string
	parentContextLine int
	language          string
	symbols           []string
	itemCount         int
	maxNesting        int
	hasNested         bool
	totalRows         int
	partNumber        int
	totalParts        int
}

func (u *unit) size(doc *Document) int {
	if u.content != "" {
		return len(u.content)
	}
	return doc.SizeBetween(u.startLine, u.endLine)
}

// accumulate implements the shared growth policy: grow a chunk by whole units
// until adding the next one would exceed MaxChunkSize, then close it — unless
// the chunk is still below MinChunkSize, in which case growth continues past
// the soft limit. A unit that alone exceeds MaxChunkSize is handled by
// splitOversized.
func accumulate(doc *Document, cfg *types.ChunkConfig, ct types.ContentType, units []unit) []*types.Chunk {
	var chunks []*types.Chunk
	var cur []unit
	curSize := 0

	flush := func() {
		if len(cur) == 0 {
			return
		}
		chunks = append(chunks, buildChunk(doc, ct, cur, false))
		cur = nil
		curSize = 0
	}

	for _, u := range units {
		sz := u.size(doc)
		if sz > cfg.MaxChunkSize {
			flush()
			chunks = append(chunks, splitOversized(doc, cfg, ct, u)...)
			continue
		}
		if u.noMerge {
			flush()
			chunks = append(chunks, buildChunk(doc, ct, []unit{u}, false))
			continue
		}
		// +1 accounts for the newline joining this unit to the chunk
		if curSize > 0 && curSize+1+sz > cfg.MaxChunkSize && curSize >= cfg.MinChunkSize {
			flush()
		}
		if curSize > 0 {
			curSize++
		}
		cur = append(cur, u)
		curSize += sz
	}
	flush()
	return chunks
}

// splitOversized handles a single unit larger than MaxChunkSize. Atomic units
// are emitted whole and flagged oversize when the config allows it; code
// blocks are never fragmented regardless. Everything else is split at line
// boundaries, the least damaging internal boundary available.
func splitOversized(doc *Document, cfg *types.ChunkConfig, ct types.ContentType, u unit) []*types.Chunk {
	if u.atomic && (cfg.AllowOversize || u.kind == kindCode || u.content != "") {
		return []*types.Chunk{buildChunk(doc, ct, []unit{u}, true)}
	}
	return lineSplit(doc, cfg, ct, u)
}

// lineSplit fragments a unit's line range into pieces no larger than
// MaxChunkSize, each inheriting the unit's annotations. A single line longer
// than the limit becomes its own oversized piece. Whitespace-only pieces are
// folded into their predecessor.
func lineSplit(doc *Document, cfg *types.ChunkConfig, ct types.ContentType, u unit) []*types.Chunk {
	var pieces []unit
	start := u.startLine
	for ln := u.startLine; ln <= u.endLine; ln++ {
		if ln > start && doc.SizeBetween(start, ln) > cfg.MaxChunkSize {
			pieces = append(pieces, pieceOf(u, start, ln-1))
			start = ln
		}
	}
	pieces = append(pieces, pieceOf(u, start, u.endLine))

	// fold blank pieces into their predecessor
	var merged []unit
	for _, p := range pieces {
		if doc.isBlankRange(p.startLine, p.endLine) && len(merged) > 0 {
			merged[len(merged)-1].endLine = p.endLine
			continue
		}
		merged = append(merged, p)
	}

	chunks := make([]*types.Chunk, 0, len(merged))
	for _, p := range merged {
		oversize := p.size(doc) > cfg.MaxChunkSize
		chunks = append(chunks, buildChunk(doc, ct, []unit{p}, oversize))
	}
	return chunks
}

func pieceOf(u unit, start, end int) unit {
	p := u
	p.startLine = start
	p.endLine = end
	p.content = ""
	p.atomic = false
	p.noMerge = false
	return p
}

// buildChunk materializes a chunk from one or more contiguous units,
// aggregating their annotations into the metadata struct.
func buildChunk(doc *Document, ct types.ContentType, units []unit, oversize bool) *types.Chunk {
	first := units[0]
	last := units[len(units)-1]

	var content string
	if len(units) == 1 && first.content != "" {
		content = first.content
	} else {
		content = doc.Slice(first.startLine, last.endLine)
	}

	md := types.ChunkMetadata{ContentType: ct, Oversize: oversize}
	seen := make(map[string]bool)
	for _, u := range units {
		if md.HeaderPath == "" {
			md.HeaderPath = u.headerPath
		}
		if md.Language == "" {
			md.Language = u.language
		}
		for _, sym := range u.symbols {
			if !seen[sym] {
				seen[sym] = true
				md.CodeSymbols = append(md.CodeSymbols, sym)
			}
		}
		md.ItemCount += u.itemCount
		if u.maxNesting > md.MaxNesting {
			md.MaxNesting = u.maxNesting
		}
		md.HasNestedLists = md.HasNestedLists || u.hasNested
		if u.totalParts > 0 {
			md.TotalRows = u.totalRows
			md.PartNumber = u.partNumber
			md.TotalParts = u.totalParts
		} else if u.totalRows > 0 && md.TotalRows == 0 {
			md.TotalRows = u.totalRows
		}
	}

	// Ancestor context only applies when the header line itself is not part
	// of this chunk.
	if first.parentContext != "" && first.parentContextLine > 0 && first.startLine > first.parentContextLine {
		md.ParentContext = first.parentContext
	}

	return &types.Chunk{
		Content:   content,
		StartLine: first.startLine,
		EndLine:   last.endLine,
		Metadata:  md,
	}
}

// coverWithProse completes a set of element units into full document
// coverage. Gaps between elements become prose units; whitespace-only gaps
// are absorbed into the neighboring unit so no chunk ever ends up blank.
// Elements already covered by an earlier, wider element are dropped.
func coverWithProse(doc *Document, elems []unit) []unit {
	var out []unit
	cur := 1

	addGap := func(from, to int, next *unit) {
		if to < from {
			return
		}
		if doc.isBlankRange(from, to) {
			if len(out) > 0 {
				out[len(out)-1].endLine = to
			} else if next != nil {
				next.startLine = from
			}
			return
		}
		out = append(out, unit{startLine: from, endLine: to, kind: kindProse})
	}

	for i := range elems {
		e := elems[i]
		if e.endLine < cur {
			continue // nested inside a previous element
		}
		if e.startLine < cur {
			e.startLine = cur
		}
		addGap(cur, e.startLine-1, &e)
		out = append(out, e)
		cur = e.endLine + 1
	}
	addGap(cur, doc.LineCount(), nil)
	return out
}

// splitByParagraphs divides a unit at blank-line boundaries, attaching each
// blank run to the paragraph before it. Annotations are inherited. Returns
// the unit unchanged when it holds a single paragraph.
func splitByParagraphs(doc *Document, u unit) []unit {
	var out []unit
	start := -1
	for ln := u.startLine; ln <= u.endLine; ln++ {
		blank := doc.isBlankRange(ln, ln)
		if !blank && start < 0 {
			start = ln
		}
		if blank && start >= 0 {
			out = append(out, paragraphOf(u, start, ln)) // trailing blank rides along
			start = -1
		} else if blank && len(out) > 0 {
			out[len(out)-1].endLine = ln
		}
	}
	if start >= 0 {
		out = append(out, paragraphOf(u, start, u.endLine))
	}
	if len(out) == 0 {
		return []unit{u}
	}
	// leading blanks fold into the first paragraph
	out[0].startLine = u.startLine
	return out
}

func paragraphOf(u unit, start, end int) unit {
	p := u
	p.startLine = start
	p.endLine = end
	p.content = ""
	p.atomic = false
	p.noMerge = false
	p.kind = kindParagraph
	return p
}
