package strategy

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// tableStrategy keeps each table whole when it fits, or splits it row-wise
// with the header and separator rows duplicated into every fragment so each
// fragment remains a readable table on its own.
type tableStrategy struct{}

func (tableStrategy) Name() string  { return NameTable }
func (tableStrategy) Priority() int { return 4 }

func (tableStrategy) CanHandle(doc *Document, cfg *types.ChunkConfig) bool {
	a := doc.Analysis
	if a == nil || a.TableCount == 0 {
		return false
	}
	return a.TableCount >= cfg.TableMinCount || a.TableRatio >= cfg.TableMinRatio
}

func (tableStrategy) Quality(doc *Document, cfg *types.ChunkConfig) float64 {
	a := doc.Analysis
	if a == nil || a.TotalElements() == 0 {
		return 0
	}
	density := float64(a.TableCount) / float64(a.TotalElements())
	return 0.5*density + 0.5*a.TableRatio
}

// separatorPattern matches a GFM delimiter row; alignment colons are copied
// through verbatim, never rewritten.
var separatorPattern = regexp.MustCompile(`^\s*\|?[\s:|-]+\|?\s*$`)

func isSeparatorRow(line string) bool {
	return strings.Contains(line, "-") && separatorPattern.MatchString(line)
}

func (s tableStrategy) Apply(doc *Document, cfg *types.ChunkConfig) ([]*types.Chunk, error) {
	tables := doc.Analysis.ElementsOfType(types.ElementTable)
	if len(tables) == 0 {
		return nil, types.NewStrategyError(NameTable, errors.New("no tables detected"))
	}

	var units []unit
	for _, t := range tables {
		dataRows := t.LineSpan() - 2
		if dataRows < 0 {
			dataRows = 0
		}
		u := unit{
			startLine: t.StartLine,
			endLine:   t.EndLine,
			kind:      kindTable,
			atomic:    true,
			totalRows: dataRows,
		}
		if u.size(doc) > cfg.MaxChunkSize && !cfg.AllowOversize {
			units = append(units, splitTableRows(doc, cfg, t)...)
			continue
		}
		units = append(units, u)
	}

	units = coverWithProse(doc, units)
	return accumulate(doc, cfg, types.ContentTable, units), nil
}

// splitTableRows fragments an oversized table between data rows. Every
// fragment's content starts with a copy of the header and separator rows,
// which is why fragments carry a content override instead of a pure line
// slice.
func splitTableRows(doc *Document, cfg *types.ChunkConfig, t types.Element) []unit {
	header := doc.Lines[t.StartLine-1]
	bodyStart := t.StartLine + 1
	base := header
	if bodyStart <= t.EndLine && isSeparatorRow(doc.Lines[bodyStart-1]) {
		base = header + "\n" + doc.Lines[bodyStart-1]
		bodyStart++
	}

	totalRows := t.EndLine - bodyStart + 1
	if totalRows <= 0 {
		// nothing to split; emit the table whole
		return []unit{{startLine: t.StartLine, endLine: t.EndLine, kind: kindTable, atomic: true, noMerge: true}}
	}

	type span struct{ start, end int }
	var parts []span
	start := bodyStart
	curLen := len(base)
	for ln := bodyStart; ln <= t.EndLine; ln++ {
		rowLen := len(doc.Lines[ln-1]) + 1
		if ln > start && curLen+rowLen > cfg.MaxChunkSize {
			parts = append(parts, span{start, ln - 1})
			start = ln
			curLen = len(base)
		}
		curLen += rowLen
	}
	parts = append(parts, span{start, t.EndLine})

	units := make([]unit, 0, len(parts))
	for i, p := range parts {
		var sb strings.Builder
		sb.WriteString(base)
		for ln := p.start; ln <= p.end; ln++ {
			sb.WriteByte('\n')
			sb.WriteString(doc.Lines[ln-1])
		}
		startLine := p.start
		if i == 0 {
			startLine = t.StartLine // fragment 1 genuinely contains the header rows
		}
		units = append(units, unit{
			startLine:  startLine,
			endLine:    p.end,
			kind:       kindTable,
			atomic:     true,
			noMerge:    true,
			content:    sb.String(),
			totalRows:  totalRows,
			partNumber: i + 1,
			totalParts: len(parts),
		})
	}
	return units
}
