package strategy

import (
	"errors"
	"strings"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// structuralStrategy chunks by header sections. Each header opens a section
// covering its direct content up to the next header of any level; subsections
// become their own chunks. Every chunk is annotated with the slash-joined
// path of ancestor header titles.
type structuralStrategy struct{}

func (structuralStrategy) Name() string  { return NameStructural }
func (structuralStrategy) Priority() int { return 5 }

func (structuralStrategy) CanHandle(doc *Document, cfg *types.ChunkConfig) bool {
	a := doc.Analysis
	if a == nil || a.HeaderCount == 0 {
		return false
	}
	return a.HeaderCount >= cfg.StructuralMinHeaders && a.MaxHeaderDepth > cfg.StructuralMinDepth
}

func (structuralStrategy) Quality(doc *Document, cfg *types.ChunkConfig) float64 {
	a := doc.Analysis
	if a == nil || a.TotalElements() == 0 {
		return 0
	}
	density := float64(a.HeaderCount) / float64(a.TotalElements())
	depth := float64(a.MaxHeaderDepth) / 3
	if depth > 1 {
		depth = 1
	}
	return 0.6*density + 0.4*depth
}

// headerPaths chains headers into trees with a parent stack and resolves the
// full path of each one. Skipped levels (H1 directly to H3) chain by stack
// depth, not raw level arithmetic; multiple root headers form independent
// trees.
func headerPaths(lines []string, headers []types.Element) []string {
	type hNode struct {
		parent int
		level  int
		text   string
	}
	nodes := make([]hNode, len(headers))
	var stack []int

	for i, h := range headers {
		for len(stack) > 0 && nodes[stack[len(stack)-1]].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		parent := -1
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}
		nodes[i] = hNode{parent: parent, level: h.Level, text: headerTextAt(lines, h.StartLine)}
		stack = append(stack, i)
	}

	paths := make([]string, len(headers))
	for i := range nodes {
		var segments []string
		for j := i; j != -1; j = nodes[j].parent {
			segments = append(segments, nodes[j].text)
		}
		// reverse: segments were collected leaf-to-root
		for l, r := 0, len(segments)-1; l < r; l, r = l+1, r-1 {
			segments[l], segments[r] = segments[r], segments[l]
		}
		paths[i] = "/" + strings.Join(segments, "/")
	}
	return paths
}

func (s structuralStrategy) Apply(doc *Document, cfg *types.ChunkConfig) ([]*types.Chunk, error) {
	headers := doc.Analysis.ElementsOfType(types.ElementHeader)
	if len(headers) == 0 {
		return nil, types.NewStrategyError(NameStructural, errors.New("no headers detected"))
	}

	paths := headerPaths(doc.Lines, headers)

	var units []unit
	for i, h := range headers {
		end := doc.LineCount()
		if i+1 < len(headers) {
			end = headers[i+1].StartLine - 1
		}
		u := unit{
			startLine:  h.StartLine,
			endLine:    end,
			kind:       kindSection,
			atomic:     true,
			headerPath: paths[i],
		}
		// An oversized section has no subsections of its own left to recurse
		// into, so it falls back to paragraph boundaries under the same path.
		if u.size(doc) > cfg.MaxChunkSize {
			units = append(units, splitByParagraphs(doc, u)...)
			continue
		}
		units = append(units, u)
	}

	// preamble before the first header
	if first := headers[0].StartLine; first > 1 {
		if doc.isBlankRange(1, first-1) {
			units[0].startLine = 1
		} else {
			units = append([]unit{{startLine: 1, endLine: first - 1, kind: kindProse}}, units...)
		}
	}

	return accumulate(doc, cfg, types.ContentText, units), nil
}
