package strategy

import (
	"errors"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// listStrategy groups whole list items — including nested descendants — into
// chunks, splitting oversized lists only between top-level items. Ancestor
// headers are re-injected as parent context on continuation chunks.
type listStrategy struct{}

func (listStrategy) Name() string  { return NameList }
func (listStrategy) Priority() int { return 3 }

func (listStrategy) CanHandle(doc *Document, cfg *types.ChunkConfig) bool {
	a := doc.Analysis
	if a == nil || a.ListItemCount == 0 {
		return false
	}
	return a.ListItemCount >= cfg.ListMinItems || a.ListRatio >= cfg.ListMinRatio
}

func (listStrategy) Quality(doc *Document, cfg *types.ChunkConfig) float64 {
	a := doc.Analysis
	if a == nil || a.TotalElements() == 0 {
		return 0
	}
	density := float64(a.ListItemCount) / float64(a.TotalElements())
	return 0.5*density + 0.5*a.ListRatio
}

// listNode is one arena entry of the parent/children item tree. Children are
// indices into the arena, not pointers, so the tree has no cycles to manage.
type listNode struct {
	elem     types.Element
	parent   int
	children []int
}

// buildListTree links items into a forest using marker nesting depth plus
// line-range containment. Mixed ordered/unordered/task markers are irrelevant
// here: items keep their own text verbatim.
func buildListTree(items []types.Element) []listNode {
	nodes := make([]listNode, len(items))
	var stack []int
	for i, it := range items {
		nodes[i] = listNode{elem: it, parent: -1}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if nodes[top].elem.Level >= it.Level || nodes[top].elem.EndLine < it.StartLine {
				stack = stack[:len(stack)-1]
				continue
			}
			break
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			nodes[i].parent = parent
			nodes[parent].children = append(nodes[parent].children, i)
		}
		stack = append(stack, i)
	}
	return nodes
}

func (s listStrategy) Apply(doc *Document, cfg *types.ChunkConfig) ([]*types.Chunk, error) {
	items := doc.Analysis.ElementsOfType(types.ElementListItem)
	if len(items) == 0 {
		return nil, types.NewStrategyError(NameList, errors.New("no list items detected"))
	}

	nodes := buildListTree(items)
	headers := doc.Analysis.ElementsOfType(types.ElementHeader)

	var units []unit
	for i := range nodes {
		if nodes[i].parent != -1 {
			continue
		}
		top := nodes[i].elem
		u := unit{
			startLine: top.StartLine,
			endLine:   top.EndLine,
			kind:      kindList,
			atomic:    true,
		}
		// per-item statistics include the whole subtree
		for _, it := range items {
			if it.StartLine >= top.StartLine && it.EndLine <= top.EndLine {
				u.itemCount++
				if it.Level > u.maxNesting {
					u.maxNesting = it.Level
				}
			}
		}
		u.hasNested = u.maxNesting > 1

		// nearest header above the item becomes ancestor context for
		// continuation chunks that no longer contain it
		for _, h := range headers {
			if h.StartLine < top.StartLine {
				u.parentContext = headerTextAt(doc.Lines, h.StartLine)
				u.parentContextLine = h.StartLine
			}
		}
		units = append(units, u)
	}

	units = coverWithProse(doc, units)
	return accumulate(doc, cfg, types.ContentList, units), nil
}
