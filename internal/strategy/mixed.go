package strategy

import (
	"errors"
	"sort"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// mixedStrategy handles documents where several element types share the page
// without any one dominating. Atomic-unit detection is delegated per element
// type; a transition between element types is always a legal chunk boundary,
// so no chunk boundary ever lands inside an element.
type mixedStrategy struct{}

func (mixedStrategy) Name() string  { return NameMixed }
func (mixedStrategy) Priority() int { return 2 }

// structuralComplexity estimates how much hierarchy a document carries
func structuralComplexity(a *types.DocumentAnalysis) float64 {
	c := float64(a.HeaderCount)/10 + float64(a.MaxHeaderDepth)/6
	if c > 1 {
		return 1
	}
	return c
}

func (mixedStrategy) CanHandle(doc *Document, cfg *types.ChunkConfig) bool {
	a := doc.Analysis
	if a == nil || !a.HasElements() {
		return false
	}
	// Needs at least one element type it can anchor chunks on; headers alone
	// belong to the structural strategy.
	if a.CodeBlockCount == 0 && a.ListItemCount == 0 && a.TableCount == 0 {
		return false
	}
	dominant := a.CodeRatio >= cfg.CodeMinRatio ||
		a.ListRatio >= cfg.ListMinRatio ||
		a.TableRatio >= cfg.TableMinRatio
	if dominant {
		return false
	}
	return a.CodeRatio >= cfg.MixedMinRatio || structuralComplexity(a) >= cfg.MixedMinRatio
}

func (mixedStrategy) Quality(doc *Document, cfg *types.ChunkConfig) float64 {
	a := doc.Analysis
	if a == nil || !a.HasElements() {
		return 0
	}
	distinct := 0.0
	for _, present := range []bool{a.CodeBlockCount > 0, a.ListItemCount > 0, a.TableCount > 0, a.HeaderCount > 0} {
		if present {
			distinct++
		}
	}
	maxRatio := a.CodeRatio
	for _, r := range []float64{a.ListRatio, a.TableRatio} {
		if r > maxRatio {
			maxRatio = r
		}
	}
	return 0.5*(distinct/4) + 0.5*(1-maxRatio)
}

func (s mixedStrategy) Apply(doc *Document, cfg *types.ChunkConfig) ([]*types.Chunk, error) {
	a := doc.Analysis

	var elems []unit
	for _, e := range a.Elements {
		switch e.Type {
		case types.ElementCodeBlock:
			elems = append(elems, unit{
				startLine: e.StartLine,
				endLine:   e.EndLine,
				kind:      kindCode,
				atomic:    true,
				language:  fenceLanguage(doc.Lines, e.StartLine),
			})
		case types.ElementTable:
			rows := e.LineSpan() - 2
			if rows < 0 {
				rows = 0
			}
			elems = append(elems, unit{
				startLine: e.StartLine,
				endLine:   e.EndLine,
				kind:      kindTable,
				atomic:    true,
				totalRows: rows,
			})
		case types.ElementListItem:
			if e.Level != 1 {
				continue // subtree rides with its top-level item
			}
			elems = append(elems, unit{
				startLine: e.StartLine,
				endLine:   e.EndLine,
				kind:      kindList,
				atomic:    true,
				itemCount: 1,
			})
		}
	}
	if len(elems) == 0 {
		return nil, types.NewStrategyError(NameMixed, errors.New("no atomic elements to anchor on"))
	}

	sort.SliceStable(elems, func(i, j int) bool { return elems[i].startLine < elems[j].startLine })

	// drop elements swallowed by an earlier, wider one (a code block inside a
	// list item, for example)
	var filtered []unit
	prevEnd := 0
	for _, e := range elems {
		if e.endLine <= prevEnd {
			continue
		}
		if e.startLine <= prevEnd {
			e.startLine = prevEnd + 1
		}
		filtered = append(filtered, e)
		prevEnd = e.endLine
	}

	units := coverWithProse(doc, filtered)

	// prose gaps split at paragraph boundaries so size limits never force a
	// cut through an element transition
	var final []unit
	for _, u := range units {
		if u.kind == kindProse {
			final = append(final, splitByParagraphs(doc, u)...)
			continue
		}
		final = append(final, u)
	}

	return accumulate(doc, cfg, types.ContentMixed, final), nil
}
