package analyzer

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// Analyzer produces a DocumentAnalysis from raw Markdown text
type Analyzer struct {
	md goldmark.Markdown
}

// New creates a new Analyzer with GFM table support
func New() *Analyzer {
	return &Analyzer{
		md: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// Analyze builds the structural profile of a Markdown document. It never
// fails: empty or unparseable input yields an analysis with zero elements,
// which downstream code treats as a signal to fall back to sentence splitting.
func (a *Analyzer) Analyze(document string) *types.DocumentAnalysis {
	rawLines := strings.Split(document, "\n")
	analysis := &types.DocumentAnalysis{
		TotalLines: len(rawLines),
		TotalChars: len(document),
		TextRatio:  1,
	}
	if strings.TrimSpace(document) == "" {
		analysis.TotalLines = 0
		analysis.TextRatio = 0
		return analysis
	}

	source := []byte(document)
	idx := newLineIndex(source, len(rawLines))
	root := a.md.Parser().Parse(gtext.NewReader(source))

	var elements []types.Element
	listDepth := 0

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.List:
			if entering {
				listDepth++
			} else {
				listDepth--
			}

		case *ast.ListItem:
			if !entering {
				break
			}
			if start, end, ok := nodeLineRange(node, idx); ok {
				elements = append(elements, types.Element{
					Type:      types.ElementListItem,
					StartLine: start,
					EndLine:   end,
					Level:     listDepth,
				})
			}

		case *ast.Heading:
			if !entering || node.Lines().Len() == 0 {
				break
			}
			line := idx.lineOf(node.Lines().At(0).Start)
			elements = append(elements, types.Element{
				Type:      types.ElementHeader,
				StartLine: line,
				EndLine:   line,
				Level:     node.Level,
			})

		case *ast.FencedCodeBlock:
			if !entering {
				break
			}
			if start, end, ok := fencedRange(node, idx, rawLines); ok {
				elements = append(elements, types.Element{
					Type:      types.ElementCodeBlock,
					StartLine: start,
					EndLine:   end,
				})
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			if !entering {
				break
			}
			if start, end, ok := nodeLineRange(node, idx); ok {
				elements = append(elements, types.Element{
					Type:      types.ElementCodeBlock,
					StartLine: start,
					EndLine:   end,
				})
			}
			return ast.WalkSkipChildren, nil

		case *east.Table:
			if !entering {
				break
			}
			if start, end, ok := nodeLineRange(node, idx); ok {
				elements = append(elements, types.Element{
					Type:      types.ElementTable,
					StartLine: start,
					EndLine:   end,
				})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].StartLine < elements[j].StartLine
	})
	analysis.Elements = elements

	a.computeRatios(analysis)
	return analysis
}

// computeRatios fills element counts and content ratios from the element list
func (a *Analyzer) computeRatios(analysis *types.DocumentAnalysis) {
	var codeLines, listLines, tableLines int
	for _, e := range analysis.Elements {
		switch e.Type {
		case types.ElementHeader:
			analysis.HeaderCount++
			if e.Level > analysis.MaxHeaderDepth {
				analysis.MaxHeaderDepth = e.Level
			}
		case types.ElementCodeBlock:
			analysis.CodeBlockCount++
			codeLines += e.LineSpan()
		case types.ElementListItem:
			analysis.ListItemCount++
			// Top-level items already span their nested descendants
			if e.Level == 1 {
				listLines += e.LineSpan()
			}
		case types.ElementTable:
			analysis.TableCount++
			tableLines += e.LineSpan()
		}
	}

	if analysis.TotalLines == 0 {
		return
	}
	total := float64(analysis.TotalLines)
	analysis.CodeRatio = clampRatio(float64(codeLines) / total)
	analysis.ListRatio = clampRatio(float64(listLines) / total)
	analysis.TableRatio = clampRatio(float64(tableLines) / total)
	analysis.TextRatio = clampRatio(1 - analysis.CodeRatio - analysis.ListRatio - analysis.TableRatio)
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// nodeLineRange computes the inclusive 1-indexed line range a block node
// covers, including all of its descendants. Used for list items (whose range
// must span nested children) and tables (whose separator row has no node of
// its own but falls between the header and body rows).
func nodeLineRange(n ast.Node, idx *lineIndex) (int, int, bool) {
	minOff, maxOff := -1, -1
	update := func(start, stop int) {
		if minOff < 0 || start < minOff {
			minOff = start
		}
		if stop > maxOff {
			maxOff = stop
		}
	}

	var visit func(node ast.Node)
	visit = func(node ast.Node) {
		if t, ok := node.(*ast.Text); ok {
			if t.Segment.Len() > 0 {
				update(t.Segment.Start, t.Segment.Stop)
			}
		} else if node.Type() == ast.TypeBlock {
			if lines := node.Lines(); lines != nil && lines.Len() > 0 {
				update(lines.At(0).Start, lines.At(lines.Len()-1).Stop)
			}
		}
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			visit(c)
		}
	}
	visit(n)

	if minOff < 0 {
		return 0, 0, false
	}
	return idx.lineOf(minOff), idx.lineOf(maxOff - 1), true
}

// fencedRange computes the line range of a fenced code block including the
// fence lines themselves. goldmark's Lines() covers only the interior, so the
// fences are recovered from the surrounding lines; unclosed fences degrade to
// a best-effort boundary rather than failing.
func fencedRange(node *ast.FencedCodeBlock, idx *lineIndex, rawLines []string) (int, int, bool) {
	lines := node.Lines()

	var start, end int
	switch {
	case lines.Len() > 0:
		start = idx.lineOf(lines.At(0).Start) - 1
		end = idx.lineOf(lines.At(lines.Len()-1).Stop-1) + 1
	case node.Info != nil && node.Info.Segment.Len() > 0:
		start = idx.lineOf(node.Info.Segment.Start)
		end = start + 1
	default:
		return 0, 0, false
	}

	if start < 1 {
		start = 1
	}
	if end > len(rawLines) {
		end = len(rawLines)
	} else if !isFenceLine(rawLines[end-1]) {
		end--
	}
	if end < start {
		end = start
	}
	return start, end, true
}

func isFenceLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// lineIndex maps byte offsets to 1-indexed line numbers
type lineIndex struct {
	starts    []int
	lineCount int
}

func newLineIndex(source []byte, lineCount int) *lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts, lineCount: lineCount}
}

func (li *lineIndex) lineOf(offset int) int {
	if offset < 0 {
		return 1
	}
	// starts[i-1] <= offset < starts[i] means offset is on line i
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset })
	if i > li.lineCount {
		return li.lineCount
	}
	return i
}
