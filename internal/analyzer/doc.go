// Package analyzer builds a structural profile of a Markdown document.
//
// The analyzer walks a goldmark AST (with the GFM table extension enabled)
// and records the position of every header, list item, table, and code block
// as 1-indexed inclusive line ranges, plus aggregate content ratios. The
// resulting DocumentAnalysis drives strategy selection and splitting; it is
// produced once per document and never mutated afterwards.
//
// # Basic Usage
//
//	a := analyzer.New()
//	analysis := a.Analyze(markdown)
//
//	fmt.Printf("%d headers, %d code blocks, code ratio %.2f\n",
//	    analysis.HeaderCount, analysis.CodeBlockCount, analysis.CodeRatio)
//
// # Degradation
//
// Analyze never returns an error. Empty or whitespace-only input produces an
// analysis with zero elements; malformed Markdown (unclosed fences, ragged
// tables) produces best-effort boundaries. Callers treat an element-free
// analysis as the signal to fall back to sentence-based splitting.
package analyzer
