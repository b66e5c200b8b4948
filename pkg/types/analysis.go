package types

// ElementType identifies the kind of structural element found in a document
type ElementType string

const (
	ElementHeader    ElementType = "header"
	ElementListItem  ElementType = "list_item"
	ElementTable     ElementType = "table"
	ElementCodeBlock ElementType = "code_block"
)

// Element records the position of one structural element in the source document.
// Lines are 1-indexed and inclusive. Level carries the header level for headers
// and the nesting depth (1-based) for list items; it is zero otherwise.
type Element struct {
	Type      ElementType `json:"type"`
	StartLine int         `json:"start_line"`
	EndLine   int         `json:"end_line"`
	Level     int         `json:"level,omitempty"`
}

// LineSpan returns the number of lines the element covers
func (e *Element) LineSpan() int {
	if e.EndLine < e.StartLine {
		return 0
	}
	return e.EndLine - e.StartLine + 1
}

// DocumentAnalysis is the structural profile of a Markdown document.
// It is produced once per document and consumed read-only by the strategy
// selector and every splitting strategy.
type DocumentAnalysis struct {
	TotalLines int `json:"total_lines"`
	TotalChars int `json:"total_chars"`

	// Content ratios, each in [0, 1]
	CodeRatio  float64 `json:"code_ratio"`
	ListRatio  float64 `json:"list_ratio"`
	TableRatio float64 `json:"table_ratio"`
	TextRatio  float64 `json:"text_ratio"`

	// Element counts
	HeaderCount    int `json:"header_count"`
	ListItemCount  int `json:"list_item_count"`
	TableCount     int `json:"table_count"`
	CodeBlockCount int `json:"code_block_count"`

	// MaxHeaderDepth is the deepest header level present (1-6, 0 if none)
	MaxHeaderDepth int `json:"max_header_depth"`

	// Elements in document order
	Elements []Element `json:"elements,omitempty"`
}

// HasElements reports whether the analysis detected any structural elements
func (a *DocumentAnalysis) HasElements() bool {
	return a != nil && len(a.Elements) > 0
}

// ElementsOfType returns the elements of the given type in document order
func (a *DocumentAnalysis) ElementsOfType(t ElementType) []Element {
	var out []Element
	for _, e := range a.Elements {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// TotalElements returns the number of detected elements
func (a *DocumentAnalysis) TotalElements() int {
	return len(a.Elements)
}
