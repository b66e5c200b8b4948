package types

// MissingBlock describes a contiguous region of the source document that no
// committed chunk covers. InferredType is a diagnostic guess from simple
// pattern sniffing, not a parse result.
type MissingBlock struct {
	StartLine    int    `json:"start_line"`
	EndLine      int    `json:"end_line"`
	Preview      string `json:"content_preview"`
	InferredType string `json:"inferred_type"`
}

// ValidationResult is the report of the completeness validator. It is produced
// once per chunking run and is read-only; it never causes processing to fail
// unless the caller explicitly requests strict validation.
type ValidationResult struct {
	IsValid       bool           `json:"is_valid"`
	InputChars    int            `json:"input_chars"`
	OutputChars   int            `json:"output_chars"`
	CharCoverage  float64        `json:"char_coverage"`
	MissingBlocks []MissingBlock `json:"missing_blocks,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// AddWarning appends a diagnostic warning without affecting validity
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
