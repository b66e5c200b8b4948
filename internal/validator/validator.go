// Package validator verifies that a committed chunk sequence reconstructs
// the source document. Validation reports rather than fails: the happy path
// returns a structured result, and only the strict variant turns a bad
// report into an error.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// Options tune the tolerance thresholds of a validation run
type Options struct {
	// CharTolerance absorbs whitespace-normalization drift between input and
	// output character counts
	CharTolerance float64

	// MinCoverage is the lowest acceptable character coverage ratio
	MinCoverage float64

	// GapThreshold is the number of consecutive uncovered lines that
	// promotes a gap to a missing block
	GapThreshold int

	// PreviewLen bounds the content preview of a missing block
	PreviewLen int
}

// DefaultOptions returns the thresholds used when the caller supplies none
func DefaultOptions() Options {
	return Options{
		CharTolerance: 0.05,
		MinCoverage:   0.95,
		GapThreshold:  10,
		PreviewLen:    120,
	}
}

// Validator compares original documents against their chunk sequences
type Validator struct {
	opts Options
}

// New creates a validator with the given options; zero-value fields fall
// back to the defaults.
func New(opts Options) *Validator {
	def := DefaultOptions()
	if opts.CharTolerance <= 0 {
		opts.CharTolerance = def.CharTolerance
	}
	if opts.MinCoverage <= 0 {
		opts.MinCoverage = def.MinCoverage
	}
	if opts.GapThreshold <= 0 {
		opts.GapThreshold = def.GapThreshold
	}
	if opts.PreviewLen <= 0 {
		opts.PreviewLen = def.PreviewLen
	}
	return &Validator{opts: opts}
}

// Validate compares the original text against the chunk sequence. It never
// returns an error: every anomaly lands in the result as a missing block,
// a coverage failure, or a warning.
func (v *Validator) Validate(original string, chunks []*types.Chunk) *types.ValidationResult {
	result := &types.ValidationResult{
		IsValid:    true,
		InputChars: len(original),
	}

	if strings.TrimSpace(original) == "" {
		result.CharCoverage = 1
		if len(chunks) > 0 {
			result.AddWarning(fmt.Sprintf("empty input produced %d chunks", len(chunks)))
			result.IsValid = false
		}
		return result
	}

	for _, c := range chunks {
		n := len(c.Content)
		// table continuation fragments restate the header rows; counting
		// them again would read as duplicated content
		if c.Metadata.PartNumber > 1 {
			n -= restatedHeaderLen(c.Content)
		}
		result.OutputChars += n
	}

	result.CharCoverage = float64(result.OutputChars) / float64(result.InputChars)
	if result.CharCoverage < v.opts.MinCoverage {
		result.IsValid = false
	}
	// overshoot beyond tolerance means duplicated content (overlap inlined
	// into chunk bodies, or a strategy emitting a region twice)
	if result.CharCoverage > 1+v.opts.CharTolerance {
		result.IsValid = false
		result.AddWarning(fmt.Sprintf("output exceeds input by %.1f%%, content is duplicated",
			(result.CharCoverage-1)*100))
	}

	lines := strings.Split(original, "\n")
	v.scanLineGaps(lines, chunks, result)
	v.checkSequencing(chunks, result)

	return result
}

// ValidateStrict runs Validate and converts an invalid report into an error
func (v *Validator) ValidateStrict(original string, chunks []*types.Chunk) (*types.ValidationResult, error) {
	result := v.Validate(original, chunks)
	if !result.IsValid {
		return result, fmt.Errorf("%w: coverage %.3f with %d missing blocks",
			types.ErrDataLoss, result.CharCoverage, len(result.MissingBlocks))
	}
	return result, nil
}

// scanLineGaps walks the covered-line bitmap and promotes long uncovered
// runs to missing blocks. Whitespace-only gaps of any length are ignored.
func (v *Validator) scanLineGaps(lines []string, chunks []*types.Chunk, result *types.ValidationResult) {
	covered := make([]bool, len(lines)+1)
	for _, c := range chunks {
		for ln := c.StartLine; ln <= c.EndLine && ln <= len(lines); ln++ {
			covered[ln] = true
		}
	}

	gapStart := 0
	flush := func(end int) {
		if gapStart == 0 {
			return
		}
		start := gapStart
		gapStart = 0
		if blankRun(lines, start, end) {
			return
		}
		if end-start+1 < v.opts.GapThreshold {
			result.AddWarning(fmt.Sprintf("lines %d-%d not covered by any chunk", start, end))
			return
		}
		result.IsValid = false
		result.MissingBlocks = append(result.MissingBlocks, types.MissingBlock{
			StartLine:    start,
			EndLine:      end,
			Preview:      v.preview(lines, start, end),
			InferredType: sniffBlockType(lines, start, end),
		})
	}

	for ln := 1; ln <= len(lines); ln++ {
		if covered[ln] {
			flush(ln - 1)
			continue
		}
		if gapStart == 0 {
			gapStart = ln
		}
	}
	flush(len(lines))
}

// checkSequencing verifies index/total metadata agreement across the set.
// Failures here are structural bugs, not content loss, so they surface as
// warnings.
func (v *Validator) checkSequencing(chunks []*types.Chunk, result *types.ValidationResult) {
	for i, c := range chunks {
		if c.Metadata.Index != i {
			result.AddWarning(fmt.Sprintf("chunk %d carries index %d", i, c.Metadata.Index))
		}
		if c.Metadata.Total != len(chunks) {
			result.AddWarning(fmt.Sprintf("chunk %d reports total %d of %d", i, c.Metadata.Total, len(chunks)))
		}
	}
}

func (v *Validator) preview(lines []string, start, end int) string {
	text := strings.Join(lines[start-1:end], "\n")
	if len(text) > v.opts.PreviewLen {
		text = text[:v.opts.PreviewLen] + "..."
	}
	return text
}

func blankRun(lines []string, start, end int) bool {
	for ln := start; ln <= end && ln <= len(lines); ln++ {
		if strings.TrimSpace(lines[ln-1]) != "" {
			return false
		}
	}
	return true
}

// restatedHeaderLen measures the duplicated header row, plus the separator
// row when one follows, at the start of a table continuation fragment
func restatedHeaderLen(content string) int {
	i := strings.Index(content, "\n")
	if i < 0 {
		return 0
	}
	n := i + 1
	rest := content[n:]
	j := strings.Index(rest, "\n")
	if j >= 0 && looksLikeSeparator(rest[:j]) {
		n += j + 1
	}
	return n
}

func looksLikeSeparator(line string) bool {
	if !strings.Contains(line, "-") {
		return false
	}
	return strings.IndexFunc(line, func(r rune) bool {
		return !strings.ContainsRune("|-: \t", r)
	}) == -1
}

var listMarkerPattern = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s`)

// sniffBlockType guesses what kind of content a missing block held. The
// guess is diagnostic only.
func sniffBlockType(lines []string, start, end int) string {
	codeLines, tableLines, listLines, total := 0, 0, 0, 0
	for ln := start; ln <= end && ln <= len(lines); ln++ {
		line := lines[ln-1]
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		total++
		switch {
		case strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~"):
			codeLines += 2 // fences weigh more than their line count
		case strings.HasPrefix(t, "|") && strings.Count(t, "|") >= 2:
			tableLines++
		case listMarkerPattern.MatchString(line):
			listLines++
		}
	}
	if total == 0 {
		return "prose"
	}
	switch {
	case codeLines*2 >= total:
		return "code"
	case tableLines*2 >= total:
		return "table"
	case listLines*2 >= total:
		return "list"
	default:
		return "prose"
	}
}
