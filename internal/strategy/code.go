package strategy

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// codeStrategy treats each fenced code block as atomic and groups the prose
// around a block into the same unit, so explanation text travels with the
// code it describes.
type codeStrategy struct{}

func (codeStrategy) Name() string  { return NameCode }
func (codeStrategy) Priority() int { return 1 }

func (codeStrategy) CanHandle(doc *Document, cfg *types.ChunkConfig) bool {
	a := doc.Analysis
	if a == nil || a.CodeBlockCount == 0 {
		return false
	}
	// A document that is almost nothing but code activates the strategy even
	// below the block-count threshold; sentence splitting would shred it.
	return a.CodeRatio >= cfg.CodeMinRatio && (a.CodeBlockCount >= cfg.CodeMinBlocks || a.CodeRatio >= 0.9)
}

func (codeStrategy) Quality(doc *Document, cfg *types.ChunkConfig) float64 {
	a := doc.Analysis
	if a == nil || a.TotalElements() == 0 {
		return 0
	}
	density := float64(a.CodeBlockCount) / float64(a.TotalElements())
	return 0.5*density + 0.5*a.CodeRatio
}

func (s codeStrategy) Apply(doc *Document, cfg *types.ChunkConfig) ([]*types.Chunk, error) {
	blocks := doc.Analysis.ElementsOfType(types.ElementCodeBlock)
	if len(blocks) == 0 {
		return nil, types.NewStrategyError(NameCode, errors.New("no code blocks detected"))
	}

	var units []unit
	prevEnd := 0
	for _, b := range blocks {
		if b.EndLine <= prevEnd {
			continue
		}
		blockStart := b.StartLine
		if blockStart <= prevEnd {
			blockStart = prevEnd + 1
		}
		proseStart := prevEnd + 1

		lang := fenceLanguage(doc.Lines, b.StartLine)
		u := unit{
			startLine: proseStart,
			endLine:   b.EndLine,
			kind:      kindCode,
			atomic:    true,
			language:  lang,
			symbols:   codeSymbols(doc.Lines[blockStart-1:b.EndLine], lang),
		}

		// When prose plus block would overflow on its own, emit the prose
		// separately so only the block itself risks the oversize flag.
		if u.size(doc) > cfg.MaxChunkSize && proseStart < blockStart {
			if !doc.isBlankRange(proseStart, blockStart-1) {
				units = append(units, unit{startLine: proseStart, endLine: blockStart - 1, kind: kindProse})
			}
			u.startLine = blockStart
		}
		units = append(units, u)
		prevEnd = b.EndLine
	}

	// Trailing prose rides with the final block
	if prevEnd < doc.LineCount() {
		units[len(units)-1].endLine = doc.LineCount()
	}

	return accumulate(doc, cfg, types.ContentCode, units), nil
}

var fencePattern = regexp.MustCompile("^\\s*(?:`{3,}|~{3,})\\s*([A-Za-z0-9+_.-]+)?")

// fenceLanguage extracts the info-string language from an opening fence line
func fenceLanguage(lines []string, fenceLine int) string {
	if fenceLine < 1 || fenceLine > len(lines) {
		return ""
	}
	m := fencePattern.FindStringSubmatch(lines[fenceLine-1])
	if len(m) < 2 {
		return ""
	}
	return strings.ToLower(m[1])
}

// symbolPatterns are best-effort declaration matchers per language, used only
// to enrich chunk metadata. Missing a symbol is harmless.
var symbolPatterns = map[string][]*regexp.Regexp{
	"go": {
		regexp.MustCompile(`^func\s+(?:\([^)]*\)\s+)?(\w+)`),
		regexp.MustCompile(`^type\s+(\w+)`),
	},
	"python": {
		regexp.MustCompile(`^\s*def\s+(\w+)`),
		regexp.MustCompile(`^\s*class\s+(\w+)`),
	},
	"rust": {
		regexp.MustCompile(`^\s*(?:pub\s+)?fn\s+(\w+)`),
		regexp.MustCompile(`^\s*(?:pub\s+)?struct\s+(\w+)`),
	},
}

var genericSymbolPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*(?:export\s+)?function\s+(\w+)`),
	regexp.MustCompile(`^\s*(?:export\s+)?class\s+(\w+)`),
	regexp.MustCompile(`^\s*(?:public|private|protected)?\s*(?:static\s+)?[\w<>\[\]]+\s+(\w+)\s*\(`),
}

const maxSymbolsPerChunk = 8

// codeSymbols scans code block lines for declared function/class names
func codeSymbols(lines []string, language string) []string {
	patterns, ok := symbolPatterns[language]
	if !ok {
		switch language {
		case "py":
			patterns = symbolPatterns["python"]
		case "js", "ts", "javascript", "typescript", "java":
			patterns = genericSymbolPatterns
		default:
			patterns = genericSymbolPatterns
		}
	}

	var symbols []string
	seen := make(map[string]bool)
	for _, line := range lines {
		for _, p := range patterns {
			m := p.FindStringSubmatch(line)
			if len(m) < 2 || m[1] == "" || seen[m[1]] {
				continue
			}
			seen[m[1]] = true
			symbols = append(symbols, m[1])
			if len(symbols) >= maxSymbolsPerChunk {
				return symbols
			}
		}
	}
	return symbols
}
