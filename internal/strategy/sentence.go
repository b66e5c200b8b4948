package strategy

import (
	"errors"
	"strings"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// sentenceStrategy splits on paragraph boundaries, dropping to sentence-final
// line boundaries inside oversized paragraphs. It has no activation predicate
// and never fails, which makes it both the natural choice for low-structure
// prose and the guaranteed-termination fallback for everything else.
type sentenceStrategy struct{}

func (sentenceStrategy) Name() string  { return NameSentences }
func (sentenceStrategy) Priority() int { return 6 }

func (sentenceStrategy) CanHandle(doc *Document, cfg *types.ChunkConfig) bool {
	return true
}

func (sentenceStrategy) Quality(doc *Document, cfg *types.ChunkConfig) float64 {
	a := doc.Analysis
	if a == nil || !a.HasElements() {
		return 1
	}
	return a.TextRatio
}

func (s sentenceStrategy) Apply(doc *Document, cfg *types.ChunkConfig) ([]*types.Chunk, error) {
	whole := unit{startLine: 1, endLine: doc.LineCount(), kind: kindParagraph}
	paragraphs := splitByParagraphs(doc, whole)
	if len(paragraphs) == 1 && doc.isBlankRange(1, doc.LineCount()) {
		return nil, types.NewStrategyError(NameSentences, errors.New("document is empty"))
	}

	var units []unit
	for _, p := range paragraphs {
		if p.size(doc) > cfg.MaxChunkSize {
			units = append(units, splitParagraphSentences(doc, cfg, p)...)
			continue
		}
		units = append(units, p)
	}

	return accumulate(doc, cfg, types.ContentText, units), nil
}

// splitParagraphSentences cuts an oversized paragraph at line boundaries,
// preferring lines that end a sentence so no cut lands mid-thought. A single
// line longer than the limit is left for the accumulator's oversize handling.
func splitParagraphSentences(doc *Document, cfg *types.ChunkConfig, p unit) []unit {
	var out []unit
	start := p.startLine
	lastSentence := 0

	for ln := p.startLine; ln <= p.endLine; ln++ {
		if ln > start && doc.SizeBetween(start, ln) > cfg.MaxChunkSize {
			cut := ln - 1
			if lastSentence >= start && lastSentence < cut && doc.SizeBetween(start, lastSentence) >= cfg.MinChunkSize {
				cut = lastSentence
			}
			out = append(out, pieceOf(p, start, cut))
			start = cut + 1
		}
		if endsSentence(doc.Lines[ln-1]) {
			lastSentence = ln
		}
	}
	if start <= p.endLine {
		out = append(out, pieceOf(p, start, p.endLine))
	}
	return out
}

func endsSentence(line string) bool {
	t := strings.TrimRight(strings.TrimSpace(line), `"')`)
	if t == "" {
		return false
	}
	switch t[len(t)-1] {
	case '.', '!', '?', ':':
		return true
	}
	return false
}
