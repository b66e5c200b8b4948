package chunker

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/mdchunk-mcp/internal/analyzer"
	"github.com/dshills/mdchunk-mcp/internal/overlap"
	"github.com/dshills/mdchunk-mcp/internal/strategy"
	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// part is one streaming partition, tracking where it sits in the original
// document so chunk line numbers can be rebased after processing.
type part struct {
	startLine int // 1-indexed line of the original document
	text      string
}

// chunkStreaming partitions a very large document at blank-line boundaries
// and runs the pipeline on each part concurrently. Atomicity guarantees only
// hold within a part: an element spanning a partition boundary may be split.
func (c *Chunker) chunkStreaming(ctx context.Context, document string, cfg *types.ChunkConfig) (*Result, error) {
	parts := partition(document, c.opts.StreamingPartBytes)
	c.logger.Debug("streaming mode", "parts", len(parts), "input_chars", len(document))

	chunksByPart := make([][]*types.Chunk, len(parts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i := range parts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := parts[i]
			// each worker gets its own parser; per-part state never crosses
			// goroutines
			analysis := analyzer.New().Analyze(p.text)
			doc := strategy.NewDocument(p.text, analysis)

			_, chunks := c.selector.Select(doc, cfg)
			for _, chunk := range chunks {
				chunk.StartLine += p.startLine - 1
				chunk.EndLine += p.startLine - 1
			}
			chunksByPart[i] = chunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("streaming pipeline failed: %w", err)
	}

	var all []*types.Chunk
	for _, chunks := range chunksByPart {
		all = append(all, chunks...)
	}
	restamp(all)

	overlap.Apply(all, cfg)
	validation := c.validator.Validate(document, all)
	if !validation.IsValid {
		c.logger.Warn("streaming result failed validation",
			"coverage", validation.CharCoverage,
			"missing_blocks", len(validation.MissingBlocks))
	}

	return &Result{Chunks: all, Strategy: StrategyStreaming, Validation: validation}, nil
}

// partition splits a document into parts of roughly target bytes, cutting
// only at blank lines so no paragraph, and rarely any element, straddles a
// boundary.
func partition(document string, target int) []part {
	lines := strings.Split(document, "\n")

	var parts []part
	start := 0 // 0-indexed first line of the current part
	size := 0
	for i, line := range lines {
		size += len(line) + 1
		if size >= target && strings.TrimSpace(line) == "" && i+1 < len(lines) {
			parts = append(parts, part{
				startLine: start + 1,
				text:      strings.Join(lines[start:i+1], "\n"),
			})
			start = i + 1
			size = 0
		}
	}
	if start < len(lines) {
		parts = append(parts, part{
			startLine: start + 1,
			text:      strings.Join(lines[start:], "\n"),
		})
	}
	return parts
}

// restamp rewrites sequencing metadata after per-part chunk lists are
// concatenated into one document-wide sequence
func restamp(chunks []*types.Chunk) {
	for i, c := range chunks {
		c.Metadata.Index = i
		c.Metadata.Total = len(chunks)
		c.Metadata.First = i == 0
		c.Metadata.Last = i == len(chunks)-1
	}
}
