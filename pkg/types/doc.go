// Package types provides shared type definitions for the mdchunk MCP server.
//
// This package defines the domain types used across the chunking engine:
// document analyses, chunk configuration, chunks with their metadata, and
// validation reports.
//
// # Core Types
//
// DocumentAnalysis is the structural profile of a Markdown document produced
// by the analyzer and consumed read-only by every splitting strategy:
//
//	analysis := analyzer.New().Analyze(markdown)
//	if analysis.CodeRatio > 0.7 {
//	    // code-heavy document
//	}
//
// Chunk represents one contiguous slice of the source document, with
// 1-indexed inclusive line numbers referencing the original text:
//
//	chunk := &types.Chunk{
//	    Content:   section,
//	    StartLine: 10,
//	    EndLine:   24,
//	}
//
// ChunkConfig controls sizing, overlap, and strategy activation. It must pass
// Validate before any processing begins:
//
//	cfg := types.DefaultChunkConfig()
//	cfg.MaxChunkSize = 1500
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Metadata
//
// ChunkMetadata is a fixed struct of well-known optional fields rather than an
// open key-value bag. Strategy-specific fields (header path, list statistics,
// table part numbers) are only populated by the strategy that produces them.
// The Extra map exists solely for forward-compatible extension fields.
//
// # Error Taxonomy
//
// Content irregularities are always recovered internally; typed errors are
// reserved for caller mistakes and internal defects:
//
//	ErrInvalidConfig   // fail fast, before processing
//	ErrDataLoss        // strict validation mode only
//	ErrInvalidMetadata // internal consistency defect
//	StrategyError      // recovered by the selector, never surfaced
package types
