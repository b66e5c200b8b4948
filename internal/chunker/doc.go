// Package chunker orchestrates content-aware Markdown chunking.
//
// One call runs the full pipeline: structural analysis, strategy selection,
// splitting, overlap annotation, and completeness validation. Results for
// small documents are cached by content and configuration fingerprint; very
// large documents are partitioned at blank-line boundaries and processed
// concurrently in streaming mode.
//
// Usage:
//
//	c, err := chunker.New(chunker.Options{Logger: logger})
//	if err != nil {
//		return err
//	}
//	result, err := c.ChunkDocument(ctx, markdown, nil)
//	if err != nil {
//		return err
//	}
//	for _, chunk := range result.Chunks {
//		// chunk.Content, chunk.StartLine, chunk.Metadata...
//	}
//
// A Chunker is safe for concurrent use. Whole-document processing runs to
// completion; only streaming mode observes context cancellation, between
// parts.
package chunker
