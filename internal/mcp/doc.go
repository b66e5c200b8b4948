// Package mcp implements the Model Context Protocol server for the
// Markdown chunking engine.
//
// The server exposes four tools over stdio:
//
//   - chunk_markdown: run the chunking pipeline on a document and return
//     the chunks, the winning strategy, and a completeness report without
//     persisting anything.
//
//   - index_document: chunk a document and store the result under a
//     caller-supplied URI. Re-indexing an unchanged document is a no-op
//     unless force is set; change detection compares SHA-256 content
//     hashes.
//
//   - get_document_chunks: return the stored chunk set for an indexed
//     document.
//
//   - get_status: report document and chunk counts plus database size.
//
// Tool arguments that tune the pipeline (max_chunk_size, overlap_size,
// strict_selection, and so on) are overlaid on the server's configured
// defaults per call; omitted arguments keep the defaults.
//
// Errors follow JSON-RPC 2.0 conventions. Invalid arguments map to
// -32602, internal failures to -32603, and application conditions such
// as "document not indexed" use codes in the -32001..-32004 range with
// structured data attached.
//
// # Usage
//
//	cfg := config.Default()
//	srv, err := mcp.NewServer(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Serve(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Serve blocks until the client closes stdin. The storage handle is
// closed on return.
package mcp
