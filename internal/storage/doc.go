// Package storage provides SQLite-based persistence for chunked documents.
//
// The store keeps two tables: documents (URI, content hash, chunking
// summary) and chunks (content, line range, metadata as JSON). A document's
// chunk set is always replaced atomically, and the per-document content hash
// lets callers skip re-chunking unchanged input.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.mdchunk/chunks.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	doc := &storage.Document{URI: "docs/guide.md", ContentHash: hash}
//	if err := db.UpsertDocument(ctx, doc); err != nil {
//	    return err
//	}
//	if err := db.ReplaceChunks(ctx, doc.ID, result.Chunks); err != nil {
//	    return err
//	}
//
// # Incremental Updates
//
// Check content hashes to detect changes:
//
//	if existing, err := db.GetDocumentByHash(ctx, hash); err == nil {
//	    // Content unchanged, reuse existing.ID's chunk set
//	}
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// CGO Build (sqlite_cgo tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires a C compiler
//
//     CGO_ENABLED=1 go build -tags "sqlite_cgo"
//
// Pure Go Build (default):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build
package storage
