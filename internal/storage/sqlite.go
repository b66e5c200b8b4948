package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// UpsertDocument inserts or updates a document record keyed by URI. The
// record's ID is populated on return.
func (s *SQLiteStorage) UpsertDocument(ctx context.Context, doc *Document) error {
	now := time.Now()
	query := `
		INSERT INTO documents (uri, content_hash, size_bytes, strategy, total_chunks, indexed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uri) DO UPDATE SET
			content_hash = excluded.content_hash,
			size_bytes = excluded.size_bytes,
			strategy = excluded.strategy,
			total_chunks = excluded.total_chunks,
			indexed_at = excluded.indexed_at,
			updated_at = excluded.updated_at
	`
	if doc.IndexedAt.IsZero() {
		doc.IndexedAt = now
	}
	_, err := s.db.ExecContext(ctx, query,
		doc.URI, doc.ContentHash[:], doc.SizeBytes, doc.Strategy, doc.TotalChunks,
		doc.IndexedAt, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	// the conflict path keeps the original row id, so read it back
	err = s.db.QueryRowContext(ctx, "SELECT id, created_at FROM documents WHERE uri = ?", doc.URI).
		Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to read back document id: %w", err)
	}
	doc.UpdatedAt = now
	return nil
}

const documentColumns = "id, uri, content_hash, size_bytes, strategy, total_chunks, indexed_at, created_at, updated_at"

// GetDocument retrieves a document by URI
func (s *SQLiteStorage) GetDocument(ctx context.Context, uri string) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE uri = ?", uri)
	return scanDocument(row)
}

// GetDocumentByHash retrieves a document by content hash. Used to skip
// re-indexing unchanged content.
func (s *SQLiteStorage) GetDocumentByHash(ctx context.Context, contentHash [32]byte) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE content_hash = ? LIMIT 1", contentHash[:])
	return scanDocument(row)
}

// ListDocuments returns all indexed documents ordered by URI
func (s *SQLiteStorage) ListDocuments(ctx context.Context) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents ORDER BY uri")
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document and, via cascade, its chunks
func (s *SQLiteStorage) DeleteDocument(ctx context.Context, uri string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE uri = ?", uri)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceChunks atomically replaces the stored chunk set of a document
func (s *SQLiteStorage) ReplaceChunks(ctx context.Context, documentID int64, chunks []*types.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}

	insert := `
		INSERT INTO chunks (document_id, chunk_index, content, content_hash, start_line, end_line, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for i, chunk := range chunks {
		metadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk %d metadata: %w", i, err)
		}
		hash := chunk.ContentHash()
		if _, err := tx.ExecContext(ctx, insert,
			documentID, i, chunk.Content, hash[:], chunk.StartLine, chunk.EndLine, string(metadata)); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE documents SET total_chunks = ?, updated_at = ? WHERE id = ?",
		len(chunks), time.Now(), documentID); err != nil {
		return fmt.Errorf("failed to update chunk count: %w", err)
	}

	return tx.Commit()
}

// ListChunks returns a document's chunks in index order
func (s *SQLiteStorage) ListChunks(ctx context.Context, documentID int64) ([]*ChunkRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, chunk_index, content, content_hash, start_line, end_line, metadata, created_at
		FROM chunks WHERE document_id = ? ORDER BY chunk_index
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*ChunkRecord
	for rows.Next() {
		var r ChunkRecord
		var hash []byte
		var metadata string
		if err := rows.Scan(&r.ID, &r.DocumentID, &r.ChunkIndex, &r.Content, &hash,
			&r.StartLine, &r.EndLine, &metadata, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		copy(r.ContentHash[:], hash)
		if err := json.Unmarshal([]byte(metadata), &r.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chunk %d metadata: %w", r.ChunkIndex, err)
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

// GetStatus returns store-wide statistics
func (s *SQLiteStorage) GetStatus(ctx context.Context) (*Status, error) {
	status := &Status{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&status.DocumentCount); err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&status.ChunkCount); err != nil {
		return nil, fmt.Errorf("failed to count chunks: %w", err)
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			status.DBSizeBytes = pageCount * pageSize
		}
	}

	var last sql.NullTime
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(indexed_at) FROM documents").Scan(&last); err == nil && last.Valid {
		status.LastIndexedAt = last.Time
	}

	return status, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*Document, error) {
	var doc Document
	var hash []byte
	var indexedAt sql.NullTime
	err := row.Scan(&doc.ID, &doc.URI, &hash, &doc.SizeBytes, &doc.Strategy,
		&doc.TotalChunks, &indexedAt, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	copy(doc.ContentHash[:], hash)
	if indexedAt.Valid {
		doc.IndexedAt = indexedAt.Time
	}
	return &doc, nil
}
