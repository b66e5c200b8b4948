package storage

import (
	"context"
	"time"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// Storage defines the interface for persisting chunked documents
type Storage interface {
	// Document operations
	UpsertDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, uri string) (*Document, error)
	GetDocumentByHash(ctx context.Context, contentHash [32]byte) (*Document, error)
	ListDocuments(ctx context.Context) ([]*Document, error)
	DeleteDocument(ctx context.Context, uri string) error

	// Chunk operations. ReplaceChunks atomically swaps a document's chunk
	// set for the given one.
	ReplaceChunks(ctx context.Context, documentID int64, chunks []*types.Chunk) error
	ListChunks(ctx context.Context, documentID int64) ([]*ChunkRecord, error)

	// Status operations
	GetStatus(ctx context.Context) (*Status, error)

	// Database operations
	Close() error
}

// Document represents one indexed Markdown document
type Document struct {
	ID          int64
	URI         string // caller-supplied identifier, usually a path
	ContentHash [32]byte
	SizeBytes   int64
	Strategy    string // strategy that produced the stored chunk set
	TotalChunks int
	IndexedAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChunkRecord is a persisted chunk plus its storage identity
type ChunkRecord struct {
	ID          int64
	DocumentID  int64
	ChunkIndex  int
	Content     string
	ContentHash [32]byte
	StartLine   int
	EndLine     int
	Metadata    types.ChunkMetadata
	CreatedAt   time.Time
}

// ToChunk converts a stored record back to the engine representation
func (r *ChunkRecord) ToChunk() *types.Chunk {
	return &types.Chunk{
		Content:   r.Content,
		StartLine: r.StartLine,
		EndLine:   r.EndLine,
		Metadata:  r.Metadata,
	}
}

// Status contains statistics about the chunk store
type Status struct {
	DocumentCount int
	ChunkCount    int
	DBSizeBytes   int64
	LastIndexedAt time.Time
}
