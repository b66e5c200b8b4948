package types

import (
	"crypto/sha256"
	"errors"
	"strings"
)

// ContentType labels the dominant content of a chunk
type ContentType string

const (
	ContentCode  ContentType = "code"
	ContentList  ContentType = "list"
	ContentTable ContentType = "table"
	ContentText  ContentType = "text"
	ContentMixed ContentType = "mixed"
)

// ChunkMetadata carries the well-known per-chunk fields. The engine sets the
// sequencing fields after a strategy result is committed; strategies fill the
// strategy-specific ones. Extra holds forward-compatible extension fields only.
type ChunkMetadata struct {
	Strategy    string      `json:"strategy"`
	ContentType ContentType `json:"content_type"`

	// Sequencing across the committed chunk set
	Index int  `json:"chunk_index"`
	Total int  `json:"total_chunks"`
	First bool `json:"is_first"`
	Last  bool `json:"is_last"`

	// Oversize is set when an atomic element exceeded MaxChunkSize and was
	// emitted whole. EmergencyFallback marks the whole-document rescue chunk.
	Oversize          bool `json:"oversize,omitempty"`
	EmergencyFallback bool `json:"emergency_fallback,omitempty"`

	// Structural context
	HeaderPath    string `json:"header_path,omitempty"`
	ParentContext string `json:"parent_context,omitempty"`

	// Code chunks
	Language    string   `json:"language,omitempty"`
	CodeSymbols []string `json:"code_symbols,omitempty"`

	// List chunks
	ItemCount      int  `json:"item_count,omitempty"`
	MaxNesting     int  `json:"max_nesting,omitempty"`
	HasNestedLists bool `json:"has_nested_lists,omitempty"`

	// Table chunks split row-wise
	TotalRows  int `json:"total_rows,omitempty"`
	PartNumber int `json:"part_number,omitempty"`
	TotalParts int `json:"total_parts,omitempty"`

	// Overlap context windows, drawn verbatim from neighboring chunks.
	// Never merged into Content.
	OverlapPrefix string `json:"overlap_prefix,omitempty"`
	OverlapSuffix string `json:"overlap_suffix,omitempty"`

	Extra map[string]string `json:"extra,omitempty"`
}

// Chunk is one contiguous, non-empty slice of the source document.
// Content corresponds exactly to lines [StartLine, EndLine] of the source,
// except for table fragments which duplicate the header and separator rows.
type Chunk struct {
	Content   string        `json:"content"`
	StartLine int           `json:"start_line"`
	EndLine   int           `json:"end_line"`
	Metadata  ChunkMetadata `json:"metadata"`
}

// Size returns the content length in bytes
func (c *Chunk) Size() int {
	return len(c.Content)
}

// ContentHash computes the SHA-256 hash of the chunk content.
// Enables skip-on-unchanged behavior when chunks are persisted.
func (c *Chunk) ContentHash() [32]byte {
	return sha256.Sum256([]byte(c.Content))
}

// Validate performs basic integrity checks on the chunk
func (c *Chunk) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return errors.New("chunk content cannot be empty or whitespace-only")
	}
	if c.StartLine <= 0 || c.EndLine <= 0 {
		return errors.New("line numbers must be positive")
	}
	if c.StartLine > c.EndLine {
		return errors.New("start line must be before or equal to end line")
	}
	return nil
}
