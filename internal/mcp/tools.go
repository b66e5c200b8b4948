package mcp

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/mdchunk-mcp/internal/storage"
	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// Error codes following JSON-RPC 2.0 specification
const (
	ErrorCodeInvalidParams = -32602
	ErrorCodeInternalError = -32603

	// Application-specific error codes
	ErrorCodeDocumentNotFound = -32001
	ErrorCodeInvalidConfig    = -32002
	ErrorCodeStorageFailure   = -32003
	ErrorCodeEmptyContent     = -32004
)

// handleChunkMarkdown handles the chunk_markdown tool invocation
func (s *Server) handleChunkMarkdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	content, ok := args["content"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "content parameter is required", map[string]interface{}{
			"param":  "content",
			"reason": "missing or not a string",
		})
	}

	cfg, err := s.configFromArgs(args)
	if err != nil {
		return nil, err
	}

	result, err := s.chunker.ChunkDocument(ctx, content, cfg)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "chunking failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"strategy":    result.Strategy,
		"chunk_count": len(result.Chunks),
		"chunks":      result.Chunks,
		"validation":  result.Validation,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleIndexDocument handles the index_document tool invocation
func (s *Server) handleIndexDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	uri, ok := args["uri"].(string)
	if !ok || uri == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "uri parameter is required", map[string]interface{}{
			"param":  "uri",
			"reason": "missing or empty",
		})
	}

	content, ok := args["content"].(string)
	if !ok || content == "" {
		return nil, newMCPError(ErrorCodeEmptyContent, "content parameter is required", map[string]interface{}{
			"param":  "content",
			"reason": "missing or empty",
		})
	}

	force := getBoolDefault(args, "force", false)

	cfg, err := s.configFromArgs(args)
	if err != nil {
		return nil, err
	}

	contentHash := sha256.Sum256([]byte(content))

	// Skip re-chunking when the stored content is identical
	if !force {
		existing, err := s.storage.GetDocument(ctx, uri)
		if err == nil && existing.ContentHash == contentHash {
			response := map[string]interface{}{
				"uri":          uri,
				"indexed":      false,
				"skipped":      true,
				"reason":       "content unchanged",
				"strategy":     existing.Strategy,
				"total_chunks": existing.TotalChunks,
			}
			return mcp.NewToolResultText(formatJSON(response)), nil
		}
		if err != nil && err != storage.ErrNotFound {
			return nil, newMCPError(ErrorCodeStorageFailure, "failed to look up document", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	result, err := s.chunker.ChunkDocument(ctx, content, cfg)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "chunking failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	doc := &storage.Document{
		URI:         uri,
		ContentHash: contentHash,
		SizeBytes:   int64(len(content)),
		Strategy:    result.Strategy,
		TotalChunks: len(result.Chunks),
		IndexedAt:   time.Now().UTC(),
	}
	if err := s.storage.UpsertDocument(ctx, doc); err != nil {
		return nil, newMCPError(ErrorCodeStorageFailure, "failed to store document", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := s.storage.ReplaceChunks(ctx, doc.ID, result.Chunks); err != nil {
		return nil, newMCPError(ErrorCodeStorageFailure, "failed to store chunks", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"uri":          uri,
		"indexed":      true,
		"skipped":      false,
		"strategy":     result.Strategy,
		"total_chunks": len(result.Chunks),
		"validation":   result.Validation,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetDocumentChunks handles the get_document_chunks tool invocation
func (s *Server) handleGetDocumentChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	uri, ok := args["uri"].(string)
	if !ok || uri == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "uri parameter is required", map[string]interface{}{
			"param":  "uri",
			"reason": "missing or empty",
		})
	}

	doc, err := s.storage.GetDocument(ctx, uri)
	if err == storage.ErrNotFound {
		return nil, newMCPError(ErrorCodeDocumentNotFound, "document not indexed", map[string]interface{}{
			"uri": uri,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeStorageFailure, "failed to look up document", map[string]interface{}{
			"error": err.Error(),
		})
	}

	records, err := s.storage.ListChunks(ctx, doc.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeStorageFailure, "failed to load chunks", map[string]interface{}{
			"error": err.Error(),
		})
	}

	chunks := make([]*types.Chunk, 0, len(records))
	for _, rec := range records {
		chunks = append(chunks, rec.ToChunk())
	}

	response := map[string]interface{}{
		"uri":          doc.URI,
		"strategy":     doc.Strategy,
		"indexed_at":   doc.IndexedAt.Format(time.RFC3339),
		"total_chunks": len(chunks),
		"chunks":       chunks,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.storage.GetStatus(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeStorageFailure, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"server_version": ServerVersion,
		"storage_driver": storage.DriverName,
		"build_mode":     storage.BuildMode,
		"statistics": map[string]interface{}{
			"document_count": status.DocumentCount,
			"chunk_count":    status.ChunkCount,
			"db_size_mb":     fmt.Sprintf("%.2f", float64(status.DBSizeBytes)/(1024*1024)),
		},
	}
	if !status.LastIndexedAt.IsZero() {
		response["last_indexed_at"] = status.LastIndexedAt.Format(time.RFC3339)
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// configFromArgs builds a chunking configuration from the server defaults
// overlaid with any tunables supplied in the tool arguments
func (s *Server) configFromArgs(args map[string]interface{}) (*types.ChunkConfig, error) {
	base := s.defaults
	if base == nil {
		base = types.DefaultChunkConfig()
	}
	cfg := *base

	cfg.MaxChunkSize = getIntDefault(args, "max_chunk_size", cfg.MaxChunkSize)
	cfg.MinChunkSize = getIntDefault(args, "min_chunk_size", cfg.MinChunkSize)
	cfg.EnableOverlap = getBoolDefault(args, "enable_overlap", cfg.EnableOverlap)
	cfg.OverlapSize = getIntDefault(args, "overlap_size", cfg.OverlapSize)
	cfg.PreferredStrategy = getStringDefault(args, "preferred_strategy", cfg.PreferredStrategy)
	cfg.StrictSelection = getBoolDefault(args, "strict_selection", cfg.StrictSelection)
	cfg.AllowOversize = getBoolDefault(args, "allow_oversize", cfg.AllowOversize)

	if err := cfg.Validate(); err != nil {
		return nil, newMCPError(ErrorCodeInvalidConfig, "invalid chunking configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return &cfg, nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
