package mcp

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mdchunk-mcp/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.DBPath = t.TempDir()
	srv, err := NewServer(cfg, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.storage.Close() })
	return srv
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &parsed))
	return parsed
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t)

	assert.NotNil(t, srv.mcp)
	assert.NotNil(t, srv.storage)
	assert.NotNil(t, srv.chunker)
	assert.NotNil(t, srv.defaults)
}

func TestToolSchemas(t *testing.T) {
	chunk := chunkMarkdownTool()
	assert.Equal(t, "chunk_markdown", chunk.Name)
	assert.Equal(t, []string{"content"}, chunk.InputSchema.Required)
	assert.Contains(t, chunk.InputSchema.Properties, "max_chunk_size")
	assert.Contains(t, chunk.InputSchema.Properties, "strict_selection")

	index := indexDocumentTool()
	assert.Equal(t, "index_document", index.Name)
	assert.ElementsMatch(t, []string{"uri", "content"}, index.InputSchema.Required)
	assert.Contains(t, index.InputSchema.Properties, "force")

	get := getDocumentChunksTool()
	assert.Equal(t, "get_document_chunks", get.Name)
	assert.Equal(t, []string{"uri"}, get.InputSchema.Required)

	status := getStatusTool()
	assert.Equal(t, "get_status", status.Name)
	assert.Empty(t, status.InputSchema.Required)
}

func TestHandleChunkMarkdown(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	t.Run("chunks a document", func(t *testing.T) {
		result, err := srv.handleChunkMarkdown(ctx, callRequest("chunk_markdown", map[string]interface{}{
			"content": "# Title\n\nSome paragraph of text that stands alone.\n",
		}))
		require.NoError(t, err)

		response := resultJSON(t, result)
		assert.NotEmpty(t, response["strategy"])
		assert.Equal(t, float64(1), response["chunk_count"])
		assert.NotNil(t, response["validation"])
	})

	t.Run("missing content", func(t *testing.T) {
		_, err := srv.handleChunkMarkdown(ctx, callRequest("chunk_markdown", map[string]interface{}{}))
		require.Error(t, err)

		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := srv.handleChunkMarkdown(ctx, callRequest("chunk_markdown", map[string]interface{}{
			"content":        "text",
			"max_chunk_size": float64(-5),
		}))
		require.Error(t, err)

		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeInvalidConfig, mcpErr.Code)
	})
}

func TestHandleIndexDocument(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	doc := "# Notes\n\nFirst paragraph of useful prose for the index.\n"

	t.Run("indexes new document", func(t *testing.T) {
		result, err := srv.handleIndexDocument(ctx, callRequest("index_document", map[string]interface{}{
			"uri":     "docs/notes.md",
			"content": doc,
		}))
		require.NoError(t, err)

		response := resultJSON(t, result)
		assert.Equal(t, true, response["indexed"])
		assert.Equal(t, false, response["skipped"])
	})

	t.Run("skips unchanged content", func(t *testing.T) {
		result, err := srv.handleIndexDocument(ctx, callRequest("index_document", map[string]interface{}{
			"uri":     "docs/notes.md",
			"content": doc,
		}))
		require.NoError(t, err)

		response := resultJSON(t, result)
		assert.Equal(t, false, response["indexed"])
		assert.Equal(t, true, response["skipped"])
	})

	t.Run("force re-indexes unchanged content", func(t *testing.T) {
		result, err := srv.handleIndexDocument(ctx, callRequest("index_document", map[string]interface{}{
			"uri":     "docs/notes.md",
			"content": doc,
			"force":   true,
		}))
		require.NoError(t, err)

		response := resultJSON(t, result)
		assert.Equal(t, true, response["indexed"])
	})

	t.Run("changed content re-indexes without force", func(t *testing.T) {
		result, err := srv.handleIndexDocument(ctx, callRequest("index_document", map[string]interface{}{
			"uri":     "docs/notes.md",
			"content": doc + "\nAn appended paragraph changes the hash.\n",
		}))
		require.NoError(t, err)

		response := resultJSON(t, result)
		assert.Equal(t, true, response["indexed"])
	})

	t.Run("empty content rejected", func(t *testing.T) {
		_, err := srv.handleIndexDocument(ctx, callRequest("index_document", map[string]interface{}{
			"uri":     "docs/empty.md",
			"content": "",
		}))
		require.Error(t, err)

		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeEmptyContent, mcpErr.Code)
	})
}

func TestHandleGetDocumentChunks(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := srv.handleIndexDocument(ctx, callRequest("index_document", map[string]interface{}{
		"uri":     "docs/guide.md",
		"content": "# Guide\n\nA paragraph explaining the first step in detail.\n\nA second paragraph with more of the walkthrough.\n",
	}))
	require.NoError(t, err)

	t.Run("returns stored chunks", func(t *testing.T) {
		result, err := srv.handleGetDocumentChunks(ctx, callRequest("get_document_chunks", map[string]interface{}{
			"uri": "docs/guide.md",
		}))
		require.NoError(t, err)

		response := resultJSON(t, result)
		assert.Equal(t, "docs/guide.md", response["uri"])
		assert.NotEmpty(t, response["strategy"])
		chunks, ok := response["chunks"].([]interface{})
		require.True(t, ok)
		assert.NotEmpty(t, chunks)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := srv.handleGetDocumentChunks(ctx, callRequest("get_document_chunks", map[string]interface{}{
			"uri": "docs/missing.md",
		}))
		require.Error(t, err)

		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeDocumentNotFound, mcpErr.Code)
	})
}

func TestHandleGetStatus(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := srv.handleIndexDocument(ctx, callRequest("index_document", map[string]interface{}{
		"uri":     "docs/status.md",
		"content": "A single paragraph long enough to produce one chunk of output.\n",
	}))
	require.NoError(t, err)

	result, err := srv.handleGetStatus(ctx, callRequest("get_status", nil))
	require.NoError(t, err)

	response := resultJSON(t, result)
	assert.Equal(t, ServerVersion, response["server_version"])
	stats, ok := response["statistics"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), stats["document_count"])
	assert.NotEmpty(t, response["last_indexed_at"])
}

func TestConfigFromArgsOverrides(t *testing.T) {
	srv := newTestServer(t)

	cfg, err := srv.configFromArgs(map[string]interface{}{
		"max_chunk_size":   float64(500),
		"enable_overlap":   false,
		"strict_selection": false,
	})
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.MaxChunkSize)
	assert.False(t, cfg.EnableOverlap)
	assert.False(t, cfg.StrictSelection)
	// Untouched fields keep the server defaults
	assert.Equal(t, srv.defaults.MinChunkSize, cfg.MinChunkSize)
}
