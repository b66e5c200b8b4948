package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// chunkConfigProperties are the tunables shared by every tool that runs
// the chunking pipeline
func chunkConfigProperties() map[string]interface{} {
	return map[string]interface{}{
		"max_chunk_size": map[string]interface{}{
			"type":        "integer",
			"description": "Target maximum chunk size in characters",
			"default":     2000,
			"minimum":     1,
		},
		"min_chunk_size": map[string]interface{}{
			"type":        "integer",
			"description": "Minimum chunk size in characters (smaller chunks are merged forward)",
			"default":     100,
			"minimum":     0,
		},
		"enable_overlap": map[string]interface{}{
			"type":        "boolean",
			"description": "If true, annotate chunks with overlap context from their neighbors",
			"default":     true,
		},
		"overlap_size": map[string]interface{}{
			"type":        "integer",
			"description": "Overlap window size in characters",
			"default":     100,
			"minimum":     0,
		},
		"preferred_strategy": map[string]interface{}{
			"type":        "string",
			"description": "Strategy to favor during weighted selection (ignored in strict mode)",
			"enum":        []string{"code", "mixed", "list", "table", "structural", "sentences"},
		},
		"strict_selection": map[string]interface{}{
			"type":        "boolean",
			"description": "If true, pick strategies by fixed priority; if false, score them by fit",
			"default":     true,
		},
		"allow_oversize": map[string]interface{}{
			"type":        "boolean",
			"description": "If true, atomic elements larger than max_chunk_size become single oversize chunks",
			"default":     true,
		},
	}
}

// chunkMarkdownTool returns the tool definition for chunk_markdown
func chunkMarkdownTool() mcp.Tool {
	props := chunkConfigProperties()
	props["content"] = map[string]interface{}{
		"type":        "string",
		"description": "Markdown document to chunk",
	}
	return mcp.Tool{
		Name:        "chunk_markdown",
		Description: "Split a Markdown document into content-aware chunks with metadata and a completeness report",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"content"},
		},
	}
}

// indexDocumentTool returns the tool definition for index_document
func indexDocumentTool() mcp.Tool {
	props := chunkConfigProperties()
	props["uri"] = map[string]interface{}{
		"type":        "string",
		"description": "Stable identifier for the document (path, URL, or logical name)",
	}
	props["content"] = map[string]interface{}{
		"type":        "string",
		"description": "Markdown document to chunk and store",
	}
	props["force"] = map[string]interface{}{
		"type":        "boolean",
		"description": "If true, re-chunk and re-store even when the stored content hash matches",
		"default":     false,
	}
	return mcp.Tool{
		Name:        "index_document",
		Description: "Chunk a Markdown document and persist the chunks, skipping work when the content is unchanged",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"uri", "content"},
		},
	}
}

// getDocumentChunksTool returns the tool definition for get_document_chunks
func getDocumentChunksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_document_chunks",
		Description: "Retrieve the stored chunks for a previously indexed document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"uri": map[string]interface{}{
					"type":        "string",
					"description": "Identifier the document was indexed under",
				},
			},
			Required: []string{"uri"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report indexed document counts and database statistics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
