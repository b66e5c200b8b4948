package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/mdchunk-mcp/internal/chunker"
	"github.com/dshills/mdchunk-mcp/internal/config"
	"github.com/dshills/mdchunk-mcp/internal/storage"
	"github.com/dshills/mdchunk-mcp/pkg/types"
)

const (
	// ServerName is the MCP server name
	ServerName = "mdchunk-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the database
	DefaultDBPath = "~/.mdchunk"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	storage  storage.Storage
	chunker  *chunker.Chunker
	defaults *types.ChunkConfig
	logger   *log.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, logger *log.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	dbPath := cfg.DBPath
	// Expand home directory if needed
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".mdchunk")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbFile := filepath.Join(dbPath, "mdchunk.db")

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Create the chunking pipeline (shared across tool invocations so the
	// result cache survives between calls)
	chk, err := chunker.New(chunker.Options{Logger: logger})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize chunker: %w", err)
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		storage:  store,
		chunker:  chk,
		defaults: cfg.Chunking,
		logger:   logger,
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	// Register chunk_markdown tool
	s.mcp.AddTool(chunkMarkdownTool(), s.handleChunkMarkdown)

	// Register index_document tool
	s.mcp.AddTool(indexDocumentTool(), s.handleIndexDocument)

	// Register get_document_chunks tool
	s.mcp.AddTool(getDocumentChunksTool(), s.handleGetDocumentChunks)

	// Register get_status tool
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)

	return nil
}
