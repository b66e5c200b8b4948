package chunker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dshills/mdchunk-mcp/internal/analyzer"
	"github.com/dshills/mdchunk-mcp/internal/cache"
	"github.com/dshills/mdchunk-mcp/internal/overlap"
	"github.com/dshills/mdchunk-mcp/internal/strategy"
	"github.com/dshills/mdchunk-mcp/internal/validator"
	"github.com/dshills/mdchunk-mcp/pkg/types"
)

const (
	// DefaultCacheEntries bounds the result cache
	DefaultCacheEntries = 128

	// DefaultCacheMaxDocBytes disables caching for documents above this size
	DefaultCacheMaxDocBytes = 50 * 1024

	// DefaultStreamingThreshold routes documents above this size through the
	// streaming pipeline instead of whole-document chunking
	DefaultStreamingThreshold = 1 << 20

	// DefaultStreamingPartBytes is the target partition size in streaming mode
	DefaultStreamingPartBytes = 256 * 1024

	// DefaultWorkers is the streaming-mode parallelism
	DefaultWorkers = 4

	// StrategyStreaming is reported when a document was partitioned before
	// strategy selection, so no single strategy owns the result
	StrategyStreaming = "streaming"
)

// Options configures a Chunker. The zero value is usable; every field falls
// back to a default.
type Options struct {
	Logger             *log.Logger
	CacheEntries       int
	CacheMaxDocBytes   int
	StreamingThreshold int
	StreamingPartBytes int
	Workers            int
	Validation         validator.Options
}

// Result is the complete outcome of chunking one document
type Result struct {
	Chunks     []*types.Chunk          `json:"chunks"`
	Strategy   string                  `json:"strategy"`
	Validation *types.ValidationResult `json:"validation"`
}

// Chunker orchestrates the full pipeline: analyze, select a strategy, split,
// attach overlap, validate. Safe for concurrent use; per-document state never
// escapes a single call.
type Chunker struct {
	analyzer  *analyzer.Analyzer
	selector  *strategy.Selector
	validator *validator.Validator
	results   *cache.Cache[*Result]
	logger    *log.Logger
	opts      Options
}

// New creates a Chunker with the given options
func New(opts Options) (*Chunker, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.CacheEntries <= 0 {
		opts.CacheEntries = DefaultCacheEntries
	}
	if opts.CacheMaxDocBytes <= 0 {
		opts.CacheMaxDocBytes = DefaultCacheMaxDocBytes
	}
	if opts.StreamingThreshold <= 0 {
		opts.StreamingThreshold = DefaultStreamingThreshold
	}
	if opts.StreamingPartBytes <= 0 {
		opts.StreamingPartBytes = DefaultStreamingPartBytes
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}

	results, err := cache.New[*Result](opts.CacheEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	return &Chunker{
		analyzer:  analyzer.New(),
		selector:  strategy.NewSelector(opts.Logger),
		validator: validator.New(opts.Validation),
		results:   results,
		logger:    opts.Logger,
		opts:      opts,
	}, nil
}

// ChunkDocument runs the pipeline over one document. A nil config selects
// the defaults; an invalid config fails before any document work begins.
// The context is only consulted in streaming mode, where work is spread
// across workers.
func (c *Chunker) ChunkDocument(ctx context.Context, document string, cfg *types.ChunkConfig) (*Result, error) {
	if cfg == nil {
		cfg = types.DefaultChunkConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(document) == "" {
		return &Result{
			Chunks:     []*types.Chunk{},
			Strategy:   strategy.NameSentences,
			Validation: c.validator.Validate(document, nil),
		}, nil
	}

	if len(document) > c.opts.StreamingThreshold {
		return c.chunkStreaming(ctx, document, cfg)
	}

	cacheable := len(document) <= c.opts.CacheMaxDocBytes
	key := ""
	if cacheable {
		key = cache.Key(document, cfg.Fingerprint())
		if cached, ok := c.results.Get(key); ok {
			c.logger.Debug("result cache hit", "chunks", len(cached.Chunks))
			return cached, nil
		}
	}

	result := c.runPipeline(document, cfg)
	if cacheable {
		c.results.Put(key, result)
	}
	return result, nil
}

// runPipeline performs one synchronous pass over a document
func (c *Chunker) runPipeline(document string, cfg *types.ChunkConfig) *Result {
	analysis := c.analyzer.Analyze(document)
	doc := strategy.NewDocument(document, analysis)

	name, chunks := c.selector.Select(doc, cfg)
	overlap.Apply(chunks, cfg)

	validation := c.validator.Validate(document, chunks)
	if !validation.IsValid {
		c.logger.Warn("chunking result failed validation",
			"strategy", name,
			"coverage", validation.CharCoverage,
			"missing_blocks", len(validation.MissingBlocks))
	}
	c.logger.Debug("document chunked",
		"strategy", name,
		"chunks", len(chunks),
		"input_chars", len(document))

	return &Result{Chunks: chunks, Strategy: name, Validation: validation}
}
