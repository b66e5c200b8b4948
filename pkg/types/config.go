package types

import "fmt"

// ChunkConfig controls chunk sizing, overlap, and strategy activation.
// It is supplied once per invocation and never mutated by the engine.
type ChunkConfig struct {
	// Size limits in characters
	MaxChunkSize int `json:"max_chunk_size" yaml:"max_chunk_size"`
	MinChunkSize int `json:"min_chunk_size" yaml:"min_chunk_size"`

	// Overlap configuration. OverlapSize wins when both are set;
	// OverlapPercentage is a fraction of MaxChunkSize.
	EnableOverlap     bool    `json:"enable_overlap" yaml:"enable_overlap"`
	OverlapSize       int     `json:"overlap_size" yaml:"overlap_size"`
	OverlapPercentage float64 `json:"overlap_percentage" yaml:"overlap_percentage"`

	// AllowOversize permits an atomic element that alone exceeds MaxChunkSize
	// to be emitted as a single oversized chunk instead of being fragmented.
	AllowOversize bool `json:"allow_oversize" yaml:"allow_oversize"`

	// Strategy selection
	PreferredStrategy string `json:"preferred_strategy,omitempty" yaml:"preferred_strategy"`
	StrictSelection   bool   `json:"strict_selection" yaml:"strict_selection"`

	// Per-strategy activation thresholds
	CodeMinRatio         float64 `json:"code_min_ratio" yaml:"code_min_ratio"`
	CodeMinBlocks        int     `json:"code_min_blocks" yaml:"code_min_blocks"`
	ListMinItems         int     `json:"list_min_items" yaml:"list_min_items"`
	ListMinRatio         float64 `json:"list_min_ratio" yaml:"list_min_ratio"`
	TableMinCount        int     `json:"table_min_count" yaml:"table_min_count"`
	TableMinRatio        float64 `json:"table_min_ratio" yaml:"table_min_ratio"`
	StructuralMinHeaders int     `json:"structural_min_headers" yaml:"structural_min_headers"`
	StructuralMinDepth   int     `json:"structural_min_depth" yaml:"structural_min_depth"`
	MixedMinRatio        float64 `json:"mixed_min_ratio" yaml:"mixed_min_ratio"`
}

// DefaultChunkConfig returns the configuration used when the caller supplies none
func DefaultChunkConfig() *ChunkConfig {
	return &ChunkConfig{
		MaxChunkSize:         2000,
		MinChunkSize:         100,
		EnableOverlap:        true,
		OverlapSize:          100,
		AllowOversize:        true,
		StrictSelection:      true,
		CodeMinRatio:         0.7,
		CodeMinBlocks:        3,
		ListMinItems:         5,
		ListMinRatio:         0.6,
		TableMinCount:        3,
		TableMinRatio:        0.4,
		StructuralMinHeaders: 3,
		StructuralMinDepth:   1,
		MixedMinRatio:        0.3,
	}
}

// EffectiveOverlapSize resolves the overlap window in characters
func (c *ChunkConfig) EffectiveOverlapSize() int {
	if c.OverlapSize > 0 {
		return c.OverlapSize
	}
	if c.OverlapPercentage > 0 {
		return int(c.OverlapPercentage * float64(c.MaxChunkSize))
	}
	return 0
}

// Validate checks the configuration for invariant violations. A failure here
// is a caller error and aborts processing before any document work begins.
func (c *ChunkConfig) Validate() error {
	if c.MaxChunkSize <= 0 {
		return fmt.Errorf("%w: max_chunk_size must be positive, got %d", ErrInvalidConfig, c.MaxChunkSize)
	}
	if c.MinChunkSize < 0 {
		return fmt.Errorf("%w: min_chunk_size must not be negative, got %d", ErrInvalidConfig, c.MinChunkSize)
	}
	if c.MinChunkSize > c.MaxChunkSize {
		return fmt.Errorf("%w: min_chunk_size %d exceeds max_chunk_size %d", ErrInvalidConfig, c.MinChunkSize, c.MaxChunkSize)
	}
	if c.OverlapSize < 0 {
		return fmt.Errorf("%w: overlap_size must not be negative, got %d", ErrInvalidConfig, c.OverlapSize)
	}
	if c.OverlapPercentage < 0 || c.OverlapPercentage >= 1 {
		return fmt.Errorf("%w: overlap_percentage must be in [0, 1), got %v", ErrInvalidConfig, c.OverlapPercentage)
	}
	if c.EffectiveOverlapSize() >= c.MaxChunkSize {
		return fmt.Errorf("%w: overlap window %d must be smaller than max_chunk_size %d", ErrInvalidConfig, c.EffectiveOverlapSize(), c.MaxChunkSize)
	}
	for name, ratio := range map[string]float64{
		"code_min_ratio":  c.CodeMinRatio,
		"list_min_ratio":  c.ListMinRatio,
		"table_min_ratio": c.TableMinRatio,
		"mixed_min_ratio": c.MixedMinRatio,
	} {
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %v", ErrInvalidConfig, name, ratio)
		}
	}
	return nil
}

// Fingerprint returns a stable string of the fields that affect chunk output.
// Used as part of result-cache keys.
func (c *ChunkConfig) Fingerprint() string {
	return fmt.Sprintf("%d|%d|%t|%d|%g|%t|%s|%t|%g|%d|%d|%g|%d|%g|%d|%d|%g",
		c.MaxChunkSize, c.MinChunkSize, c.EnableOverlap, c.OverlapSize, c.OverlapPercentage,
		c.AllowOversize, c.PreferredStrategy, c.StrictSelection,
		c.CodeMinRatio, c.CodeMinBlocks, c.ListMinItems, c.ListMinRatio,
		c.TableMinCount, c.TableMinRatio, c.StructuralMinHeaders, c.StructuralMinDepth, c.MixedMinRatio)
}
