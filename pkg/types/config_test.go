package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChunkConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultChunkConfig().Validate())
}

func TestChunkConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ChunkConfig)
		valid  bool
	}{
		{"defaults", func(c *ChunkConfig) {}, true},
		{"zero max", func(c *ChunkConfig) { c.MaxChunkSize = 0 }, false},
		{"negative min", func(c *ChunkConfig) { c.MinChunkSize = -1 }, false},
		{"min exceeds max", func(c *ChunkConfig) { c.MinChunkSize = 3000 }, false},
		{"overlap as large as max", func(c *ChunkConfig) {
			c.MaxChunkSize = 100
			c.MinChunkSize = 10
			c.OverlapSize = 100
		}, false},
		{"overlap smaller than max", func(c *ChunkConfig) {
			c.MaxChunkSize = 100
			c.MinChunkSize = 10
			c.OverlapSize = 50
		}, true},
		{"negative overlap", func(c *ChunkConfig) { c.OverlapSize = -1 }, false},
		{"percentage out of range", func(c *ChunkConfig) {
			c.OverlapSize = 0
			c.OverlapPercentage = 1.5
		}, false},
		{"ratio out of range", func(c *ChunkConfig) { c.CodeMinRatio = 1.2 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultChunkConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestEffectiveOverlapSize(t *testing.T) {
	cfg := &ChunkConfig{MaxChunkSize: 2000, OverlapSize: 150, OverlapPercentage: 0.1}
	assert.Equal(t, 150, cfg.EffectiveOverlapSize(), "explicit size wins over percentage")

	cfg.OverlapSize = 0
	assert.Equal(t, 200, cfg.EffectiveOverlapSize(), "percentage of max chunk size")

	cfg.OverlapPercentage = 0
	assert.Zero(t, cfg.EffectiveOverlapSize())
}

func TestFingerprintChangesWithConfig(t *testing.T) {
	a := DefaultChunkConfig()
	b := DefaultChunkConfig()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.MaxChunkSize = 999
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := DefaultChunkConfig()
	c.StrictSelection = false
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
