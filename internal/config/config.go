// Package config loads the server configuration file. Settings merge onto
// defaults, so a partial file only overrides what it names.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// Config holds the adapter-level settings of the server. Chunking defaults
// apply to every request that does not carry its own configuration.
type Config struct {
	// DBPath locates the SQLite chunk store; empty selects the default
	// under the user's home directory
	DBPath string `yaml:"db_path"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// Chunking are the default engine settings
	Chunking *types.ChunkConfig `yaml:"chunking"`
}

// Default returns the configuration used when no file is supplied
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Chunking: types.DefaultChunkConfig(),
	}
}

// Load reads a YAML configuration file and merges it onto the defaults.
// The merged chunking configuration is validated before it is returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Chunking == nil {
		cfg.Chunking = types.DefaultChunkConfig()
	}
	if err := cfg.Chunking.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}
