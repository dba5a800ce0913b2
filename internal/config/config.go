// Package config loads cratedoc configuration via viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the complete cratedoc configuration, loadable from
// .cratedoc.yaml with environment variable overrides.
type Config struct {
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Toolchain ToolchainConfig `yaml:"toolchain" mapstructure:"toolchain"`
	Index     IndexConfig     `yaml:"index" mapstructure:"index"`
}

// CacheConfig controls the artifact store location.
type CacheConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // override the temp-dir store file
}

// SearchConfig controls search defaults.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit" mapstructure:"default_limit"` // applied when a request carries no limit
}

// ToolchainConfig selects the cargo binary.
type ToolchainConfig struct {
	Cargo string `yaml:"cargo" mapstructure:"cargo"` // binary name or absolute path
}

// IndexConfig extends the traversal skip rules.
type IndexConfig struct {
	// Ignore holds extra glob patterns skipped during traversal, on top of
	// the generator's reserved directories which are always skipped.
	Ignore []string `yaml:"ignore" mapstructure:"ignore"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Cache:     CacheConfig{Path: ""}, // empty means the temp-dir default
		Search:    SearchConfig{DefaultLimit: 50},
		Toolchain: ToolchainConfig{Cargo: "cargo"},
		Index:     IndexConfig{Ignore: nil},
	}
}

// Load materializes the configuration from the global viper instance,
// falling back to defaults for anything unset. The CLI initializes viper
// (config file discovery, env binding) before commands run.
func Load() (*Config, error) {
	cfg := Default()

	viper.SetDefault("cache.path", cfg.Cache.Path)
	viper.SetDefault("search.default_limit", cfg.Search.DefaultLimit)
	viper.SetDefault("toolchain.cargo", cfg.Toolchain.Cargo)
	viper.SetDefault("index.ignore", cfg.Index.Ignore)

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.Search.DefaultLimit < 0 {
		return nil, fmt.Errorf("search.default_limit must not be negative, got %d", cfg.Search.DefaultLimit)
	}
	if cfg.Toolchain.Cargo == "" {
		cfg.Toolchain.Cargo = "cargo"
	}

	return cfg, nil
}
