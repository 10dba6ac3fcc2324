// Package config loads persistent CLI defaults from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the defaults applied before flag parsing. Flags always win
// over the file.
type Config struct {
	// Style is the default table style (plain, ascii, rounded, markdown).
	Style string `yaml:"style"`
	// ArrayLimit is the default number of array elements shown per cell.
	ArrayLimit int `yaml:"array_limit"`
	// CacheSize is the default row cache capacity for interactive mode.
	CacheSize int `yaml:"cache_size"`
	// Strict makes invalid rows fatal by default.
	Strict bool `yaml:"strict"`
	// LogLevel is the default log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in defaults used when no file exists.
func Default() Config {
	return Config{
		Style:      "rounded",
		ArrayLimit: 3,
		CacheSize:  1000,
		Strict:     true,
		LogLevel:   "warn",
	}
}

// DefaultPath returns the conventional config location, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "jlcat", "config.yaml"), nil
}

// Load reads a config file, layering it over the built-in defaults. A missing
// file is not an error.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return c, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return c, nil
}
