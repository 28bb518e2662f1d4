package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents kortkollect configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`

	// Extensions is the list of image file extensions to index
	Extensions []string `yaml:"extensions"`

	// Strict makes the collect command exit non-zero when any marker
	// could not be resolved to a copied image
	Strict bool `yaml:"strict"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "info",
		LogDir:     ".kortkollect/logs",
		Extensions: []string{".jpg"},
		Strict:     false,
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlCfg Config
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if len(yamlCfg.Extensions) > 0 {
		cfg.Extensions = yamlCfg.Extensions
	}
	// Strict is explicitly set if present in YAML
	if yamlCfg.Strict {
		cfg.Strict = yamlCfg.Strict
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .kortkollect/config.yaml in the
// specified directory. If the directory or file doesn't exist, returns
// default configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".kortkollect", "config.yaml")
	return LoadConfig(configPath)
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
// This allows CLI flags to take precedence over config file settings.
func (c *Config) MergeWithFlags(logLevel *string, logDir *string, strict *bool) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if strict != nil {
		c.Strict = *strict
	}
}

// Validate validates the configuration values.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	// Validate log_level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	// Extensions must be non-empty and each must start with a dot
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions cannot be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid extension %q, must start with a dot", ext)
		}
	}

	return nil
}
