package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kk-code-lab/rbrowse/internal/logging"
	"github.com/kk-code-lab/rbrowse/internal/search"
	"gopkg.in/yaml.v3"
)

// Config holds the browser settings read from config.yaml.
type Config struct {
	StartPath  string `yaml:"start_path"`  // Directory to open; empty uses the working directory
	HideHidden bool   `yaml:"hide_hidden"` // Hide dot-files in listings and searches
	Watch      bool   `yaml:"watch"`       // Refresh the listing when the directory changes
	Search     struct {
		CaseInsensitive bool     `yaml:"case_insensitive"`
		MaxDepth        int      `yaml:"max_depth"`   // 0 = unlimited
		MaxResults      int      `yaml:"max_results"` // 0 = unlimited
		Exclude         []string `yaml:"exclude"`     // Glob patterns for directory names to prune
	} `yaml:"search"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultPath returns the default config file location
// (<user config dir>/rbrowse/config.yaml).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "rbrowse", "config.yaml"), nil
}

// Load reads the config at the default location.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads configuration from path. A missing file yields defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Decoding over the defaults keeps values the file leaves unset.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{}
	cfg.Watch = true
	cfg.Search.Exclude = []string{".git"}
	cfg.Log.Level = "info"
	return cfg
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	if c.Search.MaxDepth < 0 {
		return fmt.Errorf("search.max_depth must be >= 0")
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("search.max_results must be >= 0")
	}
	if err := search.CompileExcludes(c.Search.Exclude); err != nil {
		return fmt.Errorf("search.exclude: %w", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.StartPath != "" {
		info, err := os.Stat(c.StartPath)
		if err != nil {
			return fmt.Errorf("start_path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("start_path %s is not a directory", c.StartPath)
		}
	}
	return nil
}

// SearchOptions converts the search section into engine options.
func (c *Config) SearchOptions() search.Options {
	return search.Options{
		CaseInsensitive: c.Search.CaseInsensitive,
		HideHidden:      c.HideHidden,
		MaxDepth:        c.Search.MaxDepth,
		MaxResults:      c.Search.MaxResults,
		Exclude:         append([]string(nil), c.Search.Exclude...),
	}
}

// LogOptions converts the log section into logger options.
func (c *Config) LogOptions(debug bool) logging.Options {
	return logging.Options{File: c.Log.File, Level: c.Log.Level, Debug: debug}
}
