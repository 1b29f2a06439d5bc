package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DataDir is the per-project directory holding the database and config.
const DataDir = ".apidoc"

// Config holds all configuration for apidoc.
type Config struct {
	Extract ExtractConfig `yaml:"extract" toml:"extract"`
	Parse   ParseConfig   `yaml:"parse" toml:"parse"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// ExtractConfig controls which files are scanned and how.
type ExtractConfig struct {
	Includes []string `yaml:"includes" toml:"includes"`
	Excludes []string `yaml:"excludes" toml:"excludes"`
	Workers  int      `yaml:"workers" toml:"workers"`
	MaxBytes int64    `yaml:"max_bytes" toml:"max_bytes"` // files larger than this are skipped (0 = no limit)
}

// ParseConfig controls the parse cache.
type ParseConfig struct {
	CacheSize       int `yaml:"cache_size" toml:"cache_size"`
	CacheTTLMinutes int `yaml:"cache_ttl_minutes" toml:"cache_ttl_minutes"`
}

// OutputConfig holds defaults for printed results.
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"` // "json", "yaml" or "text"
	TopK   int    `yaml:"top_k" toml:"top_k"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			Includes: []string{"**/*.js", "**/*.jsx", "**/*.mjs", "**/*.ts", "**/*.tsx", "**/*.java", "**/*.kt", "**/*.scala", "**/*.swift", "**/*.c", "**/*.h", "**/*.cpp", "**/*.hpp", "**/*.php", "**/*.go"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**", "**/dist/**", "**/build/**", "**/*.min.js", "**/.apidoc/**"},
			Workers:  4,
			MaxBytes: 2 << 20,
		},
		Parse: ParseConfig{
			CacheSize:       1000,
			CacheTTLMinutes: 60,
		},
		Output: OutputConfig{
			Format: "json",
			TopK:   10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML or TOML file. Files ending in .toml
// are decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromDir loads configuration from a directory. It looks for
// apidoc.yaml, apidoc.toml and .apidoc/config.yaml in that order.
func LoadFromDir(dir string) (*Config, error) {
	candidates := []string{
		filepath.Join(dir, "apidoc.yaml"),
		filepath.Join(dir, "apidoc.toml"),
		filepath.Join(dir, DataDir, "config.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	// Return defaults
	return DefaultConfig(), nil
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.Extract.Workers < 1 {
		return fmt.Errorf("extract.workers must be at least 1, got %d", c.Extract.Workers)
	}
	switch c.Output.Format {
	case "json", "yaml", "text":
	default:
		return fmt.Errorf("output.format must be json, yaml or text, got %q", c.Output.Format)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// Save saves configuration to a file, as TOML when the path ends in .toml
// and YAML otherwise.
func (c *Config) Save(path string) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return toml.NewEncoder(f).Encode(c)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DBPath returns the path to the comment database.
func DBPath(dir string) string {
	return filepath.Join(dir, DataDir, "docs.db")
}

// EnsureDataDir ensures the .apidoc directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, DataDir), 0755)
}
