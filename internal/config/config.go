// Package config provides configuration loading and structs for the Crime 360 engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Seed      SeedConfig      `yaml:"seed"`
	Search    SearchConfig    `yaml:"search"`
	Faces     FacesConfig     `yaml:"faces"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: from debug flag)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	ReadTimeoutSec     int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec    int    `yaml:"write_timeout_sec"`
	ShutdownTimeoutSec int    `yaml:"shutdown_timeout_sec"`
	MaxUploadBytes     int64  `yaml:"max_upload_bytes"`
}

// SeedConfig selects where records are loaded from.
type SeedConfig struct {
	Source       string `yaml:"source"` // builtin, file, sqlite
	Path         string `yaml:"path"`
	DatabasePath string `yaml:"database_path"`
	// Watch reloads the snapshot when the seed file changes.
	Watch bool `yaml:"watch"`
}

// SearchConfig holds incident search settings.
type SearchConfig struct {
	DefaultSize int `yaml:"default_size"`
	MaxSize     int `yaml:"max_size"`
	// Relevance makes keyword-index ordering the default for text queries.
	Relevance          bool  `yaml:"relevance"`
	Suggestions        *bool `yaml:"suggestions"`
	SuggestionDistance int   `yaml:"suggestion_distance"`
	MaxSuggestions     int   `yaml:"max_suggestions"`
}

// SuggestionsOrDefault returns whether "did you mean" suggestions are enabled; defaults to true when unset.
func (s *SearchConfig) SuggestionsOrDefault() bool {
	if s.Suggestions != nil {
		return *s.Suggestions
	}
	return true
}

// FacesConfig holds face similarity settings.
type FacesConfig struct {
	DefaultThreshold  float64 `yaml:"default_threshold"`
	FeatureDimensions int     `yaml:"feature_dimensions"`
	CacheSize         int     `yaml:"cache_size"`
}

// AnalyticsConfig holds aggregation settings.
type AnalyticsConfig struct {
	TopKeywords int `yaml:"top_keywords"`
	CacheTTLSec int `yaml:"cache_ttl_sec"`
}

// Load reads and parses the config file at path, expands ${VAR} references and paths,
// applies defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Seed.Path = expandPath(cfg.Seed.Path, configDir)
	cfg.Seed.DatabasePath = expandPath(cfg.Seed.DatabasePath, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, used when no file exists.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Seed.Source {
	case "builtin":
	case "file":
		if c.Seed.Path == "" {
			return fmt.Errorf("seed.path is required when seed.source is file")
		}
	case "sqlite":
		if c.Seed.DatabasePath == "" {
			return fmt.Errorf("seed.database_path is required when seed.source is sqlite")
		}
	default:
		return fmt.Errorf("seed.source must be builtin, file or sqlite, got %q", c.Seed.Source)
	}
	if c.Search.DefaultSize > c.Search.MaxSize {
		return fmt.Errorf("search.default_size (%d) exceeds search.max_size (%d)", c.Search.DefaultSize, c.Search.MaxSize)
	}
	if c.Faces.DefaultThreshold < 0 || c.Faces.DefaultThreshold > 1 {
		return fmt.Errorf("faces.default_threshold must be within [0, 1], got %v", c.Faces.DefaultThreshold)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
