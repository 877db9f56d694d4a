package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-doconv/internal/fileutil"
	"github.com/alnah/go-doconv/internal/yamlutil"
)

// AppName is the directory searched under the user config directory.
const AppName = "doconv"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxPathLength       = 4096 // PATH_MAX on Linux
	MaxPluginNameLength = 64
	MaxPluginListLength = 32
	MaxChromeTimeout    = 10 * time.Minute
)

// DefaultChromeTimeout bounds a single HTML to PDF render.
const DefaultChromeTimeout = 30 * time.Second

// Config holds all configuration for conversion runs.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Plugins  PluginsConfig  `yaml:"plugins"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Directory for default output names (empty = current directory)
}

// PipelineConfig defines how intermediate files are handled.
type PipelineConfig struct {
	TempDir       string `yaml:"tempDir"`       // Empty = beside each step's input
	KeepOnFailure bool   `yaml:"keepOnFailure"` // Leave intermediates of a failed run on disk
}

// PluginsConfig selects and tunes the built-in plugins.
type PluginsConfig struct {
	Disabled []string     `yaml:"disabled"`
	Priority []string     `yaml:"priority"` // Preferred plugins when several share a conversion
	Pandoc   PandocConfig `yaml:"pandoc"`
	Chrome   ChromeConfig `yaml:"chrome"`
}

// PandocConfig configures the pandoc plugin.
type PandocConfig struct {
	Bin string `yaml:"bin"` // Executable name or path (default: "pandoc")
}

// ChromeConfig configures the headless Chrome plugin.
type ChromeConfig struct {
	Bin       string `yaml:"bin"`       // Empty = auto-detect
	Timeout   string `yaml:"timeout"`   // Go duration, e.g. "30s" (default: 30s)
	NoSandbox bool   `yaml:"noSandbox"` // Needed in most containers
}

// TimeoutDuration returns the parsed timeout, or DefaultChromeTimeout when unset.
// Call after Validate.
func (c ChromeConfig) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return DefaultChromeTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return DefaultChromeTimeout
	}
	return d
}

// Validate checks field lengths and values.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	// Validate paths
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("pipeline.tempDir", c.Pipeline.TempDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("plugins.pandoc.bin", c.Plugins.Pandoc.Bin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("plugins.chrome.bin", c.Plugins.Chrome.Bin, MaxPathLength); err != nil {
		return err
	}

	// Validate plugin lists
	if err := validatePluginList("plugins.disabled", c.Plugins.Disabled); err != nil {
		return err
	}
	if err := validatePluginList("plugins.priority", c.Plugins.Priority); err != nil {
		return err
	}
	for _, name := range c.Plugins.Priority {
		if slices.Contains(c.Plugins.Disabled, name) {
			return fmt.Errorf("%w: plugins.priority: %q is also disabled", ErrInvalidValue, name)
		}
	}

	// Validate chrome timeout
	if c.Plugins.Chrome.Timeout != "" {
		d, err := time.ParseDuration(c.Plugins.Chrome.Timeout)
		if err != nil {
			return fmt.Errorf("%w: plugins.chrome.timeout: %v", ErrInvalidValue, err)
		}
		if d <= 0 || d > MaxChromeTimeout {
			return fmt.Errorf("%w: plugins.chrome.timeout: must be between 0 and %s, got %s", ErrInvalidValue, MaxChromeTimeout, d)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validatePluginList rejects empty, oversized and repeated plugin names.
func validatePluginList(fieldName string, names []string) error {
	if len(names) > MaxPluginListLength {
		return fmt.Errorf("%w: %s (%d entries, max %d)", ErrFieldTooLong, fieldName, len(names), MaxPluginListLength)
	}
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		field := fmt.Sprintf("%s[%d]", fieldName, i)
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: %s: empty plugin name", ErrInvalidValue, field)
		}
		if err := validateFieldLength(field, name, MaxPluginNameLength); err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("%w: %s: duplicate plugin %q", ErrInvalidValue, field, name)
		}
		seen[name] = true
	}
	return nil
}

// DefaultConfig returns a configuration with every plugin enabled.
func DefaultConfig() *Config {
	return &Config{
		Plugins: PluginsConfig{
			Pandoc: PandocConfig{Bin: "pandoc"},
			Chrome: ChromeConfig{Timeout: DefaultChromeTimeout.String()},
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// SearchPaths lists the files LoadConfig tries for a config name, in order:
// the current directory, then ~/.config/doconv/, each with .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
