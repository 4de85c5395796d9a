package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdmermaid/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxLanguageLength = 32
	MaxThemeLength    = 50
	MaxPathLength     = 4096
	MaxURLLength      = 2048
	MaxStyleLength    = 4096
)

// Viewport bounds in CSS pixels. Zero means "use the default".
const (
	MinViewportSize = 1
	MaxViewportSize = 10000
)

// appDir is the directory name under the user config dir.
const appDir = "go-mdmermaid"

// Config holds all configuration for diagram rendering from a YAML file.
// Zero values mean "use the library default".
type Config struct {
	Language string         `yaml:"language"` // Fence tag to render (default: "mermaid")
	Theme    string         `yaml:"theme"`    // Engine theme (default: "default")
	Timeout  string         `yaml:"timeout"`  // Per-diagram timeout, Go duration (default: "30s")
	Viewport ViewportConfig `yaml:"viewport"`
	Engine   EngineConfig   `yaml:"engine"`
	Browser  BrowserConfig  `yaml:"browser"`
	Output   OutputConfig   `yaml:"output"`
}

// ViewportConfig defines the browser viewport used for each diagram.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// EngineConfig defines how the rendering engine is loaded and configured.
type EngineConfig struct {
	Options map[string]any `yaml:"options"` // Passed to mermaid.initialize (replaces defaults)
	Script  string         `yaml:"script"`  // Local path to the engine bundle
	URL     string         `yaml:"url"`     // Remote engine bundle (ignored when script is set)
}

// BrowserConfig defines headless browser options.
type BrowserConfig struct {
	Bin string `yaml:"bin"` // Chrome/Chromium binary (empty = rod default)
}

// OutputConfig defines HTML output options.
type OutputConfig struct {
	Dir        string `yaml:"dir"`        // Output directory (empty = next to source)
	Style      string `yaml:"style"`      // Embedded style name or path to a .css file
	Standalone bool   `yaml:"standalone"` // Wrap output in a full HTML document
}

// DefaultConfig returns a configuration where every field defers to library defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// TimeoutDuration parses Timeout. Returns 0 when Timeout is empty.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout %q: %v", ErrInvalidField, c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidField, d)
	}
	return d, nil
}

// Validate checks field lengths and value ranges.
func (c *Config) Validate() error {
	if err := validateFieldLength("language", c.Language, MaxLanguageLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Language, ": \t\n") {
		return fmt.Errorf("%w: language %q must be a single word without ':'", ErrInvalidField, c.Language)
	}
	if err := validateFieldLength("theme", c.Theme, MaxThemeLength); err != nil {
		return err
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	if err := validateViewportSide("viewport.width", c.Viewport.Width); err != nil {
		return err
	}
	if err := validateViewportSide("viewport.height", c.Viewport.Height); err != nil {
		return err
	}

	if err := validateFieldLength("engine.script", c.Engine.Script, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("engine.url", c.Engine.URL, MaxURLLength); err != nil {
		return err
	}
	if c.Engine.URL != "" && !fileutil.IsURL(c.Engine.URL) {
		return fmt.Errorf("%w: engine.url %q must start with http:// or https://", ErrInvalidField, c.Engine.URL)
	}

	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.style", c.Output.Style, MaxStyleLength); err != nil {
		return err
	}

	return nil
}

// validateViewportSide accepts 0 (default) or a value within bounds.
func validateViewportSide(fieldName string, v int) error {
	if v == 0 {
		return nil
	}
	if v < MinViewportSize || v > MaxViewportSize {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d",
			ErrInvalidField, fieldName, MinViewportSize, MaxViewportSize, v)
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

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
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

	var cfg Config
	if err := unmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths returns the candidate paths for a config name, in lookup order.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mdmermaid/
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDir, name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing path from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
