package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-mdmermaid/internal/config"
)

// envPrefix marks variables read by the CLI.
const envPrefix = "MDMERMAID_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string // MDMERMAID_CONFIG: config file name or path
	Theme        string // MDMERMAID_THEME: engine theme
	Timeout      string // MDMERMAID_TIMEOUT: per-diagram timeout
	BrowserBin   string // MDMERMAID_BROWSER_BIN: Chrome/Chromium binary
	EngineScript string // MDMERMAID_ENGINE_SCRIPT: local engine bundle
	EngineURL    string // MDMERMAID_ENGINE_URL: remote engine bundle
	OutputDir    string // MDMERMAID_OUTPUT_DIR: default output directory
	Style        string // MDMERMAID_STYLE: style name or CSS path
	Workers      int    // MDMERMAID_WORKERS: parallel workers
}

// knownEnvVars lists valid MDMERMAID_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDMERMAID_CONFIG":        true,
	"MDMERMAID_THEME":         true,
	"MDMERMAID_TIMEOUT":       true,
	"MDMERMAID_BROWSER_BIN":   true,
	"MDMERMAID_ENGINE_SCRIPT": true,
	"MDMERMAID_ENGINE_URL":    true,
	"MDMERMAID_OUTPUT_DIR":    true,
	"MDMERMAID_STYLE":         true,
	"MDMERMAID_WORKERS":       true,
	"MDMERMAID_CONTAINER":     true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Invalid MDMERMAID_WORKERS values are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:   getenv("MDMERMAID_CONFIG"),
		Theme:        getenv("MDMERMAID_THEME"),
		Timeout:      getenv("MDMERMAID_TIMEOUT"),
		BrowserBin:   getenv("MDMERMAID_BROWSER_BIN"),
		EngineScript: getenv("MDMERMAID_ENGINE_SCRIPT"),
		EngineURL:    getenv("MDMERMAID_ENGINE_URL"),
		OutputDir:    getenv("MDMERMAID_OUTPUT_DIR"),
		Style:        getenv("MDMERMAID_STYLE"),
	}

	if workers := getenv("MDMERMAID_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDMERMAID_* variables.
func warnUnknownEnvVars(environ []string, logger *log.Logger) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeEngineFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Theme != "" && cfg.Theme == "" {
		cfg.Theme = env.Theme
	}
	if env.Timeout != "" && cfg.Timeout == "" {
		cfg.Timeout = env.Timeout
	}
	if env.BrowserBin != "" && cfg.Browser.Bin == "" {
		cfg.Browser.Bin = env.BrowserBin
	}
	if env.EngineScript != "" && cfg.Engine.Script == "" {
		cfg.Engine.Script = env.EngineScript
	}
	if env.EngineURL != "" && cfg.Engine.URL == "" {
		cfg.Engine.URL = env.EngineURL
	}
	if env.OutputDir != "" && cfg.Output.Dir == "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Style != "" && cfg.Output.Style == "" {
		cfg.Output.Style = env.Style
	}
}

// resolveConfig loads the config named by flag or MDMERMAID_CONFIG, applies
// environment values, then CLI flags.
func resolveConfig(common *commonFlags, engine *engineFlags, env *envConfig) (*config.Config, error) {
	name := common.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg, err := loadConfig(name)
	if err != nil {
		return nil, err
	}

	applyEnvConfig(env, cfg)

	if err := mergeEngineFlags(engine, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
