package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	mdmermaid "github.com/alnah/go-mdmermaid"
	"github.com/alnah/go-mdmermaid/internal/assets"
	"github.com/alnah/go-mdmermaid/internal/config"
	"github.com/alnah/go-mdmermaid/internal/hints"
)

// Sentinel errors for CLI parameter resolution.
var (
	ErrReadCSS = errors.New("failed to read CSS file")
)

// loadConfig loads the named config, or returns an empty one when no name
// was given.
func loadConfig(nameOrPath string) (*config.Config, error) {
	if nameOrPath == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(nameOrPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(nameOrPath)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeEngineFlags merges CLI flags into config. CLI values override config values.
func mergeEngineFlags(f *engineFlags, cfg *config.Config) error {
	if f.language != "" {
		cfg.Language = f.language
	}
	if f.theme != "" {
		cfg.Theme = f.theme
	}
	if f.timeout != "" {
		cfg.Timeout = f.timeout
	}
	if f.width != 0 {
		cfg.Viewport.Width = f.width
	}
	if f.height != 0 {
		cfg.Viewport.Height = f.height
	}
	if f.browserBin != "" {
		cfg.Browser.Bin = f.browserBin
	}
	if f.engineScript != "" {
		cfg.Engine.Script = f.engineScript
	}
	if f.engineURL != "" {
		cfg.Engine.URL = f.engineURL
	}

	// Flags bypass LoadConfig, so check the merged result again
	return cfg.Validate()
}

// rendererOptions translates config into library options. Unset fields keep
// the library defaults.
func rendererOptions(cfg *config.Config, logger *log.Logger) ([]mdmermaid.Option, error) {
	opts := []mdmermaid.Option{mdmermaid.WithLogger(logger)}

	if cfg.Language != "" {
		opts = append(opts, mdmermaid.WithLanguage(cfg.Language))
	}
	if cfg.Theme != "" {
		opts = append(opts, mdmermaid.WithTheme(cfg.Theme))
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, mdmermaid.WithTimeout(timeout))
	}

	if cfg.Viewport.Width != 0 || cfg.Viewport.Height != 0 {
		vp := mdmermaid.DefaultViewport()
		if cfg.Viewport.Width != 0 {
			vp.Width = cfg.Viewport.Width
		}
		if cfg.Viewport.Height != 0 {
			vp.Height = cfg.Viewport.Height
		}
		opts = append(opts, mdmermaid.WithViewport(vp))
	}

	if cfg.Engine.Options != nil {
		opts = append(opts, mdmermaid.WithEngineOptions(cfg.Engine.Options))
	}
	if cfg.Engine.Script != "" {
		opts = append(opts, mdmermaid.WithEngineScript(cfg.Engine.Script))
	}
	if cfg.Engine.URL != "" {
		opts = append(opts, mdmermaid.WithEngineURL(cfg.Engine.URL))
	}
	if cfg.Browser.Bin != "" {
		opts = append(opts, mdmermaid.WithBrowserBin(cfg.Browser.Bin))
	}

	return opts, nil
}

// newRenderer builds a Renderer from the merged config.
func newRenderer(cfg *config.Config, logger *log.Logger) (*mdmermaid.Renderer, error) {
	opts, err := rendererOptions(cfg, logger)
	if err != nil {
		return nil, err
	}
	return mdmermaid.New(opts...)
}

// resolveCSSContent resolves the stylesheet for standalone output.
// Priority: --no-style > --style flag > config output.style > default style.
// A value ending in .css is read from disk, anything else is an embedded
// style name.
func resolveCSSContent(flagStyle string, noStyle bool, cfg *config.Config) (string, error) {
	if noStyle {
		return "", nil
	}

	style := flagStyle
	if style == "" {
		style = cfg.Output.Style
	}
	if style == "" {
		style = assets.DefaultStyleName
	}

	if strings.HasSuffix(style, ".css") {
		content, err := os.ReadFile(style) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		return string(content), nil
	}

	css, err := assets.LoadStyle(style)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return "", fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.StyleNames()))
		}
		return "", err
	}
	return css, nil
}

// withHint appends an actionable hint to browser and engine failures.
func withHint(err error, cfg *config.Config) error {
	switch {
	case errors.Is(err, mdmermaid.ErrBrowserConnect):
		return fmt.Errorf("%w%s", err, hints.ForBrowserConnect(cfg.Browser.Bin))
	case errors.Is(err, mdmermaid.ErrEngineScript), errors.Is(err, mdmermaid.ErrScriptInject):
		return fmt.Errorf("%w%s", err, hints.ForEngineScript())
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	}
	return err
}
