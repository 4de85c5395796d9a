package mdmermaid

import (
	"maps"
	"time"

	"github.com/charmbracelet/log"
)

// rendererConfig holds Renderer settings fixed at construction.
type rendererConfig struct {
	language      string
	theme         string
	viewport      Viewport
	engineOptions map[string]any
	timeout       time.Duration
	browserBin    string
	engineScript  string
	engineURL     string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLanguage sets the fence tag selecting diagram blocks (default "mermaid").
func WithLanguage(lang string) Option {
	return func(r *Renderer) {
		r.cfg.language = lang
	}
}

// WithTheme sets the engine theme (default "default").
func WithTheme(theme string) Option {
	return func(r *Renderer) {
		r.cfg.theme = theme
	}
}

// WithViewport sets the page viewport used for every diagram (default 200x200).
func WithViewport(v Viewport) Option {
	return func(r *Renderer) {
		r.cfg.viewport = v
	}
}

// WithEngineOptions replaces the options passed to the engine's initialize call.
// The map is copied; the theme is always set from WithTheme.
func WithEngineOptions(opts map[string]any) Option {
	return func(r *Renderer) {
		r.cfg.engineOptions = maps.Clone(opts)
	}
}

// WithTimeout bounds each diagram render (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithBrowserBin launches the given Chrome/Chromium binary instead of the
// one rod locates or downloads.
func WithBrowserBin(path string) Option {
	return func(r *Renderer) {
		r.cfg.browserBin = path
	}
}

// WithEngineScript injects the engine bundle from a local file.
// Takes precedence over WithEngineURL.
func WithEngineScript(path string) Option {
	return func(r *Renderer) {
		r.cfg.engineScript = path
	}
}

// WithEngineURL injects the engine bundle from a URL (default DefaultEngineURL).
func WithEngineURL(url string) Option {
	return func(r *Renderer) {
		r.cfg.engineURL = url
	}
}

// WithLogger sets the logger. Without it, nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// withBackend injects a render backend (used by tests).
func withBackend(b backend) Option {
	return func(r *Renderer) {
		r.backend = b
	}
}
