package main

// Notes:
// - mergeEngineFlags: CLI wins over config, and the merged config is validated
// - rendererOptions is checked through mdmermaid.New, the only consumer
// - Config files are written to t.TempDir() and loaded by path

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	mdmermaid "github.com/alnah/go-mdmermaid"
	"github.com/alnah/go-mdmermaid/internal/assets"
	"github.com/alnah/go-mdmermaid/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadConfig - Config loading with hints
// ---------------------------------------------------------------------------

func TestLoadConfig_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") unexpected error: %v", err)
	}
	if cfg.Language != "" || cfg.Theme != "" {
		t.Errorf("empty name should give defaults, got %+v", cfg)
	}
}

func TestLoadConfig_FromPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "site.yaml")
	writeFile(t, path, "theme: forest\nviewport:\n  width: 800\n")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() unexpected error: %v", err)
	}
	if cfg.Theme != "forest" || cfg.Viewport.Width != 800 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_NotFoundHasHint(t *testing.T) {
	t.Parallel()

	_, err := loadConfig("definitely-not-a-config-name")
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Fatalf("loadConfig() error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), "hint:") {
		t.Errorf("error should carry a hint, got %q", err)
	}
}

// ---------------------------------------------------------------------------
// TestMergeEngineFlags - CLI overrides config
// ---------------------------------------------------------------------------

func TestMergeEngineFlags(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Theme: "forest", Timeout: "10s"}
	cfg.Viewport.Width = 300

	f := &engineFlags{theme: "dark", height: 900, engineURL: "https://example.com/mermaid.js"}
	if err := mergeEngineFlags(f, cfg); err != nil {
		t.Fatalf("mergeEngineFlags() unexpected error: %v", err)
	}

	if cfg.Theme != "dark" {
		t.Errorf("Theme = %q, want dark (flag wins)", cfg.Theme)
	}
	if cfg.Timeout != "10s" {
		t.Errorf("Timeout = %q, want 10s (config kept)", cfg.Timeout)
	}
	if cfg.Viewport.Width != 300 || cfg.Viewport.Height != 900 {
		t.Errorf("Viewport = %+v, want 300x900", cfg.Viewport)
	}
	if cfg.Engine.URL != "https://example.com/mermaid.js" {
		t.Errorf("Engine.URL = %q", cfg.Engine.URL)
	}
}

func TestMergeEngineFlags_Validates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags engineFlags
	}{
		{"bad timeout", engineFlags{timeout: "soon"}},
		{"language with colon", engineFlags{language: "a:b"}},
		{"huge width", engineFlags{width: config.MaxViewportSize + 1}},
		{"bad url", engineFlags{engineURL: "ftp://x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := mergeEngineFlags(&tt.flags, config.DefaultConfig())
			if exitCodeFor(err) != ExitUsage {
				t.Errorf("mergeEngineFlags() error = %v, want a usage error", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewRenderer - Config to library options
// ---------------------------------------------------------------------------

func TestNewRenderer(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Language: "diagram", Timeout: "5s"}
	cfg.Viewport.Height = 640
	cfg.Engine.Options = map[string]any{"securityLevel": "strict"}

	r, err := newRenderer(cfg, log.New(os.Stderr))
	if err != nil {
		t.Fatalf("newRenderer() unexpected error: %v", err)
	}
	if r.Language() != "diagram" {
		t.Errorf("Language() = %q, want diagram", r.Language())
	}
}

func TestNewRenderer_DefaultsWhenEmpty(t *testing.T) {
	t.Parallel()

	r, err := newRenderer(config.DefaultConfig(), log.New(os.Stderr))
	if err != nil {
		t.Fatalf("newRenderer() unexpected error: %v", err)
	}
	if r.Language() != mdmermaid.DefaultLanguage {
		t.Errorf("Language() = %q, want %q", r.Language(), mdmermaid.DefaultLanguage)
	}
}

// ---------------------------------------------------------------------------
// TestResolveCSSContent - Style resolution
// ---------------------------------------------------------------------------

func TestResolveCSSContent(t *testing.T) {
	t.Parallel()

	cssPath := filepath.Join(t.TempDir(), "site.css")
	writeFile(t, cssPath, "body { color: red; }")

	defaultCSS, err := assets.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		t.Fatalf("LoadStyle() unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		flag    string
		noStyle bool
		cfg     string
		want    string
	}{
		{"disabled", "", true, "minimal", ""},
		{"default style", "", false, "", defaultCSS},
		{"file from flag", cssPath, false, "minimal", "body { color: red; }"},
		{"file from config", "", false, cssPath, "body { color: red; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.DefaultConfig()
			cfg.Output.Style = tt.cfg

			got, err := resolveCSSContent(tt.flag, tt.noStyle, cfg)
			if err != nil {
				t.Fatalf("resolveCSSContent() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveCSSContent() = %.40q, want %.40q", got, tt.want)
			}
		})
	}
}

func TestResolveCSSContent_Errors(t *testing.T) {
	t.Parallel()

	_, err := resolveCSSContent("nope", false, config.DefaultConfig())
	if !errors.Is(err, assets.ErrStyleNotFound) {
		t.Errorf("unknown style error = %v, want ErrStyleNotFound", err)
	}
	if err != nil && !strings.Contains(err.Error(), "default") {
		t.Errorf("error should list available styles, got %q", err)
	}

	_, err = resolveCSSContent(filepath.Join(t.TempDir(), "missing.css"), false, config.DefaultConfig())
	if !errors.Is(err, ErrReadCSS) {
		t.Errorf("missing file error = %v, want ErrReadCSS", err)
	}
}

func TestResolveCSSContent_ConfigStyleIsNameOrPath(t *testing.T) {
	t.Parallel()

	// output.style accepts a style name or a .css path, never raw CSS
	cfg := config.DefaultConfig()
	cfg.Output.Style = "body { color: red }"

	got, err := resolveCSSContent("", false, cfg)
	if !errors.Is(err, assets.ErrStyleNotFound) {
		t.Errorf("resolveCSSContent() error = %v, want ErrStyleNotFound", err)
	}
	if strings.Contains(got, "color: red") {
		t.Errorf("raw CSS must not be used as content, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestWithHint - Actionable hints
// ---------------------------------------------------------------------------

func TestWithHint(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	tests := []struct {
		name     string
		err      error
		wantHint bool
	}{
		{"browser", mdmermaid.ErrBrowserConnect, true},
		{"engine script", mdmermaid.ErrEngineScript, true},
		{"timeout", context.DeadlineExceeded, true},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := withHint(tt.err, cfg)
			if !errors.Is(got, tt.err) {
				t.Errorf("withHint() should wrap the original error")
			}
			if strings.Contains(got.Error(), "hint:") != tt.wantHint {
				t.Errorf("withHint() = %q, wantHint %v", got, tt.wantHint)
			}
		})
	}
}
