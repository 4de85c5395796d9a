package mdmermaid

import (
	"fmt"
	"strings"
	"time"
)

// Defaults applied when an option is not given.
const (
	DefaultLanguage = "mermaid"
	DefaultTheme    = "default"
	DefaultTimeout  = 30 * time.Second

	// DefaultEngineURL is injected when no local engine script is configured.
	DefaultEngineURL = "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"
)

// Viewport bounds in CSS pixels.
const (
	DefaultViewportSize = 200
	MinViewportSize     = 1
	MaxViewportSize     = 10000
)

// Viewport is the browser viewport each diagram page is rendered in.
type Viewport struct {
	Width  int
	Height int
}

// DefaultViewport returns the 200x200 viewport used when none is configured.
func DefaultViewport() Viewport {
	return Viewport{Width: DefaultViewportSize, Height: DefaultViewportSize}
}

// Validate checks that both sides are within bounds.
func (v Viewport) Validate() error {
	if v.Width < MinViewportSize || v.Width > MaxViewportSize ||
		v.Height < MinViewportSize || v.Height > MaxViewportSize {
		return fmt.Errorf("%w: %dx%d (each side must be between %d and %d)",
			ErrInvalidViewport, v.Width, v.Height, MinViewportSize, MaxViewportSize)
	}
	return nil
}

// String formats the viewport as WIDTHxHEIGHT.
func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// DefaultEngineOptions returns the configuration passed to mermaid.initialize
// when none is given: loose security and SVG-only flowchart labels, so the
// result renders inside an <img>.
func DefaultEngineOptions() map[string]any {
	return map[string]any{
		"securityLevel": "loose",
		"flowchart": map[string]any{
			"htmlLabels": false,
		},
	}
}

// RenderResult is the outcome of rendering one diagram inside the page.
// Exactly one of SVG and Err is meaningful: Err is set when the engine threw,
// and carries the exception's text. EngineFailed is set by the session for
// every in-page exception, including ones with empty text.
type RenderResult struct {
	SVG          string
	Err          string
	EngineFailed bool
}

// Failed reports whether the engine raised an error for this diagram.
func (r RenderResult) Failed() bool {
	return r.EngineFailed || r.Err != ""
}

// Payload returns the text that gets embedded in the image reference:
// the SVG markup, or the error text when rendering failed.
func (r RenderResult) Payload() string {
	if r.Failed() {
		return r.Err
	}
	return r.SVG
}

// Report summarizes one Transform call.
type Report struct {
	Selected     int // Blocks matching the language tag
	Rendered     int // Blocks replaced with a Diagram node
	EngineErrors int // Replaced blocks whose payload is engine error text
}

// validateLanguage rejects tags the annotation grammar could never match.
func validateLanguage(lang string) error {
	if strings.TrimSpace(lang) == "" || strings.ContainsAny(lang, ": \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
	}
	return nil
}
