package mdmermaid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark/ast"

	"github.com/alnah/go-mdmermaid/internal/pipeline"
)

// Renderer replaces diagram code blocks in a goldmark AST with embedded SVG
// images. Create with New. A Renderer holds no browser between calls: every
// Transform launches its own browser and closes it before returning, so a
// Renderer is safe for concurrent use.
type Renderer struct {
	cfg     rendererConfig
	backend backend
	logger  *log.Logger
}

// New creates a Renderer with default configuration.
// Use options to customize behavior (e.g., WithTheme, WithViewport).
// Returns error if an option value is invalid.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			language:      DefaultLanguage,
			theme:         DefaultTheme,
			viewport:      DefaultViewport(),
			engineOptions: DefaultEngineOptions(),
			timeout:       DefaultTimeout,
			engineURL:     DefaultEngineURL,
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, err
	}

	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}

	// Create rod backend if not injected (e.g., by tests)
	if r.backend == nil {
		r.backend = newRodBackend(r.cfg)
	}

	return r, nil
}

// validate checks option values set by the caller.
func (r *Renderer) validate() error {
	if err := validateLanguage(r.cfg.language); err != nil {
		return err
	}
	if err := r.cfg.viewport.Validate(); err != nil {
		return err
	}
	if r.cfg.timeout <= 0 {
		return fmt.Errorf("%w: %s (must be positive)", ErrInvalidTimeout, r.cfg.timeout)
	}
	if r.cfg.theme == "" {
		r.cfg.theme = DefaultTheme
	}
	if r.cfg.engineURL == "" {
		r.cfg.engineURL = DefaultEngineURL
	}
	return nil
}

// Language returns the fence tag this Renderer selects.
func (r *Renderer) Language() string {
	return r.cfg.language
}

// renderOutcome is the per-block result of the fan-out.
type renderOutcome struct {
	result RenderResult
	tag    string
	err    error
}

// Transform renders every diagram block of doc and substitutes it in place
// with a Diagram node. source must be the bytes doc was parsed from.
//
// When doc has no diagram block, Transform returns immediately without
// launching a browser. Otherwise one browser is launched, all blocks are
// rendered concurrently, and the browser is closed before returning on every
// path.
//
// Engine errors (bad diagram syntax) do not fail the call: the error text is
// embedded in place of the diagram and counted in Report.EngineErrors.
// Browser failures are returned. Blocks that rendered before another block
// failed keep their substitution.
func (r *Renderer) Transform(ctx context.Context, doc ast.Node, source []byte) (report *Report, err error) {
	blocks := pipeline.SelectBlocks(doc, source, r.cfg.language)
	report = &Report{Selected: len(blocks)}
	if len(blocks) == 0 {
		return report, nil
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	start := time.Now()
	r.logger.Debug("launching browser", "diagrams", len(blocks))

	sess, err := r.backend.Open(ctx)
	if err != nil {
		return report, fmt.Errorf("opening render session: %w", err)
	}
	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("closing render session: %w", closeErr))
		}
	}()

	outcomes := r.renderAll(ctx, sess, blocks)

	// Substitution is sequential: adjacent blocks share sibling links.
	var errs []error
	for i, b := range blocks {
		line := b.Line(source)
		o := outcomes[i]
		if o.err != nil {
			errs = append(errs, fmt.Errorf("diagram at line %d: %w", line, o.err))
			continue
		}

		replaceBlock(b, o)
		report.Rendered++
		if o.result.Failed() {
			report.EngineErrors++
			r.logger.Warn("diagram rendered with engine error", "line", line, "error", o.result.Err)
		}
	}

	r.logger.Debug("diagrams rendered",
		"rendered", report.Rendered,
		"engineErrors", report.EngineErrors,
		"elapsed", time.Since(start).Round(time.Millisecond))

	return report, errors.Join(errs...)
}

// renderAll renders every block concurrently. Each goroutine writes only its
// own slot of the returned slice.
func (r *Renderer) renderAll(ctx context.Context, sess session, blocks []*pipeline.Block) []renderOutcome {
	outcomes := make([]renderOutcome, len(blocks))
	cfg := r.renderConfig()

	var wg sync.WaitGroup
	for i, b := range blocks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					outcomes[i] = renderOutcome{err: fmt.Errorf("internal error: %v", p)}
				}
			}()
			outcomes[i] = renderBlock(ctx, sess, b, cfg)
		}()
	}
	wg.Wait()

	return outcomes
}

// renderBlock renders one definition and encodes the payload as an image tag.
func renderBlock(ctx context.Context, sess session, b *pipeline.Block, cfg renderConfig) renderOutcome {
	result, err := sess.Render(ctx, b.Definition, cfg)
	if err != nil {
		return renderOutcome{err: err}
	}
	return renderOutcome{
		result: result,
		tag:    pipeline.ImageTag(result.Payload(), b.Options),
	}
}

// renderConfig snapshots the settings sent with every render call.
func (r *Renderer) renderConfig() renderConfig {
	return renderConfig{
		Theme:         r.cfg.theme,
		Viewport:      r.cfg.viewport,
		EngineOptions: r.cfg.engineOptions,
		Timeout:       r.cfg.timeout,
	}
}

// replaceBlock swaps the fenced code block for a Diagram node carrying the
// rendered image tag.
func replaceBlock(b *pipeline.Block, o renderOutcome) {
	d := NewDiagram(o.tag, b.Options, o.result.Failed())
	d.SetLines(b.Node.Lines())
	d.SetBlankPreviousLines(b.Node.HasBlankPreviousLines())

	if parent := b.Node.Parent(); parent != nil {
		parent.ReplaceChild(parent, b.Node, d)
	}
}
