package mdmermaid

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdmermaid/internal/assets"
	"github.com/alnah/go-mdmermaid/internal/fileutil"
)

// backend opens render sessions. One session is opened per Transform call.
type backend interface {
	Open(ctx context.Context) (session, error)
}

// session renders diagrams against one browser process.
// Render is safe for concurrent use; Close must be called exactly once.
type session interface {
	Render(ctx context.Context, definition string, cfg renderConfig) (RenderResult, error)
	Close() error
}

// Compile-time interface checks
var (
	_ backend = (*rodBackend)(nil)
	_ session = (*rodSession)(nil)
)

// renderConfig holds the per-diagram settings sent to a session.
type renderConfig struct {
	Theme         string
	Viewport      Viewport
	EngineOptions map[string]any
	Timeout       time.Duration
}

// diagramClass marks the element the engine renders in place.
const diagramClass = "mermaid"

// renderScript runs inside the harness page. Engine exceptions are returned
// as data so that a bad definition becomes visible text in the output instead
// of failing the document. Anything thrown before the try block (no
// #container) surfaces as an evaluation error.
const renderScript = `async (definition, theme, engineOptions, diagramClass) => {
	const container = document.querySelector("#container");
	container.innerHTML = "";
	const el = document.createElement("div");
	el.className = diagramClass;
	el.textContent = definition;
	container.appendChild(el);

	try {
		const engine = window.mermaid;
		engine.initialize({ ...engineOptions, theme, startOnLoad: false });
		if (typeof engine.run === "function") {
			await engine.run({ nodes: [el] });
		} else {
			engine.init(undefined, el);
		}
		return { svg: container.querySelector("." + diagramClass).innerHTML };
	} catch (e) {
		return { failed: true, error: String(e) };
	}
}`

// evalResult mirrors the object returned by renderScript.
type evalResult struct {
	SVG    string `json:"svg"`
	Failed bool   `json:"failed"`
	Error  string `json:"error"`
}

// emptyEngineError stands in for an exception whose text is empty
// (e.g. `throw ""`), so the embedded payload is never blank.
const emptyEngineError = "engine raised an error without a message"

// toRenderResult converts the page's answer. The failed flag decides the
// outcome; the error text alone cannot, since it may be empty.
func (e evalResult) toRenderResult() RenderResult {
	if !e.Failed {
		return RenderResult{SVG: e.SVG}
	}
	msg := e.Error
	if msg == "" {
		msg = emptyEngineError
	}
	return RenderResult{Err: msg, EngineFailed: true}
}

// rodBackend launches headless Chrome via go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodBackend struct {
	browserBin   string
	engineScript string
	engineURL    string
}

// newRodBackend creates a rodBackend from renderer settings.
func newRodBackend(cfg rendererConfig) *rodBackend {
	return &rodBackend{
		browserBin:   cfg.browserBin,
		engineScript: cfg.engineScript,
		engineURL:    cfg.engineURL,
	}
}

// Open launches a browser, writes the harness page, and loads the engine
// script source. Everything acquired is released if a later step fails.
func (b *rodBackend) Open(ctx context.Context) (session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Read the local bundle before launching so a bad path costs no browser.
	var engineJS string
	if b.engineScript != "" {
		data, err := os.ReadFile(b.engineScript) // #nosec G304 -- user-provided engine path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEngineScript, err)
		}
		engineJS = string(data)
	}

	harnessPath, cleanupHarness, err := fileutil.WriteTempFile(assets.Harness(), "html")
	if err != nil {
		return nil, fmt.Errorf("writing render harness: %w", err)
	}

	// Containers commonly lack the kernel features Chrome's sandbox needs.
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Set(flags.Flag("disable-setuid-sandbox"))
	if b.browserBin != "" {
		l = l.Bin(b.browserBin)
	}

	u, err := l.Launch()
	if err != nil {
		cleanupHarness()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		cleanupHarness()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	return &rodSession{
		browser:        browser,
		launcher:       l,
		harnessURL:     "file://" + harnessPath,
		cleanupHarness: cleanupHarness,
		engineJS:       engineJS,
		engineURL:      b.engineURL,
	}, nil
}

// rodSession renders diagrams in fresh pages of one browser.
type rodSession struct {
	browser        *rod.Browser
	launcher       *launcher.Launcher
	harnessURL     string
	cleanupHarness func()
	engineJS       string
	engineURL      string

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Render opens an isolated page, loads the harness and engine, and evaluates
// the definition. The page is closed before returning on every path.
//
// Go errors are returned only for failures outside the page's script context
// (page creation, navigation, injection, protocol). Engine exceptions come
// back in RenderResult.Err.
func (s *rodSession) Render(ctx context.Context, definition string, cfg renderConfig) (RenderResult, error) {
	if s.closed.Load() {
		return RenderResult{}, ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return RenderResult{}, err
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return RenderResult{}, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	// Bound every page operation by ctx and the per-diagram timeout
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	p := page.Context(ctx)

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.Viewport.Width,
		Height:            cfg.Viewport.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return RenderResult{}, fmt.Errorf("%w: setting viewport: %v", ErrPageLoad, err)
	}

	if err := p.Navigate(s.harnessURL); err != nil {
		return RenderResult{}, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := p.WaitLoad(); err != nil {
		return RenderResult{}, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := s.injectEngine(p); err != nil {
		return RenderResult{}, err
	}

	res, err := p.Eval(renderScript, definition, cfg.Theme, cfg.EngineOptions, diagramClass)
	if err != nil {
		return RenderResult{}, fmt.Errorf("%w: %v", ErrRenderEval, err)
	}

	var out evalResult
	if err := res.Value.Unmarshal(&out); err != nil {
		return RenderResult{}, fmt.Errorf("%w: decoding result: %v", ErrRenderEval, err)
	}

	return out.toRenderResult(), nil
}

// injectEngine adds the engine bundle to the page, inline when a local
// script was loaded and by reference otherwise.
func (s *rodSession) injectEngine(p *rod.Page) error {
	var err error
	if s.engineJS != "" {
		err = p.AddScriptTag("", s.engineJS)
	} else {
		err = p.AddScriptTag(s.engineURL, "")
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScriptInject, err)
	}
	return nil
}

// Close terminates the browser process and removes the harness file.
// Safe to call more than once; later calls return the first result.
func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		var errs []error
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing browser: %w", err))
			// Make sure the process does not outlive us
			s.launcher.Kill()
		}
		s.launcher.Cleanup()
		s.cleanupHarness()

		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
