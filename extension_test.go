package mdmermaid

// Notes:
// - Covers the goldmark integration: Extension, Diagram node rendering,
//   ConvertMarkdown and Diagnose, all against mockSession (see converter_test.go)

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
)

// ---------------------------------------------------------------------------
// TestExtension - Transformer and node renderer
// ---------------------------------------------------------------------------

func TestExtension_TransformsDuringParse(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t, &mockSession{})
	md := goldmark.New(goldmark.WithExtensions(&Extension{Renderer: r}))

	pc := WithContext(parser.NewContext(), context.Background())
	var buf bytes.Buffer
	if err := md.Convert([]byte("```mermaid:alt=flow\ngraph TD\n```\n"), &buf, parser.WithContext(pc)); err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if err := TransformError(pc); err != nil {
		t.Errorf("TransformError() = %v, want nil", err)
	}
	report := TransformReport(pc)
	if report == nil || report.Rendered != 1 {
		t.Errorf("TransformReport() = %+v, want 1 rendered", report)
	}

	payloads := imagePayloads(t, buf.String())
	if len(payloads) != 1 || payloads[0] != "<svg>graph TD</svg>" {
		t.Errorf("payloads = %q", payloads)
	}
	if !strings.Contains(buf.String(), `alt="flow"`) {
		t.Errorf("alt attribute missing from %q", buf.String())
	}
}

func TestExtension_RecordsError(t *testing.T) {
	t.Parallel()

	b := &mockBackend{err: ErrBrowserConnect}
	r, err := New(withBackend(b))
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	md := goldmark.New(goldmark.WithExtensions(&Extension{Renderer: r}))

	pc := parser.NewContext()
	var buf bytes.Buffer
	if err := md.Convert([]byte("```mermaid\npie\n```\n"), &buf, parser.WithContext(pc)); err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if !errors.Is(TransformError(pc), ErrBrowserConnect) {
		t.Errorf("TransformError() = %v, want ErrBrowserConnect", TransformError(pc))
	}
	if !strings.Contains(buf.String(), "<code") {
		t.Errorf("failed block should render as code, got %q", buf.String())
	}
}

func TestExtension_RendererOnly(t *testing.T) {
	t.Parallel()

	md := goldmark.New(goldmark.WithExtensions(&Extension{}))
	pc := parser.NewContext()

	var buf bytes.Buffer
	if err := md.Convert([]byte("```mermaid\npie\n```\n"), &buf, parser.WithContext(pc)); err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if TransformReport(pc) != nil {
		t.Error("no transformer should run without a Renderer")
	}
	if strings.Contains(buf.String(), "<img") {
		t.Errorf("block should stay code, got %q", buf.String())
	}
}

func TestDiagram_RenderedVerbatim(t *testing.T) {
	t.Parallel()

	d := NewDiagram(`<img class="mermaid" src="x" />`, map[string]string{"a": "1"}, false)
	if d.Kind() != KindDiagram || !d.IsRaw() {
		t.Errorf("Kind()/IsRaw() = %v/%v", d.Kind(), d.IsRaw())
	}

	opts := map[string]string{"k": "v"}
	d = NewDiagram("x", opts, true)
	opts["k"] = "changed"
	if d.Options["k"] != "v" {
		t.Error("NewDiagram should copy options")
	}
}

// ---------------------------------------------------------------------------
// TestConvertMarkdown - Full markdown to HTML conversion
// ---------------------------------------------------------------------------

func TestConvertMarkdown(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t, &mockSession{})
	source := "# Release *Plan*\n\nSome <b>raw</b> text.\n\n```mermaid\ngraph LR\n```\n\n```go\nx := 1\n```\n"

	result, err := r.ConvertMarkdown(context.Background(), []byte(source))
	if err != nil {
		t.Fatalf("ConvertMarkdown() unexpected error: %v", err)
	}

	html := string(result.HTML)
	if result.Title != "Release Plan" {
		t.Errorf("Title = %q, want %q", result.Title, "Release Plan")
	}
	if result.Report.Rendered != 1 {
		t.Errorf("Rendered = %d, want 1", result.Report.Rendered)
	}
	if len(imagePayloads(t, html)) != 1 {
		t.Errorf("expected one diagram image in %q", html)
	}
	if strings.Contains(html, "<b>raw</b>") {
		t.Error("raw HTML from the source should not be emitted")
	}
	if !strings.Contains(html, `class="chroma"`) {
		t.Error("ordinary code blocks should be highlighted")
	}
}

func TestConvertMarkdown_Empty(t *testing.T) {
	t.Parallel()

	r, b := newTestRenderer(t, &mockSession{})

	for _, input := range []string{"", "  \n\t\n"} {
		_, err := r.ConvertMarkdown(context.Background(), []byte(input))
		if !errors.Is(err, ErrEmptyMarkdown) {
			t.Errorf("ConvertMarkdown(%q) error = %v, want ErrEmptyMarkdown", input, err)
		}
	}
	if b.opens.Load() != 0 {
		t.Error("empty input should not open a session")
	}
}

func TestConvertMarkdown_ReturnsHTMLOnRenderError(t *testing.T) {
	t.Parallel()

	sess := &mockSession{
		render: func(string) (RenderResult, error) { return RenderResult{}, ErrPageCreate },
	}
	r, _ := newTestRenderer(t, sess)

	result, err := r.ConvertMarkdown(context.Background(), []byte("text\n\n```mermaid\npie\n```\n"))
	if !errors.Is(err, ErrPageCreate) {
		t.Fatalf("ConvertMarkdown() error = %v, want ErrPageCreate", err)
	}
	if result == nil || !strings.Contains(string(result.HTML), "text") {
		t.Errorf("HTML should be returned alongside the error, got %+v", result)
	}
}

// ---------------------------------------------------------------------------
// TestDiagnose - Sample rendering
// ---------------------------------------------------------------------------

func TestDiagnose(t *testing.T) {
	t.Parallel()

	sess := &mockSession{}
	r, b := newTestRenderer(t, sess)
	dir := t.TempDir()

	res, err := r.Diagnose(context.Background(), dir)
	if err != nil {
		t.Fatalf("Diagnose() unexpected error: %v", err)
	}

	if b.opens.Load() != 1 || sess.closes.Load() != 1 {
		t.Errorf("opens/closes = %d/%d, want 1/1", b.opens.Load(), sess.closes.Load())
	}
	if len(sess.configs) != 1 || sess.configs[0].Viewport != (Viewport{Width: 2000, Height: 2000}) {
		t.Errorf("sample should render at 2000x2000, got %+v", sess.configs)
	}
	if !strings.Contains(sess.definitions[0], "A[Christmas]") {
		t.Errorf("unexpected sample definition %q", sess.definitions[0])
	}

	svg, err := os.ReadFile(filepath.Join(dir, DiagnoseSVGFile))
	if err != nil {
		t.Fatalf("reading svg: %v", err)
	}
	if string(svg) != res.Result.SVG {
		t.Errorf("svg file = %q, want %q", svg, res.Result.SVG)
	}

	html, err := os.ReadFile(res.HTMLPath)
	if err != nil {
		t.Fatalf("reading html: %v", err)
	}
	for _, attr := range []string{`width="small"`, `data-height="large"`} {
		if !strings.Contains(string(html), attr) {
			t.Errorf("html should contain %s, got %q", attr, html)
		}
	}
	if payloads := imagePayloads(t, string(html)); len(payloads) != 1 || payloads[0] != res.Result.SVG {
		t.Errorf("html payload = %q, want the svg", payloads)
	}
}

func TestDiagnose_Errors(t *testing.T) {
	t.Parallel()

	t.Run("render failure closes session", func(t *testing.T) {
		t.Parallel()

		sess := &mockSession{
			render: func(string) (RenderResult, error) { return RenderResult{}, ErrScriptInject },
		}
		r, _ := newTestRenderer(t, sess)

		_, err := r.Diagnose(context.Background(), t.TempDir())
		if !errors.Is(err, ErrScriptInject) {
			t.Errorf("Diagnose() error = %v, want ErrScriptInject", err)
		}
		if sess.closes.Load() != 1 {
			t.Errorf("session closed %d times, want 1", sess.closes.Load())
		}
	})

	t.Run("missing output directory", func(t *testing.T) {
		t.Parallel()

		r, _ := newTestRenderer(t, &mockSession{})
		_, err := r.Diagnose(context.Background(), filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrWriteOutput) {
			t.Errorf("Diagnose() error = %v, want ErrWriteOutput", err)
		}
	})
}
