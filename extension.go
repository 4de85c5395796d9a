package mdmermaid

import (
	"context"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Parser context keys shared between the caller and the AST transformer.
var (
	contextKey = parser.NewContextKey()
	errorKey   = parser.NewContextKey()
	reportKey  = parser.NewContextKey()
)

// Extension plugs diagram rendering into a goldmark.Markdown.
//
// With a nil Renderer only the Diagram node renderer is registered, which is
// enough to render trees already processed by Renderer.Transform.
//
// AST transformers cannot return errors, so failures are stored in the
// parser context. Pass one with parser.WithContext and inspect it afterwards:
//
//	pc := mdmermaid.WithContext(parser.NewContext(), ctx)
//	err := md.Convert(src, &buf, parser.WithContext(pc))
//	if err == nil {
//	    err = mdmermaid.TransformError(pc)
//	}
type Extension struct {
	Renderer *Renderer
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	if e.Renderer != nil {
		m.Parser().AddOptions(
			parser.WithASTTransformers(
				util.Prioritized(&diagramTransformer{renderer: e.Renderer}, 100),
			),
		)
	}
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewDiagramHTMLRenderer(), 100),
		),
	)
}

// WithContext stores ctx in pc for the transformer. Returns pc.
func WithContext(pc parser.Context, ctx context.Context) parser.Context {
	pc.Set(contextKey, ctx)
	return pc
}

// TransformError returns the error recorded by the transformer, if any.
func TransformError(pc parser.Context) error {
	err, _ := pc.Get(errorKey).(error)
	return err
}

// TransformReport returns the report recorded by the transformer, or nil if
// the transformer did not run.
func TransformReport(pc parser.Context) *Report {
	report, _ := pc.Get(reportKey).(*Report)
	return report
}

// diagramTransformer runs Renderer.Transform during parsing.
type diagramTransformer struct {
	renderer *Renderer
}

// Transform implements parser.ASTTransformer.
func (t *diagramTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	ctx, _ := pc.Get(contextKey).(context.Context)
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := t.renderer.Transform(ctx, doc, reader.Source())
	pc.Set(reportKey, report)
	if err != nil {
		pc.Set(errorKey, err)
	}
}
