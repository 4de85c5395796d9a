// Package mdmermaid renders Mermaid diagrams embedded in Markdown to SVG and
// inlines them as images.
//
// # Quick Start
//
// Fenced code blocks tagged "mermaid" are replaced with an <img> whose source
// is a base64 SVG data URI:
//
//	r, err := mdmermaid.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := r.ConvertMarkdown(ctx, []byte("```mermaid\ngraph TD; A-->B\n```"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.HTML)
//
// # Annotations
//
// The info string of a block may carry image attributes after a colon:
//
//	```mermaid:width=300&alt=Flow
//
// Each key=value pair is emitted twice on the <img>: as key="value" and as
// data-key="value". Keys are emitted in sorted order.
//
// # Working on a goldmark tree
//
// Renderer.Transform mutates an already parsed tree. Register Extension so the
// resulting Diagram nodes render:
//
//	md := goldmark.New(goldmark.WithExtensions(&mdmermaid.Extension{}))
//	doc := md.Parser().Parse(text.NewReader(src))
//	report, err := r.Transform(ctx, doc, src)
//	...
//	err = md.Renderer().Render(w, src, doc)
//
// Extension with a non-nil Renderer runs Transform during parsing instead; see
// TransformError for retrieving failures.
//
// # Rendering
//
// Each Transform call with at least one diagram launches one headless Chrome
// (go-rod), renders every diagram concurrently in its own page, and closes the
// browser before returning. Documents without diagrams never start a browser.
//
// The engine is loaded from DefaultEngineURL unless WithEngineScript points at
// a local bundle. Diagram syntax errors do not fail the call: the error text
// is embedded in place of the image and counted in Report.EngineErrors.
//
// # Errors
//
// Browser failures wrap ErrBrowserConnect, ErrPageCreate, ErrPageLoad,
// ErrScriptInject or ErrRenderEval and can be tested with errors.Is.
package mdmermaid
