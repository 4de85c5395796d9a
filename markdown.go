package mdmermaid

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-mdmermaid/internal/pipeline"
)

// ConvertResult is the output of ConvertMarkdown.
type ConvertResult struct {
	HTML   []byte  // HTML fragment with diagrams embedded
	Title  string  // Text of the first level-1 heading, empty if none
	Report *Report // Diagram counts for the conversion
}

// ConvertMarkdown parses markdown, renders its diagram blocks, and returns the
// resulting HTML fragment. Ordinary code blocks are syntax highlighted and
// raw HTML in the source is escaped.
//
// On a render failure the returned result still holds the HTML: blocks that
// failed stay code blocks, the others are embedded.
func (r *Renderer) ConvertMarkdown(ctx context.Context, markdown []byte) (*ConvertResult, error) {
	if strings.TrimSpace(string(markdown)) == "" {
		return nil, ErrEmptyMarkdown
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The node renderer alone; Transform runs explicitly below with ctx.
	md := pipeline.NewGoldmark(&Extension{})
	doc := md.Parser().Parse(text.NewReader(markdown))

	report, renderErr := r.Transform(ctx, doc, markdown)

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, markdown, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	return &ConvertResult{
		HTML:   buf.Bytes(),
		Title:  pipeline.FirstHeading(doc, markdown),
		Report: report,
	}, renderErr
}
