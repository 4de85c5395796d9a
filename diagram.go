package mdmermaid

import (
	"maps"
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// KindDiagram is the node kind of a rendered diagram.
var KindDiagram = ast.NewNodeKind("Diagram")

// Diagram is a block node that replaced a diagram code block.
// Value holds the <img> element embedding the rendered SVG.
type Diagram struct {
	ast.BaseBlock

	Value   string
	Options map[string]string
	Failed  bool // Value embeds engine error text instead of a diagram
}

// NewDiagram returns a Diagram node. opts is copied.
func NewDiagram(value string, opts map[string]string, failed bool) *Diagram {
	return &Diagram{
		Value:   value,
		Options: maps.Clone(opts),
		Failed:  failed,
	}
}

// Kind implements ast.Node.
func (n *Diagram) Kind() ast.NodeKind {
	return KindDiagram
}

// IsRaw implements ast.Node.
func (n *Diagram) IsRaw() bool {
	return true
}

// Dump implements ast.Node.
func (n *Diagram) Dump(source []byte, level int) {
	keys := make([]string, 0, len(n.Options))
	for k := range n.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + n.Options[k]
	}

	ast.DumpHelper(n, source, level, map[string]string{
		"Failed":  strconv.FormatBool(n.Failed),
		"Options": strings.Join(pairs, "&"),
	}, nil)
}

// DiagramHTMLRenderer writes Diagram nodes as their image tag.
type DiagramHTMLRenderer struct{}

// NewDiagramHTMLRenderer returns a renderer for KindDiagram nodes.
func NewDiagramHTMLRenderer() renderer.NodeRenderer {
	return &DiagramHTMLRenderer{}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *DiagramHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindDiagram, r.renderDiagram)
}

// renderDiagram writes the tag verbatim. It is produced by ImageTag, so it is
// safe regardless of goldmark's unsafe setting.
func (r *DiagramHTMLRenderer) renderDiagram(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*Diagram)
	_, _ = w.WriteString(n.Value)
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}
