package pipeline

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Block is a fenced code block selected for rendering.
// Options is attached here rather than on the AST node so the tree stays
// untouched until substitution.
type Block struct {
	Node       *ast.FencedCodeBlock
	Definition string
	Options    Options
}

// Line returns the 1-based source line of the block's first content line,
// or 0 when the block is empty.
func (b *Block) Line(source []byte) int {
	lines := b.Node.Lines()
	if lines.Len() == 0 {
		return 0
	}
	return bytes.Count(source[:lines.At(0).Start], []byte("\n")) + 1
}

// SelectBlocks walks doc in document order and returns every fenced code
// block whose info string selects the given language.
// Returns nil when nothing matches.
func SelectBlocks(doc ast.Node, source []byte, language string) []*Block {
	var blocks []*Block

	// The callback never returns an error, so Walk cannot fail.
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fb, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		opts, selected := ParseAnnotation(infoString(fb, source), language)
		if !selected {
			return ast.WalkSkipChildren, nil
		}

		blocks = append(blocks, &Block{
			Node:       fb,
			Definition: rawContent(fb, source),
			Options:    opts,
		})
		return ast.WalkSkipChildren, nil
	})

	return blocks
}

// infoString returns the trimmed text after the opening fence.
// Unlike FencedCodeBlock.Language it keeps everything past the first space,
// so "mermaid: width=100" still carries its options.
func infoString(fb *ast.FencedCodeBlock, source []byte) string {
	if fb.Info == nil {
		return ""
	}
	return strings.TrimSpace(string(fb.Info.Segment.Value(source)))
}

// rawContent concatenates the block's lines as they appear in source.
func rawContent(fb *ast.FencedCodeBlock, source []byte) string {
	var sb strings.Builder
	lines := fb.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(source))
	}
	return sb.String()
}
