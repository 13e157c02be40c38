package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings become bold
// lines sized by depth and thematic breaks start a new page.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	out := newLayout(filename)
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			out.heading(string(node.Text(src)), node.Level)
		case *ast.ThematicBreak:
			out.breakPage()
		case *ast.List:
			layoutList(out, node, src, 1)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				out.line(string(seg.Value(src)), bodySize, false, 0)
			}
			out.gap(paragraphGap)
		default:
			if t := extractText(n, src); t != "" {
				out.paragraph(t, 0)
			}
		}
	}
	return out.finish(), nil
}

// layoutList writes each item indented by depth, recursing into nested lists.
func layoutList(out *layout, list *ast.List, src []byte, depth int) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if nested, ok := c.(*ast.List); ok {
				layoutList(out, nested, src, depth+1)
				continue
			}
			if t := extractText(c, src); t != "" {
				out.paragraph(t, listIndent*float64(depth))
			}
		}
	}
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.ChildCount() == 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		} else {
			buf.WriteString(extractText(c, src))
			if c.Type() == ast.TypeBlock {
				buf.WriteByte(' ')
			}
		}
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}
