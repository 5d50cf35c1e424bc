package importer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/muurk/boxes/internal/notation"
)

// Markdown imports Markdown files using goldmark.
type Markdown struct{}

// Import implements Importer.
func (m *Markdown) Import(r io.Reader, filename string) (*notation.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	o := newOutline(titleFromName(filename))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			o.heading(node.Level, plainText(node, src))
		case *ast.List:
			o.box(markdownList(node, src))
		case *ast.ThematicBreak, *ast.HTMLBlock:
		default:
			o.paragraph(plainText(n, src))
		}
	}
	return o.root, nil
}

// markdownList returns a box with one row per list item. Nested lists
// become boxes inside the item's row.
func markdownList(list *ast.List, src []byte) *notation.Node {
	box := notation.List()
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var row []*notation.Node
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				row = append(row, markdownList(sub, src))
				continue
			}
			row = append(row, words(plainText(c, src))...)
		}
		if len(row) > 0 {
			box.Rows = append(box.Rows, row)
		}
	}
	return box
}

func plainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	writeText(&buf, n, src)
	return buf.String()
}

func writeText(buf *bytes.Buffer, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Text:
		buf.Write(node.Segment.Value(src))
		if node.SoftLineBreak() || node.HardLineBreak() {
			buf.WriteByte(' ')
		}
	case *ast.String:
		buf.Write(node.Value)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			writeText(buf, c, src)
			if c.Type() == ast.TypeBlock {
				buf.WriteByte(' ')
			}
		}
	}
}
