package boxtree

import "github.com/muurk/boxes/internal/notation"

// WidthFunc returns the cached text width for a leaf label.
type WidthFunc func(text string) float64

// Build creates a single-root tree from a parsed document. Geometry is left
// zero until the next layout pass.
func Build(n *notation.Node, width WidthFunc) *Tree {
	t := New()
	if n == nil {
		return t
	}
	root := t.build(n, NoBox, width)
	t.roots = append(t.roots, root.ID)
	return t
}

func (t *Tree) build(n *notation.Node, under ID, width WidthFunc) *Box {
	b := t.alloc(under)
	if n.Text != "" {
		b.Text = n.Text
		if width != nil {
			b.TextWidth = width(n.Text)
		}
		return b
	}
	for ri, cells := range n.Rows {
		row := &Row{Cells: make([]ID, 0, len(cells))}
		b.Rows = append(b.Rows, row)
		for ci, cn := range cells {
			c := t.build(cn, b.ID, width)
			c.Idx, c.RowIdx = ci, ri
			row.Cells = append(row.Cells, c.ID)
		}
	}
	return b
}

// Node converts the subtree rooted at id back to notation form.
func (t *Tree) Node(id ID) *notation.Node {
	b := t.Box(id)
	if b == nil {
		return nil
	}
	if b.Text != "" {
		return notation.Leaf(b.Text)
	}
	n := &notation.Node{}
	for _, row := range b.Rows {
		cells := make([]*notation.Node, 0, len(row.Cells))
		for _, c := range row.Cells {
			cells = append(cells, t.Node(c))
		}
		n.Rows = append(n.Rows, cells)
	}
	return n
}

// String prints the document root in notation form, or "" when empty.
func (t *Tree) String() string {
	if t.Empty() {
		return ""
	}
	return notation.Print(t.Node(t.Root()))
}
