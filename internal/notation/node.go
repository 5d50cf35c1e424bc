package notation

// Node is one parsed object. A Node with non-empty Text is a leaf; otherwise
// it is a list whose Rows hold its children. A list with no rows is an empty
// placeholder.
type Node struct {
	Text string
	Rows [][]*Node
}

// Leaf returns a tagged leaf node.
func Leaf(text string) *Node {
	return &Node{Text: text}
}

// List returns a list node with the given rows.
func List(rows ...[]*Node) *Node {
	return &Node{Rows: rows}
}

// Row is a convenience for building a row literal.
func Row(cells ...*Node) []*Node {
	return cells
}

// IsLeaf reports whether n carries text.
func (n *Node) IsLeaf() bool {
	return n.Text != ""
}

// IsPlaceholder reports whether n has neither text nor rows.
func (n *Node) IsPlaceholder() bool {
	return n.Text == "" && len(n.Rows) == 0
}

// Depth returns the number of levels below n; a leaf or placeholder has depth 0.
func (n *Node) Depth() int {
	deepest := 0
	for _, row := range n.Rows {
		for _, cell := range row {
			if d := cell.Depth() + 1; d > deepest {
				deepest = d
			}
		}
	}
	return deepest
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 1
	for _, row := range n.Rows {
		for _, cell := range row {
			total += cell.Count()
		}
	}
	return total
}

// Equal reports whether a and b have the same shape, the same row and cell
// ordering and identical leaf text.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Text != b.Text || len(a.Rows) != len(b.Rows) {
		return false
	}
	for i := range a.Rows {
		if len(a.Rows[i]) != len(b.Rows[i]) {
			return false
		}
		for j := range a.Rows[i] {
			if !Equal(a.Rows[i][j], b.Rows[i][j]) {
				return false
			}
		}
	}
	return true
}
