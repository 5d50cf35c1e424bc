package boxtree

// ID addresses a Box inside a Tree. IDs are never reused within a tree.
type ID int32

// NoBox is the ID of no box at all.
const NoBox ID = -1

// Row is an ordered, non-empty group of sibling boxes laid out side by side.
type Row struct {
	X, Y, W, H float64
	Cells      []ID
}

// Box is one node of the document.
type Box struct {
	ID ID

	X, Y, W, H float64

	Level  int
	Under  ID
	Idx    int
	RowIdx int

	Text      string
	TextWidth float64

	Rows []*Row
}

// IsLeaf reports whether b carries text.
func (b *Box) IsLeaf() bool { return b.Text != "" }

// HasRows reports whether b owns at least one row.
func (b *Box) HasRows() bool { return len(b.Rows) > 0 }

// IsPlaceholder reports whether b has neither text nor rows.
func (b *Box) IsPlaceholder() bool { return b.Text == "" && len(b.Rows) == 0 }

// IsRoot reports whether b has no parent.
func (b *Box) IsRoot() bool { return b.Under == NoBox }
