package boxtree

import (
	"errors"
	"fmt"

	"github.com/muurk/boxes/internal/geom"
)

var (
	// ErrNoSuchBox is returned when an ID does not address a live box.
	ErrNoSuchBox = errors.New("no such box")
	// ErrHasRows is returned when an operation requires a box without rows.
	ErrHasRows = errors.New("box already has rows")
	// ErrHasText is returned when rows would be added to a tagged leaf.
	ErrHasText = errors.New("box is a tagged leaf")
	// ErrNoParent is returned when a sibling operation targets a root.
	ErrNoParent = errors.New("box has no parent")
)

// Tree is an arena of boxes. The zero value is not usable; call New.
type Tree struct {
	boxes   []*Box
	roots   []ID
	live    int
	version uint64
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

// Box returns the live box with the given ID, or nil.
func (t *Tree) Box(id ID) *Box {
	if id < 0 || int(id) >= len(t.boxes) {
		return nil
	}
	return t.boxes[id]
}

// Roots returns the top-level sequence. The slice must not be modified.
func (t *Tree) Roots() []ID {
	return t.roots
}

// Root returns the document root, or NoBox for an empty document.
func (t *Tree) Root() ID {
	if len(t.roots) == 0 {
		return NoBox
	}
	return t.roots[0]
}

// Empty reports whether the tree has no boxes.
func (t *Tree) Empty() bool {
	return len(t.roots) == 0
}

// Len returns the number of live boxes.
func (t *Tree) Len() int {
	return t.live
}

// Version is bumped by every mutation that changes shape or text.
func (t *Tree) Version() uint64 {
	return t.version
}

// Parent returns the box owning id's row, or NoBox.
func (t *Tree) Parent(id ID) ID {
	if b := t.Box(id); b != nil {
		return b.Under
	}
	return NoBox
}

// OwningRow returns the row holding id, or nil for a root.
func (t *Tree) OwningRow(id ID) *Row {
	b := t.Box(id)
	if b == nil || b.Under == NoBox {
		return nil
	}
	return t.boxes[b.Under].Rows[b.RowIdx]
}

// Siblings returns the sequence containing id: its row's cells, or the roots.
func (t *Tree) Siblings(id ID) []ID {
	if row := t.OwningRow(id); row != nil {
		return row.Cells
	}
	return t.roots
}

func (t *Tree) alloc(under ID) *Box {
	b := &Box{ID: ID(len(t.boxes)), Under: under}
	if p := t.Box(under); p != nil {
		b.Level = p.Level + 1
	}
	t.boxes = append(t.boxes, b)
	t.live++
	return b
}

// NewRoot adds a placeholder at the top level with the given initial
// geometry and returns its ID.
func (t *Tree) NewRoot(r geom.Rect) ID {
	b := t.alloc(NoBox)
	b.X, b.Y, b.W, b.H = r.X, r.Y, r.W, r.H
	b.Idx = len(t.roots)
	t.roots = append(t.roots, b.ID)
	t.version++
	return b.ID
}

// SetText tags id with text and its measured width. Empty text reverts the
// box to a placeholder.
func (t *Tree) SetText(id ID, text string, width float64) error {
	b := t.Box(id)
	if b == nil {
		return fmt.Errorf("set text %d: %w", id, ErrNoSuchBox)
	}
	if text != "" && b.HasRows() {
		return fmt.Errorf("set text %d: %w", id, ErrHasRows)
	}
	if text == "" {
		b.Text, b.TextWidth = "", 0
	} else {
		b.Text, b.TextWidth = text, width
	}
	t.version++
	return nil
}

// InsertFirstChild creates a placeholder as the only cell of a new first row
// of parent. The parent must have neither rows nor text.
func (t *Tree) InsertFirstChild(parent ID) (ID, error) {
	p := t.Box(parent)
	if p == nil {
		return NoBox, fmt.Errorf("insert child of %d: %w", parent, ErrNoSuchBox)
	}
	if p.HasRows() {
		return NoBox, fmt.Errorf("insert child of %d: %w", parent, ErrHasRows)
	}
	if p.IsLeaf() {
		return NoBox, fmt.Errorf("insert child of %d: %w", parent, ErrHasText)
	}
	b := t.alloc(parent)
	p.Rows = append(p.Rows, &Row{Cells: []ID{b.ID}})
	t.version++
	return b.ID, nil
}

// InsertSibling creates a placeholder in anchor's row, immediately before or
// after it, and reindexes the row.
func (t *Tree) InsertSibling(anchor ID, after bool) (ID, error) {
	a := t.Box(anchor)
	if a == nil {
		return NoBox, fmt.Errorf("insert sibling of %d: %w", anchor, ErrNoSuchBox)
	}
	if a.Under == NoBox {
		return NoBox, fmt.Errorf("insert sibling of %d: %w", anchor, ErrNoParent)
	}
	row := t.boxes[a.Under].Rows[a.RowIdx]
	at := a.Idx
	if after {
		at++
	}
	b := t.alloc(a.Under)
	b.RowIdx = a.RowIdx
	row.Cells = append(row.Cells, NoBox)
	copy(row.Cells[at+1:], row.Cells[at:])
	row.Cells[at] = b.ID
	t.reindexCells(row.Cells)
	t.version++
	return b.ID, nil
}

// SplitRow splits row rowIdx of parent into two rows before cell index at.
// It reports false, changing nothing, when either half would be empty.
func (t *Tree) SplitRow(parent ID, rowIdx, at int) bool {
	p := t.Box(parent)
	if p == nil || rowIdx < 0 || rowIdx >= len(p.Rows) {
		return false
	}
	cells := p.Rows[rowIdx].Cells
	if at <= 0 || at >= len(cells) {
		return false
	}
	first := append([]ID(nil), cells[:at]...)
	second := append([]ID(nil), cells[at:]...)

	rows := make([]*Row, 0, len(p.Rows)+1)
	rows = append(rows, p.Rows[:rowIdx]...)
	rows = append(rows, &Row{Cells: first}, &Row{Cells: second})
	rows = append(rows, p.Rows[rowIdx+1:]...)
	p.Rows = rows
	t.reindexRows(p)
	t.version++
	return true
}

// MergeRows joins row rowIdx of parent with the row after it. It reports
// false, changing nothing, when rowIdx is the last row.
func (t *Tree) MergeRows(parent ID, rowIdx int) bool {
	p := t.Box(parent)
	if p == nil || rowIdx < 0 || rowIdx+1 >= len(p.Rows) {
		return false
	}
	merged := &Row{Cells: append(append([]ID(nil), p.Rows[rowIdx].Cells...), p.Rows[rowIdx+1].Cells...)}

	rows := make([]*Row, 0, len(p.Rows)-1)
	rows = append(rows, p.Rows[:rowIdx]...)
	rows = append(rows, merged)
	rows = append(rows, p.Rows[rowIdx+2:]...)
	p.Rows = rows
	t.reindexRows(p)
	t.version++
	return true
}

// Remove detaches id and frees its subtree. A row left without cells is
// removed from its owner and the remaining siblings are reindexed.
func (t *Tree) Remove(id ID) error {
	b := t.Box(id)
	if b == nil {
		return fmt.Errorf("remove %d: %w", id, ErrNoSuchBox)
	}
	if b.Under == NoBox {
		t.roots = removeAt(t.roots, b.Idx)
		t.reindexCells(t.roots)
	} else {
		p := t.boxes[b.Under]
		row := p.Rows[b.RowIdx]
		row.Cells = removeAt(row.Cells, b.Idx)
		if len(row.Cells) == 0 {
			p.Rows = append(p.Rows[:b.RowIdx], p.Rows[b.RowIdx+1:]...)
			t.reindexRows(p)
		} else {
			t.reindexCells(row.Cells)
		}
	}
	t.free(id)
	t.version++
	return nil
}

func (t *Tree) free(id ID) {
	b := t.boxes[id]
	for _, row := range b.Rows {
		for _, c := range row.Cells {
			t.free(c)
		}
	}
	t.boxes[id] = nil
	t.live--
}

func removeAt(ids []ID, i int) []ID {
	return append(ids[:i], ids[i+1:]...)
}

func (t *Tree) reindexCells(ids []ID) {
	for i, id := range ids {
		t.boxes[id].Idx = i
	}
}

func (t *Tree) reindexRows(p *Box) {
	for ri, row := range p.Rows {
		for ci, id := range row.Cells {
			c := t.boxes[id]
			c.Idx = ci
			c.RowIdx = ri
		}
	}
}

// Walk visits every box depth-first, parents before children, roots in
// order. Returning false from fn skips that box's children.
func (t *Tree) Walk(fn func(b *Box) bool) {
	for _, id := range t.roots {
		t.walk(id, fn)
	}
}

func (t *Tree) walk(id ID, fn func(b *Box) bool) {
	b := t.boxes[id]
	if !fn(b) {
		return
	}
	for _, row := range b.Rows {
		for _, c := range row.Cells {
			t.walk(c, fn)
		}
	}
}

// Relevel recomputes Level for every box and returns the deepest level.
func (t *Tree) Relevel() int {
	deepest := 0
	var visit func(id ID, level int)
	visit = func(id ID, level int) {
		b := t.boxes[id]
		b.Level = level
		if level > deepest {
			deepest = level
		}
		for _, row := range b.Rows {
			for _, c := range row.Cells {
				visit(c, level+1)
			}
		}
	}
	for _, id := range t.roots {
		visit(id, 0)
	}
	return deepest
}
