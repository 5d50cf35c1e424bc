package editor

import (
	"fmt"

	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/geom"
	"github.com/muurk/boxes/internal/layout"
)

// TagLeaf sets id's text, or reverts it to a placeholder when text is empty.
func (s *Session) TagLeaf(id boxtree.ID, text string) error {
	width := 0.0
	if text != "" {
		width = s.textWidth(text)
	}
	if err := s.tree.SetText(id, text, width); err != nil {
		return contract("tagLeaf", "cannot tag box", err)
	}
	// INSIDE is only valid for placeholders.
	if text != "" && s.cursor == (Cursor{Kind: CursorInside, Box: id}) {
		s.cursor.Kind = CursorAfter
	}
	s.markStructure()
	return nil
}

// InsertTagged inserts a leaf at the cursor and moves the cursor after it.
// Empty text inserts nothing.
func (s *Session) InsertTagged(text string) error {
	if text == "" {
		return nil
	}
	id, err := s.insertAtCursor("insertTagged")
	if err != nil || id == boxtree.NoBox {
		return err
	}
	if err := s.tree.SetText(id, text, s.textWidth(text)); err != nil {
		return contract("insertTagged", "cannot tag new box", err)
	}
	s.cursor = Cursor{Kind: CursorAfter, Box: id}
	s.markStructure()
	return nil
}

// InsertPlaceholder inserts an empty placeholder at the cursor and moves the
// cursor inside it.
func (s *Session) InsertPlaceholder() error {
	id, err := s.insertAtCursor("insertPlaceholder")
	if err != nil || id == boxtree.NoBox {
		return err
	}
	s.cursor = Cursor{Kind: CursorInside, Box: id}
	s.markStructure()
	return nil
}

// insertAtCursor splices a new placeholder in at the cursor. It returns
// NoBox without error when there is nowhere to insert.
func (s *Session) insertAtCursor(op string) (boxtree.ID, error) {
	if s.cursor.Kind == CursorInside {
		b := s.tree.Box(s.cursor.Box)
		if b == nil {
			return boxtree.NoBox, nil
		}
		if !b.IsPlaceholder() {
			return boxtree.NoBox, contract(op, fmt.Sprintf("cursor inside non-empty box %d", b.ID), nil)
		}
		id, err := s.tree.InsertFirstChild(b.ID)
		if err != nil {
			return boxtree.NoBox, contract(op, "cannot add first child", err)
		}
		return id, nil
	}

	b := s.cursorBeforeOrAfter()
	if b == nil || b.IsRoot() {
		return boxtree.NoBox, nil
	}
	id, err := s.tree.InsertSibling(b.ID, s.cursor.Kind == CursorAfter)
	if err != nil {
		return boxtree.NoBox, contract(op, "cannot add sibling", err)
	}
	return id, nil
}

// SplitRow breaks the cursor's row in two at the cursor. It does nothing
// when the cursor is at either end of the row.
func (s *Session) SplitRow() error {
	b := s.cursorBeforeOrAfter()
	if b == nil || b.IsRoot() {
		return nil
	}
	at := b.Idx
	if s.cursor.Kind == CursorAfter {
		at++
	}
	if s.tree.SplitRow(b.Under, b.RowIdx, at) {
		s.markStructure()
	}
	return nil
}

// DeleteAdjacent removes what the cursor points at: the box itself when
// BEFORE, the next box when AFTER, or the row break when AFTER the last box
// of a row. On success the selection is cleared.
func (s *Session) DeleteAdjacent() error {
	b := s.cursorBeforeOrAfter()
	if b == nil || b.IsRoot() {
		return nil
	}
	cells := s.tree.OwningRow(b.ID).Cells

	if s.cursor.Kind == CursorAfter && b.Idx == len(cells)-1 {
		if !s.tree.MergeRows(b.Under, b.RowIdx) {
			return nil
		}
		s.cursor = NoCursor
		s.markStructure()
		return nil
	}

	target := b.ID
	if s.cursor.Kind == CursorAfter {
		target = cells[b.Idx+1]
	}
	if err := s.tree.Remove(target); err != nil {
		return contract("deleteAdjacent", "cannot remove box", err)
	}
	s.cursor = NoCursor
	s.markStructure()
	return nil
}

// CreateRoot adds a root placeholder centred on document point p, if the
// document is empty, and puts the cursor inside it.
func (s *Session) CreateRoot(p geom.Point) boxtree.ID {
	if !s.tree.Empty() {
		return boxtree.NoBox
	}
	id := s.tree.NewRoot(geom.Rect{
		X: p.X - layout.EmptyBoxWidth/2,
		Y: p.Y - layout.EmptyBoxHeight/2,
		W: layout.EmptyBoxWidth,
		H: layout.EmptyBoxHeight,
	})
	s.cursor = Cursor{Kind: CursorInside, Box: id}
	s.markStructure()
	return id
}
