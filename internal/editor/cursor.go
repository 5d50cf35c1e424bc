package editor

import (
	"fmt"

	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/render"
)

// CursorKind says where the cursor sits relative to its box.
type CursorKind int

const (
	CursorBefore CursorKind = iota
	CursorAfter
	CursorInside
)

func (k CursorKind) String() string {
	switch k {
	case CursorBefore:
		return "before"
	case CursorAfter:
		return "after"
	case CursorInside:
		return "inside"
	default:
		return fmt.Sprintf("CursorKind(%d)", k)
	}
}

// Cursor is the current insertion point.
type Cursor struct {
	Kind CursorKind
	Box  boxtree.ID
}

// NoCursor selects nothing.
var NoCursor = Cursor{Kind: CursorBefore, Box: boxtree.NoBox}

// IsSet reports whether the cursor refers to a box.
func (c Cursor) IsSet() bool {
	return c.Box != boxtree.NoBox
}

func (c Cursor) String() string {
	if !c.IsSet() {
		return "none"
	}
	return fmt.Sprintf("%s(%d)", c.Kind, c.Box)
}

func (c Cursor) mark() render.MarkKind {
	if !c.IsSet() {
		return render.MarkNone
	}
	switch c.Kind {
	case CursorAfter:
		return render.MarkAfter
	case CursorInside:
		return render.MarkInside
	default:
		return render.MarkBefore
	}
}

// Cursor returns the current cursor.
func (s *Session) Cursor() Cursor {
	return s.cursor
}

// SetCursorBefore places the cursor before id. NoBox clears the selection.
func (s *Session) SetCursorBefore(id boxtree.ID) {
	s.setCursor(Cursor{Kind: CursorBefore, Box: id})
}

// SetCursorAfter places the cursor after id.
func (s *Session) SetCursorAfter(id boxtree.ID) {
	s.setCursor(Cursor{Kind: CursorAfter, Box: id})
}

// SetCursorInside places the cursor inside the empty placeholder id.
func (s *Session) SetCursorInside(id boxtree.ID) error {
	b := s.tree.Box(id)
	if b == nil || !b.IsPlaceholder() {
		return contract("setCursorInside", fmt.Sprintf("box %d is not an empty placeholder", id), nil)
	}
	s.setCursor(Cursor{Kind: CursorInside, Box: id})
	return nil
}

// ClearCursor selects nothing.
func (s *Session) ClearCursor() {
	s.setCursor(NoCursor)
}

func (s *Session) setCursor(c Cursor) {
	if s.tree.Box(c.Box) == nil {
		c = NoCursor
	}
	s.cursor = c
	s.RequestFrame()
}

// cursorBeforeOrAfter returns the box a BEFORE/AFTER cursor refers to, or
// nil for INSIDE or no cursor.
func (s *Session) cursorBeforeOrAfter() *boxtree.Box {
	if s.cursor.Kind == CursorInside {
		return nil
	}
	return s.tree.Box(s.cursor.Box)
}
