// Package hittest answers spatial queries over a laid-out tree and converts
// points between document space and a box's local frame.
package hittest

import (
	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/geom"
)

// Find returns the most specific box under document point p, or NoBox.
func Find(t *boxtree.Tree, p geom.Point) boxtree.ID {
	return FindIntersectingBox(t, p, t.Roots())
}

// FindIntersectingBox searches within in reverse order, since later entries
// draw on top. p is in the frame that within's boxes are positioned in. The
// deepest descendant containing p wins over its ancestors.
func FindIntersectingBox(t *boxtree.Tree, p geom.Point, within []boxtree.ID) boxtree.ID {
	for i := len(within) - 1; i >= 0; i-- {
		b := t.Box(within[i])
		if !(geom.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}).Contains(p) {
			continue
		}
		for ri := len(b.Rows) - 1; ri >= 0; ri-- {
			r := b.Rows[ri]
			local := geom.Point{X: p.X - b.X - r.X, Y: p.Y - b.Y - r.Y}
			if child := FindIntersectingBox(t, local, r.Cells); child != boxtree.NoBox {
				return child
			}
		}
		return b.ID
	}
	return boxtree.NoBox
}

// ToLocal converts a document point into id's local frame.
func ToLocal(t *boxtree.Tree, id boxtree.ID, p geom.Point) geom.Point {
	return p.Sub(Origin(t, id))
}

// ToAbsolute converts a point in id's local frame into document space.
func ToAbsolute(t *boxtree.Tree, id boxtree.ID, p geom.Point) geom.Point {
	return p.Add(Origin(t, id))
}

// Origin returns the document position of id's top-left corner, walking the
// ownership chain up to the root.
func Origin(t *boxtree.Tree, id boxtree.ID) geom.Point {
	var o geom.Point
	for b := t.Box(id); b != nil; b = t.Box(b.Under) {
		o.X += b.X
		o.Y += b.Y
		if row := t.OwningRow(b.ID); row != nil {
			o.X += row.X
			o.Y += row.Y
		}
	}
	return o
}

// Rect returns id's rectangle in document space.
func Rect(t *boxtree.Tree, id boxtree.ID) geom.Rect {
	b := t.Box(id)
	if b == nil {
		return geom.Rect{}
	}
	o := Origin(t, id)
	return geom.Rect{X: o.X, Y: o.Y, W: b.W, H: b.H}
}
