// Package layout computes box geometry from tree shape, leaf text widths and
// the current zoom.
//
// Relayout runs two explicit passes: a depth pass that renumbers levels and
// feeds the deepest level to the zoom controller, then a strict post-order
// geometry pass. It reads nothing it writes, so rerunning it on an unchanged
// tree reproduces the same geometry.
package layout

import (
	"math"

	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/zoom"
)

// Geometry in document pixels.
const (
	HandleWidth    = 40
	BoxBorder      = 4
	EmptyWidth     = 120
	EmptyBoxWidth  = EmptyWidth + 2*BoxBorder
	EmptyBoxHeight = HandleWidth + 2*BoxBorder
	MinTextWidth   = HandleWidth
	FontSize       = 18
	LineHeight     = FontSize * 1.5
)

// TextWidth returns the cached width for a leaf label, never narrower than
// MinTextWidth.
func TextWidth(measure func(string) float64, text string) float64 {
	return math.Max(MinTextWidth, measure(text))
}

// Engine lays out a tree under a zoom controller.
type Engine struct {
	zoom *zoom.Controller
}

// New returns an engine reading shrink factors from z.
func New(z *zoom.Controller) *Engine {
	return &Engine{zoom: z}
}

// Zoom returns the controller the engine reads from.
func (e *Engine) Zoom() *zoom.Controller {
	return e.zoom
}

// HandleShrink returns the handle scale of b, including the list bonus.
func (e *Engine) HandleShrink(b *boxtree.Box) float64 {
	return e.zoom.HandleShrink(zoom.EffectiveLevel(b.Level, b.HasRows()))
}

// TextShrink returns the text scale of b, including the list bonus.
func (e *Engine) TextShrink(b *boxtree.Box) float64 {
	return e.zoom.TextShrink(zoom.EffectiveLevel(b.Level, b.HasRows()))
}

// Relayout recomputes level for every box, updates the zoom controller's
// depth, then recomputes every size and relative position. Root positions
// are left alone.
func (e *Engine) Relayout(t *boxtree.Tree) {
	e.zoom.SetDeepest(t.Relevel())
	for _, id := range t.Roots() {
		e.layoutBox(t, t.Box(id))
	}
}

func (e *Engine) layoutBox(t *boxtree.Tree, b *boxtree.Box) {
	for _, row := range b.Rows {
		for _, id := range row.Cells {
			e.layoutBox(t, t.Box(id))
		}
		layoutRow(t, row)
	}

	if len(b.Rows) == 0 {
		s := e.TextShrink(b)
		if b.IsLeaf() {
			b.W = BoxBorder*2 + b.TextWidth*s
			b.H = BoxBorder*2 + LineHeight*s
		} else {
			b.W = EmptyBoxWidth * s
			b.H = EmptyBoxHeight * s
		}
		return
	}

	handle := HandleWidth * e.HandleShrink(b)
	w, h := 0.0, float64(BoxBorder)
	for _, row := range b.Rows {
		row.X = BoxBorder + handle
		row.Y = h
		w = math.Max(w, row.W)
		h += row.H + BoxBorder
	}
	b.W = w + 2*(BoxBorder+handle)
	b.H = h
}

func layoutRow(t *boxtree.Tree, row *boxtree.Row) {
	w, h := 0.0, 0.0
	for _, id := range row.Cells {
		c := t.Box(id)
		c.X, c.Y = w, 0
		w += c.W + BoxBorder
		h = math.Max(h, c.H)
	}
	row.W = w - BoxBorder
	row.H = h
}
