package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/geom"
	"github.com/muurk/boxes/internal/hittest"
	"github.com/muurk/boxes/internal/layout"
	"github.com/muurk/boxes/internal/zoom"
)

// MarkKind says how the cursor relates to Scene.Box.
type MarkKind int

const (
	MarkNone MarkKind = iota
	MarkBefore
	MarkAfter
	MarkInside
)

// SelectedLineWidth is the outline width of the box a deletion would remove.
const SelectedLineWidth = 2

var (
	// LevelHues alternate by nesting level.
	LevelHues = []float64{240, 0}

	TextColor      = colorful.Color{R: 0, G: 0, B: 0}
	SelectionColor = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
)

// Scene is everything one frame needs.
type Scene struct {
	Tree   *boxtree.Tree
	Layout *layout.Engine
	Pan    geom.Point
	Mark   MarkKind
	Box    boxtree.ID
}

// LevelColor returns the fill for a box at level whose handle is shrunk by
// handleShrink. Collapsing boxes darken slightly so merged levels stay
// distinguishable.
func LevelColor(level int, handleShrink float64) colorful.Color {
	hue := LevelHues[level%len(LevelHues)]
	lum := geom.RoundLerp(92, 80, handleShrink, 1, 0, 4)
	return colorful.Hsl(hue, 0.8, lum/100)
}

// Draw clears s and draws the scene. The tree must be laid out.
func Draw(s Surface, sc Scene) {
	s.Clear()
	s.PushFrame(sc.Pan.X, sc.Pan.Y, 1)
	defer s.PopFrame()

	for _, id := range sc.Tree.Roots() {
		drawBox(s, sc, sc.Tree.Box(id))
	}

	if sc.Tree.Box(sc.Box) == nil {
		return
	}
	drawCursor(s, sc)
}

func drawBox(s Surface, sc Scene, b *boxtree.Box) {
	s.PushFrame(b.X, b.Y, 1)
	defer s.PopFrame()

	s.FillRect(0, 0, b.W, b.H, LevelColor(b.Level, sc.Layout.HandleShrink(b)))

	for _, row := range b.Rows {
		s.PushFrame(row.X, row.Y, 1)
		for _, id := range row.Cells {
			drawBox(s, sc, sc.Tree.Box(id))
		}
		s.PopFrame()
	}

	if b.Text == "" {
		return
	}
	scale := sc.Layout.TextShrink(b)
	if scale <= zoom.MinShrink {
		return
	}
	// Text is laid out at full size and scaled about the box centre.
	adj := (1 - scale) / 2 / scale
	s.PushFrame(0, 0, scale)
	s.PushFrame(b.W*adj, b.H*adj, 1)
	s.DrawText(math.Round(b.W/2), math.Round(b.H/2), b.Text, TextColor)
	s.PopFrame()
	s.PopFrame()
}

func drawCursor(s Surface, sc Scene) {
	t := sc.Tree
	b := t.Box(sc.Box)
	o := hittest.Origin(t, b.ID)

	var cells []boxtree.ID
	if row := t.OwningRow(b.ID); row != nil {
		cells = row.Cells
	}

	switch sc.Mark {
	case MarkBefore:
		h := b.H
		if b.Idx > 0 && cells != nil {
			h = math.Max(h, t.Box(cells[b.Idx-1]).H)
		}
		s.StrokeRect(o.X-layout.BoxBorder, o.Y, layout.BoxBorder, h, layout.BoxBorder, SelectionColor)
		s.StrokeRect(o.X, o.Y, b.W, b.H, SelectedLineWidth, SelectionColor)

	case MarkAfter:
		h := b.H
		var next *boxtree.Box
		if cells != nil && b.Idx+1 < len(cells) {
			next = t.Box(cells[b.Idx+1])
			h = math.Max(h, next.H)
		}
		s.StrokeRect(o.X+b.W, o.Y, layout.BoxBorder, h, layout.BoxBorder, SelectionColor)
		if next != nil {
			s.StrokeRect(o.X+next.X-b.X, o.Y+next.Y-b.Y, next.W, next.H, SelectedLineWidth, SelectionColor)
		}

	case MarkInside:
		s.StrokeRect(o.X+b.W/4, o.Y+b.H/4, b.W/2, b.H/2, layout.BoxBorder, SelectionColor)
	}
}
