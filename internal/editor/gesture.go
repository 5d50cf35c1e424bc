package editor

import (
	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/geom"
	"github.com/muurk/boxes/internal/hittest"
	"github.com/muurk/boxes/internal/layout"
	"github.com/muurk/boxes/internal/zoom"
)

// PanDistance is how far a touch must travel before it becomes a pan.
const PanDistance = 20

// WheelMode is the unit of a wheel delta.
type WheelMode int

const (
	WheelPixel WheelMode = iota
	WheelLine
	WheelPage
)

// gesture is the state of the current touch or pinch session.
type gesture struct {
	origin   geom.Point
	panning  bool
	target   boxtree.ID
	zooming  boxtree.ID
	pinching bool
	distance float64
}

func (g *gesture) reset() {
	*g = gesture{target: boxtree.NoBox, zooming: boxtree.NoBox}
}

// TouchStart begins a single-pointer session at screen point p. A tapped box
// too collapsed to edit is remembered for zooming instead of selection.
func (s *Session) TouchStart(p geom.Point) {
	if s.prompter != nil {
		s.prompter.Cancel()
	}
	s.gesture.reset()
	s.gesture.origin = p

	s.Update()
	target := hittest.Find(s.tree, s.ToDocument(p))
	if target != boxtree.NoBox && s.HandleShrink(target) < zoom.TooSmallThreshold {
		s.gesture.zooming = target
		target = boxtree.NoBox
	}
	s.gesture.target = target
	s.RequestFrame()
}

// TouchMove updates the session. Once the pointer has travelled PanDistance
// the session becomes a pan and the tap is abandoned.
func (s *Session) TouchMove(p geom.Point) {
	g := &s.gesture
	if !g.panning && p.Dist(g.origin) >= PanDistance {
		g.panning = true
		g.target = boxtree.NoBox
		g.zooming = boxtree.NoBox
	}
	if g.panning {
		s.tempPan = p.Sub(g.origin)
	}
	s.RequestFrame()
}

// TouchEnd finishes the session: commits a pan, zooms to a collapsed box, or
// resolves the tap into a cursor position.
func (s *Session) TouchEnd(p geom.Point) {
	g := &s.gesture
	origin := g.origin

	switch {
	case g.panning:
		s.pan = s.pan.Add(p.Sub(origin))
		s.tempPan = geom.Point{}

	case g.zooming != boxtree.NoBox:
		s.ZoomToBox(g.zooming, &origin)
		s.SetCursorBefore(g.zooming)

	case g.target == boxtree.NoBox:
		if s.tree.Empty() {
			s.CreateRoot(s.ToDocument(p))
		} else {
			s.ClearCursor()
		}

	default:
		s.tap(g.target, s.ToDocument(origin))
	}

	g.reset()
	s.RequestFrame()
}

// tap places the cursor on target for a tap at document point p.
func (s *Session) tap(target boxtree.ID, p geom.Point) {
	b := s.tree.Box(target)
	if b == nil {
		s.ClearCursor()
		return
	}
	local := hittest.ToLocal(s.tree, target, p)

	if b.IsPlaceholder() {
		middle := geom.Rect{X: b.W / 4, Y: b.H / 4, W: b.W / 2, H: b.H / 2}
		if middle.Contains(local) {
			s.cursor = Cursor{Kind: CursorInside, Box: target}
			s.RequestFrame()
			return
		}
	}

	if local.X > b.W/2 {
		s.SetCursorAfter(target)
	} else {
		s.SetCursorBefore(target)
	}
}

// TouchCancel abandons the session. An in-progress pan is discarded.
func (s *Session) TouchCancel() {
	s.tempPan = geom.Point{}
	s.gesture.reset()
	s.RequestFrame()
}

// PinchStart begins a two-pointer zoom. The anchor box is resolved once,
// under the midpoint.
func (s *Session) PinchStart(a, b geom.Point) {
	s.gesture.reset()
	s.gesture.pinching = true
	s.gesture.origin = a.Mid(b)
	s.gesture.distance = a.Dist(b)

	s.Update()
	s.zoomTarget = hittest.Find(s.tree, s.ToDocument(s.gesture.origin))
}

// PinchMove zooms by the change in pointer distance.
func (s *Session) PinchMove(a, b geom.Point) {
	if !s.gesture.pinching {
		return
	}
	d := a.Dist(b)
	origin := s.gesture.origin
	s.SetZoom(s.zoom.Zoom()+d-s.gesture.distance, &origin)
	s.gesture.distance = d
}

// PinchEnd finishes a pinch.
func (s *Session) PinchEnd() {
	s.Update()
	s.gesture.reset()
	s.zoomTarget = boxtree.NoBox
}

// Wheel zooms out by delta (in mode units) anchored at screen point p.
func (s *Session) Wheel(p geom.Point, delta float64, mode WheelMode) {
	switch mode {
	case WheelLine:
		delta *= layout.LineHeight
	case WheelPage:
		delta *= layout.FontSize * 15
	}
	s.SetZoom(s.zoom.Zoom()-delta, &p)
}
