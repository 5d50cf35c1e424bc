package editor

import (
	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/geom"
	"github.com/muurk/boxes/internal/hittest"
	"github.com/muurk/boxes/internal/render"
	"github.com/muurk/boxes/internal/zoom"
)

// Scheduler coalesces frame requests into a single pending flag.
type Scheduler struct {
	pending bool
	notify  func()
}

// Request marks a frame pending. notify runs only on the transition from
// idle to pending.
func (s *Scheduler) Request() {
	if s.pending {
		return
	}
	s.pending = true
	if s.notify != nil {
		s.notify()
	}
}

// Pending reports whether a frame has been requested since the last Take.
func (s *Scheduler) Pending() bool {
	return s.pending
}

// Take clears the pending flag and reports whether it was set.
func (s *Scheduler) Take() bool {
	p := s.pending
	s.pending = false
	return p
}

// RequestFrame asks for a relayout and redraw on the next frame.
func (s *Session) RequestFrame() {
	s.sched.Request()
}

// FramePending reports whether a frame has been requested.
func (s *Session) FramePending() bool {
	return s.sched.Pending()
}

// Dirty reports whether the next Update will relayout.
func (s *Session) Dirty() bool {
	return s.structureDirty || s.zoomDirty
}

// SetZoom changes the zoom. With a screen anchor, the next frame shifts the
// pan so the document under anchor stays under it; with nil, pan is left
// untouched.
func (s *Session) SetZoom(z float64, anchor *geom.Point) {
	s.zoom.SetZoom(z)
	if anchor != nil {
		p := s.ToDocument(*anchor)
		s.zoomAnchor = &p
	} else {
		s.zoomAnchor = nil
	}
	s.zoomDirty = true
	s.RequestFrame()
}

// ZoomToBox zooms until id's handle reaches the rollback boundary, anchored
// at a screen point. It does nothing if the box is already large enough.
func (s *Session) ZoomToBox(id boxtree.ID, anchor *geom.Point) {
	b := s.tree.Box(id)
	if b == nil {
		return
	}
	if z, ok := s.zoom.FocusZoom(b.Level, b.HasRows()); ok {
		s.SetZoom(z, anchor)
	}
}

// ZoomOut collapses every level. Always legal.
func (s *Session) ZoomOut() {
	s.zoom.SetDeepest(s.tree.Relevel())
	s.SetZoom(s.zoom.MinZoom()-1, nil)
}

// Update brings geometry up to date: at most one relayout, followed by the
// anchor pan adjustment for a pending anchored zoom. It is a no-op on a
// clean session.
func (s *Session) Update() {
	target := boxtree.NoBox
	var before geom.Rect

	if s.zoomDirty && s.zoomAnchor != nil {
		target = s.anchorBox()
		if target != boxtree.NoBox {
			before = hittest.Rect(s.tree, target)
		}
	}

	if s.structureDirty || s.zoomDirty {
		s.layout.Relayout(s.tree)
	}
	s.structureDirty = false
	s.zoomDirty = false

	if target != boxtree.NoBox && before.W > 0 && before.H > 0 && s.tree.Box(target) != nil {
		after := hittest.Rect(s.tree, target)
		z := *s.zoomAnchor
		s.pan.X += z.X - ((z.X-before.X)/before.W*after.W + after.X)
		s.pan.Y += z.Y - ((z.Y-before.Y)/before.H*after.H + after.Y)
	}
	s.zoomAnchor = nil
}

// anchorBox resolves the box a pending anchored zoom is centred on. With no
// box under the anchor, the root is used and the anchor moves to the centre
// of the viewport.
func (s *Session) anchorBox() boxtree.ID {
	if s.tree.Box(s.zoomTarget) != nil {
		return s.zoomTarget
	}
	if id := hittest.Find(s.tree, *s.zoomAnchor); id != boxtree.NoBox {
		return id
	}
	if s.tree.Empty() {
		return boxtree.NoBox
	}
	c := s.ToDocument(geom.Pt(s.viewport.X/2, s.viewport.Y/2))
	s.zoomAnchor = &c
	return s.tree.Root()
}

// Frame runs one scheduled frame: Update, then draw onto surface.
func (s *Session) Frame(surface render.Surface) {
	s.sched.Take()
	s.Update()
	render.Draw(surface, s.Scene())
}

// Scene returns what would be drawn now, including any in-progress pan.
func (s *Session) Scene() render.Scene {
	return render.Scene{
		Tree:   s.tree,
		Layout: s.layout,
		Pan:    s.pan.Add(s.tempPan),
		Mark:   s.cursor.mark(),
		Box:    s.cursor.Box,
	}
}

// HandleShrink returns id's current handle scale, laying out first if needed.
func (s *Session) HandleShrink(id boxtree.ID) float64 {
	s.Update()
	b := s.tree.Box(id)
	if b == nil {
		return 0
	}
	return s.zoom.HandleShrink(zoom.EffectiveLevel(b.Level, b.HasRows()))
}
