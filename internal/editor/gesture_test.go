package editor

import (
	"image/color"
	"testing"

	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/geom"
	"github.com/muurk/boxes/internal/hittest"
)

type nullSurface struct{}

func (nullSurface) Size() (float64, float64)                        { return 800, 600 }
func (nullSurface) Clear()                                           {}
func (nullSurface) FillRect(x, y, w, h float64, c color.Color)       {}
func (nullSurface) StrokeRect(x, y, w, h, lw float64, c color.Color) {}
func (nullSurface) DrawText(x, y float64, s string, c color.Color)   {}
func (nullSurface) PushFrame(dx, dy, scale float64)                  {}
func (nullSurface) PopFrame()                                        {}
func (nullSurface) MeasureText(s string) float64                     { return tenPerRune(s) }

// screenAt returns the screen point at fractions (fx, fy) across id.
func screenAt(s *Session, id boxtree.ID, fx, fy float64) geom.Point {
	r := hittest.Rect(s.Tree(), id)
	return s.ToScreen(geom.Pt(r.X+r.W*fx, r.Y+r.H*fy))
}

func tapAt(s *Session, p geom.Point) {
	s.TouchStart(p)
	s.TouchEnd(p)
}

func TestTap(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		ri, ci int
		fx, fy float64
		want   CursorKind
	}{
		{"left half selects before", "('abc'de)", 0, 1, 0.25, 0.5, CursorBefore},
		{"right half selects after", "('abc'de)", 0, 0, 0.75, 0.5, CursorAfter},
		{"middle of placeholder goes inside", "('a())", 0, 1, 0.5, 0.5, CursorInside},
		{"edge of placeholder stays outside", "('a())", 0, 1, 0.1, 0.5, CursorBefore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, tt.doc)
			target := cellAt(t, s, tt.ri, tt.ci)

			tapAt(s, screenAt(s, target, tt.fx, tt.fy))

			if got := s.Cursor(); got != (Cursor{Kind: tt.want, Box: target}) {
				t.Errorf("cursor = %v, want %v(%d)", got, tt.want, target)
			}
		})
	}
}

func TestTap_EmptyCanvasCreatesRoot(t *testing.T) {
	s := newSession(t, "")
	tapAt(s, geom.Pt(200, 100))

	root := s.Tree().Root()
	if root == boxtree.NoBox {
		t.Fatal("no root created")
	}
	if got := s.Cursor(); got != (Cursor{Kind: CursorInside, Box: root}) {
		t.Errorf("cursor = %v, want inside the new root", got)
	}
	s.Update()
	if got := hittest.Rect(s.Tree(), root).Center(); got != geom.Pt(200, 100) {
		t.Errorf("root centre = %v, want the tap point", got)
	}
}

func TestTap_MissClearsCursor(t *testing.T) {
	s := newSession(t, "('a)")
	s.SetCursorBefore(cellAt(t, s, 0, 0))

	tapAt(s, geom.Pt(1, 1))

	if s.Cursor() != NoCursor {
		t.Errorf("cursor = %v, want none", s.Cursor())
	}
	if s.Tree().Len() != 2 {
		t.Error("tap on empty space created a box in a non-empty document")
	}
}

func TestTap_CollapsedBoxZooms(t *testing.T) {
	s := newSession(t, "((('a)))")
	leaf := s.Tree().Box(s.Tree().Box(cellAt(t, s, 0, 0)).Rows[0].Cells[0]).Rows[0].Cells[0]
	p := screenAt(s, leaf, 0.5, 0.5)
	z := s.Zoom().Zoom()

	tapAt(s, p)
	s.Update()

	if s.Zoom().Zoom() <= z {
		t.Errorf("zoom %v did not increase from %v", s.Zoom().Zoom(), z)
	}
	if got := s.Cursor(); got != (Cursor{Kind: CursorBefore, Box: leaf}) {
		t.Errorf("cursor = %v, want before(%d)", got, leaf)
	}
	if got := s.HandleShrink(leaf); got < 0.75 {
		t.Errorf("leaf still collapsed after tap: handle shrink %v", got)
	}
}

func TestTouch_Pan(t *testing.T) {
	s := newSession(t, "('a)")
	start := s.Pan()
	origin := screenAt(s, cellAt(t, s, 0, 0), 0.5, 0.5)

	s.TouchStart(origin)
	s.TouchMove(origin.Add(geom.Pt(5, 5)))
	if s.Scene().Pan != start {
		t.Error("a short move should not pan")
	}

	s.TouchMove(origin.Add(geom.Pt(30, 40)))
	if got, want := s.Scene().Pan, start.Add(geom.Pt(30, 40)); got != want {
		t.Errorf("in-progress pan = %v, want %v", got, want)
	}
	if s.Pan() != start {
		t.Error("pan committed before the touch ended")
	}

	s.TouchEnd(origin.Add(geom.Pt(50, 60)))
	if got, want := s.Pan(), start.Add(geom.Pt(50, 60)); got != want {
		t.Errorf("Pan() = %v, want %v", got, want)
	}
	if s.Cursor() != NoCursor {
		t.Errorf("a pan selected %v", s.Cursor())
	}
}

func TestTouch_CancelDiscardsPan(t *testing.T) {
	tests := []struct {
		name  string
		moves []geom.Point
	}{
		{name: "no movement"},
		{name: "single move", moves: []geom.Point{geom.Pt(0, 25)}},
		{name: "several moves", moves: []geom.Point{geom.Pt(5, 5), geom.Pt(-30, 40), geom.Pt(12, -8)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, "('a)")
			start := s.Pan()
			origin := geom.Pt(10, 10)

			s.TouchStart(origin)
			for _, d := range tt.moves {
				s.TouchMove(origin.Add(d))
			}
			s.TouchCancel()

			if got := s.Pan(); got != start {
				t.Errorf("Pan() = %v, want %v", got, start)
			}
			if got := s.Scene().Pan; got != start {
				t.Errorf("Scene().Pan = %v, want %v", got, start)
			}
		})
	}
}

func TestTouchStart_CancelsPrompt(t *testing.T) {
	p := &fakePrompt{}
	s := newSession(t, "('a)")
	s.SetPrompter(p)
	p.Prompt("", func(string) {})

	s.TouchStart(geom.Pt(1, 1))

	if p.cancelled != 1 {
		t.Errorf("prompt cancelled %d times, want 1", p.cancelled)
	}
}

func TestPinch(t *testing.T) {
	s := newSession(t, "('abc,('d'e))")
	s.SetZoom(0, nil)
	s.Update()
	target := cellAt(t, s, 0, 0)
	mid := screenAt(s, target, 0.5, 0.5)

	s.PinchStart(mid.Add(geom.Pt(-50, 0)), mid.Add(geom.Pt(50, 0)))
	s.PinchMove(mid.Add(geom.Pt(-30, 0)), mid.Add(geom.Pt(30, 0)))

	if got := s.Zoom().Zoom(); got != -40 {
		t.Errorf("Zoom() after pinching in by 40 = %v, want -40", got)
	}
	s.PinchMove(mid.Add(geom.Pt(-35, 0)), mid.Add(geom.Pt(35, 0)))
	if got := s.Zoom().Zoom(); got != -30 {
		t.Errorf("Zoom() after widening by 10 = %v, want -30", got)
	}
	s.PinchEnd()

	// The anchor box was resolved at pinch start and the midpoint stays on it.
	if !hittest.Rect(s.Tree(), target).Contains(s.ToDocument(mid)) {
		t.Error("pinch midpoint drifted off the anchor box")
	}
}

func TestWheel(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		mode  WheelMode
		want  float64
	}{
		{"pixels", 10, WheelPixel, -10},
		{"lines", 1, WheelLine, -27},
		{"wheel up clamps at zero", -5, WheelLine, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, "(((('a))))")
			s.SetZoom(0, nil)
			s.Wheel(geom.Pt(400, 300), tt.delta, tt.mode)

			if got := s.Zoom().Zoom(); got != tt.want {
				t.Errorf("Zoom() = %v, want %v", got, tt.want)
			}
		})
	}
}
