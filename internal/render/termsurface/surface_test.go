package termsurface

import (
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/geom"
	"github.com/muurk/boxes/internal/layout"
	"github.com/muurk/boxes/internal/notation"
	"github.com/muurk/boxes/internal/render"
	"github.com/muurk/boxes/internal/zoom"
)

var red = color.RGBA{R: 255, A: 255}

func TestFillRect(t *testing.T) {
	s := New(6, 3, 10, 20)
	s.FillRect(0, 0, 30, 40, red)

	for row := 0; row < 3; row++ {
		for col := 0; col < 6; col++ {
			want := ""
			if col < 3 && row < 2 {
				want = "#ff0000"
			}
			if got := s.Cell(col, row).BG; got != want {
				t.Errorf("Cell(%d, %d).BG = %q, want %q", col, row, got, want)
			}
		}
	}
}

func TestStrokeRect(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h float64
		lineWidth  float64
		want       []string
	}{
		{
			name: "thin outline",
			w:    40, h: 60, lineWidth: 2,
			want: []string{"┌──┐  ", "│  │  ", "└──┘  "},
		},
		{
			name: "heavy bar collapses to a column",
			x:    20, w: 4, h: 40, lineWidth: layout.BoxBorder,
			want: []string{"  ┃   ", "  ┃   ", "      "},
		},
		{
			name: "flat rect collapses to a row",
			y:    20, w: 30, h: 5, lineWidth: 1,
			want: []string{"      ", "───   ", "      "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(6, 3, 10, 20)
			s.StrokeRect(tt.x, tt.y, tt.w, tt.h, tt.lineWidth, red)
			if diff := cmp.Diff(tt.want, strings.Split(s.Plain(), "\n")); diff != "" {
				t.Errorf("grid mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDrawText(t *testing.T) {
	s := New(10, 3, 10, 20)
	s.DrawText(50, 30, "ab", color.Black)
	s.DrawText(50, 50, "世x", color.Black)

	want := []string{"          ", "    ab    ", "    世x   "}
	if diff := cmp.Diff(want, strings.Split(s.Plain(), "\n")); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	if got := s.Cell(4, 1).FG; got != "#000000" {
		t.Errorf("text FG = %q, want #000000", got)
	}
}

func TestDrawText_TooSmall(t *testing.T) {
	s := New(10, 3, 10, 20)
	s.PushFrame(0, 0, 0.25)
	s.DrawText(100, 100, "hidden", color.Black)
	s.PopFrame()

	if strings.TrimSpace(s.Plain()) != "" {
		t.Errorf("shrunken text was drawn:\n%s", s.Plain())
	}
}

func TestFrames(t *testing.T) {
	s := New(4, 4, 10, 20)
	s.PushFrame(10, 20, 1)
	s.PushFrame(0, 0, 2)
	s.FillRect(0, 0, 5, 10, red)
	s.PopFrame()
	s.PopFrame()

	if got := s.Cell(1, 1).BG; got != "#ff0000" {
		t.Errorf("Cell(1, 1).BG = %q, want red", got)
	}
	if got := s.Cell(0, 0).BG; got != "" {
		t.Errorf("Cell(0, 0).BG = %q, want default", got)
	}
}

func TestMeasureAndSize(t *testing.T) {
	s := New(80, 24, 0, 0)
	if w, h := s.Size(); w != 800 || h != 480 {
		t.Errorf("Size() = %v, %v, want 800, 480", w, h)
	}
	if got := s.MeasureText("héllo"); got != 50 {
		t.Errorf("MeasureText() = %v, want 50", got)
	}
	if x, y := s.ToDocument(2, 3); x != 25 || y != 70 {
		t.Errorf("ToDocument(2, 3) = %v, %v, want 25, 70", x, y)
	}
}

func TestDraw_Document(t *testing.T) {
	s := New(40, 10, 10, 20)
	tree := boxtree.Build(notation.List(notation.Row(notation.Leaf("hi"))), s.MeasureText)
	tree.Box(tree.Root()).X = 20
	tree.Box(tree.Root()).Y = 20
	z := zoom.New()
	eng := layout.New(z)
	eng.Relayout(tree)

	render.Draw(s, render.Scene{Tree: tree, Layout: eng, Pan: geom.Point{}, Box: boxtree.NoBox})

	if !strings.Contains(s.Plain(), "hi") {
		t.Errorf("leaf text missing:\n%s", s.Plain())
	}
	if s.Cell(3, 2).BG == "" {
		t.Error("root fill missing")
	}
	if out := s.String(); !strings.Contains(out, "hi") {
		t.Errorf("styled output lost the text: %q", out)
	}
}
