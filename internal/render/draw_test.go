package render

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/geom"
	"github.com/muurk/boxes/internal/layout"
	"github.com/muurk/boxes/internal/notation"
	"github.com/muurk/boxes/internal/zoom"
)

// recorder is a Surface that logs every primitive in device coordinates.
type recorder struct {
	stack Stack
	ops   []string
	texts []string
}

func (r *recorder) Size() (float64, float64) { return 800, 600 }
func (r *recorder) Clear()                    { r.ops = append(r.ops, "clear") }
func (r *recorder) FillRect(x, y, w, h float64, _ color.Color) {
	x, y = r.stack.Apply(x, y)
	r.ops = append(r.ops, fmt.Sprintf("fill %g,%g", x, y))
}
func (r *recorder) StrokeRect(x, y, w, h, lw float64, _ color.Color) {
	x, y = r.stack.Apply(x, y)
	r.ops = append(r.ops, fmt.Sprintf("stroke %g,%g %gx%g/%g", x, y, w, h, lw))
}
func (r *recorder) DrawText(x, y float64, s string, _ color.Color) {
	r.texts = append(r.texts, s)
}
func (r *recorder) PushFrame(dx, dy, scale float64) { r.stack.Push(dx, dy, scale) }
func (r *recorder) PopFrame()                       { r.stack.Pop() }
func (r *recorder) MeasureText(s string) float64    { return float64(10 * len(s)) }

func scene(t *testing.T, doc string, z float64) Scene {
	t.Helper()
	n, err := notation.Parse(doc)
	if err != nil {
		t.Fatal(err)
	}
	r := &recorder{}
	tree := boxtree.Build(n, func(s string) float64 { return layout.TextWidth(r.MeasureText, s) })
	zc := zoom.New()
	e := layout.New(zc)
	e.Relayout(tree)
	zc.SetZoom(z)
	e.Relayout(tree)
	return Scene{Tree: tree, Layout: e, Box: boxtree.NoBox}
}

func TestDraw(t *testing.T) {
	sc := scene(t, "('ab'cd)", 0)
	sc.Pan = geom.Pt(10, 20)
	r := &recorder{}

	Draw(r, sc)

	want := []string{"clear", "fill 10,20", "fill 54,24", "fill 106,24"}
	if diff := cmp.Diff(want, r.ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ab", "cd"}, r.texts); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	if d := r.stack.Depth(); d != 0 {
		t.Errorf("frame stack depth after Draw = %d, want 0", d)
	}
}

func TestDraw_Cursor(t *testing.T) {
	tests := []struct {
		name string
		mark MarkKind
		cell int
		want []string
	}{
		{
			name: "before first",
			mark: MarkBefore,
			cell: 0,
			want: []string{"stroke 40,4 4x35/4", "stroke 44,4 48x35/2"},
		},
		{
			name: "after first outlines next",
			mark: MarkAfter,
			cell: 0,
			want: []string{"stroke 92,4 4x35/4", "stroke 96,4 48x35/2"},
		},
		{
			name: "after last",
			mark: MarkAfter,
			cell: 1,
			want: []string{"stroke 144,4 4x35/4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := scene(t, "('ab'cd)", 0)
			sc.Mark = tt.mark
			sc.Box = sc.Tree.Box(sc.Tree.Root()).Rows[0].Cells[tt.cell]
			r := &recorder{}

			Draw(r, sc)

			got := r.ops[4:]
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("cursor ops mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDraw_HidesCollapsedText(t *testing.T) {
	sc := scene(t, "((('deep)))", -1000)
	r := &recorder{}

	Draw(r, sc)

	if len(r.texts) != 0 {
		t.Errorf("collapsed text drawn: %v", r.texts)
	}
}

func TestLevelColor(t *testing.T) {
	tests := []struct {
		level  int
		shrink float64
		want   colorful.Color
	}{
		{0, 1, colorful.Hsl(240, 0.8, 0.92)},
		{1, 1, colorful.Hsl(0, 0.8, 0.92)},
		{2, 0, colorful.Hsl(240, 0.8, 0.80)},
		{3, 0.5, colorful.Hsl(0, 0.8, 0.86)},
	}

	for _, tt := range tests {
		if got := LevelColor(tt.level, tt.shrink); !got.AlmostEqualRgb(tt.want) {
			t.Errorf("LevelColor(%d, %v) = %v, want %v", tt.level, tt.shrink, got.Hex(), tt.want.Hex())
		}
	}
}

func TestPalette(t *testing.T) {
	tests := []struct {
		name string
		got  colorful.Color
		want string
	}{
		{"text", TextColor, "#000000"},
		{"selection", SelectionColor, "#808080"},
	}

	for _, tt := range tests {
		if got := tt.got.Hex(); got != tt.want {
			t.Errorf("%s color = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStack(t *testing.T) {
	var s Stack
	s.Push(10, 20, 1)
	s.Push(5, 5, 2)
	s.Push(1, 1, 1)

	if x, y := s.Apply(3, 4); x != 23 || y != 35 {
		t.Errorf("Apply(3, 4) = %v, %v; want 23, 35", x, y)
	}
	s.Pop()
	s.Pop()
	if x, y := s.Apply(3, 4); x != 13 || y != 24 {
		t.Errorf("after Pop, Apply(3, 4) = %v, %v; want 13, 24", x, y)
	}
}
