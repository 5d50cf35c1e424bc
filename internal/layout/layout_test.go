package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/notation"
	"github.com/muurk/boxes/internal/zoom"
)

func tenPerRune(s string) float64 {
	return float64(10 * len([]rune(s)))
}

func build(t *testing.T, s string) *boxtree.Tree {
	t.Helper()
	n, err := notation.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", s, err)
	}
	return boxtree.Build(n, func(text string) float64 { return TextWidth(tenPerRune, text) })
}

type rect struct{ X, Y, W, H float64 }

func snapshot(tree *boxtree.Tree) []rect {
	var out []rect
	tree.Walk(func(b *boxtree.Box) bool {
		out = append(out, rect{b.X, b.Y, b.W, b.H})
		for _, r := range b.Rows {
			out = append(out, rect{r.X, r.Y, r.W, r.H})
		}
		return true
	})
	return out
}

func TestRelayout(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []rect
	}{
		{
			name:  "placeholder root",
			input: "()",
			want:  []rect{{0, 0, EmptyBoxWidth, EmptyBoxHeight}},
		},
		{
			name:  "short leaf uses min width",
			input: "('ab)",
			want: []rect{
				{0, 0, 136, 43},
				{44, 4, 48, 35},
				{0, 0, 48, 35},
			},
		},
		{
			name:  "cells separated by border",
			input: "('abcde'xy)",
			want: []rect{
				{0, 0, 198, 43},
				{44, 4, 110, 35},
				{0, 0, 58, 35},
				{62, 0, 48, 35},
			},
		},
		{
			name:  "rows stacked",
			input: "('a,'abcde)",
			want: []rect{
				{0, 0, 146, 82},
				{44, 4, 48, 35},
				{44, 43, 58, 35},
				{0, 0, 48, 35},
				{0, 0, 58, 35},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := build(t, tt.input)
			New(zoom.New()).Relayout(tree)

			if diff := cmp.Diff(tt.want, snapshot(tree)); diff != "" {
				t.Errorf("geometry mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRelayout_ZoomedOut(t *testing.T) {
	tree := build(t, "(('a))")
	z := zoom.New()
	e := New(z)
	e.Relayout(tree)
	z.SetZoom(z.MinZoom())
	e.Relayout(tree)

	want := []rect{
		{0, 0, 29, 27.375},
		{4, 4, 21, 19.375},
		{0, 0, 21, 19.375},
		{4, 4, 13, 11.375},
		{0, 0, 13, 11.375},
	}
	if diff := cmp.Diff(want, snapshot(tree)); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}
}

func TestRelayout_Idempotent(t *testing.T) {
	tree := build(t, "(('a'b,'c)'d,(('e('f))))")
	z := zoom.New()
	e := New(z)
	e.Relayout(tree)
	z.SetZoom(-130)

	e.Relayout(tree)
	first := snapshot(tree)
	e.Relayout(tree)

	if diff := cmp.Diff(first, snapshot(tree)); diff != "" {
		t.Errorf("second relayout changed geometry (-first +second):\n%s", diff)
	}
}

func TestRelayout_Depth(t *testing.T) {
	tree := build(t, "(('a,('b)),'c)")
	z := zoom.New()
	New(z).Relayout(tree)

	if got := z.Deepest(); got != 3 {
		t.Errorf("Deepest() = %d, want 3", got)
	}
	if err := tree.Check(); err != nil {
		t.Errorf("Check() = %v", err)
	}
}

func TestRelayout_PlaceholderNeverVanishes(t *testing.T) {
	tree := build(t, "(((())))")
	z := zoom.New()
	e := New(z)
	e.Relayout(tree)
	z.SetZoom(z.MinZoom())
	e.Relayout(tree)

	tree.Walk(func(b *boxtree.Box) bool {
		if b.W <= 0 || b.H <= 0 {
			t.Errorf("box %d has zero area: %vx%v", b.ID, b.W, b.H)
		}
		return true
	})
}
