package pngsurface

import (
	"math"

	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/layout"
	"github.com/muurk/boxes/internal/notation"
	"github.com/muurk/boxes/internal/render"
	"github.com/muurk/boxes/internal/zoom"
)

// Options control Render.
type Options struct {
	// Levels is how many nesting levels are shown at full size. Zero shows
	// every level.
	Levels int
	// Margin is the blank border around the root, in pixels.
	Margin float64
}

// Render lays out n and draws it onto a surface sized to fit.
func Render(n *notation.Node, opts Options) (*Surface, error) {
	face, err := NewFace()
	if err != nil {
		return nil, err
	}
	measure := New(1, 1, face)
	tree := boxtree.Build(n, measure.MeasureText)

	z := zoom.New()
	eng := layout.New(z)
	eng.Relayout(tree)
	if opts.Levels > 0 {
		z.SetZoom(-zoom.PixelsPerLevel * float64(max(z.Deepest()+1-opts.Levels, 0)))
		eng.Relayout(tree)
	}

	root := tree.Box(tree.Root())
	root.X, root.Y = opts.Margin, opts.Margin
	w := int(math.Ceil(root.W + 2*opts.Margin))
	h := int(math.Ceil(root.H + 2*opts.Margin))

	s := New(w, h, face)
	render.Draw(s, render.Scene{Tree: tree, Layout: eng, Box: boxtree.NoBox})
	return s, nil
}
