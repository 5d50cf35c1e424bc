// Package pngsurface draws documents into raster images with gg, using the
// Go Mono face for labels.
package pngsurface

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/muurk/boxes/internal/layout"
)

// Background is the colour Clear paints.
var Background color.Color = color.White

// NewFace returns the label face at the document font size.
func NewFace() (font.Face, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    layout.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Surface is a render.Surface over a gg context.
type Surface struct {
	dc    *gg.Context
	depth int
}

// New returns a w x h surface using face for labels.
func New(w, h int, face font.Face) *Surface {
	dc := gg.NewContext(w, h)
	dc.SetFontFace(face)
	return &Surface{dc: dc}
}

// Size implements render.Surface.
func (s *Surface) Size() (w, h float64) {
	return float64(s.dc.Width()), float64(s.dc.Height())
}

// Clear paints the background and drops any pushed frames.
func (s *Surface) Clear() {
	for ; s.depth > 0; s.depth-- {
		s.dc.Pop()
	}
	s.dc.SetColor(Background)
	s.dc.Clear()
}

// FillRect implements render.Surface.
func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Fill()
}

// StrokeRect implements render.Surface.
func (s *Surface) StrokeRect(x, y, w, h, lineWidth float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(lineWidth)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Stroke()
}

// DrawText implements render.Surface.
func (s *Surface) DrawText(x, y float64, str string, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawStringAnchored(str, x, y, 0.5, 0.5)
}

// PushFrame implements render.Surface.
func (s *Surface) PushFrame(dx, dy, scale float64) {
	s.dc.Push()
	s.depth++
	s.dc.Translate(dx, dy)
	s.dc.Scale(scale, scale)
}

// PopFrame implements render.Surface.
func (s *Surface) PopFrame() {
	if s.depth == 0 {
		return
	}
	s.dc.Pop()
	s.depth--
}

// MeasureText implements render.Surface.
func (s *Surface) MeasureText(str string) float64 {
	w, _ := s.dc.MeasureString(str)
	return w
}

// Image returns the backing image.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// EncodePNG writes the image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// SavePNG writes the image to path.
func (s *Surface) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}
