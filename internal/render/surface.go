// Package render draws a laid-out tree onto an abstract surface.
//
// A Surface is anything that can fill and stroke rectangles, draw centred
// text and keep a stack of nested coordinate frames. The terminal editor and
// the PNG exporter each provide one.
package render

import "image/color"

// Surface is the drawing target. Coordinates passed to the drawing calls are
// in the current frame, which PushFrame translates and scales.
type Surface interface {
	// Size returns the surface size in document pixels.
	Size() (w, h float64)
	Clear()
	FillRect(x, y, w, h float64, c color.Color)
	StrokeRect(x, y, w, h, lineWidth float64, c color.Color)
	// DrawText draws s centred on (x, y).
	DrawText(x, y float64, s string, c color.Color)
	// PushFrame enters a frame offset by (dx, dy) then scaled by scale.
	PushFrame(dx, dy, scale float64)
	PopFrame()
	// MeasureText returns the unscaled width of s.
	MeasureText(s string) float64
}

// Frame is one entry of a surface's transform stack. Surfaces use it to map
// frame coordinates to device coordinates.
type Frame struct {
	DX, DY, Scale float64
}

// Stack is a composable transform stack for Surface implementations.
type Stack struct {
	frames []Frame
}

// Push composes a new frame on top of the current one.
func (s *Stack) Push(dx, dy, scale float64) {
	top := s.Top()
	s.frames = append(s.frames, Frame{
		DX:    top.DX + dx*top.Scale,
		DY:    top.DY + dy*top.Scale,
		Scale: top.Scale * scale,
	})
}

// Pop discards the current frame. Popping an empty stack is a no-op.
func (s *Stack) Pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Reset empties the stack.
func (s *Stack) Reset() {
	s.frames = s.frames[:0]
}

// Depth returns the number of pushed frames.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Top returns the composed transform; the identity when empty.
func (s *Stack) Top() Frame {
	if len(s.frames) == 0 {
		return Frame{Scale: 1}
	}
	return s.frames[len(s.frames)-1]
}

// Apply maps a point in the current frame to device coordinates.
func (s *Stack) Apply(x, y float64) (float64, float64) {
	f := s.Top()
	return f.DX + x*f.Scale, f.DY + y*f.Scale
}
