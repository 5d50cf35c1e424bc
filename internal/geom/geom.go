// Package geom holds the float geometry shared by layout, hit testing and
// drawing. All values are document pixels.
package geom

import "math"

// Point is a position in some coordinate frame.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point {
	return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2}
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{r.X, r.Y}
}

// Center returns the centre point.
func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// Lerp01 interpolates linearly between start and end for t in [0,1].
func Lerp01(start, end, t float64) float64 {
	return t*(end-start) + start
}

// Lerp maps t from [tmin,tmax] onto [start,end].
func Lerp(start, end, t, tmin, tmax float64) float64 {
	return Lerp01(start, end, (t-tmin)/(tmax-tmin))
}

// RoundLerp is Lerp rounded to the nearest 1/round.
func RoundLerp(start, end, t, tmin, tmax, round float64) float64 {
	return math.Round(Lerp(start, end, t, tmin, tmax)*round) / round
}
