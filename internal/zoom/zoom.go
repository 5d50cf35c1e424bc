// Package zoom implements semantic zoom: a single scalar that decides how far
// each nesting level is collapsed.
//
// Zoom is measured in pixels and is never positive. Every PixelsPerLevel of
// zoom-out moves the shrink cutoff one level closer to the root; boxes past
// the cutoff lose their handles and their text shrinks in three tiers down to
// MinShrink.
package zoom

import (
	"math"

	"github.com/muurk/boxes/internal/geom"
)

const (
	// PixelsPerLevel is the amount of zoom that collapses one level.
	PixelsPerLevel = 80
	// Shrink0 is the text scale at the cutoff once a level has fully rolled off.
	Shrink0 = 0.5
	// MinShrink is the floor for text shrink; text below it is not drawn.
	MinShrink = Shrink0 / 16
	// TooSmallThreshold is the handle shrink below which a tapped box is
	// zoomed to instead of selected.
	TooSmallThreshold = 0.75
)

// Controller holds the zoom scalar and the shrink parameters derived from it.
// The zero value is fully zoomed in on a flat document.
type Controller struct {
	zoom    float64
	deepest int

	cutoff        int
	handleRolloff float64
	rolloff       [3]float64
}

// New returns a controller at zoom 0.
func New() *Controller {
	c := &Controller{}
	c.update()
	return c
}

// Zoom returns the current zoom value.
func (c *Controller) Zoom() float64 { return c.zoom }

// Deepest returns the deepest level the controller was told about.
func (c *Controller) Deepest() int { return c.deepest }

// Cutoff returns the first level whose handles are not at full size.
func (c *Controller) Cutoff() int { return c.cutoff }

// Rollback returns the fraction in (0,1] the cutoff level is shrunk to.
func (c *Controller) Rollback() float64 { return c.handleRolloff }

// MinZoom returns the fully collapsed zoom value for the current depth.
func (c *Controller) MinZoom() float64 {
	return -PixelsPerLevel * float64(c.deepest)
}

// SetDeepest records the document's maximum level and rederives the shrink
// parameters, clamping zoom if the document got shallower.
func (c *Controller) SetDeepest(deepest int) {
	c.deepest = deepest
	c.update()
}

// SetZoom sets the zoom value, clamped to [MinZoom, 0], and returns the
// clamped value.
func (c *Controller) SetZoom(z float64) float64 {
	c.zoom = z
	c.update()
	return c.zoom
}

func (c *Controller) update() {
	if c.zoom < c.MinZoom() {
		c.zoom = c.MinZoom()
	}

	if c.zoom < 0 {
		nz := c.zoom / -PixelsPerLevel
		rnz := math.Floor(nz)
		c.cutoff = c.deepest - int(rnz)
		s := 1 - (nz - rnz)
		c.handleRolloff = s
		c.rolloff[0] = math.Max(s, Shrink0)
		c.rolloff[1] = Shrink0 * geom.Lerp01(0.25, 1, s)
		c.rolloff[2] = Shrink0 * geom.Lerp01(0.0625, 0.25, s)
		return
	}

	c.zoom = 0
	c.cutoff = c.deepest
	c.handleRolloff = 1
	c.rolloff = [3]float64{1, 1, 1}
}

// EffectiveLevel is level plus one for a box that owns rows; a list
// consumes one extra wrapper level compared with a leaf.
func EffectiveLevel(level int, hasRows bool) int {
	if hasRows {
		return level + 1
	}
	return level
}

// HandleShrink returns the handle scale for an effective level.
func (c *Controller) HandleShrink(level int) float64 {
	switch {
	case level > c.cutoff:
		return 0
	case level == c.cutoff:
		return c.handleRolloff
	default:
		return 1
	}
}

// TextShrink returns the text scale for an effective level.
func (c *Controller) TextShrink(level int) float64 {
	switch d := level - c.cutoff; {
	case d > 2:
		return MinShrink
	case d >= 0:
		return c.rolloff[d]
	default:
		return 1
	}
}

// FocusZoom returns the zoom that brings a box's handle exactly to the
// rollback boundary, and false if the box is already large enough that no
// zoom is needed.
func (c *Controller) FocusZoom(level int, hasRows bool) (float64, bool) {
	if c.HandleShrink(EffectiveLevel(level, hasRows)) > TooSmallThreshold {
		return 0, false
	}
	minLevel := c.deepest - level
	if hasRows {
		minLevel--
	}
	return -PixelsPerLevel * float64(minLevel), true
}
