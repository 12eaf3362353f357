// Package camera maps the simulation domain [-1, 1]² onto the screen with pan and zoom.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/particlelife/physics"
)

// Camera controls the viewport into the domain.
// With Wrap set, panning and projection follow the torus.
type Camera struct {
	// Center is the domain point shown at the middle of the viewport.
	Center r2.Vec

	// Zoom level (1.0 = the whole domain fits the shorter viewport side)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	Wrap bool

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// New creates a camera centered on the origin with 1:1 zoom.
func New(viewportW, viewportH float64) *Camera {
	return &Camera{
		Zoom:      1,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Wrap:      true,
		MinZoom:   0.25,
		MaxZoom:   32,
	}
}

// scale returns pixels per domain unit.
func (c *Camera) scale() float64 {
	return math.Min(c.ViewportW, c.ViewportH) / 2 * c.Zoom
}

// delta returns the offset from the camera center to pos, the shortest one on the torus when wrapping.
func (c *Camera) delta(pos r2.Vec) r2.Vec {
	d := r2.Sub(pos, c.Center)
	if c.Wrap {
		d = physics.WrapVec(d)
	}
	return d
}

// WorldToScreen converts a domain position to screen coordinates.
func (c *Camera) WorldToScreen(pos r2.Vec) (sx, sy float32) {
	d := r2.Scale(c.scale(), c.delta(pos))
	return float32(c.ViewportW/2 + d.X), float32(c.ViewportH/2 + d.Y)
}

// ScreenToWorld converts screen coordinates to a domain position.
func (c *Camera) ScreenToWorld(sx, sy float32) r2.Vec {
	d := r2.Vec{
		X: (float64(sx) - c.ViewportW/2) / c.scale(),
		Y: (float64(sy) - c.ViewportH/2) / c.scale(),
	}
	pos := r2.Add(c.Center, d)
	if c.Wrap {
		pos = physics.WrapVec(pos)
	}
	return pos
}

// IsVisible reports whether a point drawn with the given radius in pixels
// could be on screen (conservative check for culling).
func (c *Camera) IsVisible(pos r2.Vec, radius float32) bool {
	d := c.delta(pos)
	s := c.scale()
	halfW := c.ViewportW/(2*s) + float64(radius)/s
	halfH := c.ViewportH/(2*s) + float64(radius)/s
	return math.Abs(d.X) <= halfW && math.Abs(d.Y) <= halfH
}

// Pan moves the camera by the given delta in screen pixels.
// Wraps around the torus, or stays inside the domain without wrap.
func (c *Camera) Pan(dx, dy float32) {
	s := c.scale()
	next := r2.Add(c.Center, r2.Vec{X: float64(dx) / s, Y: float64(dy) / s})
	if c.Wrap {
		c.Center = physics.WrapVec(next)
		return
	}
	c.Center = physics.ClampVec(next)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, zoom))
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the origin at 1:1 zoom.
func (c *Camera) Reset() {
	c.Center = r2.Vec{}
	c.Zoom = 1
}
