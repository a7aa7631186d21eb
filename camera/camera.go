// Package camera maps the fixed-size arena onto the window.
package camera

import "math"

// Camera scales the arena uniformly to fit the viewport and centers it,
// leaving letterbox bars on the long axis.
type Camera struct {
	// Arena dimensions in logical units
	WorldW, WorldH float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Derived by Resize
	Scale            float32
	OffsetX, OffsetY float32

	// Screen shake, in screen pixels, decaying over time
	shake      float32
	shakePhase float32
}

// shakeDecay is how many pixels of shake amplitude are lost per second.
const shakeDecay = 40

// New creates a camera fitting a world of worldW x worldH into the viewport.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{WorldW: worldW, WorldH: worldH}
	c.Resize(viewportW, viewportH)
	return c
}

// Resize updates viewport dimensions and recomputes scale and letterbox offsets.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	if c.WorldW <= 0 || c.WorldH <= 0 {
		c.Scale = 1
		return
	}

	c.Scale = min(viewportW/c.WorldW, viewportH/c.WorldH)
	if c.Scale <= 0 {
		c.Scale = 1
	}
	c.OffsetX = (viewportW - c.WorldW*c.Scale) / 2
	c.OffsetY = (viewportH - c.WorldH*c.Scale) / 2
}

// WorldToScreen converts arena coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx, dy := c.shakeOffset()
	return c.OffsetX + wx*c.Scale + dx, c.OffsetY + wy*c.Scale + dy
}

// ScreenToWorld converts screen coordinates to arena coordinates.
// Shake is ignored.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	return (sx - c.OffsetX) / c.Scale, (sy - c.OffsetY) / c.Scale
}

// ToScreenLen scales an arena length to screen pixels.
func (c *Camera) ToScreenLen(l float32) float32 {
	return l * c.Scale
}

// IsVisible returns true if the box at (wx, wy) with size w x h overlaps the
// arena. Anything outside is hidden behind the letterbox.
func (c *Camera) IsVisible(wx, wy, w, h float32) bool {
	return wx+w > 0 && wy+h > 0 && wx < c.WorldW && wy < c.WorldH
}

// ArenaRect returns the screen rectangle the arena occupies.
func (c *Camera) ArenaRect() (x, y, w, h float32) {
	return c.OffsetX, c.OffsetY, c.WorldW * c.Scale, c.WorldH * c.Scale
}

// Shake starts a screen shake of the given amplitude in pixels. A weaker
// shake never cuts a stronger one short.
func (c *Camera) Shake(amplitude float32) {
	c.shake = max(c.shake, amplitude)
}

// Update advances the shake by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.shake <= 0 {
		return
	}
	c.shakePhase += dt * 60
	c.shake = clamp(c.shake-shakeDecay*dt, 0, c.shake)
}

// Shaking reports whether a shake is in progress.
func (c *Camera) Shaking() bool {
	return c.shake > 0
}

func (c *Camera) shakeOffset() (dx, dy float32) {
	if c.shake <= 0 {
		return 0, 0
	}
	p := float64(c.shakePhase)
	return c.shake * float32(math.Sin(p*1.7)), c.shake * float32(math.Cos(p*2.3))
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
