// Package camera maps between world and screen coordinates for the 2D view
// of the flock. The world wraps at its edges, so all deltas are shortest
// toroidal distances.
package camera

import "math"

// Camera is a pan/zoom viewport into the world's XY plane. Depth is handled
// by the renderer's shading, not here.
type Camera struct {
	// X, Y is the camera center in world coordinates.
	X, Y float32

	// Zoom maps world units to pixels (1.0 = 1:1).
	Zoom float32

	viewportW, viewportH float32
	worldW, worldH       float32
	minZoom, maxZoom     float32
}

// New creates a camera centered on the world at 1:1 zoom. The minimum zoom
// keeps the visible area inside the world so the wrapped view never tiles.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	minZoom := viewportW / worldW
	if z := viewportH / worldH; z > minZoom {
		minZoom = z
	}
	return &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      1.0,
		viewportW: viewportW,
		viewportH: viewportH,
		worldW:    worldW,
		worldH:    worldH,
		minZoom:   minZoom,
		maxZoom:   4.0,
	}
}

// WorldToScreen projects a world position into screen pixels, taking the
// shortest wrapped path to the camera center.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := wrapDelta(wx, c.X, c.worldW)
	dy := wrapDelta(wy, c.Y, c.worldH)
	return c.viewportW/2 + dx*c.Zoom, c.viewportH/2 + dy*c.Zoom
}

// ScreenToWorld maps a screen position back into world coordinates, wrapped
// into world bounds. Used to place the cursor target.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.viewportW/2) / c.Zoom
	dy := (sy - c.viewportH/2) / c.Zoom
	return wrap(c.X+dx, c.worldW), wrap(c.Y+dy, c.worldH)
}

// IsVisible reports whether a circle at (wx, wy) could appear on screen.
// Conservative; used to cull draw calls when zoomed in.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	dx := wrapDelta(wx, c.X, c.worldW)
	dy := wrapDelta(wy, c.Y, c.worldH)
	halfW := c.viewportW/(2*c.Zoom) + radius
	halfH := c.viewportH/(2*c.Zoom) + radius
	return absf(dx) <= halfW && absf(dy) <= halfH
}

// Pan moves the camera by a screen-pixel delta, wrapping at world edges.
func (c *Camera) Pan(dx, dy float32) {
	c.X = wrap(c.X+dx/c.Zoom, c.worldW)
	c.Y = wrap(c.Y+dy/c.Zoom, c.worldH)
}

// ZoomBy scales the zoom level, clamped to the valid range. The center
// stays fixed.
func (c *Camera) ZoomBy(factor float32) {
	z := c.Zoom * factor
	if z < c.minZoom {
		z = c.minZoom
	}
	if z > c.maxZoom {
		z = c.maxZoom
	}
	c.Zoom = z
}

// Reset recenters the camera at 1:1 zoom.
func (c *Camera) Reset() {
	c.X = c.worldW / 2
	c.Y = c.worldH / 2
	c.Zoom = 1.0
}

// wrapDelta is the shortest signed distance from 'from' to 'to' in a
// wrapping axis of the given size.
func wrapDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// wrap maps x into [0, size).
func wrap(x, size float32) float32 {
	r := float32(math.Mod(float64(x), float64(size)))
	if r < 0 {
		r += size
	}
	return r
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
