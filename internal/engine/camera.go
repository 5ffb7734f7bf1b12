package engine

import "github.com/vovakirdan/tui-platformer/internal/core"

// Camera tracks a sprite and stays boxed inside the tilemap.
type Camera struct {
	X, Y         float64 // top-left of the view in pixels
	ViewW, ViewH float64
	target       *Sprite
}

// Follow makes the camera center on s at every update.
func (c *Camera) Follow(s *Sprite) {
	c.target = s
}

// SetViewport changes the size of the visible area in pixels.
func (c *Camera) SetViewport(w, h float64) {
	c.ViewW = w
	c.ViewH = h
}

// Update recenters on the target and clamps to a map of the given size.
// A map smaller than the view is pinned to the top-left corner.
func (c *Camera) Update(mapW, mapH float64) {
	if c.target != nil && !c.target.Destroyed() {
		c.X = c.target.X - c.ViewW/2
		c.Y = c.target.Y - c.ViewH/2
	}
	c.X = core.ClampF(c.X, 0, max(0, mapW-c.ViewW))
	c.Y = core.ClampF(c.Y, 0, max(0, mapH-c.ViewH))
}

// Viewport returns the visible area in world pixels.
func (c *Camera) Viewport() core.Box {
	return core.Box{X: c.X, Y: c.Y, W: c.ViewW, H: c.ViewH}
}
