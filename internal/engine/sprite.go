package engine

import "github.com/vovakirdan/tui-platformer/internal/core"

// Kind is a sprite category. Games define their own kinds; the zero value
// is never used by the engine.
type Kind int

// SpriteID identifies a sprite within a World. IDs increase with spawn order.
type SpriteID int

// Direction is one side of a sprite's bounding box.
type Direction int

const (
	Top Direction = iota
	Bottom
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Body is the physical state of a sprite. X and Y are the center of the
// bounding box in pixels; y grows downward.
type Body struct {
	X, Y   float64
	VX, VY float64 // pixels per second
	AX, AY float64 // pixels per second squared
	W, H   float64
}

// Box returns the bounding box.
func (b Body) Box() core.Box {
	return core.BoxAround(b.X, b.Y, b.W, b.H)
}

// Left returns the x-coordinate of the left edge.
func (b Body) Left() float64 { return b.X - b.W/2 }

// Right returns the x-coordinate of the right edge.
func (b Body) Right() float64 { return b.X + b.W/2 }

// Top returns the y-coordinate of the top edge.
func (b Body) Top() float64 { return b.Y - b.H/2 }

// Bottom returns the y-coordinate of the bottom edge.
func (b Body) Bottom() float64 { return b.Y + b.H/2 }

// Sprite is an entity owned by a World. Handlers receive *Sprite handles and
// may change the embedded Body fields directly.
type Sprite struct {
	Body

	id        SpriteID
	kind      Kind
	hitting   [4]bool
	destroyed bool
}

// ID returns the sprite's identifier.
func (s *Sprite) ID() SpriteID { return s.id }

// Snapshot returns a copy of the sprite's physical state.
func (s *Sprite) Snapshot() Body { return s.Body }

// SetLeft moves the sprite so its left edge is at x.
func (s *Sprite) SetLeft(x float64) { s.X = x + s.W/2 }

// SetRight moves the sprite so its right edge is at x.
func (s *Sprite) SetRight(x float64) { s.X = x - s.W/2 }

// SetTop moves the sprite so its top edge is at y.
func (s *Sprite) SetTop(y float64) { s.Y = y + s.H/2 }

// SetBottom moves the sprite so its bottom edge is at y.
func (s *Sprite) SetBottom(y float64) { s.Y = y - s.H/2 }

// IsHittingTile reports whether the sprite touched a solid tile on the given
// side during the most recent step.
func (s *Sprite) IsHittingTile(d Direction) bool {
	if d < Top || d > Right {
		return false
	}
	return s.hitting[d]
}

// Destroy removes the sprite from its world. Destroyed sprites receive no
// further events and are pruned at the end of the step.
func (s *Sprite) Destroy() { s.destroyed = true }

// Destroyed reports whether Destroy has been called.
func (s *Sprite) Destroyed() bool { return s.destroyed }
