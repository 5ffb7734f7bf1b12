package engine

import (
	"math"

	"github.com/vovakirdan/tui-platformer/internal/core"
)

// Status is the lifecycle state of a World.
type Status int

const (
	StatusRunning Status = iota
	StatusResetRequested
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusResetRequested:
		return "reset-requested"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Options tunes a World.
type Options struct {
	// MaxSpeed caps each velocity component in pixels per second. Zero disables the cap.
	MaxSpeed float64
}

// World owns the tilemap, the sprites and the event bus for one session.
type World struct {
	tilemap *Tilemap
	bus     *Bus
	camera  Camera
	opts    Options

	sprites []*Sprite
	nextID  SpriteID

	controlled *Sprite
	moveSpeed  float64

	status Status
}

type wallHit struct {
	sprite *Sprite
	loc    Location
}

// NewWorld creates a world over the given tilemap. The world takes ownership
// of the tilemap and mutates it through SetTileAt calls made by handlers.
func NewWorld(tm *Tilemap, opts Options) *World {
	return &World{
		tilemap: tm,
		bus:     NewBus(),
		opts:    opts,
		nextID:  1,
	}
}

// Tilemap returns the world's tile grid.
func (w *World) Tilemap() *Tilemap { return w.tilemap }

// Bus returns the event bus handlers subscribe on.
func (w *World) Bus() *Bus { return w.bus }

// Camera returns the world's camera.
func (w *World) Camera() *Camera { return &w.camera }

// Status returns the lifecycle state.
func (w *World) Status() Status { return w.status }

// Halted reports whether the world stopped dispatching for this session.
func (w *World) Halted() bool { return w.status != StatusRunning }

// Spawn creates a sprite of the given kind and size centered at (x, y).
func (w *World) Spawn(kind Kind, width, height, x, y float64) *Sprite {
	s := &Sprite{
		Body: Body{X: x, Y: y, W: width, H: height},
		id:   w.nextID,
		kind: kind,
	}
	w.nextID++
	w.sprites = append(w.sprites, s)
	return s
}

// Sprites returns the live sprites in spawn order.
func (w *World) Sprites() []*Sprite {
	out := make([]*Sprite, 0, len(w.sprites))
	for _, s := range w.sprites {
		if !s.destroyed {
			out = append(out, s)
		}
	}
	return out
}

// SpritesOfKind returns the live sprites of one kind in spawn order.
func (w *World) SpritesOfKind(kind Kind) []*Sprite {
	var out []*Sprite
	for _, s := range w.sprites {
		if !s.destroyed && s.kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// MoveSprite binds the horizontal input axis to s: each step sets
// s.VX to speed times the held direction. Vertical velocity is left alone.
func (w *World) MoveSprite(s *Sprite, speed float64) {
	w.controlled = s
	w.moveSpeed = speed
}

// Reset asks the host to reinitialize the session. Remaining events of the
// current step are dropped.
func (w *World) Reset() {
	if w.status == StatusRunning {
		w.status = StatusResetRequested
	}
}

// Over ends the session. Remaining events of the current step are dropped
// and later steps do nothing.
func (w *World) Over(won bool) {
	if w.status != StatusRunning {
		return
	}
	if won {
		w.status = StatusWon
	} else {
		w.status = StatusLost
	}
}

// Step advances the world by dt seconds.
//
// Order within a step: button events, controller binding, integration with
// tile collision for every sprite, wall-hit events, tile overlap events,
// sprite overlap events. Overlap detection always sees positions and
// velocities from after this step's integration.
func (w *World) Step(dt float64, in core.InputFrame) {
	if w.Halted() {
		return
	}

	if in.Has(core.ActionJump) {
		for _, h := range w.bus.buttons[ButtonA] {
			h()
			if w.Halted() {
				return
			}
		}
	}

	if w.controlled != nil && !w.controlled.destroyed {
		w.controlled.VX = float64(in.Horizontal()) * w.moveSpeed
	}

	var hits []wallHit
	for _, s := range w.Sprites() {
		hits = append(hits, w.integrate(s, dt)...)
	}

	w.dispatchWallHits(hits)
	w.dispatchTileOverlaps()
	w.dispatchSpriteOverlaps()
	w.prune()

	w.camera.Update(w.tilemap.WidthPx(), w.tilemap.HeightPx())
}

// integrate applies acceleration and velocity to one sprite, resolving
// tile collisions one axis at a time.
func (w *World) integrate(s *Sprite, dt float64) []wallHit {
	s.hitting = [4]bool{}

	s.VX = w.capSpeed(s.VX + s.AX*dt)
	s.VY = w.capSpeed(s.VY + s.AY*dt)

	var hits []wallHit
	if loc, ok := w.moveAxis(s, s.VX*dt, true); ok {
		hits = append(hits, wallHit{sprite: s, loc: loc})
	}
	if loc, ok := w.moveAxis(s, s.VY*dt, false); ok {
		hits = append(hits, wallHit{sprite: s, loc: loc})
	}
	return hits
}

func (w *World) capSpeed(v float64) float64 {
	if w.opts.MaxSpeed <= 0 {
		return v
	}
	return core.ClampF(v, -w.opts.MaxSpeed, w.opts.MaxSpeed)
}

// moveAxis moves s by delta along one axis in sub-steps no longer than half
// a tile so fast sprites cannot tunnel. On contact the sprite is snapped flush
// against the tile, its velocity on that axis is zeroed and the side is
// marked as hitting.
func (w *World) moveAxis(s *Sprite, delta float64, horizontal bool) (Location, bool) {
	if delta == 0 {
		return Location{}, false
	}

	maxStep := w.tilemap.TileSize() / 2
	steps := int(math.Ceil(math.Abs(delta) / maxStep))
	step := delta / float64(steps)

	for i := 0; i < steps; i++ {
		if horizontal {
			s.X += step
		} else {
			s.Y += step
		}

		solid := w.tilemap.solidUnder(s.Box())
		if len(solid) == 0 {
			continue
		}

		loc := w.snap(s, solid, step > 0, horizontal)
		return loc, true
	}
	return Location{}, false
}

// snap pushes s out of the nearest solid tile in the direction of travel and
// returns that tile.
func (w *World) snap(s *Sprite, solid []Location, positive, horizontal bool) Location {
	best := solid[0]
	for _, loc := range solid[1:] {
		switch {
		case horizontal && positive && loc.Col < best.Col,
			horizontal && !positive && loc.Col > best.Col,
			!horizontal && positive && loc.Row < best.Row,
			!horizontal && !positive && loc.Row > best.Row:
			best = loc
		}
	}

	box := w.tilemap.TileBox(best)
	switch {
	case horizontal && positive:
		s.SetRight(box.Left())
		s.VX = 0
		s.hitting[Right] = true
	case horizontal:
		s.SetLeft(box.Right())
		s.VX = 0
		s.hitting[Left] = true
	case positive:
		s.SetBottom(box.Top())
		s.VY = 0
		s.hitting[Bottom] = true
	default:
		s.SetTop(box.Bottom())
		s.VY = 0
		s.hitting[Top] = true
	}
	return best
}

func (w *World) dispatchWallHits(hits []wallHit) {
	for _, hit := range hits {
		for _, h := range w.bus.walls[hit.sprite.kind] {
			if w.Halted() {
				return
			}
			if hit.sprite.destroyed {
				break
			}
			h(hit.sprite, hit.loc)
		}
	}
}

func (w *World) dispatchTileOverlaps() {
	for _, s := range w.sprites {
		if s.destroyed {
			continue
		}
		for _, loc := range w.tilemap.OverlappingTiles(s.Box()) {
			tile := w.tilemap.TileAt(loc)
			if !w.bus.hasTileHandlers(s.kind, tile) {
				continue
			}
			for _, h := range w.bus.tiles[tileKey{sprite: s.kind, tile: tile}] {
				if w.Halted() {
					return
				}
				if s.destroyed {
					break
				}
				h(s, loc)
			}
		}
	}
}

func (w *World) dispatchSpriteOverlaps() {
	for _, binding := range w.bus.pairs {
		for i := 0; i < len(w.sprites); i++ {
			for j := i + 1; j < len(w.sprites); j++ {
				if w.Halted() {
					return
				}
				a, b := w.sprites[i], w.sprites[j]
				if a.destroyed || b.destroyed {
					continue
				}
				switch {
				case a.kind == binding.a && b.kind == binding.b:
				case a.kind == binding.b && b.kind == binding.a:
					a, b = b, a
				default:
					continue
				}
				if a.Box().Intersects(b.Box()) {
					binding.handler(a, b)
				}
			}
		}
	}
}

func (w *World) prune() {
	live := w.sprites[:0]
	for _, s := range w.sprites {
		if !s.destroyed {
			live = append(live, s)
		}
	}
	for i := len(live); i < len(w.sprites); i++ {
		w.sprites[i] = nil
	}
	w.sprites = live
	if w.controlled != nil && w.controlled.destroyed {
		w.controlled = nil
	}
}
