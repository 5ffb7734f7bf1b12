package engine

// Button is a controller button that produces edge-triggered press events.
type Button int

const (
	ButtonA Button = iota
)

// ButtonHandler runs when a button is pressed.
type ButtonHandler func()

// TileOverlapHandler runs for each tile of a subscribed kind a sprite overlaps.
type TileOverlapHandler func(s *Sprite, loc Location)

// SpriteOverlapHandler runs for each overlapping pair of subscribed kinds.
// The first argument always has the first kind of the subscription.
type SpriteOverlapHandler func(s, other *Sprite)

// WallHitHandler runs when a sprite of a subscribed kind collides with a solid tile.
type WallHitHandler func(s *Sprite, loc Location)

type tileKey struct {
	sprite Kind
	tile   TileKind
}

type pairBinding struct {
	a, b    Kind
	handler SpriteOverlapHandler
}

// Bus is the typed listener registry that World dispatches through.
// Handlers run synchronously on the stepping goroutine in registration order.
type Bus struct {
	buttons map[Button][]ButtonHandler
	tiles   map[tileKey][]TileOverlapHandler
	pairs   []pairBinding
	walls   map[Kind][]WallHitHandler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		buttons: make(map[Button][]ButtonHandler),
		tiles:   make(map[tileKey][]TileOverlapHandler),
		walls:   make(map[Kind][]WallHitHandler),
	}
}

// OnButtonPressed subscribes to presses of b.
func (b *Bus) OnButtonPressed(btn Button, h ButtonHandler) {
	b.buttons[btn] = append(b.buttons[btn], h)
}

// OnTileOverlap subscribes to sprites of kind overlapping tiles of tile kind.
func (b *Bus) OnTileOverlap(kind Kind, tile TileKind, h TileOverlapHandler) {
	key := tileKey{sprite: kind, tile: tile}
	b.tiles[key] = append(b.tiles[key], h)
}

// OnSpriteOverlap subscribes to overlaps between a sprite of kind a and one of kind b.
func (b *Bus) OnSpriteOverlap(a, other Kind, h SpriteOverlapHandler) {
	b.pairs = append(b.pairs, pairBinding{a: a, b: other, handler: h})
}

// OnHitWall subscribes to solid-tile collisions of sprites of kind.
func (b *Bus) OnHitWall(kind Kind, h WallHitHandler) {
	b.walls[kind] = append(b.walls[kind], h)
}

func (b *Bus) hasTileHandlers(kind Kind, tile TileKind) bool {
	return len(b.tiles[tileKey{sprite: kind, tile: tile}]) > 0
}
