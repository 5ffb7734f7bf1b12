// Package engine is the host runtime the game rules run on: sprites with
// position/velocity/acceleration, a typed tile grid, a per-axis integrator with
// tile collision, a typed event bus and a follow camera.
//
// The engine knows nothing about players, enemies or lava. Games create
// sprite kinds, subscribe handlers on the Bus and react to what World.Step
// reports.
package engine

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-platformer/internal/core"
)

// TileKind is the type of a single tile in the grid.
type TileKind uint8

const (
	TileTransparent TileKind = iota
	TileBrick
	TileTreasure
	TileLava
	TilePlayerSpawn
	TileEnemySpawn
)

// Solid reports whether sprites collide with this tile.
func (k TileKind) Solid() bool {
	return k == TileBrick
}

func (k TileKind) String() string {
	switch k {
	case TileTransparent:
		return "transparent"
	case TileBrick:
		return "brick"
	case TileTreasure:
		return "treasure"
	case TileLava:
		return "lava"
	case TilePlayerSpawn:
		return "player-spawn"
	case TileEnemySpawn:
		return "enemy-spawn"
	default:
		return fmt.Sprintf("tile(%d)", uint8(k))
	}
}

// Location addresses a tile by column and row.
type Location struct {
	Col, Row int
}

// Tilemap is a fixed-size grid of tiles with square cells of TileSize pixels.
// Anything outside the grid behaves as a solid wall.
type Tilemap struct {
	cols, rows int
	tileSize   float64
	tiles      []TileKind
}

// NewTilemap creates a tilemap from row-major tile data. The slice is copied.
func NewTilemap(cols, rows int, tileSize float64, tiles []TileKind) (*Tilemap, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("engine: invalid tilemap size %dx%d", cols, rows)
	}
	if len(tiles) != cols*rows {
		return nil, fmt.Errorf("engine: tilemap expects %d tiles, got %d", cols*rows, len(tiles))
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("engine: invalid tile size %v", tileSize)
	}
	data := make([]TileKind, len(tiles))
	copy(data, tiles)
	return &Tilemap{cols: cols, rows: rows, tileSize: tileSize, tiles: data}, nil
}

// Cols returns the grid width in tiles.
func (m *Tilemap) Cols() int { return m.cols }

// Rows returns the grid height in tiles.
func (m *Tilemap) Rows() int { return m.rows }

// TileSize returns the edge length of a tile in pixels.
func (m *Tilemap) TileSize() float64 { return m.tileSize }

// WidthPx returns the map width in pixels.
func (m *Tilemap) WidthPx() float64 { return float64(m.cols) * m.tileSize }

// HeightPx returns the map height in pixels.
func (m *Tilemap) HeightPx() float64 { return float64(m.rows) * m.tileSize }

// InBounds reports whether the location lies inside the grid.
func (m *Tilemap) InBounds(loc Location) bool {
	return loc.Col >= 0 && loc.Col < m.cols && loc.Row >= 0 && loc.Row < m.rows
}

// TileAt returns the tile at loc, or TileTransparent outside the grid.
func (m *Tilemap) TileAt(loc Location) TileKind {
	if !m.InBounds(loc) {
		return TileTransparent
	}
	return m.tiles[loc.Row*m.cols+loc.Col]
}

// SetTileAt replaces the tile at loc. Out-of-bounds writes are ignored.
func (m *Tilemap) SetTileAt(loc Location, kind TileKind) {
	if !m.InBounds(loc) {
		return
	}
	m.tiles[loc.Row*m.cols+loc.Col] = kind
}

// IsSolid reports whether sprites collide with the cell at loc.
func (m *Tilemap) IsSolid(loc Location) bool {
	if !m.InBounds(loc) {
		return true
	}
	return m.TileAt(loc).Solid()
}

// TilesByType returns every location holding the given kind in row-major order.
func (m *Tilemap) TilesByType(kind TileKind) []Location {
	var out []Location
	for i, k := range m.tiles {
		if k == kind {
			out = append(out, Location{Col: i % m.cols, Row: i / m.cols})
		}
	}
	return out
}

// Center returns the pixel coordinates of the center of a tile.
func (m *Tilemap) Center(loc Location) (x, y float64) {
	return (float64(loc.Col) + 0.5) * m.tileSize, (float64(loc.Row) + 0.5) * m.tileSize
}

// TileBox returns the pixel bounds of a tile.
func (m *Tilemap) TileBox(loc Location) core.Box {
	return core.Box{
		X: float64(loc.Col) * m.tileSize,
		Y: float64(loc.Row) * m.tileSize,
		W: m.tileSize,
		H: m.tileSize,
	}
}

// covered returns the range of tile locations a box overlaps, including
// out-of-bounds cells.
func (m *Tilemap) covered(b core.Box) (minCol, minRow, maxCol, maxRow int) {
	minCol = int(math.Floor(b.Left() / m.tileSize))
	minRow = int(math.Floor(b.Top() / m.tileSize))
	// Edges are exclusive, so a box ending exactly on a tile boundary does
	// not reach into the next tile.
	maxCol = int(math.Ceil(b.Right()/m.tileSize)) - 1
	maxRow = int(math.Ceil(b.Bottom()/m.tileSize)) - 1
	return
}

// OverlappingTiles returns every in-bounds tile location the box overlaps.
func (m *Tilemap) OverlappingTiles(b core.Box) []Location {
	minCol, minRow, maxCol, maxRow := m.covered(b)
	var out []Location
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			loc := Location{Col: col, Row: row}
			if m.InBounds(loc) {
				out = append(out, loc)
			}
		}
	}
	return out
}

// solidUnder returns the solid tile locations the box overlaps,
// out-of-bounds cells included.
func (m *Tilemap) solidUnder(b core.Box) []Location {
	minCol, minRow, maxCol, maxRow := m.covered(b)
	var out []Location
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			loc := Location{Col: col, Row: row}
			if m.IsSolid(loc) {
				out = append(out, loc)
			}
		}
	}
	return out
}
