// Package level provides the YAML level format, the embedded level set,
// loading with validation and a file watcher for hot reload.
package level

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/engine"
	"gopkg.in/yaml.v3"
)

// DefaultTileSize is the tile edge in pixels used when a file omits tile_size.
const DefaultTileSize = 16

// DefaultParSeconds is the par time used when a file omits par_seconds.
const DefaultParSeconds = 60

// Validation errors. Loaders wrap them with the offending file.
var (
	ErrEmptyLevel           = errors.New("level has no rows")
	ErrRaggedRows           = errors.New("level rows differ in length")
	ErrUnknownTile          = errors.New("unknown tile glyph")
	ErrNoPlayerSpawn        = errors.New("level has no player spawn")
	ErrMultiplePlayerSpawns = errors.New("level has more than one player spawn")
	ErrInvalidTileSize      = errors.New("tile size must be positive")
	ErrLevelNotFound        = errors.New("level not found")
)

// Glyphs used in level rows.
const (
	GlyphTransparent = '.'
	GlyphBrick       = '#'
	GlyphTreasure    = 'T'
	GlyphLava        = 'L'
	GlyphPlayer      = 'P'
	GlyphEnemy       = 'E'
)

// TileForGlyph maps a level glyph to its tile kind.
func TileForGlyph(r rune) (engine.TileKind, bool) {
	switch r {
	case GlyphTransparent:
		return engine.TileTransparent, true
	case GlyphBrick:
		return engine.TileBrick, true
	case GlyphTreasure:
		return engine.TileTreasure, true
	case GlyphLava:
		return engine.TileLava, true
	case GlyphPlayer:
		return engine.TilePlayerSpawn, true
	case GlyphEnemy:
		return engine.TileEnemySpawn, true
	}
	return engine.TileTransparent, false
}

// YAMLLevel is the on-disk structure of a level file.
type YAMLLevel struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Background string   `yaml:"background,omitempty"`
	TileSize   int      `yaml:"tile_size,omitempty"`
	ParSeconds int      `yaml:"par_seconds,omitempty"`
	Rows       []string `yaml:"rows"`
}

// Level is a parsed and validated level ready for play.
type Level struct {
	ID         string
	Name       string
	Background core.Color
	TileSize   int
	ParSeconds int
	Cols       int
	Rows       int
	Tiles      []engine.TileKind // row-major
	FilePath   string
}

// Parse decodes a YAML level file and validates it.
func Parse(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return FromYAML(yl)
}

// FromYAML builds a Level from its YAML form.
func FromYAML(yl YAMLLevel) (Level, error) {
	bg, ok := core.ParseColor(yl.Background)
	if !ok {
		return Level{}, fmt.Errorf("unknown background color %q", yl.Background)
	}

	lvl := Level{
		ID:         yl.ID,
		Name:       yl.Name,
		Background: bg,
		TileSize:   yl.TileSize,
		ParSeconds: yl.ParSeconds,
	}
	if lvl.TileSize == 0 {
		lvl.TileSize = DefaultTileSize
	}
	if lvl.ParSeconds <= 0 {
		lvl.ParSeconds = DefaultParSeconds
	}
	if lvl.Name == "" {
		lvl.Name = lvl.ID
	}

	if len(yl.Rows) == 0 {
		return Level{}, ErrEmptyLevel
	}
	lvl.Rows = len(yl.Rows)
	lvl.Cols = len([]rune(yl.Rows[0]))
	if lvl.Cols == 0 {
		return Level{}, ErrEmptyLevel
	}

	lvl.Tiles = make([]engine.TileKind, 0, lvl.Cols*lvl.Rows)
	for y, row := range yl.Rows {
		runes := []rune(row)
		if len(runes) != lvl.Cols {
			return Level{}, fmt.Errorf("row %d has %d tiles, expected %d: %w", y, len(runes), lvl.Cols, ErrRaggedRows)
		}
		for x, r := range runes {
			kind, ok := TileForGlyph(r)
			if !ok {
				return Level{}, fmt.Errorf("%q at column %d row %d: %w", r, x, y, ErrUnknownTile)
			}
			lvl.Tiles = append(lvl.Tiles, kind)
		}
	}

	if err := lvl.Validate(); err != nil {
		return Level{}, err
	}
	return lvl, nil
}

// Validate checks the preconditions a session needs: a rectangular grid,
// a positive tile size and exactly one player spawn.
func (l Level) Validate() error {
	if l.Cols <= 0 || l.Rows <= 0 {
		return ErrEmptyLevel
	}
	if len(l.Tiles) != l.Cols*l.Rows {
		return ErrRaggedRows
	}
	if l.TileSize <= 0 {
		return ErrInvalidTileSize
	}

	switch n := l.Count(engine.TilePlayerSpawn); {
	case n == 0:
		return ErrNoPlayerSpawn
	case n > 1:
		return fmt.Errorf("found %d: %w", n, ErrMultiplePlayerSpawns)
	}
	return nil
}

// Count returns how many tiles of the given kind the level holds.
func (l Level) Count(kind engine.TileKind) int {
	n := 0
	for _, t := range l.Tiles {
		if t == kind {
			n++
		}
	}
	return n
}

// ToTilemap creates a fresh tilemap from the level. Every call returns an
// independent grid, so spawn markers cleared in one session reappear in the next.
func (l Level) ToTilemap() (*engine.Tilemap, error) {
	return engine.NewTilemap(l.Cols, l.Rows, float64(l.TileSize), l.Tiles)
}
