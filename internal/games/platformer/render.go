package platformer

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/engine"
)

// hudRows is the number of screen rows above the playfield.
const hudRows = 1

// Visual characters for rendering. Each tile is two cells wide.
const (
	BrickChar    = '█'
	LavaChar     = '≈'
	TreasureChar = '$'
	PlayerLeft   = '['
	PlayerRight  = ']'
	EnemyChar    = 'M'
)

// layout maps world pixels to screen cells for one frame.
type layout struct {
	cam        core.Box
	tileSize   float64
	offX, offY int
}

func (l layout) cell(x, y float64) (int, int) {
	col := int(math.Floor((x-l.cam.X)/l.tileSize*2)) + l.offX
	row := int(math.Floor((y-l.cam.Y)/l.tileSize)) + l.offY
	return col, row
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.ctrl == nil {
		msg := "no level loaded"
		if g.err != nil {
			msg = g.err.Error()
		}
		g.drawCenteredMessage(dst, "CANNOT START", msg)
		return
	}

	world := g.ctrl.World()
	tm := world.Tilemap()
	l := g.layoutFor(dst, tm, world.Camera().Viewport())

	g.drawTiles(dst, tm, l)
	for _, e := range g.ctrl.Enemies() {
		g.drawSprite(dst, e, l, EnemyChar, EnemyChar, core.ColorMagenta)
	}
	if p := g.ctrl.Player(); p != nil && !p.Destroyed() {
		g.drawSprite(dst, p, l, PlayerLeft, PlayerRight, core.ColorBrightCyan)
	}

	g.drawHUD(dst)

	switch {
	case g.ctrl.State() == StateWon:
		g.drawCenteredMessage(dst, "TREASURE FOUND!", fmt.Sprintf("Score: %d  |  Press R to play again", g.ctrl.Score()))
	case g.paused:
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
}

// layoutFor centers a level narrower than the screen and rests a level
// shorter than the screen on the bottom row.
func (g *Game) layoutFor(dst *core.Screen, tm *engine.Tilemap, cam core.Box) layout {
	l := layout{cam: cam, tileSize: tm.TileSize(), offY: hudRows}

	if w := tm.Cols() * 2; w < dst.Width() {
		l.offX = (dst.Width() - w) / 2
	}
	if fieldH := dst.Height() - hudRows; tm.Rows() < fieldH {
		l.offY += fieldH - tm.Rows()
	}
	return l
}

func (g *Game) drawTiles(dst *core.Screen, tm *engine.Tilemap, l layout) {
	ts := tm.TileSize()
	for row := 0; row < tm.Rows(); row++ {
		for col := 0; col < tm.Cols(); col++ {
			var ch rune
			var color core.Color
			switch tm.TileAt(engine.Location{Col: col, Row: row}) {
			case engine.TileBrick:
				ch, color = BrickChar, core.ColorOrange
			case engine.TileLava:
				ch, color = LavaChar, core.ColorBrightRed
			case engine.TileTreasure:
				ch, color = TreasureChar, core.ColorBrightYellow
			default:
				continue
			}

			x, y := l.cell(float64(col)*ts, float64(row)*ts)
			if y < hudRows {
				continue
			}
			dst.SetColored(x, y, ch, color)
			dst.SetColored(x+1, y, ch, color)
		}
	}
}

func (g *Game) drawSprite(dst *core.Screen, s *engine.Sprite, l layout, left, right rune, color core.Color) {
	x, y := l.cell(s.Left(), s.Y)
	if y < hudRows {
		return
	}
	dst.SetColored(x, y, left, color)
	dst.SetColored(x+1, y, right, color)
}

func (g *Game) drawHUD(dst *core.Screen) {
	lvl := g.ctrl.Level()
	stats := g.ctrl.Stats()

	name := lvl.Name
	if name == "" {
		name = filepath.Base(lvl.FilePath)
	}
	dst.DrawTextColored(1, 0, " "+name+" ", lvl.Background)

	hud := fmt.Sprintf("Score: %d  Deaths: %d  Time: %.1fs ", g.ctrl.Score(), stats.Deaths, g.ctrl.Elapsed())
	dst.DrawText(core.Max(dst.Width()-len(hud)-1, len(name)+4), 0, hud)
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	box := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawHLine(box.X+1, box.Y+2, boxW-2, '─')

	dst.DrawTextCentered(box.Y+1, title)
	dst.DrawTextCentered(box.Y+3, subtitle)
}
