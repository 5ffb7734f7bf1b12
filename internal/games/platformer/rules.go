package platformer

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/engine"
	"github.com/vovakirdan/tui-platformer/internal/level"
)

// Sprite kinds the controller spawns.
const (
	KindPlayer engine.Kind = iota + 1
	KindEnemy
)

// ErrNotStarted is returned by Step before a successful Start.
var ErrNotStarted = errors.New("platformer: controller not started")

// JumpVelocity returns the upward velocity that makes a body under constant
// gravity peak exactly height pixels above where it started (v² = 2·g·h).
// The result is negative because y grows downward.
func JumpVelocity(height, gravity float64) float64 {
	return -config.LaunchSpeed(height, gravity)
}

// IsStomp reports whether a player overlapping an enemy is landing on it:
// the player must be moving down and its feet must be within tolerance
// pixels below the enemy's top edge.
func IsStomp(player, enemy engine.Body, tolerance float64) bool {
	return player.VY > 0 && player.Bottom() < enemy.Top()+tolerance
}

// Controller owns the game rules: spawning, jump and bounce, enemy patrol,
// stomping, death with full reset and the treasure win. It reacts to events
// the engine reports and never runs physics itself.
type Controller struct {
	cfg config.PlatformerConfig
	lvl level.Level
	rng Source
	log *log.Logger

	viewW, viewH float64

	state State
	cur   session
	stats Stats
}

// NewController creates a controller for one level. The rng is shared by
// every session of the run, so a reset continues its sequence.
func NewController(cfg config.PlatformerConfig, lvl level.Level, rng Source, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		cfg: cfg,
		lvl: lvl,
		rng: rng,
		log: logger.WithPrefix("rules"),
	}
}

// SetViewport sets the camera's visible area in pixels. It applies to the
// current session and every later one.
func (c *Controller) SetViewport(w, h float64) {
	c.viewW, c.viewH = w, h
	if c.cur.world != nil {
		cam := c.cur.world.Camera()
		cam.SetViewport(w, h)
		cam.Update(c.cur.world.Tilemap().WidthPx(), c.cur.world.Tilemap().HeightPx())
	}
}

// Start runs the initialization policy for the first session. It fails if
// the level does not have exactly one player spawn.
func (c *Controller) Start() error {
	if err := c.lvl.Validate(); err != nil {
		return fmt.Errorf("level %s: %w", c.lvl.ID, err)
	}
	c.state = StateLoading
	c.stats = Stats{}
	if err := c.initSession(); err != nil {
		return err
	}
	c.log.Debug("run started", "level", c.lvl.ID)
	return nil
}

// Step advances the session by dt seconds. It is a no-op once the session
// is won.
func (c *Controller) Step(dt float64, in core.InputFrame) error {
	switch c.state {
	case StateLoading:
		return ErrNotStarted
	case StateWon:
		return nil
	}

	c.stats.Ticks++
	c.cur.elapsed += dt
	c.cur.world.Step(dt, in)

	switch c.cur.world.Status() {
	case engine.StatusResetRequested:
		c.stats.Deaths++
		c.log.Debug("session reset", "deaths", c.stats.Deaths)
		if err := c.initSession(); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	case engine.StatusWon:
		c.state = StateWon
	}
	return nil
}

// initSession builds a fresh world from the level and spawns every sprite.
func (c *Controller) initSession() error {
	tm, err := c.lvl.ToTilemap()
	if err != nil {
		return err
	}

	spawns := tm.TilesByType(engine.TilePlayerSpawn)
	switch {
	case len(spawns) == 0:
		return level.ErrNoPlayerSpawn
	case len(spawns) > 1:
		return level.ErrMultiplePlayerSpawns
	}

	world := engine.NewWorld(tm, engine.Options{MaxSpeed: c.cfg.Physics.MaxSpeed})
	gravity := c.cfg.Physics.Gravity

	for _, loc := range tm.TilesByType(engine.TileEnemySpawn) {
		x, y := tm.Center(loc)
		enemy := world.Spawn(KindEnemy, c.cfg.Enemy.Width, c.cfg.Enemy.Height, x, y)
		enemy.AY = gravity
		tm.SetTileAt(loc, engine.TileTransparent)

		if percentChance(c.rng, 50) {
			enemy.VX = c.cfg.Enemy.Speed
		} else {
			enemy.VX = -c.cfg.Enemy.Speed
		}
	}

	x, y := tm.Center(spawns[0])
	player := world.Spawn(KindPlayer, c.cfg.Player.Width, c.cfg.Player.Height, x, y)
	player.AY = gravity
	tm.SetTileAt(spawns[0], engine.TileTransparent)
	world.MoveSprite(player, c.cfg.Physics.MoveSpeed)

	cam := world.Camera()
	cam.SetViewport(c.viewW, c.viewH)
	cam.Follow(player)
	cam.Update(tm.WidthPx(), tm.HeightPx())

	c.cur = session{world: world, player: player}
	c.register(world.Bus())
	c.state = StatePlaying
	return nil
}

func (c *Controller) register(bus *engine.Bus) {
	bus.OnButtonPressed(engine.ButtonA, c.onJump)
	bus.OnTileOverlap(KindPlayer, engine.TileLava, func(*engine.Sprite, engine.Location) {
		c.die("lava")
	})
	bus.OnTileOverlap(KindPlayer, engine.TileTreasure, func(*engine.Sprite, engine.Location) {
		c.win()
	})
	bus.OnSpriteOverlap(KindPlayer, KindEnemy, c.onPlayerEnemy)
	bus.OnSpriteOverlap(KindEnemy, KindEnemy, c.onEnemyEnemy)
	bus.OnHitWall(KindEnemy, c.onEnemyWall)
}

// onJump jumps only from solid ground; there is no double jump.
func (c *Controller) onJump() {
	p := c.cur.player
	if p.IsHittingTile(engine.Bottom) {
		p.VY = JumpVelocity(c.cfg.Physics.JumpHeight, c.cfg.Physics.Gravity)
	}
}

func (c *Controller) onPlayerEnemy(player, enemy *engine.Sprite) {
	if !IsStomp(player.Snapshot(), enemy.Snapshot(), c.cfg.Enemy.StompTolerance) {
		c.die("enemy")
		return
	}

	enemy.Destroy()
	player.VY = JumpVelocity(c.cfg.Physics.BounceHeight, c.cfg.Physics.Gravity)
	c.cur.score += c.cfg.Scoring.StompPoints
	c.cur.stomps++
	c.stats.Stomps++
	c.log.Debug("stomp", "enemy", enemy.ID(), "score", c.cur.score)
}

// onEnemyEnemy pushes the left enemy flush against the right one and sends
// them apart. Equal x breaks the tie by spawn order.
func (c *Controller) onEnemyEnemy(a, b *engine.Sprite) {
	left, right := a, b
	if b.X < a.X || (b.X == a.X && b.ID() < a.ID()) {
		left, right = b, a
	}
	left.SetRight(right.Left())
	left.VX = -c.cfg.Enemy.Speed
	right.VX = c.cfg.Enemy.Speed
}

// onEnemyWall turns an enemy around at walls. An enemy touching walls on
// both sides at once keeps walking right.
func (c *Controller) onEnemyWall(enemy *engine.Sprite, loc engine.Location) {
	hitLeft := enemy.IsHittingTile(engine.Left)
	hitRight := enemy.IsHittingTile(engine.Right)

	if hitLeft && hitRight {
		c.stats.WedgedHits++
		c.log.Warn("enemy wedged between walls", "enemy", enemy.ID(), "col", loc.Col, "row", loc.Row)
	}

	switch {
	case hitLeft:
		enemy.VX = c.cfg.Enemy.Speed
	case hitRight:
		enemy.VX = -c.cfg.Enemy.Speed
	}
}

func (c *Controller) die(cause string) {
	c.log.Debug("player died", "cause", cause, "elapsed", c.cur.elapsed)
	c.cur.world.Reset()
}

func (c *Controller) win() {
	bonus := c.cfg.Scoring.TreasureBonus + c.TimeBonus()
	c.cur.score += bonus
	c.cur.world.Over(true)
	c.log.Info("treasure reached", "level", c.lvl.ID, "score", c.cur.score, "deaths", c.stats.Deaths)
}

// TimeBonus is what reaching the treasure right now would add on top of
// the treasure bonus: a fixed amount per whole second left under par.
func (c *Controller) TimeBonus() int {
	left := c.lvl.ParSeconds - int(c.cur.elapsed)
	if left <= 0 {
		return 0
	}
	return left * c.cfg.Scoring.TimeBonusPerSecond
}

// State returns the session lifecycle state.
func (c *Controller) State() State { return c.state }

// Score returns the current session's score.
func (c *Controller) Score() int { return c.cur.score }

// Elapsed returns the current session's simulated time in seconds.
func (c *Controller) Elapsed() float64 { return c.cur.elapsed }

// Stats returns the counters kept across resets.
func (c *Controller) Stats() Stats { return c.stats }

// Level returns the level being played.
func (c *Controller) Level() level.Level { return c.lvl }

// World returns the current session's world, or nil before Start.
func (c *Controller) World() *engine.World { return c.cur.world }

// Player returns the current session's player sprite, or nil before Start.
func (c *Controller) Player() *engine.Sprite { return c.cur.player }

// Enemies returns the live enemies of the current session.
func (c *Controller) Enemies() []*engine.Sprite {
	if c.cur.world == nil {
		return nil
	}
	return c.cur.world.SpritesOfKind(KindEnemy)
}
