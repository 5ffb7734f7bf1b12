// Package platformer implements a side-scrolling platformer: run and jump
// across a tile level, stomp patrolling enemies, avoid lava and reach the
// treasure chest.
//
// rules.go holds the game rules proper. Game adapts them to the registry
// interface the platform drives.
package platformer

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/level"
	"github.com/vovakirdan/tui-platformer/internal/registry"
)

// GameID is the registry identifier.
const GameID = "platformer"

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset = config.DifficultyNormal

// levelsDir stores a level directory that replaces the embedded set
var levelsDir string

var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names fall back to normal.
func SetDifficultyPreset(preset string) {
	p, err := config.ParseDifficulty(preset)
	if err != nil {
		p = config.DifficultyNormal
	}
	difficultyPreset = p
}

// SetLevelsDir makes games load levels from dir instead of the embedded set.
func SetLevelsDir(dir string) {
	levelsDir = dir
}

// SetLogger routes game logs to l.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// Levels returns a loader for the level set games will play.
func Levels() *level.Loader {
	if levelsDir != "" {
		return level.NewLoader(levelsDir)
	}
	return level.NewEmbeddedLoader()
}

// Game implements registry.Game on top of a Controller.
type Game struct {
	runtime core.RuntimeConfig
	cfg     config.PlatformerConfig
	levelID string
	rng     *SimpleRNG

	ctrl   *Controller
	paused bool
	runID  string
	err    error // fatal setup error, shown instead of the level
}

// New creates a new platformer instance that plays the first level.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Platformer"
}

// SelectLevel chooses the level the next Reset loads.
func (g *Game) SelectLevel(id string) {
	g.levelID = id
}

// LevelID returns the level in play, or the selected one before Reset.
func (g *Game) LevelID() string {
	if g.ctrl != nil {
		return g.ctrl.Level().ID
	}
	return g.levelID
}

// Reset loads the configuration and level and starts a new run.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	g.runtime = cfg
	g.paused = false
	g.err = nil
	g.ctrl = nil
	g.runID = uuid.NewString()

	gameCfg, err := config.LoadPlatformer(configPath)
	if err != nil {
		g.fail(err)
		return
	}
	config.ApplyPlatformerPreset(&gameCfg, difficultyPreset)
	if err := gameCfg.Validate(); err != nil {
		g.fail(fmt.Errorf("difficulty %s: %w", difficultyPreset, err))
		return
	}
	g.cfg = gameCfg

	lvl, err := g.loadLevel()
	if err != nil {
		g.fail(err)
		return
	}

	g.rng = NewSimpleRNG(cfg.Seed)
	if err := g.start(lvl); err != nil {
		g.fail(err)
	}
}

func (g *Game) loadLevel() (level.Level, error) {
	loader := Levels()
	if g.levelID != "" {
		return loader.LoadByID(g.levelID)
	}

	lvls, err := loader.LoadAll()
	if err != nil {
		return level.Level{}, err
	}
	if len(lvls) == 0 {
		return level.Level{}, level.ErrLevelNotFound
	}
	return lvls[0], nil
}

// start swaps in a controller for lvl, leaving the old one on failure.
func (g *Game) start(lvl level.Level) error {
	ctrl := NewController(g.cfg, lvl, g.rng, logger.With("run", g.runID))
	ctrl.SetViewport(g.viewport(g.runtime.ScreenW, g.runtime.ScreenH, float64(lvl.TileSize)))
	if err := ctrl.Start(); err != nil {
		return err
	}
	g.ctrl = ctrl
	g.levelID = lvl.ID
	return nil
}

func (g *Game) fail(err error) {
	g.err = err
	g.ctrl = nil
	logger.Error("cannot start game", "err", err)
}

// ReloadLevel restarts the run on the new contents of path if it is the
// level in play. A broken file leaves the current run untouched.
func (g *Game) ReloadLevel(path string) (bool, error) {
	if g.ctrl == nil || !samePath(g.ctrl.Level().FilePath, path) {
		return false, nil
	}

	lvl, err := level.LoadPath(path)
	if err != nil {
		logger.Warn("level reload failed", "path", path, "err", err)
		return true, err
	}
	if lvl.ID == "" {
		lvl.ID = g.ctrl.Level().ID
	}

	// The reload starts a fresh run
	prevRun := g.runID
	g.runID = uuid.NewString()
	if err := g.start(lvl); err != nil {
		g.runID = prevRun
		logger.Warn("level reload failed", "path", path, "err", err)
		return true, err
	}
	logger.Info("level reloaded", "level", lvl.ID)
	g.paused = false
	return true, nil
}

// Resize adapts the camera to a new screen size without restarting.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	if g.ctrl != nil {
		g.ctrl.SetViewport(g.viewport(w, h, float64(g.ctrl.Level().TileSize)))
	}
}

// viewport converts a screen size in cells to pixels: one tile is two
// columns wide and one row tall, and the top row holds the HUD.
func (g *Game) viewport(w, h int, tileSize float64) (float64, float64) {
	cols := core.Max(w/2, 1)
	rows := core.Max(h-hudRows, 1)
	return float64(cols) * tileSize, float64(rows) * tileSize
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.ctrl == nil || g.ctrl.State() == StateWon {
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if err := g.ctrl.Step(1/float64(g.runtime.TickRate), in); err != nil {
		g.fail(err)
	}
	return core.StepResult{State: g.State()}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.ctrl == nil {
		return core.GameState{GameOver: g.err != nil}
	}
	won := g.ctrl.State() == StateWon
	return core.GameState{
		Score:    g.ctrl.Score(),
		GameOver: won,
		Won:      won,
		Paused:   g.paused,
	}
}

// Summary reports the run for the run history.
func (g *Game) Summary() core.RunSummary {
	s := core.RunSummary{
		RunID:   g.runID,
		GameID:  GameID,
		LevelID: g.levelID,
	}
	if g.ctrl == nil {
		return s
	}
	stats := g.ctrl.Stats()
	s.Won = g.ctrl.State() == StateWon
	s.Score = g.ctrl.Score()
	s.Deaths = stats.Deaths
	s.Stomps = stats.Stomps
	s.Ticks = stats.Ticks
	if g.runtime.TickRate > 0 {
		s.Seconds = float64(stats.Ticks) / float64(g.runtime.TickRate)
	}
	return s
}

// Register the game with the registry
func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
