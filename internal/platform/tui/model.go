package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/level"
	"github.com/vovakirdan/tui-platformer/internal/registry"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

// LevelChangedMsg reports a level file edited on disk.
type LevelChangedMsg struct {
	Path string
}

// LevelWatchErrMsg reports a failure from the level file watcher.
type LevelWatchErrMsg struct {
	Err error
}

// GameModel is the Bubble Tea model that runs one game. It is used on its
// own by the play command and inside SessionModel for menu sessions.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	watcher    *level.Watcher
	log        *log.Logger
	tickGen    uint64

	embedded   bool // back-to-menu is available
	quitting   bool
	backToMenu bool
	runSaved   bool
}

// ModelOption configures a GameModel.
type ModelOption func(*GameModel)

// WithWatcher reloads the level in play whenever w reports a change.
func WithWatcher(w *level.Watcher) ModelOption {
	return func(m *GameModel) { m.watcher = w }
}

// WithLogger routes model logs to l.
func WithLogger(l *log.Logger) ModelOption {
	return func(m *GameModel) {
		if l != nil {
			m.log = l
		}
	}
}

// WithBackToMenu lets B leave the game while it is paused or over.
func WithBackToMenu() ModelOption {
	return func(m *GameModel) { m.embedded = true }
}

// NewGameModel creates a model for the given game. store may be nil.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	m := GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(cfg.HoldTicks),
		log:        log.New(io.Discard),
		tickGen:    nextTickGen(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the game and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	// gameState is picked up on the first tick (value receiver)
	return tea.Batch(tickCmd(m.config.TickRate, m.tickGen), m.watchCmd())
}

// watchCmd waits for the next level file event.
func (m GameModel) watchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	w := m.watcher
	return func() tea.Msg {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			return LevelChangedMsg{Path: path}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return LevelWatchErrMsg{Err: err}
		}
	}
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Gen != m.tickGen {
			return m, nil
		}
		return m.handleTick()

	case LevelChangedMsg:
		return m.handleLevelChanged(msg)

	case LevelWatchErrMsg:
		m.log.Warn("level watcher", "error", msg.Err)
		return m, m.watchCmd()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.Press(msg, &m.inputFrame) {
		m.recordRun()
		m.quitting = true
		return m, tea.Quit
	}

	if m.embedded && m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.recordRun()
		m.backToMenu = true
		return m, nil
	}

	return m, nil
}

// handleResize follows the terminal size. Games that can't resize in place
// are restarted.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
		m.runSaved = false
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) {
		m.recordRun()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.runSaved = false
		m.keyMapper.Release()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate, m.tickGen)
	}

	m.keyMapper.Frame(&m.inputFrame)
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.Won && !m.runSaved {
		m.saveWin()
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate, m.tickGen)
}

// handleLevelChanged hot-reloads the level in play when its file changed.
func (m GameModel) handleLevelChanged(msg LevelChangedMsg) (tea.Model, tea.Cmd) {
	r, ok := m.game.(registry.LevelReloader)
	if !ok {
		return m, m.watchCmd()
	}

	reloaded, err := r.ReloadLevel(msg.Path)
	switch {
	case err != nil:
		m.log.Warn("level reload failed, keeping current level", "path", msg.Path, "error", err)
	case reloaded:
		m.log.Info("level reloaded", "path", msg.Path)
		m.gameState = m.game.State()
		m.runSaved = false
	}
	return m, m.watchCmd()
}

// levelID names the score table for the current game.
func (m GameModel) levelID() string {
	if ls, ok := m.game.(registry.LevelSelector); ok {
		return ls.LevelID()
	}
	return m.game.ID()
}

// saveWin records the score and the run once per win.
func (m *GameModel) saveWin() {
	m.runSaved = true
	if m.store == nil {
		return
	}
	if _, err := m.store.SaveScore(m.levelID(), m.gameState.Score); err != nil {
		m.log.Error("save score", "error", err)
	}
	m.saveRun()
}

// recordRun stores an unfinished run when the player leaves it.
func (m *GameModel) recordRun() {
	if m.runSaved {
		return
	}
	m.runSaved = true
	if m.store == nil {
		return
	}
	m.saveRun()
}

func (m *GameModel) saveRun() {
	rr, ok := m.game.(registry.RunReporter)
	if !ok {
		return
	}
	run := rr.Summary()
	if run.RunID == "" || run.Ticks == 0 {
		return
	}
	if _, err := m.store.SaveRun(run); err != nil {
		m.log.Error("save run", "run", run.RunID, "error", err)
		return
	}
	m.log.Debug("run saved", "run", run.RunID, "level", run.LevelID, "won", run.Won, "score", run.Score)
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	dir := config.UserDir()
	if dir == "" {
		return
	}
	dir = filepath.Join(dir, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Warn("screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.levelID(), timestamp)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("screenshot", "error", err)
		return
	}
	m.log.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Config returns the runtime config, including the latest screen size.
func (m GameModel) Config() core.RuntimeConfig {
	return m.config
}

// Run starts the Bubble Tea program for a single game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) error {
	model := NewGameModel(game, store, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
