package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

// stubGame wins after winAt steps and reports every hook the model uses.
type stubGame struct {
	winAt   int
	ticks   int
	resets  int
	resized [2]int
	runs    int
	paused  bool
	lastDir int
	level   string
	reload  map[string]error
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(cfg core.RuntimeConfig) {
	g.resets++
	g.runs++
	g.ticks = 0
	g.paused = false
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	g.lastDir = in.Horizontal()
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if !g.paused && !g.won() {
		g.ticks++
	}
	return core.StepResult{State: g.State()}
}

func (g *stubGame) won() bool { return g.winAt > 0 && g.ticks >= g.winAt }

func (g *stubGame) Render(dst *core.Screen) {
	dst.DrawText(0, 0, fmt.Sprintf("ticks=%d", g.ticks))
}

func (g *stubGame) State() core.GameState {
	return core.GameState{Score: g.ticks * 10, GameOver: g.won(), Won: g.won(), Paused: g.paused}
}

func (g *stubGame) Resize(w, h int)       { g.resized = [2]int{w, h} }
func (g *stubGame) SelectLevel(id string) { g.level = id }
func (g *stubGame) LevelID() string       { return g.level }

func (g *stubGame) ReloadLevel(path string) (bool, error) {
	err, ok := g.reload[path]
	if !ok {
		return false, nil
	}
	if err == nil {
		g.ticks = 0
	}
	return true, err
}

func (g *stubGame) Summary() core.RunSummary {
	return core.RunSummary{
		RunID:   fmt.Sprintf("run-%d", g.runs),
		LevelID: g.level,
		Won:     g.won(),
		Score:   g.ticks * 10,
		Ticks:   g.ticks,
	}
}

func newTestModel(t *testing.T, g *stubGame, opts ...ModelOption) (GameModel, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 60, Seed: 1, HoldTicks: 2}
	m := NewGameModel(g, store, cfg, opts...)
	m.Init()
	return m, store
}

func send(m GameModel, msg tea.Msg) GameModel {
	next, _ := m.Update(msg)
	return next.(GameModel)
}

func tick(m GameModel) GameModel {
	return send(m, TickMsg{Gen: m.tickGen})
}

func TestGameModelIgnoresStaleTicks(t *testing.T) {
	g := &stubGame{level: "L"}
	m, _ := newTestModel(t, g)

	m = send(m, TickMsg{Gen: m.tickGen + 1000})
	if g.ticks != 0 {
		t.Fatalf("stale tick stepped the game, ticks = %d", g.ticks)
	}

	m = tick(m)
	if g.ticks != 1 {
		t.Errorf("ticks = %d, want 1", g.ticks)
	}
}

func TestGameModelHeldDirectionReachesGame(t *testing.T) {
	g := &stubGame{level: "L"}
	m, _ := newTestModel(t, g)

	m = send(m, runeKey('d'))
	m = tick(m)
	if g.lastDir != 1 {
		t.Errorf("first tick Horizontal() = %d, want 1", g.lastDir)
	}
	m = tick(m)
	_ = tick(m)
	if g.lastDir != 0 {
		t.Errorf("hold of 2 ticks should have decayed, Horizontal() = %d", g.lastDir)
	}
}

func TestGameModelSavesWinOnce(t *testing.T) {
	g := &stubGame{winAt: 3, level: "01-meadow"}
	m, store := newTestModel(t, g)

	for i := 0; i < 6; i++ {
		m = tick(m)
	}

	high, err := store.HighScore("01-meadow")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 30 {
		t.Fatalf("high score = %d, want 30", high)
	}
	stats, err := store.GetLevelStats("01-meadow")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if stats.Runs != 1 || stats.Clears != 1 {
		t.Fatalf("stats = %+v, want one cleared run", stats)
	}

	best, err := store.BestClear("01-meadow")
	if err != nil || best == nil {
		t.Fatalf("BestClear() = %v, %v", best, err)
	}
	if best.RunID != "run-1" || best.Ticks != 3 {
		t.Errorf("best = %+v", best)
	}

	// Quitting after the win must not record the run twice
	m = send(m, runeKey('q'))
	if !m.IsQuitting() {
		t.Error("q should quit")
	}
	recent, _ := store.RecentRuns(10)
	if len(recent) != 1 {
		t.Errorf("runs after quit = %d, want 1", len(recent))
	}
}

func TestGameModelRecordsAbandonedRun(t *testing.T) {
	g := &stubGame{level: "02-lava-fields"}
	m, store := newTestModel(t, g)

	for i := 0; i < 5; i++ {
		m = tick(m)
	}
	m = send(m, runeKey('r'))
	m = tick(m)

	if g.resets != 2 {
		t.Fatalf("resets = %d, want 2", g.resets)
	}
	recent, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 1 || recent[0].Won || recent[0].Ticks != 5 {
		t.Fatalf("recent = %+v, want one unfinished run of 5 ticks", recent)
	}
	if high, _ := store.HighScore("02-lava-fields"); high != 0 {
		t.Errorf("an unfinished run must not post a score, got %d", high)
	}

	// A fresh run with no ticks is not worth keeping
	_ = send(m, runeKey('q'))
	recent, _ = store.RecentRuns(10)
	if len(recent) != 1 {
		t.Errorf("runs = %d, want 1", len(recent))
	}
}

func TestGameModelBackToMenu(t *testing.T) {
	g := &stubGame{level: "L"}

	standalone, _ := newTestModel(t, g)
	standalone = send(standalone, runeKey('p'))
	standalone = tick(standalone)
	standalone = send(standalone, runeKey('b'))
	if standalone.BackToMenu() {
		t.Error("a standalone model has no menu to go back to")
	}

	g2 := &stubGame{level: "L"}
	m, _ := newTestModel(t, g2, WithBackToMenu())
	m = send(m, runeKey('b'))
	if m.BackToMenu() {
		t.Error("back must wait for pause or game over")
	}
	m = tick(m) // drains the unused back
	m = send(m, runeKey('p'))
	m = tick(m)
	if !m.gameState.Paused {
		t.Fatal("game should be paused")
	}
	m = send(m, runeKey('b'))
	if !m.BackToMenu() {
		t.Error("b while paused should go back to the menu")
	}
}

func TestGameModelResizeKeepsRun(t *testing.T) {
	g := &stubGame{level: "L"}
	m, _ := newTestModel(t, g)
	m = tick(m)

	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if g.resets != 1 {
		t.Errorf("resize restarted the game, resets = %d", g.resets)
	}
	if g.resized != [2]int{100, 30} {
		t.Errorf("resized = %v", g.resized)
	}
	if m.Config().ScreenW != 100 || m.Config().ScreenH != 30 {
		t.Errorf("config = %+v", m.Config())
	}
}

func TestGameModelLevelReload(t *testing.T) {
	g := &stubGame{level: "L", reload: map[string]error{
		"/levels/l.yaml":   nil,
		"/levels/bad.yaml": fmt.Errorf("broken"),
	}}
	m, _ := newTestModel(t, g)
	m = tick(m)
	m = tick(m)

	m = send(m, LevelChangedMsg{Path: "/levels/other.yaml"})
	if g.ticks != 2 {
		t.Fatalf("unrelated file changed the run, ticks = %d", g.ticks)
	}

	m = send(m, LevelChangedMsg{Path: "/levels/bad.yaml"})
	if g.ticks != 2 {
		t.Fatalf("broken file changed the run, ticks = %d", g.ticks)
	}

	_ = send(m, LevelChangedMsg{Path: "/levels/l.yaml"})
	if g.ticks != 0 {
		t.Errorf("reload should restart the level, ticks = %d", g.ticks)
	}
}

func TestGameModelView(t *testing.T) {
	g := &stubGame{level: "L"}
	m, _ := newTestModel(t, g)
	m = tick(m)

	if !strings.Contains(m.View(), "ticks=1") {
		t.Errorf("View() = %q", m.View())
	}

	m = send(m, runeKey('q'))
	if m.View() != "" {
		t.Error("View() should be empty after quit")
	}
}
