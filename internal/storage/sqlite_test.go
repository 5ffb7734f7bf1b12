package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-platformer/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveScore("01-meadow", 1500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("01-meadow")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 1500 {
		t.Errorf("Expected 1500 after reopen, got %d", high)
	}
}

func TestStoreSaveScore(t *testing.T) {
	store := openTestStore(t)

	var lastID int64
	for _, score := range []int{100, 50, 200} {
		id, err := store.SaveScore("01-meadow", score)
		if err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
		if id <= lastID {
			t.Errorf("SaveScore() id = %d, expected it to grow past %d", id, lastID)
		}
		lastID = id
	}
	if _, err := store.SaveScore("02-lava-fields", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	tests := []struct {
		level string
		want  int
	}{
		{"01-meadow", 200},
		{"02-lava-fields", 500},
		{"03-fortress", 0},
	}
	for _, tt := range tests {
		high, err := store.HighScore(tt.level)
		if err != nil {
			t.Fatalf("HighScore(%s) failed: %v", tt.level, err)
		}
		if high != tt.want {
			t.Errorf("HighScore(%s) = %d, want %d", tt.level, high, tt.want)
		}
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("01-meadow")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty level, got %d", high)
	}

	store.SaveScore("01-meadow", 100)
	store.SaveScore("01-meadow", 300)
	store.SaveScore("01-meadow", 200)

	high, err = store.HighScore("01-meadow")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("01-meadow", 100)
	store.SaveRun(core.RunSummary{RunID: "a", LevelID: "01-meadow", Won: true, Score: 100})
	store.SaveScore("03-fortress", 300)

	if err := store.ClearScores("01-meadow"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if high, _ := store.HighScore("01-meadow"); high != 0 {
		t.Errorf("Expected no meadow score after clear, got %d", high)
	}
	if runs, _ := store.TopRuns("01-meadow", 10); len(runs) != 0 {
		t.Errorf("Expected 0 meadow runs after clear, got %d", len(runs))
	}
	if high, _ := store.HighScore("03-fortress"); high != 300 {
		t.Errorf("Fortress scores should not be affected by clearing meadow, got %d", high)
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveRun(t *testing.T) {
	store := openTestStore(t)

	run := core.RunSummary{
		RunID:   "run-1",
		GameID:  "platformer",
		LevelID: "01-meadow",
		Won:     true,
		Score:   1600,
		Deaths:  2,
		Stomps:  3,
		Ticks:   1200,
		Seconds: 20,
	}
	if _, err := store.SaveRun(run); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	_, err := store.SaveRun(run)
	if !errors.Is(err, ErrDuplicateRun) {
		t.Errorf("second SaveRun() error = %v, want ErrDuplicateRun", err)
	}

	if _, err := store.SaveRun(core.RunSummary{LevelID: "01-meadow"}); err == nil {
		t.Error("SaveRun() without a run id should fail")
	}

	best, err := store.BestClear("01-meadow")
	if err != nil {
		t.Fatalf("BestClear() failed: %v", err)
	}
	if best == nil {
		t.Fatal("BestClear() returned nil")
	}
	if best.RunID != "run-1" || !best.Won || best.Score != 1600 || best.Deaths != 2 ||
		best.Stomps != 3 || best.Ticks != 1200 || best.Seconds != 20 {
		t.Errorf("BestClear() = %+v", best)
	}
}

func TestStoreTopRunsOrdering(t *testing.T) {
	store := openTestStore(t)

	runs := []core.RunSummary{
		{RunID: "slow", LevelID: "L", Won: true, Score: 1000, Deaths: 0, Seconds: 40},
		{RunID: "fast", LevelID: "L", Won: true, Score: 1000, Deaths: 0, Seconds: 20},
		{RunID: "dies", LevelID: "L", Won: true, Score: 1000, Deaths: 3, Seconds: 10},
		{RunID: "best", LevelID: "L", Won: true, Score: 1400, Deaths: 5, Seconds: 50},
		{RunID: "quit", LevelID: "L", Won: false, Score: 9000},
		{RunID: "other", LevelID: "M", Won: true, Score: 5000},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun(%s) failed: %v", r.RunID, err)
		}
	}

	top, err := store.TopRuns("L", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}

	want := []string{"best", "fast", "slow", "dies"}
	if len(top) != len(want) {
		t.Fatalf("TopRuns() returned %d runs, want %d", len(top), len(want))
	}
	for i, id := range want {
		if top[i].RunID != id {
			t.Errorf("top[%d] = %s, want %s", i, top[i].RunID, id)
		}
	}

	recent, err := store.RecentRuns(3)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("RecentRuns(3) returned %d", len(recent))
	}
	if recent[0].RunID != "other" {
		t.Errorf("most recent run = %s, want other", recent[0].RunID)
	}
}

func TestStoreBestClearNeverCleared(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(core.RunSummary{RunID: "x", LevelID: "01-meadow", Won: false, Deaths: 4})

	best, err := store.BestClear("01-meadow")
	if err != nil {
		t.Fatalf("BestClear() failed: %v", err)
	}
	if best != nil {
		t.Errorf("BestClear() = %+v, want nil", best)
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetLevelStats("01-meadow")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if empty.Runs != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveRun(core.RunSummary{RunID: "a", LevelID: "01-meadow", Won: true, Score: 1200, Deaths: 1})
	store.SaveRun(core.RunSummary{RunID: "b", LevelID: "01-meadow", Won: false, Score: 3000, Deaths: 2})

	stats, err := store.GetLevelStats("01-meadow")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.Clears != 1 || stats.HighScore != 1200 || stats.Deaths != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not parsed")
	}
}
