package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/games/platformer"
	"github.com/vovakirdan/tui-platformer/internal/level"
	"github.com/vovakirdan/tui-platformer/internal/platform/tui"
	"github.com/vovakirdan/tui-platformer/internal/registry"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

var flagWatch bool

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Start playing the given level, or the first level when none is named.

Controls:
  Left/Right, A/D, H/L   - Run
  Space, Up, W, Z        - Jump
  P/Esc                  - Pause
  R                      - Restart the level
  Ctrl+S                 - Save a screenshot
  Q/Ctrl+C               - Quit

Difficulty options:
  easy   - Slower enemies and a higher jump
  normal - The config as loaded
  hard   - Faster enemies and a tighter stomp window
  fixed  - The config as loaded, never adjusted

With --watch and --levels, saving the level file you are playing restarts
it with the new layout. A file that fails to load is reported in the log
and the current run continues.

Examples:
  platformer play
  platformer play 02-lava-fields --difficulty easy
  platformer play --seed 42
  platformer play demo --levels ./levels --watch --log-file play.log
  platformer play --config ./my-physics.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the level when its file changes (needs --levels)")
}

func runPlay(_ *cobra.Command, args []string) error {
	if flagWatch && flagLevelsDir == "" {
		return fmt.Errorf("--watch needs --levels")
	}

	game, err := registry.Create(platformer.GameID)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		if _, err := platformer.Levels().LoadByID(args[0]); err != nil {
			return unknownLevel(err)
		}
		if ls, ok := game.(registry.LevelSelector); ok {
			ls.SelectLevel(args[0])
		}
	}

	var opts []tui.ModelOption
	opts = append(opts, tui.WithLogger(logger.WithPrefix("tui")))
	if flagWatch {
		dirs, err := levelDirs(flagLevelsDir)
		if err != nil {
			return err
		}
		w, err := level.NewWatcher(dirs...)
		if err != nil {
			return fmt.Errorf("cannot watch levels: %w", err)
		}
		defer w.Close()
		opts = append(opts, tui.WithWatcher(w))
		logger.Info("watching levels", "dirs", dirs)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	} else {
		defer store.Close()
	}

	if err := tui.Run(game, store, runtimeConfig(), opts...); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// runtimeConfig builds the runtime settings from the terminal and flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:   width,
		ScreenH:   height,
		TickRate:  flagFPS,
		Seed:      flagSeed,
		HoldTicks: flagHoldTicks,
	}
}

// levelDirs lists root and its subdirectories, since the watcher does not
// recurse.
func levelDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	return dirs, err
}

// unknownLevel adds the available level IDs to a failed level lookup.
func unknownLevel(err error) error {
	if !errors.Is(err, level.ErrLevelNotFound) {
		return err
	}
	ids, idsErr := platformer.Levels().ListIDs()
	if idsErr != nil || len(ids) == 0 {
		return fmt.Errorf("%w\nRun 'platformer list' to see available levels", err)
	}
	return fmt.Errorf("%w\nAvailable levels: %s", err, strings.Join(ids, ", "))
}
