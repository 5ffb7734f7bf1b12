// platformer is a side-scrolling platformer for the terminal.
//
// Usage:
//
//	platformer list              - List available levels
//	platformer play [level]      - Play a level (the first one by default)
//	platformer menu              - Pick levels interactively
//	platformer serve             - Start SSH server for remote play
//	platformer scores [level]    - Show best clears
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.platformer/scores.db)
//	--levels <dir>       - Load levels from a directory instead of the built-in set
//	--config <path>      - Custom physics/scoring config YAML
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, fixed
//	--hold <ticks>       - How long a direction key stays held without repeats
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/games/platformer"
	"github.com/vovakirdan/tui-platformer/internal/platform/tui"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagLevelsDir  string
	flagConfig     string
	flagDifficulty string
	flagHoldTicks  int
	flagLogFile    string
	flagVerbose    bool
)

// logger is set up before every command runs.
var logger = log.New(io.Discard)

var logFile *os.File

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "platformer",
	Short: "Run, jump and stomp your way to the treasure in your terminal",
	Long: `Platformer is a side-scrolling platform game for the terminal.

Run and jump across each level, stomp the patrolling enemies, keep clear
of the lava and reach the treasure chest. Touching an enemy from the side
or falling into lava sends you back to the start.

Available commands:
  list     - Show all levels
  play     - Play a level directly
  menu     - Interactive level picker
  serve    - Start SSH server for remote play
  scores   - View best clears

Examples:
  platformer list
  platformer play 01-meadow
  platformer play --levels ./levels --watch
  platformer menu --difficulty easy
  platformer serve --ssh :2222
  platformer scores 01-meadow`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.platformer/scores.db", "Path to scores database")
	pf.StringVar(&flagLevelsDir, "levels", "", "Directory of level files (default: built-in levels)")
	pf.StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "normal", "Difficulty preset: easy, normal, hard, fixed")
	pf.IntVar(&flagHoldTicks, "hold", tui.DefaultHoldTicks, "Ticks a direction stays held after its last key repeat")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug messages")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setup validates the global flags and hands them to the game package.
func setup(_ *cobra.Command, _ []string) error {
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}
	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return err
	}
	gameCfg, err := config.LoadPlatformer(flagConfig)
	if err != nil {
		return err
	}
	config.ApplyPlatformerPreset(&gameCfg, preset)
	if err := gameCfg.Validate(); err != nil {
		return fmt.Errorf("difficulty %s: %w", preset, err)
	}
	if flagLevelsDir != "" {
		if info, err := os.Stat(flagLevelsDir); err != nil || !info.IsDir() {
			return fmt.Errorf("--levels %q is not a directory", flagLevelsDir)
		}
	}

	if err := setupLogging(); err != nil {
		return err
	}

	platformer.SetConfigPath(flagConfig)
	platformer.SetDifficultyPreset(flagDifficulty)
	platformer.SetLevelsDir(flagLevelsDir)
	platformer.SetLogger(logger.WithPrefix("game"))
	return nil
}

// setupLogging points the logger at --log-file. Terminal commands can't
// log to stderr while the TUI owns the screen, so without a file logs are
// dropped; serve overrides this with its own stderr logger.
func setupLogging() error {
	if flagLogFile == "" {
		return nil
	}

	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	logFile = f

	level := log.InfoLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return nil
}
