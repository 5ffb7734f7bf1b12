package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-platformer/internal/engine"
	"github.com/vovakirdan/tui-platformer/internal/games/platformer"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available levels",
	Long: `Shows the levels in play order with their size, enemy count and your
best clear. Use --levels to list a directory of level files instead of
the built-in set.`,
	RunE: runList,
}

func runList(_ *cobra.Command, _ []string) error {
	levels, err := platformer.Levels().LoadAll()
	if err != nil {
		return err
	}

	if len(levels) == 0 {
		fmt.Println("No levels available.")
		return nil
	}

	// Best clears are optional
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	fmt.Println("Available levels:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, l := range levels {
		if len(l.ID) > maxIDLen {
			maxIDLen = len(l.ID)
		}
	}

	fmt.Printf("  %-*s  %-22s  %-7s  %-7s  %s\n", maxIDLen, "ID", "Name", "Size", "Enemies", "Best")
	fmt.Printf("  %-*s  %-22s  %-7s  %-7s  %s\n", maxIDLen, "--", "----", "----", "-------", "----")

	for _, l := range levels {
		best := "-"
		if store != nil {
			if run, err := store.BestClear(l.ID); err == nil && run != nil {
				best = fmt.Sprintf("%d", run.Score)
			}
		}
		size := fmt.Sprintf("%dx%d", l.Cols, l.Rows)
		fmt.Printf("  %-*s  %-22s  %-7s  %-7d  %s\n", maxIDLen, l.ID, l.Name, size, l.Count(engine.TileEnemySpawn), best)
	}

	fmt.Println()
	fmt.Println("Run 'platformer play <id>' to play a level.")
	return nil
}
