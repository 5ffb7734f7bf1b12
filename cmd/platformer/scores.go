package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-platformer/internal/games/platformer"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show best clears",
	Long: `Display the best clears for a level, or a summary of every level when
none is named.

Examples:
  platformer scores
  platformer scores 01-meadow
  platformer scores 01-meadow --limit 20
  platformer scores 01-meadow --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of clears to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the level's scores and runs")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return printSummary(store)
	}

	lvl, err := platformer.Levels().LoadByID(args[0])
	if err != nil {
		return fmt.Errorf("%w\nRun 'platformer list' to see available levels", err)
	}

	if flagScoresClear {
		if err := store.ClearScores(lvl.ID); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s.\n", lvl.Name)
		return nil
	}

	runs, err := store.TopRuns(lvl.ID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("Best Clears - %s\n", lvl.Name)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No clears recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'platformer play %s' to set the first score!\n", lvl.ID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-8s  %s\n", "Rank", "Score", "Deaths", "Stomps", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-8s  %s\n", "----", "-----", "------", "------", "----", "----")

	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-6d  %-6d  %-8.1f  %s\n",
			i+1, r.Score, r.Deaths, r.Stomps, r.Seconds, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	high, err := store.HighScore(lvl.ID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d\n", high)
	}
	return nil
}

// printSummary shows play statistics for every level.
func printSummary(store *storage.Store) error {
	levels, err := platformer.Levels().LoadAll()
	if err != nil {
		return err
	}

	fmt.Printf("  %-22s  %-5s  %-6s  %-6s  %-8s  %s\n", "Level", "Runs", "Clears", "Deaths", "Best", "Last played")
	fmt.Printf("  %-22s  %-5s  %-6s  %-6s  %-8s  %s\n", "-----", "----", "------", "------", "----", "-----------")

	for _, l := range levels {
		stats, err := store.GetLevelStats(l.ID)
		if err != nil {
			return err
		}
		last := "-"
		if !stats.LastPlayed.IsZero() {
			last = stats.LastPlayed.Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-22s  %-5d  %-6d  %-6d  %-8d  %s\n",
			l.Name, stats.Runs, stats.Clears, stats.Deaths, stats.HighScore, last)
	}

	recent, err := store.RecentRuns(5)
	if err != nil || len(recent) == 0 {
		return err
	}
	fmt.Println()
	fmt.Println("Recent runs:")
	for _, r := range recent {
		result := "gave up"
		if r.Won {
			result = fmt.Sprintf("cleared, %d points", r.Score)
		}
		fmt.Printf("  %s  %-16s  %s, %d deaths\n", r.CreatedAt.Format("2006-01-02 15:04"), r.LevelID, result, r.Deaths)
	}
	return nil
}
