package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathrush/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent runs",
	Long: fmt.Sprintf(`Display the last %d finished runs, newest first.

Examples:
  mathrush history
  mathrush history --backend redis --redis localhost:6379
  mathrush history clear`, history.MaxEntries),
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the recent runs",
	Long:  `Empties the recent-runs list. The SQLite run archive used by 'stats' is left untouched.`,
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, logToStderr)
	if err != nil {
		return err
	}
	defer a.Close()

	entries := a.historyStore().Load(cmd.Context())

	fmt.Println("Recent runs")
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'mathrush play quick' to record your first run!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-11s  %-6s  %-7s  %-8s  %-5s  %-5s  %-7s  %s\n",
		"#", "Mode", "Level", "Score", "Accuracy", "Combo", "Stars", "Time", "Date")
	fmt.Printf("  %-4s  %-11s  %-6s  %-7s  %-8s  %-5s  %-5s  %-7s  %s\n",
		"-", "----", "-----", "-----", "--------", "-----", "-----", "----", "----")

	for i, e := range entries {
		fmt.Printf("  %-4d  %-11s  %-6s  %-7d  %7.1f%%  %-5d  %-5d  %-7s  %s\n",
			i+1, e.Mode.Title(), e.Difficulty, e.Score, e.Accuracy, e.MaxCombo, e.SpeedStars,
			formatDuration(e.TimeTaken()), e.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, logToStderr)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.historyStore().Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("History cleared.")
	return nil
}
