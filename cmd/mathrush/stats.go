package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathrush/internal/quiz"
	"github.com/vovakirdan/mathrush/internal/storage"
)

var (
	flagStatsMode       string
	flagStatsDifficulty string
	flagStatsPlayer     string
	flagStatsRuns       int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated statistics from the run archive",
	Long: `Aggregate every archived run per mode: runs played, best and average score,
average accuracy, speed stars and best combo. Use --runs to also list the latest
archived runs.

Examples:
  mathrush stats
  mathrush stats --mode quick --difficulty hard
  mathrush stats --player alice --runs 10`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&flagStatsMode, "mode", "", "Only this mode")
	statsCmd.Flags().StringVar(&flagStatsDifficulty, "difficulty", "", "Only this difficulty")
	statsCmd.Flags().StringVar(&flagStatsPlayer, "player", "", "Only runs of this SSH user (empty = everyone)")
	statsCmd.Flags().IntVar(&flagStatsRuns, "runs", 0, "Also list this many recent archived runs")
}

func statsFilter() (storage.RunFilter, error) {
	filter := storage.RunFilter{Player: flagStatsPlayer, Limit: flagStatsRuns}
	if flagStatsMode != "" {
		mode, err := quiz.ParseMode(flagStatsMode)
		if err != nil {
			return filter, err
		}
		filter.Mode = mode
	}
	if flagStatsDifficulty != "" {
		diff, err := quiz.ParseDifficulty(flagStatsDifficulty)
		if err != nil {
			return filter, err
		}
		filter.Difficulty = diff
	}
	return filter, nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	filter, err := statsFilter()
	if err != nil {
		return err
	}

	a, err := newApp(cmd, logToStderr)
	if err != nil {
		return err
	}
	defer a.Close()

	archive, err := a.requireArchive()
	if err != nil {
		return err
	}

	stats, err := archive.Stats(cmd.Context(), filter)
	if err != nil {
		return err
	}

	fmt.Println("Run statistics")
	fmt.Println()

	if len(stats) == 0 {
		fmt.Println("No archived runs match.")
		return nil
	}

	fmt.Printf("  %-11s  %-5s  %-6s  %-8s  %-8s  %-5s  %-5s  %s\n",
		"Mode", "Runs", "Best", "Avg", "Accuracy", "Stars", "Combo", "Last played")
	fmt.Printf("  %-11s  %-5s  %-6s  %-8s  %-8s  %-5s  %-5s  %s\n",
		"----", "----", "----", "---", "--------", "-----", "-----", "-----------")
	for _, st := range stats {
		fmt.Printf("  %-11s  %-5d  %-6d  %-8.1f  %7.1f%%  %-5d  %-5d  %s\n",
			st.Mode.Title(), st.RunsCount, st.BestScore, st.AvgScore, st.AvgAccuracy,
			st.TotalStars, st.BestMaxCombo, st.LastPlayed.Local().Format("2006-01-02 15:04"))
	}

	if flagStatsRuns <= 0 {
		return nil
	}

	runs, err := archive.Runs(cmd.Context(), filter)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Latest archived runs")
	fmt.Println()
	for _, r := range runs {
		player := r.Player
		if player == "" {
			player = "local"
		}
		fmt.Printf("  %-10s  %-11s  %-6s  %-7d  %5.1f%%  %-7s  %s\n",
			player, r.Mode.Title(), r.Difficulty, r.Score, r.Accuracy,
			formatDuration(r.TimeTaken()), r.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// formatDuration renders a run length as m:ss.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
