package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathrush/internal/config"
	"github.com/vovakirdan/mathrush/internal/quiz"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List modes and difficulties",
	Long:  `Shows every mode with its question count, and every difficulty with the kind of problems it asks.`,
	Args:  cobra.NoArgs,
	RunE:  runModes,
}

func runModes(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadGame(flagConfig)
	if err != nil {
		return err
	}

	fmt.Println("Modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range quiz.Modes {
		if len(m) > maxIDLen {
			maxIDLen = len(m)
		}
	}

	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "ID", "Title", "Length")
	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "--", "-----", "------")
	for _, m := range quiz.Modes {
		length := fmt.Sprintf("%d questions", cfg.PlannedQuestions(m))
		if m == quiz.ModeTimeAttack {
			length = fmt.Sprintf("%ds countdown", cfg.TimeAttack.Seconds)
		}
		fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, m, m.Title(), length)
	}

	fmt.Println()
	fmt.Println("Difficulties:")
	fmt.Println()
	for _, d := range quiz.Difficulties {
		fmt.Printf("  %-6s  %d templates\n", d, len(quiz.Templates(d)))
	}

	fmt.Println()
	fmt.Printf("Boss questions per run: %d (x%.1f points)\n", cfg.Questions.BossCount, cfg.Scoring.BossMultiplier)
	fmt.Println("Run 'mathrush play <mode> --difficulty <level>' to start.")
	return nil
}
