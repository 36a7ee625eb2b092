package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mathrush/internal/platform/tui"
	"github.com/vovakirdan/mathrush/internal/quiz"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Start a run",
	Long: `Start a run in the given mode, or open the mode picker when no mode is given.

Modes:
  main         - 15 questions
  quick        - 10 questions
  time_attack  - as many as you can in 120 seconds

Controls:
  Enter   - Submit / retry / next question
  Tab     - Skip the question
  Esc     - Back to menu
  Ctrl+C  - Quit

Examples:
  mathrush play
  mathrush play quick
  mathrush play time_attack --difficulty hard
  mathrush play main --seed 42 --mute`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", string(quiz.DifficultyEasy), "Difficulty: easy, medium, hard")
}

func runPlay(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runInteractive(cmd, nil)
	}

	mode, err := quiz.ParseMode(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Run 'mathrush modes' to see available modes.")
		return err
	}
	difficulty, err := quiz.ParseDifficulty(flagDifficulty)
	if err != nil {
		return err
	}

	return runInteractive(cmd, &tui.MenuSelection{Mode: mode, Difficulty: difficulty})
}

// runInteractive opens the local TUI. A nil start shows the menu first.
func runInteractive(cmd *cobra.Command, start *tui.MenuSelection) error {
	a, err := newApp(cmd, logToFile)
	if err != nil {
		return err
	}
	defer a.Close()

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store := a.historyStore()
	engine := a.newEngine(store)
	// Stop waits for the last run to be saved.
	defer engine.Stop()

	a.logger.Info("session started", "backend", a.settings.Backend, "seed", flagSeed)
	if err := tui.Run(engine, a.game, store, start, width, height); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
