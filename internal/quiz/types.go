// Package quiz provides the arithmetic question model, the per-difficulty
// question generator and the player input parser.
// Nothing in this package knows about scoring, timing or rendering.
package quiz

import "fmt"

// Mode selects how many questions a run plans and whether it is timed.
type Mode string

const (
	ModeMain       Mode = "main"
	ModeQuick      Mode = "quick"
	ModeTimeAttack Mode = "time_attack"
)

// Modes lists every playable mode in menu order.
var Modes = []Mode{ModeMain, ModeQuick, ModeTimeAttack}

// Title returns a human-readable name for display.
func (m Mode) Title() string {
	switch m {
	case ModeMain:
		return "Main"
	case ModeQuick:
		return "Quick"
	case ModeTimeAttack:
		return "Time Attack"
	default:
		return string(m)
	}
}

// ParseMode converts a CLI/menu string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMain, ModeQuick, ModeTimeAttack:
		return Mode(s), nil
	case "time-attack", "timeattack", "ta":
		return ModeTimeAttack, nil
	}
	return "", fmt.Errorf("quiz: unknown mode %q", s)
}

// Difficulty selects the template set used to build expressions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every difficulty in menu order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty converts a CLI/menu string to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("quiz: unknown difficulty %q", s)
}

// Result is the terminal (or pending) outcome of a single question.
type Result string

const (
	ResultPending Result = "pending"
	ResultCorrect Result = "correct"
	ResultWrong   Result = "wrong"
	ResultSkip    Result = "skip"
)

// Question is one generated quiz item plus the record of how it was played.
// The generator fills Index, Expression, Answer and IsBoss; every other field
// is written by the game state machine while the question is active.
type Question struct {
	Index      int    `json:"index"`
	Expression string `json:"expression"`
	Answer     int    `json:"answer"`
	IsBoss     bool   `json:"isBoss"`

	Attempts        int    `json:"attempts"`
	Result          Result `json:"result"`
	UserValue       *int   `json:"userValue"` // nil when the input was not a number
	LatencyMs       int64  `json:"latencyMs"`
	ComboBefore     int    `json:"comboBefore"`
	ComboAfter      int    `json:"comboAfter"`
	SpeedStarGained bool   `json:"speedStarGained"`
	ShieldUsed      bool   `json:"shieldUsed"`
	RetryUsed       bool   `json:"retryUsed"`
}

// Pending reports whether the question has not reached a terminal result.
func (q Question) Pending() bool {
	return q.Result == ResultPending
}
