// Package history turns finished runs into compact summaries and keeps a
// bounded, most-recent-first list of them in a key-value store.
package history

import (
	"time"

	"github.com/vovakirdan/mathrush/internal/game"
	"github.com/vovakirdan/mathrush/internal/quiz"
)

// Summary is the persisted record of one finished run.
type Summary struct {
	RunID             string          `json:"runId"`
	Mode              quiz.Mode       `json:"mode"`
	Difficulty        quiz.Difficulty `json:"difficulty"`
	Score             int             `json:"score"`
	Accuracy          float64         `json:"accuracy"` // 0-100
	MaxCombo          int             `json:"maxCombo"`
	SpeedStars        int             `json:"speedStars"`
	ShieldUsed        int             `json:"shieldUsed"`
	QuestionsAnswered int             `json:"questionsAnswered"`
	TimeTakenMs       int64           `json:"timeTakenMs"`
	CompletedAt       time.Time       `json:"completedAt"`
}

// TimeTaken returns the run duration.
func (s Summary) TimeTaken() time.Duration {
	return time.Duration(s.TimeTakenMs) * time.Millisecond
}

// BuildSummary derives the record for a finished run. ok is false while the
// run is still playing.
func BuildSummary(run game.Run) (Summary, bool) {
	if !run.Finished() {
		return Summary{}, false
	}

	stats := game.ComputeStats(run)
	return Summary{
		RunID:             run.RunID,
		Mode:              run.Mode,
		Difficulty:        run.Difficulty,
		Score:             run.Score,
		Accuracy:          stats.Accuracy,
		MaxCombo:          run.MaxCombo,
		SpeedStars:        run.SpeedStars,
		ShieldUsed:        run.ShieldUsed,
		QuestionsAnswered: run.QuestionsAnswered,
		TimeTakenMs:       run.Elapsed(run.EndAt).Milliseconds(),
		CompletedAt:       run.EndAt,
	}, true
}
