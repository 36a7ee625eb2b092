package game

import (
	"time"

	"github.com/vovakirdan/mathrush/internal/quiz"
)

// Stats aggregates a run for the results screen.
type Stats struct {
	TotalScore     int
	CorrectCount   int
	WrongCount     int // wrong and skipped
	Accuracy       float64
	MaxCombo       int
	SpeedStars     int
	ShieldUsed     int
	AverageTime    time.Duration
	WrongQuestions []quiz.Question
}

// ComputeStats summarises the questions that reached a result.
func ComputeStats(run Run) Stats {
	s := Stats{
		TotalScore: run.Score,
		MaxCombo:   run.MaxCombo,
		SpeedStars: run.SpeedStars,
		ShieldUsed: run.ShieldUsed,
	}

	var answered int
	var totalLatency int64
	for _, q := range run.Questions {
		if q.Pending() {
			continue
		}
		answered++
		totalLatency += q.LatencyMs
		switch q.Result {
		case quiz.ResultCorrect:
			s.CorrectCount++
		case quiz.ResultWrong, quiz.ResultSkip:
			s.WrongCount++
			s.WrongQuestions = append(s.WrongQuestions, q)
		}
	}

	if answered > 0 {
		s.Accuracy = float64(s.CorrectCount) / float64(answered) * 100
		s.AverageTime = time.Duration(totalLatency/int64(answered)) * time.Millisecond
	}
	return s
}

// Rating is a short verdict for the results screen.
func (s Stats) Rating() string {
	switch {
	case s.Accuracy >= 90 && s.MaxCombo >= 5:
		return "Outstanding!"
	case s.Accuracy >= 80:
		return "Great job!"
	case s.Accuracy >= 60:
		return "Keep it up!"
	default:
		return "Keep practicing"
	}
}
