package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/mathrush/internal/scoring"
)

//go:embed defaults/game.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns the default game configuration.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Questions: QuestionsConfig{
			Main:       15,
			Quick:      10,
			TimeAttack: 50,
			BossCount:  1,
		},
		TimeAttack: TimeAttackConfig{
			Seconds:      120,
			TickInterval: time.Second,
		},
		Rules: RulesConfig{
			SoftTimeLimitSec: 6,
			ShieldPerRun:     1,
			RetryPerQuestion: 1,
		},
		Scoring: scoring.DefaultRules(),
	}
}
