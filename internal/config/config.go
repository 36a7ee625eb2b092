// Package config provides YAML-based game tuning and environment-based
// runtime settings for mathrush.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/mathrush/internal/quiz"
	"github.com/vovakirdan/mathrush/internal/scoring"
)

// GameConfig contains every tunable of the quiz rules.
type GameConfig struct {
	Questions  QuestionsConfig  `yaml:"questions"`
	TimeAttack TimeAttackConfig `yaml:"time_attack"`
	Rules      RulesConfig      `yaml:"rules"`
	Scoring    scoring.Rules    `yaml:"scoring"`
}

// QuestionsConfig defines how many questions each mode plans.
type QuestionsConfig struct {
	Main       int `yaml:"main"`
	Quick      int `yaml:"quick"`
	TimeAttack int `yaml:"time_attack"` // upper bound, the countdown ends the run
	BossCount  int `yaml:"boss_count"`
}

// TimeAttackConfig defines the countdown.
type TimeAttackConfig struct {
	Seconds      int           `yaml:"seconds"`
	TickInterval time.Duration `yaml:"tick_interval"`
}

// RulesConfig defines retry, shield and speed-star rules.
type RulesConfig struct {
	SoftTimeLimitSec int `yaml:"soft_time_limit_sec"`
	ShieldPerRun     int `yaml:"shield_per_run"`
	RetryPerQuestion int `yaml:"retry_per_question"`
}

// PlannedQuestions returns the question count for a mode.
func (c GameConfig) PlannedQuestions(mode quiz.Mode) int {
	switch mode {
	case quiz.ModeQuick:
		return c.Questions.Quick
	case quiz.ModeTimeAttack:
		return c.Questions.TimeAttack
	default:
		return c.Questions.Main
	}
}

// SoftTimeLimit returns the speed-star window.
func (c GameConfig) SoftTimeLimit() time.Duration {
	return time.Duration(c.Rules.SoftTimeLimitSec) * time.Second
}

// Validate reports the first inconsistent setting.
func (c GameConfig) Validate() error {
	if c.Questions.Main <= 0 || c.Questions.Quick <= 0 || c.Questions.TimeAttack <= 0 {
		return fmt.Errorf("config: question counts must be positive")
	}
	if c.Questions.BossCount < 0 {
		return fmt.Errorf("config: boss_count must not be negative")
	}
	if c.TimeAttack.Seconds <= 0 {
		return fmt.Errorf("config: time_attack.seconds must be positive")
	}
	if c.TimeAttack.TickInterval <= 0 {
		return fmt.Errorf("config: time_attack.tick_interval must be positive")
	}
	if c.Rules.SoftTimeLimitSec < 0 || c.Rules.ShieldPerRun < 0 || c.Rules.RetryPerQuestion < 0 {
		return fmt.Errorf("config: rules must not be negative")
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
