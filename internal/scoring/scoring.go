// Package scoring computes combo multipliers and per-question scores.
// All functions are pure.
package scoring

import (
	"fmt"
	"math"
)

// Rules holds the tunable scoring constants.
type Rules struct {
	BaseScore        int       `yaml:"base_score"`
	BossMultiplier   float64   `yaml:"boss_multiplier"`
	SpeedBonus       int       `yaml:"speed_bonus"`
	ComboThresholds  []int     `yaml:"combo_thresholds"`  // ascending combo values where the multiplier steps up
	ComboMultipliers []float64 `yaml:"combo_multipliers"` // len(ComboThresholds)+1 entries
}

// DefaultRules returns the stock scoring table.
func DefaultRules() Rules {
	return Rules{
		BaseScore:        100,
		BossMultiplier:   1.5,
		SpeedBonus:       20,
		ComboThresholds:  []int{2, 4, 6},
		ComboMultipliers: []float64{1.0, 1.2, 1.5, 2.0},
	}
}

// Validate checks that the thresholds and multipliers describe a
// non-decreasing step function.
func (r Rules) Validate() error {
	if r.BaseScore < 0 || r.SpeedBonus < 0 {
		return fmt.Errorf("scoring: base score and speed bonus must be non-negative")
	}
	if r.BossMultiplier < 1 {
		return fmt.Errorf("scoring: boss multiplier %.2f is below 1", r.BossMultiplier)
	}
	if len(r.ComboMultipliers) != len(r.ComboThresholds)+1 {
		return fmt.Errorf("scoring: need %d combo multipliers for %d thresholds, got %d",
			len(r.ComboThresholds)+1, len(r.ComboThresholds), len(r.ComboMultipliers))
	}
	for i := 1; i < len(r.ComboThresholds); i++ {
		if r.ComboThresholds[i] <= r.ComboThresholds[i-1] {
			return fmt.Errorf("scoring: combo thresholds must be strictly ascending")
		}
	}
	for i := 1; i < len(r.ComboMultipliers); i++ {
		if r.ComboMultipliers[i] < r.ComboMultipliers[i-1] {
			return fmt.Errorf("scoring: combo multipliers must be non-decreasing")
		}
	}
	return nil
}

// ComboMultiplier maps a combo count to its multiplier.
func (r Rules) ComboMultiplier(combo int) float64 {
	for i, threshold := range r.ComboThresholds {
		if combo < threshold {
			return r.ComboMultipliers[i]
		}
	}
	return r.ComboMultipliers[len(r.ComboMultipliers)-1]
}

// QuestionScore returns the points for one answer. Wrong answers score 0.
// The multiplied base is rounded half-up before the flat speed bonus is added.
func (r Rules) QuestionScore(isCorrect bool, combo int, isBoss, isSpeedStar bool) int {
	if !isCorrect {
		return 0
	}

	boss := 1.0
	if isBoss {
		boss = r.BossMultiplier
	}
	points := int(math.Floor(float64(r.BaseScore)*r.ComboMultiplier(combo)*boss + 0.5))

	if isSpeedStar {
		points += r.SpeedBonus
	}
	return points
}

var defaults = DefaultRules()

// ComboMultiplier uses the default rules.
func ComboMultiplier(combo int) float64 {
	return defaults.ComboMultiplier(combo)
}

// QuestionScore uses the default rules.
func QuestionScore(isCorrect bool, combo int, isBoss, isSpeedStar bool) int {
	return defaults.QuestionScore(isCorrect, combo, isBoss, isSpeedStar)
}
