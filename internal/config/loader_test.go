package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mathrush/internal/quiz"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parseGame(defaultGameYAML)
	require.NoError(t, err)
	assert.Equal(t, DefaultGameConfig(), cfg)
}

func TestLoadGameCustomPathOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions:\n  quick: 5\nrules:\n  shield_per_run: 2\n"), 0o600))

	cfg, err := LoadGame(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.PlannedQuestions(quiz.ModeQuick))
	assert.Equal(t, 15, cfg.PlannedQuestions(quiz.ModeMain))
	assert.Equal(t, 50, cfg.PlannedQuestions(quiz.ModeTimeAttack))
	assert.Equal(t, 2, cfg.Rules.ShieldPerRun)
	assert.Equal(t, time.Second, cfg.TimeAttack.TickInterval)
	assert.Equal(t, 6*time.Second, cfg.SoftTimeLimit())
}

func TestLoadGameCustomPathErrors(t *testing.T) {
	_, err := LoadGame(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring:\n  combo_multipliers: [1.0]\n"), 0o600))
	_, err = LoadGame(path)
	require.Error(t, err, "mismatched thresholds and multipliers must be rejected")
}

func TestValidate(t *testing.T) {
	cfg := DefaultGameConfig()
	require.NoError(t, cfg.Validate())

	cfg.Questions.Main = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultGameConfig()
	cfg.TimeAttack.TickInterval = 0
	require.Error(t, cfg.Validate())
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("MATHRUSH_BACKEND", "memory")
	t.Setenv("MATHRUSH_REDIS_DB", "3")
	t.Setenv("MATHRUSH_MUTE", "true")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, s.Backend)
	assert.Equal(t, 3, s.RedisDB)
	assert.True(t, s.Mute)
	assert.Equal(t, "info", s.LogLevel)
}

func TestLoadSettingsRejectsUnknownBackend(t *testing.T) {
	t.Setenv("MATHRUSH_BACKEND", "mongo")
	_, err := LoadSettings()
	require.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	got, err := ExpandHome("/tmp/x.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", got)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	got, err = ExpandHome("~/.mathrush/x.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".mathrush", "x.db"), got)
}
