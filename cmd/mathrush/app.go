package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathrush/internal/audio"
	"github.com/vovakirdan/mathrush/internal/config"
	"github.com/vovakirdan/mathrush/internal/game"
	"github.com/vovakirdan/mathrush/internal/history"
	"github.com/vovakirdan/mathrush/internal/quiz"
	"github.com/vovakirdan/mathrush/internal/storage"
)

const connectTimeout = 5 * time.Second

// app holds everything a command needs: settings, tuning, logger and the
// opened persistence backends.
type app struct {
	settings config.Settings
	game     config.GameConfig
	logger   *log.Logger

	kv      history.KeyValue
	archive *storage.Store // nil when no SQLite archive is available
	closers []io.Closer
}

// logTarget selects where the app logs.
type logTarget int

const (
	logToFile logTarget = iota
	logToStderr
)

// newApp resolves settings (flags override MATHRUSH_* env), loads the game
// tuning and opens the configured backend.
func newApp(cmd *cobra.Command, target logTarget) (*app, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, &settings)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	a := &app{settings: settings}

	if err := a.openLogger(target); err != nil {
		return nil, err
	}

	a.game, err = config.LoadGame(flagConfig)
	if err != nil {
		a.Close()
		return nil, err
	}

	if err := a.openBackend(cmd.Context()); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func applyFlags(cmd *cobra.Command, s *config.Settings) {
	if flagBackend != "" {
		s.Backend = config.Backend(flagBackend)
	}
	if flagDBPath != "" {
		s.DBPath = flagDBPath
	}
	if flagRedis != "" {
		s.RedisAddr = flagRedis
	}
	if flagLogLevel != "" {
		s.LogLevel = flagLogLevel
	}
	if cmd.Flags().Changed("mute") {
		s.Mute = flagMute
	}
}

func (a *app) openLogger(target logTarget) error {
	level, err := log.ParseLevel(a.settings.LogLevel)
	if err != nil {
		return fmt.Errorf("config: log level: %w", err)
	}

	var w io.Writer = os.Stderr
	if target == logToFile {
		// The TUI owns the terminal, so interactive runs log to a file.
		path, expErr := config.ExpandHome(a.settings.LogFile)
		if expErr != nil {
			return expErr
		}
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return fmt.Errorf("cannot create log directory: %w", mkErr)
		}
		f, openErr := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if openErr != nil {
			return fmt.Errorf("cannot open log file: %w", openErr)
		}
		a.closers = append(a.closers, f)
		w = f
	}

	a.logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "mathrush",
		Level:           level,
	})
	return nil
}

func (a *app) openBackend(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	switch a.settings.Backend {
	case config.BackendMemory:
		a.kv = storage.NewMemoryStore()

	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		rs, err := storage.OpenRedis(ctx, a.settings.RedisAddr, a.settings.RedisDB)
		if err != nil {
			return err
		}
		a.kv = rs
		a.closers = append(a.closers, rs)

		// The archive stays in SQLite; without it only the recent list is kept.
		if store, err := storage.Open(a.settings.DBPath); err != nil {
			a.logger.Warn("run archive unavailable", "err", err)
		} else {
			a.archive = store
			a.closers = append(a.closers, store)
		}

	default:
		store, err := storage.Open(a.settings.DBPath)
		if err != nil {
			return err
		}
		a.kv = store
		a.archive = store
		a.closers = append(a.closers, store)
	}

	a.logger.Debug("backend ready", "backend", a.settings.Backend, "archive", a.archive != nil)
	return nil
}

// historyArchive returns the archive as a history port, or nil.
func (a *app) historyArchive() history.Archive {
	if a.archive == nil {
		return nil
	}
	return a.archive
}

// requireArchive is for commands that only make sense with the SQLite archive.
func (a *app) requireArchive() (*storage.Store, error) {
	if a.archive == nil {
		return nil, errors.New("the run archive needs the sqlite database (check --db / --backend)")
	}
	return a.archive, nil
}

// historyStore returns the recent-runs list for the local player.
func (a *app) historyStore() *history.Store {
	return history.NewStore(a.kv, history.DefaultKey)
}

// newEngine wires a local engine: seeded generator, recorder and sound.
func (a *app) newEngine(store *history.Store) *game.Engine {
	var player audio.Player
	if !a.settings.Mute {
		player = audio.NewTTYBell()
	}

	return game.NewEngine(a.game,
		game.WithGenerator(quiz.NewGenerator(flagSeed)),
		game.WithRecorder(history.NewRecorder(store, a.historyArchive(), a.logger)),
		game.WithAudio(player),
		game.WithLogger(a.logger),
	)
}

// Close releases every backend and the log file, last opened first.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		//nolint:errcheck // Best-effort close on exit
		a.closers[i].Close()
	}
	a.closers = nil
}
