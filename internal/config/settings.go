package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Backend names a history persistence backend.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// Settings are the runtime knobs read from the environment.
type Settings struct {
	Backend   Backend `env:"MATHRUSH_BACKEND" envDefault:"sqlite"`
	DBPath    string  `env:"MATHRUSH_DB" envDefault:"~/.mathrush/mathrush.db"`
	RedisAddr string  `env:"MATHRUSH_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int     `env:"MATHRUSH_REDIS_DB" envDefault:"0"`
	LogLevel  string  `env:"MATHRUSH_LOG_LEVEL" envDefault:"info"`
	LogFile   string  `env:"MATHRUSH_LOG_FILE" envDefault:"~/.mathrush/mathrush.log"`
	Mute      bool    `env:"MATHRUSH_MUTE" envDefault:"false"`
}

// LoadSettings reads a .env file (if present) and the process environment.
func LoadSettings() (Settings, error) {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the backend name.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
		return nil
	}
	return fmt.Errorf("config: unknown backend %q (want sqlite, redis or memory)", s.Backend)
}
