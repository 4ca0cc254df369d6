package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Memory keeps everything in process memory, nothing survives a restart.
const Memory = "memory"

type Config struct {
	Addr     string `envconfig:"ADDR" default:"127.0.0.1:3000"`
	Driver   string `envconfig:"DRIVER" default:"sqlite3"`
	DSN      string `envconfig:"DSN" default:"file:employee-reviews.db?_foreign_keys=on"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON  bool   `envconfig:"LOG_JSON" default:"false"`
}

func NewConfig() Config {
	return Config{
		Addr:     "127.0.0.1:3000",
		Driver:   "sqlite3",
		DSN:      "file:employee-reviews.db?_foreign_keys=on",
		LogLevel: "info",
	}
}

// LoadConfig reads a .env file in the working directory, when there is one,
// and then overrides the defaults with any REVIEWS_* environment variables.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := NewConfig()
	if err := envconfig.Process("reviews", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read config from environment: %w", err)
	}

	return cfg, nil
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	return level, nil
}
