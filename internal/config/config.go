package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string     `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel    slog.Level
	LogFile     string     `env:"LOG_FILE" envDefault:"treasure-hunt.log"`

	Locale      string  `env:"HUNT_LOCALE" envDefault:"en"`
	CatalogPath string  `env:"HUNT_CATALOG"`
	Speed       float64 `env:"HUNT_SPEED" envDefault:"1"`
	Seed        uint64  `env:"HUNT_SEED" envDefault:"0"`
	FrameMs     int     `env:"HUNT_FRAME_MS" envDefault:"120"`
	ArenaWidth  int     `env:"HUNT_ARENA_WIDTH" envDefault:"600"`
	ArenaHeight int     `env:"HUNT_ARENA_HEIGHT" envDefault:"400"`
}

// FrameInterval is the delay between reveal frames
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameMs) * time.Millisecond
}

// Load reads an optional .env file, then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var problems []string
	if c.Speed < 0 {
		problems = append(problems, "HUNT_SPEED must not be negative")
	}
	if c.FrameMs <= 0 {
		problems = append(problems, "HUNT_FRAME_MS must be positive")
	}
	if c.ArenaWidth < 60 || c.ArenaHeight < 40 {
		problems = append(problems, "arena must be at least 60x40")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
