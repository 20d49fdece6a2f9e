// Package config loads the recall configuration from defaults, an optional
// YAML file, RECALL_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/abhisek/recall/internal/analytics"
	"github.com/abhisek/recall/internal/queue"
	"github.com/abhisek/recall/internal/scheduler"
)

// Config is the full application configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty means the XDG default.
	DBPath   string `koanf:"db"`
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	Scheduler SchedulerConfig `koanf:"scheduler"`
	Queue     QueueConfig     `koanf:"queue"`
	Predict   PredictConfig   `koanf:"predict"`
}

// SchedulerConfig selects and tunes the scheduling strategy.
type SchedulerConfig struct {
	Strategy    string `koanf:"strategy" validate:"oneof=sm2 fsrs"`
	MaxInterval int    `koanf:"max_interval" validate:"gte=1,lte=36500"`

	// Fuzz spreads due dates by up to ±5%.
	Fuzz bool `koanf:"fuzz"`
	// Seed makes fuzz reproducible. Zero seeds from the clock.
	Seed uint64 `koanf:"seed"`

	Ease      scheduler.EaseParams      `koanf:"ease"`
	Stability scheduler.StabilityParams `koanf:"stability"`
}

// QueueConfig controls due-card ordering.
type QueueConfig struct {
	Mode  string `koanf:"mode" validate:"oneof=overdue legacy"`
	Limit int    `koanf:"limit" validate:"gte=0"`
}

// PredictConfig controls the workload forecast.
type PredictConfig struct {
	HorizonDays       int     `koanf:"horizon_days" validate:"gte=1,lte=3650"`
	Seed              uint64  `koanf:"seed"`
	BaseReviewSeconds float64 `koanf:"base_review_seconds" validate:"gt=0"`
	SecondsPerPoint   float64 `koanf:"seconds_per_point" validate:"gt=0"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "warn",
		Scheduler: SchedulerConfig{
			Strategy:    string(scheduler.StrategyEase),
			MaxInterval: scheduler.DefaultMaxInterval,
			Fuzz:        true,
			Ease:        scheduler.DefaultEaseParams(),
			Stability:   scheduler.DefaultStabilityParams(),
		},
		Queue: QueueConfig{
			Mode: string(queue.ModeOverdue),
		},
		Predict: PredictConfig{
			HorizonDays:       30,
			Seed:              analytics.DefaultPredictSeed,
			BaseReviewSeconds: analytics.DefaultBaseReviewSeconds,
			SecondsPerPoint:   analytics.DefaultSecondsPerPoint,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// Level parses LogLevel. Unknown values fall back to warn.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Build turns the scheduler section into a scheduler.Config.
func (c SchedulerConfig) Build(logger *slog.Logger) scheduler.Config {
	cfg := scheduler.Config{
		Strategy:    scheduler.Strategy(c.Strategy),
		MaxInterval: c.MaxInterval,
		Logger:      logger,
		Ease:        c.Ease,
		Stability:   c.Stability,
	}
	if c.Fuzz {
		seed := c.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		cfg.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return cfg
}

// Build turns the prediction section into an analytics.PredictConfig that
// shares the scheduler's stability tuning.
func (c PredictConfig) Build(s SchedulerConfig, logger *slog.Logger) analytics.PredictConfig {
	return analytics.PredictConfig{
		Stability:         s.Stability,
		MaxInterval:       s.MaxInterval,
		Seed:              c.Seed,
		BaseReviewSeconds: c.BaseReviewSeconds,
		SecondsPerPoint:   c.SecondsPerPoint,
		Logger:            logger,
	}
}

// Prioritizer builds the queue section.
func (c QueueConfig) Prioritizer() queue.Prioritizer {
	return queue.Prioritizer{Mode: queue.Mode(c.Mode), Limit: c.Limit}
}
