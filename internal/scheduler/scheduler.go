// Package scheduler decides when a card is next shown and how its state
// evolves after an answer. Two strategies implement the same Scheduler
// contract: an SM-2 style ease-factor model and an FSRS style
// stability/difficulty model.
//
// Schedulers are pure: they read the Card value they are given, never touch
// storage, and return a new Card. Callers must not schedule the same stale
// snapshot twice concurrently; the output depends only on the input.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/recall/internal/card"
	"github.com/abhisek/recall/internal/quality"
)

// Strategy names a scheduling model.
type Strategy string

const (
	StrategyEase      Strategy = "sm2"
	StrategyStability Strategy = "fsrs"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyEase, StrategyStability:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown scheduling strategy: %q", s)
}

// DefaultMaxInterval caps every scheduled interval, in days.
const DefaultMaxInterval = 3650

// Result is the scheduling metadata returned with the updated card.
type Result struct {
	Strategy     Strategy        `json:"strategy"`
	IntervalDays int             `json:"interval_days"`
	NextReviewAt time.Time       `json:"next_review_at"`
	QualityUsed  quality.Quality `json:"quality_used"`
	Rating       quality.Rating  `json:"rating"`
}

// Scheduler processes one answer for one card.
type Scheduler interface {
	// Schedule applies a graded answer at now and returns the updated card.
	// It never fails: invalid state is clamped.
	Schedule(c card.Card, q quality.Quality, now time.Time) (card.Card, Result)

	// Strategy reports which model produced the result.
	Strategy() Strategy
}

// Config selects and parameterizes a scheduler.
type Config struct {
	Strategy Strategy

	// MaxInterval caps intervals in days. Zero means DefaultMaxInterval.
	MaxInterval int

	// Rand drives interval fuzz. Nil disables fuzz.
	Rand RandSource

	// Logger receives recoverable anomalies. Nil means slog.Default().
	Logger *slog.Logger

	Ease      EaseParams
	Stability StabilityParams
}

func (c Config) maxInterval() int {
	if c.MaxInterval <= 0 {
		return DefaultMaxInterval
	}
	return c.MaxInterval
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// New builds the scheduler selected by cfg.Strategy. An empty strategy
// selects the ease-factor model.
func New(cfg Config) (Scheduler, error) {
	switch cfg.Strategy {
	case StrategyEase, "":
		return NewEaseScheduler(cfg), nil
	case StrategyStability:
		return NewStabilityScheduler(cfg)
	}
	return nil, fmt.Errorf("unknown scheduling strategy: %q", cfg.Strategy)
}

// Answer maps a known/unknown answer to a quality using the card's current
// difficulty and schedules it. responseTime of zero means not measured.
func Answer(s Scheduler, c card.Card, known bool, responseTime time.Duration, now time.Time) (card.Card, Result) {
	c = card.Normalize(c)
	q := quality.Map(c.Difficulty, known, responseTime)
	next, res := s.Schedule(c, q, now)
	if responseTime > 0 {
		next.Memory.LastResponseTimeMs = responseTime.Milliseconds()
	}
	return next, res
}

// Preview holds the outcome of both possible answers without committing
// either.
type Preview struct {
	Known   Result `json:"known"`
	Unknown Result `json:"unknown"`
}

// PreviewAnswer schedules both answers against the same snapshot. With fuzz
// enabled the committed interval may differ slightly.
func PreviewAnswer(s Scheduler, c card.Card, responseTime time.Duration, now time.Time) Preview {
	_, known := Answer(s, c, true, responseTime, now)
	_, unknown := Answer(s, c, false, responseTime, now)
	return Preview{Known: known, Unknown: unknown}
}

// record applies the bookkeeping every strategy shares.
func record(c card.Card, q quality.Quality, interval int, now time.Time) card.Card {
	c.ReviewCount++
	c.LastReviewedAt = now
	c.NextReviewAt = now.AddDate(0, 0, interval)
	c.Memory.LastIntervalDays = interval
	c.Memory.LastQuality = &q
	if q.IsFailure() {
		c.HasBeenWrong = true
		c.WasWrongInSession = true
	}
	return c
}

// clampInterval bounds days to [1, maxInterval].
func clampInterval(days, maxInterval int) int {
	if days < 1 {
		return 1
	}
	if days > maxInterval {
		return maxInterval
	}
	return days
}

// validQuality pins an out-of-range quality to the nearest grade.
func validQuality(q quality.Quality) quality.Quality {
	if q < quality.Blackout {
		return quality.Blackout
	}
	if q > quality.Perfect {
		return quality.Perfect
	}
	return q
}
