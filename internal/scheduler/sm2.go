package scheduler

import (
	"math"
	"time"

	"github.com/abhisek/recall/internal/card"
	"github.com/abhisek/recall/internal/quality"
)

// Ease-factor defaults.
const (
	DefaultInitialEase       = 2.5
	DefaultMinEase           = 1.3
	DefaultMaxEase           = 3.0
	DefaultLateIntervalBonus = 0.15
	DefaultLateEaseBonus     = 0.05

	// GraduationReps is the number of successes scheduled from
	// initialIntervals before the ease factor takes over.
	GraduationReps = 2

	// FailurePenalty is subtracted from the public difficulty on a failure.
	FailurePenalty = 2.0

	// MasteryReps is where repetition progress saturates in the
	// difficulty blend.
	MasteryReps = 8
)

var initialIntervals = [GraduationReps]int{1, 6}

// easeDelta is added to the ease factor for each grade.
var easeDelta = [quality.NumQualities]float64{
	quality.Blackout:  -0.30,
	quality.Wrong:     -0.20,
	quality.NearMiss:  -0.15,
	quality.Struggled: 0,
	quality.Hesitant:  0.01,
	quality.Effortful: 0.02,
	quality.Adequate:  0.03,
	quality.Solid:     0.05,
	quality.Confident: 0.08,
	quality.Fluent:    0.10,
	quality.Perfect:   0.15,
}

// intervalModifier scales a graduated interval by answer quality.
var intervalModifier = [quality.NumQualities]float64{
	quality.Blackout:  0.2,
	quality.Wrong:     0.2,
	quality.NearMiss:  0.2,
	quality.Struggled: 0.6,
	quality.Hesitant:  0.8,
	quality.Effortful: 0.9,
	quality.Adequate:  1.0,
	quality.Solid:     1.0,
	quality.Confident: 1.1,
	quality.Fluent:    1.3,
	quality.Perfect:   1.5,
}

// Weights of the success difficulty blend. They sum to 1.
const (
	progressWeight = 0.5
	easeWeight     = 0.3
	qualityWeight  = 0.2
)

// EaseParams tunes the ease-factor model. A zero EaseParams means
// DefaultEaseParams; otherwise zero ease bounds take their defaults.
type EaseParams struct {
	InitialEase       float64 `koanf:"initial_ease" validate:"omitempty,gt=0"`
	MinEase           float64 `koanf:"min_ease" validate:"omitempty,gt=0"`
	MaxEase           float64 `koanf:"max_ease" validate:"omitempty,gtefield=MinEase"`
	LateIntervalBonus float64 `koanf:"late_interval_bonus" validate:"gte=0,lte=1"`
	LateEaseBonus     float64 `koanf:"late_ease_bonus" validate:"gte=0,lte=1"`
}

// DefaultEaseParams returns the stock SM-2 tuning.
func DefaultEaseParams() EaseParams {
	return EaseParams{
		InitialEase:       DefaultInitialEase,
		MinEase:           DefaultMinEase,
		MaxEase:           DefaultMaxEase,
		LateIntervalBonus: DefaultLateIntervalBonus,
		LateEaseBonus:     DefaultLateEaseBonus,
	}
}

func (p EaseParams) withDefaults() EaseParams {
	d := DefaultEaseParams()
	if p == (EaseParams{}) {
		return d
	}
	if p.InitialEase <= 0 {
		p.InitialEase = d.InitialEase
	}
	if p.MinEase <= 0 {
		p.MinEase = d.MinEase
	}
	if p.MaxEase <= 0 {
		p.MaxEase = d.MaxEase
	}
	if p.MaxEase < p.MinEase {
		p.MinEase, p.MaxEase = d.MinEase, d.MaxEase
	}
	return p
}

// EaseScheduler is the SM-2 style model: intervals grow by a per-card ease
// factor that drifts with answer quality.
type EaseScheduler struct {
	params      EaseParams
	maxInterval int
	rand        RandSource
}

var _ Scheduler = (*EaseScheduler)(nil)

// NewEaseScheduler builds an ease-factor scheduler from cfg.
func NewEaseScheduler(cfg Config) *EaseScheduler {
	return &EaseScheduler{
		params:      cfg.Ease.withDefaults(),
		maxInterval: cfg.maxInterval(),
		rand:        cfg.Rand,
	}
}

// Strategy implements Scheduler.
func (s *EaseScheduler) Strategy() Strategy { return StrategyEase }

// Schedule implements Scheduler.
func (s *EaseScheduler) Schedule(c card.Card, q quality.Quality, now time.Time) (card.Card, Result) {
	c = card.Normalize(c)
	q = validQuality(q)

	ease := s.params.InitialEase
	if c.Memory.EaseFactor != nil {
		ease = *c.Memory.EaseFactor
	}
	ease = s.clampEase(ease + easeDelta[q])

	reps := c.Memory.Repetitions
	var interval int
	if q.IsFailure() {
		reps = 0
		interval = 1
	} else {
		reps++
		if reps <= GraduationReps {
			interval = initialIntervals[reps-1]
		} else {
			prev := float64(max(c.Memory.LastIntervalDays, 1))
			ivl := prev * ease * intervalModifier[q]
			if late := c.OverdueDays(now); late > 0 {
				ratio := math.Min(late/prev, 1)
				ivl *= 1 + s.params.LateIntervalBonus*ratio
				ease = s.clampEase(ease + s.params.LateEaseBonus*ratio)
			}
			interval = int(math.Round(ivl))
		}
	}
	interval = clampInterval(interval, s.maxInterval)
	interval = fuzzInterval(interval, s.maxInterval, s.rand)

	c.Difficulty = s.difficulty(c.Difficulty, reps, ease, q)
	c.Memory.EaseFactor = &ease
	c.Memory.Repetitions = reps
	c = record(c, q, interval, now)

	return c, Result{
		Strategy:     StrategyEase,
		IntervalDays: interval,
		NextReviewAt: c.NextReviewAt,
		QualityUsed:  q,
		Rating:       quality.RatingFor(q),
	}
}

// difficulty derives the public difficulty. Successes never lower it.
func (s *EaseScheduler) difficulty(prev float64, reps int, ease float64, q quality.Quality) float64 {
	if q.IsFailure() {
		return card.ClampDifficulty(prev - FailurePenalty)
	}
	progress := math.Min(float64(reps), MasteryReps) / MasteryReps
	easeNorm := 1.0
	if span := s.params.MaxEase - s.params.MinEase; span > 0 {
		easeNorm = (ease - s.params.MinEase) / span
	}
	grade := float64(q) / float64(quality.Perfect)
	blend := card.MaxDifficulty * (progressWeight*progress + easeWeight*easeNorm + qualityWeight*grade)
	return card.ClampDifficulty(math.Max(prev, blend))
}

func (s *EaseScheduler) clampEase(e float64) float64 {
	if math.IsNaN(e) {
		return s.params.InitialEase
	}
	return math.Min(math.Max(e, s.params.MinEase), s.params.MaxEase)
}
