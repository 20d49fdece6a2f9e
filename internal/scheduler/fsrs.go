package scheduler

import (
	"log/slog"
	"math"
	"time"

	"github.com/abhisek/recall/internal/card"
	"github.com/abhisek/recall/internal/quality"
)

// Interval thresholds, in days, used to derive the learning state from a
// card's public history.
const (
	RelearningInterval = 7
	LearningInterval   = 21
)

// StabilityScheduler is the FSRS style model: each card carries a memory
// stability (days until recall drops to the target retention) and an
// internal difficulty, both updated from a four-level rating.
type StabilityScheduler struct {
	algo        algo
	maxInterval int
	rand        RandSource
	logger      *slog.Logger
}

var _ Scheduler = (*StabilityScheduler)(nil)

// NewStabilityScheduler builds a stability scheduler. It fails only on an
// invalid weight vector or retention target.
func NewStabilityScheduler(cfg Config) (*StabilityScheduler, error) {
	a, err := newAlgo(cfg.Stability)
	if err != nil {
		return nil, err
	}
	return &StabilityScheduler{
		algo:        a,
		maxInterval: cfg.maxInterval(),
		rand:        cfg.Rand,
		logger:      cfg.logger(),
	}, nil
}

// Strategy implements Scheduler.
func (s *StabilityScheduler) Strategy() Strategy { return StrategyStability }

// Retrievability is the modelled probability of recalling c at now. Cards
// without stability state report ok=false.
func (s *StabilityScheduler) Retrievability(c card.Card, now time.Time) (r float64, ok bool) {
	st := c.Memory.Stability
	if st == nil || !isUsableStability(*st) {
		return 0, false
	}
	return s.algo.retrievability(elapsedDays(c.LastReviewedAt, now), *st), true
}

// memoryState is the scheduler's view of a card before an answer.
type memoryState struct {
	state      card.State
	stability  float64
	difficulty float64
	reps       int
	lapses     int
}

// Schedule implements Scheduler.
func (s *StabilityScheduler) Schedule(c card.Card, q quality.Quality, now time.Time) (card.Card, Result) {
	c = card.Normalize(c)
	q = validQuality(q)
	rating := quality.RatingFor(q)
	m := s.reconstruct(c)

	var stability, difficulty float64
	if m.state == card.StateNew {
		stability = s.algo.initStability(rating)
		difficulty = s.algo.initDifficulty(rating)
	} else {
		r := s.algo.retrievability(elapsedDays(c.LastReviewedAt, now), m.stability)
		if rating == quality.Again {
			stability = s.algo.nextForgetStability(m.difficulty, m.stability, r)
		} else {
			stability = s.algo.nextRecallStability(m.difficulty, m.stability, r, rating)
		}
		difficulty = s.algo.nextDifficulty(m.difficulty, rating)
	}

	lapses := m.lapses
	if m.state == card.StateReview && rating == quality.Again {
		lapses++
	}

	interval := clampInterval(s.algo.nextInterval(stability), s.maxInterval)
	interval = fuzzInterval(interval, s.maxInterval, s.rand)

	c.Difficulty = publicDifficulty(c.Difficulty, rating)
	c.Memory.Stability = &stability
	c.Memory.InternalDifficulty = &difficulty
	c.Memory.Repetitions = m.reps + 1
	c.Memory.Lapses = lapses
	c.Memory.State = transition(m.state, rating)
	c = record(c, q, interval, now)

	return c, Result{
		Strategy:     StrategyStability,
		IntervalDays: interval,
		NextReviewAt: c.NextReviewAt,
		QualityUsed:  q,
		Rating:       rating,
	}
}

// reconstruct rebuilds the scheduler state from the card. Missing or corrupt
// state yields an empty card so scheduling always proceeds.
func (s *StabilityScheduler) reconstruct(c card.Card) memoryState {
	if c.ReviewCount == 0 {
		return memoryState{state: card.StateNew}
	}
	m := c.Memory
	if m.Stability == nil && m.InternalDifficulty == nil {
		s.logger.Debug("no stability state, scheduling as new card", "card_id", c.ID)
		return memoryState{state: card.StateNew}
	}
	if reason := corruption(m); reason != "" {
		s.logger.Warn("corrupt stability state, scheduling as new card",
			"card_id", c.ID, "reason", reason)
		return memoryState{state: card.StateNew}
	}
	return memoryState{
		state:      deriveState(c),
		stability:  *m.Stability,
		difficulty: clampD(*m.InternalDifficulty),
		reps:       m.Repetitions,
		lapses:     m.Lapses,
	}
}

// corruption explains why m cannot be trusted, or returns "".
func corruption(m card.Memory) string {
	switch {
	case m.Stability == nil:
		return "internal difficulty without stability"
	case m.InternalDifficulty == nil:
		return "stability without internal difficulty"
	case !isUsableStability(*m.Stability):
		return "stability not a positive finite number"
	case math.IsNaN(*m.InternalDifficulty) || math.IsInf(*m.InternalDifficulty, 0):
		return "internal difficulty not finite"
	}
	return ""
}

// deriveState classifies a reviewed card from its public history.
func deriveState(c card.Card) card.State {
	ivl := c.Memory.LastIntervalDays
	switch {
	case c.ReviewCount == 0:
		return card.StateNew
	case c.HasBeenWrong && ivl < RelearningInterval:
		return card.StateRelearning
	case ivl < LearningInterval:
		return card.StateLearning
	default:
		return card.StateReview
	}
}

// transition moves the learning state after a rating.
func transition(from card.State, r quality.Rating) card.State {
	switch from {
	case card.StateNew:
		if r == quality.Easy {
			return card.StateReview
		}
		return card.StateLearning
	case card.StateLearning, card.StateRelearning:
		if r >= quality.Good {
			return card.StateReview
		}
		return from
	default:
		if r == quality.Again {
			return card.StateRelearning
		}
		return card.StateReview
	}
}

func isUsableStability(s float64) bool {
	return s > 0 && !math.IsNaN(s) && !math.IsInf(s, 0)
}

func elapsedDays(from, to time.Time) float64 {
	return math.Max(to.Sub(from).Hours()/24, 0)
}
