package scheduler

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/recall/internal/card"
	"github.com/abhisek/recall/internal/quality"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// fixedRand always returns v.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func ptr[T any](v T) *T { return &v }

// graduated returns a card that has passed the two initial steps.
func graduated(ease float64, lastInterval int, due time.Time) card.Card {
	c := card.New("deck", "f", "b", t0.AddDate(0, 0, -30))
	c.ReviewCount = 2
	c.Difficulty = 5
	c.LastReviewedAt = due.AddDate(0, 0, -lastInterval)
	c.NextReviewAt = due
	c.Memory = card.Memory{
		EaseFactor:       ptr(ease),
		Repetitions:      2,
		LastIntervalDays: lastInterval,
	}
	return c
}

func TestEase_NewCardKnown(t *testing.T) {
	s := NewEaseScheduler(Config{})
	c := card.New("deck", "f", "b", t0)

	next, res := Answer(s, c, true, 0, t0)
	assert.Equal(t, 1, res.IntervalDays)
	assert.Equal(t, 1, next.Memory.Repetitions)
	assert.Equal(t, 1, next.ReviewCount)
	assert.True(t, next.NextReviewAt.Equal(t0.AddDate(0, 0, 1)))
	assert.Equal(t, StrategyEase, res.Strategy)
	assert.False(t, res.QualityUsed.IsFailure())

	second, res2 := Answer(s, next, true, 0, next.NextReviewAt)
	assert.Equal(t, 6, res2.IntervalDays)
	assert.Equal(t, 2, second.Memory.Repetitions)
	assert.Equal(t, 2, second.ReviewCount)
}

func TestEase_MatureCardForgotten(t *testing.T) {
	s := NewEaseScheduler(Config{})
	c := graduated(2.5, 34, t0)
	c.Difficulty = 8
	c.Memory.Repetitions = 6
	c.ReviewCount = 9

	next, res := Answer(s, c, false, 0, t0)
	assert.Equal(t, 6.0, next.Difficulty)
	assert.Equal(t, 1, res.IntervalDays)
	assert.Equal(t, 0, next.Memory.Repetitions)
	assert.True(t, next.HasBeenWrong)
	assert.True(t, next.WasWrongInSession)
	assert.Equal(t, quality.Again, res.Rating)
	assert.Less(t, *next.Memory.EaseFactor, 2.5)
}

func TestEase_GraduatedInterval(t *testing.T) {
	s := NewEaseScheduler(Config{})

	next, res := s.Schedule(graduated(2.5, 6, t0), quality.Adequate, t0)
	assert.Equal(t, 15, res.IntervalDays) // 6 * 2.53 * 1.0
	assert.Equal(t, 3, next.Memory.Repetitions)
	assert.InDelta(t, 2.53, *next.Memory.EaseFactor, 1e-9)
}

func TestEase_LateReviewBonus(t *testing.T) {
	s := NewEaseScheduler(Config{})
	c := graduated(2.5, 6, t0.AddDate(0, 0, -3))

	next, res := s.Schedule(c, quality.Adequate, t0)
	assert.Equal(t, 16, res.IntervalDays) // 15.18 * (1 + 0.15*0.5)
	assert.InDelta(t, 2.555, *next.Memory.EaseFactor, 1e-9)
}

func TestEase_LateBonusOnlyOnSuccess(t *testing.T) {
	s := NewEaseScheduler(Config{})
	c := graduated(2.5, 6, t0.AddDate(0, 0, -3))

	next, res := s.Schedule(c, quality.Wrong, t0)
	assert.Equal(t, 1, res.IntervalDays)
	assert.InDelta(t, 2.3, *next.Memory.EaseFactor, 1e-9)
}

func TestEase_EaseBounds(t *testing.T) {
	s := NewEaseScheduler(Config{})

	c := card.New("deck", "f", "b", t0)
	now := t0
	for range 20 {
		c, _ = s.Schedule(c, quality.Blackout, now)
		now = c.NextReviewAt
	}
	assert.Equal(t, DefaultMinEase, *c.Memory.EaseFactor)

	for range 20 {
		c, _ = s.Schedule(c, quality.Perfect, now)
		now = c.NextReviewAt
	}
	assert.Equal(t, DefaultMaxEase, *c.Memory.EaseFactor)
}

func TestEase_MaxInterval(t *testing.T) {
	s := NewEaseScheduler(Config{MaxInterval: 30})
	_, res := s.Schedule(graduated(3.0, 100, t0), quality.Perfect, t0)
	assert.Equal(t, 30, res.IntervalDays)
}

func TestEase_Fuzz(t *testing.T) {
	tests := []struct {
		name string
		rand RandSource
		want int
	}{
		{"disabled", nil, 15},
		{"lowest", fixedRand(0), 14},
		{"centre", fixedRand(0.5), 15},
		{"highest", fixedRand(0.9999), 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewEaseScheduler(Config{Rand: tt.rand})
			next, res := s.Schedule(graduated(2.5, 6, t0), quality.Adequate, t0)
			assert.Equal(t, tt.want, res.IntervalDays)
			assert.True(t, next.NextReviewAt.Equal(t0.AddDate(0, 0, tt.want)))
		})
	}
}

func TestEase_RepairsInvalidState(t *testing.T) {
	s := NewEaseScheduler(Config{})
	c := graduated(math.NaN(), -3, t0)
	c.Difficulty = -5
	c.ReviewCount = -2

	next, res := s.Schedule(c, quality.Solid, t0)
	assert.GreaterOrEqual(t, res.IntervalDays, 1)
	assert.Equal(t, 1, next.ReviewCount)
	assert.GreaterOrEqual(t, next.Difficulty, 0.0)
	assert.LessOrEqual(t, next.Difficulty, 10.0)
	require.NotNil(t, next.Memory.EaseFactor)
	assert.False(t, math.IsNaN(*next.Memory.EaseFactor))
}

func TestEase_DifficultyBlend(t *testing.T) {
	s := NewEaseScheduler(Config{})
	c := card.New("deck", "f", "b", t0)

	next, _ := s.Schedule(c, quality.Effortful, t0)
	// 10 * (0.5*1/8 + 0.3*(2.52-1.3)/1.7 + 0.2*5/10)
	assert.InDelta(t, 3.7779, next.Difficulty, 1e-3)
}

// Properties checked over a long random walk for both strategies.
func TestScheduler_Invariants(t *testing.T) {
	fsrs, err := NewStabilityScheduler(Config{})
	require.NoError(t, err)
	schedulers := []Scheduler{NewEaseScheduler(Config{}), fsrs}

	for _, s := range schedulers {
		t.Run(string(s.Strategy()), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(7, 11))
			c := card.New("deck", "f", "b", t0)
			now := t0
			for i := range 500 {
				q := quality.Quality(rng.IntN(quality.NumQualities))
				next, res := s.Schedule(c, q, now)

				assert.Equal(t, c.ReviewCount+1, next.ReviewCount, "step %d", i)
				assert.True(t, next.NextReviewAt.After(next.LastReviewedAt), "step %d", i)
				assert.GreaterOrEqual(t, res.IntervalDays, 1)
				assert.LessOrEqual(t, res.IntervalDays, DefaultMaxInterval)
				assert.Equal(t, q, res.QualityUsed)
				if q.IsFailure() {
					assert.LessOrEqual(t, next.Difficulty, c.Difficulty, "step %d", i)
					assert.True(t, next.HasBeenWrong)
				} else {
					assert.GreaterOrEqual(t, next.Difficulty, c.Difficulty, "step %d", i)
				}
				if c.HasBeenWrong {
					assert.True(t, next.HasBeenWrong)
				}

				c = next
				now = now.Add(time.Duration(rng.IntN(40*24)) * time.Hour)
			}
		})
	}
}
