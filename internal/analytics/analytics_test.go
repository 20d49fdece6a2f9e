package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/recall/internal/card"
)

var now = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func reviewedCard(interval int, next time.Time) card.Card {
	c := card.New("deck", "f", "b", now.AddDate(0, -2, 0))
	c.ReviewCount = 3
	c.LastReviewedAt = now.AddDate(0, 0, -interval)
	c.NextReviewAt = next
	c.Memory.LastIntervalDays = interval
	return c
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, now)
	assert.Equal(t, Stats{}, s)
	assert.Equal(t, 0.0, s.RetentionRate)
}

func TestClassify(t *testing.T) {
	later := now.AddDate(0, 0, 1)
	wrongShort := reviewedCard(3, later)
	wrongShort.HasBeenWrong = true
	wrongLong := reviewedCard(10, later)
	wrongLong.HasBeenWrong = true

	tests := []struct {
		name string
		c    card.Card
		want Class
	}{
		{"new", card.New("deck", "f", "b", now), ClassNew},
		{"overdue beats relearning", func() card.Card {
			c := wrongShort
			c.NextReviewAt = now.Add(-time.Minute)
			return c
		}(), ClassOverdue},
		{"relearning", wrongShort, ClassRelearning},
		{"learning", reviewedCard(3, later), ClassLearning},
		{"young", reviewedCard(10, later), ClassYoung},
		{"young after lapse", wrongLong, ClassYoung},
		{"mature", reviewedCard(21, later), ClassMature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.c, now))
		})
	}
}

func TestCompute(t *testing.T) {
	later := now.AddDate(0, 0, 2)
	a := reviewedCard(2, later)
	a.Difficulty = 7
	b := reviewedCard(10, later)
	b.Difficulty = 5
	c := reviewedCard(40, later)
	c.Difficulty = 6
	stab := 12.0
	c.Memory.Stability = &stab
	d := reviewedCard(4, now.Add(-time.Hour))
	d.Difficulty = 2

	s := Compute([]card.Card{a, b, c, d, card.New("deck", "f", "b", now)}, now)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 1, s.New)
	assert.Equal(t, 1, s.Learning)
	assert.Equal(t, 1, s.Young)
	assert.Equal(t, 1, s.Mature)
	assert.Equal(t, 1, s.Overdue)
	assert.Equal(t, 0, s.Relearning)
	assert.InDelta(t, 50.0, s.RetentionRate, 1e-9)
	assert.InDelta(t, 14.0, s.AvgInterval, 1e-9)
	assert.InDelta(t, 12.0, s.AvgStability, 1e-9)
}

func newPredictor(t *testing.T, cfg PredictConfig) *Predictor {
	t.Helper()
	p, err := NewPredictor(cfg)
	require.NoError(t, err)
	return p
}

func TestPredict_EmptyAndZeroHorizon(t *testing.T) {
	p := newPredictor(t, PredictConfig{})
	assert.Equal(t, Prediction{HorizonDays: 30}, p.Predict(nil, now, 30))

	got := p.Predict([]card.Card{card.New("deck", "f", "b", now)}, now, 0)
	assert.Equal(t, Prediction{}, got)
}

func TestPredict_Deterministic(t *testing.T) {
	p := newPredictor(t, PredictConfig{Seed: 42})
	var cards []card.Card
	for range 20 {
		cards = append(cards, card.New("deck", "f", "b", now))
	}

	first := p.Predict(cards, now, 90)
	second := p.Predict(cards, now, 90)
	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first.ExpectedReviews, len(cards))
	assert.Greater(t, first.ExpectedWorkloadMinutes, 0.0)
	assert.Greater(t, first.RetentionPrediction, 0.0)
	assert.LessOrEqual(t, first.RetentionPrediction, 100.0)
	assert.False(t, first.Truncated)
}

func TestPredict_NothingDueInHorizon(t *testing.T) {
	p := newPredictor(t, PredictConfig{})

	stab, diff := 10.0, 5.0
	c := reviewedCard(30, now.AddDate(0, 0, 100))
	c.LastReviewedAt = now
	c.Memory.Stability = &stab
	c.Memory.InternalDifficulty = &diff

	got := p.Predict([]card.Card{c}, now, 10)
	assert.Equal(t, 0, got.ExpectedReviews)
	assert.Equal(t, 0.0, got.ExpectedWorkloadMinutes)
	assert.InDelta(t, 90.0, got.RetentionPrediction, 1e-6)
}

func TestPredict_FallsBackToSuccessProbability(t *testing.T) {
	p := newPredictor(t, PredictConfig{})
	c := reviewedCard(30, now.AddDate(0, 0, 100))
	c.Difficulty = 8

	got := p.Predict([]card.Card{c}, now, 10)
	assert.InDelta(t, 80.0, got.RetentionPrediction, 1e-9)
}

func TestPredict_IterationCap(t *testing.T) {
	p := newPredictor(t, PredictConfig{MaxStepsPerCard: 1})
	c := card.New("deck", "f", "b", now)
	c.Difficulty = 4

	got := p.Predict([]card.Card{c}, now, 365)
	assert.True(t, got.Truncated)
	assert.Equal(t, 1, got.ExpectedReviews)
	assert.InDelta(t, (6.0+1.5*6)/60, got.ExpectedWorkloadMinutes, 1e-9)
}

func TestSuccessProbability(t *testing.T) {
	c := card.New("deck", "f", "b", now)
	assert.Equal(t, 0.5, SuccessProbability(c))
	c.Difficulty = 9
	assert.InDelta(t, 0.9, SuccessProbability(c), 1e-9)
	c.Difficulty = 42
	assert.Equal(t, 1.0, SuccessProbability(c))
}
