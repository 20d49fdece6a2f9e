// Package analytics aggregates card collections into counts and rates and
// forward-simulates the review load they will generate.
package analytics

import (
	"math"
	"time"

	"github.com/abhisek/recall/internal/card"
)

// Class is the mutually exclusive bucket a card is counted in.
type Class string

const (
	ClassNew        Class = "new"
	ClassOverdue    Class = "overdue"
	ClassRelearning Class = "relearning"
	ClassLearning   Class = "learning"
	ClassYoung      Class = "young"
	ClassMature     Class = "mature"
)

// Interval thresholds in days.
const (
	LearningMaxInterval = 7
	YoungMaxInterval    = 21
)

// RetainedDifficulty is the public difficulty at or above which a reviewed
// card counts as retained.
const RetainedDifficulty = 6.0

// Classify buckets c at now. The checks run in a fixed precedence so a card
// lands in exactly one class.
func Classify(c card.Card, now time.Time) Class {
	ivl := c.IntervalDays()
	switch {
	case c.ReviewCount == 0:
		return ClassNew
	case c.NextReviewAt.Before(now):
		return ClassOverdue
	case c.HasBeenWrong && ivl < LearningMaxInterval:
		return ClassRelearning
	case ivl < LearningMaxInterval:
		return ClassLearning
	case ivl < YoungMaxInterval:
		return ClassYoung
	default:
		return ClassMature
	}
}

// Stats is a snapshot of a card collection.
type Stats struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	Learning   int `json:"learning"`
	Young      int `json:"young"`
	Mature     int `json:"mature"`
	Relearning int `json:"relearning"`
	Overdue    int `json:"overdue"`

	// AvgInterval is the mean last interval of reviewed cards, in days.
	AvgInterval float64 `json:"avg_interval"`
	// AvgStability is the mean stability over cards that carry one.
	AvgStability float64 `json:"avg_stability"`
	// RetentionRate is the percentage of reviewed cards whose difficulty is
	// at least RetainedDifficulty.
	RetentionRate float64 `json:"retention_rate"`
}

// Compute aggregates cards at now. Empty input yields a zero Stats.
func Compute(cards []card.Card, now time.Time) Stats {
	var (
		s                         Stats
		reviewed, retained        int
		intervalSum, stabilitySum float64
		withStability             int
	)
	for _, c := range cards {
		c = card.Normalize(c)
		s.Total++
		switch Classify(c, now) {
		case ClassNew:
			s.New++
		case ClassOverdue:
			s.Overdue++
		case ClassRelearning:
			s.Relearning++
		case ClassLearning:
			s.Learning++
		case ClassYoung:
			s.Young++
		case ClassMature:
			s.Mature++
		}

		if c.ReviewCount > 0 {
			reviewed++
			intervalSum += float64(c.IntervalDays())
			if c.Difficulty >= RetainedDifficulty {
				retained++
			}
		}
		if st := c.Memory.Stability; st != nil && *st > 0 && !math.IsInf(*st, 0) {
			withStability++
			stabilitySum += *st
		}
	}

	if reviewed > 0 {
		s.AvgInterval = intervalSum / float64(reviewed)
		s.RetentionRate = 100 * float64(retained) / float64(reviewed)
	}
	if withStability > 0 {
		s.AvgStability = stabilitySum / float64(withStability)
	}
	return s
}
