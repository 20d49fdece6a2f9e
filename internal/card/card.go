// Package card holds the learnable unit and its scheduling invariants.
package card

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/recall/internal/quality"
)

// Public difficulty bounds.
const (
	MinDifficulty = 0.0
	MaxDifficulty = 10.0
)

// Card is one learnable unit together with its review history summary.
// Cards are values: schedulers return a new Card rather than mutating one.
type Card struct {
	ID        string    `json:"id"`
	DeckID    string    `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`

	// Difficulty is the public 0-10 mastery score; 10 is fully mastered.
	Difficulty        float64   `json:"difficulty"`
	ReviewCount       int       `json:"review_count"`
	LastReviewedAt    time.Time `json:"last_reviewed_at"`
	NextReviewAt      time.Time `json:"next_review_at"`
	HasBeenWrong      bool      `json:"has_been_wrong"`
	WasWrongInSession bool      `json:"was_wrong_in_session"`

	Memory Memory `json:"memory"`
}

// Memory is the scheduler-specific state. Each scheduler reads the fields
// it owns and carries the rest through untouched.
type Memory struct {
	// Ease-factor model.
	EaseFactor *float64 `json:"ease_factor,omitempty"`

	// Stability model.
	Stability          *float64 `json:"stability,omitempty"`
	InternalDifficulty *float64 `json:"internal_difficulty,omitempty"`
	Lapses             int      `json:"lapses"`
	State              State    `json:"state"`

	Repetitions        int              `json:"repetitions"`
	LastIntervalDays   int              `json:"last_interval_days"`
	LastQuality        *quality.Quality `json:"last_quality,omitempty"`
	LastResponseTimeMs int64            `json:"last_response_time_ms"`
}

// New creates a card that is due immediately.
func New(deckID, front, back string, now time.Time) Card {
	return Card{
		ID:             uuid.New().String(),
		DeckID:         deckID,
		Front:          front,
		Back:           back,
		CreatedAt:      now,
		LastReviewedAt: now,
		NextReviewAt:   now,
	}
}

// Reset returns c with all progress cleared. Identity and content are kept;
// the card becomes due at now.
func Reset(c Card, now time.Time) Card {
	out := Card{
		ID:             c.ID,
		DeckID:         c.DeckID,
		Front:          c.Front,
		Back:           c.Back,
		CreatedAt:      c.CreatedAt,
		LastReviewedAt: c.CreatedAt,
		NextReviewAt:   now,
	}
	if out.NextReviewAt.Before(out.LastReviewedAt) {
		out.NextReviewAt = out.LastReviewedAt
	}
	return out
}

// ClearSessionFlag returns c with WasWrongInSession cleared.
func ClearSessionFlag(c Card) Card {
	c.WasWrongInSession = false
	return c
}

// Normalize repairs out-of-range numeric state left by migrations or
// external edits. It never fails.
func Normalize(c Card) Card {
	c.Difficulty = ClampDifficulty(c.Difficulty)
	if c.ReviewCount < 0 {
		c.ReviewCount = 0
	}
	if c.Memory.Repetitions < 0 {
		c.Memory.Repetitions = 0
	}
	if c.Memory.Lapses < 0 {
		c.Memory.Lapses = 0
	}
	if c.Memory.LastIntervalDays < 0 {
		c.Memory.LastIntervalDays = 0
	}
	if c.LastReviewedAt.IsZero() {
		c.LastReviewedAt = c.CreatedAt
	}
	if c.NextReviewAt.Before(c.LastReviewedAt) {
		c.NextReviewAt = c.LastReviewedAt
	}
	if c.Memory.EaseFactor != nil && !isFinite(*c.Memory.EaseFactor) {
		c.Memory.EaseFactor = nil
	}
	return c
}

// ClampDifficulty bounds d to the public difficulty range. NaN becomes 0.
func ClampDifficulty(d float64) float64 {
	if math.IsNaN(d) {
		return MinDifficulty
	}
	return math.Min(math.Max(d, MinDifficulty), MaxDifficulty)
}

// IsNew reports whether the card has never been answered.
func (c Card) IsNew() bool {
	return c.ReviewCount == 0
}

// IsDue reports whether the card may be reviewed at now.
func (c Card) IsDue(now time.Time) bool {
	return !now.Before(c.NextReviewAt)
}

// IsOverdue reports whether the due time has strictly passed.
func (c Card) IsOverdue(now time.Time) bool {
	return c.NextReviewAt.Before(now)
}

// Overdue returns how long past due the card is, or 0 if not yet due.
func (c Card) Overdue(now time.Time) time.Duration {
	if now.Before(c.NextReviewAt) {
		return 0
	}
	return now.Sub(c.NextReviewAt)
}

// OverdueDays returns Overdue in fractional days.
func (c Card) OverdueDays(now time.Time) float64 {
	return c.Overdue(now).Hours() / 24.0
}

// IntervalDays is the last scheduled interval.
func (c Card) IntervalDays() int {
	return c.Memory.LastIntervalDays
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
