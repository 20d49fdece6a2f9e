package queue

import (
	"math"
	"time"

	"github.com/abhisek/recall/internal/card"
)

// Status describes a card's review status for display.
type Status string

const (
	StatusNew    Status = "new"
	StatusNotDue Status = "not_due"
	StatusDue    Status = "due"
	// StatusLapsing marks a card past half its last interval beyond the due
	// date; recall is likely degrading.
	StatusLapsing Status = "lapsing"
)

// graceFraction of the last interval may pass after the due date before a
// card is reported as lapsing.
const graceFraction = 0.5

// StatusOf reports c's review status at now.
func StatusOf(c card.Card, now time.Time) Status {
	switch {
	case c.IsNew():
		return StatusNew
	case !c.IsDue(now):
		return StatusNotDue
	case isLapsing(c, now):
		return StatusLapsing
	default:
		return StatusDue
	}
}

func isLapsing(c card.Card, now time.Time) bool {
	interval := max(c.IntervalDays(), 1)
	graceHours := float64(interval) * graceFraction * 24.0
	threshold := c.NextReviewAt.Add(time.Duration(graceHours * float64(time.Hour)))
	return now.After(threshold)
}

// DaysUntil returns the whole days until c is due, rounded up. Returns 0 if
// already due.
func DaysUntil(c card.Card, now time.Time) int {
	if c.IsDue(now) {
		return 0
	}
	return int(math.Ceil(c.NextReviewAt.Sub(now).Hours() / 24.0))
}
