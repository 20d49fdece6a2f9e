// Package queue selects and orders the cards that are due for review.
package queue

import (
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/recall/internal/card"
)

// Mode is an ordering policy for due cards.
type Mode string

const (
	// ModeOverdue puts the most overdue card first.
	ModeOverdue Mode = "overdue"
	// ModeLegacy puts cards ever answered wrong first, then the lowest
	// difficulty.
	ModeLegacy Mode = "legacy"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeOverdue, ModeLegacy:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown queue mode: %q", s)
}

// Prioritizer filters a collection down to its due cards and orders them.
// The zero value orders most-overdue-first with no limit.
type Prioritizer struct {
	Mode Mode
	// Limit caps the result length. Zero means unlimited.
	Limit int
}

// Due returns the cards with NextReviewAt at or before now, ordered by the
// prioritizer's mode. Ties fall back to NextReviewAt ascending and then ID,
// so the order is total and repeated calls agree. The input is not modified.
func (p Prioritizer) Due(cards []card.Card, now time.Time) []card.Card {
	due := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		if c.IsDue(now) {
			due = append(due, c)
		}
	}

	less := p.lessFunc(now)
	sort.SliceStable(due, func(i, j int) bool {
		return less(due[i], due[j])
	})

	if p.Limit > 0 && len(due) > p.Limit {
		due = due[:p.Limit]
	}
	return due
}

func (p Prioritizer) lessFunc(now time.Time) func(a, b card.Card) bool {
	switch p.Mode {
	case ModeLegacy:
		return func(a, b card.Card) bool {
			if a.HasBeenWrong != b.HasBeenWrong {
				return a.HasBeenWrong
			}
			if a.Difficulty != b.Difficulty {
				return a.Difficulty < b.Difficulty
			}
			return tiebreak(a, b)
		}
	default:
		return func(a, b card.Card) bool {
			ao, bo := a.Overdue(now), b.Overdue(now)
			if ao != bo {
				return ao > bo
			}
			return tiebreak(a, b)
		}
	}
}

func tiebreak(a, b card.Card) bool {
	if !a.NextReviewAt.Equal(b.NextReviewAt) {
		return a.NextReviewAt.Before(b.NextReviewAt)
	}
	return a.ID < b.ID
}
