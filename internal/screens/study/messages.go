package study

import (
	svc "github.com/abhisek/recall/internal/study"
)

// revealMsg is sent when the learner asks to see the back of the card.
type revealMsg struct{}

// answeredMsg is sent once an answer has been scheduled and stored.
type answeredMsg struct {
	Outcome svc.Outcome
	Known   bool
	Err     error
}
