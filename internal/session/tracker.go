// Package session tracks per-study-session counters. It never reads or
// writes cards.
package session

import (
	"errors"
	"sync"
	"time"
)

// ErrNotActive is returned when an answer is recorded outside a session.
var ErrNotActive = errors.New("session: not active")

// Phase is the tracker's lifecycle state.
type Phase int

const (
	PhaseIdle   Phase = iota // No session running.
	PhaseActive              // Counting answers.
)

func (p Phase) String() string {
	if p == PhaseActive {
		return "active"
	}
	return "idle"
}

// Tracker accumulates counters for one session at a time. It is safe for
// concurrent use.
type Tracker struct {
	mu    sync.Mutex
	clock func() time.Time

	phase     Phase
	startedAt time.Time
	studied   int
	correct   int
	incorrect int
	timeSpent time.Duration
	buckets   map[Bucket]int
}

// NewTracker returns an idle tracker. A nil clock means time.Now.
func NewTracker(clock func() time.Time) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{clock: clock, buckets: make(map[Bucket]int)}
}

// Start begins a session, discarding any counters from a previous one.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.zero()
	t.phase = PhaseActive
	t.startedAt = t.clock()
}

// Phase reports the current lifecycle state.
func (t *Tracker) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// RecordAnswer counts one answer. responseTime of zero means not measured;
// negative values count as zero.
func (t *Tracker) RecordAnswer(known bool, responseTime time.Duration, bucket Bucket) error {
	if err := bucket.validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseActive {
		return ErrNotActive
	}

	t.studied++
	if known {
		t.correct++
	} else {
		t.incorrect++
	}
	t.timeSpent += max(responseTime, 0)
	t.buckets[bucket]++
	return nil
}

// Reset returns to the idle zero state.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.zero()
}

// Summary derives the current figures. It does not end the session.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary()
}

// Finish returns the summary and resets the tracker.
func (t *Tracker) Finish() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.summary()
	t.zero()
	return s
}

func (t *Tracker) zero() {
	t.phase = PhaseIdle
	t.startedAt = time.Time{}
	t.studied, t.correct, t.incorrect = 0, 0, 0
	t.timeSpent = 0
	t.buckets = make(map[Bucket]int)
}

func (t *Tracker) summary() Summary {
	s := Summary{
		Active:         t.phase == PhaseActive,
		StartedAt:      t.startedAt,
		CardsStudied:   t.studied,
		Correct:        t.correct,
		Incorrect:      t.incorrect,
		TotalTimeSpent: t.timeSpent,
		Buckets:        make(map[Bucket]int, len(t.buckets)),
	}
	for b, n := range t.buckets {
		s.Buckets[b] = n
	}
	if s.Active {
		s.Duration = t.clock().Sub(t.startedAt)
	}
	if t.studied > 0 {
		s.AverageResponseTime = t.timeSpent / time.Duration(t.studied)
		s.RetentionRate = 100 * float64(t.correct) / float64(t.studied)
	}
	s.Efficiency = EfficiencyFor(s.RetentionRate)
	return s
}
