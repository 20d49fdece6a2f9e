package session

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestTracker() (*Tracker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 2, 1, 18, 0, 0, 0, time.UTC)}
	return NewTracker(clock.Now), clock
}

func TestTracker_RecordWhileIdle(t *testing.T) {
	tr, _ := newTestTracker()
	err := tr.RecordAnswer(true, time.Second, BucketNew)
	if !errors.Is(err, ErrNotActive) {
		t.Fatalf("RecordAnswer() error = %v, want ErrNotActive", err)
	}
	if got := tr.Summary().CardsStudied; got != 0 {
		t.Errorf("CardsStudied = %d, want 0", got)
	}
}

func TestTracker_Counters(t *testing.T) {
	tr, clock := newTestTracker()
	tr.Start()
	if tr.Phase() != PhaseActive {
		t.Fatalf("Phase() = %v, want active", tr.Phase())
	}

	answers := []struct {
		known  bool
		rt     time.Duration
		bucket Bucket
	}{
		{true, 2 * time.Second, BucketNew},
		{true, 4 * time.Second, BucketHard},
		{false, 6 * time.Second, BucketHard},
		{true, 0, BucketEasy},
	}
	for _, a := range answers {
		if err := tr.RecordAnswer(a.known, a.rt, a.bucket); err != nil {
			t.Fatalf("RecordAnswer() error = %v", err)
		}
	}
	clock.Advance(90 * time.Second)

	s := tr.Summary()
	if s.CardsStudied != 4 || s.Correct != 3 || s.Incorrect != 1 {
		t.Errorf("counts = %d/%d/%d, want 4/3/1", s.CardsStudied, s.Correct, s.Incorrect)
	}
	if s.TotalTimeSpent != 12*time.Second {
		t.Errorf("TotalTimeSpent = %v, want 12s", s.TotalTimeSpent)
	}
	if s.AverageResponseTime != 3*time.Second {
		t.Errorf("AverageResponseTime = %v, want 3s", s.AverageResponseTime)
	}
	if s.RetentionRate != 75 {
		t.Errorf("RetentionRate = %f, want 75", s.RetentionRate)
	}
	if s.Efficiency != EfficiencyGood {
		t.Errorf("Efficiency = %q, want good", s.Efficiency)
	}
	if s.Buckets[BucketHard] != 2 || s.Buckets[BucketNew] != 1 || s.Buckets[BucketEasy] != 1 {
		t.Errorf("Buckets = %v", s.Buckets)
	}
	if s.DurationMinutes() != 1.5 {
		t.Errorf("DurationMinutes() = %f, want 1.5", s.DurationMinutes())
	}
}

func TestTracker_SummaryIsACopy(t *testing.T) {
	tr, _ := newTestTracker()
	tr.Start()
	_ = tr.RecordAnswer(true, time.Second, BucketMedium)

	s := tr.Summary()
	s.Buckets[BucketMedium] = 99
	if got := tr.Summary().Buckets[BucketMedium]; got != 1 {
		t.Errorf("tracker bucket mutated through summary: %d", got)
	}
}

func TestTracker_FinishResets(t *testing.T) {
	tr, _ := newTestTracker()
	tr.Start()
	_ = tr.RecordAnswer(false, time.Second, BucketNew)

	s := tr.Finish()
	if s.CardsStudied != 1 || !s.Active {
		t.Errorf("Finish() = %+v", s)
	}
	if tr.Phase() != PhaseIdle {
		t.Errorf("Phase() after Finish = %v, want idle", tr.Phase())
	}
	if got := tr.Summary(); got.CardsStudied != 0 || got.Active {
		t.Errorf("Summary() after Finish = %+v", got)
	}
	if err := tr.RecordAnswer(true, 0, BucketNew); !errors.Is(err, ErrNotActive) {
		t.Errorf("RecordAnswer() after Finish error = %v", err)
	}
}

func TestTracker_RestartZeroes(t *testing.T) {
	tr, _ := newTestTracker()
	tr.Start()
	_ = tr.RecordAnswer(true, time.Second, BucketNew)
	tr.Start()
	if got := tr.Summary().CardsStudied; got != 0 {
		t.Errorf("CardsStudied after restart = %d, want 0", got)
	}

	tr.Reset()
	if tr.Phase() != PhaseIdle {
		t.Errorf("Phase() after Reset = %v, want idle", tr.Phase())
	}
}

func TestTracker_InvalidBucket(t *testing.T) {
	tr, _ := newTestTracker()
	tr.Start()
	if err := tr.RecordAnswer(true, 0, Bucket("impossible")); err == nil {
		t.Error("expected error for unknown bucket")
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tr, _ := newTestTracker()
	tr.Start()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tr.RecordAnswer(i%2 == 0, time.Millisecond, BucketMedium)
		}()
	}
	wg.Wait()

	s := tr.Summary()
	if s.CardsStudied != 50 || s.Correct != 25 {
		t.Errorf("counts = %d/%d, want 50/25", s.CardsStudied, s.Correct)
	}
}

func TestEfficiencyFor(t *testing.T) {
	tests := []struct {
		rate float64
		want Efficiency
	}{
		{100, EfficiencyExcellent},
		{ExcellentThreshold, EfficiencyExcellent},
		{84.9, EfficiencyGood},
		{GoodThreshold, EfficiencyGood},
		{FairThreshold, EfficiencyFair},
		{49.9, EfficiencyPoor},
		{0, EfficiencyPoor},
	}
	for _, tt := range tests {
		if got := EfficiencyFor(tt.rate); got != tt.want {
			t.Errorf("EfficiencyFor(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		difficulty float64
		want       Bucket
	}{
		{0, BucketNew},
		{1.99, BucketNew},
		{2, BucketHard},
		{4.9, BucketHard},
		{5, BucketMedium},
		{7.9, BucketMedium},
		{8, BucketEasy},
		{10, BucketEasy},
	}
	for _, tt := range tests {
		if got := BucketFor(tt.difficulty); got != tt.want {
			t.Errorf("BucketFor(%v) = %q, want %q", tt.difficulty, got, tt.want)
		}
	}
}
