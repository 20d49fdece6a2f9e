package queue

import (
	"testing"
	"time"

	"github.com/abhisek/recall/internal/card"
)

func TestStatusOf(t *testing.T) {
	fresh := card.New("deck", "f", "b", now)

	notDue := cardAt("n", now.Add(48*time.Hour))

	due := cardAt("d", now.Add(-24*time.Hour))
	due.Memory.LastIntervalDays = 4 // grace is 2 days

	lapsing := cardAt("l", now.Add(-3*24*time.Hour))
	lapsing.Memory.LastIntervalDays = 4

	tests := []struct {
		name string
		c    card.Card
		want Status
	}{
		{"new", fresh, StatusNew},
		{"not due", notDue, StatusNotDue},
		{"within grace", due, StatusDue},
		{"past grace", lapsing, StatusLapsing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.c, now); got != tt.want {
				t.Errorf("StatusOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		next time.Time
		want int
	}{
		{now.Add(-time.Hour), 0},
		{now, 0},
		{now.Add(time.Hour), 1},
		{now.Add(24 * time.Hour), 1},
		{now.Add(25 * time.Hour), 2},
	}
	for _, tt := range tests {
		if got := DaysUntil(cardAt("c", tt.next), now); got != tt.want {
			t.Errorf("DaysUntil(%v) = %d, want %d", tt.next.Sub(now), got, tt.want)
		}
	}
}
