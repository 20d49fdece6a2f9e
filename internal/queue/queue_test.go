package queue

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/recall/internal/card"
)

var now = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func cardAt(id string, next time.Time) card.Card {
	c := card.New("deck", "f", "b", now.AddDate(0, -1, 0))
	c.ID = id
	c.ReviewCount = 1
	c.LastReviewedAt = c.CreatedAt
	c.NextReviewAt = next
	return c
}

func ids(cards []card.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestDue_TenOverdueMostOverdueFirst(t *testing.T) {
	var cards []card.Card
	// Insert in a scrambled order; card-k is k hours overdue.
	for _, k := range []int{3, 9, 1, 7, 5, 10, 2, 8, 4, 6} {
		cards = append(cards, cardAt(fmt.Sprintf("card-%02d", k), now.Add(-time.Duration(k)*time.Hour)))
	}

	got := ids(Prioritizer{}.Due(cards, now))
	want := []string{
		"card-10", "card-09", "card-08", "card-07", "card-06",
		"card-05", "card-04", "card-03", "card-02", "card-01",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Due() = %v, want %v", got, want)
	}
}

func TestDue_TiesBrokenByID(t *testing.T) {
	at := now.Add(-time.Hour)
	cards := []card.Card{cardAt("c", at), cardAt("a", at), cardAt("b", at)}

	got := ids(Prioritizer{Mode: ModeOverdue}.Due(cards, now))
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Due() = %v, want %v", got, want)
	}
}

func TestDue_FiltersNotDue(t *testing.T) {
	cards := []card.Card{
		cardAt("future", now.Add(time.Minute)),
		cardAt("exact", now),
		cardAt("past", now.Add(-time.Minute)),
	}
	got := ids(Prioritizer{}.Due(cards, now))
	want := []string{"past", "exact"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Due() = %v, want %v", got, want)
	}
}

func TestDue_Legacy(t *testing.T) {
	a := cardAt("a", now.Add(-10*time.Hour))
	a.Difficulty = 2
	b := cardAt("b", now.Add(-time.Hour))
	b.Difficulty = 6
	b.HasBeenWrong = true
	c := cardAt("c", now.Add(-5*time.Hour))
	c.Difficulty = 1
	d := cardAt("d", now.Add(-2*time.Hour))
	d.Difficulty = 1

	got := ids(Prioritizer{Mode: ModeLegacy}.Due([]card.Card{a, b, c, d}, now))
	want := []string{"b", "c", "d", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Due() = %v, want %v", got, want)
	}
}

func TestDue_Limit(t *testing.T) {
	var cards []card.Card
	for i := range 5 {
		cards = append(cards, cardAt(fmt.Sprint(i), now.Add(-time.Duration(i+1)*time.Hour)))
	}
	got := ids(Prioritizer{Limit: 2}.Due(cards, now))
	want := []string{"4", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Due() = %v, want %v", got, want)
	}
}

func TestDue_IdempotentAndPure(t *testing.T) {
	cards := []card.Card{
		cardAt("x", now.Add(-3*time.Hour)),
		cardAt("y", now.Add(-3*time.Hour)),
		cardAt("z", now.Add(-7*time.Hour)),
	}
	before := ids(cards)

	p := Prioritizer{}
	first := p.Due(cards, now)
	second := p.Due(cards, now)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Due() not idempotent: %v vs %v", ids(first), ids(second))
	}
	if !reflect.DeepEqual(ids(cards), before) {
		t.Errorf("input reordered: %v", ids(cards))
	}
}

func TestDue_Empty(t *testing.T) {
	if got := (Prioritizer{}).Due(nil, now); len(got) != 0 {
		t.Errorf("Due(nil) = %v, want empty", got)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("legacy"); err != nil || m != ModeLegacy {
		t.Errorf("ParseMode(legacy) = %q, %v", m, err)
	}
	if _, err := ParseMode("random"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
