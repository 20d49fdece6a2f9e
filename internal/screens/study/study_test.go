package study

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/recall/internal/card"
	svc "github.com/abhisek/recall/internal/study"
)

type answer struct {
	cardID string
	known  bool
	rt     time.Duration
}

type mockAnswerer struct {
	answers []answer
	err     error
}

func (m *mockAnswerer) Answer(_ context.Context, cardID string, known bool, rt time.Duration) (svc.Outcome, error) {
	if m.err != nil {
		return svc.Outcome{}, m.err
	}
	m.answers = append(m.answers, answer{cardID, known, rt})
	return svc.Outcome{Card: card.Card{ID: cardID}}, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testCards() []card.Card {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return []card.Card{
		card.New("d", "hola", "hello", now),
		card.New("d", "perro", "dog", now),
	}
}

func steppingClock(step time.Duration) func() time.Time {
	t := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

// send delivers msg and runs the resulting command chain, returning the
// model and whether it asked to quit.
func send(t *testing.T, m Model, msg tea.Msg) (Model, bool) {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for cmd != nil {
		out := cmd()
		if _, ok := out.(tea.QuitMsg); ok {
			return m, true
		}
		next, cmd = m.Update(out)
		m = next.(Model)
	}
	return m, false
}

func TestStudy_RevealAndAnswer(t *testing.T) {
	ans := &mockAnswerer{}
	cards := testCards()
	m := New(context.Background(), ans, cards, steppingClock(3*time.Second))

	if m.phase != phaseQuestion {
		t.Fatalf("phase = %v, want question", m.phase)
	}
	if v := m.render(); !strings.Contains(v, "hola") || strings.Contains(v, "hello") {
		t.Errorf("question view should show only the front:\n%s", v)
	}

	m, _ = send(t, m, specialKey(tea.KeyEnter))
	if m.phase != phaseAnswer {
		t.Fatalf("phase after reveal = %v, want answer", m.phase)
	}
	if v := m.render(); !strings.Contains(v, "hello") || !strings.Contains(v, "Did you know it?") {
		t.Errorf("answer view missing back or prompt:\n%s", v)
	}

	m, _ = send(t, m, keyPress('y'))
	if m.phase != phaseFeedback {
		t.Fatalf("phase after answer = %v, want feedback", m.phase)
	}
	if len(ans.answers) != 1 {
		t.Fatalf("answers = %d, want 1", len(ans.answers))
	}
	got := ans.answers[0]
	if got.cardID != cards[0].ID || !got.known || got.rt != 3*time.Second {
		t.Errorf("answer = %+v", got)
	}
	if !strings.Contains(m.render(), "known") {
		t.Error("feedback view missing verdict")
	}

	m, quit := send(t, m, keyPress(' '))
	if quit || m.phase != phaseQuestion || m.index != 1 {
		t.Fatalf("expected second card, got phase %v index %d quit %v", m.phase, m.index, quit)
	}
}

func TestStudy_ChoiceNavigation(t *testing.T) {
	ans := &mockAnswerer{}
	m := New(context.Background(), ans, testCards()[:1], nil)

	m, _ = send(t, m, specialKey(tea.KeyEnter))
	m, _ = send(t, m, specialKey(tea.KeyDown))
	m, _ = send(t, m, specialKey(tea.KeyEnter))

	if len(ans.answers) != 1 || ans.answers[0].known {
		t.Fatalf("answers = %+v, want one unknown", ans.answers)
	}

	_, quit := send(t, m, specialKey(tea.KeyEnter))
	if !quit {
		t.Error("expected quit after the last card")
	}
}

func TestStudy_QuitEarly(t *testing.T) {
	ans := &mockAnswerer{}
	m := New(context.Background(), ans, testCards(), nil)

	m, quit := send(t, m, keyPress('q'))
	if !quit {
		t.Fatal("expected quit")
	}
	if !m.Stopped() || m.Answered() != 0 {
		t.Errorf("stopped = %v answered = %d", m.Stopped(), m.Answered())
	}
	if len(ans.answers) != 0 {
		t.Errorf("no answer should be recorded, got %d", len(ans.answers))
	}
}

func TestStudy_KeysIgnoredWhileSaving(t *testing.T) {
	ans := &mockAnswerer{}
	m := New(context.Background(), ans, testCards(), nil)
	m, _ = send(t, m, specialKey(tea.KeyEnter))

	next, cmd := m.Update(keyPress('y'))
	m = next.(Model)
	if m.phase != phaseSaving || cmd == nil {
		t.Fatalf("phase = %v, want saving with a pending command", m.phase)
	}
	next, extra := m.Update(keyPress('q'))
	m = next.(Model)
	if extra != nil || m.phase != phaseSaving {
		t.Errorf("key during save changed state: phase %v", m.phase)
	}

	m, _ = send(t, m, cmd())
	if m.Answered() != 1 || m.phase != phaseFeedback {
		t.Errorf("answered = %d phase = %v", m.Answered(), m.phase)
	}
}

func TestStudy_AnswerError(t *testing.T) {
	ans := &mockAnswerer{err: errors.New("disk full")}
	m := New(context.Background(), ans, testCards(), nil)
	m, _ = send(t, m, specialKey(tea.KeyEnter))

	m, quit := send(t, m, keyPress('n'))
	if !quit {
		t.Fatal("expected quit on error")
	}
	if m.Err() == nil || m.Answered() != 0 {
		t.Errorf("err = %v answered = %d", m.Err(), m.Answered())
	}
	if !strings.Contains(m.render(), "disk full") {
		t.Error("error not rendered")
	}
}

func TestStudy_NoCards(t *testing.T) {
	m := New(context.Background(), &mockAnswerer{}, nil, nil)
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}
