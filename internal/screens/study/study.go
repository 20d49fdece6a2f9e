// Package study is the interactive review screen: it shows each card, reveals
// the back on request and records whether the learner knew it.
package study

import (
	"context"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/recall/internal/card"
	svc "github.com/abhisek/recall/internal/study"
	"github.com/abhisek/recall/internal/ui/components"
)

// Answerer schedules one answer. *study.Service implements it.
type Answerer interface {
	Answer(ctx context.Context, cardID string, known bool, responseTime time.Duration) (svc.Outcome, error)
}

type phase int

const (
	phaseQuestion phase = iota
	phaseAnswer
	phaseSaving
	phaseFeedback
	phaseDone
)

const (
	answerKnown   = "y"
	answerUnknown = "n"
)

// Model walks a fixed list of cards. It quits the program after the last
// card, on q/esc/ctrl+c, or when an answer cannot be stored.
type Model struct {
	ctx      context.Context
	answerer Answerer
	cards    []card.Card
	now      func() time.Time

	index        int
	phase        phase
	reveal       components.Button
	choice       components.Choice
	shownAt      time.Time
	responseTime time.Duration

	last      svc.Outcome
	lastKnown bool
	answered  int
	stopped   bool
	err       error

	keys  keyMap
	help  help.Model
	width int
}

// New creates the screen. now defaults to time.Now.
func New(ctx context.Context, answerer Answerer, cards []card.Card, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	m := Model{
		ctx:      ctx,
		answerer: answerer,
		cards:    cards,
		now:      now,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	if len(cards) == 0 {
		m.phase = phaseDone
		return m
	}
	m.showCard()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.phase == phaseDone {
		return tea.Quit
	}
	return nil
}

// Answered is the number of answers stored.
func (m Model) Answered() int { return m.answered }

// Stopped reports whether the learner quit before the last card.
func (m Model) Stopped() bool { return m.stopped }

// Err is the error that ended the screen, if any.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.SetWidth(msg.Width)
		return m, nil

	case revealMsg:
		return m.handleReveal()

	case answeredMsg:
		return m.handleAnswered(msg)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.phase == phaseSaving || m.phase == phaseDone {
		return m, nil
	}
	if key.Matches(msg, m.keys.Quit) {
		m.stopped = true
		m.phase = phaseDone
		return m, tea.Quit
	}

	switch m.phase {
	case phaseQuestion:
		var cmd tea.Cmd
		m.reveal, cmd = m.reveal.Update(msg)
		return m, cmd

	case phaseAnswer:
		m.choice, _ = m.choice.Update(msg)
		if !m.choice.Submitted {
			return m, nil
		}
		m.phase = phaseSaving
		return m, m.answerCmd(m.cards[m.index], m.choice.ChosenKey() == answerKnown, m.responseTime)

	case phaseFeedback:
		return m.next()
	}
	return m, nil
}

func (m Model) handleReveal() (tea.Model, tea.Cmd) {
	if m.phase != phaseQuestion {
		return m, nil
	}
	m.responseTime = m.now().Sub(m.shownAt)
	m.reveal.Active = false
	m.choice = components.NewChoice("Did you know it?", []components.ChoiceOption{
		{Key: answerKnown, Label: "I knew it"},
		{Key: answerUnknown, Label: "I didn't know it"},
	})
	m.phase = phaseAnswer
	return m, nil
}

func (m Model) handleAnswered(msg answeredMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.phase = phaseDone
		return m, tea.Quit
	}
	m.last = msg.Outcome
	m.lastKnown = msg.Known
	m.answered++
	m.phase = phaseFeedback
	return m, nil
}

func (m Model) next() (tea.Model, tea.Cmd) {
	m.index++
	if m.index >= len(m.cards) {
		m.phase = phaseDone
		return m, tea.Quit
	}
	m.showCard()
	return m, nil
}

func (m *Model) showCard() {
	m.phase = phaseQuestion
	m.shownAt = m.now()
	m.responseTime = 0
	m.reveal = components.NewButton("Reveal answer", true, func() tea.Cmd {
		return func() tea.Msg { return revealMsg{} }
	})
}

func (m Model) answerCmd(c card.Card, known bool, rt time.Duration) tea.Cmd {
	ctx, a := m.ctx, m.answerer
	return func() tea.Msg {
		out, err := a.Answer(ctx, c.ID, known, rt)
		return answeredMsg{Outcome: out, Known: known, Err: err}
	}
}
