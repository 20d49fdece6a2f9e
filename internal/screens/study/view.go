package study

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	svc "github.com/abhisek/recall/internal/study"
	"github.com/abhisek/recall/internal/ui/components"
	"github.com/abhisek/recall/internal/ui/theme"
)

const progressWidth = 30

func (m Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m Model) render() string {
	if m.phase == phaseDone {
		if m.err != nil {
			return theme.Incorrect.Render("✗ "+m.err.Error()) + "\n"
		}
		return ""
	}

	c := m.cards[m.index]
	var b strings.Builder

	b.WriteString(theme.Title.Render(fmt.Sprintf("Card %d/%d", m.index+1, len(m.cards))))
	b.WriteString("  ")
	b.WriteString(components.NewProgressBar("", float64(m.index)/float64(len(m.cards)), false, progressWidth).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Question.Render(c.Front))
	b.WriteString("\n\n")

	switch m.phase {
	case phaseQuestion:
		b.WriteString(m.reveal.View())
	case phaseAnswer:
		b.WriteString(theme.Card.Render(c.Back))
		b.WriteString("\n\n")
		b.WriteString(m.choice.View())
	case phaseSaving:
		b.WriteString(theme.Card.Render(c.Back))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Saving…"))
	case phaseFeedback:
		b.WriteString(theme.Card.Render(c.Back))
		b.WriteString("\n\n")
		b.WriteString(RenderOutcome(m.last, m.lastKnown))
	}

	if h := m.keys.forPhase(m.phase); len(h) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.help.View(h))
	}
	b.WriteString("\n")
	return b.String()
}

// RenderOutcome is the one-line result of an answer.
func RenderOutcome(out svc.Outcome, known bool) string {
	verdict := theme.Correct.Render("✓ known")
	if !known {
		verdict = theme.Incorrect.Render("✗ unknown")
	}
	res := out.Result
	line := fmt.Sprintf("%s  %s %s  %s %s  %s %s",
		verdict,
		theme.Label.Render("grade"), theme.Value.Render(res.QualityUsed.String()),
		theme.Label.Render("next in"), theme.Value.Render(fmt.Sprintf("%d d", res.IntervalDays)),
		theme.Label.Render("difficulty"), theme.Value.Render(fmt.Sprintf("%.1f", out.Card.Difficulty)),
	)
	return line + "  " + theme.Hint.Render(res.NextReviewAt.Local().Format(time.DateOnly))
}
