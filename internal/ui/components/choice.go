package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/recall/internal/ui/theme"
)

// ChoiceOption is one answer in a Choice. Key selects and submits it
// directly.
type ChoiceOption struct {
	Key   string
	Label string
}

// Choice is a vertical single-answer selector.
type Choice struct {
	Prompt    string
	Options   []ChoiceOption
	Selected  int
	Submitted bool
	Chosen    int
}

// NewChoice creates a choice with the first option highlighted.
func NewChoice(prompt string, options []ChoiceOption) Choice {
	return Choice{
		Prompt:  prompt,
		Options: options,
		Chosen:  -1,
	}
}

// Update handles arrow/vim navigation, Enter and option shortcuts. It is a
// no-op once an option has been submitted.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if c.Submitted {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	switch k := kmsg.String(); k {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		c.submit(c.Selected)
	default:
		for i, opt := range c.Options {
			if strings.EqualFold(k, opt.Key) {
				c.submit(i)
				break
			}
		}
	}

	return c, nil
}

func (c *Choice) submit(i int) {
	if i < 0 || i >= len(c.Options) {
		return
	}
	c.Selected = i
	c.Chosen = i
	c.Submitted = true
}

// ChosenKey returns the key of the submitted option, or "".
func (c Choice) ChosenKey() string {
	if !c.Submitted {
		return ""
	}
	return c.Options[c.Chosen].Key
}

// View renders the prompt and options.
func (c Choice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Prompt))
	b.WriteString("\n\n")

	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s[%s]  %s", prefix, opt.Key, opt.Label)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case c.Submitted && i == c.Chosen:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		case c.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
