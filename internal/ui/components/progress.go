// Package components holds small reusable terminal widgets.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/recall/internal/ui/theme"
)

// Bar glyphs.
const (
	filledGlyph = "█"
	emptyGlyph  = "░"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64 // 0-1
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += theme.Label.Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := p.filled(barWidth)
	result += theme.ProgressFilled.Render(strings.Repeat(filledGlyph, filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(emptyGlyph, barWidth-filled))

	if p.ShowPercent {
		result += theme.Label.Render(fmt.Sprintf("  %d%%", int(p.clamped()*100)))
	}

	return result
}

func (p ProgressBar) clamped() float64 {
	return min(max(p.Percent, 0), 1)
}

func (p ProgressBar) filled(width int) int {
	return int(float64(width) * p.clamped())
}
