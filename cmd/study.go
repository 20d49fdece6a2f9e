package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/card"
	studyscreen "github.com/abhisek/recall/internal/screens/study"
	"github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/study"
	"github.com/abhisek/recall/internal/ui/components"
	"github.com/abhisek/recall/internal/ui/theme"
)

var studyCmd = &cobra.Command{
	Use:   "study [deck]",
	Short: "Run an interactive study session over due cards",
	Long: `Show each due card, reveal the answer and record whether you knew it.

Press q or Esc at any time to stop early. The session summary is printed at the end.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		deckID, err := deckArg(cmd, a, args)
		if err != nil {
			return err
		}
		due, err := a.Service.DueCards(ctx, deckID)
		if err != nil {
			return err
		}
		if limit > 0 && len(due) > limit {
			due = due[:limit]
		}
		if len(due) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing due. Come back later.")
			return nil
		}

		run := programRunner(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		sum, err := runStudy(ctx, a.Service, due, run, time.Now)
		if err != nil {
			return err
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), renderSummary(sum))
		return nil
	},
}

func init() {
	studyCmd.Flags().Int("limit", 0, "Study at most this many cards (0 = all due)")
}

// runner runs a model until it quits and returns the final model.
type runner func(tea.Model) (tea.Model, error)

func programRunner(ctx context.Context, in io.Reader, out io.Writer) runner {
	return func(m tea.Model) (tea.Model, error) {
		p := tea.NewProgram(m,
			tea.WithContext(ctx),
			tea.WithInput(in),
			tea.WithOutput(out),
		)
		return p.Run()
	}
}

// runStudy drives one session over cards. The session is finished even
// when the screen stops early or fails.
func runStudy(ctx context.Context, svc *study.Service, cards []card.Card, run runner, now func() time.Time) (sum session.Summary, err error) {
	if _, err := svc.Begin(ctx); err != nil {
		return session.Summary{}, err
	}
	defer func() {
		s, ferr := svc.Finish(context.WithoutCancel(ctx))
		sum = s
		if err == nil {
			err = ferr
		}
	}()

	final, err := run(studyscreen.New(ctx, svc, cards, now))
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return sum, nil
		}
		return sum, err
	}
	if m, ok := final.(studyscreen.Model); ok && m.Err() != nil {
		return sum, m.Err()
	}
	return sum, nil
}

func renderSummary(s session.Summary) string {
	const w = 18
	if s.CardsStudied == 0 {
		return theme.Hint.Render("No cards answered.")
	}
	lines := []string{
		theme.Title.Render("Session summary"),
		"",
		theme.KeyValue("Cards", w, fmt.Sprint(s.CardsStudied)),
		theme.KeyValue("Correct", w, theme.Correct.Render(fmt.Sprint(s.Correct))),
		theme.KeyValue("Incorrect", w, theme.Incorrect.Render(fmt.Sprint(s.Incorrect))),
		theme.KeyValue("Duration", w, fmt.Sprintf("%.1f min", s.DurationMinutes())),
		theme.KeyValue("Avg response", w, s.AverageResponseTime.Round(100*time.Millisecond).String()),
		theme.KeyValue("Efficiency", w, theme.EfficiencyStyle(s.Efficiency).Render(string(s.Efficiency))),
		"",
		components.NewProgressBar("Retention", s.RetentionRate/100, true, 44).View(),
	}
	for _, b := range session.Buckets() {
		if n := s.Buckets[b]; n > 0 {
			lines = append(lines, theme.KeyValue("  "+string(b), w, fmt.Sprint(n)))
		}
	}
	return theme.Card.Render(strings.Join(lines, "\n"))
}
