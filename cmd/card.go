package cmd

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/app"
	"github.com/abhisek/recall/internal/card"
	"github.com/abhisek/recall/internal/queue"
	"github.com/abhisek/recall/internal/ui/theme"
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Manage cards",
}

var cardAddCmd = &cobra.Command{
	Use:   "add <deck> <front> <back>",
	Short: "Add a card to a deck",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		d, err := a.Service.Deck(ctx, args[0])
		if err != nil {
			return err
		}
		c, err := a.Service.AddCard(ctx, d.ID, args[1], args[2])
		if err != nil {
			return err
		}
		lipgloss.Fprintln(cmd.OutOrStdout(),
			theme.Correct.Render("✓")+" Added card "+theme.Hint.Render(c.ID)+" to "+theme.Value.Render(d.Name))
		return nil
	},
}

var cardListCmd = &cobra.Command{
	Use:   "list [deck]",
	Short: "List cards, optionally limited to one deck",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		deckID, err := deckArg(cmd, a, args)
		if err != nil {
			return err
		}
		cards, err := a.Service.Cards(cmd.Context(), deckID)
		if err != nil {
			return err
		}
		if len(cards) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No cards found.")
			return nil
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), cardTable(cards, time.Now()).String())
		return nil
	},
}

var cardShowCmd = &cobra.Command{
	Use:   "show <card-id>",
	Short: "Show a card and its scheduling state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.Service.Card(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), renderCard(c, time.Now()))
		return nil
	},
}

func init() {
	cardCmd.AddCommand(cardAddCmd)
	cardCmd.AddCommand(cardListCmd)
	cardCmd.AddCommand(cardShowCmd)
}

// deckArg resolves an optional deck argument to its ID. No argument means
// every deck.
func deckArg(cmd *cobra.Command, a *app.App, args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	d, err := a.Service.Deck(cmd.Context(), args[0])
	if err != nil {
		return "", err
	}
	return d.ID, nil
}

func cardTable(cards []card.Card, now time.Time) fmt.Stringer {
	t := theme.Table("ID", "Front", "Status", "Difficulty", "Reviews", "Next review")
	for _, c := range cards {
		status := queue.StatusOf(c, now)
		t.Row(
			c.ID,
			truncate(c.Front, 32),
			theme.StatusStyle(status).Render(string(status)),
			fmt.Sprintf("%.1f", c.Difficulty),
			fmt.Sprint(c.ReviewCount),
			formatDue(c, now),
		)
	}
	return t
}

func renderCard(c card.Card, now time.Time) string {
	const w = 16
	status := queue.StatusOf(c, now)
	lines := []string{
		theme.Title.Render(c.Front),
		theme.Hint.Render(c.Back),
		"",
		theme.KeyValue("ID", w, c.ID),
		theme.KeyValue("Status", w, theme.StatusStyle(status).Render(string(status))),
		theme.KeyValue("Difficulty", w, fmt.Sprintf("%.2f / 10", c.Difficulty)),
		theme.KeyValue("Reviews", w, fmt.Sprint(c.ReviewCount)),
		theme.KeyValue("Interval", w, fmt.Sprintf("%d days", c.IntervalDays())),
		theme.KeyValue("Next review", w, formatDue(c, now)),
		theme.KeyValue("Repetitions", w, fmt.Sprint(c.Memory.Repetitions)),
	}
	if c.Memory.EaseFactor != nil {
		lines = append(lines, theme.KeyValue("Ease", w, fmt.Sprintf("%.2f", *c.Memory.EaseFactor)))
	}
	if c.Memory.Stability != nil {
		lines = append(lines,
			theme.KeyValue("Stability", w, fmt.Sprintf("%.2f days", *c.Memory.Stability)),
			theme.KeyValue("State", w, c.Memory.State.String()),
			theme.KeyValue("Lapses", w, fmt.Sprint(c.Memory.Lapses)),
		)
	}
	if c.HasBeenWrong {
		lines = append(lines, theme.Incorrect.Render("has been answered wrong"))
	}
	return theme.Card.Render(strings.Join(lines, "\n"))
}

func formatDue(c card.Card, now time.Time) string {
	if c.IsDue(now) {
		return "now"
	}
	days := queue.DaysUntil(c, now)
	return fmt.Sprintf("%s (in %d d)", c.NextReviewAt.Local().Format("2006-01-02"), days)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
