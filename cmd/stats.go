package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/analytics"
	"github.com/abhisek/recall/internal/ui/components"
	"github.com/abhisek/recall/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats [deck]",
	Short: "Show learning statistics",
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
		s, err := a.Service.Stats(cmd.Context(), deckID)
		if err != nil {
			return err
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), renderStats(s))
		return nil
	},
}

func renderStats(s analytics.Stats) string {
	const w = 16
	lines := []string{
		theme.Title.Render("Statistics"),
		"",
		theme.KeyValue("Total", w, fmt.Sprint(s.Total)),
		theme.KeyValue("New", w, fmt.Sprint(s.New)),
		theme.KeyValue("Learning", w, fmt.Sprint(s.Learning)),
		theme.KeyValue("Relearning", w, fmt.Sprint(s.Relearning)),
		theme.KeyValue("Young", w, fmt.Sprint(s.Young)),
		theme.KeyValue("Mature", w, fmt.Sprint(s.Mature)),
		theme.KeyValue("Overdue", w, fmt.Sprint(s.Overdue)),
		theme.KeyValue("Avg interval", w, fmt.Sprintf("%.1f days", s.AvgInterval)),
		theme.KeyValue("Avg stability", w, fmt.Sprintf("%.1f days", s.AvgStability)),
		"",
		components.NewProgressBar("Retention", s.RetentionRate/100, true, 44).View(),
	}
	return theme.Card.Render(strings.Join(lines, "\n"))
}
