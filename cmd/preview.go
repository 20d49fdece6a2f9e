package cmd

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/ui/theme"
)

var previewCmd = &cobra.Command{
	Use:   "preview <card-id>",
	Short: "Show what each answer would do to a card, without saving",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Service.Preview(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		t := theme.Table("Answer", "Grade", "Interval", "Next review")
		t.Row(theme.Correct.Render("known"), p.Known.QualityUsed.String(),
			fmt.Sprintf("%d d", p.Known.IntervalDays), p.Known.NextReviewAt.Local().Format(time.DateOnly))
		t.Row(theme.Incorrect.Render("unknown"), p.Unknown.QualityUsed.String(),
			fmt.Sprintf("%d d", p.Unknown.IntervalDays), p.Unknown.NextReviewAt.Local().Format(time.DateOnly))
		lipgloss.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}
