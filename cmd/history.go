package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/ui/theme"
)

var historyCmd = &cobra.Command{
	Use:   "history <card-id>",
	Short: "Show the review log of a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		reviews, err := a.Service.History(cmd.Context(), args[0], limit)
		if err != nil {
			return err
		}
		if len(reviews) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No reviews yet.")
			return nil
		}

		t := theme.Table("#", "When", "Strategy", "Answer", "Grade", "Rating", "Interval", "Difficulty", "Time")
		for _, r := range reviews {
			answer := theme.Correct.Render("known")
			if !r.Known {
				answer = theme.Incorrect.Render("unknown")
			}
			rating := "-"
			if r.Rating.IsValid() {
				rating = r.Rating.String()
			}
			t.Row(
				fmt.Sprint(r.Sequence),
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				r.Strategy,
				answer,
				r.Quality.String(),
				rating,
				fmt.Sprintf("%d d", r.IntervalDays),
				fmt.Sprintf("%.1f", r.Difficulty),
				fmt.Sprintf("%.1fs", float64(r.ResponseMs)/1000),
			)
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Show at most this many recent reviews (0 = all)")
}
