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

var predictCmd = &cobra.Command{
	Use:   "predict [deck]",
	Short: "Forecast review workload",
	Long: `Simulate future reviews to estimate workload and retention.

The forecast is advisory: it replays the stability model with seeded random
answers and is not a schedule.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		horizon, _ := cmd.Flags().GetInt("days")
		if horizon <= 0 {
			horizon = a.Config.Predict.HorizonDays
		}
		deckID, err := deckArg(cmd, a, args)
		if err != nil {
			return err
		}
		p, err := a.Service.Predict(cmd.Context(), deckID, horizon)
		if err != nil {
			return err
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), renderPrediction(p))
		return nil
	},
}

func init() {
	predictCmd.Flags().Int("days", 0, "Forecast horizon in days (default from config)")
}

func renderPrediction(p analytics.Prediction) string {
	const w = 18
	lines := []string{
		theme.Title.Render(fmt.Sprintf("Next %d days", p.HorizonDays)),
		"",
		theme.KeyValue("Reviews", w, fmt.Sprint(p.ExpectedReviews)),
		theme.KeyValue("Workload", w, fmt.Sprintf("%.0f min", p.ExpectedWorkloadMinutes)),
		"",
		components.NewProgressBar("Retention", p.RetentionPrediction/100, true, 44).View(),
	}
	if p.Truncated {
		lines = append(lines, theme.Hint.Render("simulation stopped early; figures are a lower bound"))
	}
	return theme.Card.Render(strings.Join(lines, "\n"))
}
