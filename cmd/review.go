package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	studyscreen "github.com/abhisek/recall/internal/screens/study"
)

var reviewCmd = &cobra.Command{
	Use:   "review <card-id>",
	Short: "Record one answer for a card",
	Long: `Record whether you knew a card and reschedule it.

Pass --known or --unknown. --time is how long the answer took; it nudges
the grade of a correct answer.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		known, _ := cmd.Flags().GetBool("known")
		unknown, _ := cmd.Flags().GetBool("unknown")
		rt, _ := cmd.Flags().GetDuration("time")
		if known == unknown {
			return fmt.Errorf("pass exactly one of --known or --unknown")
		}
		if rt < 0 {
			return fmt.Errorf("--time must not be negative")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := a.Service.Answer(cmd.Context(), args[0], known, rt)
		if err != nil {
			return err
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), studyscreen.RenderOutcome(out, known))
		return nil
	},
}

func init() {
	reviewCmd.Flags().Bool("known", false, "You recalled the answer")
	reviewCmd.Flags().Bool("unknown", false, "You did not recall the answer")
	reviewCmd.Flags().Duration("time", 0, "Response time, e.g. 4s")
}
