package cmd

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
)

var dueCmd = &cobra.Command{
	Use:   "due [deck]",
	Short: "List cards due for review in priority order",
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
		due, err := a.Service.DueCards(cmd.Context(), deckID)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing due. Come back later.")
			return nil
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), cardTable(due, time.Now()).String())
		return nil
	},
}
