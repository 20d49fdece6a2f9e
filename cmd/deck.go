package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/ui/theme"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage decks",
}

var deckCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.Service.CreateDeck(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		lipgloss.Fprintln(cmd.OutOrStdout(),
			theme.Correct.Render("✓")+" Created deck "+theme.Value.Render(d.Name)+" "+theme.Hint.Render(d.ID))
		return nil
	},
}

var deckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decks with card counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		decks, err := a.Service.Decks(ctx)
		if err != nil {
			return err
		}
		if len(decks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No decks yet. Create one with: recall deck create <name>")
			return nil
		}

		t := theme.Table("Name", "Cards", "Due", "Created", "ID")
		for _, d := range decks {
			cards, err := a.Service.Cards(ctx, d.ID)
			if err != nil {
				return err
			}
			due, err := a.Service.DueCards(ctx, d.ID)
			if err != nil {
				return err
			}
			t.Row(d.Name,
				fmt.Sprint(len(cards)),
				fmt.Sprint(len(due)),
				d.CreatedAt.Local().Format("2006-01-02"),
				d.ID,
			)
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

var deckDeleteCmd = &cobra.Command{
	Use:   "delete <deck>",
	Short: "Delete a deck with its cards and review history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to delete without --yes")
		}

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
		if err := a.Service.DeleteDeck(ctx, d.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck %s\n", d.Name)
		return nil
	},
}

func init() {
	deckDeleteCmd.Flags().Bool("yes", false, "Confirm deletion")

	deckCmd.AddCommand(deckCreateCmd)
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckDeleteCmd)
}
