package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/figure-collector/internal/apiclient"
)

func (a *app) newWishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wish",
		Short: "Manage the wishlist",
	}
	cmd.AddCommand(a.newWishAddCmd(), a.newWishRmCmd())
	return cmd
}

func (a *app) newWishAddCmd() *cobra.Command {
	var another bool
	var note string

	cmd := &cobra.Command{
		Use:   "add FIGURE_ID",
		Short: "Add or update a wishlist entry",
		Long: `Add a figure to the wishlist. Adding the same figure again updates the
existing entry.

Examples:
  collector wish add 0b7c...
  collector wish add 0b7c... --another --note "army builder"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := apiclient.WishInput{FigureID: strings.TrimSpace(args[0]), WantAnother: another}
			if note != "" {
				in.Note = &note
			}
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			collection, err := a.loadCollection(cmd.Context(), c)
			if err != nil {
				return err
			}
			defer collection.Close()

			wish, err := collection.AddWish(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("add wish: %w", err)
			}
			a.out.Success("wishlist entry %s saved (%d on wishlist)", wish.ID, len(collection.Wishlist()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&another, "another", false, "Want another copy even if already owned")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	return cmd
}

func (a *app) newWishRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a wishlist entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			if err := c.DeleteWish(cmd.Context(), strings.TrimSpace(args[0])); err != nil {
				return fmt.Errorf("remove wish: %w", err)
			}
			a.out.Success("removed %s", args[0])
			return nil
		},
	}
}
