package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Show and edit the wishlist",
	Long: `Show the wishlisted books in the order they were added.

Wishlisted IDs that are not in the cached catalog are listed separately.`,
	Example: `  # Show the wishlist
  bookworm wishlist

  # Add or remove a book
  bookworm wishlist toggle 1342

  # Empty the wishlist without asking
  bookworm wishlist clear --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		ctrl, err := requireCatalog(ctx)
		if err != nil {
			return err
		}

		w := out(cmd)

		if len(ctrl.Wishlist()) == 0 {
			if _, err := fmt.Fprintln(w, "Wishlist is empty"); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		}

		books, missing := ctrl.WishlistBooks(ctx)
		if len(books) > 0 {
			if err := writeBookTable(w, books, ctrl.IsWishlisted); err != nil {
				return err
			}
		}
		for _, id := range missing {
			if _, err := fmt.Fprintf(w, "%d (not in the cached catalog)\n", id); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
		return nil
	},
}

var wishlistToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Add a book to the wishlist, or remove it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBookID(args[0])
		if err != nil {
			return err
		}

		ctrl, err := requireCatalog(cmd.Context())
		if err != nil {
			return err
		}

		on, err := ctrl.ToggleWishlist(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("toggle wishlist: %w", err)
		}

		msg := fmt.Sprintf("Removed %d from the wishlist", id)
		if on {
			msg = fmt.Sprintf("Added %d to the wishlist", id)
		}
		if _, err := fmt.Fprintln(out(cmd), msg); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	},
}

var wishlistClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every book from the wishlist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		ctrl, err := requireCatalog(ctx)
		if err != nil {
			return err
		}

		yes, err := cmd.Flags().GetBool("yes")
		if err != nil {
			return fmt.Errorf("get yes flag: %w", err)
		}

		n := len(ctrl.Wishlist())
		if n == 0 {
			if _, err := fmt.Fprintln(out(cmd), "Wishlist is empty"); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		}

		if !yes {
			if !stdinIsTerminal() {
				return errors.New("refusing to clear the wishlist without confirmation: pass --yes")
			}
			prompter := PrompterFromContext(ctx)
			ok, err := prompter.Confirm(
				"Clear the wishlist?",
				fmt.Sprintf("%s will be removed.", countBooks(n)),
			)
			if err != nil {
				return err
			}
			if !ok {
				prompter.Print("Wishlist left unchanged")
				return nil
			}
		}

		if err := ctrl.ClearWishlist(ctx); err != nil {
			return fmt.Errorf("clear wishlist: %w", err)
		}
		if _, err := fmt.Fprintf(out(cmd), "Removed %s from the wishlist\n", countBooks(n)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(wishlistCmd)
	wishlistCmd.AddCommand(wishlistToggleCmd)
	wishlistCmd.AddCommand(wishlistClearCmd)

	wishlistClearCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
