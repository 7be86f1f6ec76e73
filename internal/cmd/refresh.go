package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the catalog from the source again",
	Long: `Fetch the catalog from the source, even when the cached copy is fresh.

The cached catalog is replaced only when the fetch succeeds. When it fails the
previous copy stays in place and later commands keep using it. The wishlist
and the remembered filter are kept either way.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctrl, err := requireCatalog(cmd.Context())
		if err != nil {
			return err
		}

		if err := withSpinner(cmd, func() error { return ctrl.Refresh(cmd.Context()) }); err != nil {
			return fmt.Errorf("refresh catalog: %w", err)
		}

		if _, err := fmt.Fprintf(out(cmd), "Loaded %d books\n", len(ctrl.Books())); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
