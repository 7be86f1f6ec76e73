package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/bookworm/internal/catalog"
	"github.com/jmgilman/bookworm/internal/slogger"
)

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the known genres",
	Long: `List the genres of the catalog, sorted.

When the catalog cannot be loaded, the genres remembered from the last
successful load are shown instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		ctrl, err := requireCatalog(ctx)
		if err != nil {
			return err
		}

		loadErr := loadCatalog(cmd, ctrl)
		genres := ctrl.Genres()
		if loadErr != nil {
			if len(genres) == 0 {
				return fmt.Errorf("%w: %w", catalog.ErrNotLoaded, loadErr)
			}
			slogger.L(ctx).Warn("showing remembered genres", "error", loadErr)
		}

		w := out(cmd)
		for _, g := range genres {
			if _, err := fmt.Fprintln(w, g); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genresCmd)
}
