package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/bookworm/internal/version"
)

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Display version information",
	Long:              `Display the version, commit, and build date of bookworm.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintf(out(cmd), "bookworm %s\n  commit: %s\n  built:  %s\n",
			version.Version, version.Commit, version.Date)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
