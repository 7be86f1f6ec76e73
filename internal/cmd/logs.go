package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmgilman/bookworm/internal/logging"
)

// followInterval is how often --follow polls the log file.
const followInterval = 250 * time.Millisecond

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the server log",
	Long: `Show the end of the log written by "bookworm serve".

The log file is set by server.log_file. With --follow, new lines are printed
as the server writes them until interrupted.`,
	Example: `  # Last 50 lines
  bookworm logs

  # Last 10 lines, then keep watching
  bookworm logs -n 10 -f`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setupConfigOnly,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := ConfigFromContext(cmd.Context())
		if cfg == nil {
			return errors.New("config not loaded")
		}
		if cfg.Server.LogFile == "" {
			return errors.New("server.log_file is not set")
		}

		lines, err := cmd.Flags().GetInt("lines")
		if err != nil {
			return fmt.Errorf("get lines flag: %w", err)
		}
		follow, err := cmd.Flags().GetBool("follow")
		if err != nil {
			return fmt.Errorf("get follow flag: %w", err)
		}

		tail, err := logging.Tail(cfg.Server.LogFile, lines)
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no server log at %s: run bookworm serve first", cfg.Server.LogFile)
		}
		if err != nil {
			return err
		}

		w := out(cmd)
		for _, line := range tail {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}

		if !follow {
			return nil
		}
		err = logging.Follow(cmd.Context(), cfg.Server.LogFile, w, followInterval)
		if errors.Is(err, cmd.Context().Err()) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntP("lines", "n", logging.DefaultTailLines, "number of lines to show")
	logsCmd.Flags().BoolP("follow", "f", false, "keep printing new lines")
}
