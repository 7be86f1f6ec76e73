package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/bookworm/internal/catalog"
	"github.com/jmgilman/bookworm/internal/logging"
	"github.com/jmgilman/bookworm/internal/server"
	"github.com/jmgilman/bookworm/internal/slogger"
	"github.com/jmgilman/bookworm/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a JSON API",
	Long: `Serve the catalog, the genres and the wishlist over HTTP.

The catalog is loaded before the server starts listening. When
server.refresh_schedule is set, the catalog is fetched again on that cron
schedule. The server stops on SIGINT or SIGTERM.

The log is also appended to server.log_file; "bookworm logs" reads it.`,
	Example: `  # Listen on the configured address
  bookworm serve

  # Listen on all interfaces, logging JSON
  bookworm serve --addr :8080 --json-logs -v`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		ctrl, err := requireCatalog(ctx)
		if err != nil {
			return err
		}
		cfg := ConfigFromContext(ctx)
		if cfg == nil {
			return errors.New("config not loaded")
		}

		if cfg.Server.LogFile != "" {
			tee, err := logging.OpenTee(cmd.ErrOrStderr(), cfg.Server.LogFile)
			if err != nil {
				return err
			}
			defer tee.Close()

			logger, err := newLogger(cmd, tee)
			if err != nil {
				return err
			}
			ctx = slogger.WithLogger(ctx, logger)
		}

		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			if addr, err = cmd.Flags().GetString("addr"); err != nil {
				return fmt.Errorf("get addr flag: %w", err)
			}
		}

		// A source outage must not keep the API down; the handlers retry
		// the load on demand.
		if err := ctrl.Load(ctx); err != nil && !errors.Is(err, catalog.ErrLoadInProgress) {
			slogger.L(ctx).Warn("initial catalog load failed", "error", err)
		}

		if schedule := cfg.Server.RefreshSchedule; schedule != "" {
			refresher, err := server.NewRefresher(ctrl, schedule)
			if err != nil {
				return err
			}
			refresher.Start(ctx)
			defer refresher.Stop()
		}

		srv := server.New(ctx, ctrl, server.Config{
			Addr:    addr,
			Version: version.Version,
		})
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address, host:port (default from server.addr)")
	serveCmd.Flags().Bool("json-logs", false, "write logs as JSON lines")
}
