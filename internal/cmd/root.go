// Package cmd implements the bookworm CLI commands using Cobra.
// It provides commands for browsing the Project Gutenberg catalog,
// inspecting books, managing the wishlist and serving the JSON API.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmgilman/bookworm/internal/catalog"
	"github.com/jmgilman/bookworm/internal/config"
	"github.com/jmgilman/bookworm/internal/gutendex"
	"github.com/jmgilman/bookworm/internal/kv"
	"github.com/jmgilman/bookworm/internal/slogger"
	"github.com/jmgilman/bookworm/internal/version"
)

// cleanups run after the command finishes, last registered first.
var cleanups []func()

// progress forwards controller load events to the spinner, when one is shown.
var progress = &loadProgress{}

var rootCmd = &cobra.Command{
	Use:   "bookworm",
	Short: "Browse the Project Gutenberg catalog",
	Long: `bookworm browses the Project Gutenberg catalog served by the Gutendex API.

The catalog is fetched once and cached locally. Search and genre filters,
paging and a wishlist work against the cached copy; use "bookworm refresh"
to fetch it again.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupCatalog,
}

// Execute adds all child commands to the root command and runs it.
func Execute(ctx context.Context) error {
	defer runCleanups()
	return rootCmd.ExecuteContext(ctx)
}

// Main runs the CLI and returns the process exit code.
func Main() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Execute(ctx); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v info, -vv debug)")
}

// setupLogging puts the logger in the command context.
func setupLogging(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cmd.SetContext(slogger.WithLogger(cmd.Context(), logger))
	return nil
}

// newLogger builds a logger writing to output at the verbosity given by -v.
func newLogger(cmd *cobra.Command, output io.Writer) (*slog.Logger, error) {
	verbosity, err := cmd.Flags().GetCount("verbose")
	if err != nil {
		return nil, fmt.Errorf("get verbose flag: %w", err)
	}

	// Only serve defines --json-logs.
	jsonLogs := false
	if f := cmd.Flags().Lookup("json-logs"); f != nil {
		jsonLogs = f.Value.String() == "true"
	}

	return slogger.New(slogger.Config{
		Verbosity: verbosity,
		Output:    output,
		JSON:      jsonLogs,
	}), nil
}

// setupConfigOnly loads the config for commands that do not use the catalog.
func setupConfigOnly(cmd *cobra.Command, args []string) error {
	if err := setupLogging(cmd, args); err != nil {
		return err
	}
	_, err := setupConfig(cmd)
	return err
}

// setupConfig loads and validates the configuration.
func setupConfig(cmd *cobra.Command) (*config.Config, error) {
	loader, err := config.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("init config loader: %w", err)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	ctx = WithConfig(ctx, cfg)
	ctx = WithLoader(ctx, loader)
	cmd.SetContext(ctx)

	return cfg, nil
}

// setupCatalog wires the store, the source client and the catalog controller
// into the command context and restores the previous session.
func setupCatalog(cmd *cobra.Command, args []string) error {
	if err := setupLogging(cmd, args); err != nil {
		return err
	}

	cfg, err := setupConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	store, err := kv.Open(ctx, kv.Options{
		Backend:   cfg.Store.Backend,
		Path:      cfg.Store.Path,
		BadgerDir: cfg.Store.BadgerDir,
		Redis: kv.RedisOptions{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		},
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	onCleanup(func() {
		if err := store.Close(); err != nil {
			slogger.L(ctx).Warn("failed to close store", "error", err)
		}
	})

	source := gutendex.NewClient(gutendex.ClientConfig{
		BaseURL:   cfg.Source.URL,
		Timeout:   cfg.Source.Timeout,
		UserAgent: "bookworm/" + version.Version,
	})

	ctrl := catalog.NewController(source, store, catalog.Config{
		PageSize:   cfg.Catalog.PageSize,
		MaxPages:   cfg.Catalog.MaxPages,
		CacheTTL:   cfg.Catalog.CacheTTL,
		MinLatency: cfg.Catalog.MinLatency,
		Observer:   progress.handle,
	})
	onCleanup(ctrl.Close)

	if err := ctrl.Restore(ctx); err != nil {
		slogger.L(ctx).Warn("could not restore session", "error", err)
	}

	slogger.L(ctx).Debug("catalog ready",
		"source", cfg.Source.URL,
		"store", cfg.Store.Backend,
		"page_size", cfg.Catalog.PageSize)

	cmd.SetContext(WithCatalog(ctx, ctrl))
	return nil
}

func onCleanup(fn func()) {
	cleanups = append(cleanups, fn)
}

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}
