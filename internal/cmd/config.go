package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/bookworm/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "View and modify configuration",
	Long: `View and modify bookworm configuration.

With no arguments, displays all configuration.
With one argument, displays the value for the specified key.
With two arguments, sets the value for the specified key.

Values are checked before they are written: durations such as
catalog.cache_ttl take Go duration syntax, and server.refresh_schedule takes
a five-field cron expression.`,
	Example: `  # Show all config
  bookworm config

  # Show value for a specific key
  bookworm config catalog.page_size

  # Keep the cached catalog for a week
  bookworm config catalog.cache_ttl 168h

  # Open config file in editor
  bookworm config --edit`,
	Args: cobra.RangeArgs(0, 2),
	// The config command must work with a config the catalog setup rejects.
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		editFlag, err := cmd.Flags().GetBool("edit")
		if err != nil {
			return fmt.Errorf("get edit flag: %w", err)
		}

		loader, err := config.NewLoader()
		if err != nil {
			return fmt.Errorf("init config loader: %w", err)
		}

		if editFlag {
			return runEdit(cmd, loader)
		}

		w := out(cmd)
		switch len(args) {
		case 0:
			return runShowAll(w, loader)
		case 1:
			return runShowKey(w, loader, args[0])
		case 2:
			return runSetKey(w, loader, args[0], args[1])
		}

		return nil
	},
}

func runEdit(cmd *cobra.Command, loader *config.Loader) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return config.ErrNoEditor
	}

	// Load creates the file when it is missing.
	if _, err := loader.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	editorCmd := exec.CommandContext(cmd.Context(), editor, loader.Path())
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = cmd.OutOrStdout()
	editorCmd.Stderr = cmd.ErrOrStderr()

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}

func runShowAll(w io.Writer, loader *config.Loader) error {
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func runShowKey(w io.Writer, loader *config.Loader, key string) error {
	if err := config.ValidateKey(key); err != nil {
		return err
	}

	if _, err := loader.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	value, err := loader.Get(key)
	if err != nil {
		return err
	}

	switch v := value.(type) {
	case nil:
		_, err = fmt.Fprintln(w)
	case string:
		_, err = fmt.Fprintln(w, v)
	case map[string]any, []any:
		data, marshalErr := yaml.Marshal(v)
		if marshalErr != nil {
			return fmt.Errorf("marshal value: %w", marshalErr)
		}
		_, err = w.Write(data)
	default:
		_, err = fmt.Fprintln(w, v)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func runSetKey(w io.Writer, loader *config.Loader, key, value string) error {
	if _, err := loader.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := loader.Set(key, value); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Set %s = %s\n", key, value); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().Bool("edit", false, "open config file in $EDITOR")
}
