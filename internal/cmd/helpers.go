package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jmgilman/bookworm/internal/catalog"
	"github.com/jmgilman/bookworm/internal/slogger"
	"github.com/jmgilman/bookworm/internal/spinner"
)

func requireCatalog(ctx context.Context) (*catalog.Controller, error) {
	ctrl := CatalogFromContext(ctx)
	if ctrl == nil {
		return nil, errors.New("catalog not initialized")
	}
	return ctrl, nil
}

// loadProgress shows controller load events on a spinner.
type loadProgress struct {
	mu sync.Mutex
	sp *spinner.Spinner
}

func (p *loadProgress) attach(sp *spinner.Spinner) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sp = sp
}

func (p *loadProgress) handle(e catalog.Event) {
	p.mu.Lock()
	sp := p.sp
	p.mu.Unlock()
	if sp == nil {
		return
	}

	switch e.Kind {
	case catalog.EventLoading:
		sp.Status(fmt.Sprintf("Loading books from %s...", e.Origin))
	case catalog.EventLoaded:
		sp.Status(fmt.Sprintf("Loaded %d books", e.Count))
	case catalog.EventFailed:
		sp.Status("Loading failed")
	}
}

// withSpinner runs fn while a spinner is shown on stderr. Nothing is shown
// when stderr is not a terminal.
func withSpinner(cmd *cobra.Command, fn func() error) error {
	out := cmd.ErrOrStderr()
	if !spinner.Enabled(out) {
		return fn()
	}

	sp := spinner.New(out)
	progress.attach(sp)
	defer progress.attach(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := sp.Start(); err != nil {
			slogger.L(cmd.Context()).Debug("spinner failed", "error", err)
		}
	}()

	err := fn()
	sp.Stop()
	<-done
	return err
}

// loadCatalog loads the catalog behind a spinner.
func loadCatalog(cmd *cobra.Command, ctrl *catalog.Controller) error {
	if err := withSpinner(cmd, func() error { return ctrl.Load(cmd.Context()) }); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	return nil
}

// parseBookID parses a positive book ID argument.
func parseBookID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q: must be a positive integer", arg)
	}
	return id, nil
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// stdinIsTerminal reports whether prompts can be shown.
func stdinIsTerminal() bool {
	return spinner.Enabled(os.Stdin)
}

// out returns the command's standard output.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
