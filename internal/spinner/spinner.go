// Package spinner shows a terminal spinner while the catalog is loading.
// The status next to the spinner is replaced in place on every update, so the
// terminal buffer only ever holds one line.
package spinner

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Spinner displays a spinner with a single status line.
type Spinner struct {
	program  *tea.Program
	statusCh chan string
	done     chan struct{}
	once     sync.Once
	output   io.Writer
	width    int
}

// New creates a new Spinner that writes to the given output (typically os.Stderr).
// If output is nil, os.Stderr is used.
func New(output io.Writer) *Spinner {
	if output == nil {
		output = os.Stderr
	}

	return &Spinner{
		statusCh: make(chan string, 16),
		done:     make(chan struct{}),
		output:   output,
		width:    terminalWidth(output),
	}
}

// Enabled reports whether output is an interactive terminal. Redirected
// output gets no spinner.
func Enabled(output io.Writer) bool {
	f, ok := output.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(output io.Writer) int {
	width := 80
	if f, ok := output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	return width
}

// Status replaces the text next to the spinner. Updates are dropped rather
// than blocking when the display falls behind.
func (s *Spinner) Status(line string) {
	select {
	case s.statusCh <- line:
	case <-s.done:
	default:
	}
}

// Start begins the spinner display. This blocks until Stop() is called.
// Call this in a goroutine if you need to do work while the spinner runs.
func (s *Spinner) Start() error {
	s.program = tea.NewProgram(newModel(s.statusCh, s.done, s.width),
		tea.WithOutput(s.output),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(), // Let parent handle signals
	)

	_, err := s.program.Run()
	return err
}

// Stop stops the spinner and clears its line. It is safe to call more than
// once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
	})
}

// model is the bubbletea model for the spinner.
type model struct {
	spinner  spinner.Model
	status   string
	width    int
	statusCh <-chan string
	done     <-chan struct{}
	quitting bool
}

// statusMsg carries a new status line.
type statusMsg string

// stopMsg is sent once Stop has been called.
type stopMsg struct{}

// newModel creates a new spinner model.
func newModel(statusCh <-chan string, done <-chan struct{}, width int) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		spinner:  s,
		status:   "Loading books...",
		width:    width,
		statusCh: statusCh,
		done:     done,
	}
}

// Init implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForStatus(m.statusCh, m.done),
	)
}

// Update implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case statusMsg:
		m.status = string(msg)
		return m, waitForStatus(m.statusCh, m.done)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stopMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) View() string {
	if m.quitting {
		return "" // Clear the line on exit
	}

	// Spinner is typically 2 chars + 1 space
	maxLineWidth := max(m.width-3, 10)

	return m.spinner.View() + " " + truncate(m.status, maxLineWidth)
}

// waitForStatus waits for the next status line, or quits once done closes.
func waitForStatus(statusCh <-chan string, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case line := <-statusCh:
			return statusMsg(line)
		case <-done:
			return stopMsg{}
		}
	}
}

// truncate shortens a string to fit within maxWidth.
// If truncated, it adds "..." at the end.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxWidth {
		return s
	}
	return string(r[:maxWidth-3]) + "..."
}
