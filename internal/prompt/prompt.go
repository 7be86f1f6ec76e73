// Package prompt asks the user for catalog filters and confirmations using
// charmbracelet/huh.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrCanceled is returned when the user cancels a prompt.
var ErrCanceled = errors.New("canceled by user")

// AllGenres labels the picker entry that clears the genre filter.
const AllGenres = "All genres"

// maxPickerHeight caps the genre picker; longer vocabularies scroll.
const maxPickerHeight = 15

// Prompter abstracts user interaction for testability.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/prompter.go . Prompter
type Prompter interface {
	// Print outputs text to the user.
	Print(message string)

	// Confirm prompts for yes/no confirmation.
	Confirm(title, description string) (bool, error)

	// SearchTerm asks for a title search, starting from initial. The result
	// is trimmed; an empty term clears the search.
	SearchTerm(initial string) (string, error)

	// Genre asks the user to pick one of genres, with current preselected.
	// It returns "" when the user picks AllGenres.
	Genre(genres []string, current string) (string, error)
}

// HuhPrompter implements Prompter using charmbracelet/huh forms.
type HuhPrompter struct{}

// New creates a new HuhPrompter for interactive terminal prompts.
func New() *HuhPrompter {
	return &HuhPrompter{}
}

// Print outputs text to the user.
func (p *HuhPrompter) Print(message string) {
	fmt.Println(message)
}

// Confirm prompts for yes/no confirmation.
func (p *HuhPrompter) Confirm(title, description string) (bool, error) {
	var confirmed bool

	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, mapError("confirm", err)
	}

	return confirmed, nil
}

// SearchTerm asks for a title search.
func (p *HuhPrompter) SearchTerm(initial string) (string, error) {
	term := initial

	err := huh.NewInput().
		Title("Search titles").
		Placeholder("title contains...").
		Value(&term).
		Run()
	if err != nil {
		return "", mapError("search", err)
	}

	return strings.TrimSpace(term), nil
}

// Genre shows the genre picker.
func (p *HuhPrompter) Genre(genres []string, current string) (string, error) {
	if len(genres) == 0 {
		return "", errors.New("no genres to pick from")
	}

	options := GenreOptions(genres)
	selected := preselect(genres, current)

	err := huh.NewSelect[string]().
		Title("Select a genre").
		Options(options...).
		Height(min(len(options)+2, maxPickerHeight)).
		Value(&selected).
		Run()
	if err != nil {
		return "", mapError("genre", err)
	}

	return selected, nil
}

// GenreOptions returns the picker entries: AllGenres, valued "", followed
// by one entry per genre.
func GenreOptions(genres []string) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(genres)+1)
	options = append(options, huh.NewOption(AllGenres, ""))
	for _, g := range genres {
		options = append(options, huh.NewOption(g, g))
	}
	return options
}

// preselect returns current when it is one of genres, and "" otherwise so a
// stale remembered genre starts the picker on AllGenres.
func preselect(genres []string, current string) string {
	for _, g := range genres {
		if g == current {
			return current
		}
	}
	return ""
}

func mapError(kind string, err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCanceled
	}
	return fmt.Errorf("%s prompt: %w", kind, err)
}
