package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmgilman/bookworm/internal/book"
	"github.com/jmgilman/bookworm/internal/catalog"
)


var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List books in the catalog",
	Long: `List one page of the catalog.

The search term and genre filter are remembered between runs. Changing
either starts again from the first page. --pick-genre and --ask-search
prompt for the filter interactively.`,
	Example: `  # First page of the catalog
  bookworm list

  # Titles containing "pride", page 2
  bookworm list --search pride --page 2

  # Pick a genre from the list of known genres
  bookworm list --pick-genre

  # Forget the remembered filter
  bookworm list --clear-filters`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	ctrl, err := requireCatalog(ctx)
	if err != nil {
		return err
	}

	if err := loadCatalog(cmd, ctrl); err != nil {
		return err
	}

	term, genre, changed, err := listFilter(cmd, ctrl.View())
	if err != nil {
		return err
	}
	if changed {
		if err := ctrl.SetFilter(ctx, term, genre); err != nil {
			return err
		}
	}

	page, err := cmd.Flags().GetInt("page")
	if err != nil {
		return fmt.Errorf("get page flag: %w", err)
	}
	if err := ctrl.GoToPage(page); err != nil {
		return err
	}

	view := ctrl.View()
	w := out(cmd)

	if view.Total == 0 {
		if _, err := fmt.Fprintln(w, emptyMessage(view)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if err := writeBookTable(w, view.Items, ctrl.IsWishlisted); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "page %d/%d (%s)\n", view.CurrentPage, view.TotalPages, countBooks(view.Total)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// listFilter works out the filter requested by the flags, starting from the
// remembered one. changed reports whether it differs from the current view.
func listFilter(cmd *cobra.Command, view catalog.View) (term, genre string, changed bool, err error) {
	flags := cmd.Flags()
	term, genre = view.SearchTerm, view.SelectedGenre

	clearFilters, err := flags.GetBool("clear-filters")
	if err != nil {
		return "", "", false, fmt.Errorf("get clear-filters flag: %w", err)
	}
	if clearFilters {
		term, genre = "", ""
	}

	if flags.Changed("search") {
		if term, err = flags.GetString("search"); err != nil {
			return "", "", false, fmt.Errorf("get search flag: %w", err)
		}
	}
	if flags.Changed("genre") {
		if genre, err = flags.GetString("genre"); err != nil {
			return "", "", false, fmt.Errorf("get genre flag: %w", err)
		}
	}

	askSearch, err := flags.GetBool("ask-search")
	if err != nil {
		return "", "", false, fmt.Errorf("get ask-search flag: %w", err)
	}
	pickGenre, err := flags.GetBool("pick-genre")
	if err != nil {
		return "", "", false, fmt.Errorf("get pick-genre flag: %w", err)
	}

	prompter := PrompterFromContext(cmd.Context())

	if askSearch {
		if term, err = prompter.SearchTerm(term); err != nil {
			return "", "", false, err
		}
	}

	if pickGenre {
		if len(view.Genres) == 0 {
			return "", "", false, errors.New("no genres available")
		}
		if genre, err = prompter.Genre(view.Genres, genre); err != nil {
			return "", "", false, err
		}
	}

	changed = term != view.SearchTerm || genre != view.SelectedGenre
	return term, genre, changed, nil
}

func countBooks(n int) string {
	if n == 1 {
		return "1 book"
	}
	return fmt.Sprintf("%d books", n)
}

func emptyMessage(view catalog.View) string {
	switch {
	case view.SearchTerm != "" && view.SelectedGenre != "":
		return fmt.Sprintf("No books match %q in %q", view.SearchTerm, view.SelectedGenre)
	case view.SearchTerm != "":
		return fmt.Sprintf("No books match %q", view.SearchTerm)
	case view.SelectedGenre != "":
		return fmt.Sprintf("No books in %q", view.SelectedGenre)
	default:
		return "No books found"
	}
}

// writeBookTable prints books as an aligned table. Wishlisted books are
// marked with a heart.
func writeBookTable(out io.Writer, books []book.Book, wishlisted func(int) bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tGENRE\t♥"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range books {
		b := &books[i]
		heart := ""
		if wishlisted(b.ID) {
			heart = "♥"
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			b.ID,
			truncate(b.Title, 40),
			truncate(b.PrimaryAuthor(), 24),
			truncate(b.PrimaryGenre(), 30),
			heart,
		); err != nil {
			return fmt.Errorf("write book: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("search", "s", "", "only titles containing this text (case-insensitive)")
	cmd.Flags().StringP("genre", "g", "", "only books with this subject")
	cmd.Flags().IntP("page", "p", 1, "page to show")
	cmd.Flags().Bool("pick-genre", false, "choose the genre interactively")
	cmd.Flags().Bool("ask-search", false, "enter the search term interactively")
	cmd.Flags().Bool("clear-filters", false, "forget the remembered search and genre")
}

func init() {
	rootCmd.AddCommand(listCmd)
	addListFlags(listCmd)
}
