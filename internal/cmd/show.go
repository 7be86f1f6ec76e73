package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmgilman/bookworm/internal/book"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the details of a book",
	Long: `Show the details of a book.

The book is looked up in the cached catalog first. Books that are not in the
cache are fetched from the source.`,
	Example: `  bookworm show 1342`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBookID(args[0])
		if err != nil {
			return err
		}

		ctrl, err := requireCatalog(cmd.Context())
		if err != nil {
			return err
		}

		var b *book.Book
		err = withSpinner(cmd, func() error {
			var lookupErr error
			b, lookupErr = ctrl.Book(cmd.Context(), id)
			return lookupErr
		})
		if errors.Is(err, book.ErrNotFound) {
			return fmt.Errorf("book %d not found", id)
		}
		if err != nil {
			return err
		}

		return writeBookDetails(out(cmd), b, ctrl.IsWishlisted(b.ID))
	},
}

func writeBookDetails(w io.Writer, b *book.Book, wishlisted bool) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", b.Title)
	fmt.Fprintf(&sb, "  id:         %d\n", b.ID)
	if len(b.Authors) <= 1 {
		fmt.Fprintf(&sb, "  author:     %s\n", b.PrimaryAuthor())
	} else {
		sb.WriteString("  authors:\n")
		for _, a := range b.Authors {
			fmt.Fprintf(&sb, "    - %s\n", personLabel(a))
		}
	}
	if len(b.Authors) == 1 {
		if years := lifeYears(b.Authors[0]); years != "" {
			fmt.Fprintf(&sb, "  lived:      %s\n", years)
		}
	}
	fmt.Fprintf(&sb, "  genre:      %s\n", b.PrimaryGenre())
	if len(b.Languages) > 0 {
		fmt.Fprintf(&sb, "  languages:  %s\n", strings.Join(b.Languages, ", "))
	}
	fmt.Fprintf(&sb, "  downloads:  %d\n", b.DownloadCount)
	if b.Copyright != nil {
		fmt.Fprintf(&sb, "  copyright:  %t\n", *b.Copyright)
	}
	if cover := b.CoverURL(); cover != "" {
		fmt.Fprintf(&sb, "  cover:      %s\n", cover)
	}
	if wishlisted {
		sb.WriteString("  wishlist:   ♥\n")
	}
	writeList(&sb, "subjects", b.Subjects)
	writeList(&sb, "bookshelves", b.Bookshelves)

	formats := make([]string, 0, len(b.Formats))
	for mediaType := range b.Formats {
		formats = append(formats, mediaType)
	}
	sort.Strings(formats)
	writeList(&sb, "formats", formats)

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write book: %w", err)
	}
	return nil
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "  %s:\n", label)
	for _, item := range items {
		fmt.Fprintf(sb, "    - %s\n", item)
	}
}

func personLabel(p book.Person) string {
	if years := lifeYears(p); years != "" {
		return fmt.Sprintf("%s (%s)", p.Name, years)
	}
	return p.Name
}

// lifeYears formats birth and death years as "1775-1817". Unknown years are
// shown as "?".
func lifeYears(p book.Person) string {
	if p.BirthYear == nil && p.DeathYear == nil {
		return ""
	}
	year := func(y *int) string {
		if y == nil {
			return "?"
		}
		return strconv.Itoa(*y)
	}
	return year(p.BirthYear) + "-" + year(p.DeathYear)
}

func init() {
	rootCmd.AddCommand(showCmd)
}
