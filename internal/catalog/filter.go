package catalog

import (
	"fmt"
	"sort"

	"github.com/jmgilman/bookworm/internal/book"
)

// ApplyFilter returns the books whose title contains searchTerm (ignoring
// case) and, when selectedGenre is not empty, that carry selectedGenre as a
// subject. Order is preserved. The input is never modified.
func ApplyFilter(books []book.Book, searchTerm, selectedGenre string) []book.Book {
	out := make([]book.Book, 0, len(books))
	for i := range books {
		b := &books[i]
		if !b.TitleContains(searchTerm) {
			continue
		}
		if selectedGenre != "" && !b.HasSubject(selectedGenre) {
			continue
		}
		out = append(out, *b)
	}
	return out
}

// DeriveGenres returns the union of all subjects, deduplicated and sorted.
func DeriveGenres(books []book.Book) []string {
	seen := make(map[string]struct{})
	for i := range books {
		for _, s := range books[i].Subjects {
			seen[s] = struct{}{}
		}
	}

	genres := make([]string, 0, len(seen))
	for g := range seen {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

// TotalPages returns the page count for n items, never less than 1.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate returns the half-open slice [(page-1)*size, page*size) of books,
// clamped to the available length. Out-of-range pages yield an empty slice.
func Paginate(books []book.Book, page, pageSize int) []book.Book {
	if page < 1 || pageSize <= 0 {
		return []book.Book{}
	}

	if len(books) == 0 || page-1 > (len(books)-1)/pageSize {
		return []book.Book{}
	}

	// Checked above: start <= len(books)-1, so neither sum can overflow.
	start := (page - 1) * pageSize
	end := len(books)
	if len(books)-start > pageSize {
		end = start + pageSize
	}
	return books[start:end]
}

// Select filters books and cuts out one page of the result as a View. It
// returns ErrPageOutOfRange when page is outside 1..TotalPages. Loading state
// and genres are left for the caller.
func Select(books []book.Book, searchTerm, selectedGenre string, page, pageSize int) (View, error) {
	filtered := ApplyFilter(books, searchTerm, selectedGenre)
	total := TotalPages(len(filtered), pageSize)
	if page < 1 || page > total {
		return View{}, fmt.Errorf("%w: %d not in 1..%d", ErrPageOutOfRange, page, total)
	}

	return View{
		Items:         Paginate(filtered, page, pageSize),
		Total:         len(filtered),
		TotalPages:    total,
		CurrentPage:   page,
		HasPrev:       page > 1,
		HasNext:       page < total,
		Loaded:        true,
		SearchTerm:    searchTerm,
		SelectedGenre: selectedGenre,
	}, nil
}
