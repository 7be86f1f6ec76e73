// Package book defines the catalog data model shared by the source client,
// the controller and the renderers.
package book

import (
	"errors"
	"strings"
)

// Sentinel errors describing why a catalog operation failed.
var (
	// ErrNetwork is returned when a request is rejected, times out, or the
	// source answers with an unexpected status.
	ErrNetwork = errors.New("network failure")

	// ErrParse is returned when a response or cached value is not in the
	// expected shape.
	ErrParse = errors.New("malformed data")

	// ErrNotFound is returned when a detail lookup yields no match.
	ErrNotFound = errors.New("book not found")
)

// Fallback labels used when a record lacks the field.
const (
	UnknownAuthor = "Unknown"
	Uncategorized = "Uncategorized"
)

// coverFormat is the media type holding the cover image URL.
const coverFormat = "image/jpeg"

// Person is an author or translator.
type Person struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birth_year,omitempty"`
	DeathYear *int   `json:"death_year,omitempty"`
}

// Book is a single catalog record. Records are immutable once fetched.
type Book struct {
	ID            int               `json:"id"`
	Title         string            `json:"title"`
	Authors       []Person          `json:"authors"`
	Subjects      []string          `json:"subjects"`
	Bookshelves   []string          `json:"bookshelves,omitempty"`
	Languages     []string          `json:"languages"`
	Formats       map[string]string `json:"formats"`
	DownloadCount int               `json:"download_count"`
	Copyright     *bool             `json:"copyright"`
	MediaType     string            `json:"media_type,omitempty"`
}

// Page is one page of the source's book listing.
type Page struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Book  `json:"results"`
}

// PrimaryAuthor returns the first author's name, or UnknownAuthor.
func (b *Book) PrimaryAuthor() string {
	if len(b.Authors) == 0 || b.Authors[0].Name == "" {
		return UnknownAuthor
	}
	return b.Authors[0].Name
}

// PrimaryGenre returns the first subject, or Uncategorized.
func (b *Book) PrimaryGenre() string {
	if len(b.Subjects) == 0 {
		return Uncategorized
	}
	return b.Subjects[0]
}

// CoverURL returns the cover image URL, or an empty string.
func (b *Book) CoverURL() string {
	return b.Formats[coverFormat]
}

// HasSubject reports whether subject is one of the book's tags (exact match).
func (b *Book) HasSubject(subject string) bool {
	for _, s := range b.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// TitleContains reports whether the title contains term, ignoring case.
func (b *Book) TitleContains(term string) bool {
	return strings.Contains(strings.ToLower(b.Title), strings.ToLower(term))
}
