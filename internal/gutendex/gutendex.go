// Package gutendex provides a client for the Gutendex catalog API, the JSON
// front end to the Project Gutenberg library.
package gutendex

import (
	"context"
	"time"

	"github.com/jmgilman/bookworm/internal/book"
)

// DefaultBaseURL is the public Gutendex endpoint.
const DefaultBaseURL = "https://gutendex.com"

// DefaultTimeout bounds a single request when ClientConfig.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// ClientConfig configures the catalog client.
type ClientConfig struct {
	// BaseURL is the API root without the /books suffix.
	BaseURL string

	// Timeout bounds each request.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// Client fetches book records from the catalog source.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/client.go . Client
type Client interface {
	// ListBooks fetches one page of the book listing. An empty pageURL
	// requests the first page; otherwise pageURL is a "next" link taken
	// from a previous page.
	ListBooks(ctx context.Context, pageURL string) (*book.Page, error)

	// GetBook fetches a single book by ID.
	// Returns book.ErrNotFound if the source has no such book.
	GetBook(ctx context.Context, id int) (*book.Book, error)
}
