// Package catalog owns the book catalog for a browsing session: it loads the
// catalog cache-first with a network fallback, derives the genre vocabulary,
// applies search and genre filters, paginates the result and maintains the
// wishlist.
package catalog

import (
	"errors"
	"time"

	"github.com/jmgilman/bookworm/internal/book"
)

// Sentinel errors for controller operations.
var (
	ErrLoadInProgress = errors.New("catalog load already in progress")
	ErrPageOutOfRange = errors.New("page out of range")
	ErrNotLoaded      = errors.New("catalog not loaded")
	ErrClosed         = errors.New("catalog controller closed")
)

// Store keys. They match the keys the browser build kept in local storage so
// that exported state can be imported unchanged.
const (
	KeyBooks         = "books"
	KeyBooksFetched  = "books_fetched_at"
	KeyGenres        = "genres"
	KeyWishlist      = "wishlist"
	KeySearchTerm    = "searchTerm"
	KeySelectedGenre = "selectedGenre"
)

// Defaults. NewController applies the first two to zero Config fields;
// DefaultMinLatency is the configured default for interactive sessions.
const (
	DefaultPageSize   = 9
	DefaultMaxPages   = 1
	DefaultMinLatency = time.Second
)

// Config tunes a Controller.
type Config struct {
	// PageSize is the number of books per page.
	PageSize int

	// MaxPages caps how many source pages a network load follows.
	MaxPages int

	// CacheTTL is how long a cached snapshot is served before the network
	// is used again. Zero means the snapshot never expires.
	CacheTTL time.Duration

	// MinLatency is how long a cache hit stays in the loading state, so
	// renderers do not flicker on instant loads. Zero disables it.
	MinLatency time.Duration

	// Observer, if set, receives load lifecycle events.
	Observer func(Event)

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// EventKind identifies a load lifecycle transition.
type EventKind string

const (
	EventLoading EventKind = "loading"
	EventLoaded  EventKind = "loaded"
	EventFailed  EventKind = "failed"
)

// Origin says where a load got its books from.
type Origin string

const (
	OriginCache   Origin = "cache"
	OriginNetwork Origin = "network"
)

// Event describes a load lifecycle transition.
type Event struct {
	Kind   EventKind
	Origin Origin
	Count  int
	Err    error
}

// View is the snapshot a renderer needs to draw the current page.
type View struct {
	Items         []book.Book `json:"items"`
	Total         int         `json:"total"`
	TotalPages    int         `json:"total_pages"`
	CurrentPage   int         `json:"current_page"`
	HasPrev       bool        `json:"has_prev"`
	HasNext       bool        `json:"has_next"`
	Loading       bool        `json:"loading"`
	Loaded        bool        `json:"loaded"`
	Err           string      `json:"error,omitempty"`
	SearchTerm    string      `json:"search_term"`
	SelectedGenre string      `json:"selected_genre"`
	Genres        []string    `json:"genres"`
}
