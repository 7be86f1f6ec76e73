package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmgilman/bookworm/internal/book"
	"github.com/jmgilman/bookworm/internal/catalog"
	"github.com/jmgilman/bookworm/internal/slogger"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// BookItem is a book as listed by the API, with the display fallbacks the
// terminal table uses.
type BookItem struct {
	book.Book
	Author     string `json:"author"`
	Genre      string `json:"genre"`
	Cover      string `json:"cover,omitempty"`
	Wishlisted bool   `json:"wishlisted"`
}

// BooksResponse is one page of the filtered catalog.
type BooksResponse struct {
	Items         []BookItem `json:"items"`
	Total         int        `json:"total"`
	TotalPages    int        `json:"total_pages"`
	CurrentPage   int        `json:"current_page"`
	HasPrev       bool       `json:"has_prev"`
	HasNext       bool       `json:"has_next"`
	SearchTerm    string     `json:"search_term"`
	SelectedGenre string     `json:"selected_genre"`
}

// WishlistResponse lists wishlisted books. IDs missing from the catalog
// snapshot are listed separately.
type WishlistResponse struct {
	Items   []BookItem `json:"items"`
	Missing []int      `json:"missing"`
}

// ToggleResponse reports the new wishlist membership of a book.
type ToggleResponse struct {
	ID         int  `json:"id"`
	Wishlisted bool `json:"wishlisted"`
}

// HealthResponse reports server and catalog status.
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Version  string `json:"version,omitempty"`
	Loaded   bool   `json:"loaded"`
	Books    int    `json:"books"`
	Wishlist int    `json:"wishlist"`
}

func (s *Server) item(b book.Book) BookItem {
	return BookItem{
		Book:       b,
		Author:     b.PrimaryAuthor(),
		Genre:      b.PrimaryGenre(),
		Cover:      b.CoverURL(),
		Wishlisted: s.catalog.IsWishlisted(b.ID),
	}
}

func (s *Server) items(books []book.Book) []BookItem {
	out := make([]BookItem, 0, len(books))
	for _, b := range books {
		out = append(out, s.item(b))
	}
	return out
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code})
}

// respondCatalogError maps catalog and source errors to HTTP statuses.
func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, book.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", "book not found")
	case errors.Is(err, catalog.ErrPageOutOfRange):
		respondError(c, http.StatusBadRequest, "page_out_of_range", err.Error())
	case errors.Is(err, catalog.ErrLoadInProgress):
		respondError(c, http.StatusServiceUnavailable, "loading", "catalog is loading, retry shortly")
	case errors.Is(err, book.ErrNetwork), errors.Is(err, book.ErrParse):
		respondError(c, http.StatusBadGateway, "source_unavailable", err.Error())
	default:
		slogger.L(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "internal", "internal server error")
	}
}
