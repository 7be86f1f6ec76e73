package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmgilman/bookworm/internal/catalog"
)

// health reports status. It never triggers a load.
// GET /api/health
func (s *Server) health(c *gin.Context) {
	loaded := s.catalog.Loaded()
	books := 0
	if loaded {
		books = len(s.catalog.Books())
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Time:     time.Now().UTC().Format(time.RFC3339),
		Version:  s.cfg.Version,
		Loaded:   loaded,
		Books:    books,
		Wishlist: len(s.catalog.Wishlist()),
	})
}

// listBooks returns one page of the filtered catalog. Filters are per
// request and never change the stored preferences.
// GET /api/books?search=&genre=&page=
func (s *Server) listBooks(c *gin.Context) {
	if !s.ensureLoaded(c) {
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid_page", "page must be an integer")
			return
		}
		page = n
	}

	view, err := catalog.Select(s.catalog.Books(), c.Query("search"), c.Query("genre"), page, s.catalog.PageSize())
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, BooksResponse{
		Items:         s.items(view.Items),
		Total:         view.Total,
		TotalPages:    view.TotalPages,
		CurrentPage:   view.CurrentPage,
		HasPrev:       view.HasPrev,
		HasNext:       view.HasNext,
		SearchTerm:    view.SearchTerm,
		SelectedGenre: view.SelectedGenre,
	})
}

// getBook returns one book, from the snapshot or the source.
// GET /api/books/:id
func (s *Server) getBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := s.catalog.Book(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.item(*b))
}

// GET /api/genres
func (s *Server) listGenres(c *gin.Context) {
	if !s.ensureLoaded(c) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"genres": s.catalog.Genres()})
}

// GET /api/wishlist
func (s *Server) listWishlist(c *gin.Context) {
	books, missing := s.catalog.WishlistBooks(c.Request.Context())
	if missing == nil {
		missing = []int{}
	}

	c.JSON(http.StatusOK, WishlistResponse{
		Items:   s.items(books),
		Missing: missing,
	})
}

// POST /api/wishlist/:id/toggle
func (s *Server) toggleWishlist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	on, err := s.catalog.ToggleWishlist(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToggleResponse{ID: id, Wishlisted: on})
}

// refresh reloads the catalog from the source, bypassing the cache.
// POST /api/catalog/refresh
func (s *Server) refresh(c *gin.Context) {
	if err := s.catalog.Refresh(c.Request.Context()); err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": len(s.catalog.Books())})
}

// ensureLoaded loads the catalog on first use. It writes an error response
// and returns false when the catalog is not available.
func (s *Server) ensureLoaded(c *gin.Context) bool {
	if s.catalog.Loaded() {
		return true
	}
	if err := s.catalog.Load(c.Request.Context()); err != nil {
		respondCatalogError(c, err)
		return false
	}
	return true
}

// parseID reads the :id path parameter. It writes a 400 response and
// returns false when the parameter is not a positive integer.
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
