// Package server exposes the catalog controller as a small JSON API and
// refreshes the catalog cache on a cron schedule.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmgilman/bookworm/internal/book"
	"github.com/jmgilman/bookworm/internal/catalog"
	"github.com/jmgilman/bookworm/internal/slogger"
)

const shutdownTimeout = 5 * time.Second

// Catalog is the part of the catalog controller the API uses.
type Catalog interface {
	Load(ctx context.Context) error
	Refresh(ctx context.Context) error
	Loaded() bool
	Books() []book.Book
	Genres() []string
	PageSize() int
	Book(ctx context.Context, id int) (*book.Book, error)
	ToggleWishlist(ctx context.Context, id int) (bool, error)
	IsWishlisted(id int) bool
	Wishlist() []int
	WishlistBooks(ctx context.Context) ([]book.Book, []int)
}

var _ Catalog = (*catalog.Controller)(nil)

// Config holds server settings.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string

	// Version is reported by the health endpoint.
	Version string
}

// Server serves the JSON API.
type Server struct {
	catalog Catalog
	cfg     Config
	engine  *gin.Engine
}

// New creates a server for the given catalog. The context supplies the
// logger used for request logging.
func New(ctx context.Context, c Catalog, cfg Config) *Server {
	s := &Server{catalog: c, cfg: cfg}
	s.engine = s.router(ctx)
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) router(ctx context.Context) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(slogger.L(ctx)))
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.GET("/health", s.health)
	api.GET("/books", s.listBooks)
	api.GET("/books/:id", s.getBook)
	api.GET("/genres", s.listGenres)
	api.GET("/wishlist", s.listWishlist)
	api.POST("/wishlist/:id/toggle", s.toggleWishlist)
	api.POST("/catalog/refresh", s.refresh)

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "not_found", "no such endpoint")
	})

	return router
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slogger.L(ctx).Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slogger.L(ctx).Info("server stopped")
	return nil
}
