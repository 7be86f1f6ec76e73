package gutendex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/bookworm/internal/book"
)

func TestNewClient(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		c, ok := NewClient(ClientConfig{}).(*client)
		require.True(t, ok)

		assert.Equal(t, DefaultBaseURL, c.config.BaseURL)
		assert.Equal(t, DefaultTimeout, c.config.Timeout)
		assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
		assert.NotEmpty(t, c.config.UserAgent)
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		c, ok := NewClient(ClientConfig{BaseURL: "http://localhost:9999/"}).(*client)
		require.True(t, ok)

		assert.Equal(t, "http://localhost:9999", c.config.BaseURL)
	})
}

func TestClient_ListBooks(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches the first page", func(t *testing.T) {
		var gotAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAgent = r.Header.Get("User-Agent")
			if r.URL.Path != "/books" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			writeJSON(t, w, book.Page{
				Count: 2,
				Results: []book.Book{
					{ID: 1, Title: "Frankenstein", Subjects: []string{"Horror"}},
					{ID: 2, Title: "Dracula", Subjects: []string{"Horror", "Vampires"}},
				},
			})
		}))
		defer server.Close()

		c := NewClient(ClientConfig{BaseURL: server.URL, UserAgent: "bookworm/test"})
		page, err := c.ListBooks(ctx, "")

		require.NoError(t, err)
		assert.Equal(t, 2, page.Count)
		require.Len(t, page.Results, 2)
		assert.Equal(t, "Dracula", page.Results[1].Title)
		assert.Equal(t, "bookworm/test", gotAgent)
	})

	t.Run("follows a next link", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			writeJSON(t, w, book.Page{Results: []book.Book{{ID: 3, Title: "Emma"}}})
		}))
		defer server.Close()

		c := NewClient(ClientConfig{BaseURL: server.URL})
		page, err := c.ListBooks(ctx, server.URL+"/books?page=2")

		require.NoError(t, err)
		require.Len(t, page.Results, 1)
		assert.Equal(t, 3, page.Results[0].ID)
	})

	t.Run("rejects a non-http next link", func(t *testing.T) {
		c := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1"})
		_, err := c.ListBooks(ctx, "file:///etc/passwd")

		assert.ErrorIs(t, err, book.ErrParse)
	})

	t.Run("returns ErrParse for malformed JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		c := NewClient(ClientConfig{BaseURL: server.URL})
		_, err := c.ListBooks(ctx, "")

		assert.ErrorIs(t, err, book.ErrParse)
	})

	t.Run("returns ErrParse when results are missing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"count": 0}`))
		}))
		defer server.Close()

		c := NewClient(ClientConfig{BaseURL: server.URL})
		_, err := c.ListBooks(ctx, "")

		assert.ErrorIs(t, err, book.ErrParse)
	})

	t.Run("returns ErrNetwork for server errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		c := NewClient(ClientConfig{BaseURL: server.URL})
		_, err := c.ListBooks(ctx, "")

		assert.ErrorIs(t, err, book.ErrNetwork)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("returns ErrNetwork when the server is unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		c := NewClient(ClientConfig{BaseURL: url})
		_, err := c.ListBooks(ctx, "")

		assert.ErrorIs(t, err, book.ErrNetwork)
	})

	t.Run("returns ErrNetwork on timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		c := NewClient(ClientConfig{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
		_, err := c.ListBooks(ctx, "")

		assert.ErrorIs(t, err, book.ErrNetwork)
	})

	t.Run("preserves context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, book.Page{Results: []book.Book{}})
		}))
		defer server.Close()

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		c := NewClient(ClientConfig{BaseURL: server.URL})
		_, err := c.ListBooks(cctx, "")

		assert.ErrorIs(t, err, book.ErrNetwork)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestClient_GetBook(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/books/84":
			writeJSON(t, w, book.Book{ID: 84, Title: "Frankenstein"})
		case "/books/7":
			// Record for the wrong ID.
			writeJSON(t, w, book.Book{ID: 8, Title: "Other"})
		case "/books/9":
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail": "No Book matches the given query."}`))
		}
	}))
	defer server.Close()

	c := NewClient(ClientConfig{BaseURL: server.URL})

	t.Run("returns the book", func(t *testing.T) {
		b, err := c.GetBook(ctx, 84)

		require.NoError(t, err)
		assert.Equal(t, "Frankenstein", b.Title)
	})

	tests := []struct {
		name string
		id   int
	}{
		{"missing id", 404},
		{"mismatched record", 7},
		{"empty record", 9},
		{"non-positive id", 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("returns ErrNotFound for %s", tt.name), func(t *testing.T) {
			_, err := c.GetBook(ctx, tt.id)

			assert.ErrorIs(t, err, book.ErrNotFound)
		})
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}
