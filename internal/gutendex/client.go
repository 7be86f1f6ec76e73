package gutendex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jmgilman/bookworm/internal/book"
)

const booksPath = "/books"

// client implements the Client interface over net/http.
type client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a new catalog client with the given configuration.
func NewClient(cfg ClientConfig) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "bookworm"
	}

	return &client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ListBooks fetches one page of the book listing.
func (c *client) ListBooks(ctx context.Context, pageURL string) (*book.Page, error) {
	target := c.config.BaseURL + booksPath
	if pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, fmt.Errorf("%w: invalid page link %q", book.ErrParse, pageURL)
		}
		target = pageURL
	}

	var page book.Page
	if err := c.getJSON(ctx, target, &page); err != nil {
		return nil, err
	}

	// A listing without a results array is not a Gutendex page.
	if page.Results == nil {
		return nil, fmt.Errorf("%w: response has no results", book.ErrParse)
	}

	return &page, nil
}

// GetBook fetches a single book by ID.
func (c *client) GetBook(ctx context.Context, id int) (*book.Book, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid id %d", book.ErrNotFound, id)
	}

	target := c.config.BaseURL + booksPath + "/" + strconv.Itoa(id)

	var b book.Book
	if err := c.getJSON(ctx, target, &b); err != nil {
		return nil, err
	}

	// An empty body or a record for another ID counts as no match.
	if b.ID != id {
		return nil, fmt.Errorf("%w: %d", book.ErrNotFound, id)
	}

	return &b, nil
}

// getJSON issues a GET request and decodes the JSON body into out.
func (c *client) getJSON(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapError(err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", book.ErrParse, err)
	}

	return nil
}

// checkStatus converts non-2xx responses to sentinel errors.
func (c *client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", book.ErrNotFound, resp.Request.URL.Path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: unexpected status %d", book.ErrNetwork, resp.StatusCode)
	}
	return nil
}

// mapError converts transport errors to sentinel errors, preserving
// context cancellation for callers that check for it.
func (c *client) mapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", book.ErrNetwork, err)
	}
	return fmt.Errorf("%w: %s", book.ErrNetwork, err)
}
