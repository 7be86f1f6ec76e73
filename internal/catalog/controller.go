package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmgilman/bookworm/internal/book"
	"github.com/jmgilman/bookworm/internal/gutendex"
	"github.com/jmgilman/bookworm/internal/kv"
	"github.com/jmgilman/bookworm/internal/slogger"
)

// Controller reconciles the remote catalog, the snapshot cache, the filter
// state and pagination into a consistent page of books.
//
// All state changes happen under mu. Network calls and the minimum latency
// wait happen outside it.
type Controller struct {
	source   gutendex.Client
	store    kv.Store
	cfg      Config
	cache    *snapshotCache
	wishlist *Wishlist

	mu            sync.Mutex
	allBooks      []book.Book
	filtered      []book.Book
	genres        []string
	searchTerm    string
	selectedGenre string
	currentPage   int
	loaded        bool
	loading       bool
	lastErr       error
	gen           uint64
	cancel        context.CancelFunc
	closed        bool
}

// NewController creates a controller reading from source and persisting to
// store.
func NewController(source gutendex.Client, store kv.Store, cfg Config) *Controller {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Controller{
		source:      source,
		store:       store,
		cfg:         cfg,
		cache:       &snapshotCache{store: store, ttl: cfg.CacheTTL, now: cfg.Now},
		wishlist:    NewWishlist(store),
		allBooks:    []book.Book{},
		filtered:    []book.Book{},
		genres:      []string{},
		currentPage: 1,
	}
}

// Restore loads the wishlist, the persisted genres and the filter
// preferences from the store. Each value is restored on its own: a malformed
// wishlist is logged and left empty, and read failures are returned together
// after everything readable has been restored.
func (c *Controller) Restore(ctx context.Context) error {
	var errs []error

	if err := c.wishlist.Load(ctx); err != nil {
		if !errors.Is(err, book.ErrParse) {
			errs = append(errs, fmt.Errorf("restore wishlist: %w", err))
		}
		slogger.L(ctx).Warn("ignoring stored wishlist", "error", err)
	}

	genres, err := loadStrings(ctx, c.store, KeyGenres)
	if err != nil {
		slogger.L(ctx).Warn("ignoring stored genres", "error", err)
		genres = nil
	}

	term, err := loadString(ctx, c.store, KeySearchTerm)
	if err != nil {
		errs = append(errs, fmt.Errorf("restore search term: %w", err))
	}
	genre, err := loadString(ctx, c.store, KeySelectedGenre)
	if err != nil {
		errs = append(errs, fmt.Errorf("restore selected genre: %w", err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if genres != nil && !c.loaded {
		c.genres = genres
	}
	c.searchTerm = term
	c.selectedGenre = genre
	c.recomputeLocked()

	slogger.L(ctx).Debug("restored session",
		"wishlist", c.wishlist.Len(),
		"search", term,
		"genre", genre)

	return errors.Join(errs...)
}

// Load populates the catalog, from the snapshot cache when it holds a fresh
// entry and from the source otherwise. Only one load may run at a time;
// a second call returns ErrLoadInProgress without touching the source.
// A failed load keeps the previous books.
func (c *Controller) Load(ctx context.Context) error {
	return c.load(ctx, false)
}

// Refresh loads from the source even when the snapshot is fresh. The stored
// snapshot is only replaced once the fetch succeeds.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.load(ctx, true)
}

func (c *Controller) load(ctx context.Context, skipCache bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.loading {
		c.mu.Unlock()
		return ErrLoadInProgress
	}
	c.loading = true
	c.lastErr = nil
	c.gen++
	gen := c.gen
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	books, origin, err := c.fetch(loadCtx, skipCache)

	c.mu.Lock()
	if gen != c.gen {
		// Superseded by Close; the result is dropped.
		c.mu.Unlock()
		slogger.L(ctx).Debug("discarding superseded load", "generation", gen)
		return ErrClosed
	}
	c.loading = false
	c.cancel = nil
	c.currentPage = 1
	if err != nil {
		c.lastErr = err
		c.recomputeLocked()
		c.mu.Unlock()

		slogger.L(ctx).Error("catalog load failed", "error", err)
		c.emit(Event{Kind: EventFailed, Origin: origin, Err: err})
		return err
	}
	c.allBooks = books
	c.loaded = true
	c.genres = DeriveGenres(books)
	c.recomputeLocked()
	genres := c.genres
	c.mu.Unlock()

	if origin == OriginNetwork {
		if err := c.cache.save(ctx, books); err != nil {
			slogger.L(ctx).Warn("failed to cache catalog", "error", err)
		}
	}
	if err := saveStrings(ctx, c.store, KeyGenres, genres); err != nil {
		slogger.L(ctx).Warn("failed to store genres", "error", err)
	}

	slogger.L(ctx).Info("catalog loaded", "origin", origin, "books", len(books), "genres", len(genres))
	c.emit(Event{Kind: EventLoaded, Origin: origin, Count: len(books)})

	return nil
}

// Close cancels an in-flight load. Its result, if it arrives, is discarded.
// Further loads return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.gen++
	c.loading = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// fetch returns the books for a load and where they came from. With
// skipCache the snapshot is not read.
func (c *Controller) fetch(ctx context.Context, skipCache bool) ([]book.Book, Origin, error) {
	if !skipCache {
		books, ok, err := c.cache.load(ctx)
		if err != nil {
			slogger.L(ctx).Warn("ignoring unreadable catalog cache", "error", err)
			ok = false
		}
		if ok {
			c.emit(Event{Kind: EventLoading, Origin: OriginCache})
			slogger.L(ctx).Debug("serving catalog from cache", "books", len(books))
			if err := c.wait(ctx); err != nil {
				return nil, OriginCache, err
			}
			return books, OriginCache, nil
		}
	}

	c.emit(Event{Kind: EventLoading, Origin: OriginNetwork})
	books, err := c.fetchNetwork(ctx)
	return books, OriginNetwork, err
}

// fetchNetwork reads the listing from the source, following next links up
// to MaxPages requests.
func (c *Controller) fetchNetwork(ctx context.Context) ([]book.Book, error) {
	books := []book.Book{}
	pageURL := ""

	for i := 0; i < c.cfg.MaxPages; i++ {
		slogger.L(ctx).Debug("fetching catalog page", "page", i+1, "url", pageURL)

		page, err := c.source.ListBooks(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		books = append(books, page.Results...)

		if page.Next == nil || *page.Next == "" {
			break
		}
		pageURL = *page.Next
	}

	return books, nil
}

// wait holds the loading state for MinLatency.
func (c *Controller) wait(ctx context.Context) error {
	if c.cfg.MinLatency <= 0 {
		return nil
	}

	timer := time.NewTimer(c.cfg.MinLatency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Controller) emit(e Event) {
	if c.cfg.Observer != nil {
		c.cfg.Observer(e)
	}
}

// recomputeLocked rebuilds the filtered books from scratch and clamps the
// current page. Callers hold mu.
func (c *Controller) recomputeLocked() {
	c.filtered = ApplyFilter(c.allBooks, c.searchTerm, c.selectedGenre)

	if total := TotalPages(len(c.filtered), c.cfg.PageSize); c.currentPage > total {
		c.currentPage = total
	}
	if c.currentPage < 1 {
		c.currentPage = 1
	}
}

// SetSearch sets the search term, resets to the first page and persists the
// term.
func (c *Controller) SetSearch(ctx context.Context, term string) error {
	c.mu.Lock()
	c.searchTerm = term
	c.currentPage = 1
	c.recomputeLocked()
	c.mu.Unlock()

	if err := c.store.Set(ctx, KeySearchTerm, term); err != nil {
		return fmt.Errorf("store search term: %w", err)
	}
	return nil
}

// SelectGenre sets the genre filter, resets to the first page and persists
// the choice. An empty genre clears the filter.
func (c *Controller) SelectGenre(ctx context.Context, genre string) error {
	c.mu.Lock()
	c.selectedGenre = genre
	c.currentPage = 1
	c.recomputeLocked()
	c.mu.Unlock()

	if err := c.store.Set(ctx, KeySelectedGenre, genre); err != nil {
		return fmt.Errorf("store selected genre: %w", err)
	}
	return nil
}

// SetFilter sets both the search term and the genre in one step.
func (c *Controller) SetFilter(ctx context.Context, term, genre string) error {
	c.mu.Lock()
	c.searchTerm = term
	c.selectedGenre = genre
	c.currentPage = 1
	c.recomputeLocked()
	c.mu.Unlock()

	if err := c.store.Set(ctx, KeySearchTerm, term); err != nil {
		return fmt.Errorf("store search term: %w", err)
	}
	if err := c.store.Set(ctx, KeySelectedGenre, genre); err != nil {
		return fmt.Errorf("store selected genre: %w", err)
	}
	return nil
}

// NextPage advances one page. It returns ErrPageOutOfRange on the last page.
func (c *Controller) NextPage() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.currentPage >= TotalPages(len(c.filtered), c.cfg.PageSize) {
		return ErrPageOutOfRange
	}
	c.currentPage++
	return nil
}

// PrevPage goes back one page. It returns ErrPageOutOfRange on the first page.
func (c *Controller) PrevPage() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.currentPage <= 1 {
		return ErrPageOutOfRange
	}
	c.currentPage--
	return nil
}

// GoToPage jumps to page n, which must be within [1, TotalPages].
func (c *Controller) GoToPage(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := TotalPages(len(c.filtered), c.cfg.PageSize)
	if n < 1 || n > total {
		return fmt.Errorf("%w: %d not in 1..%d", ErrPageOutOfRange, n, total)
	}
	c.currentPage = n
	return nil
}

// Genres returns the genre vocabulary. Before the first load it is the set
// persisted by an earlier session.
func (c *Controller) Genres() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string{}, c.genres...)
}

// Books returns the loaded catalog in source order.
func (c *Controller) Books() []book.Book {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]book.Book{}, c.allBooks...)
}

// PageSize returns the number of books per page.
func (c *Controller) PageSize() int {
	return c.cfg.PageSize
}

// Loaded reports whether a load has completed successfully.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loaded
}

// ToggleWishlist flips membership of id and returns the new membership.
// The ID need not be in the catalog.
func (c *Controller) ToggleWishlist(ctx context.Context, id int) (bool, error) {
	on, err := c.wishlist.Toggle(ctx, id)
	if err != nil {
		return on, err
	}
	slogger.L(ctx).Debug("toggled wishlist", "id", id, "wishlisted", on)
	return on, nil
}

// IsWishlisted reports whether id is on the wishlist.
func (c *Controller) IsWishlisted(id int) bool {
	return c.wishlist.Contains(id)
}

// Wishlist returns the wishlisted IDs in the order they were added.
func (c *Controller) Wishlist() []int {
	return c.wishlist.IDs()
}

// ClearWishlist removes every ID from the wishlist.
func (c *Controller) ClearWishlist(ctx context.Context) error {
	return c.wishlist.Clear(ctx)
}

// WishlistBooks resolves the wishlist against the catalog snapshot. IDs that
// are not in the snapshot are returned in missing.
func (c *Controller) WishlistBooks(ctx context.Context) (books []book.Book, missing []int) {
	snapshot := c.snapshot(ctx)

	byID := make(map[int]int, len(snapshot))
	for i := range snapshot {
		byID[snapshot[i].ID] = i
	}

	books = []book.Book{}
	for _, id := range c.wishlist.IDs() {
		if i, ok := byID[id]; ok {
			books = append(books, snapshot[i])
			continue
		}
		missing = append(missing, id)
	}
	return books, missing
}

// Book returns the book with the given ID. It looks in the loaded catalog or
// the cached snapshot first and asks the source when the ID is not there.
// It returns book.ErrNotFound when neither has it.
func (c *Controller) Book(ctx context.Context, id int) (*book.Book, error) {
	for _, b := range c.snapshot(ctx) {
		if b.ID == id {
			slogger.L(ctx).Debug("book found in snapshot", "id", id)
			return &b, nil
		}
	}

	b, err := c.source.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			return nil, fmt.Errorf("book %d: %w", id, book.ErrNotFound)
		}
		return nil, fmt.Errorf("fetch book %d: %w", id, err)
	}
	return b, nil
}

// snapshot returns the loaded books, falling back to the cached snapshot
// regardless of its age. An unreadable cache yields no books.
func (c *Controller) snapshot(ctx context.Context) []book.Book {
	c.mu.Lock()
	if c.loaded {
		books := c.allBooks
		c.mu.Unlock()
		return books
	}
	c.mu.Unlock()

	books, ok, err := c.cache.read(ctx)
	if err != nil {
		slogger.L(ctx).Warn("ignoring unreadable catalog cache", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return books
}

// View returns what a renderer needs to draw the current page.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := TotalPages(len(c.filtered), c.cfg.PageSize)
	items := append([]book.Book{}, Paginate(c.filtered, c.currentPage, c.cfg.PageSize)...)

	v := View{
		Items:         items,
		Total:         len(c.filtered),
		TotalPages:    total,
		CurrentPage:   c.currentPage,
		HasPrev:       c.currentPage > 1,
		HasNext:       c.currentPage < total,
		Loading:       c.loading,
		Loaded:        c.loaded,
		SearchTerm:    c.searchTerm,
		SelectedGenre: c.selectedGenre,
		Genres:        append([]string{}, c.genres...),
	}
	if c.lastErr != nil {
		v.Err = c.lastErr.Error()
	}
	return v
}
