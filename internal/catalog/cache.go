package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmgilman/bookworm/internal/book"
	"github.com/jmgilman/bookworm/internal/kv"
)

// snapshotCache reads and writes the catalog snapshot in the store.
type snapshotCache struct {
	store kv.Store
	ttl   time.Duration
	now   func() time.Time
}

// load returns the cached books. ok is false when there is no snapshot or it
// has expired. A snapshot written without a fetch time is treated as fresh.
func (c *snapshotCache) load(ctx context.Context) ([]book.Book, bool, error) {
	books, ok, err := c.read(ctx)
	if err != nil || !ok {
		return nil, false, err
	}

	if c.ttl > 0 {
		fetched, err := c.fetchedAt(ctx)
		if err != nil {
			return nil, false, err
		}
		if !fetched.IsZero() && c.now().Sub(fetched) > c.ttl {
			return nil, false, nil
		}
	}

	return books, true, nil
}

// read returns the cached books regardless of their age.
func (c *snapshotCache) read(ctx context.Context) (books []book.Book, ok bool, err error) {
	raw, err := c.store.Get(ctx, KeyBooks)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached books: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &books); err != nil {
		return nil, false, fmt.Errorf("%w: cached books: %w", book.ErrParse, err)
	}
	if books == nil {
		return nil, false, fmt.Errorf("%w: cached books are null", book.ErrParse)
	}

	return books, true, nil
}

// fetchedAt returns the snapshot fetch time, or the zero time if unknown.
func (c *snapshotCache) fetchedAt(ctx context.Context) (time.Time, error) {
	raw, err := c.store.Get(ctx, KeyBooksFetched)
	if errors.Is(err, kv.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read snapshot time: %w", err)
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: snapshot time %q", book.ErrParse, raw)
	}
	return t, nil
}

// save writes books and the fetch time.
func (c *snapshotCache) save(ctx context.Context, books []book.Book) error {
	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("encode books: %w", err)
	}

	if err := c.store.Set(ctx, KeyBooks, string(data)); err != nil {
		return fmt.Errorf("write cached books: %w", err)
	}
	if err := c.store.Set(ctx, KeyBooksFetched, c.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("write snapshot time: %w", err)
	}
	return nil
}

// loadStrings decodes a JSON string array stored under key.
// A missing key yields nil.
func loadStrings(ctx context.Context, store kv.Store, key string) ([]string, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", book.ErrParse, key, err)
	}
	return out, nil
}

// saveStrings stores values as a JSON string array under key.
func saveStrings(ctx context.Context, store kv.Store, key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// loadString returns the raw string under key, or "" when missing.
func loadString(ctx context.Context, store kv.Store, key string) (string, error) {
	v, err := store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}
