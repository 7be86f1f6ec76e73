package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jmgilman/bookworm/internal/book"
	"github.com/jmgilman/bookworm/internal/kv"
)

// Wishlist is the user's set of book IDs. It is independent of the catalog
// snapshot: an ID stays wishlisted even when the book is not in the current
// snapshot. Every mutation writes the whole set back to the store.
type Wishlist struct {
	store kv.Store

	mu  sync.RWMutex
	ids []int // insertion order
	set map[int]struct{}
}

// NewWishlist creates an empty wishlist backed by store.
func NewWishlist(store kv.Store) *Wishlist {
	return &Wishlist{store: store, set: make(map[int]struct{})}
}

// Load replaces the in-memory set with the persisted one.
func (w *Wishlist) Load(ctx context.Context) error {
	raw, err := w.store.Get(ctx, KeyWishlist)
	if errors.Is(err, kv.ErrNotFound) {
		w.reset(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read wishlist: %w", err)
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return fmt.Errorf("%w: wishlist: %w", book.ErrParse, err)
	}

	w.reset(ids)
	return nil
}

func (w *Wishlist) reset(ids []int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ids = w.ids[:0]
	w.set = make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := w.set[id]; dup {
			continue
		}
		w.set[id] = struct{}{}
		w.ids = append(w.ids, id)
	}
}

// Toggle removes id if present, otherwise adds it, then persists the set.
// It returns the new membership. On a write failure the in-memory change is
// rolled back.
func (w *Wishlist) Toggle(ctx context.Context, id int) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev := append([]int(nil), w.ids...)

	_, member := w.set[id]
	if member {
		delete(w.set, id)
		w.ids = removeID(w.ids, id)
	} else {
		w.set[id] = struct{}{}
		w.ids = append(w.ids, id)
	}

	if err := w.persistLocked(ctx); err != nil {
		w.ids = prev
		if member {
			w.set[id] = struct{}{}
		} else {
			delete(w.set, id)
		}
		return member, err
	}

	return !member, nil
}

// Contains reports whether id is wishlisted.
func (w *Wishlist) Contains(id int) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, ok := w.set[id]
	return ok
}

// IDs returns the wishlisted IDs in the order they were added.
func (w *Wishlist) IDs() []int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return append([]int(nil), w.ids...)
}

// Len returns the number of wishlisted IDs.
func (w *Wishlist) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.ids)
}

// Clear empties the wishlist and persists the empty set.
func (w *Wishlist) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ids = nil
	w.set = make(map[int]struct{})
	return w.persistLocked(ctx)
}

func (w *Wishlist) persistLocked(ctx context.Context) error {
	ids := w.ids
	if ids == nil {
		ids = []int{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode wishlist: %w", err)
	}
	if err := w.store.Set(ctx, KeyWishlist, string(data)); err != nil {
		return fmt.Errorf("write wishlist: %w", err)
	}
	return nil
}

func removeID(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
