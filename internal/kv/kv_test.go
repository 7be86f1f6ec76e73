package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a constructor per backend so the same behavior can be
// checked against each of them.
func backends() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		BackendFile: func(t *testing.T) Store {
			return NewFileStore(filepath.Join(t.TempDir(), "store.json"))
		},
		BackendMemory: func(t *testing.T) Store {
			return NewMemoryStore()
		},
		BackendBadger: func(t *testing.T) Store {
			s, err := NewBadgerStore(t.TempDir())
			require.NoError(t, err)
			return s
		},
		BackendRedis: func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			s, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr()})
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_Backends(t *testing.T) {
	ctx := context.Background()

	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Run("returns ErrNotFound for missing key", func(t *testing.T) {
				store := newStore(t)
				defer store.Close()

				_, err := store.Get(ctx, "missing")

				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("sets and gets a value", func(t *testing.T) {
				store := newStore(t)
				defer store.Close()

				require.NoError(t, store.Set(ctx, "wishlist", "[1,2,3]"))

				got, err := store.Get(ctx, "wishlist")
				require.NoError(t, err)
				assert.Equal(t, "[1,2,3]", got)
			})

			t.Run("replaces an existing value", func(t *testing.T) {
				store := newStore(t)
				defer store.Close()

				require.NoError(t, store.Set(ctx, "searchTerm", "pride"))
				require.NoError(t, store.Set(ctx, "searchTerm", "emma"))

				got, err := store.Get(ctx, "searchTerm")
				require.NoError(t, err)
				assert.Equal(t, "emma", got)
			})

			t.Run("stores empty values", func(t *testing.T) {
				store := newStore(t)
				defer store.Close()

				require.NoError(t, store.Set(ctx, "selectedGenre", ""))

				got, err := store.Get(ctx, "selectedGenre")
				require.NoError(t, err)
				assert.Equal(t, "", got)
			})

			t.Run("deletes a key", func(t *testing.T) {
				store := newStore(t)
				defer store.Close()

				require.NoError(t, store.Set(ctx, "books", "[]"))
				require.NoError(t, store.Delete(ctx, "books"))

				_, err := store.Get(ctx, "books")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("deleting a missing key is not an error", func(t *testing.T) {
				store := newStore(t)
				defer store.Close()

				assert.NoError(t, store.Delete(ctx, "missing"))
			})
		})
	}
}

func TestFileStore_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	store1 := NewFileStore(path)
	require.NoError(t, store1.Set(ctx, "wishlist", "[84]"))

	store2 := NewFileStore(path)
	got, err := store2.Get(ctx, "wishlist")

	require.NoError(t, err)
	assert.Equal(t, "[84]", got)
	assert.Equal(t, path, store2.Path())
}

func TestFileStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path)
	_, err := store.Get(ctx, "books")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode store file")
}

func TestFileStore_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "store.json"))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			assert.NoError(t, store.Set(ctx, fmt.Sprintf("key-%d", idx), fmt.Sprint(idx)))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		got, err := store.Get(ctx, fmt.Sprintf("key-%d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprint(i), got)
	}
}

func TestFileStore_ContextCancellation(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "store.json"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Set(ctx, "books", "[]")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisStore_Prefix(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	store, err := NewRedisStore(ctx, RedisOptions{Addr: mr.Addr(), Prefix: "test:"})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, "wishlist", "[1]"))

	got, err := mr.Get("test:wishlist")
	require.NoError(t, err)
	assert.Equal(t, "[1]", got)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr})

	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("opens file backend by default", func(t *testing.T) {
		store, err := Open(ctx, Options{Path: filepath.Join(t.TempDir(), "store.json")})

		require.NoError(t, err)
		assert.IsType(t, &FileStore{}, store)
	})

	t.Run("opens memory backend", func(t *testing.T) {
		store, err := Open(ctx, Options{Backend: BackendMemory})

		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("opens badger backend", func(t *testing.T) {
		store, err := Open(ctx, Options{Backend: BackendBadger, BadgerDir: t.TempDir()})

		require.NoError(t, err)
		assert.IsType(t, &BadgerStore{}, store)
		require.NoError(t, store.Close())
	})

	t.Run("opens redis backend", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, err := Open(ctx, Options{Backend: BackendRedis, Redis: RedisOptions{Addr: mr.Addr()}})

		require.NoError(t, err)
		assert.IsType(t, &RedisStore{}, store)
		require.NoError(t, store.Close())
	})

	t.Run("rejects file backend without path", func(t *testing.T) {
		_, err := Open(ctx, Options{Backend: BackendFile})

		assert.ErrorIs(t, err, ErrInvalidBackend)
	})

	t.Run("rejects badger backend without directory", func(t *testing.T) {
		_, err := Open(ctx, Options{Backend: BackendBadger})

		assert.ErrorIs(t, err, ErrInvalidBackend)
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		_, err := Open(ctx, Options{Backend: "sqlite"})

		assert.ErrorIs(t, err, ErrInvalidBackend)
	})
}
