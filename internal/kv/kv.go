// Package kv provides the string-valued key-value store that holds the
// catalog snapshot, the wishlist and persisted preferences.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for store operations.
var (
	ErrNotFound       = errors.New("key not found")
	ErrLockTimeout    = errors.New("failed to acquire store lock")
	ErrInvalidBackend = errors.New("invalid store backend")
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Store is a string-valued key-value store.
//
// Implementations are safe for concurrent use. Values are replaced whole;
// there is no partial update.
type Store interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Options selects and configures a backend.
type Options struct {
	// Backend is one of the Backend* constants.
	Backend string

	// Path is the JSON file used by the file backend.
	Path string

	// BadgerDir is the database directory used by the badger backend.
	BadgerDir string

	// Redis configures the redis backend.
	Redis RedisOptions
}

// Open creates the store selected by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		if opts.Path == "" {
			return nil, fmt.Errorf("%w: file backend requires a path", ErrInvalidBackend)
		}
		return NewFileStore(opts.Path), nil
	case BackendBadger:
		if opts.BadgerDir == "" {
			return nil, fmt.Errorf("%w: badger backend requires a directory", ErrInvalidBackend)
		}
		return NewBadgerStore(opts.BadgerDir)
	case BackendRedis:
		return NewRedisStore(ctx, opts.Redis)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidBackend, opts.Backend)
	}
}
