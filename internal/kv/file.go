package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

const (
	lockTimeout = 5 * time.Second
	fileMode    = 0o644
	dirMode     = 0o755
)

// storeFile represents the on-disk store format.
type storeFile struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// FileStore keeps all keys in a single JSON file guarded by flock, so that
// several bookworm processes can share it.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore creates a new JSON-backed store.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := s.withSharedLock(ctx, func(sf *storeFile) error {
		v, ok := sf.Entries[key]
		if !ok {
			return ErrNotFound
		}
		value = v
		return nil
	})

	return value, err
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	return s.withExclusiveLock(ctx, func(sf *storeFile) error {
		sf.Entries[key] = value
		return nil
	})
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	return s.withExclusiveLock(ctx, func(sf *storeFile) error {
		delete(sf.Entries, key)
		return nil
	})
}

// Close is a no-op; the file is only held open while locked.
func (s *FileStore) Close() error {
	return nil
}

// withSharedLock executes fn with a shared (read) lock.
func (s *FileStore) withSharedLock(ctx context.Context, fn func(*storeFile) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sf, file, err := s.openAndLock(ctx, false)
	if err != nil {
		return err
	}
	defer s.unlockAndClose(file)

	return fn(sf)
}

// withExclusiveLock executes fn with an exclusive (write) lock.
// Changes made by fn are persisted to disk.
func (s *FileStore) withExclusiveLock(ctx context.Context, fn func(*storeFile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sf, file, err := s.openAndLock(ctx, true)
	if err != nil {
		return err
	}
	defer s.unlockAndClose(file)

	if err := fn(sf); err != nil {
		return err
	}

	return s.save(sf)
}

// openAndLock opens the store file and acquires a lock.
func (s *FileStore) openAndLock(ctx context.Context, exclusive bool) (*storeFile, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return nil, nil, fmt.Errorf("create store directory: %w", err)
	}

	file, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, fileMode)
	if err != nil {
		return nil, nil, fmt.Errorf("open store file: %w", err)
	}

	lockType := syscall.LOCK_SH
	if exclusive {
		lockType = syscall.LOCK_EX
	}

	if err := s.acquireLock(ctx, file, lockType); err != nil {
		file.Close()
		return nil, nil, err
	}

	sf, err := s.load(file)
	if err != nil {
		s.unlockAndClose(file)
		return nil, nil, err
	}

	return sf, file, nil
}

// acquireLock attempts to acquire a file lock with timeout.
func (s *FileStore) acquireLock(ctx context.Context, file *os.File, lockType int) error {
	deadline := time.Now().Add(lockTimeout)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := syscall.Flock(int(file.Fd()), lockType|syscall.LOCK_NB)
		if err == nil {
			return nil
		}

		if err != syscall.EWOULDBLOCK {
			return fmt.Errorf("acquire file lock: %w", err)
		}

		if time.Now().After(deadline) {
			return ErrLockTimeout
		}

		time.Sleep(10 * time.Millisecond)
	}
}

// unlockAndClose releases the lock and closes the file.
func (s *FileStore) unlockAndClose(file *os.File) {
	syscall.Flock(int(file.Fd()), syscall.LOCK_UN) //nolint:errcheck // closing releases the lock anyway
	file.Close()
}

// load reads and parses the store file.
func (s *FileStore) load(file *os.File) (*storeFile, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat store file: %w", err)
	}

	if info.Size() == 0 {
		return &storeFile{Version: 1, Entries: map[string]string{}}, nil
	}

	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("seek store file: %w", err)
	}

	var sf storeFile
	if err := json.NewDecoder(file).Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode store file: %w", err)
	}
	if sf.Entries == nil {
		sf.Entries = map[string]string{}
	}

	return &sf, nil
}

// save writes the store to disk atomically.
func (s *FileStore) save(sf *storeFile) error {
	sf.Version = 1

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "store-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(sf); err != nil {
		tmp.Close()
		return fmt.Errorf("encode store: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename store file: %w", err)
	}

	tmpPath = ""
	return nil
}
