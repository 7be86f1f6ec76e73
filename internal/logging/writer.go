// Package logging keeps a copy of the server log on disk and reads it back
// for the logs command.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// TeeWriter copies everything written to the primary writer into a log file.
type TeeWriter struct {
	mu      sync.Mutex
	primary io.Writer
	file    *os.File
}

// OpenTee appends to the log file at path, creating it and its directory
// when missing. A nil primary writes to the file only.
func OpenTee(primary io.Writer, path string) (*TeeWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	//nolint:gosec // G302/G304: path comes from the config; 0644 suits log rotation tools
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &TeeWriter{primary: primary, file: f}, nil
}

// Write writes p to the log file, then to the primary writer.
func (t *TeeWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file != nil {
		if _, err := t.file.Write(p); err != nil {
			return 0, fmt.Errorf("write log file: %w", err)
		}
	}
	if t.primary != nil {
		return t.primary.Write(p)
	}
	return len(p), nil
}

// Sync flushes the log file to disk.
func (t *TeeWriter) Sync() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		return nil
	}
	return t.file.Sync()
}

// Close closes the log file. The primary writer stays open. Later writes go
// to the primary writer only.
func (t *TeeWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// Path returns the log file path, or "" once closed.
func (t *TeeWriter) Path() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		return ""
	}
	return t.file.Name()
}
