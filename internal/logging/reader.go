package logging

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultTailLines is how many lines Tail returns when asked for n <= 0.
const DefaultTailLines = 50

// Tail returns the last n lines of the file at path.
func Tail(path string, n int) ([]string, error) {
	if n <= 0 {
		n = DefaultTailLines
	}

	//nolint:gosec // G304: path comes from the config
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	// Ring buffer of the last n lines.
	ring := make([]string, n)
	next, count := 0, 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % n
		count++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log file: %w", err)
	}

	if count < n {
		return ring[:count], nil
	}
	lines := make([]string, n)
	for i := range n {
		lines[i] = ring[(next+i)%n]
	}
	return lines, nil
}

// Follow copies lines appended to the file at path into out, polling every
// interval, until ctx is cancelled. It starts at the current end of the file.
func Follow(ctx context.Context, path string, out io.Writer, interval time.Duration) error {
	//nolint:gosec // G304: path comes from the config
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek log file: %w", err)
	}

	r := bufio.NewReader(f)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		for {
			line, err := r.ReadBytes('\n')
			if len(line) > 0 {
				if _, werr := out.Write(line); werr != nil {
					return fmt.Errorf("write output: %w", werr)
				}
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return fmt.Errorf("read log file: %w", err)
			}
		}
	}
}
