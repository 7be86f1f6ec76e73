package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenTee_Write(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "serve.log")

	primary := &bytes.Buffer{}
	tw, err := OpenTee(primary, logPath)
	require.NoError(t, err)

	n, err := tw.Write([]byte("first\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	_, err = tw.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	assert.Equal(t, "first\nsecond\n", primary.String())

	//nolint:gosec // G304: test temp directory
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestOpenTee_CreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "serve.log")

	tw, err := OpenTee(nil, logPath)
	require.NoError(t, err)
	defer tw.Close()

	assert.FileExists(t, logPath)
}

func TestOpenTee_Appends(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "serve.log")
	require.NoError(t, os.WriteFile(logPath, []byte("earlier run\n"), 0o600))

	tw, err := OpenTee(nil, logPath)
	require.NoError(t, err)

	n, err := tw.Write([]byte("this run\n"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	require.NoError(t, tw.Close())

	//nolint:gosec // G304: test temp directory
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "earlier run\nthis run\n", string(data))
}

func TestTeeWriter_Close(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "serve.log")

	primary := &bytes.Buffer{}
	tw, err := OpenTee(primary, logPath)
	require.NoError(t, err)
	assert.Equal(t, logPath, tw.Path())

	require.NoError(t, tw.Close())
	assert.Empty(t, tw.Path())

	t.Run("close twice is a no-op", func(t *testing.T) {
		assert.NoError(t, tw.Close())
	})

	t.Run("writes after close reach the primary only", func(t *testing.T) {
		_, err := tw.Write([]byte("late\n"))
		require.NoError(t, err)
		assert.Equal(t, "late\n", primary.String())

		//nolint:gosec // G304: test temp directory
		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("sync after close", func(t *testing.T) {
		assert.NoError(t, tw.Sync())
	})
}
