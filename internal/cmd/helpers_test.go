package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/bookworm/internal/book"
	"github.com/jmgilman/bookworm/internal/catalog"
)

func TestParseBookID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"1342", 1342, false},
		{"1", 1, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"12.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseBookID(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		width int
		want  string
	}{
		{"short string unchanged", "Emma", 10, "Emma"},
		{"exact width unchanged", "Emma", 4, "Emma"},
		{"long string cut", "Pride and Prejudice", 10, "Pride a..."},
		{"runes are not split", "Les Misérables", 8, "Les M..."},
		{"tiny width", "Dracula", 2, "Dr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.s, tt.width))
		})
	}
}

func TestRequireCatalog(t *testing.T) {
	_, err := requireCatalog(context.Background())
	assert.Error(t, err)

	ctrl := catalog.NewController(nil, nil, catalog.Config{})
	got, err := requireCatalog(WithCatalog(context.Background(), ctrl))
	require.NoError(t, err)
	assert.Same(t, ctrl, got)
}

func TestLoadProgress_WithoutSpinner(t *testing.T) {
	p := &loadProgress{}

	assert.NotPanics(t, func() {
		p.handle(catalog.Event{Kind: catalog.EventLoading, Origin: catalog.OriginCache})
		p.handle(catalog.Event{Kind: catalog.EventLoaded, Count: 9})
		p.handle(catalog.Event{Kind: catalog.EventFailed, Err: errors.New("boom")})
	})
}

func TestWithSpinner_NotATerminal(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())

	called := false
	err := withSpinner(cmd, func() error {
		called = true
		return book.ErrNetwork
	})

	assert.True(t, called)
	assert.ErrorIs(t, err, book.ErrNetwork)
}

func TestWriteBookDetails(t *testing.T) {
	b := &book.Book{
		ID:            1342,
		Title:         "Pride and Prejudice",
		Authors:       []book.Person{{Name: "Austen, Jane"}},
		Subjects:      []string{"Love stories", "England -- Fiction"},
		Languages:     []string{"en"},
		Formats:       map[string]string{"image/jpeg": "https://example.org/1342.jpg"},
		DownloadCount: 42,
	}

	t.Run("full record", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeBookDetails(&buf, b, true))

		out := buf.String()
		assert.Contains(t, out, "Pride and Prejudice\n")
		assert.Regexp(t, `id:\s+1342`, out)
		assert.Regexp(t, `author:\s+Austen, Jane`, out)
		assert.Regexp(t, `genre:\s+Love stories`, out)
		assert.Regexp(t, `languages:\s+en`, out)
		assert.Regexp(t, `downloads:\s+42`, out)
		assert.Regexp(t, `cover:\s+https://example.org/1342.jpg`, out)
		assert.Regexp(t, `wishlist:\s+♥`, out)
		assert.Contains(t, out, "subjects:\n    - Love stories\n    - England -- Fiction\n")
		assert.Contains(t, out, "formats:\n    - image/jpeg\n")
		assert.NotContains(t, out, "copyright:")
	})

	t.Run("several authors with life years", func(t *testing.T) {
		born, died := 1797, 1851
		copyrighted := false
		b := &book.Book{
			ID:    84,
			Title: "Frankenstein",
			Authors: []book.Person{
				{Name: "Shelley, Mary Wollstonecraft", BirthYear: &born, DeathYear: &died},
				{Name: "Anonymous"},
			},
			Bookshelves: []string{"Gothic Fiction"},
			Copyright:   &copyrighted,
		}

		var buf bytes.Buffer
		require.NoError(t, writeBookDetails(&buf, b, false))

		out := buf.String()
		assert.Contains(t, out, "authors:\n    - Shelley, Mary Wollstonecraft (1797-1851)\n    - Anonymous\n")
		assert.Contains(t, out, "bookshelves:\n    - Gothic Fiction\n")
		assert.Regexp(t, `copyright:\s+false`, out)
	})

	t.Run("single author with one known year", func(t *testing.T) {
		born := 1812
		b := &book.Book{ID: 1, Title: "T", Authors: []book.Person{{Name: "Dickens, Charles", BirthYear: &born}}}

		var buf bytes.Buffer
		require.NoError(t, writeBookDetails(&buf, b, false))
		assert.Regexp(t, `lived:\s+1812-\?`, buf.String())
	})

	t.Run("sparse record", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeBookDetails(&buf, &book.Book{ID: 7, Title: "Anonymous Tales"}, false))

		out := buf.String()
		assert.Regexp(t, `author:\s+Unknown`, out)
		assert.Regexp(t, `genre:\s+Uncategorized`, out)
		assert.NotContains(t, out, "cover:")
		assert.NotContains(t, out, "wishlist:")
		assert.NotContains(t, out, "subjects:")
	})
}
