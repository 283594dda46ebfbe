package shortener_test

import (
	"context"
	"strings"
	"testing"

	"github.com/serroba/linkshare/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowService_Show(t *testing.T) {
	share, show := newServices(t)

	res, err := share.Share(context.Background(), "news", "https://example.com/story")
	require.NoError(t, err)

	key := string(res.Entry.Key)

	t.Run("renders every format", func(t *testing.T) {
		for _, format := range []shortener.Format{shortener.FormatJSON, shortener.FormatHTML, shortener.FormatRSS} {
			out, err := show.Show(context.Background(), "news", key, format)

			require.NoError(t, err, format)
			assert.Equal(t, format, out.Format)
			assert.Contains(t, string(out.Body), "https://example.com/story")
		}
	})

	t.Run("namespace lookup is case-insensitive", func(t *testing.T) {
		out, err := show.Show(context.Background(), "NEWS", key, shortener.FormatJSON)

		require.NoError(t, err)
		assert.Equal(t, res.Entry.Key, out.Entry.Key)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := show.Show(context.Background(), "news", "nonexistent-key", shortener.FormatJSON)

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("unknown namespace", func(t *testing.T) {
		_, err := show.Show(context.Background(), "sports", key, shortener.FormatJSON)

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("malformed namespace is not found", func(t *testing.T) {
		_, err := show.Show(context.Background(), "bad.ns", key, shortener.FormatHTML)

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("oversized key is not found", func(t *testing.T) {
		_, err := show.Show(context.Background(), "news", strings.Repeat("k", shortener.MaxKeyLength+1), shortener.FormatRSS)

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := show.Show(context.Background(), "news", key, "pdf")

		assert.ErrorIs(t, err, shortener.ErrUnknownFormat)
	})
}
