package shortener_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/linkshare/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sequenceGenerator struct{}

func (sequenceGenerator) Key(_ shortener.Namespace, _ string, attempt int) shortener.Key {
	return shortener.Key([]string{"key0", "key1", "key2", "key3", "key4", "key5"}[attempt])
}

func TestAllocator_Allocate(t *testing.T) {
	t.Run("returns first claimed key", func(t *testing.T) {
		a := shortener.NewAllocator(sequenceGenerator{}, 3)

		var tried []shortener.Key

		entry, created, err := a.Allocate(context.Background(), "news", "https://a.com/",
			func(_ context.Context, key shortener.Key) (*shortener.Entry, bool, error) {
				tried = append(tried, key)

				if key == "key0" {
					return nil, false, nil
				}

				return &shortener.Entry{Key: key}, true, nil
			})

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, shortener.Key("key1"), entry.Key)
		assert.Equal(t, []shortener.Key{"key0", "key1"}, tried)
	})

	t.Run("reports existing entry from claim", func(t *testing.T) {
		a := shortener.NewAllocator(sequenceGenerator{}, 3)

		entry, created, err := a.Allocate(context.Background(), "news", "https://a.com/",
			func(_ context.Context, key shortener.Key) (*shortener.Entry, bool, error) {
				return &shortener.Entry{Key: "existing"}, false, nil
			})

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, shortener.Key("existing"), entry.Key)
	})

	t.Run("gives up after the attempt bound", func(t *testing.T) {
		a := shortener.NewAllocator(sequenceGenerator{}, 4)
		calls := 0

		_, _, err := a.Allocate(context.Background(), "news", "https://a.com/",
			func(context.Context, shortener.Key) (*shortener.Entry, bool, error) {
				calls++

				return nil, false, nil
			})

		assert.ErrorIs(t, err, shortener.ErrKeySpaceExhausted)
		assert.Equal(t, 4, calls)
	})

	t.Run("non-positive attempts use default", func(t *testing.T) {
		a := shortener.NewAllocator(sequenceGenerator{}, 0)
		calls := 0

		_, _, err := a.Allocate(context.Background(), "news", "https://a.com/",
			func(context.Context, shortener.Key) (*shortener.Entry, bool, error) {
				calls++

				return nil, false, nil
			})

		assert.ErrorIs(t, err, shortener.ErrKeySpaceExhausted)
		assert.Equal(t, shortener.DefaultKeyAttempts, calls)
	})

	t.Run("propagates claim errors", func(t *testing.T) {
		a := shortener.NewAllocator(sequenceGenerator{}, 3)
		boom := errors.New("boom")

		_, _, err := a.Allocate(context.Background(), "news", "https://a.com/",
			func(context.Context, shortener.Key) (*shortener.Entry, bool, error) {
				return nil, false, boom
			})

		assert.ErrorIs(t, err, boom)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		a := shortener.NewAllocator(sequenceGenerator{}, 3)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := a.Allocate(ctx, "news", "https://a.com/",
			func(context.Context, shortener.Key) (*shortener.Entry, bool, error) {
				t.Fatal("claim must not run")

				return nil, false, nil
			})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
