// Package storetest holds the behavioural suite every shortener.Repository
// backend must pass.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/serroba/linkshare/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory builds an empty repository whose allocator uses generator and attempts.
type Factory func(t *testing.T, generator shortener.KeyGenerator, attempts int) shortener.Repository

// FixedGenerator hands out Keys[attempt], repeating the last one once exhausted.
type FixedGenerator struct {
	Keys []shortener.Key
}

func (g FixedGenerator) Key(_ shortener.Namespace, _ string, attempt int) shortener.Key {
	if attempt >= len(g.Keys) {
		return g.Keys[len(g.Keys)-1]
	}

	return g.Keys[attempt]
}

// Run exercises newStore against the repository contract.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	hash := func(t *testing.T) shortener.KeyGenerator {
		t.Helper()

		gen, err := shortener.NewHashKeyGenerator(shortener.DefaultKeyLength)
		require.NoError(t, err)

		return gen
	}

	t.Run("creates entry on first put", func(t *testing.T) {
		s := newStore(t, hash(t), shortener.DefaultKeyAttempts)
		before := time.Now().UTC().Add(-time.Second)

		entry, created, err := s.PutIfAbsent(context.Background(), "team", "https://example.com/")

		require.NoError(t, err)
		assert.True(t, created)
		assert.Len(t, string(entry.Key), shortener.DefaultKeyLength)
		assert.Equal(t, shortener.Namespace("team"), entry.Namespace)
		assert.Equal(t, "https://example.com/", entry.TargetURL)
		assert.Equal(t, time.UTC, entry.CreatedAt.Location())
		assert.WithinRange(t, entry.CreatedAt, before, time.Now().UTC().Add(time.Second))
	})

	t.Run("returns existing entry on repeated put", func(t *testing.T) {
		s := newStore(t, hash(t), shortener.DefaultKeyAttempts)

		first, created, err := s.PutIfAbsent(context.Background(), "team", "https://example.com/")
		require.NoError(t, err)
		require.True(t, created)

		second, created, err := s.PutIfAbsent(context.Background(), "team", "https://example.com/")
		require.NoError(t, err)

		assert.False(t, created)
		assert.Equal(t, first.Key, second.Key)
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	})

	t.Run("get returns stored entry", func(t *testing.T) {
		s := newStore(t, hash(t), shortener.DefaultKeyAttempts)

		stored, _, err := s.PutIfAbsent(context.Background(), "team", "https://example.com/a")
		require.NoError(t, err)

		got, err := s.Get(context.Background(), "team", stored.Key)
		require.NoError(t, err)

		assert.Equal(t, stored.Key, got.Key)
		assert.Equal(t, stored.Namespace, got.Namespace)
		assert.Equal(t, stored.TargetURL, got.TargetURL)
		assert.True(t, stored.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("get unknown key returns ErrNotFound", func(t *testing.T) {
		s := newStore(t, hash(t), shortener.DefaultKeyAttempts)

		_, _, err := s.PutIfAbsent(context.Background(), "team", "https://example.com/")
		require.NoError(t, err)

		_, err = s.Get(context.Background(), "team", "missing1")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("get unknown namespace returns ErrNotFound", func(t *testing.T) {
		s := newStore(t, hash(t), shortener.DefaultKeyAttempts)

		_, err := s.Get(context.Background(), "nobody", "missing1")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		s := newStore(t, hash(t), shortener.DefaultKeyAttempts)

		a, created, err := s.PutIfAbsent(context.Background(), "alpha", "https://example.com/")
		require.NoError(t, err)
		assert.True(t, created)

		b, created, err := s.PutIfAbsent(context.Background(), "beta", "https://example.com/")
		require.NoError(t, err)
		assert.True(t, created)

		_, err = s.Get(context.Background(), "beta", a.Key)
		if a.Key != b.Key {
			assert.ErrorIs(t, err, shortener.ErrNotFound)
		}

		got, err := s.Get(context.Background(), "alpha", a.Key)
		require.NoError(t, err)
		assert.Equal(t, shortener.Namespace("alpha"), got.Namespace)
	})

	t.Run("retries when key belongs to another url", func(t *testing.T) {
		gen := FixedGenerator{Keys: []shortener.Key{"coll1111", "next2222"}}
		s := newStore(t, gen, shortener.DefaultKeyAttempts)

		first, _, err := s.PutIfAbsent(context.Background(), "team", "https://one.example/")
		require.NoError(t, err)
		require.Equal(t, shortener.Key("coll1111"), first.Key)

		second, created, err := s.PutIfAbsent(context.Background(), "team", "https://two.example/")
		require.NoError(t, err)

		assert.True(t, created)
		assert.Equal(t, shortener.Key("next2222"), second.Key)

		got, err := s.Get(context.Background(), "team", "coll1111")
		require.NoError(t, err)
		assert.Equal(t, "https://one.example/", got.TargetURL)
	})

	t.Run("fails when every candidate key is taken", func(t *testing.T) {
		gen := FixedGenerator{Keys: []shortener.Key{"same1111"}}
		s := newStore(t, gen, 3)

		_, _, err := s.PutIfAbsent(context.Background(), "team", "https://one.example/")
		require.NoError(t, err)

		_, _, err = s.PutIfAbsent(context.Background(), "team", "https://two.example/")
		assert.ErrorIs(t, err, shortener.ErrKeySpaceExhausted)

		got, err := s.Get(context.Background(), "team", "same1111")
		require.NoError(t, err)
		assert.Equal(t, "https://one.example/", got.TargetURL)
	})

	t.Run("concurrent puts of one url create a single entry", func(t *testing.T) {
		s := newStore(t, hash(t), shortener.DefaultKeyAttempts)

		const workers = 16

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			keys    = make(map[shortener.Key]int)
			creates int
			errs    []error
		)

		for range workers {
			wg.Add(1)

			go func() {
				defer wg.Done()

				entry, created, err := s.PutIfAbsent(context.Background(), "race", "https://example.com/race")

				mu.Lock()
				defer mu.Unlock()

				if err != nil {
					errs = append(errs, err)

					return
				}

				keys[entry.Key]++

				if created {
					creates++
				}
			}()
		}

		wg.Wait()

		require.Empty(t, errs)
		assert.Equal(t, 1, creates)
		assert.Len(t, keys, 1)
	})

	t.Run("concurrent puts of distinct urls all succeed", func(t *testing.T) {
		s := newStore(t, hash(t), shortener.DefaultKeyAttempts)

		const workers = 16

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			keys = make(map[shortener.Key]string)
			errs []error
		)

		for i := range workers {
			wg.Add(1)

			go func() {
				defer wg.Done()

				target := fmt.Sprintf("https://example.com/%d", i)
				entry, _, err := s.PutIfAbsent(context.Background(), "many", target)

				mu.Lock()
				defer mu.Unlock()

				if err != nil {
					errs = append(errs, err)

					return
				}

				keys[entry.Key] = target
			}()
		}

		wg.Wait()

		require.Empty(t, errs)
		assert.Len(t, keys, workers)

		for key, target := range keys {
			got, err := s.Get(context.Background(), "many", key)
			require.NoError(t, err)
			assert.Equal(t, target, got.TargetURL)
		}
	})
}
