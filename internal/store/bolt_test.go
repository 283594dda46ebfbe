package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/serroba/linkshare/internal/shortener"
	"github.com/serroba/linkshare/internal/store"
	"github.com/serroba/linkshare/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoltStore(t *testing.T, gen shortener.KeyGenerator, attempts int) shortener.Repository {
	t.Helper()

	db, err := store.OpenBolt(filepath.Join(t.TempDir(), "entries.db"))
	require.NoError(t, err)

	s := store.NewBoltStore(db, shortener.NewAllocator(gen, attempts))
	t.Cleanup(func() { _ = s.Shutdown() })

	return s
}

func TestBoltStore(t *testing.T) {
	storetest.Run(t, newBoltStore)
}

func TestBoltStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.db")

	gen, err := shortener.NewHashKeyGenerator(shortener.DefaultKeyLength)
	require.NoError(t, err)

	db, err := store.OpenBolt(path)
	require.NoError(t, err)

	s := store.NewBoltStore(db, shortener.NewAllocator(gen, 1))

	stored, _, err := s.PutIfAbsent(context.Background(), "team", "https://example.com/")
	require.NoError(t, err)
	require.NoError(t, s.Shutdown())

	db, err = store.OpenBolt(path)
	require.NoError(t, err)

	reopened := store.NewBoltStore(db, shortener.NewAllocator(gen, 1))
	t.Cleanup(func() { _ = reopened.Shutdown() })

	got, err := reopened.Get(context.Background(), "team", stored.Key)
	require.NoError(t, err)
	assert.Equal(t, stored.TargetURL, got.TargetURL)
	assert.True(t, stored.CreatedAt.Equal(got.CreatedAt))

	again, created, err := reopened.PutIfAbsent(context.Background(), "team", "https://example.com/")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, stored.Key, again.Key)
}

func TestBoltStore_PingAfterShutdown(t *testing.T) {
	db, err := store.OpenBolt(filepath.Join(t.TempDir(), "entries.db"))
	require.NoError(t, err)

	s := store.NewBoltStore(db, nil)

	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Shutdown())
	assert.Error(t, s.Ping(context.Background()))
}
