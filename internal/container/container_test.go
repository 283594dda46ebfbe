package container_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/linkshare/internal/analytics"
	"github.com/serroba/linkshare/internal/container"
	"github.com/serroba/linkshare/internal/shortener"
	"github.com/serroba/linkshare/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(t *testing.T) *container.Options {
	t.Helper()

	return &container.Options{
		LogFormat:   "console",
		LogLevel:    "error",
		Store:       container.StoreMemory,
		KeyStrategy: "hash",
		KeyLength:   8,
		KeyAttempts: 5,
		StaticDir:   t.TempDir(),
		Events:      container.EventsNone,
	}
}

func newInjector(t *testing.T, opts *container.Options) *do.Injector {
	t.Helper()

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.RepositoryPackage(injector)
	container.ServicePackage(injector)
	container.EventsPackage(injector)
	container.HTTPPackage(injector)

	t.Cleanup(func() { _ = injector.Shutdown() })

	return injector
}

func serve(t *testing.T, injector *do.Injector, target string) *httptest.ResponseRecorder {
	t.Helper()

	router := do.MustInvoke[*chi.Mux](injector)
	_ = do.MustInvoke[huma.API](injector)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	return w
}

func TestNewLogger(t *testing.T) {
	t.Run("console and json", func(t *testing.T) {
		for _, format := range []string{"console", "json"} {
			logger, err := container.NewLogger(format, "info")
			require.NoError(t, err)
			assert.NotNil(t, logger)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := container.NewLogger("xml", "info")
		assert.Error(t, err)
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := container.NewLogger("console", "loud")
		assert.Error(t, err)
	})
}

func TestRepositoryPackage(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		injector := newInjector(t, testOptions(t))

		repo := do.MustInvoke[shortener.Repository](injector)
		assert.IsType(t, &store.MemoryStore{}, repo)
	})

	t.Run("sqlite migrates on open", func(t *testing.T) {
		opts := testOptions(t)
		opts.Store = container.StoreSQLite
		opts.SQLitePath = filepath.Join(t.TempDir(), "linkshare.db")

		injector := newInjector(t, opts)

		repo := do.MustInvoke[shortener.Repository](injector)
		require.IsType(t, &store.SQLiteStore{}, repo)

		entry, created, err := repo.PutIfAbsent(t.Context(), "news", "https://a.com/")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, shortener.Namespace("news"), entry.Namespace)
	})

	t.Run("bolt", func(t *testing.T) {
		opts := testOptions(t)
		opts.Store = container.StoreBolt
		opts.BoltPath = filepath.Join(t.TempDir(), "linkshare.bolt")

		injector := newInjector(t, opts)

		assert.IsType(t, &store.BoltStore{}, do.MustInvoke[shortener.Repository](injector))
	})

	t.Run("unknown store", func(t *testing.T) {
		opts := testOptions(t)
		opts.Store = "floppy"

		_, err := do.Invoke[shortener.Repository](newInjector(t, opts))
		assert.Error(t, err)
	})

	t.Run("unknown key strategy", func(t *testing.T) {
		opts := testOptions(t)
		opts.KeyStrategy = "dice"

		_, err := do.Invoke[shortener.Repository](newInjector(t, opts))
		assert.Error(t, err)
	})
}

func TestEventsPackage(t *testing.T) {
	t.Run("memory events start in-process consumers", func(t *testing.T) {
		opts := testOptions(t)
		opts.Events = container.EventsMemory

		events := do.MustInvoke[*container.Events](newInjector(t, opts))

		require.NotNil(t, events.Shared)
		require.NotNil(t, events.Viewed)
		assert.NotNil(t, events.Analytics)
	})

	t.Run("disabled events keep no tally", func(t *testing.T) {
		events := do.MustInvoke[*container.Events](newInjector(t, testOptions(t)))

		assert.NoError(t, events.Shared(t.Context(), &analytics.EntrySharedEvent{Namespace: "news"}))
		assert.Nil(t, events.Analytics)
	})

	t.Run("unknown mode", func(t *testing.T) {
		opts := testOptions(t)
		opts.Events = "carrier-pigeon"

		_, err := do.Invoke[*container.Events](newInjector(t, opts))
		assert.Error(t, err)
	})
}

func TestHTTPPackage(t *testing.T) {
	opts := testOptions(t)
	opts.Events = container.EventsMemory
	require.NoError(t, os.WriteFile(filepath.Join(opts.StaticDir, "index.html"), []byte("<h1>links</h1>"), 0o600))

	injector := newInjector(t, opts)

	t.Run("share then show", func(t *testing.T) {
		w := serve(t, injector, "/k/share/get/News?url="+url.QueryEscape("https://example.com/a"))
		require.Equal(t, http.StatusCreated, w.Code)

		var shared struct {
			Key string `json:"key"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shared))

		w = serve(t, injector, "/k/show/json/news/"+shared.Key)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"target_url":"https://example.com/a"`)

		tally := do.MustInvoke[*container.Events](injector).Analytics
		require.NotNil(t, tally)
		assert.Eventually(t, func() bool {
			return tally.Shares("news", shared.Key) == 1 && tally.Views("news", shared.Key) == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("health reports the store", func(t *testing.T) {
		w := serve(t, injector, "/health")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"store":"healthy"`)
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		w := serve(t, injector, "/metrics")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "linkshare_shares_total")
	})

	t.Run("static files and plain 404", func(t *testing.T) {
		assert.Contains(t, serve(t, injector, "/").Body.String(), "<h1>links</h1>")

		w := serve(t, injector, "/nope")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
