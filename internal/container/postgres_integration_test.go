//go:build integration

package container_test

import (
	"context"
	"testing"
	"time"

	"github.com/samber/do"
	"github.com/serroba/linkshare/internal/container"
	"github.com/serroba/linkshare/internal/shortener"
	"github.com/serroba/linkshare/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRepositoryPackage_Postgres(t *testing.T) {
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("linkshare"),
		postgres.WithUsername("linkshare"),
		postgres.WithPassword("linkshare"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("PostgreSQL container not available: %v", err)
	}

	t.Cleanup(func() { _ = testcontainers.TerminateContainer(pg) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	opts := testOptions(t)
	opts.Store = container.StorePostgres
	opts.DatabaseURL = dsn

	for range 2 {
		injector := do.New()
		do.ProvideValue(injector, opts)
		container.LoggerPackage(injector)
		container.PostgresPackage(injector)
		container.RepositoryPackage(injector)

		repo := do.MustInvoke[shortener.Repository](injector)
		require.IsType(t, &store.PostgresStore{}, repo)

		_, _, err := repo.PutIfAbsent(ctx, "news", "https://a.com/")
		require.NoError(t, err)

		pool := do.MustInvoke[*container.PostgresPool](injector)
		assert.NoError(t, pool.Ping(ctx), "pool stays usable after migrating")
		assert.Zero(t, pool.Stat().AcquiredConns())

		require.NoError(t, injector.Shutdown())
	}
}
