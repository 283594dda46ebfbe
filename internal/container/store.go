package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/samber/do"
	"github.com/serroba/linkshare/internal/db"
	"github.com/serroba/linkshare/internal/shortener"
	"github.com/serroba/linkshare/internal/store"
	"go.uber.org/zap"
)

// RepositoryPackage provides the shortener.Repository selected by Options.Store,
// optionally fronted by a Redis read cache.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, NewAllocator)
	do.Provide(i, NewRepository)
}

// NewAllocator builds the key allocator from the configured strategy.
func NewAllocator(i *do.Injector) (*shortener.Allocator, error) {
	opts := do.MustInvoke[*Options](i)

	generator, err := shortener.NewKeyGenerator(shortener.Strategy(opts.KeyStrategy), opts.KeyLength)
	if err != nil {
		return nil, err
	}

	return shortener.NewAllocator(generator, opts.KeyAttempts), nil
}

// NewRepository opens the configured backend, migrating SQL schemas first.
func NewRepository(i *do.Injector) (shortener.Repository, error) {
	opts := do.MustInvoke[*Options](i)
	logger := do.MustInvoke[*zap.Logger](i)

	allocator, err := do.Invoke[*shortener.Allocator](i)
	if err != nil {
		return nil, err
	}

	var repo shortener.Repository

	switch opts.Store {
	case StoreMemory, "":
		return store.NewMemoryStore(allocator), nil
	case StoreRedis:
		client := do.MustInvoke[*RedisClient](i)

		return store.NewRedisStore(client.Client, allocator), nil
	case StoreSQLite:
		conn, err := db.OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}

		if err := db.Migrate(context.Background(), conn.DB, db.DialectSQLite); err != nil {
			_ = conn.Close()

			return nil, err
		}

		repo = store.NewSQLiteStore(conn, allocator)
	case StorePostgres:
		pool := do.MustInvoke[*PostgresPool](i)

		if err := migratePostgres(context.Background(), pool.Pool); err != nil {
			return nil, err
		}

		repo = store.NewPostgresStore(pool.Pool, allocator)
	case StoreBolt:
		conn, err := store.OpenBolt(opts.BoltPath)
		if err != nil {
			return nil, err
		}

		repo = store.NewBoltStore(conn, allocator)
	default:
		return nil, fmt.Errorf("unknown store %q", opts.Store)
	}

	if opts.CacheTTLSeconds > 0 {
		client := do.MustInvoke[*RedisClient](i)
		ttl := time.Duration(opts.CacheTTLSeconds) * time.Second
		repo = store.NewRedisCacheRepository(repo, client.Client, ttl)

		logger.Info("redis read cache enabled", zap.Duration("ttl", ttl))
	}

	logger.Info("store ready", zap.String("store", opts.Store))

	return repo, nil
}

// migratePostgres runs the migrations over a database/sql view of pool and
// closes that view afterwards. The pool itself stays open.
func migratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	conn := stdlib.OpenDBFromPool(pool)
	defer conn.Close()

	return db.Migrate(ctx, conn, db.DialectPostgres)
}
